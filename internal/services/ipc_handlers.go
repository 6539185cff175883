// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package services

import (
	"context"

	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/ipc"
	"github.com/talkframe/ptt/session"
)

// registerIPCHandlers wires the CLI companion's five commands onto the
// shared session.Machine, matching the request/response shapes
// cmd/speak-to-ai's CLI client expects.
func (c *Container) registerIPCHandlers() {
	c.IPC.Register("start-recording", c.handleStartRecording)
	c.IPC.Register("stop-recording", c.handleStopRecording)
	c.IPC.Register("toggle-recording", c.handleToggleRecording)
	c.IPC.Register("status", c.handleStatus)
	c.IPC.Register("last-transcript", c.handleLastTranscript)
}

func (c *Container) handleStartRecording(_ ipc.Request) (ipc.Response, error) {
	if err := c.Machine.Press(context.Background(), config.SessionSettings(c.Config)); err != nil {
		return ipc.NewErrorResponse(err.Error()), nil
	}
	return ipc.NewSuccessResponse("recording started", nil), nil
}

func (c *Container) handleStopRecording(_ ipc.Request) (ipc.Response, error) {
	if err := c.Machine.Release(context.Background()); err != nil {
		return ipc.NewErrorResponse(err.Error()), nil
	}
	data := map[string]string{
		"transcript": c.status.LastTranscript(),
		"warning":    c.status.Warning(),
	}
	return ipc.NewSuccessResponse("recording stopped", data), nil
}

func (c *Container) handleToggleRecording(req ipc.Request) (ipc.Response, error) {
	if c.Machine.State() == session.StateRecording {
		resp, err := c.handleStopRecording(req)
		if err != nil {
			return resp, err
		}
		data, _ := resp.Data.(map[string]string)
		return ipc.NewSuccessResponse(resp.Message, map[string]interface{}{
			"recording":  false,
			"transcript": data["transcript"],
			"warning":    data["warning"],
		}), nil
	}
	resp, err := c.handleStartRecording(req)
	if err != nil {
		return resp, err
	}
	return ipc.NewSuccessResponse(resp.Message, map[string]interface{}{"recording": true}), nil
}

func (c *Container) handleStatus(_ ipc.Request) (ipc.Response, error) {
	data := map[string]interface{}{
		"recording":       c.Machine.State() == session.StateRecording,
		"last_transcript": c.status.LastTranscript(),
		"config": map[string]string{
			"model":       c.Config.General.ActiveModel,
			"language":    c.Config.General.Language,
			"output_mode": c.Config.Output.DefaultMode,
		},
		"hotkeys": map[string]string{
			"start_stop":  c.Config.Hotkeys.StartStop,
			"show_config": c.Config.Hotkeys.ShowConfig,
		},
		"websocket": map[string]interface{}{
			"enabled": c.Config.WebServer.Enabled,
			"host":    c.Config.WebServer.Host,
			"port":    c.Config.WebServer.Port,
		},
	}
	return ipc.NewSuccessResponse("ok", data), nil
}

func (c *Container) handleLastTranscript(_ ipc.Request) (ipc.Response, error) {
	transcript := c.status.LastTranscript()
	if transcript == "" {
		return ipc.NewSuccessResponse("no transcript available", map[string]string{"transcript": ""}), nil
	}
	return ipc.NewSuccessResponse("ok", map[string]string{"transcript": transcript}), nil
}
