// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package services wires the standalone collaborator packages (session,
// asr, audio/*, streaming, events, output, hotkeys, tray, notify, ipc,
// websocket) into a single running daemon.
package services

import (
	"context"
	"fmt"

	"github.com/talkframe/ptt/asr"
	"github.com/talkframe/ptt/audio/supervisor"
	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/events"
	"github.com/talkframe/ptt/hotkeys/adapters"
	"github.com/talkframe/ptt/hotkeys/manager"
	"github.com/talkframe/ptt/internal/ipc"
	"github.com/talkframe/ptt/internal/logger"
	"github.com/talkframe/ptt/internal/notify"
	"github.com/talkframe/ptt/internal/platform"
	"github.com/talkframe/ptt/internal/tray"
	"github.com/talkframe/ptt/internal/utils"
	"github.com/talkframe/ptt/output"
	"github.com/talkframe/ptt/session"
	"github.com/talkframe/ptt/streaming"
	"github.com/talkframe/ptt/websocket"
)

const defaultSampleRate = 16000

// Container owns every long-lived collaborator the daemon wires together
// and their start/stop lifecycle.
type Container struct {
	Config *config.Config
	Log    logger.Logger

	Bus          *events.Bus
	Supervisor   *supervisor.Supervisor
	Engine       *asr.Engine
	Orchestrator *streaming.Orchestrator
	Machine      *session.Machine
	Output       *output.Sink
	Hotkeys      *manager.HotkeyManager
	Tray         tray.TrayManagerInterface
	Notify       *notify.NotificationManager
	IPC          *ipc.Server
	WebSocket    *websocket.WebSocketServer

	status *statusSink
}

// NewContainer builds and wires every collaborator from cfg but does not
// start any of them.
func NewContainer(cfg *config.Config, log logger.Logger) (*Container, error) {
	bus := events.NewBus()

	sampleRate := cfg.Audio.SampleRate
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	captureSupervisor := supervisor.New(sampleRate, log)

	resolver := asr.NewPathResolver(cfg)
	engine := asr.New(resolver, log)
	orchestrator := streaming.New(engine, bus)

	machine := session.New(captureSupervisor, orchestrator, engine, bus, log)

	outSink, err := output.NewSink(cfg)
	if err != nil {
		return nil, fmt.Errorf("services: build output sink: %w", err)
	}
	machine.SetClipboard(outSink)
	machine.SetInjection(outSink, cfg.Output.AutoPaste)

	status := newStatusSink()
	machine.SetHistory(status)

	env := platform.DetectEnvironment()
	hotkeyCfg := adapters.NewConfigAdapter(cfg.Hotkeys.StartStop, cfg.Hotkeys.Provider).
		WithAdditionalHotkeys(cfg.Hotkeys.ShowConfig, cfg.Hotkeys.ResetToDefaults)
	hkManager := manager.NewHotkeyManager(hotkeyCfg, hotkeyEnvironment(env), log)

	trayManager := tray.CreateTrayManagerWithConfig(cfg, log)
	notifier := notify.NewNotificationManager("talkframe-ptt", cfg)

	socketPath := utils.GetDefaultSocketPath()
	ipcServer := ipc.NewServer(socketPath, log)

	c := &Container{
		Config:       cfg,
		Log:          log,
		Bus:          bus,
		Supervisor:   captureSupervisor,
		Engine:       engine,
		Orchestrator: orchestrator,
		Machine:      machine,
		Output:       outSink,
		Hotkeys:      hkManager,
		Tray:         trayManager,
		Notify:       notifier,
		IPC:          ipcServer,
		status:       status,
	}

	wsSettings := func() session.Settings { return config.SessionSettings(c.Config) }
	c.WebSocket = websocket.NewWebSocketServer(cfg, machine, bus, wsSettings, log)

	c.wireHotkeys()
	c.wireTray()
	c.registerIPCHandlers()

	return c, nil
}

// wireHotkeys binds Press/Release to the hotkey manager's recording
// start/stop callbacks, the same pairing the tray toggle and the WebSocket
// bridge drive independently.
func (c *Container) wireHotkeys() {
	c.Hotkeys.RegisterCallbacks(
		func() error {
			return c.Machine.Press(context.Background(), config.SessionSettings(c.Config))
		},
		func() error {
			return c.Machine.Release(context.Background())
		},
	)
}

// wireTray binds the tray menu callbacks to the machine, config persistence,
// and notifications.
func (c *Container) wireTray() {
	c.Tray.SetExitAction(func() {
		c.Log.Info("tray: exit requested")
	})

	c.Tray.SetCoreActions(
		func() error { return c.toggleRecording() },
		func() error { return c.openConfigFile() },
		func() error { return nil },
		func() error { return c.resetToDefaults() },
	)

	c.Tray.SetModelAction(func(modelID string) error {
		c.Config.General.ActiveModel = modelID
		return c.saveConfig()
	})

	c.Tray.SetSettingsActions(
		func(language string) error {
			c.Config.General.Language = language
			return c.saveConfig()
		},
		func() error {
			c.Config.Notifications.EnableWorkflowNotifications = !c.Config.Notifications.EnableWorkflowNotifications
			return c.saveConfig()
		},
		func(mode string) error {
			c.Config.Output.DefaultMode = mode
			return c.saveConfig()
		},
	)

	c.Tray.SetHotkeyRebindAction(func(action string) error {
		return c.rebindHotkey(action)
	})

	c.Tray.SetOutputToolsCallback(func() (string, string) {
		return c.Config.Output.ClipboardTool, c.Config.Output.TypeTool
	})

	c.Tray.SetCaptureOnceSupport(c.Hotkeys.SupportsCaptureOnce)

	c.Bus.Subscribe(func(ev events.Event) {
		if ev.State == nil {
			return
		}
		c.Tray.SetRecordingState(ev.State.State == events.StateRecording)
	})
}

// toggleRecording is the tray's single-click action: press if idle, release
// if recording.
func (c *Container) toggleRecording() error {
	ctx := context.Background()
	if c.Machine.State() == session.StateRecording {
		return c.Machine.Release(ctx)
	}
	return c.Machine.Press(ctx, config.SessionSettings(c.Config))
}

func (c *Container) saveConfig() error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	if err := config.ValidateConfig(c.Config); err != nil {
		return err
	}
	if err := config.SaveConfig(path, c.Config); err != nil {
		return err
	}
	c.Tray.UpdateSettings(c.Config)
	return config.UpdateConfigHash(path, c.Config)
}

func (c *Container) resetToDefaults() error {
	config.SetDefaultConfig(c.Config)
	if err := c.saveConfig(); err != nil {
		return err
	}
	return c.Notify.NotifyConfigurationReset()
}

func (c *Container) openConfigFile() error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	c.Log.Info("config file: %s", path)
	return nil
}

func (c *Container) rebindHotkey(action string) error {
	captured, err := c.Hotkeys.CaptureHotkey(action)
	if err != nil {
		return err
	}
	switch action {
	case "start_stop":
		c.Config.Hotkeys.StartStop = captured
	case "toggle_streaming":
		c.Config.Hotkeys.ToggleStreaming = captured
	case "switch_model":
		c.Config.Hotkeys.SwitchModel = captured
	case "show_config":
		c.Config.Hotkeys.ShowConfig = captured
	case "reset_to_defaults":
		c.Config.Hotkeys.ResetToDefaults = captured
	}
	return c.saveConfig()
}

// Start brings every collaborator that has a lifecycle online, in
// dependency order: hotkeys before tray (tray reflects hotkey state),
// IPC/WebSocket last since they expose the fully wired machine.
func (c *Container) Start() error {
	if err := c.Hotkeys.Start(); err != nil {
		c.Log.Warning("services: hotkey manager unavailable: %v", err)
	}
	c.Tray.Start()
	if err := c.IPC.Start(); err != nil {
		return fmt.Errorf("services: start IPC server: %w", err)
	}
	if err := c.WebSocket.Start(); err != nil {
		return fmt.Errorf("services: start websocket server: %w", err)
	}
	return nil
}

// Stop tears every collaborator down in reverse order.
func (c *Container) Stop() {
	c.WebSocket.Stop()
	c.IPC.Stop()
	c.Tray.Stop()
	c.Hotkeys.Stop()
	c.Machine.Shutdown()
	if err := c.Supervisor.Shutdown(); err != nil {
		c.Log.Warning("services: supervisor shutdown: %v", err)
	}
}
