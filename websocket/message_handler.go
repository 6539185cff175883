// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Handle client requests with message validation and routing
func (s *WebSocketServer) processMessages(conn *websocket.Conn) {
	for {
		_, rawMessage, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("WebSocket error: %v", err)
			}
			break
		}
		// Log request if enabled
		if s.config.WebServer.LogRequests {
			s.logger.Debug("Received WebSocket message: %s", string(rawMessage))
		}

		// Parse message
		var msg Message
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			s.logger.Error("Error parsing WebSocket message: %v", err)
			s.sendError(conn, "invalid_message", "Could not parse message", msg.RequestID)
			continue
		}
		// Process message based on type
		// Synchronous handling per-connection provides natural backpressure
		switch msg.Type {
		case "start-recording":
			s.handleStartRecording(conn, msg.RequestID)
		case "stop-recording":
			s.handleStopRecording(conn, msg.RequestID)
		case "ping":
			s.sendMessage(conn, "pong", nil)
		default:
			s.logger.Warning("Unknown message type: %s", msg.Type)
			s.sendError(conn, "unknown_type", fmt.Sprintf("Unknown message type: %s", msg.Type), msg.RequestID)
		}
	}
}

// Initiate a push-to-talk session with retry logic for reliability. The
// resulting partial/final transcripts arrive asynchronously over the event
// bus and are broadcast to every client, not just the requester.
func (s *WebSocketServer) handleStartRecording(conn *websocket.Conn, requestID string) {
	err := s.executeWithRetry(func() error {
		return s.machine.Press(context.Background(), s.settings())
	}, conn)

	if err != nil {
		s.logger.Error("Error starting recording: %v", err)
		s.sendError(conn, "recording_error", fmt.Sprintf("Error starting recording: %v", err), requestID)
		return
	}
	s.sendMessage(conn, "recording-started", nil, requestID)
}

// Complete the push-to-talk session. Release triggers transcription and
// output injection inside the machine; the transcript itself is delivered
// via the "transcription" broadcast once the machine publishes its Final
// event, not as a direct reply here.
func (s *WebSocketServer) handleStopRecording(conn *websocket.Conn, requestID string) {
	if err := s.machine.Release(context.Background()); err != nil {
		s.logger.Error("Error stopping recording: %v", err)
		s.sendError(conn, "recording_error", fmt.Sprintf("Error stopping recording: %v", err), requestID)
		return
	}
	s.sendMessage(conn, "recording-stopped", nil, requestID)
}

// Deliver structured error response for client debugging
func (s *WebSocketServer) sendError(conn *websocket.Conn, errorType string, errorMsg string, requestID string) {
	msg := Message{
		Type:      "error",
		Error:     errorType,
		Payload:   errorMsg,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling error message: %v", err)
		return
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		s.logger.Error("SetWriteDeadline error: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("Error sending error message: %v", err)
	}
}
