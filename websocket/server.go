// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/events"
	"github.com/talkframe/ptt/internal/logger"
	"github.com/talkframe/ptt/session"
	"github.com/gorilla/websocket"
)

// WebSocket server configuration constants
const (
	// Buffer sizes for WebSocket connections
	readBufferSize  = 1024 // 1KB
	writeBufferSize = 1024 // 1KB

	// Message size limits
	maxMessageSize = 1024 * 1024 // 1MB

	// Timeout configurations
	readTimeout        = 60 * time.Second // Client read timeout
	writeTimeout       = 10 * time.Second // Client write timeout
	pingInterval       = 20 * time.Second // Health check interval
	serverReadTimeout  = 15 * time.Second // HTTP server read timeout
	serverWriteTimeout = 15 * time.Second // HTTP server write timeout
	serverIdleTimeout  = 60 * time.Second // HTTP server idle timeout
	shutdownTimeout    = 5 * time.Second  // Graceful shutdown timeout
)

// WebSocketServer enables a real-time speech-to-text API for external
// clients: start/stop commands drive the same session.Machine the hotkey
// path drives, and transcription/level events are broadcast to every
// connected client as they arrive on the event bus.
type WebSocketServer struct {
	config      *config.Config
	clients     map[*websocket.Conn]bool
	clientsLock sync.Mutex
	upgrader    websocket.Upgrader
	machine     *session.Machine
	bus         *events.Bus
	settings    func() session.Settings
	server      *http.Server
	started     bool
	retryCount  map[*websocket.Conn]int // Track retry attempts
	logger      logger.Logger
	wg          sync.WaitGroup
	unsubscribe func()
}

// Protocol structure for bidirectional client communication
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// checkOriginFunc creates a CORS origin validation function
func checkOriginFunc(cfg *config.Config) func(*http.Request) bool {
	return func(r *http.Request) bool {
		// Allow all origins if configured with "*"
		if cfg.WebServer.CORSOrigins == "*" {
			return true
		}

		// Get the origin from the request
		origin := r.Header.Get("Origin")
		if origin == "" {
			// No origin header - might be same-origin request
			return true
		}

		// Check if origin matches configured CORS origins
		// For simplicity, exact match. Could be extended to support wildcards
		return origin == cfg.WebServer.CORSOrigins
	}
}

// NewWebSocketServer builds a server bridging WebSocket clients to the
// shared session.Machine. settingsFn is called on every start-recording
// request to snapshot the machine Settings (model, streaming mode, context
// prompt) from the live configuration.
func NewWebSocketServer(cfg *config.Config, machine *session.Machine, bus *events.Bus, settingsFn func() session.Settings, logger logger.Logger) *WebSocketServer {
	return &WebSocketServer{
		config:  cfg,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     checkOriginFunc(cfg),
		},
		machine:    machine,
		bus:        bus,
		settings:   settingsFn,
		retryCount: make(map[*websocket.Conn]int),
		logger:     logger,
	}
}

// Begin accepting client connections with health monitoring
func (s *WebSocketServer) Start() error {
	if !s.config.WebServer.Enabled {
		return nil
	}

	s.unsubscribe = s.bus.Subscribe(s.onEvent)

	// Handler for WebSocket connection setup
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Add a health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			s.logger.Debug("health write error: %v", err)
		}
	})
	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%d", s.config.WebServer.Host, s.config.WebServer.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}
	// Start HTTP server in background goroutine
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("Starting WebSocket server on %s", addr)
		s.started = true
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("WebSocket server error: %v", err)
		}
	}()

	return nil
}

// onEvent fans a session.Machine/events.Bus notification out to every
// connected client as a broadcast message.
func (s *WebSocketServer) onEvent(ev events.Event) {
	switch {
	case ev.Partial != nil:
		s.BroadcastMessage("partial", map[string]interface{}{
			"text":         ev.Partial.Text,
			"chunk_index":  ev.Partial.ChunkIndex,
			"timestamp_ms": ev.Partial.TimestampMs,
			"is_final":     ev.Partial.IsFinal,
		})
	case ev.Final != nil:
		s.BroadcastMessage("transcription", map[string]interface{}{
			"text":         ev.Final.Text,
			"total_chunks": ev.Final.TotalChunks,
			"duration_sec": ev.Final.DurationSec,
			"reconciled":   ev.Final.Reconciled,
		})
	case ev.Error != nil:
		s.BroadcastMessage("error", map[string]interface{}{
			"message": ev.Error.Message,
		})
	case ev.Level != nil:
		s.BroadcastMessage("level", map[string]interface{}{
			"value": ev.Level.Value,
		})
	case ev.State != nil:
		s.BroadcastMessage("session-state", map[string]interface{}{
			"state": string(ev.State.State),
		})
	}
}

// Ensure clean client disconnection before termination
func (s *WebSocketServer) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.server != nil && s.started {
		s.logger.Info("Stopping WebSocket server...")
		// Create a context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Close all client connections
		s.clientsLock.Lock()
		for client := range s.clients {
			_ = client.Close()
		}
		s.clients = make(map[*websocket.Conn]bool)
		s.clientsLock.Unlock()
		// Shutdown the server
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error("Error shutting down WebSocket server: %v", err)
		} else {
			s.logger.Info("WebSocket server stopped")
		}
		// Wait for server goroutine to finish
		s.wg.Wait()
		s.started = false
	}
}

// Authenticate and establish secure client session
func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Check authentication first
	if !s.authenticate(r) {
		s.logger.Warning("Unauthorized WebSocket connection attempt from %s", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	// Check if we're at max clients limit
	s.clientsLock.Lock()
	clientCount := len(s.clients)
	s.clientsLock.Unlock()

	if s.config.WebServer.MaxClients > 0 && clientCount >= s.config.WebServer.MaxClients {
		s.logger.Warning("Max clients limit reached, rejecting connection from %s", r.RemoteAddr)
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	// Establish connection
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Error upgrading to WebSocket: %v", err)
		return
	}
	// Configure connection
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		s.logger.Debug("SetReadDeadline error: %v", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	// Register new client
	s.clientsLock.Lock()
	s.clients[conn] = true
	s.clientsLock.Unlock()

	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug("conn close error: %v", err)
		}
		s.clientsLock.Lock()
		delete(s.clients, conn)
		delete(s.retryCount, conn)
		s.clientsLock.Unlock()
	}()

	// Send welcome message
	s.sendMessage(conn, "connected", map[string]string{
		"server": "talkframe-ptt",
	})
	// Start ping/pong goroutine (fire-and-forget, exits when conn closes)
	go func() { s.pingClient(conn) }()
	// Process messages from client
	s.processMessages(conn)
}

// Maintain connection health to prevent proxy timeouts
func (s *WebSocketServer) pingClient(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeTimeout)); err != nil {
			s.logger.Debug("Ping error: %v", err)
			return
		}
	}
}

// Deliver structured response with timeout protection
func (s *WebSocketServer) sendMessage(conn *websocket.Conn, messageType string, payload interface{}, requestID ...string) {
	msg := Message{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
	// Set request ID if provided
	if len(requestID) > 0 && requestID[0] != "" {
		msg.RequestID = requestID[0]
	}
	// Serialize message
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling message: %v", err)
		return
	}
	// Log if enabled
	if s.config.WebServer.LogRequests {
		s.logger.Debug("Sending WebSocket message: %s", string(data))
	}
	// Send message
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		s.logger.Error("SetWriteDeadline error: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("Error sending message: %v", err)
	}
}

// Notify all active clients of server-wide events
func (s *WebSocketServer) BroadcastMessage(messageType string, payload interface{}) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	for conn := range s.clients {
		s.sendMessage(conn, messageType, payload)
	}
}
