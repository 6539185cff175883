// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package session drives the push-to-talk lifecycle (idle -> recording ->
// transcribing -> injecting -> idle) with cooldown, minimum-hold, and
// cancellation, coordinating start/stop between the capture supervisor and
// the streaming orchestrator.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talkframe/ptt/asr"
	"github.com/talkframe/ptt/audio/ring"
	"github.com/talkframe/ptt/events"
	"github.com/talkframe/ptt/internal/logger"
	"github.com/talkframe/ptt/streaming"
)

// State is one of the four push-to-talk lifecycle states.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
	StateInjecting
)

// Defaults per spec.md §6.
const (
	DefaultCooldownMs     = 500
	DefaultMinHoldMs      = 200
	DefaultMaxSessionSecs = 300
	chunkPollInterval     = 100 * time.Millisecond
)

// Settings is the immutable-per-session snapshot the settings collaborator
// supplies.
type Settings struct {
	ModelID          string
	StreamingEnabled bool
	StreamingMode    streaming.Mode
	CustomVocabulary []string
	ContextPrompt    string
	UseContextPrompt bool
	MinHoldMs        int64
	CooldownMs       int64
}

func (s Settings) minHold() time.Duration {
	if s.MinHoldMs <= 0 {
		return DefaultMinHoldMs * time.Millisecond
	}
	return time.Duration(s.MinHoldMs) * time.Millisecond
}

func (s Settings) cooldown() time.Duration {
	if s.CooldownMs <= 0 {
		return DefaultCooldownMs * time.Millisecond
	}
	return time.Duration(s.CooldownMs) * time.Millisecond
}

// HistoryRecord is one completed transcription session worth remembering.
type HistoryRecord struct {
	Text            string
	DurationMs      uint64
	ModelID         string
	Language        string
	AcceleratorUsed string
	Timestamp       time.Time
}

// ClipboardSink is invoked with the final text at the end of Injecting.
type ClipboardSink interface {
	WriteText(text string) error
}

// InjectionSink is invoked after the clipboard write when auto-paste is on.
type InjectionSink interface {
	InjectText(text string) error
}

// HistorySink records a completed session; persistence is the
// collaborator's concern.
type HistorySink interface {
	Append(record HistoryRecord) error
}

// Supervisor is the subset of audio/supervisor.Supervisor the state machine
// depends on.
type Supervisor interface {
	Start() error
	Stop() error
	EnableStreaming(enabled bool) error
	DrainChunks() ([]ring.Chunk, error)
	FlushChunk() (*ring.Chunk, error)
	TakeFullBuffer() ([]float32, error)
	Duration() (time.Duration, error)
	Level() (float32, error)
}

// Engine is the subset of asr.Engine needed for the non-streaming batch
// transcription path.
type Engine interface {
	TranscribeWithAutoLoad(ctx context.Context, samples []float32, modelID string, initialPrompt string) (asr.Result, error)
}

// Machine implements the session state machine.
type Machine struct {
	log logger.Logger
	bus *events.Bus

	supervisor   Supervisor
	orchestrator *streaming.Orchestrator
	engine       Engine

	clipboard ClipboardSink
	inject    InjectionSink
	autoPaste bool
	history   HistorySink

	settings       Settings
	maxSessionSecs float64

	mu             sync.Mutex
	state          State
	recordingSince time.Time
	lastCompletion time.Time
	pollCancel     context.CancelFunc
}

// New creates an idle Machine.
func New(supervisor Supervisor, orchestrator *streaming.Orchestrator, engine Engine, bus *events.Bus, log logger.Logger) *Machine {
	if log == nil {
		log = logger.NewDefaultLogger(logger.ErrorLevel)
	}
	return &Machine{
		log:            log,
		bus:            bus,
		supervisor:     supervisor,
		orchestrator:   orchestrator,
		engine:         engine,
		maxSessionSecs: DefaultMaxSessionSecs,
		state:          StateIdle,
	}
}

// SetClipboard wires the clipboard collaborator.
func (m *Machine) SetClipboard(sink ClipboardSink) { m.clipboard = sink }

// SetInjection wires the optional auto-paste collaborator.
func (m *Machine) SetInjection(sink InjectionSink, enabled bool) {
	m.inject = sink
	m.autoPaste = enabled
}

// SetHistory wires the history collaborator.
func (m *Machine) SetHistory(sink HistorySink) { m.history = sink }

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Press handles a hotkey press: Idle -> Recording, subject to cooldown.
// A press outside Idle is ignored (cancellation/cooldown policy).
func (m *Machine) Press(ctx context.Context, settings Settings) error {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return nil
	}
	now := time.Now()
	if !m.lastCompletion.IsZero() && now.Sub(m.lastCompletion) < settings.cooldown() {
		m.mu.Unlock()
		m.log.Debug("session: press rejected, cooldown active")
		return nil
	}
	m.settings = settings
	m.mu.Unlock()

	if err := m.supervisor.EnableStreaming(settings.StreamingEnabled); err != nil {
		m.bus.PublishError(fmt.Sprintf("capture init failed: %v", err), nil)
		return err
	}
	if err := m.supervisor.Start(); err != nil {
		m.bus.PublishError(fmt.Sprintf("capture init failed: %v", err), nil)
		return err
	}

	m.mu.Lock()
	m.state = StateRecording
	m.recordingSince = now
	m.mu.Unlock()
	m.bus.PublishState(events.StateRecording)

	if settings.StreamingEnabled {
		m.orchestrator.Start(settings.StreamingMode)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.pollCancel = cancel
	m.mu.Unlock()
	go m.pollLoop(pollCtx, settings)
	go m.monitorMaxDuration(pollCtx)

	return nil
}

// pollLoop drains ready chunks from the supervisor and submits them to the
// orchestrator roughly every 100ms, also refreshing the level event.
func (m *Machine) pollLoop(ctx context.Context, settings Settings) {
	ticker := time.NewTicker(chunkPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if level, err := m.supervisor.Level(); err == nil {
				m.bus.PublishLevel(level)
			}
			if !settings.StreamingEnabled {
				continue
			}
			chunks, err := m.supervisor.DrainChunks()
			if err != nil {
				continue
			}
			for _, c := range chunks {
				if err := m.orchestrator.ProcessChunk(settings.ModelID, c); err != nil {
					m.log.Debug("session: chunk %d: %v", c.Index, err)
				}
			}
		}
	}
}

// monitorMaxDuration auto-stops a session that exceeds maxSessionSecs,
// treating it as an implicit release (Open Question decision, see
// SPEC_FULL.md).
func (m *Machine) monitorMaxDuration(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d, err := m.supervisor.Duration()
			if err != nil {
				continue
			}
			if d.Seconds() >= m.maxSessionSecs {
				go m.Release(ctx)
				return
			}
		}
	}
}

// Release handles a hotkey release: Recording -> Transcribing -> Injecting
// -> Idle. A release shorter than MinHoldMs is ignored as an accidental tap.
func (m *Machine) Release(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateRecording {
		m.mu.Unlock()
		return nil
	}
	since := m.recordingSince
	settings := m.settings
	cancel := m.pollCancel
	m.mu.Unlock()

	if time.Since(since) < settings.minHold() {
		m.log.Debug("session: release ignored, below minimum hold")
		// Still stop the device so it isn't left recording.
		if cancel != nil {
			cancel()
		}
		_ = m.supervisor.Stop()
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		return nil
	}

	if cancel != nil {
		cancel()
	}

	m.mu.Lock()
	m.state = StateTranscribing
	m.mu.Unlock()
	m.bus.PublishState(events.StateTranscribing)

	finalText, accelerator, language := m.finishTranscription(ctx, settings)

	_ = m.supervisor.Stop()

	if finalText == "" {
		m.mu.Lock()
		m.state = StateIdle
		m.lastCompletion = time.Now()
		m.mu.Unlock()
		m.bus.PublishState(events.StateIdle)
		return nil
	}

	m.mu.Lock()
	m.state = StateInjecting
	m.mu.Unlock()
	m.bus.PublishState(events.StateInjecting)

	m.inject_(finalText, settings, accelerator, language)

	m.mu.Lock()
	m.state = StateIdle
	m.lastCompletion = time.Now()
	m.mu.Unlock()
	m.bus.PublishState(events.StateIdle)

	return nil
}

// finishTranscription drives the streaming-vs-batch dichotomy: if streaming
// was active, it drains remaining chunks through the orchestrator and
// reconciles; otherwise it runs a single batch transcription over the
// resampled full buffer.
func (m *Machine) finishTranscription(ctx context.Context, settings Settings) (text string, accelerator string, language string) {
	if settings.StreamingEnabled {
		if chunks, err := m.supervisor.DrainChunks(); err == nil {
			for _, c := range chunks {
				_ = m.orchestrator.ProcessChunk(settings.ModelID, c)
			}
		}
		if flushed, err := m.supervisor.FlushChunk(); err == nil && flushed != nil {
			_ = m.orchestrator.ProcessChunk(settings.ModelID, *flushed)
		}
		m.orchestrator.ForceEmitPartial(0)

		full, _ := m.supervisor.TakeFullBuffer()
		initialPrompt, _ := asr.BuildInitialPrompt(settings.CustomVocabulary, settings.ContextPrompt, settings.UseContextPrompt)

		finalText, _ := m.orchestrator.Reconcile(ctx, streaming.ReconcileInput{
			ModelID:       settings.ModelID,
			FullSamples:   full,
			InitialPrompt: initialPrompt,
		})
		return finalText, "", ""
	}

	full, _ := m.supervisor.TakeFullBuffer()
	initialPrompt, _ := asr.BuildInitialPrompt(settings.CustomVocabulary, settings.ContextPrompt, settings.UseContextPrompt)

	result, err := m.engine.TranscribeWithAutoLoad(ctx, full, settings.ModelID, initialPrompt)
	if err != nil {
		m.bus.PublishError(err.Error(), nil)
		return "", "", ""
	}
	return result.Text, result.Accelerator.Name, result.DetectedLanguage
}

// inject_ hands the final text to the clipboard/inject collaborators and
// records history. Named with a trailing underscore to avoid clashing with
// the InjectionSink interface method of the same root name.
func (m *Machine) inject_(text string, settings Settings, accelerator, language string) {
	if m.clipboard != nil {
		if err := m.clipboard.WriteText(text); err != nil {
			m.log.Warning("session: clipboard write failed: %v", err)
		}
	}
	if m.autoPaste && m.inject != nil {
		if err := m.inject.InjectText(text); err != nil {
			m.log.Warning("session: text injection failed: %v", err)
		}
	}
	if m.history != nil {
		if err := m.history.Append(HistoryRecord{
			Text:            text,
			ModelID:         settings.ModelID,
			Language:        language,
			AcceleratorUsed: accelerator,
			Timestamp:       time.Now(),
		}); err != nil {
			m.log.Warning("session: history append failed: %v", err)
		}
	}
}

// Shutdown cancels the polling goroutines and sets the state to Idle at
// once. It does not wait for an in-flight chunk call to return and does not
// stop the supervisor.
func (m *Machine) Shutdown() {
	m.mu.Lock()
	cancel := m.pollCancel
	m.state = StateIdle
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
