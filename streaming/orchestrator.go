// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package streaming implements the streaming orchestrator: during a
// session it polls the chunked ring, submits chunks to the ASR engine
// using prior transcript as context, accumulates text, rate-limits
// partial-result events, and performs end-of-session reconciliation under
// a selectable fidelity mode.
package streaming

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/talkframe/ptt/asr"
	"github.com/talkframe/ptt/audio/ring"
	"github.com/talkframe/ptt/events"
)

// Mode selects how much extra inference reconciliation performs.
type Mode int

const (
	ModeSpeed Mode = iota
	ModeBalanced
	ModeAccuracy
)

// MinEmitIntervalMs is the rate limit on transcription.partial emission.
const MinEmitIntervalMs = 333

// reconcileTailSeconds is the window Balanced mode re-transcribes.
const reconcileTailSeconds = 5.0

// reconcileTailSamples is reconcileTailSeconds worth of 16kHz samples.
const reconcileTailSamples = int(reconcileTailSeconds * 16000)

// ErrChunkOutOfOrder is a distinct condition (vs. a generic inference
// failure) for a chunk whose index has already been consumed, so callers
// can tell "duplicate/out-of-order" apart from "the engine failed".
var ErrChunkOutOfOrder = errors.New("streaming: chunk index already processed")

// ErrNotActive is returned when a chunk is submitted outside a session.
var ErrNotActive = errors.New("streaming: orchestrator is not active")

// Engine is the subset of asr.Engine the orchestrator depends on, so tests
// can substitute a fake without cgo.
type Engine interface {
	IsLoaded() bool
	TranscribeChunk(chunkIndex uint32, samples []float32, priorContext string) (asr.ChunkResult, error)
	TranscribeWithAutoLoad(ctx context.Context, samples []float32, modelID string, initialPrompt string) (asr.Result, error)
}

// Orchestrator owns the streaming session state described in spec.md's
// data model. It is not safe for concurrent use by more than one caller at
// a time; the session state machine serializes access to it.
type Orchestrator struct {
	bus    *events.Bus
	engine Engine

	mu sync.Mutex

	accumulatedText        string
	nextExpectedChunkIndex uint32
	lastContext            string
	mode                   Mode
	chunksProcessed        uint32
	isActive               bool
	lastEmitAt             time.Time
}

// New creates an Orchestrator that publishes events on bus.
func New(engine Engine, bus *events.Bus) *Orchestrator {
	return &Orchestrator{engine: engine, bus: bus}
}

// Start clears session state and flips the orchestrator active.
func (o *Orchestrator) Start(mode Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.accumulatedText = ""
	o.nextExpectedChunkIndex = 0
	o.lastContext = ""
	o.mode = mode
	o.chunksProcessed = 0
	o.lastEmitAt = time.Time{} // "long ago": unconditionally eligible to emit
	o.isActive = true
}

// IsActive reports whether a session is currently being streamed.
func (o *Orchestrator) IsActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isActive
}

// ChunksProcessed returns how many chunks have been submitted this session.
func (o *Orchestrator) ChunksProcessed() uint32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.chunksProcessed
}

// ProcessChunk submits one chunk for streaming inference, updates session
// state, and rate-limits the resulting partial emission.
func (o *Orchestrator) ProcessChunk(modelID string, chunk ring.Chunk) error {
	o.mu.Lock()
	if !o.isActive {
		o.mu.Unlock()
		return ErrNotActive
	}
	if chunk.Index < o.nextExpectedChunkIndex {
		o.mu.Unlock()
		return ErrChunkOutOfOrder
	}
	priorContext := o.lastContext
	o.mu.Unlock()

	result, err := o.engine.TranscribeChunk(chunk.Index, chunk.Samples, priorContext)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextExpectedChunkIndex = chunk.Index + 1
	o.chunksProcessed++

	if err != nil {
		idx := chunk.Index
		o.bus.PublishError(err.Error(), &idx)
		return nil
	}

	if result.Text != "" {
		if o.accumulatedText == "" {
			o.accumulatedText = result.Text
		} else {
			o.accumulatedText = o.accumulatedText + " " + result.Text
		}
		o.lastContext = o.accumulatedText
	}

	now := time.Now()
	if now.Sub(o.lastEmitAt) >= MinEmitIntervalMs*time.Millisecond {
		o.lastEmitAt = now
		o.bus.PublishPartial(events.Partial{
			Text:        o.accumulatedText,
			ChunkIndex:  chunk.Index,
			TimestampMs: chunk.TimestampMs,
			IsFinal:     false,
		})
	}
	return nil
}

// ForceEmitPartial bypasses the rate limit; called once at end-of-session
// before reconciliation so the UI sees the final streaming accumulation.
func (o *Orchestrator) ForceEmitPartial(timestampMs uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastEmitAt = time.Now()
	o.bus.PublishPartial(events.Partial{
		Text:        o.accumulatedText,
		ChunkIndex:  o.nextExpectedChunkIndex,
		TimestampMs: timestampMs,
		IsFinal:     false,
	})
}

// ReconcileInput bundles what Reconcile needs from the full session buffer
// and settings collaborator, so the orchestrator never reaches outside its
// own package for them.
type ReconcileInput struct {
	ModelID       string
	FullSamples   []float32
	InitialPrompt string
}

// Reconcile computes the authoritative final transcript under the active
// mode, emits the transcription.final event, deactivates the session, and
// returns the same (text, reconciled) pair it published so the session
// state machine can hand the text straight to the injection stage.
func (o *Orchestrator) Reconcile(ctx context.Context, in ReconcileInput) (string, bool) {
	o.mu.Lock()
	mode := o.mode
	accumulated := o.accumulatedText
	chunksProcessed := o.chunksProcessed
	o.mu.Unlock()

	durationSec := float64(len(in.FullSamples)) / 16000.0

	finalText, reconciled := o.reconcileText(ctx, mode, accumulated, in)

	o.bus.PublishFinal(events.Final{
		Text:        finalText,
		TotalChunks: chunksProcessed,
		DurationSec: durationSec,
		Reconciled:  reconciled,
	})

	o.mu.Lock()
	o.isActive = false
	o.mu.Unlock()

	return finalText, reconciled
}

func (o *Orchestrator) reconcileText(ctx context.Context, mode Mode, accumulated string, in ReconcileInput) (string, bool) {
	switch mode {
	case ModeSpeed:
		return accumulated, true

	case ModeBalanced:
		if len(in.FullSamples) <= reconcileTailSamples {
			return accumulated, true
		}
		tail := in.FullSamples[len(in.FullSamples)-reconcileTailSamples:]
		tailResult, err := o.engine.TranscribeWithAutoLoad(ctx, tail, in.ModelID, "")
		if err != nil {
			return accumulated, false
		}
		return spliceBalanced(accumulated, tailResult.Text), true

	case ModeAccuracy:
		result, err := o.engine.TranscribeWithAutoLoad(ctx, in.FullSamples, in.ModelID, in.InitialPrompt)
		if err != nil {
			return accumulated, false
		}
		return result.Text, true

	default:
		return accumulated, true
	}
}

// spliceBalanced keeps the earliest max(0, wordCount(accumulated) -
// wordCount(tail) - 2) words of the streamed text, then appends the
// re-transcribed tail verbatim. If the streamed text isn't longer than the
// tail transcript, the tail is used on its own.
func spliceBalanced(accumulated, tail string) string {
	accWords := strings.Fields(accumulated)
	tailWords := strings.Fields(tail)

	if len(accWords) <= len(tailWords) {
		return tail
	}

	keepCount := len(accWords) - len(tailWords) - 2
	if keepCount < 0 {
		keepCount = 0
	}

	head := strings.Join(accWords[:keepCount], " ")
	if head == "" {
		return tail
	}
	return fmt.Sprintf("%s %s", head, tail)
}
