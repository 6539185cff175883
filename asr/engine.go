//go:build cgo && !nocgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package asr wraps a native Whisper model: lazy, accelerator-first load
// with CPU fallback, batch and chunk transcription, and the confidence
// heuristic used to grade streaming chunk results. It is grounded on the
// teacher's whisper/engine.go (the working cgo wrapper around the
// whisper.cpp Go bindings) and on the accelerator-fallback design the
// teacher's whisper/runtime package sketches but never wires up to a
// working Model/Context pair.
package asr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/talkframe/ptt/internal/logger"
	"github.com/talkframe/ptt/internal/utils"
)

// Accelerator describes the backend an inference call actually ran on.
type Accelerator struct {
	Name string // "gpu" (accelerator requested, first load succeeded) or "cpu"
}

// IsCPU reports whether the engine fell back to (or was asked for) CPU.
func (a Accelerator) IsCPU() bool { return a.Name == "" || a.Name == "cpu" }

var (
	ErrModelNotLoaded  = errors.New("asr: model not loaded")
	ErrInvalidAudio    = errors.New("asr: invalid audio")
	ErrInferenceFailed = errors.New("asr: inference failed")
)

// minChunkSamples is the 0.5s floor below which a chunk is too short to run
// inference on; it short-circuits to an empty, zero-confidence result.
const minChunkSamples = 8000

// maxContextChars bounds how much of the prior streaming context is fed back
// in as the per-chunk initial prompt.
const maxContextChars = 200

// Result is a batch transcription result over a full buffer.
type Result struct {
	Text             string
	AudioDurationMs  uint64
	ModelID          string
	DetectedLanguage string
	Accelerator      Accelerator
}

// ChunkResult is a streaming per-chunk transcription result.
type ChunkResult struct {
	Text       string
	ChunkIndex uint32
	Confidence float64
}

// ModelPathResolver maps a model identifier to a filesystem path, the
// contract spec.md's "model-path resolver" collaborator fulfills.
type ModelPathResolver interface {
	PathFor(modelID string) (string, error)
}

// Engine loads at most one model at a time behind a single exclusive lock;
// every inference path (batch, chunk, auto-load) serializes through it,
// matching the serial nature of the native whisper.cpp context.
type Engine struct {
	mu sync.Mutex

	log      logger.Logger
	resolver ModelPathResolver

	model   whisper.Model
	modelID string
	accel   Accelerator
}

// New creates an unloaded Engine.
func New(resolver ModelPathResolver, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewDefaultLogger(logger.ErrorLevel)
	}
	return &Engine{resolver: resolver, log: log}
}

// Load opens modelID's file. preferAccelerator requests non-CPU execution;
// if that initialization fails, the engine retries on CPU and records the
// fallback rather than failing outright. Replacing an already-loaded model
// requires an explicit Unload first.
func (e *Engine) Load(modelID, path string, preferAccelerator bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model != nil {
		return fmt.Errorf("asr: model %q already loaded, call Unload first", e.modelID)
	}

	if !utils.IsValidFile(path) {
		return fmt.Errorf("%w: model file not found: %s", ErrModelNotLoaded, path)
	}

	model, accel, err := loadWithFallback(path, preferAccelerator)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}

	e.model = model
	e.modelID = modelID
	e.accel = accel
	return nil
}

// loadWithFallback is the accelerator-first, CPU-fallback load path. The
// high-level whisper.cpp Go bindings used here expose no backend selector of
// their own, so "accelerator" is whatever the underlying library picked.
// When preferAccelerator is set, a failed first attempt is retried once and
// a successful retry is recorded as CPU; without it, the first error is
// returned as is. This is the only fallback shape available above this
// binding layer.
func loadWithFallback(path string, preferAccelerator bool) (whisper.Model, Accelerator, error) {
	model, err := whisper.New(path)
	if err == nil {
		if preferAccelerator {
			return model, Accelerator{Name: "gpu"}, nil
		}
		return model, Accelerator{Name: "cpu"}, nil
	}

	if !preferAccelerator {
		return nil, Accelerator{}, err
	}

	// Accelerator path failed (or was never distinguishable); fall back to a
	// second attempt and record it as CPU.
	model, err2 := whisper.New(path)
	if err2 != nil {
		return nil, Accelerator{}, err
	}
	return model, Accelerator{Name: "cpu"}, nil
}

// Unload releases the resident model, if any.
func (e *Engine) Unload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	err := e.model.Close()
	e.model = nil
	e.modelID = ""
	e.accel = Accelerator{}
	return err
}

// IsLoaded reports whether a model is currently resident.
func (e *Engine) IsLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model != nil
}

// ModelID returns the identifier of the resident model, or "".
func (e *Engine) ModelID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modelID
}

// Accelerator returns the backend the resident model is running on.
func (e *Engine) Accelerator() Accelerator {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accel
}

// Transcribe runs full-buffer batch inference. samples must be non-empty
// 16kHz mono float32 audio. initialPrompt, if non-empty, biases decoding
// toward domain vocabulary/context (never used together with per-chunk
// streaming context — see TranscribeChunk).
func (e *Engine) Transcribe(samples []float32, initialPrompt string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		return Result{}, ErrModelNotLoaded
	}
	if len(samples) == 0 {
		return Result{}, fmt.Errorf("%w: empty sample buffer", ErrInvalidAudio)
	}

	ctx, err := e.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	if initialPrompt != "" {
		ctx.SetInitialPrompt(initialPrompt)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	var sb strings.Builder
	for {
		segment, err := ctx.NextSegment()
		if err != nil {
			break
		}
		sb.WriteString(segment.Text)
		sb.WriteString(" ")
	}
	text := utils.SanitizeTranscript(strings.TrimSpace(sb.String()))

	lang := ""
	if l := ctx.Language(); l != "" {
		lang = l
	}

	return Result{
		Text:             text,
		AudioDurationMs:  uint64(float64(len(samples)) / 16000.0 * 1000.0),
		ModelID:          e.modelID,
		DetectedLanguage: lang,
		Accelerator:      e.accel,
	}, nil
}

// TranscribeChunk runs streaming inference over one chunk. priorContext, if
// provided, is truncated to its trailing maxContextChars characters and fed
// in as the initial prompt — per-chunk continuity, never domain biasing.
// Chunks shorter than minChunkSamples short-circuit to an empty,
// zero-confidence result without touching the model.
func (e *Engine) TranscribeChunk(chunkIndex uint32, samples []float32, priorContext string) (ChunkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		return ChunkResult{}, ErrModelNotLoaded
	}
	if len(samples) < minChunkSamples {
		return ChunkResult{ChunkIndex: chunkIndex, Confidence: 0}, nil
	}

	ctx, err := e.model.NewContext()
	if err != nil {
		return ChunkResult{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	if prompt := tailChars(priorContext, maxContextChars); prompt != "" {
		ctx.SetInitialPrompt(prompt)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return ChunkResult{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	var sb strings.Builder
	for {
		segment, err := ctx.NextSegment()
		if err != nil {
			break
		}
		sb.WriteString(segment.Text)
		sb.WriteString(" ")
	}
	text := utils.SanitizeTranscript(strings.TrimSpace(sb.String()))

	seconds := float64(len(samples)) / 16000.0
	confidence := Confidence(text, seconds)

	return ChunkResult{Text: text, ChunkIndex: chunkIndex, Confidence: confidence}, nil
}

// TranscribeWithAutoLoad loads modelID on demand (under the engine's lock)
// before running a batch transcription, so callers don't need to sequence
// Load/IsLoaded themselves.
func (e *Engine) TranscribeWithAutoLoad(ctx context.Context, samples []float32, modelID string, initialPrompt string) (Result, error) {
	if !e.IsLoaded() {
		path, err := e.resolver.PathFor(modelID)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
		}
		if err := e.Load(modelID, path, true); err != nil {
			return Result{}, err
		}
	}
	return e.Transcribe(samples, initialPrompt)
}

func tailChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
