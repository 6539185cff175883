//go:build !cgo || nocgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package asr

import (
	"context"
	"errors"

	"github.com/talkframe/ptt/internal/logger"
)

// Engine is a no-cgo stub that never holds a model, mirroring the
// teacher's own whisper/engine_stub.go pattern for builds without cgo.
type Engine struct{}

// New returns a stub engine: Load reports that cgo is required, the
// transcription methods return ErrModelNotLoaded, Unload is a no-op and
// IsLoaded is always false.
func New(_ ModelPathResolver, _ logger.Logger) *Engine {
	return &Engine{}
}

func (e *Engine) Load(_, _ string, _ bool) error {
	return errors.New("asr: engine unavailable: built without cgo")
}

func (e *Engine) Unload() error { return nil }

func (e *Engine) IsLoaded() bool { return false }

func (e *Engine) ModelID() string { return "" }

func (e *Engine) Accelerator() Accelerator { return Accelerator{} }

func (e *Engine) Transcribe(_ []float32, _ string) (Result, error) {
	return Result{}, ErrModelNotLoaded
}

func (e *Engine) TranscribeChunk(_ uint32, _ []float32, _ string) (ChunkResult, error) {
	return ChunkResult{}, ErrModelNotLoaded
}

func (e *Engine) TranscribeWithAutoLoad(_ context.Context, _ []float32, _ string, _ string) (Result, error) {
	return Result{}, ErrModelNotLoaded
}
