// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package output provides a high-level facade for text output functionality.
// It abstracts the underlying implementation of clipboard and typing
// operations and adapts them onto the Session State Machine's
// ClipboardSink/InjectionSink contracts.
//
// Subpackages:
//   - interfaces: Define contracts (interfaces) for text output components
//   - outputters: Provide concrete implementations for different output methods
//   - factory:    Implement a factory for creating outputter instances
package output

import (
	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/platform"
	"github.com/talkframe/ptt/output/factory"
	"github.com/talkframe/ptt/output/interfaces"
	"github.com/talkframe/ptt/session"
)

// Sink adapts an interfaces.Outputter onto the Session State Machine's
// ClipboardSink and InjectionSink contracts, so the same underlying tool
// selection (xsel/wl-copy, xdotool/wtype/ydotool) backs both.
type Sink struct {
	outputter interfaces.Outputter
}

// NewSink builds a Sink from the daemon's output configuration, auto-
// detecting the display server to pick a working clipboard/typing tool.
func NewSink(cfg *config.Config) (*Sink, error) {
	env := factory.EnvironmentType(platform.DetectEnvironment())
	outputter, err := factory.GetOutputterFromConfig(cfg, env)
	if err != nil {
		return nil, err
	}
	return &Sink{outputter: outputter}, nil
}

// WriteText implements session.ClipboardSink.
func (s *Sink) WriteText(text string) error {
	return s.outputter.CopyToClipboard(text)
}

// InjectText implements session.InjectionSink.
func (s *Sink) InjectText(text string) error {
	return s.outputter.TypeToActiveWindow(text)
}

var (
	_ session.ClipboardSink = (*Sink)(nil)
	_ session.InjectionSink = (*Sink)(nil)
)
