// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package services

import (
	"sync"

	"github.com/talkframe/ptt/session"
)

// statusSink tracks the most recently completed transcript so the IPC
// "status" and "last-transcript" commands have something to report without
// reaching back into the Session State Machine's internal state.
type statusSink struct {
	mu             sync.Mutex
	lastTranscript string
	lastWarning    string
	history        []session.HistoryRecord
}

func newStatusSink() *statusSink {
	return &statusSink{}
}

// Append implements session.HistorySink.
func (s *statusSink) Append(record session.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTranscript = record.Text
	s.lastWarning = ""
	s.history = append(s.history, record)
	if len(s.history) > maxHistoryRecords {
		s.history = s.history[len(s.history)-maxHistoryRecords:]
	}
	return nil
}

// LastTranscript returns the most recently completed transcript, if any.
func (s *statusSink) LastTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTranscript
}

// SetWarning records a warning surfaced alongside the next status/stop
// response (e.g. an empty transcript or an injection failure).
func (s *statusSink) SetWarning(warning string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastWarning = warning
}

// Warning returns and clears the last recorded warning.
func (s *statusSink) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.lastWarning
	s.lastWarning = ""
	return w
}

// maxHistoryRecords bounds the in-memory session history statusSink keeps.
const maxHistoryRecords = 50

var _ session.HistorySink = (*statusSink)(nil)
