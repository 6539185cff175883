// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package supervisor serializes all capture operations onto a single
// dedicated OS thread, because the device handle the capture worker owns is
// not movable across threads on some platforms. Callers talk to it only
// through a synchronous command/reply channel pair with a bounded timeout,
// so a wedged callback can only block one command, never the whole process.
package supervisor

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/talkframe/ptt/audio/capture"
	"github.com/talkframe/ptt/audio/ring"
	"github.com/talkframe/ptt/internal/logger"
)

// DefaultReplyTimeout is the bound any command waits for a reply before the
// caller treats the worker thread as stuck.
const DefaultReplyTimeout = 5 * time.Second

// IdlePollInterval is how often the supervisor thread wakes with nothing to
// do, matching §4.4's 50ms level-cache refresh cadence.
const IdlePollInterval = 50 * time.Millisecond

// ErrTimeout is returned when the dedicated thread does not reply in time.
var ErrTimeout = errors.New("supervisor: reply timeout")

type commandKind int

const (
	cmdStart commandKind = iota
	cmdStop
	cmdIsRecording
	cmdDuration
	cmdLevel
	cmdEnableStreaming
	cmdDrainChunks
	cmdFlushChunk
	cmdTakeFullBuffer
	cmdShutdown
)

type request struct {
	kind  commandKind
	arg   bool
	reply chan reply
}

type reply struct {
	err      error
	ok       bool
	duration time.Duration
	level    float32
	chunks   []ring.Chunk
	chunk    *ring.Chunk
	samples  []float32
}

// Supervisor owns the capture worker from a dedicated OS thread and exposes
// a typed, timeout-bounded request/reply API to the rest of the process.
type Supervisor struct {
	log      logger.Logger
	fromRate int

	startOnce sync.Once
	reqCh     chan request
	stopped   chan struct{}
}

// New creates a Supervisor for a device expected at fromRate Hz. The
// dedicated thread is not spawned until the first command is sent.
func New(fromRate int, log logger.Logger) *Supervisor {
	if log == nil {
		log = logger.NewDefaultLogger(logger.ErrorLevel)
	}
	return &Supervisor{
		log:      log,
		fromRate: fromRate,
		stopped:  make(chan struct{}),
	}
}

func (s *Supervisor) ensureStarted() {
	s.startOnce.Do(func() {
		s.reqCh = make(chan request)
		go s.run()
	})
}

// run is the body of the dedicated OS thread. The capture worker's malgo
// device handle is created and destroyed only here.
func (s *Supervisor) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := ring.New(s.fromRate, ring.Config{})
	w := capture.New(r, s.log)

	idle := time.NewTicker(IdlePollInterval)
	defer idle.Stop()
	defer close(s.stopped)

	for {
		select {
		case req := <-s.reqCh:
			if s.handle(req, r, w) {
				return
			}
		case <-idle.C:
			// Nothing to refresh explicitly: the callback already
			// maintains the level cache at its own cadence. This tick
			// exists so a stuck device surfaces quickly via RuntimeError
			// rather than only on the next command.
			if err := w.RuntimeError(); err != nil {
				s.log.Warning("capture supervisor: %v", err)
			}
		}
	}
}

// handle executes one request against the worker/ring owned by this thread
// and returns true if the supervisor should terminate.
func (s *Supervisor) handle(req request, r *ring.Ring, w *capture.Worker) bool {
	rep := reply{}
	switch req.kind {
	case cmdStart:
		r.Reset(uint64(time.Now().UnixMilli()))
		rep.err = w.Start()
	case cmdStop:
		w.Stop()
		rep.ok = true
	case cmdIsRecording:
		rep.ok = w.IsRecording()
	case cmdDuration:
		rep.duration = w.Duration()
	case cmdLevel:
		rep.level = w.Level()
	case cmdEnableStreaming:
		r.EnableStreaming(req.arg)
		rep.ok = true
	case cmdDrainChunks:
		rep.chunks = r.DrainReady()
	case cmdFlushChunk:
		if c, ok := r.FlushRemaining(); ok {
			rep.chunk = &c
		}
	case cmdTakeFullBuffer:
		rep.samples = r.TakeFullBuffer()
	case cmdShutdown:
		w.Stop()
		rep.ok = true
		req.reply <- rep
		return true
	}
	req.reply <- rep
	return false
}

func (s *Supervisor) send(kind commandKind, arg bool) (reply, error) {
	s.ensureStarted()
	req := request{kind: kind, arg: arg, reply: make(chan reply, 1)}
	select {
	case s.reqCh <- req:
	case <-time.After(DefaultReplyTimeout):
		return reply{}, ErrTimeout
	}
	select {
	case r := <-req.reply:
		return r, nil
	case <-time.After(DefaultReplyTimeout):
		return reply{}, ErrTimeout
	}
}

// Start opens the capture device and resets the ring for a new session.
func (s *Supervisor) Start() error {
	r, err := s.send(cmdStart, false)
	if err != nil {
		return err
	}
	return r.err
}

// Stop closes the capture device.
func (s *Supervisor) Stop() error {
	_, err := s.send(cmdStop, false)
	return err
}

// IsRecording reports whether the device stream is active.
func (s *Supervisor) IsRecording() (bool, error) {
	r, err := s.send(cmdIsRecording, false)
	return r.ok, err
}

// Duration returns the current session's elapsed capture time.
func (s *Supervisor) Duration() (time.Duration, error) {
	r, err := s.send(cmdDuration, false)
	return r.duration, err
}

// Level returns the most recently cached RMS level.
func (s *Supervisor) Level() (float32, error) {
	r, err := s.send(cmdLevel, false)
	return r.level, err
}

// EnableStreaming gates whether the ring enqueues ready chunks.
func (s *Supervisor) EnableStreaming(enabled bool) error {
	_, err := s.send(cmdEnableStreaming, enabled)
	return err
}

// DrainChunks returns and clears every chunk currently queued.
func (s *Supervisor) DrainChunks() ([]ring.Chunk, error) {
	r, err := s.send(cmdDrainChunks, false)
	return r.chunks, err
}

// FlushChunk flushes any remaining pending samples as a final chunk.
func (s *Supervisor) FlushChunk() (*ring.Chunk, error) {
	r, err := s.send(cmdFlushChunk, false)
	return r.chunk, err
}

// TakeFullBuffer returns and clears the full resampled buffer.
func (s *Supervisor) TakeFullBuffer() ([]float32, error) {
	r, err := s.send(cmdTakeFullBuffer, false)
	return r.samples, err
}

// Shutdown best-effort stops the worker and joins the dedicated thread.
func (s *Supervisor) Shutdown() error {
	if s.reqCh == nil {
		return nil
	}
	_, err := s.send(cmdShutdown, false)
	if err != nil {
		return fmt.Errorf("supervisor: shutdown: %w", err)
	}
	<-s.stopped
	return nil
}
