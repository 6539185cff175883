// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package ring implements the chunked ring: the single point where
// input-rate samples become fixed-duration 16 kHz chunks. It is owned
// exclusively by the capture supervisor; nothing else touches it directly.
package ring

import (
	"github.com/talkframe/ptt/audio"
)

// DefaultChunkSamples is 2.0s of 16kHz audio.
const DefaultChunkSamples = 32000

// DefaultOverlapSamples is 0.5s of 16kHz audio, used only as inference
// context for the next chunk; it is never re-appended to the full buffer.
const DefaultOverlapSamples = 8000

// DefaultQueueCapacity bounds the ready-chunk FIFO.
const DefaultQueueCapacity = 30

// Chunk is a fixed-length 16kHz mono segment with a monotonic index and a
// session-relative timestamp.
type Chunk struct {
	Samples     []float32
	Index       uint32
	TimestampMs uint64
	HasOverlap  bool
}

// Config tunes the ring's chunking behavior. Zero values are replaced with
// the package defaults by New.
type Config struct {
	ChunkSamples   int
	OverlapSamples int
	QueueCapacity  int
}

func (c Config) withDefaults() Config {
	if c.ChunkSamples <= 0 {
		c.ChunkSamples = DefaultChunkSamples
	}
	if c.OverlapSamples <= 0 {
		c.OverlapSamples = DefaultOverlapSamples
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	return c
}

// Ring accumulates conditioned samples at device rate, resamples them to
// 16kHz in chunk-sized slices, and exposes a FIFO of ready chunks plus the
// full resampled buffer needed for end-of-session reconciliation.
//
// Ring is not safe for concurrent use from more than one goroutine; the
// capture supervisor serializes all access.
type Ring struct {
	cfg Config

	fromRate int

	pending []float32 // at device rate
	ready   []Chunk   // FIFO, oldest first
	full    []float32 // all resampled samples produced so far

	nextIndex      uint32
	sessionStartMs uint64

	streamingEnabled bool

	droppedChunks int
}

// New creates a Ring for the given device sample rate.
func New(fromRate int, cfg Config) *Ring {
	return &Ring{
		cfg:              cfg.withDefaults(),
		fromRate:         fromRate,
		streamingEnabled: true,
	}
}

// chunkDurationMs is N*1000/16000 for the configured chunk length.
func (r *Ring) chunkDurationMs() uint64 {
	return uint64(r.cfg.ChunkSamples) * 1000 / audio.TargetSampleRate
}

// Reset clears the queue, pending buffer, and full buffer, zeroes the index
// counter, and captures a fresh session start timestamp (session-relative,
// so callers pass the wall-clock origin in milliseconds).
func (r *Ring) Reset(sessionStartMs uint64) {
	r.pending = r.pending[:0]
	r.ready = r.ready[:0]
	r.full = r.full[:0]
	r.nextIndex = 0
	r.sessionStartMs = sessionStartMs
	r.droppedChunks = 0
}

// EnableStreaming gates whether completed chunks are enqueued onto the ready
// FIFO. It never gates conditioning: the full buffer keeps growing either
// way, since reconciliation only needs the full buffer when streaming is off.
func (r *Ring) EnableStreaming(enabled bool) {
	r.streamingEnabled = enabled
}

// AddSamples appends device-rate samples to the pending buffer and drains
// every full chunk's worth of pending input into the ready queue / full
// buffer.
func (r *Ring) AddSamples(xs []float32) error {
	r.pending = append(r.pending, xs...)

	chunkAtDeviceRate := r.samplesAtDeviceRate(r.cfg.ChunkSamples)
	for len(r.pending) >= chunkAtDeviceRate {
		slice := r.pending[:chunkAtDeviceRate]
		r.pending = r.pending[chunkAtDeviceRate:]

		resampled, err := audio.ResampleTo16k(slice, r.fromRate)
		if err != nil {
			// ResampleFailed: the affected block is skipped without
			// being logged (the ring has no logger); the session goes on.
			continue
		}
		r.appendChunk(resampled)
	}
	return nil
}

// samplesAtDeviceRate converts a 16kHz sample count back to the device rate
// so pending (device-rate) accounting lines up with chunk boundaries.
func (r *Ring) samplesAtDeviceRate(samples16k int) int {
	if r.fromRate == audio.TargetSampleRate {
		return samples16k
	}
	return samples16k * r.fromRate / audio.TargetSampleRate
}

func (r *Ring) appendChunk(resampled []float32) {
	r.full = append(r.full, resampled...)

	idx := r.nextIndex
	r.nextIndex++

	if !r.streamingEnabled {
		return
	}

	if len(r.ready) >= r.cfg.QueueCapacity {
		r.ready = r.ready[1:]
		r.droppedChunks++
	}
	r.ready = append(r.ready, Chunk{
		Samples:     resampled,
		Index:       idx,
		TimestampMs: r.TimestampMs(idx),
		HasOverlap:  idx > 0,
	})
}

// DrainReady removes and returns every chunk currently queued.
func (r *Ring) DrainReady() []Chunk {
	if len(r.ready) == 0 {
		return nil
	}
	out := r.ready
	r.ready = nil
	return out
}

// TakeNext removes and returns the oldest ready chunk, if any.
func (r *Ring) TakeNext() (Chunk, bool) {
	if len(r.ready) == 0 {
		return Chunk{}, false
	}
	c := r.ready[0]
	r.ready = r.ready[1:]
	return c, true
}

// PendingCount returns the number of device-rate samples not yet formed into
// a chunk.
func (r *Ring) PendingCount() int {
	return len(r.pending)
}

// HasPending reports whether any device-rate samples remain unconsumed.
func (r *Ring) HasPending() bool {
	return len(r.pending) > 0
}

// DroppedChunks returns how many ready chunks have been dropped from the
// head of the queue due to overflow since the last Reset. A debug metric
// only; never surfaced as a user-visible error.
func (r *Ring) DroppedChunks() int {
	return r.droppedChunks
}

// FlushRemaining resamples and emits whatever is left in the pending buffer
// as a final chunk. Called exactly once at session end. Returns false if
// there was nothing pending.
func (r *Ring) FlushRemaining() (Chunk, bool) {
	if len(r.pending) == 0 {
		return Chunk{}, false
	}
	slice := r.pending
	r.pending = nil

	resampled, err := audio.ResampleTo16k(slice, r.fromRate)
	if err != nil || len(resampled) == 0 {
		return Chunk{}, false
	}

	r.full = append(r.full, resampled...)
	idx := r.nextIndex
	r.nextIndex++

	chunk := Chunk{
		Samples:     resampled,
		Index:       idx,
		TimestampMs: r.TimestampMs(idx),
		HasOverlap:  idx > 0,
	}
	if r.streamingEnabled {
		if len(r.ready) >= r.cfg.QueueCapacity {
			r.ready = r.ready[1:]
			r.droppedChunks++
		}
		r.ready = append(r.ready, chunk)
	}
	return chunk, true
}

// FullBuffer returns the full resampled buffer produced so far, without
// transferring ownership; callers must not mutate it.
func (r *Ring) FullBuffer() []float32 {
	return r.full
}

// TakeFullBuffer returns and clears the full resampled buffer.
func (r *Ring) TakeFullBuffer() []float32 {
	out := r.full
	r.full = nil
	return out
}

// TimestampMs computes the session-relative timestamp for a chunk index,
// derived purely from sample count so it never drifts against wall clock.
func (r *Ring) TimestampMs(index uint32) uint64 {
	return r.sessionStartMs + uint64(index)*r.chunkDurationMs()
}

// OverlapSamples returns the configured context-overlap length in 16kHz
// samples, used by the orchestrator when assembling per-chunk context.
func (r *Ring) OverlapSamples() int {
	return r.cfg.OverlapSamples
}
