// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package streaming

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talkframe/ptt/asr"
	"github.com/talkframe/ptt/audio/ring"
	"github.com/talkframe/ptt/events"
)

type fakeEngine struct {
	chunkTexts   map[uint32]string
	chunkErr     error
	batchText    string
	batchErr     error
	loadedCalled bool
}

func (f *fakeEngine) IsLoaded() bool { return true }

func (f *fakeEngine) TranscribeChunk(chunkIndex uint32, _ []float32, _ string) (asr.ChunkResult, error) {
	if f.chunkErr != nil {
		return asr.ChunkResult{}, f.chunkErr
	}
	return asr.ChunkResult{Text: f.chunkTexts[chunkIndex], ChunkIndex: chunkIndex, Confidence: 0.8}, nil
}

func (f *fakeEngine) TranscribeWithAutoLoad(_ context.Context, _ []float32, _ string, _ string) (asr.Result, error) {
	f.loadedCalled = true
	if f.batchErr != nil {
		return asr.Result{}, f.batchErr
	}
	return asr.Result{Text: f.batchText}, nil
}

func chunkAt(index uint32) ring.Chunk {
	return ring.Chunk{Samples: make([]float32, 16000), Index: index, TimestampMs: uint64(index) * 2000}
}

func TestProcessChunkAccumulatesText(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "hello", 1: "world"}}
	o := New(eng, events.NewBus())
	o.Start(ModeSpeed)

	if err := o.ProcessChunk("base", chunkAt(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.ProcessChunk("base", chunkAt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o.mu.Lock()
	got := o.accumulatedText
	o.mu.Unlock()
	if got != "hello world" {
		t.Errorf("expected accumulated text %q, got %q", "hello world", got)
	}
}

func TestProcessChunkRejectsOutOfOrder(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "a", 1: "b"}}
	o := New(eng, events.NewBus())
	o.Start(ModeSpeed)

	_ = o.ProcessChunk("base", chunkAt(1))
	if err := o.ProcessChunk("base", chunkAt(0)); !errors.Is(err, ErrChunkOutOfOrder) {
		t.Errorf("expected ErrChunkOutOfOrder, got %v", err)
	}
	if err := o.ProcessChunk("base", chunkAt(1)); !errors.Is(err, ErrChunkOutOfOrder) {
		t.Errorf("expected duplicate resubmission rejected, got %v", err)
	}
}

func TestProcessChunkRejectsWhenNotActive(t *testing.T) {
	eng := &fakeEngine{}
	o := New(eng, events.NewBus())
	if err := o.ProcessChunk("base", chunkAt(0)); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}

func TestRateLimitedEmission(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "a", 1: "b", 2: "c"}}
	bus := events.NewBus()
	var partials int
	bus.Subscribe(func(ev events.Event) {
		if ev.Partial != nil {
			partials++
		}
	})

	o := New(eng, bus)
	o.Start(ModeSpeed)

	_ = o.ProcessChunk("base", chunkAt(0))
	_ = o.ProcessChunk("base", chunkAt(1)) // within the 333ms window, should be skipped
	_ = o.ProcessChunk("base", chunkAt(2)) // also within the window

	if partials != 1 {
		t.Errorf("expected exactly 1 emission inside the rate-limit window, got %d", partials)
	}
}

func TestForceEmitPartialBypassesRateLimit(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "a"}}
	bus := events.NewBus()
	var partials int
	bus.Subscribe(func(ev events.Event) {
		if ev.Partial != nil {
			partials++
		}
	})
	o := New(eng, bus)
	o.Start(ModeSpeed)
	_ = o.ProcessChunk("base", chunkAt(0))
	o.ForceEmitPartial(2000)

	if partials != 2 {
		t.Errorf("expected the forced emission to bypass the rate limit, got %d partials", partials)
	}
}

func TestReconcileSpeedModeUsesAccumulatedVerbatim(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "streamed text"}}
	bus := events.NewBus()
	var final *events.Final
	bus.Subscribe(func(ev events.Event) {
		if ev.Final != nil {
			final = ev.Final
		}
	})
	o := New(eng, bus)
	o.Start(ModeSpeed)
	_ = o.ProcessChunk("base", chunkAt(0))

	o.Reconcile(context.Background(), ReconcileInput{ModelID: "base", FullSamples: make([]float32, 16000)})

	if final == nil || final.Text != "streamed text" || !final.Reconciled {
		t.Errorf("unexpected final event: %+v", final)
	}
	if eng.loadedCalled {
		t.Error("speed mode must not re-run inference")
	}
	if o.IsActive() {
		t.Error("expected orchestrator to deactivate after reconciliation")
	}
}

func TestReconcileBalancedSplicesWordCounts(t *testing.T) {
	eng := &fakeEngine{
		chunkTexts: map[uint32]string{0: "alpha beta gamma delta epsilon zeta eta theta iota"},
		batchText:  "epsilon zeta eta theta iota kappa",
	}
	bus := events.NewBus()
	var final *events.Final
	bus.Subscribe(func(ev events.Event) {
		if ev.Final != nil {
			final = ev.Final
		}
	})
	o := New(eng, bus)
	o.Start(ModeBalanced)
	_ = o.ProcessChunk("base", chunkAt(0))

	full := make([]float32, 16000*6) // >5s, triggers tail retranscription
	o.Reconcile(context.Background(), ReconcileInput{ModelID: "base", FullSamples: full})

	want := "alpha epsilon zeta eta theta iota kappa"
	if final == nil || final.Text != want {
		t.Errorf("expected %q, got %+v", want, final)
	}
}

func TestReconcileBalancedShortSessionUsesStreamingText(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "short session text"}}
	bus := events.NewBus()
	var final *events.Final
	bus.Subscribe(func(ev events.Event) {
		if ev.Final != nil {
			final = ev.Final
		}
	})
	o := New(eng, bus)
	o.Start(ModeBalanced)
	_ = o.ProcessChunk("base", chunkAt(0))

	full := make([]float32, 16000*3) // <=5s
	o.Reconcile(context.Background(), ReconcileInput{ModelID: "base", FullSamples: full})

	if final == nil || final.Text != "short session text" {
		t.Errorf("expected streaming text used verbatim for short sessions, got %+v", final)
	}
	if eng.loadedCalled {
		t.Error("expected no tail retranscription for sessions <=5s")
	}
}

func TestReconcileAccuracyModeFullRetranscribe(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "streamed"}, batchText: "full re-transcription"}
	bus := events.NewBus()
	var final *events.Final
	bus.Subscribe(func(ev events.Event) {
		if ev.Final != nil {
			final = ev.Final
		}
	})
	o := New(eng, bus)
	o.Start(ModeAccuracy)
	_ = o.ProcessChunk("base", chunkAt(0))
	o.Reconcile(context.Background(), ReconcileInput{ModelID: "base", FullSamples: make([]float32, 16000), InitialPrompt: "vocab"})

	if final == nil || final.Text != "full re-transcription" {
		t.Errorf("expected full re-transcription result, got %+v", final)
	}
}

func TestReconcileFallsBackOnError(t *testing.T) {
	eng := &fakeEngine{chunkTexts: map[uint32]string{0: "fallback text"}, batchErr: errors.New("boom")}
	bus := events.NewBus()
	var final *events.Final
	bus.Subscribe(func(ev events.Event) {
		if ev.Final != nil {
			final = ev.Final
		}
	})
	o := New(eng, bus)
	o.Start(ModeAccuracy)
	_ = o.ProcessChunk("base", chunkAt(0))
	o.Reconcile(context.Background(), ReconcileInput{ModelID: "base", FullSamples: make([]float32, 16000)})

	if final == nil || final.Text != "fallback text" || final.Reconciled {
		t.Errorf("expected fallback to accumulated text with reconciled=false, got %+v", final)
	}
}

func TestChunkErrorEmitsErrorEventAndContinues(t *testing.T) {
	eng := &fakeEngine{chunkErr: errors.New("inference blew up")}
	bus := events.NewBus()
	var errEvents int
	bus.Subscribe(func(ev events.Event) {
		if ev.Error != nil {
			errEvents++
		}
	})
	o := New(eng, bus)
	o.Start(ModeSpeed)

	if err := o.ProcessChunk("base", chunkAt(0)); err != nil {
		t.Fatalf("expected ProcessChunk to swallow the inference error, got %v", err)
	}
	if err := o.ProcessChunk("base", chunkAt(1)); err != nil {
		t.Fatalf("expected the session to continue after a chunk error, got %v", err)
	}
	if errEvents != 2 {
		t.Errorf("expected 2 transcription.error events, got %d", errEvents)
	}
}

func TestRateLimitProperty(t *testing.T) {
	// In any 1s window, at most 3 transcription.partial events are emitted
	// (MinEmitIntervalMs=333ms ~ 3/s).
	eng := &fakeEngine{chunkTexts: map[uint32]string{}}
	for i := uint32(0); i < 10; i++ {
		eng.chunkTexts[i] = "x"
	}
	bus := events.NewBus()
	var partials int
	bus.Subscribe(func(ev events.Event) {
		if ev.Partial != nil {
			partials++
		}
	})
	o := New(eng, bus)
	o.Start(ModeSpeed)

	start := time.Now()
	for i := uint32(0); i < 10 && time.Since(start) < time.Second; i++ {
		_ = o.ProcessChunk("base", chunkAt(i))
		time.Sleep(50 * time.Millisecond)
	}

	if partials > 6 {
		t.Errorf("expected at most ~3/s within one second window, got %d", partials)
	}
}
