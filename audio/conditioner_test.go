// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"math"
	"testing"
)

func TestDownmixIdentityMono(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3}
	out := Downmix(in, 1)
	if len(out) != len(in) {
		t.Fatalf("expected identity length %d, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestDownmixStereoMean(t *testing.T) {
	stereo := []float32{0.0, 1.0, 0.5, 0.5, -0.5, 0.5}
	mono := Downmix(stereo, 2)
	if len(mono) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(mono))
	}
	want := []float32{0.5, 0.5, 0.0}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-4 {
			t.Errorf("frame %d: expected %v, got %v", i, want[i], mono[i])
		}
	}
}

func TestDownmixDiscardsIncompleteFrame(t *testing.T) {
	stereo := []float32{0.2, 0.4, 0.6}
	mono := Downmix(stereo, 2)
	if len(mono) != 1 {
		t.Fatalf("expected trailing incomplete frame discarded, got len %d", len(mono))
	}
}

func TestRMSLevelEmpty(t *testing.T) {
	if level := RMSLevel(nil); level != 0 {
		t.Errorf("expected 0 for empty input, got %v", level)
	}
}

func TestRMSLevelSilence(t *testing.T) {
	samples := make([]float32, 100)
	if level := RMSLevel(samples); level != 0 {
		t.Errorf("expected 0 for silence, got %v", level)
	}
}

func TestRMSLevelClampsAtOne(t *testing.T) {
	samples := []float32{1.0, -1.0, 1.0, -1.0}
	level := RMSLevel(samples)
	if math.Abs(float64(level-1.0)) > 1e-4 {
		t.Errorf("expected clamp to 1.0, got %v", level)
	}
}

func TestRMSLevelBounds(t *testing.T) {
	samples := []float32{0.3, -0.2, 0.1, -0.4, 0.05}
	level := RMSLevel(samples)
	if level < 0 || level > 1 {
		t.Errorf("expected level in [0,1], got %v", level)
	}
}

func TestI16ToF32(t *testing.T) {
	if got := I16ToF32(32767); math.Abs(float64(got-1.0)) > 1e-6 {
		t.Errorf("expected ~1.0, got %v", got)
	}
	if got := I16ToF32(0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestResampleIdentity(t *testing.T) {
	samples := []float32{0.0, 0.5, -0.5, 0.25}
	out, err := ResampleTo16k(samples, TargetSampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(samples) {
		t.Fatalf("expected identity length, got %d", len(out))
	}
	for i := range samples {
		if out[i] != samples[i] {
			t.Errorf("index %d: expected %v, got %v", i, samples[i], out[i])
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	out, err := ResampleTo16k(nil, 44100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}

func TestResampleLengthInvariant(t *testing.T) {
	const fromRate = 44100
	numSamples := int(float64(fromRate) * 0.1)
	samples := make([]float32, numSamples)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / float64(fromRate)))
	}

	out, err := ResampleTo16k(samples, fromRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLen := int(math.Ceil(float64(numSamples) * float64(TargetSampleRate) / float64(fromRate)))
	if len(out) != wantLen {
		t.Errorf("expected length %d, got %d", wantLen, len(out))
	}
}

func TestResampleInvalidRate(t *testing.T) {
	if _, err := ResampleTo16k([]float32{0.1}, 0); err == nil {
		t.Error("expected error for zero source rate")
	}
}
