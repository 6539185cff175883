// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package audio implements the sample conditioner: the pure, allocation-light
// transforms that sit between the raw device callback and the chunked ring.
// Nothing here blocks or touches the filesystem.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// TargetSampleRate is the rate the rest of the pipeline is native to.
const TargetSampleRate = 16000

// resampleBlockFrames is the fixed block size the polyphase resampler
// operates on, processed in chunks rather than one sample at a time.
const resampleBlockFrames = 1024

// ErrResamplerInit is returned when the requested rate ratio cannot be
// realized by the resampler.
var ErrResamplerInit = errors.New("audio: resampler could not be initialized for requested ratio")

// ErrResamplerProcess is returned when a block fails to resample; callers are
// expected to log and skip the affected block rather than abort the session.
var ErrResamplerProcess = errors.New("audio: resampler failed to process block")

// Downmix converts interleaved multi-channel samples to mono by averaging
// each frame's channels. channels==1 is the identity transform. Incomplete
// trailing frames (fewer than channels samples) are discarded.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		out := make([]float32, len(interleaved))
		copy(out, interleaved)
		return out
	}
	frames := len(interleaved) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += interleaved[base+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// RMSLevel returns a normalized 0..1 loudness estimate: min(1.0, 5*rms(x)).
// Empty input returns 0. The ×5 gain calibrates typical speech (RMS≈0.1)
// into a visible range; the clamp guards against clipped input.
func RMSLevel(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		sumSquares += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	level := float32(rms * 5.0)
	if level > 1.0 {
		return 1.0
	}
	return level
}

// I16ToF32 converts a signed 16-bit PCM sample to a normalized float32.
func I16ToF32(s int16) float32 {
	return float32(s) / 32767.0
}

// ResampleTo16k resamples samples from fromRate to TargetSampleRate. It is
// the identity transform when fromRate already equals TargetSampleRate or
// the input is empty. Output length is exactly ceil(len(samples)*16000/fromRate);
// any padding introduced at the resampler's block boundary is truncated to
// preserve that length invariant.
func ResampleTo16k(samples []float32, fromRate int) ([]float32, error) {
	if fromRate <= 0 {
		return nil, fmt.Errorf("audio: %w: invalid source rate %d", ErrResamplerInit, fromRate)
	}
	if fromRate == TargetSampleRate || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	ratio := float64(TargetSampleRate) / float64(fromRate)
	r, err := newPolyphaseResampler(ratio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResamplerInit, err)
	}

	output := make([]float32, 0, int(float64(len(samples))*ratio)+resampleBlockFrames)
	pos := 0
	for pos < len(samples) {
		end := pos + resampleBlockFrames
		if end > len(samples) {
			end = len(samples)
		}
		block := make([]float32, resampleBlockFrames)
		copy(block, samples[pos:end])

		processed, err := r.process(block)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResamplerProcess, err)
		}
		output = append(output, processed...)
		pos = end
	}

	expectedLen := int(math.Ceil(float64(len(samples)) * ratio))
	if len(output) > expectedLen {
		output = output[:expectedLen]
	}
	for len(output) < expectedLen {
		output = append(output, 0)
	}
	return output, nil
}
