// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package capture

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestBytesToFloat32(t *testing.T) {
	want := []float32{0.25, -0.5, 1.0}
	buf := make([]byte, 4*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	got := bytesToFloat32(buf)
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestBytesToFloat32Empty(t *testing.T) {
	if got := bytesToFloat32(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %d samples", len(got))
	}
}
