// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package capture owns the audio device stream, using malgo's device-callback
// model to feed a real-time sample conditioner rather than shelling out to a
// recorder subprocess.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/talkframe/ptt/audio"
	"github.com/talkframe/ptt/audio/ring"
	"github.com/talkframe/ptt/internal/logger"
)

// ErrNoInputDevice is returned when no capture device is available.
var ErrNoInputDevice = errors.New("capture: no input device available")

// ErrPermissionDenied is returned when the OS denies microphone access.
var ErrPermissionDenied = errors.New("capture: permission denied")

// ErrDeviceDisconnected is surfaced when the stream drops mid-session.
var ErrDeviceDisconnected = errors.New("capture: device disconnected")

// levelWindowSamples is roughly 100ms at 16kHz, the cadence the level cache
// is refreshed at.
const levelWindowSamples = audio.TargetSampleRate / 10

// Worker owns one malgo capture device and feeds a chunked ring on every
// callback. It must be used from a single goroutine (the capture
// supervisor's dedicated OS thread) — the callback itself runs on malgo's
// own realtime thread and only touches the ring and level cache under a
// short-held mutex.
type Worker struct {
	log logger.Logger

	ring *ring.Ring

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	deviceChannels int

	mu          sync.Mutex
	recording   bool
	startedAt   time.Time
	levelWindow []float32
	level       float32
	disconnectedErr error
}

// New creates a Worker that conditions samples into r.
func New(r *ring.Ring, log logger.Logger) *Worker {
	if log == nil {
		log = logger.NewDefaultLogger(logger.ErrorLevel)
	}
	return &Worker{ring: r, log: log}
}

// Start opens the default input device at 16kHz mono float32 when possible,
// registers the realtime callback, and begins streaming.
func (w *Worker) Start() error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		w.log.Debug("malgo: %s", message)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoInputDevice, err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = audio.TargetSampleRate
	deviceConfig.PeriodSizeInMilliseconds = 32

	callbacks := malgo.DeviceCallbacks{
		Data: w.onRecvFrames,
		Stop: func() {
			w.mu.Lock()
			if w.recording {
				w.disconnectedErr = ErrDeviceDisconnected
			}
			w.mu.Unlock()
			w.log.Warning("capture: device stream stopped unexpectedly")
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("%w: %v", ErrNoInputDevice, err)
	}

	w.deviceChannels = int(deviceConfig.Capture.Channels)

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("capture: failed to start device: %w", err)
	}

	w.malgoCtx = ctx
	w.device = device

	w.mu.Lock()
	w.recording = true
	w.startedAt = time.Now()
	w.levelWindow = w.levelWindow[:0]
	w.level = 0
	w.disconnectedErr = nil
	w.mu.Unlock()

	return nil
}

// onRecvFrames is the realtime callback: it must not allocate beyond the
// unavoidable buffer extend, must not take long locks, and must never
// perform inference, I/O, or file operations.
func (w *Worker) onRecvFrames(_, pInputSamples []byte, _ uint32) {
	w.mu.Lock()
	recording := w.recording
	w.mu.Unlock()
	if !recording {
		return
	}

	raw := bytesToFloat32(pInputSamples)
	mono := audio.Downmix(raw, w.deviceChannels)

	w.mu.Lock()
	_ = w.ring.AddSamples(mono)
	w.levelWindow = append(w.levelWindow, mono...)
	if len(w.levelWindow) >= levelWindowSamples {
		w.level = audio.RMSLevel(w.levelWindow)
		w.levelWindow = w.levelWindow[:0]
	}
	w.mu.Unlock()
}

// Stop halts the device stream and releases it.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.recording = false
	w.mu.Unlock()

	if w.device != nil {
		w.device.Stop()
		w.device.Uninit()
		w.device = nil
	}
	if w.malgoCtx != nil {
		_ = w.malgoCtx.Uninit()
		w.malgoCtx.Free()
		w.malgoCtx = nil
	}
}

// IsRecording reports whether the device stream is currently active.
func (w *Worker) IsRecording() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recording
}

// Duration returns how long capture has been running, so the supervisor can
// enforce the maximum session length.
func (w *Worker) Duration() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.recording {
		return 0
	}
	return time.Since(w.startedAt)
}

// Level returns the most recently cached RMS level, refreshed roughly every
// 100ms on the callback path.
func (w *Worker) Level() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

// RuntimeError drains and returns any error surfaced by the device stream
// since the last call (e.g. a disconnect), or nil.
func (w *Worker) RuntimeError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.disconnectedErr
	w.disconnectedErr = nil
	return err
}

func bytesToFloat32(data []byte) []float32 {
	numSamples := len(data) / 4
	samples := make([]float32, numSamples)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}
