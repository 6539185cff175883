// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import (
	"testing"

	"github.com/talkframe/ptt/config/models"
)

func setDefaultConfigForTest(config *models.Config) {
	config.General.Debug = false
	config.General.TempAudioPath = "/tmp"
	config.General.ModelPrecision = "f16"
	config.General.Language = "auto"
	config.General.Models = []string{
		"sources/language-models/base.bin",
		"sources/language-models/small.bin",
		"sources/language-models/tiny.bin",
	}
	config.General.ActiveModel = "sources/language-models/base.bin"

	config.Session.ModelID = "base"
	config.Session.StreamingMode = models.StreamingModeBalanced
	config.Session.MinHoldMs = 200
	config.Session.CooldownMs = 500

	config.Audio.Device = "default"
	config.Audio.SampleRate = 16000
	config.Audio.MaxRecordingTime = 300

	config.Output.DefaultMode = models.OutputModeActiveWindow
	config.Output.ClipboardTool = "auto"
	config.Output.TypeTool = "auto"

	config.Security.AllowedCommands = []string{"xdotool", "wtype", "ydotool", "wl-copy", "wl-paste", "xclip", "notify-send", "xdg-open"}
	config.Security.CheckIntegrity = false
	config.Security.ConfigHash = ""
	config.Security.MaxTempFileSize = 50 * 1024 * 1024
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name           string
		setupConfig    func() *models.Config
		expectError    bool
		expectedValues map[string]interface{}
	}{
		{
			name: "valid config",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				return config
			},
			expectError: false,
			expectedValues: map[string]interface{}{
				"streamingMode": models.StreamingModeBalanced,
				"sampleRate":    16000,
			},
		},
		{
			name: "path traversal attack in temp audio path",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.General.TempAudioPath = "../../../etc/passwd"
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"tempAudioPath": "/tmp",
			},
		},
		{
			name: "invalid streaming mode",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.Session.StreamingMode = "turbo"
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"streamingMode": models.StreamingModeBalanced,
			},
		},
		{
			name: "invalid sample rate - too low",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.Audio.SampleRate = 1000
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"sampleRate": 16000,
			},
		},
		{
			name: "invalid sample rate - too high",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.Audio.SampleRate = 100000
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"sampleRate": 16000,
			},
		},
		{
			name: "invalid min hold",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.Session.MinHoldMs = -1
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"minHoldMs": int64(200),
			},
		},
		{
			name: "invalid max recording time",
			setupConfig: func() *models.Config {
				config := &models.Config{}
				setDefaultConfigForTest(config)
				config.Audio.MaxRecordingTime = 9000
				return config
			},
			expectError: true,
			expectedValues: map[string]interface{}{
				"maxRecordingTime": 300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.setupConfig()
			err := ValidateConfig(config)

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if streamingMode, ok := tt.expectedValues["streamingMode"]; ok {
				if config.Session.StreamingMode != streamingMode {
					t.Errorf("expected StreamingMode %v, got %v", streamingMode, config.Session.StreamingMode)
				}
			}
			if sampleRate, ok := tt.expectedValues["sampleRate"]; ok {
				if config.Audio.SampleRate != sampleRate {
					t.Errorf("expected SampleRate %v, got %v", sampleRate, config.Audio.SampleRate)
				}
			}
			if tempAudioPath, ok := tt.expectedValues["tempAudioPath"]; ok {
				if config.General.TempAudioPath != tempAudioPath {
					t.Errorf("expected TempAudioPath %v, got %v", tempAudioPath, config.General.TempAudioPath)
				}
			}
			if minHoldMs, ok := tt.expectedValues["minHoldMs"]; ok {
				if config.Session.MinHoldMs != minHoldMs {
					t.Errorf("expected MinHoldMs %v, got %v", minHoldMs, config.Session.MinHoldMs)
				}
			}
			if maxRecordingTime, ok := tt.expectedValues["maxRecordingTime"]; ok {
				if config.Audio.MaxRecordingTime != maxRecordingTime {
					t.Errorf("expected MaxRecordingTime %v, got %v", maxRecordingTime, config.Audio.MaxRecordingTime)
				}
			}
		})
	}
}
