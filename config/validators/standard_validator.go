// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/talkframe/ptt/config/models"
)

// ValidateConfig inspects the configuration for invalid or unsafe values. It
// automatically corrects offending values to safe defaults and returns an
// error that aggregates all validation issues found, so the application can
// always run with a sane configuration.
func ValidateConfig(config *models.Config) error {
	var errors []string

	if config.General.TempAudioPath != "" {
		config.General.TempAudioPath = filepath.Clean(config.General.TempAudioPath)
		if strings.Contains(config.General.TempAudioPath, "..") {
			config.General.TempAudioPath = "/tmp"
			errors = append(errors, "suspicious temp audio path sanitized to /tmp")
		}
	}

	switch config.Session.StreamingMode {
	case models.StreamingModeSpeed, models.StreamingModeBalanced, models.StreamingModeAccuracy:
	default:
		errors = append(errors, fmt.Sprintf("invalid streaming mode: %s, correcting to %q", config.Session.StreamingMode, models.StreamingModeBalanced))
		config.Session.StreamingMode = models.StreamingModeBalanced
	}

	if config.Session.MinHoldMs <= 0 {
		errors = append(errors, "invalid min_hold_ms, correcting to 200")
		config.Session.MinHoldMs = 200
	}
	if config.Session.CooldownMs < 0 {
		errors = append(errors, "invalid cooldown_ms, correcting to 500")
		config.Session.CooldownMs = 500
	}

	if config.Audio.SampleRate < 8000 || config.Audio.SampleRate > 48000 {
		errors = append(errors, fmt.Sprintf("invalid sample rate: %d, correcting to 16000", config.Audio.SampleRate))
		config.Audio.SampleRate = 16000
	}

	if config.Audio.MaxRecordingTime <= 0 || config.Audio.MaxRecordingTime > 1800 {
		errors = append(errors, fmt.Sprintf("invalid max recording time: %d, correcting to 300s", config.Audio.MaxRecordingTime))
		config.Audio.MaxRecordingTime = 300
	}

	if config.WebServer.Enabled {
		if config.WebServer.Port <= 0 || config.WebServer.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid port: %d, correcting to 8080", config.WebServer.Port))
			config.WebServer.Port = 8080
		}

		if config.WebServer.Host == "" {
			config.WebServer.Host = "localhost"
		} else {
			hostRegex := regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
			if !hostRegex.MatchString(config.WebServer.Host) {
				errors = append(errors, fmt.Sprintf("invalid host: %s, correcting to 'localhost'", config.WebServer.Host))
				config.WebServer.Host = "localhost"
			}
		}
	}

	if len(config.Security.AllowedCommands) == 0 {
		config.Security.AllowedCommands = []string{"xdotool", "wl-copy", "xclip", "xsel"}
		errors = append(errors, "allowed_commands was empty, populated with defaults")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation issues: %s", strings.Join(errors, "; "))
	}

	return nil
}
