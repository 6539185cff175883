// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package config provides configuration management functionality with support for multiple
// configuration formats, validation, and security features.
//
// Subpackages:
//   - models:     Defines the core configuration data structures.
//   - loaders:    Handles loading and saving configuration from/to different formats (e.g., YAML).
//   - validators: Implements validation logic to ensure configuration integrity.
//   - security:   Provides security-related utilities like integrity checks and command validation.
package config

import (
	"os"
	"path/filepath"

	"github.com/talkframe/ptt/config/loaders"
	"github.com/talkframe/ptt/config/models"
	"github.com/talkframe/ptt/config/security"
	"github.com/talkframe/ptt/config/validators"
	"github.com/talkframe/ptt/session"
	"github.com/talkframe/ptt/streaming"
)

// ConfigFilePath returns the XDG-conventional path to the user's
// configuration file: $HOME/.config/ptt/config.yaml.
func ConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ptt", "config.yaml"), nil
}

// Config is a type alias for the main configuration structure defined in the models package.
// This provides a convenient way to reference the configuration type without importing the models package directly.
type Config = models.Config

// Output mode constants, aliased from the models package for convenience.
const (
	OutputModeClipboard    = models.OutputModeClipboard
	OutputModeActiveWindow = models.OutputModeActiveWindow
	OutputModeCombined     = models.OutputModeCombined
)

// streamingModeFromString maps the on-disk streaming mode string onto
// streaming.Mode, defaulting to Balanced for anything unrecognized (the
// validator is expected to have already corrected it by this point).
func streamingModeFromString(s string) streaming.Mode {
	switch s {
	case models.StreamingModeSpeed:
		return streaming.ModeSpeed
	case models.StreamingModeAccuracy:
		return streaming.ModeAccuracy
	default:
		return streaming.ModeBalanced
	}
}

// SessionSettings converts the on-disk Session block into the snapshot the
// Session State Machine takes at the start of a press.
func SessionSettings(config *Config) session.Settings {
	return session.Settings{
		ModelID:          config.Session.ModelID,
		StreamingEnabled: config.Session.StreamingEnabled,
		StreamingMode:    streamingModeFromString(config.Session.StreamingMode),
		CustomVocabulary: config.Session.CustomVocabulary,
		ContextPrompt:    config.Session.ContextPrompt,
		UseContextPrompt: config.Session.UseContextPrompt,
		MinHoldMs:        config.Session.MinHoldMs,
		CooldownMs:       config.Session.CooldownMs,
	}
}

// Load configuration from the specified file using the configured loader.
func LoadConfig(filename string) (*Config, error) {
	return loaders.LoadConfig(filename)
}

// Write the configuration to the specified file.
func SaveConfig(filename string, config *Config) error {
	return loaders.SaveConfig(filename, config)
}

// Apply the default values to a configuration object.
func SetDefaultConfig(config *Config) {
	loaders.SetDefaultConfig(config)
}

// Check the configuration for correctness and apply corrections if necessary.
func ValidateConfig(config *Config) error {
	return validators.ValidateConfig(config)
}

// Check if a command is permitted by the security policy.
func IsCommandAllowed(config *Config, command string) bool {
	return security.IsCommandAllowed(config, command)
}

// Remove potentially unsafe arguments from a command.
func SanitizeCommandArgs(args []string) []string {
	return security.SanitizeCommandArgs(args)
}

// Verify if the configuration file has been tampered with.
func VerifyConfigIntegrity(filename string, config *Config) error {
	return security.VerifyConfigIntegrity(filename, config)
}

// Calculate and update the integrity hash for the configuration file.
func UpdateConfigHash(filename string, config *Config) error {
	return security.UpdateConfigHash(filename, config)
}

// Compute the SHA-256 hash of a file.
func CalculateFileHash(filename string) (string, error) {
	return security.CalculateFileHash(filename)
}

// Enforce that a file does not exceed the configured size limit.
func EnforceFileSizeLimit(filename string, config *Config) error {
	return security.EnforceFileSizeLimit(filename, config)
}
