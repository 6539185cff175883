// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package loaders

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/talkframe/ptt/config/models"
	"github.com/talkframe/ptt/config/validators"
	yaml "gopkg.in/yaml.v2"
)

// LoadConfig loads configuration from file, falling back to defaults if the
// file is missing, and correcting invalid values found within it.
func LoadConfig(filename string) (*models.Config, error) {
	var config models.Config
	SetDefaultConfig(&config)

	clean := filepath.Clean(filename)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("invalid config path: %s", filename)
	}
	// #nosec G304 -- path is sanitized above and controlled by application configuration.
	data, err := os.ReadFile(clean)
	if err != nil {
		log.Printf("Warning: could not read config file: %v", err)
		log.Println("Using default configuration")
		return &config, nil
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := validators.ValidateConfig(&config); err != nil {
		log.Printf("Configuration validation error: %v", err)
		log.Println("Using validated configuration with corrections")
	}

	return &config, nil
}

// SetDefaultConfig fills config with the daemon's baseline defaults.
func SetDefaultConfig(config *models.Config) {
	config.General.Debug = false
	config.General.TempAudioPath = "/tmp"
	config.General.ModelPrecision = "f16"
	config.General.Language = "auto"
	config.General.LogFile = ""
	config.General.Models = []string{
		"sources/language-models/base.bin",
		"sources/language-models/small.bin",
		"sources/language-models/tiny.bin",
	}
	config.General.ActiveModel = "sources/language-models/base.bin"

	config.Session.ModelID = "base"
	config.Session.StreamingEnabled = true
	config.Session.StreamingMode = models.StreamingModeBalanced
	config.Session.CustomVocabulary = nil
	config.Session.ContextPrompt = ""
	config.Session.UseContextPrompt = false
	config.Session.MinHoldMs = 200
	config.Session.CooldownMs = 500

	config.Hotkeys.Provider = "auto"
	config.Hotkeys.StartStop = "ctrl+alt+r"
	config.Hotkeys.ToggleStreaming = "altgr+shift+s"
	config.Hotkeys.SwitchModel = "altgr+shift+m"
	config.Hotkeys.ShowConfig = "altgr+shift+c"
	config.Hotkeys.ResetToDefaults = "altgr+shift+r"

	config.Audio.Device = "default"
	config.Audio.SampleRate = 16000
	config.Audio.MaxRecordingTime = 300

	config.Output.DefaultMode = models.OutputModeActiveWindow
	config.Output.ClipboardTool = "auto"
	config.Output.TypeTool = "auto"
	config.Output.AutoPaste = true

	config.Notifications.EnableWorkflowNotifications = true

	config.WebServer.Enabled = false
	config.WebServer.Port = 8080
	config.WebServer.Host = "localhost"
	config.WebServer.AuthToken = ""
	config.WebServer.LogRequests = true
	config.WebServer.CORSOrigins = "*"
	config.WebServer.MaxClients = 10

	config.Security.AllowedCommands = []string{
		"xdotool", "wtype", "ydotool", "wl-copy", "wl-paste", "xclip", "xsel",
		"notify-send", "xdg-open",
	}
	config.Security.CheckIntegrity = false
	config.Security.ConfigHash = ""
	config.Security.MaxTempFileSize = 50 * 1024 * 1024
}

// SaveConfig writes the configuration back to disk in YAML format.
func SaveConfig(filename string, config *models.Config) error {
	safe := filepath.Clean(filename)
	if strings.Contains(safe, "..") {
		return fmt.Errorf("invalid config path: %s", filename)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(safe), 0o750); err != nil {
		return err
	}

	return os.WriteFile(safe, data, 0o600)
}
