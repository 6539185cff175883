// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package models

// Output mode constants to avoid magic strings throughout the codebase.
const (
	OutputModeClipboard    = "clipboard"
	OutputModeActiveWindow = "active_window"
	OutputModeCombined     = "combined"
)

// Streaming mode constants, mirrored as strings so they round-trip through
// YAML; the config facade maps them onto streaming.Mode.
const (
	StreamingModeSpeed    = "speed"
	StreamingModeBalanced = "balanced"
	StreamingModeAccuracy = "accuracy"
)

// Config is the on-disk application configuration: the ambient daemon
// settings plus the snapshot the Settings collaborator hands the Session
// State Machine at the start of every session.
type Config struct {
	// General settings
	General struct {
		Debug          bool     `yaml:"debug"`
		TempAudioPath  string   `yaml:"temp_audio_path"`
		ModelPrecision string   `yaml:"model_precision"` // 'f16', 'q4_0', etc.
		Language       string   `yaml:"language"`        // recognition language, or "auto"
		LogFile        string   `yaml:"log_file"`
		Models         []string `yaml:"models"`       // known model file paths
		ActiveModel    string   `yaml:"active_model"` // path of the currently selected model
	} `yaml:"general"`

	// Session is the settings-collaborator snapshot handed to the Session
	// State Machine (spec.md §6) at the start of every push-to-talk press.
	Session struct {
		ModelID          string   `yaml:"model_id"`
		StreamingEnabled bool     `yaml:"streaming_enabled"`
		StreamingMode    string   `yaml:"streaming_mode"` // speed | balanced | accuracy
		CustomVocabulary []string `yaml:"custom_vocabulary"`
		ContextPrompt    string   `yaml:"context_prompt"`
		UseContextPrompt bool     `yaml:"use_context_prompt"`
		MinHoldMs        int64    `yaml:"min_hold_ms"`
		CooldownMs       int64    `yaml:"cooldown_ms"`
	} `yaml:"session"`

	// Hotkey settings
	Hotkeys struct {
		Provider        string `yaml:"provider"` // "auto" | "dbus" | "evdev"
		StartStop       string `yaml:"start_stop"`
		ToggleStreaming string `yaml:"toggle_streaming"`
		SwitchModel     string `yaml:"switch_model"`
		ShowConfig      string `yaml:"show_config"`
		ResetToDefaults string `yaml:"reset_to_defaults"`
	} `yaml:"hotkeys"`

	// Audio capture settings
	Audio struct {
		Device           string `yaml:"device"`
		SampleRate       int    `yaml:"sample_rate"`
		MaxRecordingTime int    `yaml:"max_recording_time"` // seconds; see session.DefaultMaxSessionSecs
	} `yaml:"audio"`

	// Text output settings
	Output struct {
		DefaultMode   string `yaml:"default_mode"`   // 'clipboard', 'active_window', 'combined'
		ClipboardTool string `yaml:"clipboard_tool"` // 'wl-copy', 'xclip', 'auto'
		TypeTool      string `yaml:"type_tool"`      // 'xdotool', 'wtype', 'ydotool', 'auto'
		AutoPaste     bool   `yaml:"auto_paste"`     // inject after clipboard write
	} `yaml:"output"`

	// Notification settings
	Notifications struct {
		EnableWorkflowNotifications bool `yaml:"enable_workflow_notifications"`
	} `yaml:"notifications"`

	// Web server settings (the loopback event bridge)
	WebServer struct {
		Enabled     bool   `yaml:"enabled"`
		Port        int    `yaml:"port"`
		Host        string `yaml:"host"`
		AuthToken   string `yaml:"auth_token"`
		LogRequests bool   `yaml:"log_requests"`
		CORSOrigins string `yaml:"cors_origins"`
		MaxClients  int    `yaml:"max_clients"`
	} `yaml:"web_server"`

	// Security settings
	Security struct {
		AllowedCommands []string `yaml:"allowed_commands"`
		CheckIntegrity  bool     `yaml:"check_integrity"`
		ConfigHash      string   `yaml:"config_hash"`
		MaxTempFileSize int64    `yaml:"max_temp_file_size"`
	} `yaml:"security"`
}
