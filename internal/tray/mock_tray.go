// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/logger"
)

// MockTrayManager implements a headless version of TrayManager without
// external dependencies, used on builds lacking the systray library.
type MockTrayManager struct {
	isRecording       bool
	logger            logger.Logger
	config            *config.Config
	onExit            func()
	onToggle          func() error
	onShowConfig      func() error
	onShowAbout       func() error
	onResetToDefaults func() error

	onSelectModel          func(modelID string) error
	onSelectLang           func(language string) error
	onToggleWorkflowNotify func() error
	onGetOutputTools       func() (clipboardTool, typeTool string)
	onSelectOutputMode     func(mode string) error
	onRebindHotkey         func(action string) error

	getCaptureOnceSupport func() bool
}

// CreateMockTrayManager creates a mock tray manager that doesn't use systray.
func CreateMockTrayManager(logger logger.Logger, onExit func(), onToggle func() error, onShowConfig func() error, onResetToDefaults func() error) TrayManagerInterface {
	return &MockTrayManager{
		isRecording:       false,
		logger:            logger,
		onExit:            onExit,
		onToggle:          onToggle,
		onShowConfig:      onShowConfig,
		onResetToDefaults: onResetToDefaults,
	}
}

// Start initializes and starts the mock system tray (no-op).
func (tm *MockTrayManager) Start() {
	tm.logger.Info("Mock tray started (no actual system tray is shown)")
}

func (tm *MockTrayManager) SetRecordingState(isRecording bool) {
	tm.isRecording = isRecording
	if isRecording {
		tm.logger.Info("Mock tray: Recording ON")
	} else {
		tm.logger.Info("Mock tray: Recording OFF")
	}
}

func (tm *MockTrayManager) UpdateSettings(cfg *config.Config) {
	tm.config = cfg
	tm.logger.Info("Mock tray: Settings updated")
}

func (tm *MockTrayManager) Stop() {
	tm.logger.Info("Mock tray stopped")
}

// SetExitAction sets the callback invoked when Quit is clicked (mock implementation).
func (tm *MockTrayManager) SetExitAction(onExit func()) {
	tm.onExit = onExit
	tm.logger.Info("Mock tray: exit action set")
}

// SetCoreActions sets core callbacks (mock implementation).
func (tm *MockTrayManager) SetCoreActions(onToggle func() error, onShowConfig func() error, onShowAbout func() error, onResetToDefaults func() error) {
	tm.onToggle = onToggle
	tm.onShowConfig = onShowConfig
	tm.onShowAbout = onShowAbout
	tm.onResetToDefaults = onResetToDefaults
	tm.logger.Info("Mock tray: core actions set")
}

// SetModelAction sets the callback for switching the active model (mock implementation).
func (tm *MockTrayManager) SetModelAction(onSelectModel func(modelID string) error) {
	tm.onSelectModel = onSelectModel
	tm.logger.Info("Mock tray: model action set")
}

// SetSettingsActions sets callbacks for settings (mock implementation).
func (tm *MockTrayManager) SetSettingsActions(
	onSelectLanguage func(language string) error,
	onToggleWorkflowNotifications func() error,
	onSelectOutputMode func(mode string) error,
) {
	tm.onSelectLang = onSelectLanguage
	tm.onToggleWorkflowNotify = onToggleWorkflowNotifications
	tm.onSelectOutputMode = onSelectOutputMode
	tm.logger.Info("Mock tray: settings actions set")
}

// SetOutputToolsCallback sets the callback for getting actual output tool names (mock implementation).
func (tm *MockTrayManager) SetOutputToolsCallback(callback func() (clipboardTool, typeTool string)) {
	tm.onGetOutputTools = callback
	tm.logger.Info("Mock tray: get output tools callback set")
}

// SetHotkeyRebindAction sets callback for hotkey rebind (mock implementation).
func (tm *MockTrayManager) SetHotkeyRebindAction(onRebind func(action string) error) {
	tm.onRebindHotkey = onRebind
	tm.logger.Info("Mock tray: hotkey rebind action set")
}

// SetCaptureOnceSupport sets a callback indicating whether capture-once is supported (mock implementation).
func (tm *MockTrayManager) SetCaptureOnceSupport(callback func() bool) {
	tm.getCaptureOnceSupport = callback
}

var _ TrayManagerInterface = (*MockTrayManager)(nil)
