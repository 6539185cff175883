// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import "github.com/talkframe/ptt/config"

// TrayManagerInterface is implemented both by the real systray-backed
// manager and by the headless mock used when the systray build tag is
// absent.
type TrayManagerInterface interface {
	Start()
	Stop()
	SetRecordingState(isRecording bool)
	UpdateSettings(cfg *config.Config)
	// SetExitAction sets the callback invoked when Quit is clicked.
	SetExitAction(onExit func())
	// SetCoreActions sets core menu callbacks (toggle, show config, show about, reset to defaults).
	SetCoreActions(onToggle func() error, onShowConfig func() error, onShowAbout func() error, onResetToDefaults func() error)
	// SetModelAction sets the callback for switching the active model.
	SetModelAction(onSelectModel func(modelID string) error)
	// SetHotkeyRebindAction sets the callback to rebind a hotkey by action name.
	SetHotkeyRebindAction(onRebind func(action string) error)
	// SetSettingsActions sets callbacks for language, notification, and output-mode settings.
	SetSettingsActions(
		onSelectLanguage func(language string) error,
		onToggleWorkflowNotifications func() error,
		onSelectOutputMode func(mode string) error,
	)
	// SetOutputToolsCallback sets the callback used to display the resolved clipboard/type tools.
	SetOutputToolsCallback(callback func() (clipboardTool, typeTool string))
	// SetCaptureOnceSupport sets a callback indicating whether hotkey capture-once is supported.
	SetCaptureOnceSupport(callback func() bool)
}
