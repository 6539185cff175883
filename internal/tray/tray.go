//go:build systray

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/systray"
	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/constants"
	"github.com/talkframe/ptt/internal/logger"
)

// TrayManager manages the system tray icon and menu.
type TrayManager struct {
	isRecording       bool
	iconMicOff        []byte
	iconMicOn         []byte
	onExit            func()
	onToggle          func() error
	onShowConfig      func() error
	onShowAbout       func() error
	onResetToDefaults func() error
	config            *config.Config
	logger            logger.Logger

	// Menu items
	toggleItem       *systray.MenuItem
	settingsItem     *systray.MenuItem
	showConfigItem   *systray.MenuItem
	aboutItem        *systray.MenuItem
	reloadConfigItem *systray.MenuItem
	exitItem         *systray.MenuItem

	// Settings submenus
	hotkeysMenu *systray.MenuItem
	modelMenu   *systray.MenuItem
	outputMenu  *systray.MenuItem

	// Dynamic settings items
	hotkeyItems map[string]*systray.MenuItem
	modelItems  map[string]*systray.MenuItem
	langItems   map[string]*systray.MenuItem
	outputItems map[string]*systray.MenuItem

	// Settings callbacks
	onSelectModel          func(modelID string) error
	onSelectLang           func(language string) error
	onToggleWorkflowNotify func() error
	onGetOutputTools       func() (clipboardTool, typeTool string)
	onSelectOutputMode     func(mode string) error
	onRebindHotkey         func(action string) error

	// Capability callbacks
	getCaptureOnceSupport func() bool

	// Cancellation context for background menu handlers
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTrayManager creates a new tray manager instance.
// Callbacks are wired later via setter methods.
func NewTrayManager(iconMicOff, iconMicOn []byte, logger logger.Logger) *TrayManager {
	return &TrayManager{
		iconMicOff:  iconMicOff,
		iconMicOn:   iconMicOn,
		hotkeyItems: make(map[string]*systray.MenuItem),
		modelItems:  make(map[string]*systray.MenuItem),
		langItems:   make(map[string]*systray.MenuItem),
		outputItems: make(map[string]*systray.MenuItem),
		logger:      logger,
	}
}

// SetCoreActions allows wiring core menu callbacks after construction.
func (tm *TrayManager) SetCoreActions(onToggle func() error, onShowConfig func() error, onShowAbout func() error, onResetToDefaults func() error) {
	tm.onToggle = onToggle
	tm.onShowConfig = onShowConfig
	tm.onShowAbout = onShowAbout
	tm.onResetToDefaults = onResetToDefaults
}

// Start initializes and starts the system tray icon and menu.
func (tm *TrayManager) Start() {
	if tm.cancel != nil {
		tm.cancel()
	}
	tm.ctx, tm.cancel = context.WithCancel(context.Background())
	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		systray.Run(tm.onReady, func() {
			if tm.onExit != nil {
				tm.onExit()
			}
		})
	}()
}

// onReady sets up the system tray when it's ready.
func (tm *TrayManager) onReady() {
	systray.SetIcon(tm.iconMicOff)
	systray.SetTitle("Speak-to-AI")
	tm.toggleItem = systray.AddMenuItem(fmt.Sprintf("%s Start Recording", constants.IconRecording), "Start/Stop recording")

	systray.AddSeparator()
	tm.settingsItem = systray.AddMenuItem(fmt.Sprintf("%s  Settings", constants.TraySettings), "Application settings")
	tm.createSettingsSubmenus()

	systray.AddSeparator()
	tm.showConfigItem = systray.AddMenuItem("📄 Show Config File", "Open configuration file")
	tm.reloadConfigItem = systray.AddMenuItem(fmt.Sprintf("%s Reset to Defaults", constants.IconConfig), "Reset all settings to default values")
	tm.aboutItem = systray.AddMenuItem("ℹ️ About", "About Speak-to-AI")

	systray.AddSeparator()
	tm.exitItem = systray.AddMenuItem(fmt.Sprintf("%s Quit", constants.IconError), "Quit Speak-to-AI")

	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		tm.handleMenuClicks()
	}()

	// Apply the current recording state once menu items are ready, so early
	// state updates issued before systray.Run finishes aren't lost.
	tm.SetRecordingState(tm.isRecording)
}

// createSettingsSubmenus is implemented in settings_menu.go

// UpdateSettings updates the settings display with new configuration.
func (tm *TrayManager) UpdateSettings(cfg *config.Config) {
	tm.config = cfg
	tm.updateHotkeysMenuUI()
	tm.updateModelRadioUI(cfg.General.ActiveModel)
	tm.updateLanguageRadioUI(cfg.General.Language)
	tm.updateWorkflowNotificationUI(cfg.Notifications.EnableWorkflowNotifications)
	tm.updateOutputUI()
}

// handleMenuClicks handles all menu item clicks.
func (tm *TrayManager) handleMenuClicks() {
	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-tm.toggleItem.ClickedCh:
			tm.logger.Info("Toggle recording clicked")
			if tm.onToggle != nil {
				if err := tm.onToggle(); err != nil {
					tm.logger.Error("Error toggling recording: %v", err)
				}
			}
		case <-tm.showConfigItem.ClickedCh:
			tm.logger.Info("Show config clicked")
			if tm.onShowConfig != nil {
				if err := tm.onShowConfig(); err != nil {
					tm.logger.Error("Error showing config: %v", err)
				}
			}
		case <-tm.aboutItem.ClickedCh:
			tm.logger.Info("About clicked")
			if tm.onShowAbout != nil {
				if err := tm.onShowAbout(); err != nil {
					tm.logger.Error("Error showing about: %v", err)
				}
			}
		case <-tm.reloadConfigItem.ClickedCh:
			tm.logger.Info("Reset to defaults clicked")
			if tm.onResetToDefaults != nil {
				if err := tm.onResetToDefaults(); err != nil {
					tm.logger.Error("Error resetting to defaults: %v", err)
				}
			}
		case <-tm.exitItem.ClickedCh:
			tm.logger.Info("Exit clicked")
			if tm.cancel != nil {
				tm.cancel()
			}
			systray.Quit()
			if tm.onExit != nil {
				tm.onExit()
			}
			return
		}
	}
}

// SetRecordingState updates the tray icon and menu to reflect recording state.
func (tm *TrayManager) SetRecordingState(isRecording bool) {
	tm.isRecording = isRecording
	if tm.toggleItem == nil {
		return
	}

	if isRecording {
		systray.SetIcon(tm.iconMicOn)
		tm.toggleItem.SetTitle(fmt.Sprintf("%s Stop Recording", constants.IconStop))
	} else {
		systray.SetIcon(tm.iconMicOff)
		tm.toggleItem.SetTitle(fmt.Sprintf("%s Start Recording", constants.IconRecording))
	}
}

// Stop stops the tray manager.
func (tm *TrayManager) Stop() {
	if tm.cancel != nil {
		tm.cancel()
	}
	systray.Quit()
	tm.wg.Wait()
}

// SetModelAction sets the callback for switching the active model.
func (tm *TrayManager) SetModelAction(onSelectModel func(modelID string) error) {
	tm.onSelectModel = onSelectModel
}

// SetExitAction allows overriding the exit callback (useful once services are wired).
func (tm *TrayManager) SetExitAction(onExit func()) {
	tm.onExit = onExit
}

// SetSettingsActions sets callbacks for general settings.
func (tm *TrayManager) SetSettingsActions(
	onSelectLanguage func(language string) error,
	onToggleWorkflowNotifications func() error,
	onSelectOutputMode func(mode string) error,
) {
	tm.onSelectLang = onSelectLanguage
	tm.onToggleWorkflowNotify = onToggleWorkflowNotifications
	tm.onSelectOutputMode = onSelectOutputMode
}

// SetHotkeyRebindAction sets the callback for the hotkey rebind action.
func (tm *TrayManager) SetHotkeyRebindAction(onRebind func(action string) error) {
	tm.onRebindHotkey = onRebind
}

// SetOutputToolsCallback sets the callback for getting actual output tool names.
func (tm *TrayManager) SetOutputToolsCallback(callback func() (clipboardTool, typeTool string)) {
	tm.onGetOutputTools = callback
}

// SetCaptureOnceSupport sets a callback indicating whether capture-once is supported.
func (tm *TrayManager) SetCaptureOnceSupport(callback func() bool) {
	tm.getCaptureOnceSupport = callback
}

var _ TrayManagerInterface = (*TrayManager)(nil)
