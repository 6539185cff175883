//go:build systray

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"fmt"
	"log"
)

var availableLanguages = []struct{ key, title string }{
	{"auto", "Auto"}, {"en", "English"}, {"de", "German"}, {"fr", "French"}, {"es", "Spanish"}, {"he", "Hebrew"}, {"ru", "Russian"},
}

// createSettingsSubmenus creates the settings submenus.
func (tm *TrayManager) createSettingsSubmenus() {
	tm.hotkeysMenu = tm.settingsItem.AddSubMenuItem("Hotkeys", "Hotkey settings")
	tm.modelMenu = tm.settingsItem.AddSubMenuItem("Model", "Speech model settings")
	tm.outputMenu = tm.settingsItem.AddSubMenuItem("Output", "Output settings")

	notifyItem := tm.settingsItem.AddSubMenuItem("○ Workflow Notifications", "Toggle workflow notifications (recording, transcription)")
	tm.hotkeyItems["workflow_notifications"] = notifyItem
	go func() {
		for range notifyItem.ClickedCh {
			log.Println("Workflow notifications toggle clicked")
			if tm.onToggleWorkflowNotify != nil {
				if err := tm.onToggleWorkflowNotify(); err != nil {
					log.Printf("Error toggling workflow notifications: %v", err)
				}
				if tm.config != nil {
					tm.updateWorkflowNotificationUI(tm.config.Notifications.EnableWorkflowNotifications)
				}
			}
		}
	}()

	if tm.config != nil {
		tm.populateSettingsMenus()
	}
}

// populateSettingsMenus populates the settings submenus with current config values.
func (tm *TrayManager) populateSettingsMenus() {
	if tm.config == nil {
		return
	}

	tm.hotkeyItems["start_stop"] = tm.hotkeysMenu.AddSubMenuItem(
		fmt.Sprintf("Start/Stop: %s", tm.config.Hotkeys.StartStop),
		"Current start/stop recording hotkey",
	)
	tm.hotkeyItems["start_stop"].Disable()

	rebindItem := tm.hotkeysMenu.AddSubMenuItem("Rebind Start/Stop...", "Capture a new key combination")
	go func() {
		for range rebindItem.ClickedCh {
			log.Println("Hotkey rebind requested (UI)")
			if tm.onRebindHotkey != nil {
				if err := tm.onRebindHotkey("start_stop"); err != nil {
					log.Printf("Error rebinding hotkey: %v", err)
				}
			}
		}
	}()

	knownModels := append([]string{}, tm.config.General.Models...)
	if len(knownModels) == 0 {
		knownModels = []string{tm.config.General.ActiveModel}
	}
	for _, m := range knownModels {
		if m == "" {
			continue
		}
		indicator := "○ "
		if m == tm.config.General.ActiveModel {
			indicator = "● "
		}
		itm := tm.modelMenu.AddSubMenuItem(indicator+m, "Select this model")
		tm.modelItems[m] = itm
		modelID := m
		go func() {
			for range itm.ClickedCh {
				log.Printf("Model switched to %s (UI)", modelID)
				tm.updateModelRadioUI(modelID)
				if tm.onSelectModel != nil {
					if err := tm.onSelectModel(modelID); err != nil {
						log.Printf("Error selecting model: %v", err)
					}
				}
			}
		}()
	}

	tm.modelItems["_active"] = tm.modelMenu.AddSubMenuItem(tm.config.General.ActiveModel, "Current model")
	tm.modelItems["_active"].Disable()

	langMenu := tm.modelMenu.AddSubMenuItem("Language", "Select recognition language")
	for _, l := range availableLanguages {
		indicator := "○ "
		if tm.config.General.Language == l.key {
			indicator = "● "
		}
		itm := langMenu.AddSubMenuItem(indicator+l.title, "")
		tm.langItems[l.key] = itm
		key := l.key
		go func() {
			for range itm.ClickedCh {
				log.Printf("Language switched to %s (UI)", key)
				tm.updateLanguageRadioUI(key)
				if tm.onSelectLang != nil {
					if err := tm.onSelectLang(key); err != nil {
						log.Printf("Error selecting language: %v", err)
					}
				}
			}
		}()
	}
	tm.langItems["_active"] = langMenu.AddSubMenuItem(tm.config.General.Language, "Current language")
	tm.langItems["_active"].Disable()

	tm.updateWorkflowNotificationUI(tm.config.Notifications.EnableWorkflowNotifications)

	tm.outputItems["mode"] = tm.outputMenu.AddSubMenuItem(
		fmt.Sprintf("Mode: %s", tm.config.Output.DefaultMode),
		"Current output mode",
	)
	tm.outputItems["mode"].Disable()

	for _, mode := range []string{"clipboard", "active_window", "combined"} {
		itm := tm.outputMenu.AddSubMenuItem("Use: "+mode, "")
		m := mode
		go func() {
			for range itm.ClickedCh {
				log.Printf("Output mode switched to %s (UI)", m)
				if tm.onSelectOutputMode != nil {
					if err := tm.onSelectOutputMode(m); err != nil {
						log.Printf("Error selecting output mode: %v", err)
					}
				}
			}
		}()
	}

	if tm.onGetOutputTools != nil {
		clipboardTool, typeTool := tm.onGetOutputTools()
		tm.outputItems["clipboard_tool"] = tm.outputMenu.AddSubMenuItem(fmt.Sprintf("Clipboard Tool: %s", clipboardTool), "")
		tm.outputItems["clipboard_tool"].Disable()
		tm.outputItems["type_tool"] = tm.outputMenu.AddSubMenuItem(fmt.Sprintf("Type Tool: %s", typeTool), "")
		tm.outputItems["type_tool"].Disable()
	}
}

// updateHotkeysMenuUI refreshes the hotkey display item from current config.
func (tm *TrayManager) updateHotkeysMenuUI() {
	item := tm.hotkeyItems["start_stop"]
	if item == nil || tm.config == nil {
		return
	}
	item.SetTitle(fmt.Sprintf("Start/Stop: %s", tm.config.Hotkeys.StartStop))
}

// updateModelRadioUI updates selection marks for the model menu.
func (tm *TrayManager) updateModelRadioUI(modelID string) {
	for key, itm := range tm.modelItems {
		if key == "_active" {
			continue
		}
		if key == modelID {
			itm.SetTitle("● " + key)
		} else {
			itm.SetTitle("○ " + key)
		}
	}
	if active := tm.modelItems["_active"]; active != nil {
		active.SetTitle(modelID)
	}
}

// updateLanguageRadioUI updates selection marks for the language menu.
func (tm *TrayManager) updateLanguageRadioUI(lang string) {
	for _, l := range availableLanguages {
		if itm := tm.langItems[l.key]; itm != nil {
			if l.key == lang {
				itm.SetTitle("● " + l.title)
			} else {
				itm.SetTitle("○ " + l.title)
			}
		}
	}
	if active := tm.langItems["_active"]; active != nil {
		active.SetTitle(lang)
	}
}

// updateWorkflowNotificationUI updates the workflow notifications toggle UI.
func (tm *TrayManager) updateWorkflowNotificationUI(enabled bool) {
	item := tm.hotkeyItems["workflow_notifications"]
	if item == nil {
		return
	}
	if enabled {
		item.SetTitle("● Workflow Notifications")
	} else {
		item.SetTitle("○ Workflow Notifications")
	}
}

// updateOutputUI refreshes the output mode display item.
func (tm *TrayManager) updateOutputUI() {
	item := tm.outputItems["mode"]
	if item == nil || tm.config == nil {
		return
	}
	item.SetTitle(fmt.Sprintf("Mode: %s", tm.config.Output.DefaultMode))
}
