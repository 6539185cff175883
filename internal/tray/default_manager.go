//go:build !systray

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/logger"
)

// CreateDefaultTrayManager creates the default tray manager based on
// available dependencies. Callbacks are wired later via setter methods.
func CreateDefaultTrayManager(logger logger.Logger) TrayManagerInterface {
	// Use the mock implementation as fallback when systray is not available.
	return CreateMockTrayManager(logger, nil, nil, nil, nil)
}

// CreateTrayManagerWithConfig creates a tray manager with initial configuration.
func CreateTrayManagerWithConfig(config *config.Config, logger logger.Logger) TrayManagerInterface {
	trayManager := CreateDefaultTrayManager(logger)
	trayManager.UpdateSettings(config)
	return trayManager
}
