//go:build !linux

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package manager

import (
	"github.com/talkframe/ptt/hotkeys/adapters"
	"github.com/talkframe/ptt/hotkeys/interfaces"
	"github.com/talkframe/ptt/hotkeys/providers"
	"github.com/talkframe/ptt/internal/logger"
)

// Return a dummy provider on non-Linux systems to avoid build errors
func selectProviderForEnvironment(_ adapters.HotkeyConfig, _ interfaces.EnvironmentType, logger logger.Logger) interfaces.KeyboardEventProvider {
	return providers.NewDummyKeyboardProvider(logger)
}
