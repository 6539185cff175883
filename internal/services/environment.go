// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package services

import (
	hkinterfaces "github.com/talkframe/ptt/hotkeys/interfaces"
	"github.com/talkframe/ptt/internal/platform"
)

// hotkeyEnvironment converts the detected display-server environment into
// the integer enum the hotkey provider selection switches on.
func hotkeyEnvironment(env platform.EnvironmentType) hkinterfaces.EnvironmentType {
	switch env {
	case platform.EnvironmentWayland:
		return hkinterfaces.EnvironmentWayland
	case platform.EnvironmentX11:
		return hkinterfaces.EnvironmentX11
	default:
		return hkinterfaces.EnvironmentUnknown
	}
}
