//go:build integration
// +build integration

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package integration

import (
	"testing"

	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/services"
	"github.com/talkframe/ptt/internal/testutils"
)

// TestContainerWiring verifies that a full service container can be built
// and torn down from a default configuration without any collaborator
// failing to construct.
func TestContainerWiring(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := &config.Config{}
	config.SetDefaultConfig(cfg)
	cfg.WebServer.Enabled = false
	cfg.Output.DefaultMode = "clipboard"

	log := testutils.NewMockLogger()

	container, err := services.NewContainer(cfg, log)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}

	if container.Machine == nil {
		t.Error("expected a wired session machine")
	}
	if container.Bus == nil {
		t.Error("expected a wired event bus")
	}

	container.Stop()
}

// TestContainerSupervisorStart builds the fully wired container and starts
// and stops its capture supervisor; it drives no press/release pair and
// needs no ASR model.
func TestContainerSupervisorStart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tempDir := t.TempDir()
	cfg := &config.Config{}
	config.SetDefaultConfig(cfg)
	cfg.WebServer.Enabled = false
	cfg.General.TempAudioPath = tempDir
	cfg.Output.DefaultMode = "clipboard"

	log := testutils.NewMockLogger()
	container, err := services.NewContainer(cfg, log)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	defer container.Stop()

	if err := container.Supervisor.Start(); err != nil {
		t.Skipf("no capturable audio device in this environment: %v", err)
	}
	defer container.Supervisor.Stop()

	t.Log("container wired and capture started without panics")
}
