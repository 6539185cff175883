// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package app is the daemon's top-level orchestrator: it loads
// configuration, builds the internal/services.Container wiring every
// collaborator together, and runs until told to shut down.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/talkframe/ptt/config"
	"github.com/talkframe/ptt/internal/logger"
	"github.com/talkframe/ptt/internal/services"
)

// App is the daemon process: configuration plus the wired service
// container, started and stopped as a unit.
type App struct {
	log       logger.Logger
	container *services.Container

	shutdownOnce sync.Once
	done         chan struct{}
}

// NewApp creates an App bound to the given logger. Initialize must be
// called before RunAndWait.
func NewApp(log logger.Logger) *App {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &App{
		log:  log,
		done: make(chan struct{}),
	}
}

// Initialize loads configuration from configFile (creating it with defaults
// if absent), validates it, and builds the service container. debug raises
// the effective log level regardless of what the config file specifies.
func (a *App) Initialize(configFile string, debug bool) error {
	cfg, err := loadOrCreateConfig(configFile, a.log)
	if err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}
	if debug {
		cfg.General.Debug = true
	}

	container, err := services.NewContainer(cfg, a.log)
	if err != nil {
		return fmt.Errorf("app: build service container: %w", err)
	}
	a.container = container
	return nil
}

// loadOrCreateConfig loads configFile, writing a default configuration to
// it first if the file does not yet exist.
func loadOrCreateConfig(configFile string, log logger.Logger) (*config.Config, error) {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Info("Configuration file not found, creating default at %s", configFile)
		cfg := &config.Config{}
		config.SetDefaultConfig(cfg)
		if err := config.SaveConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		if err := config.UpdateConfigHash(configFile, cfg); err != nil {
			log.Warning("Failed to write config integrity hash: %v", err)
		}
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Security.CheckIntegrity {
		if err := config.VerifyConfigIntegrity(configFile, cfg); err != nil {
			log.Warning("Config integrity check failed: %v", err)
		}
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// RunAndWait starts every collaborator and blocks until SIGINT/SIGTERM or
// Shutdown is called, then stops everything in reverse order.
func (a *App) RunAndWait() error {
	if a.container == nil {
		return fmt.Errorf("app: Initialize must be called before RunAndWait")
	}
	if err := a.container.Start(); err != nil {
		return fmt.Errorf("app: start services: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.log.Info("Received signal %v, shutting down", sig)
	case <-a.done:
		a.log.Info("Shutdown requested")
	}

	a.container.Stop()
	return nil
}

// Shutdown requests that RunAndWait return; safe to call multiple times and
// from any goroutine.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		close(a.done)
	})
}
