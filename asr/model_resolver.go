// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package asr

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/talkframe/ptt/config"
)

// modelBaseURL is the Hugging Face release tree ggml models are published
// under; PathResolver builds a per-model download URL from it.
const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// minModelBytes is the floor a downloaded model file must clear; anything
// smaller indicates a truncated or failed download.
const minModelBytes = 10 * 1024 * 1024

// PathResolver maps a model identifier to a local file path, downloading it
// into the user's model cache on first use if it isn't already present.
type PathResolver struct {
	cfg *config.Config
}

// NewPathResolver builds a PathResolver over the daemon's configuration.
func NewPathResolver(cfg *config.Config) *PathResolver {
	return &PathResolver{cfg: cfg}
}

// PathFor implements Engine's ModelPathResolver. modelID is either an
// already-resolved filesystem path, a bare name known to config.Models, or
// a "<type>-<precision>" identifier such as "small-q5_1" that is resolved
// against the model cache directory and downloaded on demand.
func (r *PathResolver) PathFor(modelID string) (string, error) {
	if modelID == "" {
		modelID = r.cfg.General.ActiveModel
	}
	if modelID == "" {
		modelID = "small-q5_1"
	}

	if filepath.IsAbs(modelID) {
		return r.ensureLocal(modelID, modelID)
	}
	for _, known := range r.cfg.General.Models {
		if known == modelID || strings.EqualFold(filepath.Base(known), modelID) {
			return r.ensureLocal(known, filepath.Base(known))
		}
	}

	fileName := fmt.Sprintf("ggml-%s.bin", modelID)
	path := filepath.Join(r.cacheDir(), fileName)
	return r.ensureLocal(path, fileName)
}

// ensureLocal verifies path exists and is large enough, downloading
// fileName from modelBaseURL into it otherwise.
func (r *PathResolver) ensureLocal(path, fileName string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.Size() >= minModelBytes {
		return path, nil
	}
	url := fmt.Sprintf("%s/%s", modelBaseURL, fileName)
	if err := downloadModel(url, path); err != nil {
		return "", fmt.Errorf("asr: resolve model %q: %w", fileName, err)
	}
	return path, nil
}

// cacheDir returns the directory downloaded models are cached under.
func (r *PathResolver) cacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "models"
	}
	return filepath.Join(home, ".config", "ptt", "models")
}

// downloadModel fetches url into destPath atomically via a temp file plus
// rename.
func downloadModel(url, destPath string) error {
	dir := filepath.Dir(destPath)
	// #nosec G301 -- model directory must be readable by the daemon
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory %s: %w", dir, err)
	}

	tmpPath := destPath + ".tmp"
	if err := downloadToFile(url, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("stat downloaded file: %w", err)
	}
	if info.Size() < minModelBytes {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("downloaded model is too small (%d bytes)", info.Size())
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move model to final location: %w", err)
	}
	return nil
}

func downloadToFile(url, path string) error {
	// #nosec G107 -- url is built from a fixed base plus a known model id, not raw user input
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	// #nosec G304 -- path is derived from the configured model cache directory
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

var _ ModelPathResolver = (*PathResolver)(nil)
