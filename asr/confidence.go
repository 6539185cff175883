// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package asr

import "strings"

// expectedCharsPerSecond calibrates the "plausible transcript length" used
// by Confidence; derived from typical English speech rate.
const expectedCharsPerSecond = 15.0

// Confidence estimates how trustworthy a chunk transcription is, in [0,1].
// It is a pure heuristic over the output text and timing, with no access to
// the model's internal token probabilities (the high-level bindings don't
// expose them), so it substitutes length-plausibility and repetition
// checks instead.
func Confidence(text string, audioSeconds float64) float64 {
	actualChars := len(text)
	if actualChars == 0 {
		return 0
	}

	score := 0.7

	expectedChars := expectedCharsPerSecond * audioSeconds
	if expectedChars > 0 {
		ratio := float64(actualChars) / expectedChars
		switch {
		case ratio < 0.3:
			score -= 0.2
		case ratio > 3.0:
			score -= 0.15
		case ratio >= 0.5 && ratio <= 2.0:
			score += 0.1
		}
	}

	if audioSeconds > 0 {
		tokensPerSecond := float64(len(strings.Fields(text))) / audioSeconds
		if tokensPerSecond > 10 {
			score -= 0.1
		}
	}
	if hasRepeatedFourWordRun(text) {
		score -= 0.2
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// hasRepeatedFourWordRun reports whether any 4-word run appears more than
// once, a cheap proxy for the model looping on itself.
func hasRepeatedFourWordRun(text string) bool {
	words := strings.Fields(text)
	if len(words) < 5 {
		return false
	}
	seen := make(map[string]bool, len(words))
	for i := 0; i+4 <= len(words); i++ {
		run := strings.Join(words[i:i+4], " ")
		if seen[run] {
			return true
		}
		seen[run] = true
	}
	return false
}

// BuildInitialPrompt composes the domain-biasing prompt from a custom
// vocabulary list and optional free-text context. It has no cgo dependency
// so it stays usable (and testable) under the no-cgo stub build too.
func BuildInitialPrompt(vocabulary []string, contextText string, useContext bool) (string, bool) {
	var parts []string
	if len(vocabulary) > 0 {
		parts = append(parts, strings.Join(vocabulary, ", "))
	}
	if useContext && contextText != "" {
		parts = append(parts, contextText)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ". "), true
}
