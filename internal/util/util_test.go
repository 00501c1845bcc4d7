// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

// =============================================================================
// TRUNCATION TESTS
// =============================================================================

func TestTruncateRunes_Short(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("TruncateRunes: got %q, want %q", got, "hello")
	}
}

func TestTruncateRunes_Exact(t *testing.T) {
	if got := TruncateRunes("hello", 5); got != "hello" {
		t.Errorf("TruncateRunes: got %q, want %q", got, "hello")
	}
}

func TestTruncateRunes_Ellipsis(t *testing.T) {
	if got := TruncateRunes("hello world", 8); got != "hello..." {
		t.Errorf("TruncateRunes: got %q, want %q", got, "hello...")
	}
}

func TestTruncateRunes_Multibyte(t *testing.T) {
	// Each rune is multi-byte; truncation must not split them.
	s := "数学は楽しい"
	got := TruncateRunes(s, 4)
	if got != "数..." {
		t.Errorf("TruncateRunes: got %q, want %q", got, "数...")
	}
}

func TestTruncateRunes_NonPositive(t *testing.T) {
	if got := TruncateRunes("hello", 0); got != "" {
		t.Errorf("TruncateRunes: got %q, want empty", got)
	}
}

// =============================================================================
// LENGTH TESTS
// =============================================================================

func TestRuneLen(t *testing.T) {
	if got := RuneLen("√π∞"); got != 3 {
		t.Errorf("RuneLen: got %d, want 3", got)
	}
}
