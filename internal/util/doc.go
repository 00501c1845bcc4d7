// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string helpers shared by the rendering
// pipeline.
//
// Model responses arrive as arbitrary UTF-8, so every helper here is
// rune-aware: truncation and length never split or miscount a multi-byte
// character, which would otherwise corrupt the degraded output produced
// by the pipeline's error paths.
//
// # Key Functions
//
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - RuneLen: character count for typesetting size bounds
package util
