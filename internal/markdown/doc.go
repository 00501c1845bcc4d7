// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts the markdown subset LLMs actually emit into
// HTML fragments.
//
// This is deliberately not a CommonMark engine. The pipeline runs the
// passes over text that already carries code placeholders, list-item
// tokens, and rendered MathML, so every pass must leave those regions
// byte-identical. Format aliases all protected regions to HTML-comment
// placeholders before the first pass and restores them after the last,
// which lets each individual pass stay a simple regex over plain text.
//
// Each pass is gated by a MarkdownProcessing flag so a model config can
// switch any construct off; a disabled pass leaves its syntax as literal
// text.
package markdown
