// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package normalize cleans up the malformed markup that model providers mix
// into their responses.
//
// It has three jobs, applied in order:
//
//   - Cleanup: strip stray MathML/SVG fragments and leftover KaTeX markup,
//     and unescape `\$`, each gated by a config flag.
//   - Repair: reinsert missing backslashes before a fixed vocabulary of
//     LaTeX commands, fold Unicode math glyphs to LaTeX or ASCII
//     equivalents, and collapse double-negative artifacts.
//   - Implicit math: promote parenthesized spans that look mathematical to
//     explicit \( ... \) delimiters.
//
// The math/prose decision lives behind the Classifier interface so hosts
// can swap in better classifiers. The default heuristics deliberately
// prefer false negatives (missed math) over false positives (prose
// misrendered as math).
package normalize
