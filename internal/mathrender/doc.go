// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathrender typesets LaTeX into MathML, fail-soft.
//
// The Engine interface never returns an error and never panics outward: a
// broken equation degrades to a visibly-styled span carrying the escaped
// source, because readable fallback text beats a blank region or an
// aborted message render every time.
//
// Three passes consume the engine, in pipeline order: extracted math spans
// are restored and rendered first; then the model's delimiter sets run over
// the text in ascending priority order, picking up math that normalization
// promoted after extraction; finally a heuristic pass renders bare
// whole-line equations ("x = 3 or x = -3"), splitting on English
// connectors so each solution renders independently. Rendered regions
// carry a sentinel class so no later pass touches them twice.
package mathrender
