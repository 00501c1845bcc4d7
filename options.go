// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package compareai

import (
	"log"

	"github.com/jaydeelew/CompareAI-sub003/internal/codeblock"
	"github.com/jaydeelew/CompareAI-sub003/internal/config"
	"github.com/jaydeelew/CompareAI-sub003/internal/mathrender"
	"github.com/jaydeelew/CompareAI-sub003/internal/normalize"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithHighlighter replaces the default chroma syntax highlighter.
func WithHighlighter(h codeblock.Highlighter) Option {
	return func(r *Renderer) { r.highlighter = h }
}

// WithMathEngine replaces the per-model typesetting engines with one
// fixed engine. Mostly useful in tests.
func WithMathEngine(eng mathrender.Engine) Option {
	return func(r *Renderer) { r.engineOverride = eng }
}

// WithClassifier replaces the built-in math/prose heuristics.
func WithClassifier(cls normalize.Classifier) Option {
	return func(r *Renderer) { r.cls = cls }
}

// WithLogger directs pipeline diagnostics to l. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithSanitizer runs fn over the finished fragment, after post-processing
// hooks. Pair with SanitizerPolicy for an allowlist matched to the
// renderer's own markup.
func WithSanitizer(fn config.HTMLFunc) Option {
	return func(r *Renderer) { r.sanitizer = fn }
}
