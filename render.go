// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package compareai

import (
	"html"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/jaydeelew/CompareAI-sub003/internal/codeblock"
	"github.com/jaydeelew/CompareAI-sub003/internal/config"
	"github.com/jaydeelew/CompareAI-sub003/internal/lists"
	"github.com/jaydeelew/CompareAI-sub003/internal/markdown"
	"github.com/jaydeelew/CompareAI-sub003/internal/mathrender"
	"github.com/jaydeelew/CompareAI-sub003/internal/normalize"
	"github.com/jaydeelew/CompareAI-sub003/internal/segment"
	"github.com/jaydeelew/CompareAI-sub003/internal/util"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer converts raw model output into HTML fragments. It is safe for
// concurrent use; per-render state lives in the pipeline, not here.
type Renderer struct {
	registry       *config.Registry
	logger         *log.Logger
	highlighter    codeblock.Highlighter
	cls            normalize.Classifier
	sanitizer      config.HTMLFunc
	engineOverride mathrender.Engine

	mu      sync.Mutex
	engines map[string]mathrender.Engine
}

// New builds a renderer over a config registry. A nil registry means
// every model renders with the default config. Typesetting engines are
// built up front for every registered model so the first render does not
// pay macro compilation.
func New(reg *config.Registry, opts ...Option) *Renderer {
	if reg == nil {
		reg = config.NewRegistry()
	}
	r := &Renderer{
		registry:    reg,
		logger:      log.New(io.Discard, "", 0),
		highlighter: codeblock.NewChroma(""),
		cls:         normalize.HeuristicClassifier{},
		engines:     make(map[string]mathrender.Engine),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engineOverride == nil {
		r.engines[reg.Default().ModelID] = newEngine(reg.Default(), r.logger)
		for _, id := range reg.ModelIDs() {
			cfg := reg.Get(id)
			r.engines[cfg.ModelID] = newEngine(cfg, r.logger)
		}
	}
	return r
}

// newEngine wraps the typesetter in a mutex: a treeblood document is
// stateful and must not typeset two expressions at once.
func newEngine(cfg *config.RendererConfig, logger *log.Logger) mathrender.Engine {
	return &lockedEngine{eng: mathrender.NewTreeblood(cfg.Math, logger)}
}

type lockedEngine struct {
	mu  sync.Mutex
	eng mathrender.Engine
}

func (l *lockedEngine) Render(latex string, display bool) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eng.Render(latex, display)
}

func (r *Renderer) engineFor(cfg *config.RendererConfig) mathrender.Engine {
	if r.engineOverride != nil {
		return r.engineOverride
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	eng, ok := r.engines[cfg.ModelID]
	if !ok {
		eng = newEngine(cfg, r.logger)
		r.engines[cfg.ModelID] = eng
	}
	return eng
}

// =============================================================================
// PIPELINE
// =============================================================================

// Render converts one raw model response to an HTML fragment using the
// configuration registered for modelID; unknown identifiers fall back to
// the default config. Render never panics and never returns an error: a
// pipeline failure yields a visible error fragment carrying the start of
// the raw text.
func (r *Renderer) Render(modelID, raw string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("render: pipeline panic for model %q: %v", modelID, rec)
			out = renderErrorFragment(raw)
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return ""
	}

	cfg := r.registry.Get(modelID)
	eng := r.engineFor(cfg)
	cleaner := normalize.NewCleaner(cfg.Preprocessing, r.cls)
	md := markdown.New(cfg.Markdown, eng, r.cls)

	// Extraction: code first so fences shield their contents from the
	// math delimiters, then display before inline so $$...$$ is never
	// misread as two single-dollar spans.
	doc := segment.NewDocument()
	text := doc.ExtractCode(raw)
	text = doc.ExtractDisplayMath(text, cfg.DisplayMathDelimiters)
	text = doc.ExtractInlineMath(text, cfg.InlineMathDelimiters)

	doc.TransformMath(cleaner.NormalizeMath)
	text = cleaner.Normalize(text)

	if cfg.Markdown.Lists {
		text = lists.Process(text, md.FormatInline)
	}

	text = mathrender.RestoreAndRender(text, doc, eng)
	text = mathrender.RenderDelimited(text, cfg.DisplayMathDelimiters, cfg.InlineMathDelimiters, eng)
	text = mathrender.RenderHeuristicLines(text, r.cls, eng)
	text = padDisplayMath(text)

	text = md.Format(text)
	if cfg.Markdown.Lists {
		text = lists.Reconstruct(text)
	}
	text = formatParagraphs(text)

	text = doc.RestoreCode(text, func(b segment.CodeBlock) string {
		return codeblock.Render(b, r.highlighter)
	})

	for _, post := range cfg.PostProcessing {
		text = post(text)
	}
	if r.sanitizer != nil {
		text = r.sanitizer(text)
	}
	return finalCleanup(text)
}

// renderErrorFragment is the last-resort output when the pipeline fails.
const errorPreviewRunes = 200

func renderErrorFragment(raw string) string {
	return `<div class="render-error"><strong>Rendering Error</strong><p>` +
		html.EscapeString(util.TruncateRunes(raw, errorPreviewRunes)) +
		`</p></div>`
}
