// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// =============================================================================
// FUNCTION TYPES
// =============================================================================

// TextFunc is a text-to-text preprocessing hook. Hooks run in registration
// order after the built-in cleanup passes.
type TextFunc func(string) string

// HTMLFunc is an HTML-to-HTML post-processing hook. Hooks run in
// registration order after code restoration, as the last pipeline stage.
type HTMLFunc func(string) string

// TrustFunc decides whether a LaTeX command that can reference external
// resources (\url, \href, \includegraphics, ...) is allowed to render.
type TrustFunc func(command string) bool

// =============================================================================
// DELIMITERS
// =============================================================================

// Delimiter identifies the start/end markers of a math region.
//
// Pattern is a Go regular expression whose first capture group is the math
// body (the text between the delimiters). Delimiters are tried in ascending
// Priority order; ties keep registration order, so the first-registered
// delimiter wins.
type Delimiter struct {
	Pattern  string
	Name     string
	Priority int

	re *regexp.Regexp
}

// Regexp returns the compiled pattern. It is non-nil for every delimiter
// held by a registered config.
func (d *Delimiter) Regexp() *regexp.Regexp {
	return d.re
}

// compile validates and compiles the delimiter pattern in place.
func (d *Delimiter) compile() error {
	if d.Pattern == "" {
		return fmt.Errorf("delimiter %q: %w", d.Name, ErrEmptyPattern)
	}
	if d.Priority < 0 {
		return fmt.Errorf("delimiter %q: %w", d.Name, ErrNegativePriority)
	}
	re, err := regexp.Compile(d.Pattern)
	if err != nil {
		return fmt.Errorf("delimiter %q: %w: %v", d.Name, ErrBadPattern, err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("delimiter %q: %w", d.Name, ErrNoBodyGroup)
	}
	d.re = re
	return nil
}

// sortDelimiters orders delimiters by ascending priority, keeping the
// registration order of equal priorities (first-registered wins).
func sortDelimiters(ds []Delimiter) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Priority < ds[j].Priority
	})
}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Preprocessing selects the cleanup passes run by the text normalizer.
type Preprocessing struct {
	// FixEscapedDollars unescapes `\$` to a literal `$` outside math.
	FixEscapedDollars bool
	// RemoveHTMLFromMath strips stray HTML/KaTeX fragments out of extracted
	// math bodies.
	RemoveHTMLFromMath bool
	// RemoveMathML strips literal MathML markup some providers emit.
	RemoveMathML bool
	// RemoveSVG strips inline SVG fragments.
	RemoveSVG bool
	// Custom hooks run after the built-in passes, in order.
	Custom []TextFunc
}

// MarkdownProcessing enables or disables individual markdown features.
// The zero value disables everything; use DefaultMarkdown for the usual
// everything-on setup.
type MarkdownProcessing struct {
	Links             bool
	Images            bool
	Tables            bool
	Blockquotes       bool
	HorizontalRules   bool
	Headers           bool
	BoldItalic        bool
	Lists             bool
	InlineCode        bool
	Strikethrough     bool
	RepairBrokenLinks bool
}

// DefaultMarkdown returns the everything-enabled markdown feature set.
func DefaultMarkdown() MarkdownProcessing {
	return MarkdownProcessing{
		Links:             true,
		Images:            true,
		Tables:            true,
		Blockquotes:       true,
		HorizontalRules:   true,
		Headers:           true,
		BoldItalic:        true,
		Lists:             true,
		InlineCode:        true,
		Strikethrough:     true,
		RepairBrokenLinks: true,
	}
}

// MathOptions bounds and parameterizes the math typesetting engine.
type MathOptions struct {
	// ThrowOnError includes the typesetter's error message in the fallback
	// markup instead of a generic label. Rendering never actually throws.
	ThrowOnError bool
	// Strict rejects expressions the typesetter only partially understood.
	Strict bool
	// Trust gates commands that reference external resources. Nil means
	// nothing is trusted.
	Trust TrustFunc
	// Macros are custom LaTeX macros precompiled into the typesetter.
	Macros map[string]string
	// MaxSize is the maximum expression length in runes; larger expressions
	// degrade to the escaped-source fallback. Zero means DefaultMaxSize.
	MaxSize int
	// MaxExpand caps the number of commands in one expression, a guard
	// against pathological input causing unbounded typesetting work.
	// Zero means DefaultMaxExpand.
	MaxExpand int
}

// Default bounds for math typesetting work.
const (
	DefaultMaxSize   = 5000
	DefaultMaxExpand = 1000
)

// RendererConfig is the full per-model rendering configuration. It is
// immutable after registration.
type RendererConfig struct {
	ModelID string
	Version string

	DisplayMathDelimiters []Delimiter
	InlineMathDelimiters  []Delimiter

	Preprocessing Preprocessing
	Markdown      MarkdownProcessing
	Math          MathOptions

	PostProcessing []HTMLFunc
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validation errors returned (wrapped) by Validate and Register.
var (
	ErrMissingModelID   = errors.New("config: model id is required")
	ErrMissingVersion   = errors.New("config: version is required")
	ErrEmptyPattern     = errors.New("config: empty delimiter pattern")
	ErrBadPattern       = errors.New("config: delimiter pattern does not compile")
	ErrNoBodyGroup      = errors.New("config: delimiter pattern needs a capture group for the math body")
	ErrNegativePriority = errors.New("config: delimiter priority must be non-negative")
	ErrNegativeBound    = errors.New("config: math bounds must be non-negative")
	ErrDuplicateModel   = errors.New("config: model already registered")
)

// Validate checks a config for missing required fields and non-compilable
// delimiter patterns. It compiles the delimiter patterns as a side effect.
func Validate(cfg *RendererConfig) error {
	if cfg.ModelID == "" {
		return ErrMissingModelID
	}
	if cfg.Version == "" {
		return ErrMissingVersion
	}
	for i := range cfg.DisplayMathDelimiters {
		if err := cfg.DisplayMathDelimiters[i].compile(); err != nil {
			return fmt.Errorf("%s display math: %w", cfg.ModelID, err)
		}
	}
	for i := range cfg.InlineMathDelimiters {
		if err := cfg.InlineMathDelimiters[i].compile(); err != nil {
			return fmt.Errorf("%s inline math: %w", cfg.ModelID, err)
		}
	}
	if cfg.Math.MaxSize < 0 || cfg.Math.MaxExpand < 0 {
		return fmt.Errorf("%s: %w", cfg.ModelID, ErrNegativeBound)
	}
	return nil
}

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

// DefaultConfig returns the fallback configuration used for unknown model
// identifiers. It replicates the renderer's pre-model-aware behavior:
// standard TeX delimiters, every markdown feature enabled, and all cleanup
// passes on.
func DefaultConfig() *RendererConfig {
	cfg := &RendererConfig{
		ModelID: "default",
		Version: "1",
		DisplayMathDelimiters: []Delimiter{
			{Pattern: `(?s)\$\$(.+?)\$\$`, Name: "double-dollar", Priority: 10},
			{Pattern: `(?s)\\\[(.+?)\\\]`, Name: "bracket", Priority: 20},
		},
		InlineMathDelimiters: []Delimiter{
			{Pattern: `\\\((.+?)\\\)`, Name: "paren", Priority: 10},
			// The body must start and end with a non-space so that currency
			// pairs like "$5 and $10" are not misread as one math span.
			{Pattern: `\$(\S(?:[^$\n]*?\S)?)\$`, Name: "single-dollar", Priority: 20},
		},
		Preprocessing: Preprocessing{
			FixEscapedDollars:  true,
			RemoveHTMLFromMath: true,
			RemoveMathML:       true,
			RemoveSVG:          true,
		},
		Markdown: DefaultMarkdown(),
		Math: MathOptions{
			MaxSize:   DefaultMaxSize,
			MaxExpand: DefaultMaxExpand,
		},
	}
	// The default config must always be valid.
	if err := Validate(cfg); err != nil {
		panic(err)
	}
	sortDelimiters(cfg.DisplayMathDelimiters)
	sortDelimiters(cfg.InlineMathDelimiters)
	return cfg
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps model identifiers to renderer configurations. It is
// populated at startup and read-only afterwards; Get is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*RendererConfig
	def     *RendererConfig
}

// NewRegistry returns a registry holding only the built-in default config.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]*RendererConfig),
		def:     DefaultConfig(),
	}
}

// Register validates and stores a config. Registering the same model id
// twice is an error: the first registration wins.
func (r *Registry) Register(cfg *RendererConfig) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	sortDelimiters(cfg.DisplayMathDelimiters)
	sortDelimiters(cfg.InlineMathDelimiters)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[cfg.ModelID]; exists {
		return fmt.Errorf("%s: %w", cfg.ModelID, ErrDuplicateModel)
	}
	r.configs[cfg.ModelID] = cfg
	return nil
}

// Get returns the config for a model identifier, or the default config if
// the id is empty or unregistered. The result is never nil.
func (r *Registry) Get(modelID string) *RendererConfig {
	if modelID == "" {
		return r.def
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[modelID]; ok {
		return cfg
	}
	return r.def
}

// Default returns the fallback configuration.
func (r *Registry) Default() *RendererConfig {
	return r.def
}

// ModelIDs returns the registered model identifiers, sorted.
func (r *Registry) ModelIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
