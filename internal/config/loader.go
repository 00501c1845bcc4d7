// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// TOML LOADING
// =============================================================================

// The file format mirrors RendererConfig. Boolean flags are optional and
// default to enabled, so a model entry only lists what it turns off:
//
//	[[models]]
//	model_id = "gpt-4o"
//	version  = "1"
//
//	[models.markdown]
//	tables = false
//
//	[[models.display_math]]
//	pattern  = '(?s)\$\$(.+?)\$\$'
//	name     = "double-dollar"
//	priority = 10
//
//	[models.math]
//	max_size = 5000
//	[models.math.macros]
//	"\\RR" = "\\mathbb{R}"

type registryFile struct {
	Models []modelEntry `toml:"models"`
}

type modelEntry struct {
	ModelID     string           `toml:"model_id"`
	Version     string           `toml:"version"`
	DisplayMath []delimiterEntry `toml:"display_math"`
	InlineMath  []delimiterEntry `toml:"inline_math"`
	Pre         preEntry         `toml:"preprocessing"`
	Markdown    markdownEntry    `toml:"markdown"`
	Math        mathEntry        `toml:"math"`
}

type delimiterEntry struct {
	Pattern  string `toml:"pattern"`
	Name     string `toml:"name"`
	Priority int    `toml:"priority"`
}

type preEntry struct {
	FixEscapedDollars  *bool `toml:"fix_escaped_dollars"`
	RemoveHTMLFromMath *bool `toml:"remove_html_from_math"`
	RemoveMathML       *bool `toml:"remove_mathml"`
	RemoveSVG          *bool `toml:"remove_svg"`
}

type markdownEntry struct {
	Links             *bool `toml:"links"`
	Images            *bool `toml:"images"`
	Tables            *bool `toml:"tables"`
	Blockquotes       *bool `toml:"blockquotes"`
	HorizontalRules   *bool `toml:"horizontal_rules"`
	Headers           *bool `toml:"headers"`
	BoldItalic        *bool `toml:"bold_italic"`
	Lists             *bool `toml:"lists"`
	InlineCode        *bool `toml:"inline_code"`
	Strikethrough     *bool `toml:"strikethrough"`
	RepairBrokenLinks *bool `toml:"repair_broken_links"`
}

type mathEntry struct {
	ThrowOnError bool              `toml:"throw_on_error"`
	Strict       bool              `toml:"strict"`
	Macros       map[string]string `toml:"macros"`
	MaxSize      int               `toml:"max_size"`
	MaxExpand    int               `toml:"max_expand"`
}

// LoadFile reads model configs from a static TOML file and registers them.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return r.LoadReader(f)
}

// LoadReader decodes model configs from TOML and registers each one.
// Loading stops at the first invalid entry.
func (r *Registry) LoadReader(rd io.Reader) error {
	var file registryFile
	if _, err := toml.NewDecoder(rd).Decode(&file); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	for i := range file.Models {
		cfg := file.Models[i].toConfig()
		if err := r.Register(cfg); err != nil {
			return err
		}
	}
	return nil
}

// toConfig maps a TOML entry onto a RendererConfig, filling defaults for
// anything the entry leaves out.
func (m *modelEntry) toConfig() *RendererConfig {
	def := DefaultConfig()

	cfg := &RendererConfig{
		ModelID: m.ModelID,
		Version: m.Version,
		Preprocessing: Preprocessing{
			FixEscapedDollars:  boolOr(m.Pre.FixEscapedDollars, true),
			RemoveHTMLFromMath: boolOr(m.Pre.RemoveHTMLFromMath, true),
			RemoveMathML:       boolOr(m.Pre.RemoveMathML, true),
			RemoveSVG:          boolOr(m.Pre.RemoveSVG, true),
		},
		Markdown: MarkdownProcessing{
			Links:             boolOr(m.Markdown.Links, true),
			Images:            boolOr(m.Markdown.Images, true),
			Tables:            boolOr(m.Markdown.Tables, true),
			Blockquotes:       boolOr(m.Markdown.Blockquotes, true),
			HorizontalRules:   boolOr(m.Markdown.HorizontalRules, true),
			Headers:           boolOr(m.Markdown.Headers, true),
			BoldItalic:        boolOr(m.Markdown.BoldItalic, true),
			Lists:             boolOr(m.Markdown.Lists, true),
			InlineCode:        boolOr(m.Markdown.InlineCode, true),
			Strikethrough:     boolOr(m.Markdown.Strikethrough, true),
			RepairBrokenLinks: boolOr(m.Markdown.RepairBrokenLinks, true),
		},
		Math: MathOptions{
			ThrowOnError: m.Math.ThrowOnError,
			Strict:       m.Math.Strict,
			Macros:       m.Math.Macros,
			MaxSize:      intOr(m.Math.MaxSize, DefaultMaxSize),
			MaxExpand:    intOr(m.Math.MaxExpand, DefaultMaxExpand),
		},
	}
	for _, d := range m.DisplayMath {
		cfg.DisplayMathDelimiters = append(cfg.DisplayMathDelimiters,
			Delimiter{Pattern: d.Pattern, Name: d.Name, Priority: d.Priority})
	}
	for _, d := range m.InlineMath {
		cfg.InlineMathDelimiters = append(cfg.InlineMathDelimiters,
			Delimiter{Pattern: d.Pattern, Name: d.Name, Priority: d.Priority})
	}
	// Entries without delimiters inherit the standard TeX set.
	if len(cfg.DisplayMathDelimiters) == 0 {
		cfg.DisplayMathDelimiters = def.DisplayMathDelimiters
	}
	if len(cfg.InlineMathDelimiters) == 0 {
		cfg.InlineMathDelimiters = def.InlineMathDelimiters
	}
	return cfg
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
