// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// =============================================================================
// HIGHLIGHTERS
// =============================================================================

// Highlighter produces HTML for one code block body. The returned markup
// must preserve the code's text content exactly.
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// ChromaHighlighter highlights through the chroma library with inline
// styles, keeping the fragment self-contained.
type ChromaHighlighter struct {
	styleName string
}

// NewChroma returns a highlighter using the named chroma style. An empty
// name selects "github".
func NewChroma(styleName string) *ChromaHighlighter {
	if styleName == "" {
		styleName = "github"
	}
	return &ChromaHighlighter{styleName: styleName}
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(h.styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.PreventSurroundingPre(true),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return buf.String(), nil
}

// PlainHighlighter escapes the code without any token markup.
type PlainHighlighter struct{}

// Highlight implements Highlighter.
func (PlainHighlighter) Highlight(code, _ string) (string, error) {
	return html.EscapeString(code), nil
}

// DetectLanguage guesses the language of untagged code from its content.
// Returns "" when chroma has no confident answer.
func DetectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	return strings.ToLower(lexer.Config().Name)
}
