// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
	"github.com/jaydeelew/CompareAI-sub003/internal/mathrender"
	"github.com/jaydeelew/CompareAI-sub003/internal/normalize"
)

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter applies the enabled markdown passes to pipeline text.
type Formatter struct {
	flags config.MarkdownProcessing
	eng   mathrender.Engine
	cls   normalize.Classifier
}

// New builds a formatter. The engine renders inline code spans that are
// really mangled math; a nil engine disables that recovery. A nil
// classifier falls back to the built-in heuristics.
func New(flags config.MarkdownProcessing, eng mathrender.Engine, cls normalize.Classifier) *Formatter {
	if cls == nil {
		cls = normalize.HeuristicClassifier{}
	}
	return &Formatter{flags: flags, eng: eng, cls: cls}
}

// reProtected matches every region the passes must not touch: list-item
// token lines, extraction placeholders, the escaped-dollar mask, and
// already-rendered math markup.
var reProtected = regexp.MustCompile(
	`(?m)^\x00(?:UL|OL|TASK):.*$` +
		"|\x00(?:C|DM|IM):[0-9a-f-]+:[0-9]+\x00" +
		"|\x01[^\x01\n]*\x01" +
		`|(?s)<(?:span|div) class="math-[^"]*">.*?</(?:span|div)>` +
		`|(?s)<math[^>]*>.*?</math>`)

// Format runs the enabled passes in a fixed order. Block constructs go
// first so their cell and quote bodies still look like raw markdown to
// the inline passes that follow.
func (f *Formatter) Format(text string) string {
	text, restore := f.protect(text)

	if f.flags.Tables {
		text = f.tables(text)
	}
	if f.flags.Blockquotes {
		text = f.blockquotes(text)
	}
	if f.flags.BoldItalic {
		text = f.boldItalic(text)
	}
	if f.flags.InlineCode {
		text = f.inlineCode(text)
	}
	if f.flags.HorizontalRules {
		text = f.horizontalRules(text)
	}
	if f.flags.Headers {
		text = f.headings(text)
	}
	if f.flags.Strikethrough {
		text = f.strikethrough(text)
	}
	if f.flags.Links {
		text = f.links(text)
	}
	if f.flags.Images {
		text = f.images(text)
	}

	return restore(text)
}

// FormatInline applies only the span-level passes. List processing hands
// item bodies through here so nested block constructs cannot open inside
// a <li>.
func (f *Formatter) FormatInline(text string) string {
	if f.flags.BoldItalic {
		text = f.boldItalic(text)
	}
	if f.flags.InlineCode {
		text = f.inlineCode(text)
	}
	if f.flags.Strikethrough {
		text = f.strikethrough(text)
	}
	return text
}

// protect swaps every protected region for an HTML-comment alias and
// returns the function that swaps them back. The alias carries a
// per-call salt so input text can never name a live alias.
func (f *Formatter) protect(text string) (string, func(string) string) {
	salt := uuid.NewString()[:8]
	var saved []string
	text = reProtected.ReplaceAllStringFunc(text, func(m string) string {
		saved = append(saved, m)
		return fmt.Sprintf("<!--PH%s:%d-->", salt, len(saved)-1)
	})
	return text, func(out string) string {
		for i := len(saved) - 1; i >= 0; i-- {
			out = strings.Replace(out, fmt.Sprintf("<!--PH%s:%d-->", salt, i), saved[i], 1)
		}
		return out
	}
}
