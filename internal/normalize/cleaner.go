// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
)

// =============================================================================
// CLEANER
// =============================================================================

// Cleaner runs the configured cleanup, repair, and implicit-math passes over
// text that has already had its code and delimited math extracted.
type Cleaner struct {
	pre config.Preprocessing
	cls Classifier
}

// NewCleaner builds a cleaner for one model's preprocessing flags. A nil
// classifier falls back to the built-in heuristics.
func NewCleaner(pre config.Preprocessing, cls Classifier) *Cleaner {
	if cls == nil {
		cls = HeuristicClassifier{}
	}
	return &Cleaner{pre: pre, cls: cls}
}

// Normalize cleans and repairs the working text. Custom hooks run last.
func (c *Cleaner) Normalize(text string) string {
	if c.pre.RemoveMathML {
		text = stripMathML(text)
	}
	if c.pre.RemoveSVG {
		text = stripSVG(text)
	}
	if c.pre.RemoveHTMLFromMath {
		text = stripKatexArtifacts(text)
	}
	if c.pre.FixEscapedDollars {
		text = strings.ReplaceAll(text, `\$`, "$")
	}
	text = foldMinusVariants(text)
	text = RepairCommands(text)
	text = collapseDoubleNegative(text)
	text = c.promoteImplicitMath(text)
	for _, fn := range c.pre.Custom {
		text = fn(text)
	}
	return text
}

// NormalizeMath cleans one extracted math body. Delimited math is pulled
// out before Normalize runs, so its bodies get their own pass.
func (c *Cleaner) NormalizeMath(body string, _ bool) string {
	if c.pre.RemoveHTMLFromMath {
		body = stripAllTags(body)
	}
	body = foldMinusVariants(body)
	body = GlyphsToLaTeX(body)
	body = norm.NFKC.String(body)
	body = RepairCommands(body)
	body = collapseDoubleNegative(body)
	return strings.TrimSpace(body)
}

// =============================================================================
// MARKUP CLEANUP
// =============================================================================

var (
	reMathMLBlock = regexp.MustCompile(`(?s)<math[^>]*>.*?</math>`)
	reMathMLTag   = regexp.MustCompile(`</?(?:math|mrow|mi|mo|mn|ms|mspace|mtext|msup|msub|msubsup|mfrac|msqrt|mroot|mstyle|mtable|mtr|mtd|semantics|annotation(?:-xml)?)\b[^>]*>`)
	reSVGBlock    = regexp.MustCompile(`(?s)<svg[^>]*>.*?</svg>`)
	reSVGTag      = regexp.MustCompile(`<(?:path|circle|rect|line|polyline|polygon|ellipse|g|use|defs)\b[^>]*/?>`)
	reKatexSpan   = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*katex[^"]*"[^>]*>.*?</span>`)
	reKatexOpen   = regexp.MustCompile(`<span[^>]*class="[^"]*katex[^"]*"[^>]*>`)
	reAnyTag      = regexp.MustCompile(`<[^<>]+>`)
)

func stripMathML(text string) string {
	text = reMathMLBlock.ReplaceAllString(text, "")
	return reMathMLTag.ReplaceAllString(text, "")
}

func stripSVG(text string) string {
	text = reSVGBlock.ReplaceAllString(text, "")
	return reSVGTag.ReplaceAllString(text, "")
}

// stripKatexArtifacts removes leftover KaTeX spans some providers paste into
// plain text. KaTeX markup nests, so the paired pattern is applied until it
// stops matching, then orphaned opening tags are dropped.
func stripKatexArtifacts(text string) string {
	for i := 0; i < 8; i++ {
		next := reKatexSpan.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	return reKatexOpen.ReplaceAllString(text, "")
}

func stripAllTags(s string) string {
	return reAnyTag.ReplaceAllString(s, "")
}

// =============================================================================
// IMPLICIT MATH PROMOTION
// =============================================================================

// Parenthesized and bracketed spans, not already LaTeX-delimited. The
// bracket form must not shadow markdown link syntax, so a span followed by
// ( or [ is skipped.
var (
	reImplicitParen   = regexp2.MustCompile(`(?<![\\\w])\(([^()\n]+)\)`, regexp2.None)
	reImplicitBracket = regexp2.MustCompile(`(?<![\\\w!])\[([^\[\]\n]+)\](?![(\[])`, regexp2.None)
)

// promoteImplicitMath wraps bare spans that read as mathematics in explicit
// \( ... \) delimiters. Prose always wins a tie; a missed equation is
// cheaper than a mangled sentence.
func (c *Cleaner) promoteImplicitMath(text string) string {
	promote := func(m regexp2.Match) string {
		body := m.GroupByNumber(1).String()
		if strings.ContainsAny(body, "\x00\x01") {
			return m.String()
		}
		if !c.cls.LooksMathematical(body) || c.cls.LooksProse(body) {
			return m.String()
		}
		return `\(` + GlyphsToLaTeX(body) + `\)`
	}
	if out, err := reImplicitParen.ReplaceFunc(text, promote, -1, -1); err == nil {
		text = out
	}
	if out, err := reImplicitBracket.ReplaceFunc(text, promote, -1, -1); err == nil {
		text = out
	}
	return text
}
