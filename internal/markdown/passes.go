// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/jaydeelew/CompareAI-sub003/internal/mathrender"
	"github.com/jaydeelew/CompareAI-sub003/internal/normalize"
)

// =============================================================================
// SPAN PASSES
// =============================================================================

var (
	reBoldItalic = regexp.MustCompile(`\*\*\*([^*\n]+)\*\*\*`)
	reBold       = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*(\S(?:[^*\n]*\S)?)\*`)

	// Underscore emphasis needs word boundaries on both sides, otherwise
	// snake_case identifiers in prose get chopped into <em> spans.
	reBoldUnder   = regexp2.MustCompile(`(?<![a-zA-Z0-9_])__([^_\n]+)__(?![a-zA-Z0-9_])`, regexp2.None)
	reItalicUnder = regexp2.MustCompile(`(?<![a-zA-Z0-9_])_([^_\n]+)_(?![a-zA-Z0-9_])`, regexp2.None)

	reInlineCode    = regexp.MustCompile("`([^`\n]+)`")
	reStrikethrough = regexp.MustCompile(`~~([^~\n]+)~~`)
)

func replace2(re *regexp2.Regexp, text, repl string) string {
	out, err := re.Replace(text, repl, -1, -1)
	if err != nil {
		return text
	}
	return out
}

func (f *Formatter) boldItalic(text string) string {
	text = reBoldItalic.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = reBold.ReplaceAllString(text, "<strong>$1</strong>")
	text = replace2(reBoldUnder, text, "<strong>$1</strong>")
	text = reItalic.ReplaceAllString(text, "<em>$1</em>")
	return replace2(reItalicUnder, text, "<em>$1</em>")
}

// inlineCode converts backtick spans. Spans that read as mangled math
// ("fracab", "sqrt2") are repaired and typeset instead of being frozen
// into <code>; models routinely misfence short expressions that way.
func (f *Formatter) inlineCode(text string) string {
	return reInlineCode.ReplaceAllStringFunc(text, func(m string) string {
		body := m[1 : len(m)-1]
		// Backticked math that was already extracted and rendered shows
		// up here as a protected alias; escaping it would orphan the
		// restore step. Unwrap the backticks and keep the rendering.
		if strings.Contains(body, "<!--PH") ||
			strings.Contains(body, mathrender.SentinelClass) ||
			strings.ContainsAny(body, "\x00\x01") {
			return body
		}
		if f.eng != nil && normalize.LooksLikeMathCode(body) {
			return mathrender.WrapInline(f.eng.Render(normalize.RepairMathCode(body), false))
		}
		return "<code>" + html.EscapeString(body) + "</code>"
	})
}

func (f *Formatter) strikethrough(text string) string {
	return reStrikethrough.ReplaceAllString(text, "<del>$1</del>")
}

// =============================================================================
// LINE PASSES
// =============================================================================

var (
	// Three or more of one marker; each marker spelled out because RE2
	// has no backreferences.
	reHorizontalRule = regexp.MustCompile(`(?m)^ {0,3}(?:-(?: *-){2,}|\*(?: *\*){2,}|_(?: *_){2,}) *$`)
	reHeading        = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	reQuoteLine      = regexp.MustCompile(`^>[ \t]?(.*)$`)
)

func (f *Formatter) horizontalRules(text string) string {
	return reHorizontalRule.ReplaceAllString(text, "<hr>")
}

func (f *Formatter) headings(text string) string {
	return reHeading.ReplaceAllStringFunc(text, func(m string) string {
		sub := reHeading.FindStringSubmatch(m)
		return fmt.Sprintf("<h%d>%s</h%d>", len(sub[1]), sub[2], len(sub[1]))
	})
}

// blockquotes folds each run of "> " lines into one <blockquote>, joining
// the quoted lines with <br> so the quote survives paragraph splitting.
func (f *Formatter) blockquotes(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var quote []string
	flush := func() {
		if len(quote) > 0 {
			out = append(out, "<blockquote>"+strings.Join(quote, "<br>")+"</blockquote>")
			quote = nil
		}
	}
	for _, line := range lines {
		if m := reQuoteLine.FindStringSubmatch(line); m != nil {
			quote = append(quote, m[1])
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return strings.Join(out, "\n")
}
