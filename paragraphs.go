// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package compareai

import (
	"regexp"
	"strings"

	"github.com/jaydeelew/CompareAI-sub003/internal/segment"
)

// =============================================================================
// PARAGRAPH ASSEMBLY
// =============================================================================

var (
	reBlockTag    = regexp.MustCompile(`^<(?:h[1-6]|ul|ol|li|table|blockquote|hr|pre|div|p)\b`)
	reDisplayDiv  = regexp.MustCompile(`<div class="math-display[^"]*">.*?</div>`)
	reEmptyPara   = regexp.MustCompile(`<p>(?:\s|<br>)*</p>`)
	reBreakRun    = regexp.MustCompile(`(?:<br>\s*){3,}`)
	reLeftoverTag = regexp.MustCompile(`<!--PH[0-9a-f]{8}:[0-9]+-->`)
)

func isBlockLine(line string) bool {
	return reBlockTag.MatchString(line) || segment.CodeTokenLine(line)
}

// padDisplayMath puts each display-math div on its own line so paragraph
// assembly treats it as a block. Lines still carrying placeholder tokens
// are left alone; splitting a list-item token line would corrupt it.
func padDisplayMath(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, "\x00") || !strings.Contains(line, `class="math-display`) {
			continue
		}
		lines[i] = reDisplayDiv.ReplaceAllStringFunc(line, func(m string) string {
			return "\n" + m + "\n"
		})
	}
	return strings.Join(lines, "\n")
}

// formatParagraphs wraps prose runs in <p>, joining the lines inside one
// run with <br>. Block-level lines (headings, lists, tables, display
// math, code placeholders) pass through untouched.
func formatParagraphs(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var para []string
	flush := func() {
		if len(para) > 0 {
			out = append(out, "<p>"+strings.Join(para, "<br>")+"</p>")
			para = nil
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case isBlockLine(trimmed):
			flush()
			out = append(out, trimmed)
		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return strings.Join(out, "\n")
}

// finalCleanup is the defensive last pass: any placeholder that survived
// restoration is stripped rather than shown, empty paragraphs produced by
// blank-line runs are dropped, and stacked breaks collapse to one blank
// line's worth.
func finalCleanup(fragment string) string {
	fragment = segment.StripTokens(fragment)
	fragment = reLeftoverTag.ReplaceAllString(fragment, "")
	fragment = reEmptyPara.ReplaceAllString(fragment, "")
	fragment = reBreakRun.ReplaceAllString(fragment, "<br><br>")
	return strings.TrimSpace(fragment)
}
