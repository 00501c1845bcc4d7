// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathrender

import (
	"regexp"
	"strings"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
	"github.com/jaydeelew/CompareAI-sub003/internal/normalize"
	"github.com/jaydeelew/CompareAI-sub003/internal/segment"
)

// =============================================================================
// PLACEHOLDER RESTORATION
// =============================================================================

// RestoreAndRender replaces every extracted math placeholder with its
// typeset markup. Display spans become block-level, inline spans stay in
// the line of text.
func RestoreAndRender(text string, doc *segment.Document, eng Engine) string {
	return doc.RestoreMath(text, func(sp segment.MathSpan) string {
		if sp.Display {
			return WrapDisplay(eng.Render(sp.Body, true))
		}
		return WrapInline(eng.Render(sp.Body, false))
	})
}

// =============================================================================
// DELIMITER PASSES
// =============================================================================

// RenderDelimited runs the model's delimiter sets over text that gained new
// delimiters after extraction (implicit-math promotion, repaired escapes).
// Display delimiters run before inline ones; within each set, ascending
// priority order. Already-rendered regions and placeholder tokens are left
// alone.
func RenderDelimited(text string, display, inline []config.Delimiter, eng Engine) string {
	text = renderSet(text, display, true, eng)
	return renderSet(text, inline, false, eng)
}

func renderSet(text string, delims []config.Delimiter, display bool, eng Engine) string {
	for i := range delims {
		re := delims[i].Regexp()
		if re == nil {
			continue
		}
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			if strings.Contains(match, SentinelClass) || strings.ContainsAny(match, "\x00\x01") {
				return match
			}
			body := strings.TrimSpace(re.FindStringSubmatch(match)[1])
			if body == "" {
				return match
			}
			if display {
				return WrapDisplay(eng.Render(body, true))
			}
			return WrapInline(eng.Render(body, false))
		})
	}
	return text
}

// =============================================================================
// HEURISTIC EQUATION LINES
// =============================================================================

var (
	// A bare equation line: short variable name, equals sign, something.
	reEquationLine = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,3}\s*=\s*\S.*$`)
	reConnector    = regexp.MustCompile(`\s+(or|and)\s+`)
)

// RenderHeuristicLines typesets whole lines that read as bare equations
// ("x = 9") even though no delimiter marks them. Lines carrying the English
// connectors "or"/"and" hold multiple solutions; each side is classified
// and rendered independently, joined by the literal connector.
func RenderHeuristicLines(text string, cls normalize.Classifier, eng Engine) string {
	if cls == nil {
		cls = normalize.HeuristicClassifier{}
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.ContainsAny(trimmed, "<\x00\x01") {
			continue
		}
		if !reEquationLine.MatchString(trimmed) {
			continue
		}
		if out, ok := renderEquation(trimmed, cls, eng); ok {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			lines[i] = indent + out
		}
	}
	return strings.Join(lines, "\n")
}

func renderEquation(line string, cls normalize.Classifier, eng Engine) (string, bool) {
	seps := reConnector.FindAllStringSubmatch(line, -1)
	parts := reConnector.Split(line, -1)

	for _, part := range parts {
		if !cls.LooksMathematical(part) || cls.LooksProse(part) {
			return "", false
		}
	}
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteString(" " + seps[i-1][1] + " ")
		}
		sb.WriteString(WrapInline(eng.Render(normalize.GlyphsToLaTeX(strings.TrimSpace(part)), false)))
	}
	return sb.String(), true
}
