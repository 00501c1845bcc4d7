// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import "regexp"

// =============================================================================
// MATH/PROSE CLASSIFIER
// =============================================================================

// Classifier decides whether a span of text reads as mathematics or as
// prose. Implementations must be pure and stateless: the pipeline calls
// them concurrently from independent renders.
type Classifier interface {
	// LooksMathematical reports whether s contains recognizable math:
	// LaTeX commands, operators, exponent or derivative notation.
	LooksMathematical(s string) bool
	// LooksProse reports whether s reads as English prose: URLs, long
	// words, connector words, multi-word phrases, prose lead-ins.
	LooksProse(s string) bool
}

// HeuristicClassifier is the default regex-based classifier. A span is
// promoted to math only when LooksMathematical is true AND LooksProse is
// false; whenever both fire, prose wins.
type HeuristicClassifier struct{}

var _ Classifier = HeuristicClassifier{}

var (
	reLatexCommand = regexp.MustCompile(`\\[a-zA-Z]+`)
	reBareCommand  = regexp.MustCompile(`\b(frac|sqrt|boxed|neq|leq|geq|cdot|infty|approx|pm|sum|prod|lim|int)\b`)
	// `-` and `/` only count as operators between digits; hyphenated words
	// and "and/or" style slashes must stay prose.
	reMathOperator = regexp.MustCompile(`[=^]|[+*]\s*-?\w|\d\s*[-/]\s*\d|[≤≥≠±×÷√∑∫∞π]`)
	reExponentVar  = regexp.MustCompile(`\b[a-zA-Z]\s*\^\s*[({\-]?\w`)
	reDerivative   = regexp.MustCompile(`\b(d[a-zA-Z]\s*/\s*d[a-zA-Z])\b|[a-zA-Z]'\(|\\frac\{\s*d`)
	reSubscriptVar = regexp.MustCompile(`\b[a-zA-Z]_[({]?\w`)

	reURL       = regexp.MustCompile(`https?://|www\.`)
	reLongWord  = regexp.MustCompile(`[a-zA-Z]{10,}`)
	reConnector = regexp.MustCompile(`\b(or|and)\b`)
	reWordRun   = regexp.MustCompile(`\b[a-zA-Z]{3,}(\s+[a-zA-Z]{3,}){3,}\b`)
	// Dot-terminated lead-ins like "e.g." have no word boundary before a
	// space, so the terminator is spelled out instead of using \b.
	reLeadIn = regexp.MustCompile(`(?i)^\s*(see|note|that is|for example|such as|e\.g\.|i\.e\.|in other words|where the)(?:[\s:,]|$)`)
)

// LooksMathematical implements Classifier.
func (HeuristicClassifier) LooksMathematical(s string) bool {
	if s == "" {
		return false
	}
	return reLatexCommand.MatchString(s) ||
		reBareCommand.MatchString(s) ||
		reMathOperator.MatchString(s) ||
		reExponentVar.MatchString(s) ||
		reSubscriptVar.MatchString(s) ||
		reDerivative.MatchString(s)
}

// LooksProse implements Classifier.
func (HeuristicClassifier) LooksProse(s string) bool {
	if s == "" {
		return false
	}
	return reURL.MatchString(s) ||
		reLongWord.MatchString(s) ||
		reConnector.MatchString(s) ||
		reWordRun.MatchString(s) ||
		reLeadIn.MatchString(s)
}
