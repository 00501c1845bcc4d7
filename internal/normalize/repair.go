// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// =============================================================================
// LATEX COMMAND REPAIR
// =============================================================================

// Some providers drop the backslash off LaTeX commands ("frac{1}{2}",
// "x neq y"). Repair reinserts it for a fixed vocabulary, in three tiers:
//
//   - brace-taking commands, recognized by the `{` that follows;
//   - symbol names that are not English words, recognized anywhere;
//   - ambiguous names (times, sum, pi, ...), repaired only when adjacent
//     to math context so prose like "the sum of" is left alone.
//
// The lookbehinds need regexp2; stdlib regexp has no lookaround.
var (
	reBraceCommand = regexp2.MustCompile(
		`(?<![\\a-zA-Z])(frac|sqrt|boxed|text|overline|underline|hat|vec|bar|dot|mathbb|mathbf|mathrm|mathcal)\{`,
		regexp2.None)

	reSymbolCommand = regexp2.MustCompile(
		`(?<![\\a-zA-Z])(neq|leq|geq|approx|cdot|infty|pm|mp|forall|exists|nabla|partial|varepsilon|rightarrow|leftarrow|Rightarrow|Leftarrow|ldots|cdots)(?![a-zA-Z.])`,
		regexp2.None)

	reAmbiguousCommand = regexp2.MustCompile(
		`(?<![\\a-zA-Z])(times|div|sum|prod|int|lim|sin|cos|tan|log|ln|exp|pi|alpha|beta|gamma|delta|theta|lambda|mu|sigma|omega)(?![a-zA-Z])`,
		regexp2.None)

	reBoxedSpace = regexp.MustCompile(`\\boxed\s+\{`)
	reDoubleNeg  = regexp.MustCompile(`--(\d+(?:\.\d+)?)`)
)

// mathContext are the characters whose adjacency marks a bare ambiguous
// command as mathematical.
const mathContext = "0123456789=+-^_{}()\\"

// RepairCommands inserts missing backslashes before bare LaTeX command
// names and fixes malformed \boxed spacing.
func RepairCommands(text string) string {
	if out, err := reBraceCommand.ReplaceFunc(text, func(m regexp2.Match) string {
		return `\` + m.GroupByNumber(1).String() + "{"
	}, -1, -1); err == nil {
		text = out
	}
	if out, err := reSymbolCommand.ReplaceFunc(text, func(m regexp2.Match) string {
		return `\` + m.GroupByNumber(1).String()
	}, -1, -1); err == nil {
		text = out
	}
	runes := []rune(text)
	if out, err := reAmbiguousCommand.ReplaceFunc(text, func(m regexp2.Match) string {
		if hasMathNeighbor(runes, m.Index, m.Length) {
			return `\` + m.GroupByNumber(1).String()
		}
		return m.String()
	}, -1, -1); err == nil {
		text = out
	}
	return reBoxedSpace.ReplaceAllString(text, `\boxed{`)
}

// hasMathNeighbor scans at most two runes on each side of a match for math
// context characters. regexp2 indices are rune offsets.
func hasMathNeighbor(runes []rune, index, length int) bool {
	for i := index - 2; i < index; i++ {
		if i >= 0 && strings.ContainsRune(mathContext, runes[i]) {
			return true
		}
	}
	for i := index + length; i < index+length+2 && i < len(runes); i++ {
		if strings.ContainsRune(mathContext, runes[i]) {
			return true
		}
	}
	return false
}

// collapseDoubleNegative rewrites the "--7" artifact some providers emit
// into the subtraction-of-a-negative it means.
func collapseDoubleNegative(text string) string {
	return reDoubleNeg.ReplaceAllString(text, "-(-$1)")
}

// =============================================================================
// UNICODE GLYPH NORMALIZATION
// =============================================================================

var (
	reSqrtArg  = regexp.MustCompile(`√\s*(\d+(?:\.\d+)?|[a-zA-Z])`)
	reSpaceRun = regexp.MustCompile(` {2,}`)

	glyphReplacer = strings.NewReplacer(
		"±", `\pm `,
		"×", `\times `,
		"÷", `\div `,
		"≤", `\leq `,
		"≥", `\geq `,
		"≠", `\neq `,
		"≈", `\approx `,
		"∞", `\infty `,
		"·", `\cdot `,
		"→", `\to `,
		"∑", `\sum `,
		"∏", `\prod `,
		"∫", `\int `,
		"π", `\pi `,
		"θ", `\theta `,
		"Δ", `\Delta `,
		"α", `\alpha `,
		"β", `\beta `,
		"λ", `\lambda `,
		"μ", `\mu `,
		"σ", `\sigma `,
		"ω", `\omega `,
		"²", "^2",
		"³", "^3",
		"¹", "^1",
		"½", `\frac{1}{2}`,
		"¼", `\frac{1}{4}`,
		"¾", `\frac{3}{4}`,
	)

	minusReplacer = strings.NewReplacer(
		"−", "-", // minus sign
		"‐", "-", // hyphen
		"‑", "-", // non-breaking hyphen
		"–", "-", // en dash
	)
)

// GlyphsToLaTeX folds Unicode math glyphs into their LaTeX escapes. It runs
// on math bodies and spans being promoted to math, not on prose, where the
// glyphs display fine as-is.
func GlyphsToLaTeX(s string) string {
	s = reSqrtArg.ReplaceAllString(s, `\sqrt{$1}`)
	s = strings.ReplaceAll(s, "√", `\surd `)
	s = glyphReplacer.Replace(s)
	// Replacements carry a trailing space so "a±b" stays parseable; collapse
	// the doubles that leaves behind. Math ignores spacing anyway.
	return reSpaceRun.ReplaceAllString(s, " ")
}

// foldMinusVariants maps Unicode minus lookalikes to ASCII. Unlike the full
// glyph folding this is safe for prose and runs globally.
func foldMinusVariants(s string) string {
	return minusReplacer.Replace(s)
}

// =============================================================================
// BACKTICKED MATH DETECTION
// =============================================================================

var (
	reCompactFrac = regexp.MustCompile(`^\s*frac([a-zA-Z0-9])([a-zA-Z0-9])\s*$`)
	reCompactSqrt = regexp.MustCompile(`^\s*sqrt\s*(\d+(?:\.\d+)?|[a-zA-Z])\s*$`)
	reArithmetic  = regexp.MustCompile(`\d\s*[+\-*/^=]\s*\d`)
)

// LooksLikeMathCode reports whether inline-code content is actually a math
// expression wrapped in backticks, an accommodation for providers that do
// that. It requires a LaTeX command or math symbol plus an operator or
// arithmetic, or one of the compact command forms (`fracab`, `sqrt2`).
func LooksLikeMathCode(s string) bool {
	if reCompactFrac.MatchString(s) || reCompactSqrt.MatchString(s) {
		return true
	}
	hasCommand := reLatexCommand.MatchString(s) ||
		reBareCommand.MatchString(s) ||
		strings.ContainsAny(s, "≤≥≠±×÷√∑∫∞π")
	if !hasCommand {
		return false
	}
	return reMathOperator.MatchString(s) || reArithmetic.MatchString(s)
}

// RepairMathCode rewrites backticked math into valid LaTeX: compact forms
// expand to their commands, then the standard repair and glyph passes run.
func RepairMathCode(s string) string {
	s = strings.TrimSpace(s)
	if m := reCompactFrac.FindStringSubmatch(s); m != nil {
		return `\frac{` + m[1] + `}{` + m[2] + `}`
	}
	if m := reCompactSqrt.FindStringSubmatch(s); m != nil {
		return `\sqrt{` + m[1] + `}`
	}
	s = foldMinusVariants(s)
	s = GlyphsToLaTeX(s)
	return RepairCommands(s)
}
