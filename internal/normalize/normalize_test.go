// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
)

func allOn() config.Preprocessing {
	return config.Preprocessing{
		FixEscapedDollars:  true,
		RemoveHTMLFromMath: true,
		RemoveMathML:       true,
		RemoveSVG:          true,
	}
}

// =============================================================================
// CLEANUP TESTS
// =============================================================================

func TestNormalize_StripsMathML(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	in := `result <math xmlns="w3"><mrow><mi>x</mi></mrow></math> here <mi>y</mi>`
	out := c.Normalize(in)
	assert.NotContains(t, out, "<math")
	assert.NotContains(t, out, "<mi>")
	assert.Contains(t, out, "result")
}

func TestNormalize_StripsSVG(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	out := c.Normalize(`before <svg width="1"><path d="M0 0"/></svg> after <path d="x"/>`)
	assert.NotContains(t, out, "<svg")
	assert.NotContains(t, out, "<path")
}

func TestNormalize_StripsKatexArtifacts(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	out := c.Normalize(`x <span class="katex"><span class="katex-html">junk</span></span> y`)
	assert.NotContains(t, out, "katex")
	assert.NotContains(t, out, "junk")
}

func TestNormalize_FlagsGateCleanup(t *testing.T) {
	pre := allOn()
	pre.RemoveMathML = false
	c := NewCleaner(pre, nil)
	out := c.Normalize(`<mi>y</mi>`)
	assert.Contains(t, out, "<mi>y</mi>")
}

func TestNormalize_FixEscapedDollars(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	assert.Contains(t, c.Normalize(`costs \$5`), "costs $5")

	pre := allOn()
	pre.FixEscapedDollars = false
	c = NewCleaner(pre, nil)
	assert.Contains(t, c.Normalize(`costs \$5`), `costs \$5`)
}

func TestNormalize_CustomHooksRunInOrder(t *testing.T) {
	pre := allOn()
	pre.Custom = []config.TextFunc{
		func(s string) string { return s + "-a" },
		func(s string) string { return s + "-b" },
	}
	c := NewCleaner(pre, nil)
	assert.Equal(t, "x-a-b", c.Normalize("x"))
}

// =============================================================================
// REPAIR TESTS
// =============================================================================

func TestRepairCommands_BraceCommands(t *testing.T) {
	assert.Equal(t, `\frac{1}{2}`, RepairCommands(`frac{1}{2}`))
	assert.Equal(t, `\sqrt{2}`, RepairCommands(`sqrt{2}`))
	// Already-escaped commands are untouched.
	assert.Equal(t, `\frac{1}{2}`, RepairCommands(`\frac{1}{2}`))
	// A command name inside a longer word is untouched.
	assert.Equal(t, `refrac{x}`, RepairCommands(`refrac{x}`))
}

func TestRepairCommands_SymbolNames(t *testing.T) {
	assert.Equal(t, `x \neq y`, RepairCommands(`x neq y`))
	assert.Equal(t, `a \leq b \leq c`, RepairCommands(`a leq b leq c`))
	assert.Equal(t, `x \infty`, RepairCommands(`x infty`))
}

func TestRepairCommands_AmbiguousNeedMathContext(t *testing.T) {
	// Adjacent to digits: repaired.
	assert.Equal(t, `2 \times 3`, RepairCommands(`2 times 3`))
	assert.Equal(t, `2\pi`, RepairCommands(`2pi`))
	// Plain prose: left alone.
	assert.Equal(t, `the sum of all fears`, RepairCommands(`the sum of all fears`))
	assert.Equal(t, `ancient times were hard`, RepairCommands(`ancient times were hard`))
}

func TestRepairCommands_BoxedSpacing(t *testing.T) {
	assert.Equal(t, `\boxed{42}`, RepairCommands(`\boxed {42}`))
	assert.Equal(t, `\boxed{42}`, RepairCommands(`boxed{42}`))
}

func TestCollapseDoubleNegative(t *testing.T) {
	assert.Equal(t, `x = -(-7)`, collapseDoubleNegative(`x = --7`))
	assert.Equal(t, `x = -(-7.5) + 1`, collapseDoubleNegative(`x = --7.5 + 1`))
}

func TestGlyphsToLaTeX(t *testing.T) {
	assert.Equal(t, `\sqrt{16} = 4`, GlyphsToLaTeX(`√16 = 4`))
	assert.Equal(t, `a \pm b`, GlyphsToLaTeX(`a ± b`))
	assert.Equal(t, `x^2 \leq y`, GlyphsToLaTeX(`x² ≤ y`))
	assert.Equal(t, `\frac{1}{2}`, GlyphsToLaTeX(`½`))
}

func TestFoldMinusVariants(t *testing.T) {
	assert.Equal(t, "5 - 3", foldMinusVariants("5 − 3"))
	assert.Equal(t, "a-b", foldMinusVariants("a–b"))
}

// =============================================================================
// IMPLICIT MATH TESTS
// =============================================================================

func TestImplicitMath_PromotesEquations(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	out := c.Normalize(`The result (x^2 + 1) is positive.`)
	assert.Contains(t, out, `\(x^2 + 1\)`)
}

func TestImplicitMath_LeavesProseAlone(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	cases := []string{
		`See (https://example.com/docs) for details.`,
		`Choose one (apples or oranges) now.`,
		`This point (as explained in the introduction) matters.`,
	}
	for _, in := range cases {
		out := c.Normalize(in)
		assert.NotContains(t, out, `\(`, "input %q must not be promoted", in)
	}
}

func TestImplicitMath_ProseWinsTies(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	// Contains "=" (math signal) but also a connector word: prose wins.
	out := c.Normalize(`(set x = 1 or leave it unset)`)
	assert.NotContains(t, out, `\(`)
}

func TestImplicitMath_SkipsLinkBrackets(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	out := c.Normalize(`[x^2](https://example.com)`)
	assert.Contains(t, out, `[x^2](https://example.com)`)
}

// =============================================================================
// CLASSIFIER TESTS
// =============================================================================

func TestHeuristicClassifier_Math(t *testing.T) {
	cls := HeuristicClassifier{}
	for _, s := range []string{`x^2`, `a = b`, `\frac{1}{2}`, `dy/dx`, `2 + 2`, `x_1`, `3 ≤ 4`} {
		assert.True(t, cls.LooksMathematical(s), "%q should look mathematical", s)
	}
	for _, s := range []string{``, `hello there`, `well-known`} {
		assert.False(t, cls.LooksMathematical(s), "%q should not look mathematical", s)
	}
}

func TestHeuristicClassifier_Prose(t *testing.T) {
	cls := HeuristicClassifier{}
	for _, s := range []string{
		`https://example.com`,
		`introduction to the topic`,
		`apples or oranges`,
		`e.g. this one`,
		`i.e. another`,
		`note: remember this`,
	} {
		assert.True(t, cls.LooksProse(s), "%q should look like prose", s)
	}
	assert.False(t, cls.LooksProse(`x^2 + 1`))
}

// =============================================================================
// BACKTICKED MATH TESTS
// =============================================================================

func TestLooksLikeMathCode(t *testing.T) {
	for _, s := range []string{`fracab`, `sqrt2`, `\frac{1}{2} = 0.5`, `x neq 2 + 2`} {
		assert.True(t, LooksLikeMathCode(s), "%q should be math", s)
	}
	for _, s := range []string{`fmt.Println("hi")`, `npm install`, `x`} {
		assert.False(t, LooksLikeMathCode(s), "%q should stay code", s)
	}
}

func TestRepairMathCode_CompactForms(t *testing.T) {
	assert.Equal(t, `\frac{a}{b}`, RepairMathCode(`fracab`))
	assert.Equal(t, `\sqrt{2}`, RepairMathCode(`sqrt2`))
	assert.Equal(t, `x \neq y`, RepairMathCode(`x neq y`))
}

// =============================================================================
// MATH BODY NORMALIZATION
// =============================================================================

func TestNormalizeMath_Body(t *testing.T) {
	c := NewCleaner(allOn(), nil)
	out := c.NormalizeMath(` x² <span class="junk">html</span> ± frac{1}{2} `, false)
	assert.Equal(t, `x^2 html \pm \frac{1}{2}`, out)
}
