// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
)

type stubEngine struct{}

func (stubEngine) Render(latex string, display bool) string {
	return "[" + latex + "]"
}

func newDefault() *Formatter {
	return New(config.DefaultMarkdown(), stubEngine{}, nil)
}

// =============================================================================
// SPAN PASSES
// =============================================================================

func TestFormat_BoldItalic(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "<strong>a</strong>", f.Format("**a**"))
	assert.Equal(t, "<em>a</em>", f.Format("*a*"))
	assert.Equal(t, "<strong><em>a</em></strong>", f.Format("***a***"))
	assert.Equal(t, "<strong>a</strong>", f.Format("__a__"))
	assert.Equal(t, "<em>a</em>", f.Format("_a_"))
}

func TestFormat_SnakeCaseSurvivesItalics(t *testing.T) {
	f := newDefault()
	in := "call parse_tree_node here"
	assert.Equal(t, in, f.Format(in))
}

func TestFormat_InlineCodeEscapes(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "<code>&lt;b&gt;raw&lt;/b&gt;</code>", f.Format("`<b>raw</b>`"))
}

func TestFormat_InlineCodeMathRecovery(t *testing.T) {
	f := newDefault()
	out := f.Format("the ratio `fracab` holds")
	assert.Contains(t, out, "math-inline")
	assert.Contains(t, out, `[\frac{a}{b}]`)
	assert.NotContains(t, out, "<code")
}

func TestFormat_Strikethrough(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "<del>gone</del>", f.Format("~~gone~~"))
}

func TestFormatInline_SpanPassesOnly(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "<strong>a</strong> `x", f.FormatInline("**a** `x"))
	// Block syntax stays literal in item bodies.
	assert.Equal(t, "# not a heading", f.FormatInline("# not a heading"))
}

// =============================================================================
// LINE PASSES
// =============================================================================

func TestFormat_Headings(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "<h2>Title</h2>", f.Format("## Title"))
	assert.Equal(t, "<h6>deep</h6>", f.Format("###### deep"))
	assert.Equal(t, "#notag", f.Format("#notag"))
}

func TestFormat_HorizontalRules(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "a\n<hr>\nb", f.Format("a\n---\nb"))
	assert.Equal(t, "<hr>", f.Format("* * *"))
	assert.Equal(t, "<hr>", f.Format("___"))
	assert.Equal(t, "--", f.Format("--"))
}

func TestFormat_Blockquotes(t *testing.T) {
	f := newDefault()
	got := f.Format("> first\n> second\nafter")
	assert.Equal(t, "<blockquote>first<br>second</blockquote>\nafter", got)
}

// =============================================================================
// TABLES
// =============================================================================

func TestFormat_Table(t *testing.T) {
	f := newDefault()
	got := f.Format("| a | b |\n|---|:-:|\n| 1 | 2 |")
	assert.Contains(t, got, "<table><thead><tr><th>a</th>")
	assert.Contains(t, got, `<th style="text-align:center">b</th>`)
	assert.Contains(t, got, `<td>1</td><td style="text-align:center">2</td>`)
}

func TestFormat_TableNeedsSeparator(t *testing.T) {
	f := newDefault()
	in := "| a | b |\n| 1 | 2 |"
	assert.Equal(t, in, f.Format(in))
}

func TestFormat_TablesDisabledStayLiteral(t *testing.T) {
	flags := config.DefaultMarkdown()
	flags.Tables = false
	f := New(flags, nil, nil)
	in := "| a | b |\n|---|---|\n| 1 | 2 |"
	assert.Equal(t, in, f.Format(in))
}

// =============================================================================
// LINKS AND IMAGES
// =============================================================================

func TestFormat_InlineLink(t *testing.T) {
	f := newDefault()
	got := f.Format("[docs](https://example.com)")
	assert.Equal(t,
		`<a href="https://example.com" target="_blank" rel="noopener noreferrer">docs</a>`,
		got)
}

func TestFormat_ReferenceLink(t *testing.T) {
	f := newDefault()
	got := f.Format("see [docs][ref]\n[ref]: https://example.com")
	assert.Contains(t, got, `href="https://example.com"`)
	assert.NotContains(t, got, "[ref]:")
}

func TestFormat_BrokenLinkRepaired(t *testing.T) {
	f := newDefault()
	got := f.Format("[docs] (https://example.com)")
	assert.Contains(t, got, `<a href="https://example.com"`)
}

func TestFormat_UnsafeSchemeDropsLink(t *testing.T) {
	f := newDefault()
	assert.Equal(t, "click", f.Format("[click](javascript:doEvil)"))
}

func TestFormat_Image(t *testing.T) {
	f := newDefault()
	got := f.Format(`![cat](https://example.com/cat.png "a cat")`)
	assert.Equal(t,
		`<img src="https://example.com/cat.png" alt="cat" title="a cat">`,
		got)
}

func TestFormat_UnknownReferenceStaysLiteral(t *testing.T) {
	f := newDefault()
	in := "[docs][missing]"
	assert.Equal(t, in, f.Format(in))
}

// =============================================================================
// PROTECTED REGIONS
// =============================================================================

func TestFormat_LeavesPlaceholdersAlone(t *testing.T) {
	f := newDefault()
	in := "before \x00C:abcd1234:0\x00 after"
	assert.Equal(t, in, f.Format(in))
}

func TestFormat_LeavesListTokenLinesAlone(t *testing.T) {
	f := newDefault()
	in := "\x00UL:0\x00**already done**\x00/UL\x00"
	assert.Equal(t, in, f.Format(in))
}

func TestFormat_BacktickedRenderedMathUnwrapped(t *testing.T) {
	// Math extracted and typeset before the markdown stage may still sit
	// inside backticks; the code pass must unwrap it, not escape it.
	f := newDefault()
	span := `<span class="math-inline math-rendered"><math><mi>x</mi></math></span>`
	got := f.Format("value `" + span + "` grows")
	assert.Equal(t, "value "+span+" grows", got)
	assert.NotContains(t, got, "&lt;!--")
}

func TestFormat_LeavesRenderedMathAlone(t *testing.T) {
	f := newDefault()
	in := `x <span class="math-inline math-rendered"><math><mi>a_b</mi></math></span> y`
	assert.Equal(t, in, f.Format(in))
}
