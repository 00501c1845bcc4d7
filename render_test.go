// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package compareai

import (
	"encoding/base64"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	return New(config.NewRegistry(), opts...)
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

func TestRender_MangledFractionInBackticks(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "The solution is `fracab` here.")
	assert.Contains(t, out, "math-inline")
	assert.NotContains(t, out, "<code")
}

func TestRender_NestedList(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "- item one\n  - nested item\n- item two")
	assert.Equal(t,
		"<ul><li>item one<ul><li>nested item</li></ul></li><li>item two</li></ul>",
		out)
}

func TestRender_CodeBlockBytesSurvive(t *testing.T) {
	r := newRenderer(t)
	src := "print('a')\nif x < 1 and y > 2:\n    pass\n"
	out := r.Render("", "```python\n"+src+"```")

	assert.Contains(t, out, `class="code-block"`)
	assert.Contains(t, out, `language-python`)

	m := regexp.MustCompile(`data-code="([^"]*)"`).FindStringSubmatch(out)
	require.NotNil(t, m)
	decoded, err := base64.StdEncoding.DecodeString(m[1])
	require.NoError(t, err)
	assert.Equal(t, src, string(decoded))
}

func TestRender_CurrencyIsNotMath(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "The price is $5 and $10 total.")
	assert.Equal(t, "<p>The price is $5 and $10 total.</p>", out)
}

func TestRender_PerModelTablesDisabled(t *testing.T) {
	reg := config.NewRegistry()
	flags := config.DefaultMarkdown()
	flags.Tables = false
	require.NoError(t, reg.Register(&config.RendererConfig{
		ModelID:  "tableless",
		Version:  "1",
		Markdown: flags,
	}))
	r := New(reg)

	in := "| a | b |\n|---|---|\n| 1 | 2 |"
	tabled := r.Render("other-model", in)
	plain := r.Render("tableless", in)

	assert.Contains(t, tabled, "<table>")
	assert.NotContains(t, plain, "<table>")
	assert.Contains(t, plain, "| a | b |")
}

// =============================================================================
// MATH
// =============================================================================

func TestRender_DisplayMath(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "$$x^2$$")
	assert.Contains(t, out, `class="math-display math-rendered"`)
	assert.Contains(t, out, "<math")
}

func TestRender_InlineMathStaysInSentence(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", `the value \(a+b\) grows`)
	assert.Contains(t, out, "math-inline")
	assert.True(t, strings.HasPrefix(out, "<p>the value"))
}

func TestRender_BacktickedDelimitedMath(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "the value `$x^2$` grows")
	assert.Contains(t, out, "math-inline")
	assert.Contains(t, out, "<math")
	assert.NotContains(t, out, "<code")
	assert.NotContains(t, out, "&lt;!--")
	assert.NotContains(t, out, "`")
}

func TestRender_EscapedDollarIsLiteral(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", `It costs \$5 per seat.`)
	assert.Contains(t, out, "$5")
	assert.NotContains(t, out, "math-inline")
}

func TestRender_HeuristicEquationLine(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "x = 3 or x = -3")
	assert.Equal(t, 2, strings.Count(out, "math-inline"))
	assert.Contains(t, out, " or ")
}

// =============================================================================
// STRUCTURE
// =============================================================================

func TestRender_HeadingsAndParagraphs(t *testing.T) {
	r := newRenderer(t)
	out := r.Render("", "## Title\n\nSome **bold** text\nsecond line")
	assert.Equal(t,
		"<h2>Title</h2>\n<p>Some <strong>bold</strong> text<br>second line</p>",
		out)
}

func TestRender_EmptyInput(t *testing.T) {
	r := newRenderer(t)
	assert.Equal(t, "", r.Render("", ""))
	assert.Equal(t, "", r.Render("", "   \n\t\n"))
}

func TestRender_UnknownModelUsesDefault(t *testing.T) {
	r := newRenderer(t)
	assert.Contains(t, r.Render("never-registered", "**b**"), "<strong>b</strong>")
}

// =============================================================================
// FAILURE AND LEAK PROPERTIES
// =============================================================================

func TestRender_PanickingHookYieldsErrorFragment(t *testing.T) {
	reg := config.NewRegistry()
	require.NoError(t, reg.Register(&config.RendererConfig{
		ModelID: "panicky",
		Version: "1",
		Preprocessing: config.Preprocessing{
			Custom: []config.TextFunc{func(string) string { panic("hook blew up") }},
		},
	}))
	r := New(reg)

	out := r.Render("panicky", "some raw input")
	assert.Contains(t, out, "Rendering Error")
	assert.Contains(t, out, "some raw input")
}

func TestRender_NeverLeaksPlaceholders(t *testing.T) {
	r := newRenderer(t)
	inputs := []string{
		"```python\nunterminated fence",
		"$$",
		"mixed $a$ and ```go\nx\n``` and - list\n  - deep",
		"forged token \x00C:deadbeef:0\x00 in input",
		"escape mask \x01ESCDLR\x01 in input",
		"| a |\n|---|\n| $1 |",
	}
	for _, in := range inputs {
		out := r.Render("", in)
		assert.NotContains(t, out, "\x00", "input %q", in)
		assert.NotContains(t, out, "\x01", "input %q", in)
		assert.NotContains(t, out, "<!--PH", "input %q", in)
	}
}

func TestRender_ConcurrentUse(t *testing.T) {
	r := newRenderer(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				out := r.Render("", `value \(x^2\) and **bold**`)
				assert.Contains(t, out, "math-inline")
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// SANITIZER
// =============================================================================

func TestRender_SanitizerStripsScripts(t *testing.T) {
	r := newRenderer(t, WithSanitizer(SanitizerPolicy().Sanitize))
	out := r.Render("", "hello <script>alert(1)</script> world\n\n$$x^2$$\n\n```go\nx := 1\n```")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "<math")
	assert.Contains(t, out, "code-block")
	assert.Contains(t, out, "data-code=")
}
