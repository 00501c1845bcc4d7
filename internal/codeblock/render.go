// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"encoding/base64"
	"html"

	"github.com/jaydeelew/CompareAI-sub003/internal/segment"
)

// =============================================================================
// BLOCK RENDERER
// =============================================================================

// Render builds the HTML container for one extracted code block: a header
// with the language badge and a copy button, then the highlighted code.
// The copy button carries the raw source base64-encoded, so the frontend
// restores the exact bytes no matter what highlighting did to them.
func Render(block segment.CodeBlock, h Highlighter) string {
	lang := CanonicalLanguage(block.Language)
	if lang == "" {
		lang = DetectLanguage(block.RawContent)
	}
	label := lang
	if label == "" {
		label = "text"
	}

	highlighted, err := h.Highlight(block.RawContent, lang)
	if err != nil || highlighted == "" {
		highlighted = html.EscapeString(block.RawContent)
	}

	payload := base64.StdEncoding.EncodeToString([]byte(block.RawContent))

	return `<div class="code-block">` +
		`<div class="code-header">` +
		`<span class="code-lang">` + html.EscapeString(label) + `</span>` +
		`<button class="copy-button" data-code="` + payload + `">Copy</button>` +
		`</div>` +
		`<pre><code class="language-` + html.EscapeString(label) + `">` +
		highlighted +
		`</code></pre></div>`
}
