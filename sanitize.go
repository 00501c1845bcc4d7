// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package compareai

import "github.com/microcosm-cc/bluemonday"

// mathmlElements are the MathML tags the typesetter emits.
var mathmlElements = []string{
	"math", "semantics", "annotation", "annotation-xml",
	"mrow", "mi", "mo", "mn", "ms", "mtext", "mspace", "mstyle",
	"mfrac", "msqrt", "mroot", "msup", "msub", "msubsup",
	"mover", "munder", "munderover", "mpadded", "mphantom",
	"mtable", "mtr", "mtd", "merror", "menclose",
}

// SanitizerPolicy returns a bluemonday policy matched to the markup this
// package produces: the usual user-content tags plus MathML, the code
// block chrome, and task-list checkboxes. Use it with WithSanitizer when
// the fragment's consumers cannot trust upstream post-processing hooks.
func SanitizerPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Globally()
	p.AllowAttrs("title").OnElements("span", "a", "abbr")
	p.AllowAttrs("target", "rel").OnElements("a")

	// Chroma emits inline styles; table cells carry alignment.
	p.AllowAttrs("style").OnElements("span", "th", "td")
	p.AllowStyles("color", "background-color", "font-weight", "font-style",
		"text-decoration", "text-align").Globally()

	p.AllowElements(mathmlElements...)
	p.AllowAttrs("display", "mathvariant", "displaystyle", "scriptlevel",
		"stretchy", "form", "fence", "separator", "accent", "accentunder",
		"linethickness", "encoding", "xmlns").OnElements(mathmlElements...)

	// Code block chrome and task-list checkboxes.
	p.AllowElements("button")
	p.AllowAttrs("data-code").OnElements("button")
	p.AllowElements("input")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")

	return p
}
