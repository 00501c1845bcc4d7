// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import "strings"

// languageAliases maps the fence tags models actually write to the
// canonical lexer names chroma knows.
var languageAliases = map[string]string{
	"js":         "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"py3":        "python",
	"python3":    "python",
	"rb":         "ruby",
	"sh":         "bash",
	"shell":      "bash",
	"zsh":        "bash",
	"yml":        "yaml",
	"golang":     "go",
	"c++":        "cpp",
	"c#":         "csharp",
	"cs":         "csharp",
	"kt":         "kotlin",
	"rs":         "rust",
	"pl":         "perl",
	"ps1":        "powershell",
	"dockerfile": "docker",
	"md":         "markdown",
	"htm":        "html",
	"plaintext":  "text",
	"txt":        "text",
}

// CanonicalLanguage lowercases and de-aliases a fence language tag.
func CanonicalLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if canon, ok := languageAliases[tag]; ok {
		return canon
	}
	return tag
}
