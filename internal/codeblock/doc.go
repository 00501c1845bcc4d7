// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package codeblock turns extracted fenced code into highlighted HTML.
//
// Highlighting goes through chroma with inline styles, so the fragment
// renders correctly without a stylesheet. The fence language tag is
// normalized through an alias table ("js" means javascript, "py" means
// python) and, when the fence carries no tag at all, chroma's content
// analysis picks one. Every failure path falls back to the escaped
// source: a code block must never lose bytes, whatever the language
// tag claims.
package codeblock
