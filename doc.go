// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compareai renders raw LLM response text into safe HTML
// fragments with typeset math, highlighted code, and formatted markdown.
//
// The entry point is the Renderer. It looks up the per-model
// configuration, extracts code and math into placeholder tokens so no
// later stage can corrupt them, normalizes the remaining prose, runs the
// markdown passes, and restores the protected regions as rendered HTML.
// Rendering is total: malformed input degrades to escaped text or a
// visible error fragment, never to a dropped response.
//
//	reg := config.NewRegistry()
//	r := compareai.New(reg)
//	html := r.Render("gpt-4o", rawResponse)
//
// The returned fragment is meant to be mounted inside a container the
// frontend styles; it carries class names, not a stylesheet.
package compareai
