// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment extracts fenced code blocks and math spans out of raw
// model text before any other transform runs, and restores them afterwards.
//
// Extracted regions are owned by a typed Document; the working text carries
// opaque placeholder tokens in their place. Tokens are framed with NUL
// bytes and salted with a per-extraction random id, so no model output can
// forge or collide with one. Later pipeline stages operate on the working
// text freely: everything extracted here is immune to their regexes.
//
// Extraction order is fixed: code first, then display math, then inline
// math. Restoration is the inverse: math is restored (and typeset) before
// the markdown passes finish, code is restored last so highlighted markup
// is never touched by a markdown or math regex.
package segment
