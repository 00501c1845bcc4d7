// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lists turns markdown list lines into nested HTML in two stages.
//
// Process runs early in the pipeline: it scans for ordered, unordered, and
// task list lines, applies inline formatting to each item body, and tags
// every item with its raw indentation level in a flat placeholder stream.
// No HTML nesting happens yet.
//
// Reconstruct runs after the markdown passes: it gathers maximal runs of
// consecutive tagged items of one kind and rebuilds nested <ul>/<ol>/<li>
// trees with a level-delta stack. Opened levels are always closed, so the
// output stays balanced no matter how malformed the input indentation was.
package lists
