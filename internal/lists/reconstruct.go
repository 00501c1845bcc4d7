// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package lists

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// LIST RECONSTRUCTION
// =============================================================================

var reItemLine = regexp.MustCompile(`^\x00(UL|OL|TASK):([0-9]+)(?::(checked|unchecked))?\x00(.*)\x00/(?:UL|OL|TASK)\x00$`)

type item struct {
	kind    string
	level   int
	depth   int
	checked bool
	body    string
}

// Reconstruct rebuilds nested list HTML from the flat placeholder stream.
// Consecutive items of one kind form a run; each run becomes one list tree.
func Reconstruct(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	var run []item

	flush := func() {
		if len(run) > 0 {
			out = append(out, buildTree(run))
			run = nil
		}
	}

	for _, line := range lines {
		m := reItemLine.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			flush()
			out = append(out, line)
			continue
		}
		level, _ := strconv.Atoi(m[2])
		it := item{kind: m[1], level: level, checked: m[3] == "checked", body: m[4]}
		if len(run) > 0 && run[0].kind != it.kind {
			flush()
		}
		run = append(run, it)
	}
	flush()
	return strings.Join(out, "\n")
}

// buildTree converts one run of same-kind items into nested HTML using a
// level-delta stack. Depth can only grow one step per item and every opened
// level is closed, so tags balance regardless of input indentation.
func buildTree(run []item) string {
	rebase(run)

	tag := "ul"
	open := "<ul>"
	if run[0].kind == kindOL {
		tag = "ol"
		open = "<ol>"
	}
	if run[0].kind == kindTask {
		open = `<ul class="task-list">`
	}

	var sb strings.Builder
	sb.WriteString(open)
	prev := 0
	for i := range run {
		body := run[i].body
		if run[i].kind == kindTask {
			body = checkbox(run[i].checked) + " " + body
		}
		if i == 0 {
			sb.WriteString("<li>" + body)
			continue
		}
		d := run[i].depth
		if d > prev+1 {
			d = prev + 1
		}
		switch {
		case d > prev:
			sb.WriteString("<" + tag + "><li>" + body)
		case d == prev:
			sb.WriteString("</li><li>" + body)
		default:
			for j := 0; j < prev-d; j++ {
				sb.WriteString("</li></" + tag + ">")
			}
			sb.WriteString("</li><li>" + body)
		}
		prev = d
	}
	for j := 0; j < prev; j++ {
		sb.WriteString("</li></" + tag + ">")
	}
	sb.WriteString("</li></" + tag + ">")
	return sb.String()
}

// rebase maps raw indentation levels onto contiguous depths starting at 0,
// so a list nested at four spaces still begins at the top level. When
// every item lands at depth 0 but the run is long, inconsistent model
// indentation probably flattened real nesting; items with bold lead-ins
// stay top-level and the rest demote one step.
func rebase(run []item) {
	levels := make([]int, 0, len(run))
	seen := make(map[int]bool)
	for i := range run {
		if !seen[run[i].level] {
			seen[run[i].level] = true
			levels = append(levels, run[i].level)
		}
	}
	sort.Ints(levels)
	rank := make(map[int]int, len(levels))
	for r, l := range levels {
		rank[l] = r
	}
	maxDepth := 0
	for i := range run {
		run[i].depth = rank[run[i].level]
		if run[i].depth > maxDepth {
			maxDepth = run[i].depth
		}
	}
	// The first item anchors the tree.
	run[0].depth = 0

	if maxDepth == 0 && len(run) > 4 {
		recoverFlattenedNesting(run)
	}
}

func recoverFlattenedNesting(run []item) {
	bold := 0
	for i := range run {
		if strings.Contains(run[i].body, "<strong>") {
			bold++
		}
	}
	// Only plausible when bold headers and plain items are actually mixed.
	if bold == 0 || bold == len(run) {
		return
	}
	for i := range run {
		if !strings.Contains(run[i].body, "<strong>") {
			run[i].depth = 1
		}
	}
	run[0].depth = 0
}

func checkbox(checked bool) string {
	if checked {
		return `<input type="checkbox" checked disabled>`
	}
	return `<input type="checkbox" disabled>`
}
