// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package lists

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// LIST LINE DETECTION
// =============================================================================

// Item kinds carried in the placeholder stream.
const (
	kindUL   = "UL"
	kindOL   = "OL"
	kindTask = "TASK"
)

var (
	reTaskLine = regexp.MustCompile(`^(\s*)[-*]\s+\[( |x|X)\]\s+(.*)$`)
	reULLine   = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	reOLLine   = regexp.MustCompile(`^(\s*)\d+\.\s+(.*)$`)
)

// Process scans text line by line and replaces every list item with a flat,
// level-tagged placeholder. The inline callback formats each item's body
// (bold, italics, inline code); math and code placeholders inside bodies
// are already in protected form and pass through untouched.
func Process(text string, inline func(string) string) string {
	if inline == nil {
		inline = func(s string) string { return s }
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := reTaskLine.FindStringSubmatch(line); m != nil {
			state := "unchecked"
			if m[2] == "x" || m[2] == "X" {
				state = "checked"
			}
			lines[i] = taskToken(indentLevel(m[1]), state, inline(m[3]))
			continue
		}
		if m := reULLine.FindStringSubmatch(line); m != nil {
			// A bare "- - -" style rule is not a list item.
			if isRuleBody(m[2]) {
				continue
			}
			lines[i] = itemToken(kindUL, indentLevel(m[1]), inline(m[2]))
			continue
		}
		if m := reOLLine.FindStringSubmatch(line); m != nil {
			lines[i] = itemToken(kindOL, indentLevel(m[1]), inline(m[2]))
		}
	}
	return strings.Join(lines, "\n")
}

// indentLevel is the raw leading-whitespace length, tabs counted as four.
func indentLevel(indent string) int {
	return len(strings.ReplaceAll(indent, "\t", "    "))
}

func isRuleBody(body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return true
	}
	return strings.Trim(trimmed, "-* ") == ""
}

func itemToken(kind string, level int, body string) string {
	return "\x00" + kind + ":" + strconv.Itoa(level) + "\x00" + body + "\x00/" + kind + "\x00"
}

func taskToken(level int, state, body string) string {
	return "\x00" + kindTask + ":" + strconv.Itoa(level) + ":" + state + "\x00" + body + "\x00/" + kindTask + "\x00"
}
