// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// =============================================================================
// TABLES
// =============================================================================

var (
	reTableRow = regexp.MustCompile(`^[ \t]*\|(.+)\|[ \t]*$`)
	reTableSep = regexp.MustCompile(`^[ \t]*\|(?:[ \t]*:?-+:?[ \t]*\|)+[ \t]*$`)
)

// tables folds each pipe-delimited block into a <table>. A block is a
// header row, a separator row, and zero or more body rows; anything that
// does not complete that shape stays literal text.
func (f *Formatter) tables(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if !reTableRow.MatchString(lines[i]) || i+1 >= len(lines) || !reTableSep.MatchString(lines[i+1]) {
			out = append(out, lines[i])
			continue
		}
		header := splitCells(lines[i])
		aligns := parseAligns(lines[i+1], len(header))
		i += 2
		var rows [][]string
		for i < len(lines) && reTableRow.MatchString(lines[i]) {
			rows = append(rows, splitCells(lines[i]))
			i++
		}
		i--
		out = append(out, buildTable(header, aligns, rows))
	}
	return strings.Join(out, "\n")
}

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func parseAligns(sep string, n int) []string {
	aligns := make([]string, n)
	for i, cell := range splitCells(sep) {
		if i >= n {
			break
		}
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			aligns[i] = "center"
		case right:
			aligns[i] = "right"
		case left:
			aligns[i] = "left"
		}
	}
	return aligns
}

func alignAttr(a string) string {
	if a == "" {
		return ""
	}
	return ` style="text-align:` + a + `"`
}

// buildTable emits the table on a single line so paragraph splitting
// treats it as one block.
func buildTable(header, aligns []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("<table><thead><tr>")
	for i, h := range header {
		sb.WriteString("<th" + alignAttr(aligns[i]) + ">" + h + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for i := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString("<td" + alignAttr(aligns[i]) + ">" + cell + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}
