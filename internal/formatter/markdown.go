// Package formatter tidies generated Markdown before it is written.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth is the shortest separator cell ("---").
const minColumnWidth = 3

// FormatMarkdown aligns tables by display width, trims trailing whitespace
// and collapses runs of blank lines to a single blank line.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")

	var formattedLines []string

	var tableBuffer []string

	flush := func() {
		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}
	}

	blank := 0

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmedLine := strings.TrimSpace(line)

		// Simple heuristic: starts and ends with |
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") && len(trimmedLine) > 1 {
			tableBuffer = append(tableBuffer, trimmedLine)
			blank = 0

			continue
		}

		flush()

		if trimmedLine == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}

		formattedLines = append(formattedLines, line)
	}

	flush()

	return strings.Join(formattedLines, "\n")
}

func splitRow(row string) []string {
	parts := strings.Split(strings.TrimSpace(row), "|")

	// Leading and trailing pipes leave empty strings at both ends
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}

	return cells
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}

	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" || !strings.Contains(cell, "-") {
			return false
		}
	}

	return true
}

func processTable(rows []string) []string {
	// A header needs a separator row beneath it
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	colCount := 0

	for _, row := range rows {
		cells := splitRow(row)
		table = append(table, cells)

		if len(cells) > colCount {
			colCount = len(cells)
		}
	}

	separatorRowIdx := -1
	if isSeparatorRow(table[1]) {
		separatorRowIdx = 1
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	result := make([]string, 0, len(table))

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			switch {
			case i == separatorRowIdx:
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			case j < len(row):
				sb.WriteString(runewidth.FillRight(row[j], colWidths[j]))
			default:
				sb.WriteString(strings.Repeat(" ", colWidths[j]))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
