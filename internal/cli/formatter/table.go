package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// RenderTable lays out rows under an accent header line and a muted rule.
// Column widths follow the widest visible cell, so styled cells line up.
// A table without rows still prints its header; one without headers prints
// nothing.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableAligned(headers, rows, nil)
}

// RenderTableAligned is RenderTable with the listed columns right-aligned.
func RenderTableAligned(headers []string, rows [][]string, rightAlign map[int]bool) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows)

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			pos := lipgloss.Left
			if rightAlign[i] {
				pos = lipgloss.Right
			}
			parts[i] = lipgloss.PlaceHorizontal(w, pos, cell)
		}
		return strings.TrimRight(strings.Join(parts, columnGap), " ") + "\n"
	}

	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleAccent.Render(h)
		rules[i] = Dim(strings.Repeat("─", widths[i]))
	}

	var b strings.Builder
	b.WriteString(line(styled))
	b.WriteString(line(rules))
	for _, row := range rows {
		b.WriteString(line(row))
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}
