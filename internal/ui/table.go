package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// column describes one table column.
type column[R any] struct {
	title    string
	width    int  // zero shares the remaining width with other flexible columns
	optional bool // hidden below LayoutCompactWidth
	value    func(R, time.Time) string
	color    func(Theme, R) string // optional foreground override
}

type tableSpec[R any] struct {
	columns  []column[R]
	items    []R
	selected int
	marks    map[string]R
	keyOf    func(R) string
	markable bool
	focused  bool
	empty    string
}

// renderTable renders a header row plus as many rows as fit in height,
// scrolled so the selected row stays visible.
func renderTable[R any](theme Theme, spec tableSpec[R], width, height int, now time.Time) string {
	bgColor := theme.SurfaceAlt
	if spec.focused {
		bgColor = theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := theme.Styles()

	if len(spec.items) == 0 {
		return bg.Render(spec.empty, styles.MutedText)
	}

	cols := visibleColumns(spec.columns, width)
	widths := columnWidths(cols, width, spec.markable)

	lines := make([]string, 0, height)
	header := make([]string, 0, len(cols))
	for i, c := range cols {
		header = append(header, bg.Render(padRight(c.title, widths[i]), styles.MutedText.Bold(true)))
	}
	prefix := ""
	if spec.markable {
		prefix = bg.Spaces(2)
	}
	lines = append(lines, prefix+strings.Join(header, bg.Space()))

	rows := max(height-1, 1)
	offset := 0
	if spec.selected >= rows {
		offset = spec.selected - rows + 1
	}
	end := min(offset+rows, len(spec.items))

	for idx := offset; idx < end; idx++ {
		item := spec.items[idx]
		selected := idx == spec.selected && spec.focused
		rowBg := bg
		if selected {
			rowBg = NewBgStyle(theme.SelectionBg)
		}

		cells := make([]string, 0, len(cols))
		for i, c := range cols {
			style := styles.Text
			switch {
			case selected:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SelectionText))
			case c.color != nil:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.color(theme, item)))
			}
			cells = append(cells, rowBg.Render(padRight(c.value(item, now), widths[i]), style))
		}

		row := ""
		if spec.markable {
			mark := "  "
			if _, ok := spec.marks[spec.keyOf(item)]; ok {
				mark = "● "
			}
			row = rowBg.Render(mark, styles.AccentText)
		}
		row += strings.Join(cells, rowBg.Space())
		lines = append(lines, rowBg.FillLine(row, width))
	}
	return strings.Join(lines, "\n")
}

func visibleColumns[R any](cols []column[R], width int) []column[R] {
	if width >= LayoutCompactWidth {
		return cols
	}
	out := make([]column[R], 0, len(cols))
	for _, c := range cols {
		if !c.optional {
			out = append(out, c)
		}
	}
	return out
}

// columnWidths sizes fixed columns as declared and splits the rest between
// flexible ones, never below 8 cells.
func columnWidths[R any](cols []column[R], width int, markable bool) []int {
	widths := make([]int, len(cols))
	remaining := width - max(len(cols)-1, 0)
	if markable {
		remaining -= 2
	}
	flex := 0
	for i, c := range cols {
		if c.width > 0 {
			widths[i] = c.width
			remaining -= c.width
		} else {
			flex++
		}
	}
	if flex == 0 {
		return widths
	}
	share := max(remaining/flex, 8)
	for i, c := range cols {
		if c.width == 0 {
			widths[i] = share
		}
	}
	return widths
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// ┌─── Title ───┐
func renderTitledBox(theme Theme, title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := theme.Border, theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = theme.BorderFocus, theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, topBorder)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bottomBorder)
	return strings.Join(lines, "\n")
}
