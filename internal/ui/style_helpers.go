package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints runs of styled text onto one background color. lipgloss
// resets attributes after every rendered segment, so plain spaces between
// segments would show the terminal background; BgStyle renders those too.
type BgStyle struct {
	base  lipgloss.Style
	space string
}

// NewBgStyle returns a BgStyle for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	base := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{base: base, space: base.Render(" ")}
}

// Render applies style on the background, word by word so that the spaces
// inside text keep the background as well.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	st := style.Background(b.base.GetBackground())
	if !strings.Contains(text, " ") {
		return st.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = st.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns one background-colored space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n background-colored spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.base.Render(strings.Repeat(" ", n))
}

// Sep renders a plain separator on the background.
func (b BgStyle) Sep(sep string) string {
	return b.base.Render(sep)
}

// Join joins rendered parts with sep on the background.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads rendered content to width.
func (b BgStyle) FillLine(content string, width int) string {
	return b.base.Width(width).Render(content)
}
