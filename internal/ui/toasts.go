package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/toast"
)

// toastExpiredMsg fires when a toast's timer runs out.
type toastExpiredMsg struct {
	id toast.ID
}

// pushToast queues t and schedules its expiry.
func (m Model) pushToast(t toast.Toast) tea.Cmd {
	if t.Duration <= 0 && t.Kind != toast.Error {
		t.Duration = m.toastDuration
	}
	t = m.toasts.Push(t)
	id := t.ID
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

const toastWidth = 56

// renderToasts stacks visible toasts right-aligned, newest last.
func (m Model) renderToasts(visible []toast.Toast) string {
	if len(visible) == 0 {
		return ""
	}
	lines := make([]string, 0, len(visible))
	for _, t := range visible {
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.renderToast(t)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderToast(t toast.Toast) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	icon, style := "•", styles.InfoText
	switch t.Kind {
	case toast.Success:
		icon, style = "✓", styles.SuccessText
	case toast.Warning:
		icon, style = "!", styles.WarningText
	case toast.Error:
		icon, style = "✗", styles.DangerText
	}

	text := bg.Render(icon, style.Bold(true)) + bg.Space() + bg.Render(t.Title, style.Bold(true))
	room := toastWidth - 3 - lipgloss.Width(t.Title)
	if t.Description != "" && room > 4 {
		text += bg.Render(": ", styles.MutedText) + bg.Render(truncate(t.Description, room-2), styles.Text)
	}
	return bg.Space() + text + bg.Space()
}
