package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// mutationDoneMsg reports a finished create, update, delete or reassign call.
type mutationDoneMsg struct {
	view    View
	affects []View // other lists whose contents the mutation changed
	success string
	failure string
	detail  string
	err     error
}

// mutateCmd runs one mutation under MutationTimeout. run returns the success
// toast's description.
func mutateCmd(ctx context.Context, view View, success, failure string, run func(context.Context) (string, error), affects ...View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, MutationTimeout)
		defer cancel()
		detail, err := run(ctx)
		return mutationDoneMsg{
			view:    view,
			affects: affects,
			success: success,
			failure: failure,
			detail:  detail,
			err:     err,
		}
	}
}

// renderModal frames content in the modal border and centers it.
func renderModal(theme Theme, content string, modalWidth, width, height int) string {
	modalWidth = min(modalWidth, max(width-4, 20))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// modalTitle renders a title followed by a rule.
func modalTitle(theme Theme, title string) string {
	styles := theme.Styles()
	return styles.Text.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", 30)) + "\n\n"
}

// modalHints renders a row of key hints.
func modalHints(theme Theme, hints ...[2]string) string {
	styles := theme.Styles()
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.AccentText.Render(h[0])+" "+styles.MutedText.Render(h[1]))
	}
	return strings.Join(parts, "  ")
}

// spinnerFrame picks a frame for in-flight indicators.
func spinnerFrame(now time.Time) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[(now.UnixMilli()/100)%int64(len(frames))]
}
