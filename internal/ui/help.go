package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Views",
			items: []helpItem{
				{"1-6", "Orders/Devices/Groups/Venues/Reports/Monitor"},
				{"tab", "Cycle views"},
			},
		},
		{
			title: "Lists",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"[/]", "Previous/next page"},
				{"z", "Cycle page size"},
				{"r", "Refresh"},
				{"/", "Edit filters"},
				{"c", "Clear filters"},
			},
		},
		{
			title: "Records",
			items: []helpItem{
				{"enter", "Open order"},
				{"Space", "Mark device"},
				{"m", "Move devices to group"},
				{"a/e/x", "Add/edit/delete"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"D", "Dismiss notification"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return renderModal(m.theme, b.String(), 60, m.width, m.height)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
