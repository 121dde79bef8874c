package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasHealth && !m.snapshot.HasOverview {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the connecting/error state.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("kiosk", styles.Logo),
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("kiosk", styles.Logo) + sep +
			bg.Render("Connecting to API...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot
	ov := snap.Overview

	parts := []string{bg.Render("kiosk", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText.Bold(true)))
	case snap.HasHealth && strings.EqualFold(snap.Health.Status, "ok"):
		label := "● API"
		if !compact && snap.Health.Version != "" {
			label += " " + snap.Health.Version
		}
		parts = append(parts, bg.Render(label, styles.SuccessText))
	default:
		parts = append(parts, bg.Render("● DEGRADED", styles.WarningText))
	}

	if snap.HasOverview {
		faultStyle := styles.MutedText
		if ov.DevicesFault > 0 {
			faultStyle = styles.DangerText
		}
		devices := bg.Render("Devices:", styles.MutedText) + bg.Space() +
			bg.Render(fmt.Sprintf("%d/%d", ov.DevicesOnline+ov.DevicesInUse, ov.DevicesTotal()), styles.Text)
		if !compact || ov.DevicesFault > 0 {
			devices += bg.Space() + bg.Render(fmt.Sprintf("(%d fault)", ov.DevicesFault), faultStyle)
		}
		parts = append(parts, devices)
		parts = append(parts,
			bg.Render("Orders:", styles.MutedText)+bg.Space()+
				bg.Render(formatCount(int64(ov.OrdersToday)), styles.Text))
		if !compact {
			parts = append(parts,
				bg.Render("Revenue:", styles.MutedText)+bg.Space()+
					bg.Render(formatMoney(ov.RevenueToday), styles.InfoText))
		}
	}

	if ts := m.formatLastPoll(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

// formatLastPoll formats the last poll time with a relative indicator.
func (m Model) formatLastPoll() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	since := m.now().Sub(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	default:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the view tabs and the current view's key hints.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.currentView {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true).Underline(true)))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	if l := m.activeList(); l != nil && l.editing() {
		commands = []cmd{{"tab", "Field"}, {"enter", "Apply"}, {"esc", "Done"}}
	} else {
		switch m.currentView {
		case ViewOrders:
			commands = []cmd{{"enter", "Open"}}
		case ViewDevices:
			commands = []cmd{{"Space", "Mark"}, {"m", "Move"}}
		case ViewGroups:
			commands = []cmd{{"a", "Add"}, {"x", "Delete"}}
		case ViewVenues:
			commands = []cmd{{"a", "Add"}, {"e", "Edit"}, {"x", "Delete"}}
		}
		if m.currentView != ViewMonitor {
			commands = append(commands, cmd{"/", "Filter"}, cmd{"[/]", "Page"})
		}
		commands = append(commands, cmd{"?", "More"})
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.width >= LayoutWideWidth {
		segments = append(segments,
			bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(
		strings.Join(tabs, sep) + bg.Spaces(4) + strings.Join(segments, sep))
}
