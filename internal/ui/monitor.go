package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/api"
)

const barWidth = 24

// renderMonitor draws the health probe and overview kept by the poller.
func (m Model) renderMonitor(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	snap := m.snapshot
	now := m.now()

	row := func(label, value string) string {
		return bg.Render(padRight(label, 14), styles.MutedText) + value
	}

	var lines []string
	switch {
	case snap.IsOffline():
		lines = append(lines, row("API", bg.Render("offline", styles.DangerText.Bold(true))))
	case snap.HasHealth:
		status := styles.SuccessText
		if !strings.EqualFold(snap.Health.Status, "ok") {
			status = styles.WarningText
		}
		lines = append(lines, row("API", bg.Render(orDash(snap.Health.Status), status.Bold(true))))
		lines = append(lines, row("Version", bg.Render(orDash(snap.Health.Version), styles.Text)))
		lines = append(lines, row("Server time", bg.Render(orDash(snap.Health.ServerTime), styles.Text)))
	default:
		lines = append(lines, row("API", bg.Render("waiting for first poll", styles.MutedText)))
	}
	lines = append(lines, row("Last poll", bg.Render(relativeTime(snap.LastUpdated, now), styles.Text)))
	if snap.ConsecutiveFailures > 0 {
		lines = append(lines, row("Failures", bg.Render(fmt.Sprintf("%d in a row", snap.ConsecutiveFailures), styles.WarningText)))
	}
	if snap.LastError != nil {
		lines = append(lines, row("Last error", bg.Render(truncate(api.Message(snap.LastError), width-20), styles.DangerText)))
	}

	if snap.HasOverview {
		ov := snap.Overview
		total := ov.DevicesTotal()
		lines = append(lines, "", bg.Render(fmt.Sprintf("Devices (%d)", total), styles.AccentText.Bold(true)))
		lines = append(lines,
			m.deviceBar("Online", ov.DevicesOnline, total, api.DeviceOnline, bg),
			m.deviceBar("In use", ov.DevicesInUse, total, api.DeviceInUse, bg),
			m.deviceBar("Offline", ov.DevicesOffline, total, api.DeviceOffline, bg),
			m.deviceBar("Fault", ov.DevicesFault, total, api.DeviceFault, bg),
		)
		lines = append(lines, "", bg.Render("Today", styles.AccentText.Bold(true)))
		lines = append(lines,
			row("Orders", bg.Render(formatCount(int64(ov.OrdersToday)), styles.Text)),
			row("Revenue", bg.Render(formatMoney(ov.RevenueToday), styles.InfoText)),
			row("Points", bg.Render(formatCount(ov.PointsToday), styles.Text)),
		)
		if ov.UpdatedAt != "" {
			lines = append(lines, row("As of", bg.Render(ov.UpdatedAt, styles.MutedText)))
		}
	}

	return renderTitledBox(m.theme, "Monitor", strings.Join(lines, "\n"), width, height, true)
}

func (m Model) deviceBar(label string, n, total int, status string, bg BgStyle) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	filled := 0
	if total > 0 {
		filled = n * barWidth / total
	}
	if n > 0 && filled == 0 {
		filled = 1
	}
	color := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status)))
	return bg.Render(padRight("  "+label, 14), styles.MutedText) +
		bg.Render(strings.Repeat("█", filled), color) +
		bg.Render(strings.Repeat("░", barWidth-filled), styles.FaintText) +
		bg.Space() + bg.Render(fmt.Sprintf("%d", n), styles.Text)
}
