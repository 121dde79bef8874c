package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/api"
)

type detailRow struct {
	key   string
	value string
}

// orderDetailMsg delivers one fetched order.
type orderDetailMsg struct {
	orderNo string
	order   api.Order
	err     error
}

// orderDetailModal shows the full record of one order, fetched fresh.
type orderDetailModal struct {
	ctx     context.Context
	backend Backend
	orderNo string
	order   api.Order
	loading bool
	err     string
}

func newOrderDetailModal(ctx context.Context, b Backend, summary api.Order) (*orderDetailModal, tea.Cmd) {
	d := &orderDetailModal{ctx: ctx, backend: b, orderNo: summary.OrderNo, order: summary}
	return d, d.fetch()
}

func (d *orderDetailModal) fetch() tea.Cmd {
	d.loading = true
	ctx, b, orderNo := d.ctx, d.backend, d.orderNo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, MutationTimeout)
		defer cancel()
		order, err := b.GetOrder(ctx, orderNo)
		return orderDetailMsg{orderNo: orderNo, order: order, err: err}
	}
}

func (d *orderDetailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case orderDetailMsg:
		if msg.orderNo != d.orderNo {
			return d, nil, false
		}
		d.loading = false
		if msg.err != nil {
			d.err = api.Message(msg.err)
			return d, nil, false
		}
		d.err = ""
		d.order = msg.order
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Confirm), key.Matches(msg, keys.Quit):
			return d, nil, true
		case key.Matches(msg, keys.Refresh):
			if !d.loading {
				return d, d.fetch(), false
			}
		}
	}
	return d, nil, false
}

func (d *orderDetailModal) rows(now time.Time) []detailRow {
	o := d.order
	rows := []detailRow{
		{"Status", titleCase(o.Status)},
		{"User", orDash(o.UserName) + " (#" + idString(o.UserID) + ")"},
		{"Venue", orDash(o.VenueName) + " (#" + idString(o.VenueID) + ")"},
		{"Device", orDash(o.DeviceSN)},
		{"Amount", formatMoney(o.Amount)},
		{"Points", formatCount(o.Points)},
		{"Created", formatTimestamp(o.ParsedCreatedAt(), now)},
	}
	if o.PaidAt != "" {
		rows = append(rows, detailRow{"Paid", o.PaidAt})
	}
	if o.FinishedAt != "" {
		rows = append(rows, detailRow{"Finished", o.FinishedAt})
	}
	if strings.TrimSpace(o.Remark) != "" {
		rows = append(rows, detailRow{"Remark", o.Remark})
	}
	return rows
}

func (d *orderDetailModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	now := time.Now()

	var b strings.Builder
	b.WriteString(modalTitle(theme, "Order "+d.orderNo))
	for _, row := range d.rows(now) {
		b.WriteString(styles.MutedText.Render(padRight(row.key, 10)))
		value := styles.Text
		if row.key == "Status" {
			value = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.StatusColor(d.order.Status))).Bold(true)
		}
		b.WriteString(value.Render(row.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case d.loading:
		b.WriteString(styles.MutedText.Render(spinnerFrame(now) + " Refreshing..."))
		b.WriteString("\n")
	case d.err != "":
		b.WriteString(styles.DangerText.Render(d.err))
		b.WriteString("\n")
	}
	b.WriteString(modalHints(theme, [2]string{"r", "refresh"}, [2]string{"esc", "close"}))
	return renderModal(theme, b.String(), 56, width, height)
}
