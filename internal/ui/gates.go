package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/confirm"
	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

// deleteTarget names the record a delete gate removes.
type deleteTarget struct {
	kind string
	id   int64
	name string
}

// deleteModal asks before deleting a venue or device group.
type deleteModal struct {
	ctx  context.Context
	view View
	gate *confirm.Gate[deleteTarget]
	run  func(context.Context, int64) error
}

func newDeleteModal(ctx context.Context, view View, target deleteTarget, run func(context.Context, int64) error) *deleteModal {
	gate := confirm.New(confirm.Options[deleteTarget]{
		Describe: func(t deleteTarget) string {
			return fmt.Sprintf("Delete %s %q (#%d)? This cannot be undone.", t.kind, t.name, t.id)
		},
		ErrMessage: api.Message,
	})
	gate.Open()
	gate.Submit(target)
	return &deleteModal{ctx: ctx, view: view, gate: gate, run: run}
}

func (d *deleteModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case mutationDoneMsg:
		d.gate.Finish(msg.err)
		return d, nil, !d.gate.Snapshot().Open()

	case tea.KeyMsg:
		if d.gate.Snapshot().Locked() {
			return d, nil, false
		}
		switch {
		case key.Matches(msg, keys.Yes), key.Matches(msg, keys.Confirm):
			target, ok := d.gate.Begin()
			if !ok {
				return d, nil, false
			}
			run := d.run
			cmd := mutateCmd(d.ctx, d.view, "Deleted "+target.kind, "Could not delete "+target.kind, func(ctx context.Context) (string, error) {
				return target.name, run(ctx, target.id)
			})
			return d, cmd, false
		case key.Matches(msg, keys.No), key.Matches(msg, keys.Escape):
			d.gate.Cancel()
			return d, nil, true
		}
	}
	return d, nil, false
}

func (d *deleteModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	snap := d.gate.Snapshot()

	var b strings.Builder
	b.WriteString(modalTitle(theme, "Delete "+snap.Params.kind))
	b.WriteString(styles.Text.Render(snap.Prompt))
	b.WriteString("\n\n")
	if snap.Err != "" {
		b.WriteString(styles.DangerText.Render(snap.Err))
		b.WriteString("\n\n")
	}
	if snap.Locked() {
		b.WriteString(styles.WarningText.Render(spinnerFrame(time.Now()) + " Deleting..."))
	} else {
		b.WriteString(modalHints(theme, [2]string{"y", "delete"}, [2]string{"n/esc", "cancel"}))
	}
	return renderModal(theme, b.String(), 56, width, height)
}

// reassignParams is what the reassign gate confirms.
type reassignParams struct {
	input form.Valid[form.ReassignInput]
	count int
	group api.DeviceGroup
}

// groupsLoadedMsg delivers the group choices for the reassign modal.
type groupsLoadedMsg struct {
	groups []api.DeviceGroup
	err    error
}

// groupChoiceLimit bounds how many groups the reassign modal offers.
const groupChoiceLimit = 100

// reassignModal moves marked devices into another group: pick a group,
// confirm the summary, submit.
type reassignModal struct {
	ctx     context.Context
	backend Backend
	gate    *confirm.Gate[reassignParams]
	devices []api.Device

	groups  []api.DeviceGroup
	loading bool
	loadErr string
	cursor  int
	invalid string
}

func newReassignModal(ctx context.Context, b Backend, devices []api.Device, onSuccess func(reassignParams)) (*reassignModal, tea.Cmd) {
	gate := confirm.New(confirm.Options[reassignParams]{
		Describe: func(p reassignParams) string {
			noun := "devices"
			if p.count == 1 {
				noun = "device"
			}
			return fmt.Sprintf("Move %d %s to %q at %s?", p.count, noun, p.group.Name, orDash(p.group.VenueName))
		},
		OnSuccess:  onSuccess,
		ErrMessage: api.Message,
	})
	gate.Open()
	r := &reassignModal{ctx: ctx, backend: b, gate: gate, devices: devices, loading: true}
	return r, r.loadGroups()
}

func (r *reassignModal) loadGroups() tea.Cmd {
	ctx, b := r.ctx, r.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, MutationTimeout)
		defer cancel()
		page, err := b.ListDeviceGroups(ctx, api.DeviceGroupFilter{}, query.Pagination{Page: 1, PageSize: groupChoiceLimit})
		return groupsLoadedMsg{groups: page.Items, err: err}
	}
}

func (r *reassignModal) deviceIDs() []int64 {
	ids := make([]int64, 0, len(r.devices))
	for _, d := range r.devices {
		ids = append(ids, d.ID)
	}
	return ids
}

func (r *reassignModal) choose() {
	if r.cursor < 0 || r.cursor >= len(r.groups) {
		return
	}
	group := r.groups[r.cursor]
	in, errs := form.Validate(form.ReassignInput{DeviceIDs: r.deviceIDs(), GroupID: group.ID})
	if errs != nil {
		r.invalid = errs.Error()
		return
	}
	r.invalid = ""
	r.gate.Submit(reassignParams{input: in, count: len(r.devices), group: group})
}

func (r *reassignModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case groupsLoadedMsg:
		r.loading = false
		if msg.err != nil {
			r.loadErr = api.Message(msg.err)
			return r, nil, false
		}
		r.loadErr = ""
		r.groups = msg.groups
		r.cursor = min(r.cursor, max(len(r.groups)-1, 0))
		return r, nil, false

	case mutationDoneMsg:
		r.gate.Finish(msg.err)
		return r, nil, !r.gate.Snapshot().Open()

	case tea.KeyMsg:
		snap := r.gate.Snapshot()
		if snap.Locked() {
			return r, nil, false
		}
		if key.Matches(msg, keys.Escape) {
			r.gate.Cancel()
			return r, nil, true
		}
		if snap.Phase == confirm.Confirming {
			return r.handleConfirmKey(msg, keys)
		}
		return r.handleSelectKey(msg, keys)
	}
	return r, nil, false
}

func (r *reassignModal) handleSelectKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Down):
		if r.cursor < len(r.groups)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keys.Refresh):
		if !r.loading {
			r.loading = true
			return r, r.loadGroups(), false
		}
	case key.Matches(msg, keys.Confirm):
		r.choose()
	}
	return r, nil, false
}

func (r *reassignModal) handleConfirmKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Yes), key.Matches(msg, keys.Confirm):
		params, ok := r.gate.Begin()
		if !ok {
			return r, nil, false
		}
		b := r.backend
		cmd := mutateCmd(r.ctx, ViewDevices, "Devices moved", "Could not move devices", func(ctx context.Context) (string, error) {
			res, err := b.ReassignDevices(ctx, params.input)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d moved to %s", res.Moved, params.group.Name), nil
		}, ViewGroups, ViewVenues)
		return r, cmd, false
	case key.Matches(msg, keys.No):
		r.gate.Back()
	}
	return r, nil, false
}

func (r *reassignModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	snap := r.gate.Snapshot()

	var b strings.Builder
	b.WriteString(modalTitle(theme, fmt.Sprintf("Move %d device(s)", len(r.devices))))

	sns := make([]string, 0, len(r.devices))
	for _, d := range r.devices {
		sns = append(sns, d.SN)
	}
	b.WriteString(styles.MutedText.Render(truncate(strings.Join(sns, ", "), 52)))
	b.WriteString("\n\n")

	switch snap.Phase {
	case confirm.Confirming, confirm.Submitting:
		b.WriteString(styles.Text.Render(snap.Prompt))
		b.WriteString("\n\n")
		if snap.Err != "" {
			b.WriteString(styles.DangerText.Render(snap.Err))
			b.WriteString("\n\n")
		}
		if snap.Locked() {
			b.WriteString(styles.WarningText.Render(spinnerFrame(time.Now()) + " Moving..."))
		} else {
			b.WriteString(modalHints(theme, [2]string{"y", "move"}, [2]string{"n", "back"}, [2]string{"esc", "cancel"}))
		}
	default:
		b.WriteString(r.renderChoices(theme))
		b.WriteString("\n")
		if r.invalid != "" {
			b.WriteString(styles.DangerText.Render(r.invalid))
			b.WriteString("\n\n")
		}
		b.WriteString(modalHints(theme, [2]string{"j/k", "choose"}, [2]string{"enter", "select"}, [2]string{"esc", "cancel"}))
	}
	return renderModal(theme, b.String(), 60, width, height)
}

const groupChoiceRows = 8

func (r *reassignModal) renderChoices(theme Theme) string {
	styles := theme.Styles()
	switch {
	case r.loading:
		return styles.MutedText.Render("Loading device groups...") + "\n"
	case r.loadErr != "":
		return styles.DangerText.Render(r.loadErr) + "\n" + styles.MutedText.Render("r to retry") + "\n"
	case len(r.groups) == 0:
		return styles.MutedText.Render("No device groups yet") + "\n"
	}

	offset := 0
	if r.cursor >= groupChoiceRows {
		offset = r.cursor - groupChoiceRows + 1
	}
	end := min(offset+groupChoiceRows, len(r.groups))

	var b strings.Builder
	for i := offset; i < end; i++ {
		g := r.groups[i]
		line := fmt.Sprintf("%s  %s", padRight(g.Name, 20), orDash(g.VenueName))
		if i == r.cursor {
			b.WriteString(styles.AccentText.Bold(true).Render("› " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
