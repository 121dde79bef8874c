package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/prefs"
	"github.com/five82/kiosk/internal/query"
	"github.com/five82/kiosk/internal/state"
	"github.com/five82/kiosk/internal/toast"
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Client        Backend
	Store         *state.Store
	Logger        zerolog.Logger
	PollTick      time.Duration
	PageSize      int
	ToastDuration time.Duration
	ToastLimit    int
	ThemeName     string
	StartView     string
	PrefsPath     string
	Prefs         prefs.Prefs
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   Backend
	store     *state.Store
	log       zerolog.Logger
	prefsPath string
	prefs     prefs.Prefs
	pollTick  time.Duration
	keys      keyMap
	now       func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot

	// Lists
	orders  *listView[api.OrderFilter, api.Order]
	devices *listView[api.DeviceFilter, api.Device]
	groups  *listView[api.DeviceGroupFilter, api.DeviceGroup]
	venues  *listView[api.VenueFilter, api.Venue]
	reports *listView[api.ReportFilter, api.DailyReport]
	lists   map[View]lister

	// Overlays
	modal         Modal
	toasts        *toast.Queue
	toastDuration time.Duration
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	toastDuration := opts.ToastDuration
	if toastDuration <= 0 {
		toastDuration = toast.DefaultDuration
	}

	queryOpts := query.Options{
		PageSize:     pageSize,
		ErrorMessage: api.Message,
		Logger:       opts.Logger,
		Now:          now,
	}

	m := Model{
		ctx:           ctx,
		backend:       opts.Client,
		store:         opts.Store,
		log:           opts.Logger,
		prefsPath:     opts.PrefsPath,
		prefs:         opts.Prefs,
		pollTick:      pollTick,
		keys:          DefaultKeyMap(),
		now:           now,
		theme:         GetTheme(themeName),
		currentView:   parseView(opts.StartView),
		toasts:        toast.NewQueue(toast.Options{MaxLen: opts.ToastLimit, DefaultDuration: toastDuration, Now: now}),
		toastDuration: toastDuration,
	}

	m.orders = newOrdersView(ctx, opts.Client, queryOpts)
	m.devices = newDevicesView(ctx, opts.Client, queryOpts)
	m.groups = newGroupsView(ctx, opts.Client, queryOpts)
	m.venues = newVenuesView(ctx, opts.Client, queryOpts)
	m.reports = newReportsView(ctx, opts.Client, queryOpts)
	m.lists = map[View]lister{
		ViewOrders:  m.orders,
		ViewDevices: m.devices,
		ViewGroups:  m.groups,
		ViewVenues:  m.venues,
		ViewReports: m.reports,
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if l := m.activeList(); l != nil {
		cmds = append(cmds, l.load())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case listResultMsg:
		return m.handleListResult(msg)

	case debounceMsg:
		if l := m.lists[msg.view]; l != nil {
			return m, l.debounced(msg.seq)
		}
		return m, nil

	case toastExpiredMsg:
		m.toasts.Prune(m.now())
		return m, nil

	case mutationDoneMsg:
		return m.handleMutation(msg)
	}

	// Everything else (detail fetches, group choices, cursor blinks) belongs
	// to the open modal.
	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

func (m Model) activeList() lister {
	return m.lists[m.currentView]
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	// Filter inputs take every key until esc or enter.
	if l := m.activeList(); l != nil && l.editing() {
		cmd, _ := l.handleKey(msg, m.keys)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.DismissToast):
		m.toasts.DismissNewest()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.currentView.next())
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.currentView.prev())
	case key.Matches(msg, m.keys.ViewOrders):
		return m.switchView(ViewOrders)
	case key.Matches(msg, m.keys.ViewDevices):
		return m.switchView(ViewDevices)
	case key.Matches(msg, m.keys.ViewGroups):
		return m.switchView(ViewGroups)
	case key.Matches(msg, m.keys.ViewVenues):
		return m.switchView(ViewVenues)
	case key.Matches(msg, m.keys.ViewReports):
		return m.switchView(ViewReports)
	case key.Matches(msg, m.keys.ViewMonitor):
		return m.switchView(ViewMonitor)
	case key.Matches(msg, m.keys.CyclePageSize):
		l := m.activeList()
		if l == nil {
			return m, nil
		}
		size := nextPageSize(l.pageSize())
		m.prefs.PageSize = size
		m.savePrefs()
		return m, l.setPageSize(size)
	}

	// View-specific keys
	switch m.currentView {
	case ViewOrders:
		if key.Matches(msg, m.keys.Open) {
			return m.openOrder()
		}
	case ViewDevices:
		switch {
		case key.Matches(msg, m.keys.Reassign):
			return m.openReassign()
		case key.Matches(msg, m.keys.Escape):
			m.devices.clearMarks()
			return m, nil
		}
	case ViewGroups:
		switch {
		case key.Matches(msg, m.keys.Add):
			m.modal = groupForm(m.ctx, m.backend, m.groups.sync.Snapshot().Filters.VenueID)
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			return m.openDeleteGroup()
		}
	case ViewVenues:
		switch {
		case key.Matches(msg, m.keys.Add):
			m.modal = venueForm(m.ctx, m.backend, nil)
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if v, ok := m.venues.selectedItem(); ok {
				m.modal = venueForm(m.ctx, m.backend, &v)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			return m.openDeleteVenue()
		}
	case ViewMonitor:
		if key.Matches(msg, m.keys.Refresh) && m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
	}

	if l := m.activeList(); l != nil {
		cmd, _ := l.handleKey(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = modal
	}
	return m, cmd
}

// switchView activates v, fetching its list the first time it is shown.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == m.currentView {
		return m, nil
	}
	m.currentView = v
	m.prefs.LastView = v.String()
	m.savePrefs()
	if l := m.lists[v]; l != nil && !l.started() {
		return m, l.load()
	}
	return m, nil
}

func (m Model) openOrder() (tea.Model, tea.Cmd) {
	order, ok := m.orders.selectedItem()
	if !ok {
		return m, nil
	}
	modal, cmd := newOrderDetailModal(m.ctx, m.backend, order)
	m.modal = modal
	return m, cmd
}

// openReassign moves the marked devices, or the selected one when none are
// marked.
func (m Model) openReassign() (tea.Model, tea.Cmd) {
	devices := m.devices.marked()
	if len(devices) == 0 {
		d, ok := m.devices.selectedItem()
		if !ok {
			return m, nil
		}
		devices = []api.Device{d}
	}
	list := m.devices
	modal, cmd := newReassignModal(m.ctx, m.backend, devices, func(reassignParams) {
		list.clearMarks()
	})
	m.modal = modal
	return m, cmd
}

func (m Model) openDeleteGroup() (tea.Model, tea.Cmd) {
	g, ok := m.groups.selectedItem()
	if !ok {
		return m, nil
	}
	m.modal = newDeleteModal(m.ctx, ViewGroups, deleteTarget{kind: "device group", id: g.ID, name: g.Name}, m.backend.DeleteDeviceGroup)
	return m, nil
}

func (m Model) openDeleteVenue() (tea.Model, tea.Cmd) {
	v, ok := m.venues.selectedItem()
	if !ok {
		return m, nil
	}
	m.modal = newDeleteModal(m.ctx, ViewVenues, deleteTarget{kind: "venue", id: v.ID, name: v.Name}, m.backend.DeleteVenue)
	return m, nil
}

// handleListResult resolves a finished fetch. Results superseded by a later
// request are dropped without touching the view.
func (m Model) handleListResult(msg listResultMsg) (tea.Model, tea.Cmd) {
	if !msg.apply() {
		m.log.Debug().Str("view", msg.view.String()).Uint64("ticket", msg.ticket).Msg("dropped stale result")
		return m, nil
	}
	l := m.lists[msg.view]
	if l != nil {
		l.resolved()
	}
	if msg.err == nil || errors.Is(msg.err, context.Canceled) {
		return m, nil
	}
	m.log.Warn().Err(msg.err).Str("view", msg.view.String()).Msg("list fetch failed")
	return m, m.pushToast(toast.Toast{
		Kind:        toast.Error,
		Title:       "Could not load " + strings.ToLower(msg.view.Title()),
		Description: api.Message(msg.err),
	})
}

// handleMutation reports a finished mutation and refreshes affected lists.
func (m Model) handleMutation(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.modal != nil {
		next, cmd := m.updateModal(msg)
		m = next.(Model)
		cmds = append(cmds, cmd)
	}

	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("view", msg.view.String()).Msg(msg.failure)
		cmds = append(cmds, m.pushToast(toast.Toast{Kind: toast.Error, Title: msg.failure, Description: api.Message(msg.err)}))
		return m, tea.Batch(cmds...)
	}

	m.log.Info().Str("view", msg.view.String()).Str("detail", msg.detail).Msg(msg.success)
	cmds = append(cmds, m.pushToast(toast.Toast{Kind: toast.Success, Title: msg.success, Description: msg.detail}))
	if l := m.lists[msg.view]; l != nil {
		cmds = append(cmds, l.reload())
	}
	for _, v := range msg.affects {
		if l := m.lists[v]; l != nil && l.started() && v != msg.view {
			cmds = append(cmds, l.reload())
		}
	}
	return m, tea.Batch(cmds...)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.toasts.Prune(m.now()) > 0 {
		m.log.Debug().Msg("pruned expired toasts")
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := m.prefs
	p.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs")
	}
}

func nextPageSize(current int) int {
	for i, size := range pageSizes {
		if size == current {
			return pageSizes[(i+1)%len(pageSizes)]
		}
	}
	return pageSizes[0]
}

// renderMain renders header, command bar, the active view and toasts.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	visible := m.toasts.Visible(m.now())
	contentHeight := max(m.height-2-len(visible), 3)
	b.WriteString(m.renderContent(contentHeight))

	if len(visible) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderToasts(visible))
	}
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent(height int) string {
	if m.currentView == ViewMonitor {
		return m.renderMonitor(m.width, height)
	}
	if l := m.activeList(); l != nil {
		return l.render(m.theme, m.width, height, m.now())
	}
	return ""
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
