package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kiosk/internal/query"
)

// lister is the part of a list view the model drives without knowing its
// filter and record types.
type lister interface {
	view() View
	started() bool
	load() tea.Cmd
	reload() tea.Cmd
	editing() bool
	handleKey(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool)
	debounced(seq uint64) tea.Cmd
	resolved()
	setPageSize(size int) tea.Cmd
	pageSize() int
	render(theme Theme, width, height int, now time.Time) string
}

// listResultMsg carries a finished fetch back to Update. apply resolves it
// into the synchronizer and reports whether it was still current.
type listResultMsg struct {
	view   View
	ticket uint64
	err    error
	apply  func() bool
}

// debounceMsg fires after typing pauses in a filter field. Only the most
// recent seq for a view triggers a fetch.
type debounceMsg struct {
	view View
	seq  uint64
}

// listConfig describes one list view.
type listConfig[F comparable, R any] struct {
	id       View
	fetch    query.FetchFunc[F, R]
	fields   []filterField
	build    func(filterValues) F
	columns  []column[R]
	keyOf    func(R) string
	markable bool
}

// listView binds a query synchronizer to a filter bar and a table.
type listView[F comparable, R any] struct {
	id       View
	ctx      context.Context
	sync     *query.Synchronizer[F, R]
	fields   []filterField
	build    func(filterValues) F
	columns  []column[R]
	keyOf    func(R) string
	markable bool

	selected  int
	focus     int // index of the filter field being edited, -1 for the table
	seq       uint64
	loaded    bool
	marks     map[string]R
	markOrder []string
}

func newListView[F comparable, R any](ctx context.Context, cfg listConfig[F, R], opts query.Options) *listView[F, R] {
	if ctx == nil {
		ctx = context.Background()
	}
	l := &listView[F, R]{
		id:       cfg.id,
		ctx:      ctx,
		sync:     query.New(cfg.fetch, opts),
		fields:   cfg.fields,
		build:    cfg.build,
		columns:  cfg.columns,
		keyOf:    cfg.keyOf,
		markable: cfg.markable,
		focus:    -1,
		marks:    make(map[string]R),
	}
	l.sync.Configure(l.build(valuesOf(l.fields)), query.Pagination{Page: 1, PageSize: opts.PageSize})
	return l
}

func (l *listView[F, R]) view() View { return l.id }

func (l *listView[F, R]) started() bool { return l.loaded }

func (l *listView[F, R]) editing() bool { return l.focus >= 0 }

func (l *listView[F, R]) pageSize() int { return l.sync.Snapshot().Pagination.PageSize }

// load applies the filter bar and fetches.
func (l *listView[F, R]) load() tea.Cmd {
	st := l.sync.Snapshot()
	l.sync.Configure(l.build(valuesOf(l.fields)), st.Pagination)
	return l.issue()
}

// reload fetches again with the configured parameters.
func (l *listView[F, R]) reload() tea.Cmd {
	return l.issue()
}

func (l *listView[F, R]) issue() tea.Cmd {
	l.loaded = true
	req := l.sync.Issue()
	syncer, id, ctx := l.sync, l.id, l.ctx
	return func() tea.Msg {
		res := syncer.Run(ctx, req)
		return listResultMsg{
			view:   id,
			ticket: req.Ticket,
			err:    res.Err,
			apply:  func() bool { return syncer.Apply(res) },
		}
	}
}

func (l *listView[F, R]) debounced(seq uint64) tea.Cmd {
	if seq != l.seq {
		return nil
	}
	return l.load()
}

// resolved keeps the selection inside the freshly applied page.
func (l *listView[F, R]) resolved() {
	n := len(l.sync.Snapshot().Items)
	if l.selected >= n {
		l.selected = n - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *listView[F, R]) setPageSize(size int) tea.Cmd {
	st := l.sync.Snapshot()
	l.sync.Configure(st.Filters, query.Pagination{Page: 1, PageSize: size})
	l.selected = 0
	return l.issue()
}

func (l *listView[F, R]) turnPage(delta int) tea.Cmd {
	st := l.sync.Snapshot()
	target := st.Pagination.Page + delta
	if target < 1 || target > max(st.TotalPages, 1) {
		return nil
	}
	l.sync.Configure(st.Filters, query.Pagination{Page: target, PageSize: st.Pagination.PageSize})
	l.selected = 0
	return l.issue()
}

func (l *listView[F, R]) handleKey(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	if l.editing() {
		return l.handleFilterKey(msg, keys), true
	}

	count := len(l.sync.Snapshot().Items)
	switch {
	case key.Matches(msg, keys.Filter):
		if len(l.fields) == 0 {
			return nil, false
		}
		return l.focusField(0), true
	case key.Matches(msg, keys.ClearFilters):
		for i := range l.fields {
			l.fields[i].input.SetValue("")
		}
		l.seq++
		return l.load(), true
	case key.Matches(msg, keys.Refresh):
		return l.reload(), true
	case key.Matches(msg, keys.NextPage):
		return l.turnPage(1), true
	case key.Matches(msg, keys.PrevPage):
		return l.turnPage(-1), true
	case key.Matches(msg, keys.Down):
		if l.selected < count-1 {
			l.selected++
		}
		return nil, true
	case key.Matches(msg, keys.Up):
		if l.selected > 0 {
			l.selected--
		}
		return nil, true
	case key.Matches(msg, keys.Top):
		l.selected = 0
		return nil, true
	case key.Matches(msg, keys.Bottom):
		l.selected = max(count-1, 0)
		return nil, true
	case key.Matches(msg, keys.Mark):
		if !l.markable {
			return nil, false
		}
		l.toggleMark()
		return nil, true
	}
	return nil, false
}

func (l *listView[F, R]) handleFilterKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Escape):
		l.blur()
		return nil
	case key.Matches(msg, keys.Confirm):
		l.blur()
		l.seq++
		return l.load()
	case key.Matches(msg, keys.NextField):
		return l.focusField((l.focus + 1) % len(l.fields))
	case key.Matches(msg, keys.PrevField):
		return l.focusField((l.focus + len(l.fields) - 1) % len(l.fields))
	}

	field := &l.fields[l.focus]
	before := field.input.Value()
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	if field.input.Value() == before {
		return cmd
	}
	l.seq++
	seq, id := l.seq, l.id
	return tea.Batch(cmd, tea.Tick(FilterDebounce, func(time.Time) tea.Msg {
		return debounceMsg{view: id, seq: seq}
	}))
}

func (l *listView[F, R]) focusField(i int) tea.Cmd {
	l.blur()
	l.focus = i
	l.fields[i].input.CursorEnd()
	l.fields[i].input.Focus()
	return textinput.Blink
}

func (l *listView[F, R]) blur() {
	if l.focus >= 0 && l.focus < len(l.fields) {
		l.fields[l.focus].input.Blur()
	}
	l.focus = -1
}

func (l *listView[F, R]) selectedItem() (R, bool) {
	items := l.sync.Snapshot().Items
	if l.selected < 0 || l.selected >= len(items) {
		var zero R
		return zero, false
	}
	return items[l.selected], true
}

func (l *listView[F, R]) toggleMark() {
	item, ok := l.selectedItem()
	if !ok {
		return
	}
	k := l.keyOf(item)
	if _, marked := l.marks[k]; marked {
		delete(l.marks, k)
		for i, existing := range l.markOrder {
			if existing == k {
				l.markOrder = append(l.markOrder[:i], l.markOrder[i+1:]...)
				break
			}
		}
		return
	}
	l.marks[k] = item
	l.markOrder = append(l.markOrder, k)
}

func (l *listView[F, R]) marked() []R {
	out := make([]R, 0, len(l.markOrder))
	for _, k := range l.markOrder {
		out = append(out, l.marks[k])
	}
	return out
}

func (l *listView[F, R]) clearMarks() {
	clear(l.marks)
	l.markOrder = nil
}

func (l *listView[F, R]) render(theme Theme, width, height int, now time.Time) string {
	st := l.sync.Snapshot()
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)

	title := l.id.Title()
	switch {
	case st.Loading():
		title += " · loading"
	case st.Status == query.StatusSuccess:
		title += fmt.Sprintf(" · %s total", formatCount(int64(st.Total)))
	}

	table := renderTable(theme, tableSpec[R]{
		columns:  l.columns,
		items:    st.Items,
		selected: l.selected,
		marks:    l.marks,
		keyOf:    l.keyOf,
		markable: l.markable,
		focused:  !l.editing(),
		empty:    emptyMessage(st.Status, st.Err),
	}, width-2, height-4, now)

	pager := []string{
		bg.Render(fmt.Sprintf("Page %d of %d", st.Pagination.Page, max(st.TotalPages, 1)), styles.Text),
		bg.Render(fmt.Sprintf("%d per page", st.Pagination.PageSize), styles.MutedText),
	}
	if !st.UpdatedAt.IsZero() {
		pager = append(pager, bg.Render("updated "+relativeTime(st.UpdatedAt, now), styles.MutedText))
	}
	if n := len(l.markOrder); n > 0 {
		pager = append(pager, bg.Render(fmt.Sprintf("%d marked", n), styles.AccentText))
	}
	if st.Err != "" {
		pager = append(pager, bg.Render("! "+st.Err+" (r to retry)", styles.DangerText))
	}

	return renderFilterBar(theme, l.fields, l.focus, width) + "\n" +
		renderTitledBox(theme, title, table, width, height-2, !l.editing()) + "\n" +
		bg.FillLine(bg.Join(pager, " · "), width)
}

func emptyMessage(status query.Status, errMsg string) string {
	switch status {
	case query.StatusIdle, query.StatusLoading:
		return "Loading..."
	case query.StatusError:
		return "Could not load: " + errMsg
	default:
		return "No records match the filters"
	}
}
