package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

var errBoom = errors.New("boom")

// fakeBackend serves fixed records from memory.
type fakeBackend struct {
	mu         sync.Mutex
	orders     []api.Order
	devices    []api.Device
	groups     []api.DeviceGroup
	venues     []api.Venue
	listErr    error
	mutateErr  error
	calls      map[string]int
	reassigned form.ReassignInput
	deleted    []int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		orders: []api.Order{
			{OrderNo: "ORD-1", UserName: "ann", Status: api.OrderPaid, Amount: 1200, CreatedAt: "2026-10-17 09:00:00"},
			{OrderNo: "ORD-2", UserName: "bo", Status: api.OrderFinished, Amount: 800, CreatedAt: "2026-10-17 09:30:00"},
			{OrderNo: "ORD-3", UserName: "cy", Status: api.OrderRefunded, Amount: 500, CreatedAt: "2026-10-16 18:00:00"},
		},
		devices: []api.Device{
			{ID: 1, SN: "SN0001", GroupID: 1, GroupName: "Lobby", Status: api.DeviceOnline, Battery: 90},
			{ID: 2, SN: "SN0002", GroupID: 1, GroupName: "Lobby", Status: api.DeviceOffline, Battery: 12},
			{ID: 3, SN: "SN0003", GroupID: 2, GroupName: "Hall", Status: api.DeviceFault},
		},
		groups: []api.DeviceGroup{
			{ID: 1, Name: "Lobby", VenueID: 1, VenueName: "Harbour", DeviceCount: 2},
			{ID: 2, Name: "Hall", VenueID: 1, VenueName: "Harbour", DeviceCount: 1},
		},
		venues: []api.Venue{
			{ID: 1, Name: "Harbour", City: "Shanghai", DeviceCount: 3},
			{ID: 2, Name: "Riverside", City: "Hangzhou"},
		},
		calls: make(map[string]int),
	}
}

func pageOf[T any](items []T, p query.Pagination) query.Page[T] {
	p = p.Normalize(query.DefaultPageSize)
	start := min((p.Page-1)*p.PageSize, len(items))
	end := min(start+p.PageSize, len(items))
	return query.Page[T]{
		Items:      append([]T(nil), items[start:end]...),
		Total:      len(items),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: (len(items) + p.PageSize - 1) / p.PageSize,
	}
}

func (f *fakeBackend) record(name string) {
	f.calls[name]++
}

func (f *fakeBackend) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListOrders(_ context.Context, flt api.OrderFilter, p query.Pagination) (query.Page[api.Order], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListOrders")
	if f.listErr != nil {
		return query.Page[api.Order]{}, f.listErr
	}
	var out []api.Order
	for _, o := range f.orders {
		if flt.OrderNo != "" && !strings.Contains(o.OrderNo, flt.OrderNo) {
			continue
		}
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		out = append(out, o)
	}
	return pageOf(out, p), nil
}

func (f *fakeBackend) GetOrder(_ context.Context, orderNo string) (api.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetOrder")
	for _, o := range f.orders {
		if o.OrderNo == orderNo {
			o.Remark = "fetched"
			return o, nil
		}
	}
	return api.Order{}, &api.EnvelopeError{Code: "40401", Message: "order not found"}
}

func (f *fakeBackend) ListDevices(_ context.Context, _ api.DeviceFilter, p query.Pagination) (query.Page[api.Device], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListDevices")
	if f.listErr != nil {
		return query.Page[api.Device]{}, f.listErr
	}
	return pageOf(f.devices, p), nil
}

func (f *fakeBackend) ReassignDevices(_ context.Context, in form.Valid[form.ReassignInput]) (api.ReassignResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReassignDevices")
	if f.mutateErr != nil {
		return api.ReassignResult{}, f.mutateErr
	}
	f.reassigned = in.Value()
	return api.ReassignResult{Moved: len(in.Value().DeviceIDs)}, nil
}

func (f *fakeBackend) ListDeviceGroups(_ context.Context, _ api.DeviceGroupFilter, p query.Pagination) (query.Page[api.DeviceGroup], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListDeviceGroups")
	if f.listErr != nil {
		return query.Page[api.DeviceGroup]{}, f.listErr
	}
	return pageOf(f.groups, p), nil
}

func (f *fakeBackend) CreateDeviceGroup(_ context.Context, in form.Valid[form.DeviceGroupInput]) (api.DeviceGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateDeviceGroup")
	if f.mutateErr != nil {
		return api.DeviceGroup{}, f.mutateErr
	}
	v := in.Value()
	g := api.DeviceGroup{ID: int64(len(f.groups) + 1), Name: v.Name, VenueID: v.VenueID, Description: v.Description}
	f.groups = append(f.groups, g)
	return g, nil
}

func (f *fakeBackend) DeleteDeviceGroup(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteDeviceGroup")
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListVenues(_ context.Context, _ api.VenueFilter, p query.Pagination) (query.Page[api.Venue], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListVenues")
	if f.listErr != nil {
		return query.Page[api.Venue]{}, f.listErr
	}
	return pageOf(f.venues, p), nil
}

func (f *fakeBackend) CreateVenue(_ context.Context, in form.Valid[form.VenueInput]) (api.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateVenue")
	if f.mutateErr != nil {
		return api.Venue{}, f.mutateErr
	}
	v := in.Value()
	venue := api.Venue{ID: int64(len(f.venues) + 1), Name: v.Name, City: v.City, Address: v.Address, Contact: v.Contact}
	f.venues = append(f.venues, venue)
	return venue, nil
}

func (f *fakeBackend) UpdateVenue(_ context.Context, id int64, in form.Valid[form.VenueInput]) (api.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateVenue")
	if f.mutateErr != nil {
		return api.Venue{}, f.mutateErr
	}
	v := in.Value()
	for i := range f.venues {
		if f.venues[i].ID == id {
			f.venues[i].Name, f.venues[i].City = v.Name, v.City
			return f.venues[i], nil
		}
	}
	return api.Venue{}, &api.EnvelopeError{Code: "40401", Message: "venue not found"}
}

func (f *fakeBackend) DeleteVenue(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteVenue")
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListDailyReports(_ context.Context, _ api.ReportFilter, p query.Pagination) (query.Page[api.DailyReport], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListDailyReports")
	if f.listErr != nil {
		return query.Page[api.DailyReport]{}, f.listErr
	}
	return pageOf([]api.DailyReport{{Date: "2026-10-16", VenueID: 1, VenueName: "Harbour", Orders: 4, Revenue: 9900}}, p), nil
}

func (f *fakeBackend) set(fn func(*fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// testClock is a settable clock for toasts and timestamps.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestModel(t *testing.T, b Backend, start View) (Model, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 10, 17, 10, 0, 0, 0, time.Local)}
	m := New(Options{
		Client:    b,
		Logger:    zerolog.Nop(),
		PageSize:  10,
		StartView: start.String(),
		Now:       clock.now,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), clock
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends one key and returns the updated model and command.
func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

// deliver runs cmd and feeds the message it returns back into the model.
// Commands that batch or tick are not run.
func deliver(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("deliver: nil command")
	}
	next, out := m.Update(cmd())
	return next.(Model), out
}
