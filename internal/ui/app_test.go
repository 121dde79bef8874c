package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/confirm"
	"github.com/five82/kiosk/internal/query"
	"github.com/five82/kiosk/internal/toast"
)

func TestModel_StaleListResultIsDropped(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)

	first := m.orders.load()
	m.orders.fields[0].input.SetValue("ORD-2")
	second := m.orders.load()

	// The newer request resolves first.
	m, _ = deliver(t, m, second)
	st := m.orders.sync.Snapshot()
	if st.Status != query.StatusSuccess || len(st.Items) != 1 || st.Items[0].OrderNo != "ORD-2" {
		t.Fatalf("after current result: status=%v items=%v, want ORD-2 only", st.Status, st.Items)
	}

	m, cmd := deliver(t, m, first)
	if cmd != nil {
		t.Fatalf("stale result returned a command")
	}
	st = m.orders.sync.Snapshot()
	if len(st.Items) != 1 || st.Items[0].OrderNo != "ORD-2" {
		t.Fatalf("stale result overwrote items: %v", st.Items)
	}
	if m.toasts.Len() != 0 {
		t.Fatalf("toasts = %d, want 0", m.toasts.Len())
	}
}

func TestModel_ListErrorKeepsItemsAndRaisesToast(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)

	m, _ = deliver(t, m, m.orders.load())
	if n := len(m.orders.sync.Snapshot().Items); n != 3 {
		t.Fatalf("items = %d, want 3", n)
	}

	fb.set(func(f *fakeBackend) { f.listErr = &api.EnvelopeError{Code: "50001", Message: "database unavailable"} })
	m, cmd := deliver(t, m, m.orders.reload())
	if cmd == nil {
		t.Fatalf("expected toast expiry command")
	}

	st := m.orders.sync.Snapshot()
	if st.Status != query.StatusError || st.Err != "database unavailable" {
		t.Fatalf("state = %v %q, want error with envelope message", st.Status, st.Err)
	}
	if len(st.Items) != 3 {
		t.Fatalf("items after failure = %d, want previous 3 kept", len(st.Items))
	}
	visible := m.toasts.Visible(m.now())
	if len(visible) != 1 || visible[0].Kind != toast.Error || visible[0].Description != "database unavailable" {
		t.Fatalf("toasts = %+v, want one error toast", visible)
	}
}

func TestModel_SwitchViewLoadsOnce(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)

	m, cmd := press(t, m, "2")
	if m.currentView != ViewDevices {
		t.Fatalf("currentView = %v, want devices", m.currentView)
	}
	if cmd == nil {
		t.Fatalf("first visit should fetch")
	}
	m, _ = deliver(t, m, cmd)

	m, _ = press(t, m, "1")
	m, cmd = press(t, m, "2")
	if cmd != nil {
		t.Fatalf("second visit fetched again")
	}
	if got := fb.callCount("ListDevices"); got != 1 {
		t.Fatalf("ListDevices calls = %d, want 1", got)
	}
	if m.prefs.LastView != "devices" {
		t.Fatalf("prefs.LastView = %q, want devices", m.prefs.LastView)
	}
}

func TestModel_FilterTypingDebounces(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, _ = deliver(t, m, m.orders.load())

	m, _ = press(t, m, "/")
	if !m.orders.editing() {
		t.Fatalf("expected filter editing after /")
	}
	// Keys go to the filter while editing, so "q" does not quit.
	m, _ = press(t, m, "O")
	m, _ = press(t, m, "q")
	if got := m.orders.fields[0].input.Value(); got != "Oq" {
		t.Fatalf("order_no input = %q, want Oq", got)
	}

	seq := m.orders.seq
	if cmd := m.orders.debounced(seq - 1); cmd != nil {
		t.Fatalf("superseded debounce fetched")
	}
	next, cmd := m.Update(debounceMsg{view: ViewOrders, seq: seq})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("latest debounce did not fetch")
	}
	if got := m.orders.sync.Snapshot().Filters.OrderNo; got != "Oq" {
		t.Fatalf("configured OrderNo = %q, want Oq", got)
	}

	m, _ = press(t, m, "esc")
	if m.orders.editing() {
		t.Fatalf("esc should leave the filter bar")
	}
}

func TestModel_InvalidFilterTextIsAbsent(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)

	set := map[string]string{"user_id": "abc", "status": "PAID", "start_time": "yesterday", "venue_id": "-3"}
	for i := range m.orders.fields {
		if v, ok := set[m.orders.fields[i].key]; ok {
			m.orders.fields[i].input.SetValue(v)
		}
	}
	f := m.orders.build(valuesOf(m.orders.fields))
	if f.UserID != 0 || f.VenueID != 0 || !f.StartTime.IsZero() {
		t.Fatalf("invalid values leaked into filter: %+v", f)
	}
	if f.Status != api.OrderPaid {
		t.Fatalf("Status = %q, want %q", f.Status, api.OrderPaid)
	}
	for _, field := range m.orders.fields {
		wantValid := field.key == "status" || set[field.key] == ""
		if field.valid() != wantValid {
			t.Fatalf("field %s valid = %v, want %v", field.key, field.valid(), wantValid)
		}
	}
}

func TestModel_PagingAndPageSize(t *testing.T) {
	fb := newFakeBackend()
	for i := 0; i < 25; i++ {
		fb.orders = append(fb.orders, api.Order{OrderNo: "BULK", Status: api.OrderPaid})
	}
	m, _ := newTestModel(t, fb, ViewOrders)
	m, _ = deliver(t, m, m.orders.load())

	st := m.orders.sync.Snapshot()
	if st.TotalPages != 3 || !st.HasNext() || st.HasPrev() {
		t.Fatalf("page 1: total=%d next=%v prev=%v", st.TotalPages, st.HasNext(), st.HasPrev())
	}

	m, cmd := press(t, m, "]")
	m, _ = deliver(t, m, cmd)
	if got := m.orders.sync.Snapshot().Pagination.Page; got != 2 {
		t.Fatalf("page after ] = %d, want 2", got)
	}

	m, cmd = press(t, m, "z")
	m, _ = deliver(t, m, cmd)
	st = m.orders.sync.Snapshot()
	if st.Pagination.Page != 1 || st.Pagination.PageSize != 20 {
		t.Fatalf("after z: page=%d size=%d, want 1/20", st.Pagination.Page, st.Pagination.PageSize)
	}
	if m.prefs.PageSize != 20 {
		t.Fatalf("prefs.PageSize = %d, want 20", m.prefs.PageSize)
	}

	m, cmd = press(t, m, "[")
	if cmd != nil {
		t.Fatalf("[ on the first page should not fetch")
	}
}

func TestModel_DeleteGateLocksWhileSubmitting(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, cmd := press(t, m, "4")
	m, _ = deliver(t, m, cmd)

	m, _ = press(t, m, "x")
	modal, ok := m.modal.(*deleteModal)
	if !ok {
		t.Fatalf("modal = %T, want *deleteModal", m.modal)
	}
	if snap := modal.gate.Snapshot(); snap.Phase != confirm.Confirming || !strings.Contains(snap.Prompt, "Harbour") {
		t.Fatalf("gate = %+v, want confirming Harbour", snap)
	}

	fb.set(func(f *fakeBackend) { f.mutateErr = &api.EnvelopeError{Code: "40902", Message: "venue still has devices"} })
	m, submit := press(t, m, "y")
	if submit == nil {
		t.Fatalf("y should submit")
	}

	m, _ = press(t, m, "esc")
	if m.modal == nil {
		t.Fatalf("esc closed a locked gate")
	}
	if _, again := press(t, m, "y"); again != nil {
		t.Fatalf("second submit while locked returned a command")
	}

	m, _ = deliver(t, m, submit)
	if m.modal == nil {
		t.Fatalf("failed delete closed the gate")
	}
	if snap := modal.gate.Snapshot(); snap.Phase != confirm.Confirming || snap.Err != "venue still has devices" {
		t.Fatalf("gate after failure = %+v", snap)
	}
	if got := fb.callCount("DeleteVenue"); got != 1 {
		t.Fatalf("DeleteVenue calls = %d, want 1", got)
	}

	fb.set(func(f *fakeBackend) { f.mutateErr = nil })
	m, submit = press(t, m, "y")
	m, _ = deliver(t, m, submit)
	if m.modal != nil {
		t.Fatalf("successful delete left the gate open")
	}
	if len(fb.deleted) != 1 || fb.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", fb.deleted)
	}
	visible := m.toasts.Visible(m.now())
	if len(visible) != 2 || visible[1].Kind != toast.Success {
		t.Fatalf("toasts = %+v, want error then success", visible)
	}
}

func TestModel_VenueFormValidatesBeforeSubmitting(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, cmd := press(t, m, "4")
	m, _ = deliver(t, m, cmd)

	m, _ = press(t, m, "a")
	f, ok := m.modal.(*formModal)
	if !ok {
		t.Fatalf("modal = %T, want *formModal", m.modal)
	}
	m, _ = press(t, m, "enter")
	if f.submitting {
		t.Fatalf("blank form submitted")
	}
	if f.errs["name"] == "" || f.errs["city"] == "" {
		t.Fatalf("errs = %v, want name and city", f.errs)
	}
	if fb.callCount("CreateVenue") != 0 {
		t.Fatalf("CreateVenue called with invalid input")
	}

	f.fields[0].input.SetValue("  Airport T2 ")
	f.fields[1].input.SetValue("Shenzhen")
	m, submit := press(t, m, "enter")
	if !f.submitting || submit == nil {
		t.Fatalf("valid form did not submit")
	}
	m, _ = press(t, m, "esc")
	if m.modal == nil {
		t.Fatalf("esc closed a submitting form")
	}

	m, _ = deliver(t, m, submit)
	if m.modal != nil {
		t.Fatalf("form stayed open after success")
	}
	last := fb.venues[len(fb.venues)-1]
	if last.Name != "Airport T2" || last.City != "Shenzhen" {
		t.Fatalf("created venue = %+v, want trimmed name", last)
	}
}

func TestModel_ReassignClearsMarksOnSuccess(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, cmd := press(t, m, "2")
	m, _ = deliver(t, m, cmd)

	m, _ = press(t, m, " ")
	m, _ = press(t, m, "j")
	m, _ = press(t, m, " ")
	if n := len(m.devices.marked()); n != 2 {
		t.Fatalf("marked = %d, want 2", n)
	}

	m, load := press(t, m, "m")
	r, ok := m.modal.(*reassignModal)
	if !ok {
		t.Fatalf("modal = %T, want *reassignModal", m.modal)
	}
	m, _ = deliver(t, m, load)
	if len(r.groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(r.groups))
	}

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "enter")
	if snap := r.gate.Snapshot(); snap.Phase != confirm.Confirming || snap.Params.group.Name != "Hall" {
		t.Fatalf("gate = %+v, want confirming Hall", snap)
	}

	m, _ = press(t, m, "n")
	if r.gate.Snapshot().Phase != confirm.Selecting {
		t.Fatalf("n should go back to selection")
	}
	m, _ = press(t, m, "enter")
	m, submit := press(t, m, "y")
	m, _ = deliver(t, m, submit)

	if m.modal != nil {
		t.Fatalf("reassign modal still open")
	}
	if len(m.devices.marked()) != 0 {
		t.Fatalf("marks not cleared after success")
	}
	if got := fb.reassigned; got.GroupID != 2 || len(got.DeviceIDs) != 2 || got.DeviceIDs[0] != 1 || got.DeviceIDs[1] != 2 {
		t.Fatalf("reassigned = %+v, want devices [1 2] to group 2", got)
	}
}

func TestModel_OrderDetailFetchesFresh(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, _ = deliver(t, m, m.orders.load())

	m, _ = press(t, m, "j")
	m, fetch := press(t, m, "enter")
	d, ok := m.modal.(*orderDetailModal)
	if !ok {
		t.Fatalf("modal = %T, want *orderDetailModal", m.modal)
	}
	if d.orderNo != "ORD-2" || !d.loading {
		t.Fatalf("detail = %s loading=%v, want ORD-2 loading", d.orderNo, d.loading)
	}

	m, _ = deliver(t, m, fetch)
	if d.loading || d.order.Remark != "fetched" {
		t.Fatalf("detail not refreshed: %+v", d.order)
	}
	if out := m.View(); !strings.Contains(out, "ORD-2") {
		t.Fatalf("detail view missing order number")
	}

	m, _ = press(t, m, "esc")
	if m.modal != nil {
		t.Fatalf("esc did not close detail")
	}
}

func TestModel_ToastsExpireOnTimer(t *testing.T) {
	fb := newFakeBackend()
	m, clock := newTestModel(t, fb, ViewOrders)

	if cmd := m.pushToast(toast.Toast{Kind: toast.Success, Title: "Saved"}); cmd == nil {
		t.Fatalf("pushToast returned no expiry command")
	}
	clock.t = clock.t.Add(m.toastDuration + time.Millisecond)

	next, _ := m.Update(toastExpiredMsg{})
	m = next.(Model)
	if m.toasts.Len() != 0 {
		t.Fatalf("toasts = %d after expiry, want 0", m.toasts.Len())
	}
}

func TestModel_DismissNewestToast(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)

	m.pushToast(toast.Toast{Kind: toast.Success, Title: "first"})
	m.pushToast(toast.Toast{Kind: toast.Success, Title: "second"})
	m, _ = press(t, m, "D")

	visible := m.toasts.Visible(m.now())
	if len(visible) != 1 || visible[0].Title != "first" {
		t.Fatalf("toasts = %+v, want only first", visible)
	}
}

func TestModel_ViewRendersEachScreen(t *testing.T) {
	fb := newFakeBackend()
	m, _ := newTestModel(t, fb, ViewOrders)
	m, _ = deliver(t, m, m.orders.load())

	if out := m.View(); !strings.Contains(out, "ORD-1") || !strings.Contains(out, "Connecting to API") {
		t.Fatalf("orders view missing rows or header:\n%s", out)
	}

	m, _ = press(t, m, "6")
	if out := m.View(); !strings.Contains(out, "waiting for first poll") {
		t.Fatalf("monitor view missing placeholder:\n%s", out)
	}

	m, _ = press(t, m, "?")
	if out := m.View(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Fatalf("help overlay missing")
	}
}

func TestNextPageSize(t *testing.T) {
	cases := map[int]int{10: 20, 20: 50, 50: 100, 100: 10, 33: 10}
	for in, want := range cases {
		if got := nextPageSize(in); got != want {
			t.Fatalf("nextPageSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestViewNavigation(t *testing.T) {
	if got := parseView(" Devices "); got != ViewDevices {
		t.Fatalf("parseView(Devices) = %v", got)
	}
	if got := parseView("nope"); got != ViewOrders {
		t.Fatalf("parseView(nope) = %v, want orders", got)
	}
	if got := ViewMonitor.next(); got != ViewOrders {
		t.Fatalf("ViewMonitor.next() = %v, want orders", got)
	}
	if got := ViewOrders.prev(); got != ViewMonitor {
		t.Fatalf("ViewOrders.prev() = %v, want monitor", got)
	}
}
