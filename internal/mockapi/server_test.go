package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

var fixedNow = time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local)

func newTestServer(t *testing.T, opts Options) (*Server, *api.Client) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	srv := New(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := api.NewClient(ts.URL, api.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	return srv, c
}

func TestServer_FixturesAreDeterministic(t *testing.T) {
	a := New(Options{Seed: 42, Now: func() time.Time { return fixedNow }})
	b := New(Options{Seed: 42, Now: func() time.Time { return fixedNow }})

	assert.Equal(t, a.orders, b.orders)
	assert.Equal(t, a.devices, b.devices)
	assert.Len(t, a.venues, 4)
	assert.Len(t, a.groups, 6)
	assert.Len(t, a.devices, 40)
	assert.Len(t, a.orders, 120)
}

func TestServer_ListOrdersPages(t *testing.T) {
	_, c := newTestServer(t, Options{})
	ctx := context.Background()

	first, err := c.ListOrders(ctx, api.OrderFilter{}, query.Pagination{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, first.Items, 50)
	assert.Equal(t, 120, first.Total)
	assert.Equal(t, 3, first.TotalPages)

	last, err := c.ListOrders(ctx, api.OrderFilter{}, query.Pagination{Page: 3, PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, last.Items, 20)
	assert.NotEqual(t, first.Items[0].OrderNo, last.Items[0].OrderNo)

	beyond, err := c.ListOrders(ctx, api.OrderFilter{}, query.Pagination{Page: 9, PageSize: 50})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 9, beyond.Page)
}

func TestServer_ListOrdersFilters(t *testing.T) {
	srv, c := newTestServer(t, Options{})
	ctx := context.Background()

	userID := srv.orders[0].UserID
	page, err := c.ListOrders(ctx, api.OrderFilter{UserID: userID}, query.Pagination{Page: 1, PageSize: 100})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	for _, o := range page.Items {
		assert.Equal(t, userID, o.UserID)
		assert.NotEmpty(t, o.VenueName)
	}

	start := fixedNow.AddDate(0, 0, -2)
	page, err = c.ListOrders(ctx, api.OrderFilter{StartTime: start}, query.Pagination{Page: 1, PageSize: 100})
	require.NoError(t, err)
	for _, o := range page.Items {
		assert.False(t, o.ParsedCreatedAt().Before(start), "order %s created %s", o.OrderNo, o.CreatedAt)
	}
}

func TestServer_GetOrder(t *testing.T) {
	srv, c := newTestServer(t, Options{})
	want := srv.orders[5]

	got, err := c.GetOrder(context.Background(), want.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, want.OrderNo, got.OrderNo)

	_, err = c.GetOrder(context.Background(), "ORD-MISSING")
	require.Error(t, err)
	assert.Equal(t, "order not found", api.Message(err))
}

func TestServer_InvalidFilterIsRejected(t *testing.T) {
	_, c := newTestServer(t, Options{})

	var env api.PagedEnvelope[api.Order]
	err := c.Request(context.Background(), api.PathOrders, api.RequestOptions{Query: map[string][]string{"user_id": {"abc"}}}, &env)
	require.Error(t, err)
	assert.Contains(t, api.Message(err), "invalid filter")
}

func TestServer_VenueLifecycle(t *testing.T) {
	_, c := newTestServer(t, Options{})
	ctx := context.Background()

	in, errs := form.Validate(form.VenueInput{Name: "Airport T3", City: "Shenzhen"})
	require.Nil(t, errs)
	venue, err := c.CreateVenue(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), venue.ID)

	_, err = c.CreateVenue(ctx, in)
	require.Error(t, err)
	assert.Equal(t, "venue name already exists", api.Message(err))

	update, errs := form.Validate(form.VenueInput{Name: "Airport T3", City: "Shenzhen", Contact: "400-1"})
	require.Nil(t, errs)
	updated, err := c.UpdateVenue(ctx, venue.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "400-1", updated.Contact)

	require.NoError(t, c.DeleteVenue(ctx, venue.ID))

	err = c.DeleteVenue(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, "venue still has devices", api.Message(err))
}

func TestServer_ReassignDevices(t *testing.T) {
	srv, c := newTestServer(t, Options{})
	ctx := context.Background()

	groupIn, errs := form.Validate(form.DeviceGroupInput{Name: "Pop-up", VenueID: 2})
	require.Nil(t, errs)
	group, err := c.CreateDeviceGroup(ctx, groupIn)
	require.NoError(t, err)
	assert.Zero(t, group.DeviceCount)

	ids := []int64{srv.devices[0].ID, srv.devices[1].ID}
	in, errs := form.Validate(form.ReassignInput{DeviceIDs: ids, GroupID: group.ID})
	require.Nil(t, errs)
	res, err := c.ReassignDevices(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Moved)

	page, err := c.ListDevices(ctx, api.DeviceFilter{GroupID: group.ID}, query.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, d := range page.Items {
		assert.Equal(t, int64(2), d.VenueID)
		assert.Equal(t, "Pop-up", d.GroupName)
	}

	err = c.DeleteDeviceGroup(ctx, group.ID)
	require.Error(t, err)
	assert.Equal(t, "device group still has devices", api.Message(err))
}

func TestServer_ReportsAndOverview(t *testing.T) {
	_, c := newTestServer(t, Options{})
	ctx := context.Background()

	page, err := c.ListDailyReports(ctx, api.ReportFilter{VenueID: 1}, query.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 30, page.Total)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, fixedNow.Format("2006-01-02"), page.Items[0].Date)
	assert.Equal(t, "Harbour Plaza", page.Items[0].VenueName)

	ov, err := c.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, ov.DevicesTotal())

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestServer_SynchronizerClampsAgainstShrinkingResults(t *testing.T) {
	_, c := newTestServer(t, Options{})

	s := query.New(c.ListOrders, query.Options{PageSize: 50, ErrorMessage: api.Message})
	s.Configure(api.OrderFilter{}, query.Pagination{Page: 3, PageSize: 50})
	require.True(t, s.Refresh(context.Background()))
	require.Equal(t, 3, s.Snapshot().Pagination.Page)

	s.Configure(api.OrderFilter{}, query.Pagination{Page: 3, PageSize: 100})
	require.True(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, query.StatusSuccess, snap.Status)
	assert.Equal(t, 2, snap.TotalPages)
	assert.Equal(t, 2, snap.Pagination.Page)
}
