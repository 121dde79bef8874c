package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

// API paths.
const (
	PathOrders       = "/api/admin/orders"
	PathDevices      = "/api/admin/devices"
	PathReassign     = "/api/admin/devices/reassign"
	PathDeviceGroups = "/api/admin/device-groups"
	PathVenues       = "/api/admin/venues"
	PathDailyReports = "/api/admin/reports/daily"
	PathOverview     = "/api/admin/monitor/overview"
	PathHealth       = "/api/health"
)

// Monitor fetches the data the background poller keeps current.
// Implemented by *Client.
type Monitor interface {
	Health(ctx context.Context) (Health, error)
	Overview(ctx context.Context) (Overview, error)
}

var _ Monitor = (*Client)(nil)

// ListOrders fetches one page of orders.
func (c *Client) ListOrders(ctx context.Context, f OrderFilter, p query.Pagination) (query.Page[Order], error) {
	return list[Order](ctx, c, PathOrders, f, p)
}

// GetOrder fetches a single order by its order number.
func (c *Client) GetOrder(ctx context.Context, orderNo string) (Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return Order{}, errors.New("order number required")
	}
	return call[Order](ctx, c, PathOrders+"/"+url.PathEscape(orderNo), RequestOptions{})
}

// ListDevices fetches one page of devices.
func (c *Client) ListDevices(ctx context.Context, f DeviceFilter, p query.Pagination) (query.Page[Device], error) {
	return list[Device](ctx, c, PathDevices, f, p)
}

// ReassignDevices moves devices into another group in bulk.
func (c *Client) ReassignDevices(ctx context.Context, in form.Valid[form.ReassignInput]) (ReassignResult, error) {
	return call[ReassignResult](ctx, c, PathReassign, RequestOptions{Method: http.MethodPost, Body: in.Value()})
}

// ListDeviceGroups fetches one page of device groups.
func (c *Client) ListDeviceGroups(ctx context.Context, f DeviceGroupFilter, p query.Pagination) (query.Page[DeviceGroup], error) {
	return list[DeviceGroup](ctx, c, PathDeviceGroups, f, p)
}

// CreateDeviceGroup creates a device group.
func (c *Client) CreateDeviceGroup(ctx context.Context, in form.Valid[form.DeviceGroupInput]) (DeviceGroup, error) {
	return call[DeviceGroup](ctx, c, PathDeviceGroups, RequestOptions{Method: http.MethodPost, Body: in.Value()})
}

// DeleteDeviceGroup removes an empty device group.
func (c *Client) DeleteDeviceGroup(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("device group id required")
	}
	_, err := call[struct{}](ctx, c, PathDeviceGroups+"/"+strconv.FormatInt(id, 10), RequestOptions{Method: http.MethodDelete})
	return err
}

// ListVenues fetches one page of venues.
func (c *Client) ListVenues(ctx context.Context, f VenueFilter, p query.Pagination) (query.Page[Venue], error) {
	return list[Venue](ctx, c, PathVenues, f, p)
}

// CreateVenue creates a venue.
func (c *Client) CreateVenue(ctx context.Context, in form.Valid[form.VenueInput]) (Venue, error) {
	return call[Venue](ctx, c, PathVenues, RequestOptions{Method: http.MethodPost, Body: in.Value()})
}

// UpdateVenue replaces a venue's editable fields.
func (c *Client) UpdateVenue(ctx context.Context, id int64, in form.Valid[form.VenueInput]) (Venue, error) {
	if id <= 0 {
		return Venue{}, errors.New("venue id required")
	}
	return call[Venue](ctx, c, PathVenues+"/"+strconv.FormatInt(id, 10), RequestOptions{Method: http.MethodPut, Body: in.Value()})
}

// DeleteVenue removes a venue without devices.
func (c *Client) DeleteVenue(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("venue id required")
	}
	_, err := call[struct{}](ctx, c, PathVenues+"/"+strconv.FormatInt(id, 10), RequestOptions{Method: http.MethodDelete})
	return err
}

// ListDailyReports fetches one page of per-venue daily reports.
func (c *Client) ListDailyReports(ctx context.Context, f ReportFilter, p query.Pagination) (query.Page[DailyReport], error) {
	return list[DailyReport](ctx, c, PathDailyReports, f, p)
}

// Overview fetches the monitoring summary.
func (c *Client) Overview(ctx context.Context) (Overview, error) {
	if c == nil {
		return Overview{}, errors.New("client is nil")
	}
	return call[Overview](ctx, c, PathOverview, RequestOptions{})
}

// Health fetches the API health probe.
func (c *Client) Health(ctx context.Context) (Health, error) {
	if c == nil {
		return Health{}, errors.New("client is nil")
	}
	return call[Health](ctx, c, PathHealth, RequestOptions{})
}
