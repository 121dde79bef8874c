package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

// Backend is the admin API surface used by the console. Implemented by
// *api.Client.
type Backend interface {
	ListOrders(ctx context.Context, f api.OrderFilter, p query.Pagination) (query.Page[api.Order], error)
	GetOrder(ctx context.Context, orderNo string) (api.Order, error)
	ListDevices(ctx context.Context, f api.DeviceFilter, p query.Pagination) (query.Page[api.Device], error)
	ReassignDevices(ctx context.Context, in form.Valid[form.ReassignInput]) (api.ReassignResult, error)
	ListDeviceGroups(ctx context.Context, f api.DeviceGroupFilter, p query.Pagination) (query.Page[api.DeviceGroup], error)
	CreateDeviceGroup(ctx context.Context, in form.Valid[form.DeviceGroupInput]) (api.DeviceGroup, error)
	DeleteDeviceGroup(ctx context.Context, id int64) error
	ListVenues(ctx context.Context, f api.VenueFilter, p query.Pagination) (query.Page[api.Venue], error)
	CreateVenue(ctx context.Context, in form.Valid[form.VenueInput]) (api.Venue, error)
	UpdateVenue(ctx context.Context, id int64, in form.Valid[form.VenueInput]) (api.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error
	ListDailyReports(ctx context.Context, f api.ReportFilter, p query.Pagination) (query.Page[api.DailyReport], error)
}

var _ Backend = (*api.Client)(nil)

func idString(id int64) string {
	if id <= 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

func newOrdersView(ctx context.Context, b Backend, opts query.Options) *listView[api.OrderFilter, api.Order] {
	return newListView(ctx, listConfig[api.OrderFilter, api.Order]{
		id:    ViewOrders,
		fetch: b.ListOrders,
		fields: []filterField{
			newFilterField("order_no", "Order", fieldText),
			newFilterField("user_id", "User", fieldID),
			newFilterField("venue_id", "Venue", fieldID),
			newFilterField("status", "Status", fieldEnum, api.OrderStatuses...),
			newFilterField("start_time", "From", fieldTime),
			newFilterField("end_time", "To", fieldTime),
		},
		build: func(v filterValues) api.OrderFilter {
			return api.OrderFilter{
				OrderNo:   v.text("order_no"),
				UserID:    v.id("user_id"),
				VenueID:   v.id("venue_id"),
				Status:    v.enum("status", api.OrderStatuses...),
				StartTime: v.at("start_time"),
				EndTime:   v.at("end_time"),
			}
		},
		columns: []column[api.Order]{
			{title: "Order No", width: 18, value: func(o api.Order, _ time.Time) string { return o.OrderNo }},
			{title: "User", value: func(o api.Order, _ time.Time) string { return orDash(o.UserName) }},
			{title: "Venue", optional: true, value: func(o api.Order, _ time.Time) string { return orDash(o.VenueName) }},
			{title: "Device", width: 9, optional: true, value: func(o api.Order, _ time.Time) string { return orDash(o.DeviceSN) }},
			{
				title: "Status", width: 10,
				value: func(o api.Order, _ time.Time) string { return titleCase(o.Status) },
				color: func(t Theme, o api.Order) string { return t.StatusColor(o.Status) },
			},
			{title: "Amount", width: 11, value: func(o api.Order, _ time.Time) string { return formatMoney(o.Amount) }},
			{title: "Points", width: 7, optional: true, value: func(o api.Order, _ time.Time) string { return formatCount(o.Points) }},
			{title: "Created", width: 12, value: func(o api.Order, now time.Time) string { return formatTimestamp(o.ParsedCreatedAt(), now) }},
		},
		keyOf: func(o api.Order) string { return o.OrderNo },
	}, opts)
}

func newDevicesView(ctx context.Context, b Backend, opts query.Options) *listView[api.DeviceFilter, api.Device] {
	return newListView(ctx, listConfig[api.DeviceFilter, api.Device]{
		id:    ViewDevices,
		fetch: b.ListDevices,
		fields: []filterField{
			newFilterField("keyword", "Keyword", fieldText),
			newFilterField("venue_id", "Venue", fieldID),
			newFilterField("group_id", "Group", fieldID),
			newFilterField("status", "Status", fieldEnum, api.DeviceStatuses...),
		},
		build: func(v filterValues) api.DeviceFilter {
			return api.DeviceFilter{
				Keyword: v.text("keyword"),
				VenueID: v.id("venue_id"),
				GroupID: v.id("group_id"),
				Status:  v.enum("status", api.DeviceStatuses...),
			}
		},
		columns: []column[api.Device]{
			{title: "ID", width: 5, value: func(d api.Device, _ time.Time) string { return idString(d.ID) }},
			{title: "SN", width: 9, value: func(d api.Device, _ time.Time) string { return d.SN }},
			{title: "Name", value: func(d api.Device, _ time.Time) string { return orDash(d.Name) }},
			{title: "Venue", optional: true, value: func(d api.Device, _ time.Time) string { return orDash(d.VenueName) }},
			{title: "Group", value: func(d api.Device, _ time.Time) string { return orDash(d.GroupName) }},
			{
				title: "Status", width: 8,
				value: func(d api.Device, _ time.Time) string { return titleCase(d.Status) },
				color: func(t Theme, d api.Device) string { return t.StatusColor(d.Status) },
			},
			{title: "Battery", width: 7, value: func(d api.Device, _ time.Time) string { return fmt.Sprintf("%d%%", d.Battery) }},
			{title: "Last Seen", width: 15, optional: true, value: func(d api.Device, now time.Time) string { return relativeTime(d.ParsedLastSeenAt(), now) }},
		},
		keyOf:    func(d api.Device) string { return strconv.FormatInt(d.ID, 10) },
		markable: true,
	}, opts)
}

func newGroupsView(ctx context.Context, b Backend, opts query.Options) *listView[api.DeviceGroupFilter, api.DeviceGroup] {
	return newListView(ctx, listConfig[api.DeviceGroupFilter, api.DeviceGroup]{
		id:    ViewGroups,
		fetch: b.ListDeviceGroups,
		fields: []filterField{
			newFilterField("name", "Name", fieldText),
			newFilterField("venue_id", "Venue", fieldID),
		},
		build: func(v filterValues) api.DeviceGroupFilter {
			return api.DeviceGroupFilter{Name: v.text("name"), VenueID: v.id("venue_id")}
		},
		columns: []column[api.DeviceGroup]{
			{title: "ID", width: 5, value: func(g api.DeviceGroup, _ time.Time) string { return idString(g.ID) }},
			{title: "Name", value: func(g api.DeviceGroup, _ time.Time) string { return g.Name }},
			{title: "Venue", value: func(g api.DeviceGroup, _ time.Time) string { return orDash(g.VenueName) }},
			{title: "Devices", width: 7, value: func(g api.DeviceGroup, _ time.Time) string { return strconv.Itoa(g.DeviceCount) }},
			{title: "Description", optional: true, value: func(g api.DeviceGroup, _ time.Time) string { return orDash(g.Description) }},
		},
		keyOf: func(g api.DeviceGroup) string { return strconv.FormatInt(g.ID, 10) },
	}, opts)
}

func newVenuesView(ctx context.Context, b Backend, opts query.Options) *listView[api.VenueFilter, api.Venue] {
	return newListView(ctx, listConfig[api.VenueFilter, api.Venue]{
		id:    ViewVenues,
		fetch: b.ListVenues,
		fields: []filterField{
			newFilterField("name", "Name", fieldText),
			newFilterField("city", "City", fieldText),
		},
		build: func(v filterValues) api.VenueFilter {
			return api.VenueFilter{Name: v.text("name"), City: v.text("city")}
		},
		columns: []column[api.Venue]{
			{title: "ID", width: 5, value: func(v api.Venue, _ time.Time) string { return idString(v.ID) }},
			{title: "Name", value: func(v api.Venue, _ time.Time) string { return v.Name }},
			{title: "City", width: 12, value: func(v api.Venue, _ time.Time) string { return orDash(v.City) }},
			{title: "Address", optional: true, value: func(v api.Venue, _ time.Time) string { return orDash(v.Address) }},
			{title: "Contact", width: 14, optional: true, value: func(v api.Venue, _ time.Time) string { return orDash(v.Contact) }},
			{title: "Devices", width: 7, value: func(v api.Venue, _ time.Time) string { return strconv.Itoa(v.DeviceCount) }},
		},
		keyOf: func(v api.Venue) string { return strconv.FormatInt(v.ID, 10) },
	}, opts)
}

func newReportsView(ctx context.Context, b Backend, opts query.Options) *listView[api.ReportFilter, api.DailyReport] {
	return newListView(ctx, listConfig[api.ReportFilter, api.DailyReport]{
		id:    ViewReports,
		fetch: b.ListDailyReports,
		fields: []filterField{
			newFilterField("venue_id", "Venue", fieldID),
			newFilterField("start_date", "From", fieldDate),
			newFilterField("end_date", "To", fieldDate),
		},
		build: func(v filterValues) api.ReportFilter {
			return api.ReportFilter{
				VenueID:   v.id("venue_id"),
				StartDate: v.at("start_date"),
				EndDate:   v.at("end_date"),
			}
		},
		columns: []column[api.DailyReport]{
			{title: "Date", width: 10, value: func(r api.DailyReport, _ time.Time) string { return r.Date }},
			{title: "Venue", value: func(r api.DailyReport, _ time.Time) string { return orDash(r.VenueName) }},
			{title: "Orders", width: 7, value: func(r api.DailyReport, _ time.Time) string { return strconv.Itoa(r.Orders) }},
			{title: "Revenue", width: 12, value: func(r api.DailyReport, _ time.Time) string { return formatMoney(r.Revenue) }},
			{title: "Points", width: 9, optional: true, value: func(r api.DailyReport, _ time.Time) string { return formatCount(r.Points) }},
			{
				title: "Refunds", width: 7,
				value: func(r api.DailyReport, _ time.Time) string { return strconv.Itoa(r.Refunds) },
				color: func(t Theme, r api.DailyReport) string {
					if r.Refunds > 0 {
						return t.Warning
					}
					return t.Text
				},
			},
		},
		keyOf: func(r api.DailyReport) string { return r.Date + "/" + strconv.FormatInt(r.VenueID, 10) },
	}, opts)
}
