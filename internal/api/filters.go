package api

import "time"

// Filter structs are comparable so the synchronizer can detect changes with
// ==. Zero fields are absent and never reach the query string.

// OrderFilter narrows /api/admin/orders.
type OrderFilter struct {
	OrderNo   string    `url:"order_no,omitempty"`
	UserID    int64     `url:"user_id,omitempty"`
	VenueID   int64     `url:"venue_id,omitempty"`
	Status    string    `url:"status,omitempty"`
	StartTime time.Time `url:"start_time,omitempty"`
	EndTime   time.Time `url:"end_time,omitempty"`
}

// DeviceFilter narrows /api/admin/devices.
type DeviceFilter struct {
	Keyword string `url:"keyword,omitempty"`
	VenueID int64  `url:"venue_id,omitempty"`
	GroupID int64  `url:"group_id,omitempty"`
	Status  string `url:"status,omitempty"`
}

// DeviceGroupFilter narrows /api/admin/device-groups.
type DeviceGroupFilter struct {
	Name    string `url:"name,omitempty"`
	VenueID int64  `url:"venue_id,omitempty"`
}

// VenueFilter narrows /api/admin/venues.
type VenueFilter struct {
	Name string `url:"name,omitempty"`
	City string `url:"city,omitempty"`
}

// ReportFilter narrows /api/admin/reports/daily. Dates are inclusive days.
type ReportFilter struct {
	VenueID   int64     `url:"venue_id,omitempty"`
	StartDate time.Time `url:"start_date,omitempty"`
	EndDate   time.Time `url:"end_date,omitempty"`
}
