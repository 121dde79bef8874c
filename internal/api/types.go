package api

import (
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderInUse     = "in_use"
	OrderFinished  = "finished"
	OrderRefunded  = "refunded"
	OrderCancelled = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []string{OrderPending, OrderPaid, OrderInUse, OrderFinished, OrderRefunded, OrderCancelled}

// Device statuses.
const (
	DeviceOnline  = "online"
	DeviceOffline = "offline"
	DeviceInUse   = "in_use"
	DeviceFault   = "fault"
)

// DeviceStatuses lists every device status.
var DeviceStatuses = []string{DeviceOnline, DeviceOffline, DeviceInUse, DeviceFault}

// Order is one rental order. Amounts are in cents.
type Order struct {
	OrderNo    string `json:"order_no"`
	UserID     int64  `json:"user_id"`
	UserName   string `json:"user_name"`
	VenueID    int64  `json:"venue_id"`
	VenueName  string `json:"venue_name"`
	DeviceID   int64  `json:"device_id"`
	DeviceSN   string `json:"device_sn"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
	Points     int64  `json:"points"`
	CreatedAt  string `json:"created_at"`
	PaidAt     string `json:"paid_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	Remark     string `json:"remark,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (o Order) ParsedCreatedAt() time.Time {
	return parseTime(o.CreatedAt)
}

// Device is one rental device.
type Device struct {
	ID         int64  `json:"id"`
	SN         string `json:"sn"`
	Name       string `json:"name"`
	VenueID    int64  `json:"venue_id"`
	VenueName  string `json:"venue_name"`
	GroupID    int64  `json:"group_id"`
	GroupName  string `json:"group_name"`
	Status     string `json:"status"`
	Battery    int    `json:"battery"`
	LastSeenAt string `json:"last_seen_at"`
}

// ParsedLastSeenAt returns the parsed LastSeenAt timestamp.
func (d Device) ParsedLastSeenAt() time.Time {
	return parseTime(d.LastSeenAt)
}

// DeviceGroup groups devices inside one venue.
type DeviceGroup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	VenueID     int64  `json:"venue_id"`
	VenueName   string `json:"venue_name"`
	Description string `json:"description,omitempty"`
	DeviceCount int    `json:"device_count"`
	CreatedAt   string `json:"created_at"`
}

// Venue is a physical site hosting devices.
type Venue struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Address     string `json:"address,omitempty"`
	Contact     string `json:"contact,omitempty"`
	DeviceCount int    `json:"device_count"`
	CreatedAt   string `json:"created_at"`
}

// DailyReport aggregates one venue's business for one day.
type DailyReport struct {
	Date      string `json:"date"`
	VenueID   int64  `json:"venue_id"`
	VenueName string `json:"venue_name"`
	Orders    int    `json:"orders"`
	Revenue   int64  `json:"revenue"`
	Points    int64  `json:"points"`
	Refunds   int    `json:"refunds"`
}

// Overview is the monitoring dashboard summary.
type Overview struct {
	DevicesOnline  int    `json:"devices_online"`
	DevicesOffline int    `json:"devices_offline"`
	DevicesInUse   int    `json:"devices_in_use"`
	DevicesFault   int    `json:"devices_fault"`
	OrdersToday    int    `json:"orders_today"`
	RevenueToday   int64  `json:"revenue_today"`
	PointsToday    int64  `json:"points_today"`
	UpdatedAt      string `json:"updated_at"`
}

// DevicesTotal sums every device state.
func (o Overview) DevicesTotal() int {
	return o.DevicesOnline + o.DevicesOffline + o.DevicesInUse + o.DevicesFault
}

// Health mirrors /api/health.
type Health struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	ServerTime string `json:"server_time"`
}

// ReassignResult reports how many devices moved.
type ReassignResult struct {
	Moved int `json:"moved"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(timestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
