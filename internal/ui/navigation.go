package ui

import "strings"

// View identifies one screen of the console.
type View int

const (
	ViewOrders View = iota
	ViewDevices
	ViewGroups
	ViewVenues
	ViewReports
	ViewMonitor
)

var viewOrder = []View{ViewOrders, ViewDevices, ViewGroups, ViewVenues, ViewReports, ViewMonitor}

// String returns the name stored in prefs.
func (v View) String() string {
	switch v {
	case ViewDevices:
		return "devices"
	case ViewGroups:
		return "groups"
	case ViewVenues:
		return "venues"
	case ViewReports:
		return "reports"
	case ViewMonitor:
		return "monitor"
	default:
		return "orders"
	}
}

// Title returns the label shown in the command bar.
func (v View) Title() string {
	switch v {
	case ViewDevices:
		return "Devices"
	case ViewGroups:
		return "Device Groups"
	case ViewVenues:
		return "Venues"
	case ViewReports:
		return "Daily Reports"
	case ViewMonitor:
		return "Monitor"
	default:
		return "Orders"
	}
}

// parseView maps a prefs name back to a View. Unknown names open orders.
func parseView(name string) View {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range viewOrder {
		if v.String() == name {
			return v
		}
	}
	return ViewOrders
}

func (v View) next() View {
	for i, candidate := range viewOrder {
		if candidate == v {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewOrders
}

func (v View) prev() View {
	for i, candidate := range viewOrder {
		if candidate == v {
			return viewOrder[(i+len(viewOrder)-1)%len(viewOrder)]
		}
	}
	return ViewOrders
}
