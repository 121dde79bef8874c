package mockapi

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/five82/kiosk/internal/api"
)

const timestampLayout = "2006-01-02 15:04:05"

var venueSeeds = []struct {
	name, city, address string
}{
	{"Harbour Plaza", "Shenzhen", "88 Binhai Ave"},
	{"Riverside Mall", "Guangzhou", "12 Zhujiang Rd"},
	{"West Lake Center", "Hangzhou", "3 Nanshan Rd"},
	{"Jinli Arcade", "Chengdu", "231 Wuhou Ci St"},
}

var groupSeeds = []struct {
	venue int
	name  string
}{
	{0, "Lobby"},
	{0, "Food Court"},
	{1, "Cinema Floor"},
	{2, "Main Hall"},
	{3, "East Wing"},
	{3, "West Wing"},
}

func (s *Server) seed(now time.Time) {
	rng := rand.New(rand.NewPCG(uint64(s.opts.Seed), uint64(s.opts.Seed)^0x9e3779b97f4a7c15))

	for i, v := range venueSeeds {
		s.venues = append(s.venues, api.Venue{
			ID:        int64(i + 1),
			Name:      v.name,
			City:      v.city,
			Address:   v.address,
			Contact:   fmt.Sprintf("400-800-%04d", 1000+i),
			CreatedAt: now.AddDate(0, -6+i, 0).Format(timestampLayout),
		})
	}
	s.nextVenueID = int64(len(s.venues) + 1)

	for i, g := range groupSeeds {
		s.groups = append(s.groups, api.DeviceGroup{
			ID:        int64(i + 1),
			Name:      g.name,
			VenueID:   s.venues[g.venue].ID,
			CreatedAt: now.AddDate(0, -3, i).Format(timestampLayout),
		})
	}
	s.nextGroupID = int64(len(s.groups) + 1)

	statuses := []string{api.DeviceOnline, api.DeviceOnline, api.DeviceOnline, api.DeviceInUse, api.DeviceInUse, api.DeviceOffline, api.DeviceFault}
	for i := 0; i < s.opts.Devices; i++ {
		group := s.groups[rng.IntN(len(s.groups))]
		s.devices = append(s.devices, api.Device{
			ID:         int64(i + 1),
			SN:         fmt.Sprintf("KS-%05d", 10000+i*7),
			Name:       fmt.Sprintf("Power bank %02d", i+1),
			VenueID:    group.VenueID,
			GroupID:    group.ID,
			Status:     statuses[rng.IntN(len(statuses))],
			Battery:    5 + rng.IntN(96),
			LastSeenAt: now.Add(-time.Duration(rng.IntN(180)) * time.Minute).Format(timestampLayout),
		})
	}

	orderStatuses := []string{api.OrderFinished, api.OrderFinished, api.OrderFinished, api.OrderPaid, api.OrderInUse, api.OrderPending, api.OrderRefunded, api.OrderCancelled}
	for i := 0; i < s.opts.Orders; i++ {
		device := s.devices[rng.IntN(len(s.devices))]
		created := now.Add(-time.Duration(rng.IntN(30*24*60)) * time.Minute)
		amount := int64(500 + rng.IntN(46)*100)
		order := api.Order{
			OrderNo:   fmt.Sprintf("ORD%s%04d", created.Format("20060102"), i+1),
			UserID:    int64(1000 + rng.IntN(30)),
			VenueID:   device.VenueID,
			DeviceID:  device.ID,
			DeviceSN:  device.SN,
			Status:    orderStatuses[rng.IntN(len(orderStatuses))],
			Amount:    amount,
			Points:    amount / 100,
			CreatedAt: created.Format(timestampLayout),
		}
		order.UserName = fmt.Sprintf("member-%d", order.UserID)
		switch order.Status {
		case api.OrderPending, api.OrderCancelled:
		case api.OrderFinished, api.OrderRefunded:
			order.PaidAt = created.Add(time.Minute).Format(timestampLayout)
			order.FinishedAt = created.Add(time.Duration(30+rng.IntN(240)) * time.Minute).Format(timestampLayout)
		default:
			order.PaidAt = created.Add(time.Minute).Format(timestampLayout)
		}
		s.orders = append(s.orders, order)
	}
	sort.SliceStable(s.orders, func(i, j int) bool {
		return s.orders[i].CreatedAt > s.orders[j].CreatedAt
	})

	s.reports = buildReports(s.orders, s.venues, now, 30)
}

// buildReports aggregates orders per venue per day, newest day first.
func buildReports(orders []api.Order, venues []api.Venue, now time.Time, days int) []api.DailyReport {
	type key struct {
		date  string
		venue int64
	}
	agg := make(map[key]*api.DailyReport)
	for d := 0; d < days; d++ {
		date := now.AddDate(0, 0, -d).Format("2006-01-02")
		for _, v := range venues {
			agg[key{date, v.ID}] = &api.DailyReport{Date: date, VenueID: v.ID}
		}
	}
	for _, o := range orders {
		if len(o.CreatedAt) < 10 {
			continue
		}
		r, ok := agg[key{o.CreatedAt[:10], o.VenueID}]
		if !ok {
			continue
		}
		switch o.Status {
		case api.OrderRefunded:
			r.Refunds++
		case api.OrderPending, api.OrderCancelled:
		default:
			r.Orders++
			r.Revenue += o.Amount
			r.Points += o.Points
		}
	}
	out := make([]api.DailyReport, 0, len(agg))
	for _, r := range agg {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].VenueID < out[j].VenueID
	})
	return out
}
