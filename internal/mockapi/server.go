// Package mockapi serves an in-memory implementation of the admin REST API.
// It backs `kiosk mock` for demos and the HTTP tests of other packages.
package mockapi

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/filter"
	"github.com/five82/kiosk/internal/form"
	"github.com/five82/kiosk/internal/query"
)

// Error codes returned in envelopes.
const (
	CodeBadRequest api.Code = "40001"
	CodeNotFound   api.Code = "40401"
	CodeConflict   api.Code = "40901"
	CodeNotEmpty   api.Code = "40902"
)

// Options configure the fixture server.
type Options struct {
	Seed    int64
	Devices int
	Orders  int
	// Latency delays every response. Jitter adds up to that much on top, so
	// concurrent requests complete out of order.
	Latency time.Duration
	Jitter  time.Duration
	Logger  zerolog.Logger
	Now     func() time.Time
	Version string
}

// Server holds the fixture data set.
type Server struct {
	opts    Options
	log     zerolog.Logger
	decoder *schema.Decoder

	mu          sync.Mutex
	rng         *rand.Rand
	venues      []api.Venue
	groups      []api.DeviceGroup
	devices     []api.Device
	orders      []api.Order
	reports     []api.DailyReport
	nextVenueID int64
	nextGroupID int64
}

// New builds a Server with deterministic fixtures for opts.Seed.
func New(opts Options) *Server {
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	if opts.Devices <= 0 {
		opts.Devices = 40
	}
	if opts.Orders <= 0 {
		opts.Orders = 120
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "mock"
	}
	dec := schema.NewDecoder()
	dec.SetAliasTag("url")
	dec.IgnoreUnknownKeys(true)
	dec.RegisterConverter(time.Time{}, func(raw string) reflect.Value {
		t, ok := filter.Time(raw, time.Local)
		if !ok {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})

	s := &Server{
		opts:    opts,
		log:     opts.Logger,
		decoder: dec,
		rng:     rand.New(rand.NewPCG(uint64(opts.Seed), 1)),
	}
	s.seed(opts.Now())
	return s
}

// Handler returns the chi router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(s.latency)

	r.Get("/api/health", s.health)

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/orders", s.listOrders)
		r.Get("/orders/{orderNo}", s.getOrder)

		r.Get("/devices", s.listDevices)
		r.Post("/devices/reassign", s.reassignDevices)

		r.Get("/device-groups", s.listGroups)
		r.Post("/device-groups", s.createGroup)
		r.Delete("/device-groups/{id}", s.deleteGroup)

		r.Get("/venues", s.listVenues)
		r.Post("/venues", s.createVenue)
		r.Put("/venues/{id}", s.updateVenue)
		r.Delete("/venues/{id}", s.deleteVenue)

		r.Get("/reports/daily", s.listReports)
		r.Get("/monitor/overview", s.overview)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(started)).
			Msg("mock request")
	})
}

func (s *Server) latency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay := s.opts.Latency
		if s.opts.Jitter > 0 {
			s.mu.Lock()
			delay += time.Duration(s.rng.Int64N(int64(s.opts.Jitter)))
			s.mu.Unlock()
		}
		if delay > 0 {
			if err := sleep(r.Context(), delay); err != nil {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, api.Health{
		Status:     "ok",
		Version:    s.opts.Version,
		ServerTime: s.opts.Now().Format(timestampLayout),
	})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	var f api.OrderFilter
	p, ok := s.decodeList(w, r, &f)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]api.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.OrderNo != "" && !strings.Contains(strings.ToUpper(o.OrderNo), strings.ToUpper(f.OrderNo)) {
			continue
		}
		if f.UserID > 0 && o.UserID != f.UserID {
			continue
		}
		if f.VenueID > 0 && o.VenueID != f.VenueID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.StartTime.IsZero() || !f.EndTime.IsZero() {
			created := o.ParsedCreatedAt()
			if !f.StartTime.IsZero() && created.Before(f.StartTime) {
				continue
			}
			if !f.EndTime.IsZero() && created.After(f.EndTime) {
				continue
			}
		}
		out = append(out, s.decorateOrder(o))
	}
	writePage(w, out, p)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderNo, err := url.PathUnescape(chi.URLParam(r, "orderNo"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, "invalid order number")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNo == orderNo {
			writeOK(w, s.decorateOrder(o))
			return
		}
	}
	writeFail(w, http.StatusNotFound, CodeNotFound, "order not found")
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	var f api.DeviceFilter
	p, ok := s.decodeList(w, r, &f)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keyword := strings.ToLower(f.Keyword)
	out := make([]api.Device, 0, len(s.devices))
	for _, d := range s.devices {
		if keyword != "" && !strings.Contains(strings.ToLower(d.SN), keyword) && !strings.Contains(strings.ToLower(d.Name), keyword) {
			continue
		}
		if f.VenueID > 0 && d.VenueID != f.VenueID {
			continue
		}
		if f.GroupID > 0 && d.GroupID != f.GroupID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		out = append(out, s.decorateDevice(d))
	}
	writePage(w, out, p)
}

func (s *Server) reassignDevices(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[form.ReassignInput](w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	group, found := s.findGroup(in.GroupID)
	if !found {
		writeFail(w, http.StatusOK, CodeNotFound, "device group not found")
		return
	}
	index := make(map[int64]int, len(s.devices))
	for i, d := range s.devices {
		index[d.ID] = i
	}
	for _, id := range in.DeviceIDs {
		if _, ok := index[id]; !ok {
			writeFail(w, http.StatusOK, CodeNotFound, "device "+strconv.FormatInt(id, 10)+" not found")
			return
		}
	}
	moved := 0
	for _, id := range in.DeviceIDs {
		d := &s.devices[index[id]]
		if d.GroupID == group.ID {
			continue
		}
		d.GroupID = group.ID
		d.VenueID = group.VenueID
		moved++
	}
	writeOK(w, api.ReassignResult{Moved: moved})
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	var f api.DeviceGroupFilter
	p, ok := s.decodeList(w, r, &f)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(f.Name)
	out := make([]api.DeviceGroup, 0, len(s.groups))
	for _, g := range s.groups {
		if name != "" && !strings.Contains(strings.ToLower(g.Name), name) {
			continue
		}
		if f.VenueID > 0 && g.VenueID != f.VenueID {
			continue
		}
		out = append(out, s.decorateGroup(g))
	}
	writePage(w, out, p)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[form.DeviceGroupInput](w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.findVenue(in.VenueID); !found {
		writeFail(w, http.StatusOK, CodeNotFound, "venue not found")
		return
	}
	for _, g := range s.groups {
		if g.VenueID == in.VenueID && strings.EqualFold(g.Name, in.Name) {
			writeFail(w, http.StatusOK, CodeConflict, "device group name already exists in this venue")
			return
		}
	}
	g := api.DeviceGroup{
		ID:          s.nextGroupID,
		Name:        in.Name,
		VenueID:     in.VenueID,
		Description: in.Description,
		CreatedAt:   s.opts.Now().Format(timestampLayout),
	}
	s.nextGroupID++
	s.groups = append(s.groups, g)
	writeOK(w, s.decorateGroup(g))
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, g := range s.groups {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeFail(w, http.StatusNotFound, CodeNotFound, "device group not found")
		return
	}
	for _, d := range s.devices {
		if d.GroupID == id {
			writeFail(w, http.StatusOK, CodeNotEmpty, "device group still has devices")
			return
		}
	}
	s.groups = append(s.groups[:idx], s.groups[idx+1:]...)
	writeOK(w, struct{}{})
}

func (s *Server) listVenues(w http.ResponseWriter, r *http.Request) {
	var f api.VenueFilter
	p, ok := s.decodeList(w, r, &f)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(f.Name)
	out := make([]api.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		if name != "" && !strings.Contains(strings.ToLower(v.Name), name) {
			continue
		}
		if f.City != "" && !strings.EqualFold(v.City, f.City) {
			continue
		}
		out = append(out, s.decorateVenue(v))
	}
	writePage(w, out, p)
}

func (s *Server) createVenue(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody[form.VenueInput](w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.venues {
		if strings.EqualFold(v.Name, in.Name) {
			writeFail(w, http.StatusOK, CodeConflict, "venue name already exists")
			return
		}
	}
	v := api.Venue{
		ID:        s.nextVenueID,
		Name:      in.Name,
		City:      in.City,
		Address:   in.Address,
		Contact:   in.Contact,
		CreatedAt: s.opts.Now().Format(timestampLayout),
	}
	s.nextVenueID++
	s.venues = append(s.venues, v)
	writeOK(w, s.decorateVenue(v))
}

func (s *Server) updateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeBody[form.VenueInput](w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.venues {
		if v.ID != id && strings.EqualFold(v.Name, in.Name) {
			writeFail(w, http.StatusOK, CodeConflict, "venue name already exists")
			return
		}
	}
	for i := range s.venues {
		if s.venues[i].ID != id {
			continue
		}
		v := &s.venues[i]
		v.Name = in.Name
		v.City = in.City
		v.Address = in.Address
		v.Contact = in.Contact
		writeOK(w, s.decorateVenue(*v))
		return
	}
	writeFail(w, http.StatusNotFound, CodeNotFound, "venue not found")
}

func (s *Server) deleteVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, v := range s.venues {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeFail(w, http.StatusNotFound, CodeNotFound, "venue not found")
		return
	}
	for _, d := range s.devices {
		if d.VenueID == id {
			writeFail(w, http.StatusOK, CodeNotEmpty, "venue still has devices")
			return
		}
	}
	groups := s.groups[:0]
	for _, g := range s.groups {
		if g.VenueID != id {
			groups = append(groups, g)
		}
	}
	s.groups = groups
	s.venues = append(s.venues[:idx], s.venues[idx+1:]...)
	writeOK(w, struct{}{})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	var f api.ReportFilter
	p, ok := s.decodeList(w, r, &f)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := "", ""
	if !f.StartDate.IsZero() {
		start = f.StartDate.Format("2006-01-02")
	}
	if !f.EndDate.IsZero() {
		end = f.EndDate.Format("2006-01-02")
	}
	out := make([]api.DailyReport, 0, len(s.reports))
	for _, rep := range s.reports {
		if f.VenueID > 0 && rep.VenueID != f.VenueID {
			continue
		}
		if start != "" && rep.Date < start {
			continue
		}
		if end != "" && rep.Date > end {
			continue
		}
		if v, found := s.findVenue(rep.VenueID); found {
			rep.VenueName = v.Name
		}
		out = append(out, rep)
	}
	writePage(w, out, p)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	var ov api.Overview
	for _, d := range s.devices {
		switch d.Status {
		case api.DeviceOnline:
			ov.DevicesOnline++
		case api.DeviceOffline:
			ov.DevicesOffline++
		case api.DeviceInUse:
			ov.DevicesInUse++
		case api.DeviceFault:
			ov.DevicesFault++
		}
	}
	today := now.Format("2006-01-02")
	for _, o := range s.orders {
		if !strings.HasPrefix(o.CreatedAt, today) {
			continue
		}
		ov.OrdersToday++
		switch o.Status {
		case api.OrderPending, api.OrderCancelled, api.OrderRefunded:
		default:
			ov.RevenueToday += o.Amount
			ov.PointsToday += o.Points
		}
	}
	ov.UpdatedAt = now.Format(timestampLayout)
	writeOK(w, ov)
}

func (s *Server) decodeList(w http.ResponseWriter, r *http.Request, dst any) (query.Pagination, bool) {
	values := r.URL.Query()
	if err := s.decoder.Decode(dst, values); err != nil {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, "invalid filter: "+err.Error())
		return query.Pagination{}, false
	}
	var p query.Pagination
	if err := s.decoder.Decode(&p, values); err != nil {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, "invalid pagination: "+err.Error())
		return query.Pagination{}, false
	}
	return p.Normalize(query.DefaultPageSize), true
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var in T
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, "malformed request body")
		return in, false
	}
	valid, errs := form.Validate(in)
	if errs != nil {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, errs.Error())
		return in, false
	}
	return valid.Value(), true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := filter.PositiveInt(chi.URLParam(r, "id"))
	if !ok {
		writeFail(w, http.StatusBadRequest, CodeBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) findVenue(id int64) (api.Venue, bool) {
	for _, v := range s.venues {
		if v.ID == id {
			return v, true
		}
	}
	return api.Venue{}, false
}

func (s *Server) findGroup(id int64) (api.DeviceGroup, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return api.DeviceGroup{}, false
}

func (s *Server) decorateOrder(o api.Order) api.Order {
	if v, ok := s.findVenue(o.VenueID); ok {
		o.VenueName = v.Name
	}
	return o
}

func (s *Server) decorateDevice(d api.Device) api.Device {
	if v, ok := s.findVenue(d.VenueID); ok {
		d.VenueName = v.Name
	}
	if g, ok := s.findGroup(d.GroupID); ok {
		d.GroupName = g.Name
	}
	return d
}

func (s *Server) decorateGroup(g api.DeviceGroup) api.DeviceGroup {
	if v, ok := s.findVenue(g.VenueID); ok {
		g.VenueName = v.Name
	}
	g.DeviceCount = 0
	for _, d := range s.devices {
		if d.GroupID == g.ID {
			g.DeviceCount++
		}
	}
	return g
}

func (s *Server) decorateVenue(v api.Venue) api.Venue {
	v.DeviceCount = 0
	for _, d := range s.devices {
		if d.VenueID == v.ID {
			v.DeviceCount++
		}
	}
	return v
}

func writePage[T any](w http.ResponseWriter, items []T, p query.Pagination) {
	total := len(items)
	totalPages := (total + p.PageSize - 1) / p.PageSize
	start := (p.Page - 1) * p.PageSize
	data := []T{}
	if start < total {
		end := min(start+p.PageSize, total)
		data = items[start:end]
	}
	writeJSON(w, http.StatusOK, api.PagedEnvelope[T]{
		Success:     true,
		Data:        data,
		Total:       total,
		PageSize:    p.PageSize,
		HasMore:     p.Page < totalPages,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
	})
}

func writeOK[T any](w http.ResponseWriter, data T) {
	writeJSON(w, http.StatusOK, api.Envelope[T]{Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, status int, code api.Code, msg string) {
	writeJSON(w, status, api.Envelope[any]{Success: false, ErrCode: code, ErrMessage: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
