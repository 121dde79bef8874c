package query

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPageSize is used when a pagination value carries no page size.
const DefaultPageSize = 20

// Status describes the lifecycle of the most recently issued fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Pagination selects one page of a list endpoint. Page is 1-based.
type Pagination struct {
	Page     int `url:"page"`
	PageSize int `url:"page_size"`
}

// Normalize returns p with page >= 1 and a positive page size.
func (p Pagination) Normalize(defaultSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	return p
}

// Page is one successfully fetched page of records.
type Page[R any] struct {
	Items      []R
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// FetchFunc loads one page of records for the given filters.
type FetchFunc[F, R any] func(ctx context.Context, filters F, p Pagination) (Page[R], error)

// State is a read-only snapshot of one list view.
type State[F, R any] struct {
	Filters    F
	Pagination Pagination
	Status     Status
	Items      []R
	Total      int
	TotalPages int
	Err        string
	Ticket     uint64
	UpdatedAt  time.Time
}

// Loading reports whether the current request is still outstanding.
func (s State[F, R]) Loading() bool {
	return s.Status == StatusLoading
}

// HasNext reports whether a page after the current one exists.
func (s State[F, R]) HasNext() bool {
	return s.Pagination.Page < s.TotalPages
}

// HasPrev reports whether a page before the current one exists.
func (s State[F, R]) HasPrev() bool {
	return s.Pagination.Page > 1
}

// Request captures the parameters of one issued fetch.
type Request[F any] struct {
	Ticket     uint64
	Filters    F
	Pagination Pagination
}

// Result is the outcome of running a Request.
type Result[F, R any] struct {
	Request Request[F]
	Page    Page[R]
	Err     error
}

// Options tune a Synchronizer.
type Options struct {
	// PageSize is used when a configured pagination has none.
	PageSize int
	// KeepPageOnFilterChange disables the reset to page 1 when filters change.
	KeepPageOnFilterChange bool
	// ErrorMessage converts a fetch failure into the text stored in State.Err.
	ErrorMessage func(error) string
	Logger       zerolog.Logger
	Now          func() time.Time
}

// Synchronizer reconciles mutable filter/pagination state with asynchronous
// fetches. Only the most recently issued request may change visible state:
// every Issue takes a new ticket and Resolve drops results whose ticket is no
// longer current, whatever order they complete in.
type Synchronizer[F comparable, R any] struct {
	fetch FetchFunc[F, R]
	opts  Options
	log   zerolog.Logger

	seq atomic.Uint64

	mu         sync.RWMutex
	state      State[F, R]
	configured bool
	knownPages int
	hasResult  bool
}

// New builds a Synchronizer around fetch.
func New[F comparable, R any](fetch FetchFunc[F, R], opts Options) *Synchronizer[F, R] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ErrorMessage == nil {
		opts.ErrorMessage = defaultErrorMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Synchronizer[F, R]{
		fetch: fetch,
		opts:  opts,
		log:   opts.Logger,
	}
	s.state.Pagination = Pagination{}.Normalize(opts.PageSize)
	return s
}

// Configure records the desired filters and pagination. It never fetches.
func (s *Synchronizer[F, R]) Configure(filters F, p Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = p.Normalize(s.opts.PageSize)
	if s.configured && !s.opts.KeepPageOnFilterChange && filters != s.state.Filters {
		p.Page = 1
	}
	if s.hasResult {
		p.Page = clampPage(p.Page, s.knownPages)
	}
	s.state.Filters = filters
	s.state.Pagination = p
	s.configured = true
}

// Issue starts a new request for the configured parameters, superseding any
// request still in flight.
func (s *Synchronizer[F, R]) Issue() Request[F] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := s.seq.Add(1)
	s.state.Ticket = ticket
	s.state.Status = StatusLoading
	s.state.Err = ""
	return Request[F]{
		Ticket:     ticket,
		Filters:    s.state.Filters,
		Pagination: s.state.Pagination,
	}
}

// Run executes req against the fetch function. It does not touch state.
func (s *Synchronizer[F, R]) Run(ctx context.Context, req Request[F]) Result[F, R] {
	page, err := s.fetch(ctx, req.Filters, req.Pagination)
	return Result[F, R]{Request: req, Page: page, Err: err}
}

// Apply resolves res. It reports whether the result was current and applied.
func (s *Synchronizer[F, R]) Apply(res Result[F, R]) bool {
	return s.Resolve(res.Request, res.Page, res.Err)
}

// Resolve applies the outcome of req when req is still the current request.
// Stale outcomes are discarded without any state change. A failure keeps the
// previously fetched items visible.
func (s *Synchronizer[F, R]) Resolve(req Request[F], page Page[R], err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.seq.Load(); req.Ticket != current {
		s.log.Debug().
			Uint64("ticket", req.Ticket).
			Uint64("current", current).
			Msg("discarding stale list response")
		return false
	}

	s.state.UpdatedAt = s.opts.Now()
	if err != nil {
		s.state.Status = StatusError
		s.state.Err = s.opts.ErrorMessage(err)
		s.log.Warn().Err(err).Uint64("ticket", req.Ticket).Msg("list fetch failed")
		return true
	}

	pageSize := page.PageSize
	if pageSize <= 0 {
		pageSize = req.Pagination.PageSize
	}
	totalPages := page.TotalPages
	if totalPages <= 0 && page.Total > 0 && pageSize > 0 {
		totalPages = (page.Total + pageSize - 1) / pageSize
	}
	current := page.Page
	if current <= 0 {
		current = req.Pagination.Page
	}

	s.state.Items = cloneItems(page.Items)
	s.state.Total = page.Total
	s.state.TotalPages = totalPages
	s.state.Pagination = Pagination{Page: clampPage(current, totalPages), PageSize: pageSize}
	s.state.Status = StatusSuccess
	s.knownPages = totalPages
	s.hasResult = true
	return true
}

// Refresh issues a request, waits for it and resolves it.
func (s *Synchronizer[F, R]) Refresh(ctx context.Context) bool {
	return s.Apply(s.Run(ctx, s.Issue()))
}

// Ticket returns the most recently issued ticket.
func (s *Synchronizer[F, R]) Ticket() uint64 {
	return s.seq.Load()
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer[F, R]) Snapshot() State[F, R] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Items = cloneItems(s.state.Items)
	return snap
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func cloneItems[R any](items []R) []R {
	if len(items) == 0 {
		return nil
	}
	dup := make([]R, len(items))
	copy(dup, items)
	return dup
}

func defaultErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "request failed"
}
