// Package toast keeps the queue of transient notifications shown by the
// console. The queue is passive: callers pass the current time to Visible and
// Prune, and the UI schedules a tick for each toast's expiry.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a toast.
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// ID identifies a queued toast.
type ID string

// Toast is one notification.
type Toast struct {
	ID          ID
	Kind        Kind
	Title       string
	Description string
	Duration    time.Duration
	CreatedAt   time.Time
}

// ExpiresAt reports when the toast stops being visible.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

// Expired reports whether t is no longer visible at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}

const (
	DefaultMaxLen   = 5
	DefaultDuration = 4 * time.Second
	// ErrorDuration applies to error toasts pushed without a duration.
	ErrorDuration = 8 * time.Second
)

// Options tune a Queue.
type Options struct {
	MaxLen          int
	DefaultDuration time.Duration
	Now             func() time.Time
	NewID           func() ID
}

// Queue is a bounded, ordered set of toasts. Oldest first.
type Queue struct {
	mu    sync.Mutex
	opts  Options
	items []Toast
}

// NewQueue builds a Queue.
func NewQueue(opts Options) *Queue {
	if opts.MaxLen <= 0 {
		opts.MaxLen = DefaultMaxLen
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() ID { return ID(uuid.NewString()) }
	}
	return &Queue{opts: opts}
}

// Push queues t and returns it with ID, CreatedAt and Duration filled in.
// A toast identical in kind, title and description to a queued one replaces
// it and restarts its timer. When the queue is full the oldest toast is
// evicted.
func (q *Queue) Push(t Toast) Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t.Duration <= 0 {
		t.Duration = q.opts.DefaultDuration
		if t.Kind == Error && t.Duration < ErrorDuration {
			t.Duration = ErrorDuration
		}
	}
	t.CreatedAt = q.opts.Now()

	for i, existing := range q.items {
		if existing.Kind == t.Kind && existing.Title == t.Title && existing.Description == t.Description {
			t.ID = existing.ID
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	if t.ID == "" {
		t.ID = q.opts.NewID()
	}
	q.items = append(q.items, t)
	if over := len(q.items) - q.opts.MaxLen; over > 0 {
		q.items = append(q.items[:0], q.items[over:]...)
	}
	return t
}

// Success queues a success toast.
func (q *Queue) Success(title, description string) Toast {
	return q.Push(Toast{Kind: Success, Title: title, Description: description})
}

// Error queues an error toast.
func (q *Queue) Error(title, description string) Toast {
	return q.Push(Toast{Kind: Error, Title: title, Description: description})
}

// Dismiss removes the toast with id. Unknown ids are ignored.
func (q *Queue) Dismiss(id ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissNewest removes the most recently pushed toast.
func (q *Queue) DismissNewest() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return false
	}
	q.items = q.items[:len(q.items)-1]
	return true
}

// Visible returns the toasts still visible at now, newest last.
func (q *Queue) Visible(now time.Time) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, 0, len(q.items))
	for _, t := range q.items {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	return out
}

// Prune drops toasts expired at now and returns how many were removed.
func (q *Queue) Prune(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	for _, t := range q.items {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	removed := len(q.items) - len(kept)
	clear(q.items[len(kept):])
	q.items = kept
	return removed
}

// Len returns the number of queued toasts, expired or not.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
