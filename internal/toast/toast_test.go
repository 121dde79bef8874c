package toast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestQueue(clock *fakeClock, maxLen int) *Queue {
	n := 0
	return NewQueue(Options{
		MaxLen:          maxLen,
		DefaultDuration: 4 * time.Second,
		Now:             clock.Now,
		NewID: func() ID {
			n++
			return ID(fmt.Sprintf("t%d", n))
		},
	})
}

func TestQueue_VisibleUntilDurationElapses(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	q := newTestQueue(clock, 0)
	start := clock.Now()

	pushed := q.Push(Toast{Kind: Success, Title: "Saved", Duration: 2 * time.Second})
	assert.Equal(t, start, pushed.CreatedAt)

	assert.Len(t, q.Visible(start.Add(time.Second)), 1, "visible at half the duration")
	assert.Empty(t, q.Visible(start.Add(2*time.Second+time.Millisecond)), "hidden just after the duration")
}

func TestQueue_DefaultDurations(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 0)

	assert.Equal(t, 4*time.Second, q.Success("ok", "").Duration)
	assert.Equal(t, ErrorDuration, q.Error("failed", "").Duration)
}

func TestQueue_OrderNewestLast(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 0)

	q.Push(Toast{Title: "first"})
	clock.Advance(time.Millisecond)
	q.Push(Toast{Title: "second"})

	visible := q.Visible(clock.Now())
	require.Len(t, visible, 2)
	assert.Equal(t, "first", visible[0].Title)
	assert.Equal(t, "second", visible[1].Title)
}

func TestQueue_DismissIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 0)

	a := q.Push(Toast{Title: "a"})
	q.Push(Toast{Title: "b"})

	assert.True(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss("unknown"))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_CapEvictsOldest(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 3)

	for i := 0; i < 5; i++ {
		q.Push(Toast{Title: fmt.Sprintf("toast %d", i)})
	}

	visible := q.Visible(clock.Now())
	require.Len(t, visible, 3)
	assert.Equal(t, "toast 2", visible[0].Title)
	assert.Equal(t, "toast 4", visible[2].Title)
}

func TestQueue_DuplicateReplacesAndRestartsTimer(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 0)

	first := q.Push(Toast{Kind: Error, Title: "Load failed", Description: "network error", Duration: 2 * time.Second})
	q.Push(Toast{Title: "other", Duration: 2 * time.Second})
	clock.Advance(1500 * time.Millisecond)
	again := q.Push(Toast{Kind: Error, Title: "Load failed", Description: "network error", Duration: 2 * time.Second})

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 2, q.Len())

	visible := q.Visible(clock.Now().Add(time.Second))
	require.Len(t, visible, 1, "the other toast expired, the duplicate restarted")
	assert.Equal(t, "Load failed", visible[0].Title)
}

func TestQueue_PruneAndDismissNewest(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	q := newTestQueue(clock, 0)

	q.Push(Toast{Title: "short", Duration: time.Second})
	q.Push(Toast{Title: "long", Duration: time.Minute})

	assert.Equal(t, 1, q.Prune(clock.Now().Add(2*time.Second)))
	assert.Equal(t, 1, q.Len())

	assert.True(t, q.DismissNewest())
	assert.False(t, q.DismissNewest())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
}
