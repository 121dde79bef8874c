package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which optional columns hide.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for the filter bar to sit on one line.
	LayoutWideWidth = 140
)

// Timing constants.
const (
	// FilterDebounce is how long typing must pause before a filter edit fetches.
	FilterDebounce = 350 * time.Millisecond

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// MutationTimeout bounds create, update, delete and reassign calls.
	MutationTimeout = 15 * time.Second
)

// pageSizes is the cycle offered by the page size key.
var pageSizes = []int{10, 20, 50, 100}

// chromeHeight is the number of lines used by header, command bar, filter bar
// and pager.
const chromeHeight = 5
