// Package query keeps a list view's filter and pagination state in step with
// asynchronous page fetches.
//
// # Overview
//
// Every list screen in kiosk (orders, devices, venues, device groups,
// reports) is backed by one Synchronizer, parametrized by the screen's filter
// type F and record type R. The screen edits filters and pagination through
// Configure, asks for data through Issue/Run/Apply (or the blocking Refresh),
// and renders whatever Snapshot returns.
//
// # Ordering
//
// Fetches complete in any order. The Synchronizer guarantees last-issued-wins:
//
//	Issue()  -> ticket 1 ─────────────── slow ───────────────> Resolve: stale, dropped
//	Issue()  -> ticket 2 ──── fast ────> Resolve: applied
//
// Tickets come from a monotonically increasing counter. A result is applied
// only when its ticket equals the counter at resolution time. Nothing is
// aborted at the transport level; late results are discarded.
//
// # State transitions
//
//	idle|success|error --Issue--> loading
//	loading --Resolve(current, ok)--> success   (items, totals, page replaced together)
//	loading --Resolve(current, err)--> error    (previous items stay visible)
//
// On success the page number is clamped to [1, max(totalPages, 1)]. Configure
// clamps requested pages against the last known page count and, unless
// Options.KeepPageOnFilterChange is set, returns to page 1 whenever the
// filters differ from the previous ones.
//
// # Bubble Tea usage
//
// The UI issues inside Update, runs the fetch inside a tea.Cmd and applies the
// returned message back inside Update:
//
//	req := sync.Issue()
//	return func() tea.Msg { return resultMsg{sync.Run(ctx, req)} }
//	...
//	case resultMsg:
//		sync.Apply(msg.res)
package query
