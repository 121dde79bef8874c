// Package ui is kiosk's Bubble Tea console.
//
// # Structure
//
//   - app.go: root Model, message routing, view switching, Run
//   - list.go: listView, a query.Synchronizer bound to a filter bar and a table
//   - pages.go: the five list views (orders, devices, groups, venues, reports)
//   - filters.go / table.go: filter bar and table rendering
//   - forms.go / gates.go / detail.go: modals for editing, confirming and
//     inspecting records
//   - header.go / monitor.go / toasts.go / help.go: chrome and overlays
//   - theme.go / style_helpers.go: palettes and background-safe rendering
//
// # Data flow
//
// Every list fetch runs as a tea.Cmd. The command carries the synchronizer
// ticket it was issued with and comes back as a listResultMsg; Update applies
// it, and a result whose ticket is no longer current is dropped:
//
//	load() -> sync.Issue() -> cmd: sync.Run(ctx, req)
//	                              |
//	Update(listResultMsg) -> sync.Apply(res) -> stale? drop : render
//
// Typing in a filter field bumps a per-view sequence and schedules a
// debounceMsg; only the latest sequence fetches. Invalid filter text is
// shown struck through and treated as absent.
//
// # Mutations
//
// Forms validate with package form before any request is made. Deletes and
// device moves go through a confirm.Gate; while a submission is outstanding
// the modal ignores keys, so a second submit or a dismissal cannot race the
// first. Each mutation ends in a mutationDoneMsg that raises a toast and
// reloads the affected lists.
//
// # Monitor
//
// The header and the monitor view read the state.Store snapshot written by
// the background poller in package app, refreshed on every UI tick.
package ui
