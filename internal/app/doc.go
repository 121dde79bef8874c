// Package app is kiosk's composition root.
//
// # Overview
//
// Run wires configuration, logging, the API client, the monitor poller and
// the UI together, then blocks in the Bubble Tea program until the operator
// quits or the context is cancelled.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()     config.toml plus CLI overrides
//	       ├─────> logging.Open()    zerolog file logger
//	       ├─────> prefs.Load()      theme, page size, last view
//	       ├─────> api.NewClient()   HTTP client for the admin API
//	       ├─────> StartPoller()     health + overview into state.Store
//	       └─────> ui.Run()          TUI (blocks)
//
// # Polling
//
// The poller fetches health and the monitoring overview concurrently on each
// cycle. A failure keeps the previous snapshot and increments the failure
// count; the delay before the next poll doubles per consecutive failure up to
// 30 seconds and drops back to the configured interval after a success.
//
// List views do not poll. They fetch on demand through their own query
// synchronizers inside the UI.
//
// # Errors
//
// Only an unreadable config or an unusable API base URL stops Run. A log file
// that cannot be opened disables logging; unreadable prefs fall back to
// defaults.
package app
