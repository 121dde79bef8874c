// Package state shares the connection-health snapshot between the background
// poller and the UI.
//
// # Overview
//
// The poller writes the API health probe and the monitoring overview; the UI
// reads a Snapshot on every status tick to draw the header and the monitor
// view. List data does not live here: each list view owns a
// query.Synchronizer.
//
//	Poller                         UI
//	Health() + Overview()          store.Snapshot()
//	      |                              |
//	store.Update() ----(RWMutex)---> render header
//
// # Update semantics
//
//	store.Update(&health, &overview, nil)  // replace, reset failures
//	store.Update(nil, nil, err)            // keep data, record err, failures++
//
// Snapshot.IsOffline reports two or more consecutive failures, which the
// header renders as an offline badge. The zero Store is ready to use.
package state
