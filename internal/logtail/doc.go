// Package logtail reads the tail of kiosk's own log file for `kiosk logs`.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries, so only the tail stays in
// memory however large the file grows:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// A missing file returns nil, nil: a console that never ran has no log yet.
// Other errors (permission denied, I/O errors) are returned wrapped.
//
// # Rendering
//
// The log file holds zerolog JSON events. Render passes each through
// zerolog.ConsoleWriter so the output matches what `kiosk mock` prints, and
// copies any non-JSON line unchanged:
//
//	12:01:05 INF list fetch failed component=ui error="..." view=orders
//
// Options.MinLevel filters by the event's "level" field.
package logtail
