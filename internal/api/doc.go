// Package api provides the HTTP client for the admin REST API.
//
// # Overview
//
// Every response is wrapped in an envelope:
//
//	{"success": true, "err_code": 0, "err_message": "", "data": ...}
//
// List endpoints put paging metadata next to data (total, page_size,
// has_more, current_page, total_pages). The list wrappers (ListOrders,
// ListDevices, ...) return query.Page values and have the query.FetchFunc
// shape, so a list view hands them to a query.Synchronizer unchanged.
//
// # Query strings
//
// Filter structs carry `url` tags and are encoded with gorilla/schema. Zero
// values are dropped, so an absent filter never reaches the server.
// Timestamps use the server's "2006-01-02 15:04:05" layout.
//
// # Mutations
//
// Create, update and reassign calls accept only form.Valid payloads; an
// unvalidated struct cannot be sent.
//
// # Errors
//
//   - *TransportError: connection failures, non-2xx statuses, bad bodies
//   - *EnvelopeError: a decoded envelope with success=false
//
// Both are wrapped with github.com/pkg/errors. Message maps any error to the
// text shown to the operator: the server's err_message when present,
// "request failed" for an empty one, and a generic network message for
// transport failures.
//
// # Base URL
//
// NewClient accepts "host:port" or a full URL. The scheme defaults to http and
// any path, query or fragment is dropped.
package api
