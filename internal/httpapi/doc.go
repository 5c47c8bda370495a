// Package httpapi serves the aggregation facade as a read-only JSON API.
//
// Routes mirror the facade operations one to one. Handlers never surface
// provider failures: the facade already degrades them to empty lists,
// absent records, or default counts, so the only error responses are for
// malformed requests and unknown records.
package httpapi
