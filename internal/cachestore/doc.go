// Package cachestore implements the TTL cache that sits in front of the
// upstream catalogs.
//
// A Store wraps a Medium (SQLite database, JSON file, or in-memory LRU) and
// stores JSON-encoded values stamped with their write time. Entries older than
// the configured TTL read as absent. Keys are built from a structured Key
// value so the same logical query always maps to the same string.
//
// Caching is an optimization only: every medium failure is logged and
// swallowed, never returned to callers of Get or Put.
package cachestore
