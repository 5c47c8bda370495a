// Package aggregator is the public entry point for catalog metadata.
//
// Every read operation follows the same shape: build a cache key from the
// logical query, return a cached value on hit, otherwise query the primary
// catalog, fall back to the secondary catalog on failure (and, under the
// default policy, on an empty result), normalize, and cache. Operations
// return values rather than errors; total unavailability of both catalogs
// degrades to empty lists, absent records, or default counts.
//
// Detail lookups additionally enrich primary records: a missing episode
// count is filled from the secondary catalog, and missing recommendations
// are back-filled from a same-genre, rating-sorted primary search.
package aggregator
