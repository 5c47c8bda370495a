// Package anilist provides the GraphQL client for the primary catalog.
//
// Each exported operation issues one fixed, named query document (total
// count probe, search, trending, seasonal, top rated, detail by id) and
// decodes the response into explicit structs. Failures are tagged with the
// services error markers; an empty page is reported as
// services.ErrEmptyResult so callers can treat it like any other failure.
// The client never retries and never falls back to another catalog.
package anilist
