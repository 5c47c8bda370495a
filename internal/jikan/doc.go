// Package jikan provides the REST client for the secondary catalog.
//
// It exposes search (free text, genre id, sort, content rating), the
// currently airing and this-season feeds, the overall top list, a
// single-title lookup, an episode-count-only lookup, and a total-count probe.
// Genre names are resolved through the genres index; a name that does not
// resolve is folded into the free-text query instead. Options allow tests to
// supply custom HTTP clients and disable request pacing.
package jikan
