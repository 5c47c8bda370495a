// Package genres maps human-readable genre names to the secondary catalog's
// numeric genre identifiers.
package genres

import (
	"slices"

	"animeta/internal/textutil"
)

// Genre is one entry of the static index.
type Genre struct {
	Name    string
	JikanID int
	Adult   bool
}

var table = []Genre{
	{Name: "Action", JikanID: 1},
	{Name: "Adventure", JikanID: 2},
	{Name: "Comedy", JikanID: 4},
	{Name: "Drama", JikanID: 8},
	{Name: "Fantasy", JikanID: 10},
	{Name: "Horror", JikanID: 14},
	{Name: "Mystery", JikanID: 7},
	{Name: "Romance", JikanID: 22},
	{Name: "Sci-Fi", JikanID: 24},
	{Name: "Slice of Life", JikanID: 36},
	{Name: "Sports", JikanID: 30},
	{Name: "Supernatural", JikanID: 37},
	{Name: "Psychological", JikanID: 40},
	{Name: "Mecha", JikanID: 18},
	{Name: "Ecchi", JikanID: 9},
	{Name: "Hentai", JikanID: 12, Adult: true},
	{Name: "Harem", JikanID: 35},
	{Name: "Erotica", JikanID: 49, Adult: true},
	{Name: "Thriller", JikanID: 41},
	{Name: "Seinen", JikanID: 42},
	{Name: "Shoujo", JikanID: 25},
	{Name: "Shounen", JikanID: 27},
	{Name: "Josei", JikanID: 43},
}

var byFolded = func() map[string]Genre {
	m := make(map[string]Genre, len(table))
	for _, g := range table {
		m[textutil.Fold(g.Name)] = g
	}
	return m
}()

// All is the sentinel genre value meaning "no genre filter".
const All = "All"

// Lookup returns the index entry for name, matched case-insensitively.
func Lookup(name string) (Genre, bool) {
	g, ok := byFolded[textutil.Fold(name)]
	return g, ok
}

// ToProviderID returns the secondary catalog id for name.
func ToProviderID(name string) (int, bool) {
	g, ok := Lookup(name)
	if !ok {
		return 0, false
	}
	return g.JikanID, true
}

// Canonical returns the canonical spelling of name when it is a known genre.
func Canonical(name string) (string, bool) {
	g, ok := Lookup(name)
	if !ok {
		return "", false
	}
	return g.Name, true
}

// IsAdult reports whether name is an adult-oriented genre.
func IsAdult(name string) bool {
	g, ok := Lookup(name)
	return ok && g.Adult
}

// IsUnset reports whether genre carries no filter: empty or the All sentinel.
func IsUnset(genre string) bool {
	return textutil.Fold(genre) == "" || textutil.EqualFold(genre, All)
}

// Names returns the canonical genre names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(table))
	for _, g := range table {
		names = append(names, g.Name)
	}
	slices.Sort(names)
	return names
}
