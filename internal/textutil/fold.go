package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns a trimmed, case-folded form of s suitable for map lookups.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold reports whether a and b match after trimming and Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// TitleCase capitalizes each word, used for display of lowercase vocabulary values.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.ToLower(s))
}
