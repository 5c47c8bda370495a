package textutil

import "unicode/utf16"

// StableID derives a non-negative pseudo-numeric identifier from s using the
// 31-multiplier string hash over UTF-16 code units. Callers holding only a
// title use it where a numeric id is required; provider ids always win.
func StableID(s string) int {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	if h < 0 {
		return -int(h)
	}
	return int(h)
}
