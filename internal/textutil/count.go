package textutil

import (
	"math"
	"strconv"
)

// FormatCount renders a count for compact display: values of 1000 and above
// are rounded to whole thousands ("18k"), smaller values are shown verbatim.
func FormatCount(n int) string {
	if n >= 1000 {
		return strconv.Itoa(int(math.Round(float64(n)/1000))) + "k"
	}
	return strconv.Itoa(n)
}
