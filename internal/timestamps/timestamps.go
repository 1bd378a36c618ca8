// Package timestamps parses operator-supplied clip timestamp ranges.
package timestamps

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is one clip window in seconds.
type Range struct {
	Start float64
	End   float64
}

func (r Range) String() string {
	return fmt.Sprintf("%.1fs - %.1fs", r.Start, r.End)
}

// Duration returns the window length in seconds.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// Parse parses a comma-separated list of "start-end" pairs, e.g.
// "10.0-25.0,45.0-60.0". Malformed or inverted segments are skipped and
// reported as warnings; valid ranges keep their input order.
func Parse(raw string) ([]Range, []string) {
	var ranges []Range
	var warnings []string

	for _, segment := range strings.Split(raw, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		parts := strings.SplitN(segment, "-", 2)
		if len(parts) != 2 {
			warnings = append(warnings, fmt.Sprintf("invalid timestamp format %q, skipping", segment))
			continue
		}

		start, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		end, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			warnings = append(warnings, fmt.Sprintf("non-numeric timestamp in %q, skipping", segment))
			continue
		}
		if start >= end {
			warnings = append(warnings, fmt.Sprintf("start >= end in %q, skipping", segment))
			continue
		}

		ranges = append(ranges, Range{Start: start, End: end})
	}

	return ranges, warnings
}

// Pairs converts ranges to the [start, end] tuples the stream API expects.
func Pairs(ranges []Range) [][2]float64 {
	pairs := make([][2]float64, len(ranges))
	for i, r := range ranges {
		pairs[i] = [2]float64{r.Start, r.End}
	}
	return pairs
}
