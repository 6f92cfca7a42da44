package match

import (
	"strings"
	"time"
)

// readingLayouts are the reading-time formats written by supported instruments.
var readingLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func parseReadingTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range readingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CompareTimes orders two reading-time strings. Values that parse are
// compared chronologically. Values that do not parse ("N/A", "Unknown", the
// undated sentinel) sort before every parsed value. Remaining ties fall back
// to plain string order, which keeps the ordering total.
func CompareTimes(a, b string) int {
	ta, okA := parseReadingTime(a)
	tb, okB := parseReadingTime(b)
	switch {
	case okA && okB:
		if c := ta.Compare(tb); c != 0 {
			return c
		}
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}

// LatestTime returns the later of two reading times under CompareTimes.
func LatestTime(a, b string) string {
	if CompareTimes(a, b) >= 0 {
		return a
	}
	return b
}
