// Package period partitions inclusive calendar date ranges into
// reporting sub-periods. Pure date arithmetic, no I/O.
package period

import (
	"time"

	"barback/internal/core/apperror"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Granularity is the calendar bucket size used for breakdown reporting.
type Granularity string

const (
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// Granularities lists all partitionable granularities in breakdown order.
var Granularities = []Granularity{Daily, Weekly, Monthly, Quarterly, Yearly}

// Range is an inclusive pair of calendar dates (UTC midnight).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls within the range.
func (r Range) Contains(t time.Time) bool {
	d := Normalize(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ParseDate parses a YYYY-MM-DD date string into UTC midnight.
// Malformed input yields an InvalidDateRange error.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewInvalidDateRange(s).WithCause(err)
	}
	return t.UTC(), nil
}

// ParseRange parses a start/end date string pair. An inverted range
// (start after end) is not an error: partitioning yields an empty sequence.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Normalize truncates t to its UTC calendar date.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders t as a YYYY-MM-DD date string.
func Format(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Partition produces the ordered sub-ranges of [start, end] for the given
// granularity. An inverted range produces an empty sequence.
func Partition(g Granularity, start, end time.Time) []Range {
	switch g {
	case Daily:
		return Days(start, end)
	case Weekly:
		return Weeks(start, end)
	case Monthly:
		return Months(start, end)
	case Quarterly:
		return Quarters(start, end)
	case Yearly:
		return Years(start, end)
	}
	return nil
}

// Days emits one range per calendar day.
func Days(start, end time.Time) []Range {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return []Range{}
	}
	var out []Range
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Range{Start: d, End: d})
	}
	return out
}

// Weeks emits Sunday-anchored weeks. The first week's start is clamped
// backward to the most recent Sunday on or before start, so it may precede
// start; every week's end is clamped to end. This anchoring is deliberate:
// weekly figures always describe whole retail weeks.
func Weeks(start, end time.Time) []Range {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return []Range{}
	}
	var out []Range
	ws := start.AddDate(0, 0, -int(start.Weekday()))
	for ; !ws.After(end); ws = ws.AddDate(0, 0, 7) {
		we := ws.AddDate(0, 0, 6)
		if we.After(end) {
			we = end
		}
		out = append(out, Range{Start: ws, End: we})
	}
	return out
}

// Months emits calendar months. The first sub-period starts at start itself
// and subsequent ones on the 1st; each month's end is the last day of the
// month, clamped to end.
func Months(start, end time.Time) []Range {
	return anchored(start, end,
		func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		},
		func(anchor time.Time) time.Time {
			return anchor.AddDate(0, 1, 0)
		})
}

// Quarters emits calendar quarters anchored to Jan/Apr/Jul/Oct.
func Quarters(start, end time.Time) []Range {
	return anchored(start, end,
		func(t time.Time) time.Time {
			qm := time.Month((int(t.Month())-1)/3*3 + 1)
			return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
		},
		func(anchor time.Time) time.Time {
			return anchor.AddDate(0, 3, 0)
		})
}

// Years emits calendar years anchored to Jan 1.
func Years(start, end time.Time) []Range {
	return anchored(start, end,
		func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		},
		func(anchor time.Time) time.Time {
			return anchor.AddDate(1, 0, 0)
		})
}

// anchored walks an anchor grid (month/quarter/year starts) across the
// range. The first emitted start is clamped forward to start so the
// concatenation covers exactly [start, end]; the last end is clamped to end.
func anchored(start, end time.Time, anchorOf func(time.Time) time.Time, next func(time.Time) time.Time) []Range {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return []Range{}
	}
	var out []Range
	for anchor := anchorOf(start); !anchor.After(end); anchor = next(anchor) {
		subStart := anchor
		if subStart.Before(start) {
			subStart = start
		}
		subEnd := next(anchor).AddDate(0, 0, -1)
		if subEnd.After(end) {
			subEnd = end
		}
		out = append(out, Range{Start: subStart, End: subEnd})
	}
	return out
}
