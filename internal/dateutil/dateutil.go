// Package dateutil provides calendar-day arithmetic for the training
// engine. All functions work on calendar dates, never wall-clock hours:
// crossing midnight always counts as advancing exactly one day.
package dateutil

import (
	"math"
	"time"
)

// ISODay is the date layout used for cache keys, completion markers,
// and weekly maps. Lexicographic order on this layout is date order.
const ISODay = "2006-01-02"

// StartOfDay truncates t to midnight in its own location.
// time.Time.Truncate would truncate against UTC, which shifts the
// calendar day for non-UTC users.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the calendar-day difference b - a, ignoring
// time-of-day. Rounding absorbs DST transitions (23h/25h days).
func DaysBetween(a, b time.Time) int {
	d := StartOfDay(b).Sub(StartOfDay(a))
	return int(math.Round(d.Hours() / 24))
}

// FormatISO renders t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISODay)
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISODay, s)
}

// IsNextDay reports whether cur is exactly one calendar day after prev.
// Both arguments are YYYY-MM-DD strings; malformed input is never a
// consecutive day.
func IsNextDay(prev, cur string) bool {
	p, err := ParseISO(prev)
	if err != nil {
		return false
	}
	c, err := ParseISO(cur)
	if err != nil {
		return false
	}
	return DaysBetween(p, c) == 1
}

// LastNDays returns the n calendar days ending at today (inclusive),
// oldest first, as YYYY-MM-DD strings.
func LastNDays(today time.Time, n int) []string {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, FormatISO(today.AddDate(0, 0, -i)))
	}
	return days
}
