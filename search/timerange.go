package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// timestampLayouts are the absolute non-day-granular forms accepted by
// ResolveAnchor, tried in order. Naked layouts are read as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ResolveAnchor turns a user-supplied time anchor into a concrete UTC
// instant. Relative anchors ("today", "yesterday", "N days ago") and plain
// dates are day-granular: they expand to the start of the day, or to the end
// of the day when end is true, so an inclusive range covers whole days.
func ResolveAnchor(value string, now time.Time, end bool) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrBadAnchor)
	}
	now = now.UTC()

	switch strings.ToLower(trimmed) {
	case "today":
		return dayAnchor(now, 0, end), nil
	case "yesterday":
		return dayAnchor(now, -1, end), nil
	}
	if days, ok := parseDaysAgo(strings.ToLower(trimmed)); ok {
		return dayAnchor(now.AddDate(0, 0, -days), 0, end), nil
	}

	if t, err := time.ParseInLocation(dateOnlyLayout, trimmed, time.UTC); err == nil {
		return dayAnchor(t, 0, end), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadAnchor, value)
}

// dayAnchor returns the start of t's day shifted by offsetDays, or the last
// instant of that day when end is true.
func dayAnchor(t time.Time, offsetDays int, end bool) time.Time {
	day := t.AddDate(0, 0, offsetDays)
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if end {
		return start.Add(24*time.Hour - time.Nanosecond)
	}
	return start
}

// parseDaysAgo matches "N days ago" (and "1 day ago").
func parseDaysAgo(v string) (int, bool) {
	fields := strings.Fields(v)
	if len(fields) != 3 || fields[2] != "ago" {
		return 0, false
	}
	if fields[1] != "day" && fields[1] != "days" {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
