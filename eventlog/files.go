package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// dateDirLayout names one directory per calendar day. Files inside start
// with the session's time of day followed by a short session-id prefix,
// e.g. 2026-08-21/143005-a1b2c3d4.jsonl, so lexicographic path order is
// chronological order.
const dateDirLayout = "2006-01-02"

// logExt is the extension of session log files.
const logExt = ".jsonl"

// Discover returns every session log file under root, sorted.
func Discover(root string) ([]string, error) {
	return DiscoverRange(root, time.Time{}, time.Time{})
}

// DiscoverRange returns the session log files under root whose date
// directory can intersect the inclusive [from, to] range. Zero bounds are
// open ends. Directories that do not parse as a calendar date and files
// without the log extension are ignored.
//
// Pruning is day-granular: a file inside an included directory may still
// hold events outside the range, so callers must filter per event.
func DiscoverRange(root string, from, to time.Time) ([]string, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogDirUnavailable, err)
	}

	var paths []string
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		day, err := time.ParseInLocation(dateDirLayout, d.Name(), time.UTC)
		if err != nil {
			continue
		}
		if !dayIntersects(day, from, to) {
			continue
		}

		files, err := os.ReadDir(filepath.Join(root, d.Name()))
		if err != nil {
			// Directory vanished or turned unreadable between the two
			// reads; per-file failures are reported by Reader instead.
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), logExt) {
				continue
			}
			paths = append(paths, filepath.Join(root, d.Name(), f.Name()))
		}
	}

	slices.Sort(paths)
	return paths, nil
}

// dayIntersects reports whether the calendar day starting at day (UTC)
// overlaps the inclusive [from, to] range.
func dayIntersects(day, from, to time.Time) bool {
	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)
	if !from.IsZero() && dayEnd.Before(from) {
		return false
	}
	if !to.IsZero() && dayStart.After(to) {
		return false
	}
	return true
}
