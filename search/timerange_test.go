package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnchor(t *testing.T) {
	now := time.Date(2026, 8, 21, 15, 30, 45, 0, time.UTC)

	endOfDay := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
	}

	tests := []struct {
		name  string
		value string
		end   bool
		want  time.Time
	}{
		{"today start", "today", false, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{"today end", "today", true, endOfDay(2026, 8, 21)},
		{"yesterday start", "yesterday", false, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"yesterday end", "yesterday", true, endOfDay(2026, 8, 20)},
		{"days ago start", "3 days ago", false, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)},
		{"days ago end", "3 days ago", true, endOfDay(2026, 8, 18)},
		{"zero days ago is today", "0 days ago", false, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{"one day ago singular", "1 day ago", false, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"date start", "2026-07-04", false, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)},
		{"date end", "2026-07-04", true, endOfDay(2026, 7, 4)},
		{"datetime seconds", "2026-07-04 09:30:15", false, time.Date(2026, 7, 4, 9, 30, 15, 0, time.UTC)},
		{"datetime minutes", "2026-07-04 09:30", true, time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC)},
		{"rfc3339 utc", "2026-07-04T09:30:15Z", false, time.Date(2026, 7, 4, 9, 30, 15, 0, time.UTC)},
		{"rfc3339 offset converts to utc", "2026-07-04T09:30:15+02:00", false, time.Date(2026, 7, 4, 7, 30, 15, 0, time.UTC)},
		{"keywords are case insensitive", "Today", false, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{"surrounding whitespace ignored", "  yesterday  ", false, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAnchor(tt.value, now, tt.end)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	t.Run("explicit timestamps ignore the end flag", func(t *testing.T) {
		start, err := ResolveAnchor("2026-07-04 09:30:15", now, false)
		require.NoError(t, err)
		end, err := ResolveAnchor("2026-07-04 09:30:15", now, true)
		require.NoError(t, err)
		assert.True(t, start.Equal(end))
	})

	t.Run("invalid anchors", func(t *testing.T) {
		invalid := []string{
			"",
			"   ",
			"tomorrow",
			"three days ago",
			"-1 days ago",
			"3 days",
			"days ago",
			"2026-13-40",
			"not a date",
		}
		for _, v := range invalid {
			_, err := ResolveAnchor(v, now, false)
			require.ErrorIs(t, err, ErrBadAnchor, "value %q", v)
		}
	})
}
