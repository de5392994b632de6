package search

import (
	"strings"
	"time"

	"github.com/poiesic/trawl/core"
)

// Filter narrows events before any scoring happens. Zero values leave a
// dimension open: a nil Type matches every type, an empty SessionPrefix
// matches every session, and zero From/To leave that end of the time range
// unbounded.
type Filter struct {
	Type          *core.EventType
	SessionPrefix string
	From          time.Time
	To            time.Time
}

// Match reports whether ev passes every configured dimension. The time
// range is inclusive on both ends; event timestamps are already UTC by the
// time the reader hands them over.
func (f Filter) Match(ev core.Event) bool {
	if f.Type != nil && ev.Type != *f.Type {
		return false
	}
	if f.SessionPrefix != "" && !strings.HasPrefix(ev.SessionID, f.SessionPrefix) {
		return false
	}
	if !f.From.IsZero() && ev.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ev.Timestamp.After(f.To) {
		return false
	}
	return true
}
