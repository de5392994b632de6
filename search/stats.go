package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/trawl/core"
	"github.com/poiesic/trawl/eventlog"
)

// Stats summarizes the filtered slice of the log without ranking anything.
type Stats struct {
	Events       int            `json:"events"`
	Documents    int            `json:"documents"`
	Sessions     int            `json:"sessions"`
	ByType       map[string]int `json:"by_type"`
	Earliest     time.Time      `json:"earliest"`
	Latest       time.Time      `json:"latest"`
	SkippedLines int            `json:"skipped_lines,omitempty"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// Stats streams the filtered events and aggregates counts. Query is not
// required; only the filter dimensions of opts are consulted.
func (s *Searcher) Stats(ctx context.Context, opts Options) (*Stats, error) {
	filter, err := opts.resolveFilter(s.now())
	if err != nil {
		return nil, err
	}

	st := &Stats{ByType: map[string]int{}}

	paths, err := eventlog.DiscoverRange(s.root, filter.From, filter.To)
	if err != nil {
		if errors.Is(err, eventlog.ErrLogDirUnavailable) {
			st.Warnings = append(st.Warnings, err.Error())
			return st, nil
		}
		return nil, err
	}
	reader, err := eventlog.NewReader(paths, eventlog.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]struct{})
	for ev := range reader.Events(ctx) {
		if !filter.Match(ev) {
			continue
		}
		st.Events++
		st.ByType[string(ev.Type)]++
		sessions[ev.SessionID] = struct{}{}
		if _, ok := core.BuildDocument(ev); ok {
			st.Documents++
		}
		if st.Earliest.IsZero() || ev.Timestamp.Before(st.Earliest) {
			st.Earliest = ev.Timestamp
		}
		if ev.Timestamp.After(st.Latest) {
			st.Latest = ev.Timestamp
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st.Sessions = len(sessions)
	report := reader.Report()
	st.SkippedLines = report.MalformedLines
	st.Warnings = append(st.Warnings, report.Warnings()...)
	return st, nil
}

// Collect returns the filtered text-bearing documents in log order, plus
// any read warnings. A positive Limit stops the stream early; zero means
// everything.
func (s *Searcher) Collect(ctx context.Context, opts Options) ([]core.Document, []string, error) {
	if opts.Limit < 0 {
		return nil, nil, fmt.Errorf("%w: limit %d", ErrBadLimit, opts.Limit)
	}
	filter, err := opts.resolveFilter(s.now())
	if err != nil {
		return nil, nil, err
	}

	paths, err := eventlog.DiscoverRange(s.root, filter.From, filter.To)
	if err != nil {
		if errors.Is(err, eventlog.ErrLogDirUnavailable) {
			return nil, []string{err.Error()}, nil
		}
		return nil, nil, err
	}
	reader, err := eventlog.NewReader(paths, eventlog.WithLogger(s.logger))
	if err != nil {
		return nil, nil, err
	}

	var docs []core.Document
	for ev := range reader.Events(ctx) {
		if !filter.Match(ev) {
			continue
		}
		if doc, ok := core.BuildDocument(ev); ok {
			docs = append(docs, doc)
			if opts.Limit > 0 && len(docs) == opts.Limit {
				break
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return docs, reader.Report().Warnings(), nil
}
