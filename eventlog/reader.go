package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/trawl/core"
)

// maxLineBytes bounds a single log line. Tool output payloads can get large;
// a line beyond this aborts the file with a read failure.
const maxLineBytes = 10 * 1024 * 1024

// Reader streams events from a fixed list of log files.
type Reader struct {
	paths  []string
	logger *slog.Logger

	report Report
}

// Option configures a Reader.
type Option func(*Reader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReader creates a reader over the given log files. An empty path list is
// valid and yields no events.
func NewReader(paths []string, opts ...Option) (*Reader, error) {
	r := &Reader{
		paths:  paths,
		logger: slog.Default().With("component", "eventlog"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Events returns a lazy sequence of the events in the reader's files, in
// file-then-line order. The sequence is restartable: each range over it
// re-opens the files and resets the report. Malformed lines are skipped and
// counted; an unreadable file is recorded and the remaining files still
// stream.
func (r *Reader) Events(ctx context.Context) iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		r.report = Report{}
		for _, path := range r.paths {
			if ctx.Err() != nil {
				return
			}
			if !r.scanFile(path, yield) {
				return
			}
		}
	}
}

// Report returns the recovery counters of the most recent iteration.
func (r *Reader) Report() Report {
	return r.report
}

// scanFile streams one file. Returns false when the consumer stopped early.
func (r *Reader) scanFile(path string, yield func(core.Event) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		r.report.FailedFiles = append(r.report.FailedFiles, path)
		r.logger.Warn("skipping unreadable log file", "path", path, "err", err)
		return true
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var ev core.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			r.report.MalformedLines++
			r.logger.Debug("skipping malformed log line", "path", path, "line", line, "err", err)
			continue
		}
		if err := core.ValidateEvent(&ev); err != nil {
			r.report.MalformedLines++
			r.logger.Debug("skipping invalid event", "path", path, "line", line, "err", err)
			continue
		}

		ev.File = path
		ev.Line = line
		ev.Timestamp = ev.Timestamp.UTC()
		if !yield(ev) {
			return false
		}
	}

	if err := scanner.Err(); err != nil {
		r.report.FailedFiles = append(r.report.FailedFiles, path)
		r.logger.Warn("error while reading log file", "path", path, "err", err)
	}
	return true
}

// Report carries the local-recovery counters of one read pass.
type Report struct {
	// MalformedLines counts skipped lines across all files: invalid JSON
	// and events failing validation.
	MalformedLines int

	// FailedFiles lists files that could not be opened or fully read.
	FailedFiles []string
}

// Warnings renders the report as user-facing warning lines. An empty report
// yields nil.
func (rep Report) Warnings() []string {
	var warnings []string
	if rep.MalformedLines > 0 {
		warnings = append(warnings, fmt.Sprintf("skipped %d malformed log line(s)", rep.MalformedLines))
	}
	for _, path := range rep.FailedFiles {
		warnings = append(warnings, "unreadable log file: "+path)
	}
	return warnings
}
