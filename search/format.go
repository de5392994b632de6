package search

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// WriteText renders a response for terminals. Warnings are not part of the
// rendering; callers surface those on stderr.
func WriteText(w io.Writer, resp *Response) error {
	var b strings.Builder

	if len(resp.Results) < resp.Total {
		fmt.Fprintf(&b, "Found %d hits (showing %d)\n", resp.Total, len(resp.Results))
	} else {
		fmt.Fprintf(&b, "Found %d hits\n", resp.Total)
	}

	for i, hit := range resp.Results {
		fmt.Fprintf(&b, "%d: [%0.3f] %s %s %s\n",
			i+1, hit.Score, hit.Type, hit.Timestamp.UTC().Format(time.RFC3339), hit.SessionID)
		fmt.Fprintf(&b, "   %s:%d\n", hit.File, hit.Line)
		writeIndented(&b, hit.Text, "   ")
		if hit.Response != nil {
			fmt.Fprintf(&b, "   response %s:%d\n", hit.Response.File, hit.Response.Line)
			writeIndented(&b, hit.Response.Text, "     ")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders a response as indented JSON followed by a newline.
func WriteJSON(w io.Writer, resp *Response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteStatsText renders stats for terminals, type counts sorted by name.
func WriteStatsText(w io.Writer, st *Stats) error {
	var b strings.Builder

	fmt.Fprintf(&b, "events:    %d\n", st.Events)
	fmt.Fprintf(&b, "documents: %d\n", st.Documents)
	fmt.Fprintf(&b, "sessions:  %d\n", st.Sessions)
	if !st.Earliest.IsZero() {
		fmt.Fprintf(&b, "earliest:  %s\n", st.Earliest.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "latest:    %s\n", st.Latest.UTC().Format(time.RFC3339))
	}

	if len(st.ByType) > 0 {
		types := make([]string, 0, len(st.ByType))
		width := 0
		for t := range st.ByType {
			types = append(types, t)
			if len(t) > width {
				width = len(t)
			}
		}
		sort.Strings(types)

		b.WriteString("by type:\n")
		for _, t := range types {
			fmt.Fprintf(&b, "  %-*s %d\n", width, t, st.ByType[t])
		}
	}

	if st.SkippedLines > 0 {
		fmt.Fprintf(&b, "skipped lines: %d\n", st.SkippedLines)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteStatsJSON renders stats as indented JSON followed by a newline.
func WriteStatsJSON(w io.Writer, st *Stats) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// writeIndented writes text with every line prefixed, normalizing the
// trailing newline.
func writeIndented(b *strings.Builder, text, prefix string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
