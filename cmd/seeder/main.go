package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/trawl/core"
)

var prompts = []string{
	"Why does the scheduler drop jobs when the queue is full?",
	"Refactor the config loader so it stops mutating shared state.",
	"Add a retry with backoff around the S3 upload.",
	"The deploy failed with a TLS handshake timeout, can you investigate?",
	"Write a migration that backfills the created_at column.",
	"Rename the billing service package without breaking imports.",
	"Summarize what changed in the auth middleware last week.",
	"The integration tests hang on CI but pass locally.",
	"Rotate the API keys and update the secrets manifest.",
	"Profile the indexer and find where the allocations come from.",
	"Explain the difference between the two cache eviction paths.",
	"Add pagination to the audit log endpoint.",
	"Why is the worker pool leaking goroutines after shutdown?",
	"Convert the YAML fixtures to JSON and update the loader.",
	"Draft release notes for the storage engine changes.",
	"The parser rejects timestamps with fractional seconds.",
	"Set up a health check that verifies the broker connection.",
	"Trace the request path from the gateway to the shard router.",
	"Remove the deprecated v1 handlers and their tests.",
	"Why does the snapshot restore take twice as long on the replica?",
	"Add structured logging to the ingestion pipeline.",
	"The rate limiter lets through bursts larger than the configured cap.",
	"Compare the memory footprint before and after the arena change.",
	"Wire the new embedding endpoint into the search service.",
	"Fix the off by one in the sliding window counter.",
	"Document the handshake sequence for the replication protocol.",
	"The linter flags the generated files, exclude them.",
	"Batch the writes to the metadata table.",
	"Why do we fsync twice on every checkpoint?",
	"Move the feature flags out of the environment and into the config file.",
}

var responses = []string{
	"The queue rejects new jobs once the ring buffer wraps; raising the watermark fixes it.",
	"Done. The loader now copies the map before applying overrides.",
	"Added exponential backoff with three attempts and jitter.",
	"The handshake times out because the proxy strips the SNI header.",
	"The migration backfills in batches of one thousand rows to avoid locking.",
	"Renamed the package and updated fourteen import sites.",
	"The middleware now rejects tokens without an audience claim.",
	"CI runs with two cores, so the deadlock only reproduces there.",
	"Keys rotated. The old ones stay valid until midnight.",
	"Most allocations come from the tokenizer rebuilding its buffer per document.",
	"The hot path evicts lazily, the background sweep evicts by age.",
	"The endpoint now accepts a cursor and returns the next page token.",
	"The pool waited on a channel nobody closed. Shutdown now cancels the context.",
	"Converted the fixtures and deleted the YAML parser dependency.",
	"Notes drafted, the compaction change gets top billing.",
	"The parser now accepts RFC 3339 with up to nine fractional digits.",
	"The health check pings the broker and reports round trip time.",
	"The gateway forwards to the router, which fans out by shard key.",
	"Removed the handlers, the tests, and two unused fixtures.",
	"The replica rebuilds its bloom filters during restore, the primary keeps its warm.",
	"Every stage now logs with the pipeline id and batch number.",
	"The limiter refilled on the wrong clock. Bursts now cap at the configured size.",
	"The arena halves steady state usage at the cost of slower startup.",
	"The search service now calls the endpoint with a five second budget.",
	"The window dropped the oldest bucket one tick early. Fixed and tested.",
}

var toolNames = []string{"read_file", "grep", "bash", "edit_file", "list_dir"}

var toolPaths = []string{
	"internal/server/router.go",
	"internal/storage/checkpoint.go",
	"cmd/gateway/main.go",
	"config/production.toml",
	"pkg/limiter/window.go",
}

var (
	dstDir   = flag.String("dst", "./sessions", "directory to write session logs into")
	srcFile  = flag.String("src", "", "file of prompt lines, one per line")
	days     = flag.Int("days", 7, "number of days to backfill")
	sessions = flag.Int("sessions", 3, "sessions per day")
	seed     = flag.Int64("seed", 1, "random seed")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

func collect(source iter.Seq[string]) []string {
	var out []string
	for line := range source {
		out = append(out, line)
	}
	return out
}

type generator struct {
	rng       *rand.Rand
	prompts   []string
	responses []string
}

func (g *generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

// session builds one session's events starting at a slot within the day,
// so files within a day sort chronologically by name.
func (g *generator) session(day time.Time, num int) (string, []core.Event) {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := midnight.Add(8*time.Hour +
		time.Duration(num)*90*time.Minute +
		time.Duration(g.rng.Intn(30))*time.Minute +
		time.Duration(g.rng.Intn(60))*time.Second)

	id := fmt.Sprintf("%08x-%04x", g.rng.Uint32(), g.rng.Intn(0x10000))
	name := fmt.Sprintf("%s-%s.jsonl", start.Format("150405"), id[:8])

	ts := start
	step := func() time.Time {
		ts = ts.Add(time.Duration(2+g.rng.Intn(40)) * time.Second)
		return ts
	}
	event := func(typ core.EventType, data map[string]any) core.Event {
		return core.Event{Type: typ, Timestamp: step(), SessionID: id, Data: data}
	}

	events := []core.Event{{
		Type:      core.EventSessionStart,
		Timestamp: start,
		SessionID: id,
		Data:      map[string]any{"model": "qwen3:8b", "cwd": "/home/dev/project"},
	}}

	turns := 2 + g.rng.Intn(4)
	for i := 0; i < turns; i++ {
		events = append(events, event(core.EventPrompt, map[string]any{
			"prompt": g.pick(g.prompts),
		}))

		if g.rng.Intn(10) < 3 {
			tool := g.pick(toolNames)
			events = append(events, event(core.EventToolPre, map[string]any{
				"tool_name":  tool,
				"tool_input": map[string]any{"path": g.pick(toolPaths)},
			}))
			events = append(events, event(core.EventToolPost, map[string]any{
				"tool_name":     tool,
				"tool_response": map[string]any{"output": g.pick(g.responses)},
			}))
		}

		events = append(events, event(core.EventResponse, map[string]any{
			"text": g.pick(g.responses),
		}))
	}

	events = append(events, event(core.EventSessionEnd, map[string]any{"reason": "exit"}))
	return name, events
}

func writeSession(dir, name string, events []core.Event) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return w.Flush()
}

func main() {
	promptLines := prompts
	if *srcFile != "" {
		source, err := linesFromFile(*srcFile)
		if err != nil {
			panic(err)
		}
		promptLines = collect(source)
	}

	g := &generator{
		rng:       rand.New(rand.NewSource(*seed)),
		prompts:   promptLines,
		responses: responses,
	}

	now := time.Now().UTC()
	total := 0
	for d := *days - 1; d >= 0; d-- {
		day := now.AddDate(0, 0, -d)
		dir := filepath.Join(*dstDir, day.Format("2006-01-02"))
		for s := 0; s < *sessions; s++ {
			name, events := g.session(day, s)
			if err := writeSession(dir, name, events); err != nil {
				panic(err)
			}
			total += len(events)
		}
	}

	slog.Info("seeded session logs", "dir", *dstDir, "days", *days, "events", total)
}
