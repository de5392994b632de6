package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/trawl/core"
	"github.com/poiesic/trawl/search"
)

// testAppEnv builds the real app with throwaway default paths. Command
// runs still pass --log-dir and --cache-file explicitly so ambient
// TRAWL_* environment variables cannot leak into a test.
func testAppEnv(t *testing.T) (*cli.App, string, string) {
	t.Helper()

	logDir := t.TempDir()
	cachePath := filepath.Join(t.TempDir(), "summaries.cache")
	return newApp(logDir, cachePath), logDir, cachePath
}

func writeSessionFile(t *testing.T, root, day, name string, lines ...string) {
	t.Helper()

	dir := filepath.Join(root, day)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func seedLogs(t *testing.T, logDir string) {
	t.Helper()

	writeSessionFile(t, logDir, "2026-08-20", "100000-sess-a.jsonl",
		`{"type":"prompt","ts":"2026-08-20T10:00:00Z","session_id":"sess-a","data":{"prompt":"rotate the api keys quarterly"}}`,
		`{"type":"response","ts":"2026-08-20T10:00:05Z","session_id":"sess-a","data":{"text":"use the rotation runbook"}}`,
	)
	writeSessionFile(t, logDir, "2026-08-20", "110000-sess-b.jsonl",
		`{"type":"prompt","ts":"2026-08-20T11:00:00Z","session_id":"sess-b","data":{"prompt":"draft the launch announcement"}}`,
	)
}

// captureStdout swaps os.Stdout around fn and returns what it printed,
// together with fn's error so callers assert on both.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	runErr := fn()
	require.NoError(t, w.Close())
	os.Stdout = old
	return <-done, runErr
}

func stringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("string flag %q not found", name)
	return nil
}

func intFlag(t *testing.T, flags []cli.Flag, name string) *cli.IntFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("int flag %q not found", name)
	return nil
}

func float64Flag(t *testing.T, flags []cli.Flag, name string) *cli.Float64Flag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.Float64Flag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("float64 flag %q not found", name)
	return nil
}

func boolFlag(t *testing.T, flags []cli.Flag, name string) *cli.BoolFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.BoolFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("bool flag %q not found", name)
	return nil
}

func durationFlag(t *testing.T, flags []cli.Flag, name string) *cli.DurationFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.DurationFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("duration flag %q not found", name)
	return nil
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestAppFlags(t *testing.T) {
	app := newApp("/srv/logs", "/srv/cache/summaries.cache")

	t.Run("log-level defaults to info with alias l", func(t *testing.T) {
		f := stringFlag(t, app.Flags, "log-level")
		assert.Equal(t, "info", f.Value)
		assert.Equal(t, []string{"l"}, f.Aliases)
	})

	t.Run("log-dir carries the computed default and env var", func(t *testing.T) {
		f := stringFlag(t, app.Flags, "log-dir")
		assert.Equal(t, "/srv/logs", f.Value)
		assert.Equal(t, []string{"d"}, f.Aliases)
		assert.Equal(t, []string{"TRAWL_LOG_DIR"}, f.EnvVars)
	})

	t.Run("cache-file carries the computed default and env var", func(t *testing.T) {
		f := stringFlag(t, app.Flags, "cache-file")
		assert.Equal(t, "/srv/cache/summaries.cache", f.Value)
		assert.Equal(t, []string{"TRAWL_CACHE_FILE"}, f.EnvVars)
	})

	t.Run("embed-url defaults empty", func(t *testing.T) {
		f := stringFlag(t, app.Flags, "embed-url")
		assert.Empty(t, f.Value)
		assert.Equal(t, []string{"TRAWL_EMBED_URL"}, f.EnvVars)
	})

	t.Run("model flags carry the stock defaults", func(t *testing.T) {
		assert.Equal(t, "nomic-embed-text", stringFlag(t, app.Flags, "embed-model").Value)
		assert.Equal(t, "qwen2.5:3b", stringFlag(t, app.Flags, "summary-model").Value)
	})

	t.Run("timeout defaults to 30s", func(t *testing.T) {
		f := durationFlag(t, app.Flags, "timeout")
		assert.Equal(t, 30*time.Second, f.Value)
	})
}

func TestSearchCommandFlags(t *testing.T) {
	app := newApp("/srv/logs", "/srv/cache/summaries.cache")
	cmd := findCommand(t, app, "search")

	t.Run("weight defaults to the fusion default", func(t *testing.T) {
		f := float64Flag(t, cmd.Flags, "weight")
		assert.Equal(t, search.DefaultWeight, f.Value)
	})

	t.Run("limit defaults to the search default with alias n", func(t *testing.T) {
		f := intFlag(t, cmd.Flags, "limit")
		assert.Equal(t, search.DefaultLimit, f.Value)
		assert.Equal(t, []string{"n"}, f.Aliases)
	})

	t.Run("offset defaults to zero", func(t *testing.T) {
		assert.Equal(t, 0, intFlag(t, cmd.Flags, "offset").Value)
	})

	t.Run("format defaults to text with alias f", func(t *testing.T) {
		f := stringFlag(t, cmd.Flags, "format")
		assert.Equal(t, "text", f.Value)
		assert.Equal(t, []string{"f"}, f.Aliases)
	})

	t.Run("filter flags have short aliases", func(t *testing.T) {
		assert.Equal(t, []string{"t"}, stringFlag(t, cmd.Flags, "type").Aliases)
		assert.Equal(t, []string{"s"}, stringFlag(t, cmd.Flags, "session").Aliases)
	})

	t.Run("mode switches are present", func(t *testing.T) {
		for _, name := range []string{"semantic", "full", "highlight", "pairs"} {
			boolFlag(t, cmd.Flags, name)
		}
	})
}

func TestSearchCommand(t *testing.T) {
	app, logDir, cachePath := testAppEnv(t)
	seedLogs(t, logDir)
	base := []string{"trawl", "--log-dir", logDir, "--cache-file", cachePath}

	t.Run("json output round-trips the response", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "--format", "json", "rotate", "keys"))
		})
		require.NoError(t, err)

		var resp search.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "rotate keys", resp.Query)
		assert.Equal(t, 1, resp.Total)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, core.EventPrompt, resp.Results[0].Type)
		assert.Equal(t, "sess-a", resp.Results[0].SessionID)
		assert.Contains(t, resp.Results[0].Text, "rotate the api keys")
	})

	t.Run("text output lists hits", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "rotate", "keys"))
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Found 1 hits")
		assert.Contains(t, out, "rotate the api keys quarterly")
	})

	t.Run("pairs mode attaches the following response", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "--pairs", "--format", "json", "rotate", "keys"))
		})
		require.NoError(t, err)

		var resp search.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.Results, 1)
		require.NotNil(t, resp.Results[0].Response)
		assert.Equal(t, "use the rotation runbook", resp.Results[0].Response.Text)
	})

	t.Run("semantic mode runs on the local embedder", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "--semantic", "--weight", "0.4", "--format", "json", "rotate", "keys"))
		})
		require.NoError(t, err)

		var resp search.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("missing query returns error", func(t *testing.T) {
		_, err := captureStdout(t, func() error {
			return app.Run(append(base, "search"))
		})
		require.ErrorIs(t, err, search.ErrEmptyQuery)
	})

	t.Run("unknown type returns error", func(t *testing.T) {
		_, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "--type", "bogus", "rotate"))
		})
		require.ErrorIs(t, err, core.ErrUnknownEventType)
	})

	t.Run("invalid format returns error", func(t *testing.T) {
		_, err := captureStdout(t, func() error {
			return app.Run(append(base, "search", "--format", "yaml", "rotate"))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}

func TestStatsCommand(t *testing.T) {
	app, logDir, cachePath := testAppEnv(t)
	seedLogs(t, logDir)
	base := []string{"trawl", "--log-dir", logDir, "--cache-file", cachePath}

	t.Run("json output counts the corpus", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "stats", "--format", "json"))
		})
		require.NoError(t, err)

		var st search.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &st))
		assert.Equal(t, 3, st.Events)
		assert.Equal(t, 3, st.Documents)
		assert.Equal(t, 2, st.Sessions)
		assert.Equal(t, 2, st.ByType["prompt"])
		assert.Equal(t, 1, st.ByType["response"])
	})

	t.Run("text output renders counters", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "stats"))
		})
		require.NoError(t, err)
		assert.Contains(t, out, "events:    3")
		assert.Contains(t, out, "sessions:  2")
	})

	t.Run("type filter narrows the counts", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "stats", "--type", "response", "--format", "json"))
		})
		require.NoError(t, err)

		var st search.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &st))
		assert.Equal(t, 1, st.Events)
		assert.Equal(t, 1, st.Sessions)
	})
}

func TestSummarizeCommand(t *testing.T) {
	app, logDir, cachePath := testAppEnv(t)
	seedLogs(t, logDir)
	base := []string{"trawl", "--log-dir", logDir, "--cache-file", cachePath}

	out, err := captureStdout(t, func() error {
		return app.Run(append(base, "summarize"))
	})
	require.NoError(t, err)

	// One line per document, in log order: hash, type, summary.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^[0-9a-f]{32} prompt rotate the api keys quarterly$`, lines[0])
	assert.Regexp(t, `^[0-9a-f]{32} response use the rotation runbook$`, lines[1])
	assert.Regexp(t, `^[0-9a-f]{32} prompt draft the launch announcement$`, lines[2])

	t.Run("summaries land in the cache", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "cache", "info"))
		})
		require.NoError(t, err)
		assert.Contains(t, out, "entries: 3")
		assert.Contains(t, out, cachePath)
	})

	t.Run("limit caps the summarized documents", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "summarize", "--limit", "1"))
		})
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		assert.Len(t, lines, 1)
	})
}

func TestCacheCommands(t *testing.T) {
	app, logDir, cachePath := testAppEnv(t)
	seedLogs(t, logDir)
	base := []string{"trawl", "--log-dir", logDir, "--cache-file", cachePath}

	t.Run("info on a fresh cache", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "cache", "info"))
		})
		require.NoError(t, err)
		assert.Contains(t, out, "path:    "+cachePath)
		assert.Contains(t, out, "entries: 0")
	})

	t.Run("clear removes the populated cache", func(t *testing.T) {
		_, err := captureStdout(t, func() error {
			return app.Run(append(base, "summarize"))
		})
		require.NoError(t, err)

		_, err = captureStdout(t, func() error {
			return app.Run(append(base, "cache", "clear"))
		})
		require.NoError(t, err)

		out, err := captureStdout(t, func() error {
			return app.Run(append(base, "cache", "info"))
		})
		require.NoError(t, err)
		assert.Contains(t, out, "entries: 0")
	})
}

func TestSetupLogger(t *testing.T) {
	loggerApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				err := loggerApp().Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
				assert.True(t, slog.Default().Enabled(context.Background(), tc.expected))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				err := loggerApp().Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := loggerApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := loggerApp()
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "info", c.String("log-level"))
			return nil
		}
		require.NoError(t, app.Run([]string{"test"}))
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := loggerApp()
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}
		require.NoError(t, app.Run([]string{"test", "-l", "debug"}))
	})
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}
