// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/trawl"
	"github.com/poiesic/trawl/ai"
	"github.com/poiesic/trawl/core"
	"github.com/poiesic/trawl/search"
)

func main() {
	defaultLogDir, err := trawl.DefaultLogDir()
	if err != nil {
		log.Fatal(err)
	}
	defaultCachePath, err := trawl.DefaultCachePath()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(defaultLogDir, defaultCachePath).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(defaultLogDir, defaultCachePath string) *cli.App {
	return &cli.App{
		Name:  "trawl",
		Usage: "Hybrid search over assistant session logs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-dir",
				Aliases: []string{"d"},
				Usage:   "Session log directory",
				Value:   defaultLogDir,
				EnvVars: []string{"TRAWL_LOG_DIR"},
			},
			&cli.StringFlag{
				Name:    "cache-file",
				Usage:   "Summary cache file",
				Value:   defaultCachePath,
				EnvVars: []string{"TRAWL_CACHE_FILE"},
			},
			&cli.StringFlag{
				Name:    "embed-url",
				Usage:   "OpenAI-compatible endpoint URL (empty selects the local backends)",
				EnvVars: []string{"TRAWL_EMBED_URL"},
			},
			&cli.StringFlag{
				Name:    "embed-model",
				Usage:   "Embedding model name",
				Value:   "nomic-embed-text",
				EnvVars: []string{"TRAWL_EMBED_MODEL"},
			},
			&cli.StringFlag{
				Name:    "summary-model",
				Usage:   "Summary model name",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"TRAWL_SUMMARY_MODEL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request model timeout",
				Value: 30 * time.Second,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the session logs",
				ArgsUsage: "<query terms...>",
				Action:    searchCommand,
				Flags: append(filterFlags(),
					&cli.BoolFlag{
						Name:  "semantic",
						Usage: "Blend embedding similarity into the ranking",
					},
					&cli.Float64Flag{
						Name:  "weight",
						Usage: "Lexical share of the fused score, 0 to 1",
						Value: search.DefaultWeight,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum results",
						Value:   search.DefaultLimit,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Skip this many ranked results",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Print full text instead of snippets",
					},
					&cli.BoolFlag{
						Name:  "highlight",
						Usage: "Mark matched terms in the output",
					},
					&cli.BoolFlag{
						Name:  "pairs",
						Usage: "Search prompts and attach the first following response",
					},
					formatFlag(),
				),
			},
			{
				Name:   "stats",
				Usage:  "Summarize the filtered slice of the log",
				Action: statsCommand,
				Flags:  append(filterFlags(), formatFlag()),
			},
			{
				Name:   "summarize",
				Usage:  "Summarize matched documents through the cache",
				Action: summarizeCommand,
				Flags: append(filterFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum documents to summarize (0 summarizes everything)",
						Value:   search.DefaultLimit,
					},
				),
			},
			{
				Name:  "cache",
				Usage: "Manage the summary cache",
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "Remove the summary cache file",
						Action: cacheClearCommand,
					},
					{
						Name:   "info",
						Usage:  "Show cache location and entry count",
						Action: cacheInfoCommand,
					},
				},
			},
		},
	}
}

// filterFlags are shared by every command that narrows the event stream.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Restrict to one event type (prompt, response, tool-pre, ...)",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "Start of the time range (today, yesterday, N days ago, date, timestamp)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "End of the time range, inclusive (same forms as --from)",
		},
		&cli.StringFlag{
			Name:    "session",
			Aliases: []string{"s"},
			Usage:   "Session id prefix",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, json)",
		Value:   "text",
	}
}

func newEngine(c *cli.Context) (*trawl.Engine, error) {
	// Create AI config from global flags
	aiConfig := ai.NewConfig(
		ai.WithBaseURL(c.String("embed-url")),
		ai.WithEmbeddingModel(c.String("embed-model")),
		ai.WithSummaryModel(c.String("summary-model")),
		ai.WithTimeout(c.Duration("timeout")),
	)

	engine, err := trawl.NewEngine(
		c.String("log-dir"),
		trawl.WithAIConfig(aiConfig),
		trawl.WithCachePath(c.String("cache-file")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

// filterOptions collects the flags shared by search, stats, and summarize.
func filterOptions(c *cli.Context) search.Options {
	return search.Options{
		Type:    c.String("type"),
		From:    c.String("from"),
		To:      c.String("to"),
		Session: c.String("session"),
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	// The query is everything after the flags
	opts := filterOptions(c)
	opts.Query = strings.Join(c.Args().Slice(), " ")
	opts.Semantic = c.Bool("semantic")
	opts.Weight = c.Float64("weight")
	opts.Limit = c.Int("limit")
	opts.Offset = c.Int("offset")
	opts.Full = c.Bool("full")
	opts.Highlight = c.Bool("highlight")
	opts.Pairs = c.Bool("pairs")

	resp, err := searcher.Search(ctx, opts)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		return search.WriteJSON(os.Stdout, resp)
	case "text":
		printWarnings(resp.Warnings)
		return search.WriteText(os.Stdout, resp)
	default:
		return fmt.Errorf("invalid format %q: must be text or json", c.String("format"))
	}
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	st, err := searcher.Stats(ctx, filterOptions(c))
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		return search.WriteStatsJSON(os.Stdout, st)
	case "text":
		printWarnings(st.Warnings)
		return search.WriteStatsText(os.Stdout, st)
	default:
		return fmt.Errorf("invalid format %q: must be text or json", c.String("format"))
	}
}

func summarizeCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	opts := filterOptions(c)
	opts.Limit = c.Int("limit")
	docs, warnings, err := searcher.Collect(ctx, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	summarizer := engine.Summarizer()
	for _, doc := range docs {
		sum, err := summarizer.Summarize(ctx, doc.Text)
		if err != nil {
			// A failed document is a warning; the rest still summarize.
			fmt.Fprintf(os.Stderr, "warning: summarize %s: %v\n", doc.Ref(), err)
			continue
		}
		fmt.Printf("%s %s %s\n", core.HashContent(doc.Text), doc.Type, sum)
	}
	return nil
}

func cacheClearCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	if err := engine.Cache().Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Cleared %s\n", engine.Cache().Path())
	return nil
}

func cacheInfoCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	fmt.Printf("path:    %s\n", engine.Cache().Path())
	fmt.Printf("entries: %d\n", engine.Cache().Len())
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
