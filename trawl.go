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


package trawl

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/trawl/ai"
	"github.com/poiesic/trawl/ai/fallback"
	"github.com/poiesic/trawl/ai/openai"
	"github.com/poiesic/trawl/search"
	"github.com/poiesic/trawl/summary"
)

// ErrLogDirRequired is returned by NewEngine when no log directory is given.
var ErrLogDirRequired = errors.New("log directory required")

// Engine wires the session-log searcher and the summary service behind one
// construction point. It owns backend selection: model-backed embedding and
// summarization are used only when a base URL is configured and the client
// constructs, otherwise the deterministic local fallbacks take over.
type Engine struct {
	logDir     string
	embedder   ai.Embedder
	summarizer ai.Summarizer
	cache      *summary.Cache
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	cachePath string
	logger    *slog.Logger
}

// WithAIConfig sets the model backend configuration for embeddings and
// summaries. The default configuration has no base URL and selects the
// local fallbacks.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithCachePath overrides the summary cache file location.
func WithCachePath(path string) EngineOption {
	return func(o *engineOptions) {
		if path != "" {
			o.cachePath = path
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// DefaultLogDir returns the conventional session-log location,
// ~/.trawl/sessions.
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trawl", "sessions"), nil
}

// DefaultCachePath returns the conventional summary cache location,
// ~/.trawl/summaries.cache.
func DefaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trawl", "summaries.cache"), nil
}

// NewEngine creates an engine over the session logs under logDir.
func NewEngine(logDir string, opts ...EngineOption) (*Engine, error) {
	if logDir == "" {
		return nil, ErrLogDirRequired
	}

	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.cachePath == "" {
		path, err := DefaultCachePath()
		if err != nil {
			return nil, err
		}
		options.cachePath = path
	}

	// Open the summary cache
	cache, err := summary.NewCache(options.cachePath, summary.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	// Pick backends once; mid-query failures degrade per invocation
	embedder := selectEmbedder(options.aiConfig, options.logger)
	service, err := summary.NewService(cache, selectSummarizer(options.aiConfig, options.logger))
	if err != nil {
		return nil, err
	}

	return &Engine{
		logDir:     logDir,
		embedder:   embedder,
		summarizer: service,
		cache:      cache,
		logger:     options.logger,
	}, nil
}

// selectEmbedder returns the model-backed embedder when one is configured
// and constructs, the local hash embedder otherwise.
func selectEmbedder(config *ai.Config, logger *slog.Logger) ai.Embedder {
	if config.BaseURL == "" {
		logger.Debug("no embedding endpoint configured, using local hash embeddings")
		return fallback.NewEmbedder(config)
	}
	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		logger.Warn("model embeddings unavailable, using local hash embeddings", "err", err)
		return fallback.NewEmbedder(config)
	}
	return embedder
}

// selectSummarizer mirrors selectEmbedder for the summary backend.
func selectSummarizer(config *ai.Config, logger *slog.Logger) ai.Summarizer {
	if config.BaseURL == "" {
		logger.Debug("no summary endpoint configured, using lead-sentence summaries")
		return fallback.NewSummarizer()
	}
	summarizer, err := openai.NewSummarizer(config)
	if err != nil {
		logger.Warn("model summaries unavailable, using lead-sentence summaries", "err", err)
		return fallback.NewSummarizer()
	}
	return summarizer
}

// NewSearcher creates a searcher over the engine's log directory using its
// selected embedder. Options given here are applied after the engine's own.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	all := append([]search.Option{search.WithLogger(e.logger)}, opts...)
	return search.NewSearcher(e.logDir, e.embedder, all...)
}

// Summarizer returns the cache-backed summary service.
func (e *Engine) Summarizer() ai.Summarizer {
	return e.summarizer
}

// Cache returns the summary cache.
func (e *Engine) Cache() *summary.Cache {
	return e.cache
}

// Embedder returns the selected embedding backend.
func (e *Engine) Embedder() ai.Embedder {
	return e.embedder
}

// LogDir returns the session-log root the engine searches.
func (e *Engine) LogDir() string {
	return e.logDir
}
