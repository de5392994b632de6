package summary

import (
	"context"
	"log/slog"

	"github.com/poiesic/trawl/ai"
	"github.com/poiesic/trawl/core"
)

// Service memoizes an ai.Summarizer through a Cache. It implements
// ai.Summarizer itself, so cached and uncached summarization are
// interchangeable to callers.
type Service struct {
	cache      *Cache
	summarizer ai.Summarizer
	logger     *slog.Logger
}

var _ ai.Summarizer = (*Service)(nil)

// NewService creates a summarization service backed by cache.
func NewService(cache *Cache, summarizer ai.Summarizer) (*Service, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if summarizer == nil {
		return nil, ErrSummarizerRequired
	}
	return &Service{
		cache:      cache,
		summarizer: summarizer,
		logger:     slog.Default().With("component", "summary-service"),
	}, nil
}

// Summarize returns a one-line summary of text, serving repeats from the
// cache. The cache key is the hash of the exact text, so any change to the
// text produces a fresh summary.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	return s.cache.GetOrCompute(core.HashContent(text), func() (string, error) {
		return s.summarizer.Summarize(ctx, text)
	})
}
