package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/trawl/ai"
	"github.com/poiesic/trawl/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// embedAttempts bounds retries for one embedding batch.
	embedAttempts  = 3
	retryBaseDelay = 500 * time.Millisecond

	// memoSize caps the in-process embedding memo. Large enough for a full
	// search pass over a busy day of logs.
	memoSize = 4096
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	timeout  time.Duration
	memo     *lru.Cache[core.ID, []float32]
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	memo, err := lru.New[core.ID, []float32](memoSize)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		timeout:  config.Timeout,
		memo:     memo,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
// Texts already seen in this process are served from the memo without a
// model call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	results := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := e.memo.Get(core.IDFromContent(text)); ok {
			results[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return results, nil
	}

	vecs, err := e.embed(ctx, missing)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(missing), "err", err)
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ai.ErrModelUnavailable, len(missing), len(vecs))
	}

	for j, vec := range vecs {
		results[missingIdx[j]] = vec
		e.memo.Add(core.IDFromContent(missing[j]), vec)
	}
	return results, nil
}

// embed performs one retried batch call. Each attempt gets a fresh timeout.
func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		vecs, err := e.embedder.EmbedDocuments(attemptCtx, texts)
		if err != nil {
			return err
		}
		out = vecs
		return nil
	}

	if err := ai.RetryWithBackoff(ctx, operation, embedAttempts, retryBaseDelay); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
	}
	return out, nil
}
