package summary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/trawl/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_RequiresDependencies(t *testing.T) {
	cache, err := NewCache(cachePath(t))
	require.NoError(t, err)

	_, err = NewService(nil, mock.NewMockSummarizer())
	require.ErrorIs(t, err, ErrCacheRequired)

	_, err = NewService(cache, nil)
	require.ErrorIs(t, err, ErrSummarizerRequired)
}

func TestService_CachesByContent(t *testing.T) {
	cache, err := NewCache(cachePath(t))
	require.NoError(t, err)
	summarizer := mock.NewMockSummarizer()
	svc, err := NewService(cache, summarizer)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := svc.Summarize(ctx, "debugged the reader goroutine leak this morning")
	require.NoError(t, err)
	assert.Equal(t, 1, summarizer.CallCount())

	again, err := svc.Summarize(ctx, "debugged the reader goroutine leak this morning")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, summarizer.CallCount(), "repeat text must not hit the summarizer")

	_, err = svc.Summarize(ctx, "a different piece of text entirely")
	require.NoError(t, err)
	assert.Equal(t, 2, summarizer.CallCount())
	assert.Equal(t, 2, cache.Len())
}

func TestService_PersistsAcrossServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.bin")
	ctx := context.Background()

	// First service computes and persists
	cache1, err := NewCache(path)
	require.NoError(t, err)
	sum1 := mock.NewMockSummarizer()
	svc1, err := NewService(cache1, sum1)
	require.NoError(t, err)

	first, err := svc1.Summarize(ctx, "investigated flaky date range pruning")
	require.NoError(t, err)
	require.Equal(t, 1, sum1.CallCount())

	// Second service over the same file serves from disk
	cache2, err := NewCache(path)
	require.NoError(t, err)
	sum2 := mock.NewMockSummarizer()
	svc2, err := NewService(cache2, sum2)
	require.NoError(t, err)

	got, err := svc2.Summarize(ctx, "investigated flaky date range pruning")
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, 0, sum2.CallCount(), "persisted entry must satisfy the new service")
}
