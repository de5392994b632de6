package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.BaseURL, "model services are opt-in")
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.SummaryModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultDimensions, cfg.Dimensions)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Empty(t, cfg.BaseURL)
		assert.Equal(t, DefaultDimensions, cfg.Dimensions)
	})

	t.Run("with custom base URL", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.BaseURL)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithSummaryModel("gpt-4o-mini"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.SummaryModel)
	})

	t.Run("with custom timeout", func(t *testing.T) {
		cfg := NewConfig(WithTimeout(5 * time.Second))

		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithBaseURL("http://custom:8080/v1"),
			WithEmbeddingModel("custom-embed"),
			WithSummaryModel("custom-summary"),
			WithDimensions(128),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.BaseURL)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "custom-summary", cfg.SummaryModel)
		assert.Equal(t, 128, cfg.Dimensions)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{
			name:     "already has /v1",
			baseURL:  "http://localhost:11434/v1",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "missing /v1",
			baseURL:  "http://localhost:11434",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "has trailing slash",
			baseURL:  "http://localhost:11434/",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "empty stays empty",
			baseURL:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithBaseURL(tt.baseURL))
			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.BaseURL)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"))

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL, "validate normalizes first")
	})

	t.Run("empty base URL fails", func(t *testing.T) {
		cfg := NewConfig()

		require.Error(t, cfg.Validate())
	})

	t.Run("empty embedding model fails", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"), WithEmbeddingModel(""))

		require.Error(t, cfg.Validate())
	})

	t.Run("empty summary model fails", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"), WithSummaryModel(""))

		require.Error(t, cfg.Validate())
	})

	t.Run("zero timeout fails", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"), WithTimeout(0))

		require.Error(t, cfg.Validate())
	})

	t.Run("zero dimensions fails", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434"), WithDimensions(0))

		require.Error(t, cfg.Validate())
	})
}
