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


package ai

import (
	"errors"
	"strings"
	"time"
)

// DefaultDimensions is the vector width used by the local fallback embedder.
// Model-backed embedders ignore it and use whatever width the model returns.
const DefaultDimensions = 256

// Config holds configuration for AI service implementations.
type Config struct {
	// BaseURL is the base URL for an OpenAI-compatible API.
	// Example: "http://localhost:11434/v1" for a local Ollama server.
	// Empty means no model server is configured and callers should use
	// the local fallback implementations.
	BaseURL string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text", "text-embedding-3-small"
	EmbeddingModel string

	// SummaryModel is the model identifier to use for summary generation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	SummaryModel string

	// Timeout bounds each individual request to the model server.
	// Retries get a fresh timeout. Default: 30s
	Timeout time.Duration

	// Dimensions is the vector width for the local fallback embedder.
	// Default: DefaultDimensions
	Dimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the model server base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithSummaryModel sets the summary model identifier.
func WithSummaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.SummaryModel = model
	}
}

// WithTimeout sets the per-request timeout for model calls.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithDimensions sets the fallback embedder vector width.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// DefaultConfig returns a Config with sensible defaults. The BaseURL is left
// empty: model-backed services are opt-in, and without a configured endpoint
// callers use the local fallback implementations.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "",
		EmbeddingModel: "nomic-embed-text",
		SummaryModel:   "qwen2.5:3b",
		Timeout:        30 * time.Second,
		Dimensions:     DefaultDimensions,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithBaseURL("http://localhost:11434"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the base URL if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is complete enough for model-backed
// services. It automatically normalizes the configuration before validation.
// A Config with an empty BaseURL fails validation; such configs are still
// usable with the ai/fallback implementations, which ignore the endpoint.
func (c *Config) Validate() error {
	// Normalize first to ensure the URL is in the correct format
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.SummaryModel == "" {
		return errors.New("ai config: SummaryModel is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be positive")
	}
	return nil
}
