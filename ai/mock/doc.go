// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.Summarizer
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockEmbed := mock.NewMockEmbedder()
//	vec, err := mockEmbed.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbed.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbed.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockSummarizer: Returns the first words of the input text
//
// Both are safe for concurrent use, so code that fans embedding work out
// across workers can be tested under the race detector.
package mock
