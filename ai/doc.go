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


// Package ai provides abstractions for AI services used in Trawl.
//
// This package defines interfaces for AI operations including text embeddings
// and summary generation. It follows the dependency inversion principle,
// allowing the search and caching layers to depend on abstractions rather
// than concrete implementations.
//
// # Design Principles
//
// The package is designed around two key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Summarizer: Produces short one-line summaries of text
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/fallback: Local deterministic implementations that never touch
//     a network and never fail
//   - ai/mock: Test doubles for unit testing with behavior injection
//
// # Constructor Return Type Pattern
//
// This package follows a mixed constructor pattern based on use case:
//
// Public constructors (openai.NewEmbedder, fallback.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. This is essential for dependency injection and
// supporting multiple implementations.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockSummarizer)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (EmbedTextFunc, CallCount, Reset).
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Degradation
//
// Model-backed services are optional. Callers that construct an openai
// implementation should be prepared to fall back to the ai/fallback
// implementations when the model endpoint is unreachable, so that search
// keeps working on machines with no model server running. The fallback
// embedder produces vectors in a different space than any real model, so
// the two must never be mixed within one ranking pass.
//
// # Usage Example
//
//	// Production usage with an OpenAI-compatible endpoint
//	config := ai.NewConfig(
//	    ai.WithBaseURL("http://localhost:11434"),
//	    ai.WithEmbeddingModel("nomic-embed-text"),
//	)
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    embedder = fallback.NewEmbedder(config)
//	}
//
//	vec, err := embedder.EmbedText(ctx, "watcher goroutine deadlock")
//
//	// Testing usage with mocks
//	mockEmbed := mock.NewMockEmbedder()
//	vec, err := mockEmbed.EmbedText(ctx, "test text")
package ai
