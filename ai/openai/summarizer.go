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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/trawl/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxSummaryInput caps the text sent to the summary model, in runes.
// Keeps prompts inside the context window of small local models.
const maxSummaryInput = 4000

const summarySystemPrompt = `You summarize excerpts from software engineering work sessions.
Reply with one plain sentence of at most 20 words describing what the excerpt is about.
No quotes, no markdown, no preamble.`

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken("none"),
		openai.WithModel(config.SummaryModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize generates a one-line summary of text using the chat model.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = truncateRunes(strings.TrimSpace(text), maxSummaryInput)
	if text == "" {
		return "", nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(summarySystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	var response *llms.ContentResponse
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		resp, err := s.client.GenerateContent(attemptCtx, content, llms.WithTemperature(0.2))
		if err != nil {
			return err
		}
		response = resp
		return nil
	}

	if err := ai.RetryWithBackoff(ctx, operation, embedAttempts, retryBaseDelay); err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
	}

	if len(response.Choices) < 1 {
		s.logger.Debug("no choices returned from model")
		return "", nil
	}

	return cleanSummary(response.Choices[0].Content), nil
}

// cleanSummary enforces the single-line, no-markup contract on model output.
func cleanSummary(raw string) string {
	out := strings.TrimSpace(raw)

	// Strip markdown code fences if present
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")

	// Strip surrounding quotes models like to add
	out = strings.TrimSpace(out)
	if len(out) >= 2 && out[0] == '"' && out[len(out)-1] == '"' {
		out = out[1 : len(out)-1]
	}

	// Collapse all whitespace runs, including newlines, to single spaces
	return strings.Join(strings.Fields(out), " ")
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
