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
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/respite/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const systemPrompt = `You are a warm, supportive companion for people under stress.
Ground your reply in the reference material you are given, speak in plain
empathetic language, and never diagnose or prescribe. Keep the reply to a
few short sentences.`

// Generator implements ai.MessageGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	maxRetries  int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIToken
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(token),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxRetries:  config.MaxRetries,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new message generator using the provided configuration.
//
// Returns ai.MessageGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.MessageGenerator, error) {
	return newGenerator(config)
}

// GenerateMessage produces a supportive message for the given prompt.
// Transient failures and empty completions are retried up to the configured
// number of attempts.
func (g *Generator) GenerateMessage(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
		if err != nil {
			lastErr = err
			g.logger.Warn("failed to generate message", "attempt", attempt+1, "err", err)
			if ctx.Err() != nil {
				return "", err
			}
			continue
		}

		if len(response.Choices) < 1 {
			lastErr = errors.New("model returned no choices")
			g.logger.Warn("no choices returned from model", "attempt", attempt+1)
			continue
		}

		message := strings.TrimSpace(response.Choices[0].Content)
		if message == "" {
			lastErr = errors.New("model returned empty message")
			g.logger.Warn("empty message returned from model", "attempt", attempt+1)
			continue
		}

		return message, nil
	}

	g.logger.Error("failed to generate message after retries", "attempts", g.maxRetries, "err", lastErr)
	return "", lastErr
}
