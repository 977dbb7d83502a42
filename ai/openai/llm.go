// Copyright 2025 The EarlhamAI Authors
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

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLM implements ai.Translator and ai.Generator on a single chat model
// served by an OpenAI-compatible API.
type LLM struct {
	client      llms.Model
	temperature float64
	topP        float64
	logger      *slog.Logger
}

// newLLM is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newLLM(config *ai.Config) (*LLM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.InferenceHost),
		openai.WithToken("none"),
		openai.WithModel(config.InferenceModel),
	)
	if err != nil {
		return nil, err
	}

	return &LLM{
		client:      client,
		temperature: config.Temperature,
		topP:        config.TopP,
		logger:      slog.Default().With("component", "openai-llm"),
	}, nil
}

// NewLLM creates a translation and generation client using the provided
// configuration.
func NewLLM(config *ai.Config) (*LLM, error) {
	return newLLM(config)
}

// Translate translates Spanish text to English with a low-temperature
// single-prompt call.
func (l *LLM) Translate(ctx context.Context, text string) (string, error) {
	prompt := buildTranslatePrompt(text)

	answer, err := llms.GenerateFromSinglePrompt(ctx, l.client, prompt,
		llms.WithTemperature(0.0))
	if err != nil {
		l.logger.Error("translation failed", "err", err)
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// Generate produces an answer grounded in the request's passages.
func (l *LLM) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(req.System),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(req.Passages, req.Query)),
			},
		},
	}

	response, err := l.client.GenerateContent(ctx, content,
		llms.WithTemperature(l.temperature),
		llms.WithTopP(l.topP))
	if err != nil {
		l.logger.Error("generation failed", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		l.logger.Warn("no choices returned from model")
		return "", errors.New("model returned no choices")
	}

	return response.Choices[0].Content, nil
}
