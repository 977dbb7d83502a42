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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// InferenceHost is the base URL for the translation/generation service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	InferenceHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "bge-m3", "text-embedding-3-small"
	EmbeddingModel string

	// InferenceModel is the model identifier for translation and generation.
	// Example: "qwen3:4b", "gpt-4o-mini"
	InferenceModel string

	// Temperature controls generation randomness. Default: 0.2
	Temperature float64

	// TopP controls nucleus sampling for generation. Default: 0.95
	TopP float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithInferenceHost sets the inference service host URL.
func WithInferenceHost(host string) ConfigOption {
	return func(c *Config) {
		c.InferenceHost = host
	}
}

// WithHost sets both embedding and inference hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.InferenceHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithInferenceModel sets the inference model identifier.
func WithInferenceModel(model string) ConfigOption {
	return func(c *Config) {
		c.InferenceModel = model
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(topP float64) ConfigOption {
	return func(c *Config) {
		c.TopP = topP
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, embedding and inference use the
// same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		InferenceHost:  defaultHost,
		EmbeddingModel: "bge-m3",
		InferenceModel: "qwen3:4b",
		Temperature:    0.2,
		TopP:           0.95,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the /v1
// suffix to hosts if missing, which is required by most OpenAI-compatible
// APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.InferenceHost != "" && !strings.HasSuffix(c.InferenceHost, "/v1") {
		c.InferenceHost = strings.TrimSuffix(c.InferenceHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.InferenceHost == "" {
		return errors.New("ai config: InferenceHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.InferenceModel == "" {
		return errors.New("ai config: InferenceModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return errors.New("ai config: TopP must be between 0 and 1")
	}
	return nil
}
