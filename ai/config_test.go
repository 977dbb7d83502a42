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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.InferenceHost)
	assert.Equal(t, "bge-m3", cfg.EmbeddingModel)
	assert.Equal(t, "qwen3:4b", cfg.InferenceModel)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 0.95, cfg.TopP)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	t.Run("with host sets both services", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://remote:8080/v1"))
		assert.Equal(t, "http://remote:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://remote:8080/v1", cfg.InferenceHost)
	})

	t.Run("split hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:11434/v1"),
			WithInferenceHost("http://infer:11434/v1"),
		)
		assert.Equal(t, "http://embed:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://infer:11434/v1", cfg.InferenceHost)
	})

	t.Run("model and sampling overrides", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithInferenceModel("gpt-4o-mini"),
			WithTemperature(0.7),
			WithTopP(0.9),
		)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.InferenceModel)
		assert.Equal(t, 0.7, cfg.Temperature)
		assert.Equal(t, 0.9, cfg.TopP)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing suffix", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.InferenceHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing inference host", func(c *Config) { c.InferenceHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing inference model", func(c *Config) { c.InferenceModel = "" }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"zero top-p", func(c *Config) { c.TopP = 0 }},
		{"top-p above one", func(c *Config) { c.TopP = 1.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
