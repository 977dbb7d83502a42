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


package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/ai/mock"
	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/query"
	"github.com/JFlic/EarlhamAI/search"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/JFlic/EarlhamAI/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, provider *mock.MockProvider) *server {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.AddDocuments(context.Background(), []*core.Document{
		{
			Content:   "City Council meets every Tuesday evening at the town hall.",
			Metadata:  core.Metadata{"heading": "Meeting Schedule", "source": "city-handbook"},
			Embedding: mock.DeterministicVector("City Council meets every Tuesday evening at the town hall.", core.EmbeddingDim),
		},
	}))

	pool, err := storage.NewPool(func(ctx context.Context) (storage.Store, error) {
		return store, nil
	})
	require.NoError(t, err)

	clients, err := ai.NewSharedSource(provider)
	require.NoError(t, err)

	engine, err := search.NewEngine(mock.NewMockEmbedder())
	require.NoError(t, err)

	processor, err := query.NewProcessor(pool, clients, engine)
	require.NoError(t, err)
	t.Cleanup(processor.Release)

	return newServer(processor, slog.Default())
}

func TestHandleQuery(t *testing.T) {
	t.Run("answers a valid query", func(t *testing.T) {
		s := newTestServer(t, mock.NewMockProvider())

		body := strings.NewReader(`{"query": "Tell me about City Council"}`)
		req := httptest.NewRequest(http.MethodPost, "/query", body)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result core.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.NotEmpty(t, result.Answer)
		assert.Equal(t, "English", result.LanguageInfo.Language)
		require.NotEmpty(t, result.Sources)
		assert.Equal(t, "Meeting Schedule", result.Sources[0].Heading)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		s := newTestServer(t, mock.NewMockProvider())

		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "invalid JSON body", resp.Error)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		s := newTestServer(t, mock.NewMockProvider())

		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query": "  "}`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("processing failure yields error payload", func(t *testing.T) {
		provider := mock.NewMockProvider()
		provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
			return "", errors.New("inference timeout")
		}
		s := newTestServer(t, provider)

		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query": "Tell me about City Council"}`))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "inference")
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, mock.NewMockProvider())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
