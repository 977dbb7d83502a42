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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/storage"
)

// Re-ranking tuning constants. The values come from corpus tuning; change
// them here rather than inside the algorithm.
const (
	// ExactPhraseBonus multiplies the score of candidates whose content
	// contains the full query string verbatim (case-insensitive).
	ExactPhraseBonus = 1.5

	// DensityWeight scales the keyword-density contribution:
	// final = hybrid * bonus * (1 + density*DensityWeight).
	DensityWeight = 0.5

	// CandidateMultiplier sets how many first-stage candidates are fetched
	// per requested result, giving the re-rank pass enough material
	// without scanning the whole corpus.
	CandidateMultiplier = 5
)

// Engine turns a query string into a ranked list of scored document
// candidates by combining a store-side hybrid score with a client-side
// re-rank pass.
type Engine struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a retrieval engine.
func NewEngine(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search returns up to k candidates for the query, ordered by descending
// final score. The store connection must be leased for exclusive use by the
// caller. hybridRatio balances keyword rank against vector similarity
// (0.0 = all keyword, 1.0 = all vector); queries with no extractable
// keywords are ranked by vector similarity alone regardless of the ratio.
func (e *Engine) Search(ctx context.Context, store storage.Store, query string, k int, hybridRatio float64) ([]core.Candidate, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}
	if hybridRatio < 0 || hybridRatio > 1 {
		return nil, ErrInvalidRatio
	}

	embedding, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}

	keywords := extractKeywords(query)

	candidates, err := store.HybridSearch(ctx, storage.HybridQuery{
		Embedding: embedding,
		Keywords:  keywordDisjunction(keywords),
		Ratio:     hybridRatio,
		Limit:     k * CandidateMultiplier,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreQuery, err)
	}

	e.logger.Debug("first-stage retrieval completed",
		"query", query,
		"keywords", len(keywords),
		"candidates", len(candidates))

	rerank(query, keywords, candidates)

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// rerank applies the exact-phrase bonus and keyword-density multiplier to
// each candidate and sorts by final score. The sort is stable so that
// candidates with equal final scores keep the store's relative order.
func rerank(query string, keywords []string, candidates []core.Candidate) {
	queryLower := strings.ToLower(query)

	for i := range candidates {
		content := strings.ToLower(candidates[i].Content)

		bonus := 1.0
		if strings.Contains(content, queryLower) {
			bonus = ExactPhraseBonus
		}

		density := 0.0
		if len(keywords) > 0 {
			present := 0
			for _, kw := range keywords {
				if strings.Contains(content, kw) {
					present++
				}
			}
			density = float64(present) / float64(len(keywords))
		}

		candidates[i].FinalScore = candidates[i].HybridScore * bonus * (1 + density*DensityWeight)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
}
