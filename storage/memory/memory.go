// Package memory provides an in-process storage.Store backed by a slice.
// It mirrors the scoring semantics of the PostgreSQL backend closely enough
// for tests and small corpora: cosine similarity for the vector term and a
// matched-keyword fraction for the keyword rank.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/storage"
)

// Store is an in-memory document store. Unlike connection-oriented
// backends it tolerates concurrent use, but it is still intended to be
// leased through a storage.Pool like any other Store.
type Store struct {
	mu     sync.RWMutex
	docs   []*core.Document
	nextID int64
	closed bool

	// PingErr, when set, is returned by Ping until Reconnect is called.
	// Tests use this to exercise the pool's liveness handling.
	PingErr error

	// ReconnectErr, when set, is returned by Reconnect.
	ReconnectErr error
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// HybridSearch scores documents with the same blend the SQL backend
// computes: keywordRank*(1-ratio) + cosine*ratio, with a first-stage
// filter requiring at least one keyword match when keywords are present.
func (s *Store) HybridSearch(ctx context.Context, query storage.HybridQuery) ([]core.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keywords []string
	if query.Keywords != "" {
		keywords = strings.Split(query.Keywords, " | ")
	}

	var candidates []core.Candidate
	for _, doc := range s.docs {
		content := strings.ToLower(doc.Content)

		var score float64
		if len(keywords) > 0 {
			matched := 0
			for _, kw := range keywords {
				if strings.Contains(content, kw) {
					matched++
				}
			}
			if matched == 0 {
				continue
			}
			rank := float64(matched) / float64(len(keywords))
			score = rank*(1-query.Ratio) + cosineSimilarity(query.Embedding, doc.Embedding)*query.Ratio
		} else {
			score = cosineSimilarity(query.Embedding, doc.Embedding)
		}

		candidates = append(candidates, core.Candidate{
			ID:          doc.ID,
			Content:     doc.Content,
			Metadata:    doc.Metadata,
			HybridScore: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HybridScore > candidates[j].HybridScore
	})
	if query.Limit > 0 && len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}
	return candidates, nil
}

// AddDocuments stores copies of the documents, assigning sequential IDs.
func (s *Store) AddDocuments(ctx context.Context, docs []*core.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		stored := *doc
		stored.ID = s.nextID
		s.nextID++
		s.docs = append(s.docs, &stored)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// Ping reports the injected liveness error, if any.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PingErr
}

// Reconnect clears an injected liveness error.
func (s *Store) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReconnectErr != nil {
		return s.ReconnectErr
	}
	s.PingErr = nil
	return nil
}

// Close marks the store closed. Documents are retained so tests can
// inspect state after shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
