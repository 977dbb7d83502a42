package storage

import (
	"context"

	"github.com/JFlic/EarlhamAI/core"
)

// HybridQuery describes one scored query against the document store.
type HybridQuery struct {
	// Embedding is the normalized query vector.
	Embedding []float32

	// Keywords is a text-search disjunction ("word1 | word2 | word3").
	// When empty, keyword scoring and filtering are skipped entirely and
	// the effective Ratio is 1.0 regardless of the value below.
	Keywords string

	// Ratio balances keyword rank against vector similarity:
	// 0.0 = all keyword, 1.0 = all vector.
	Ratio float64

	// Limit caps the number of returned candidates.
	Limit int
}

// Store is a single connection to the document store. A Store is NOT safe
// for concurrent use; exclusive access is arranged by leasing it from a Pool.
type Store interface {
	// HybridSearch runs the scored hybrid query and returns candidates
	// ordered by descending hybrid score. When Keywords is non-empty,
	// documents must match at least one keyword to be scored at all.
	HybridSearch(ctx context.Context, query HybridQuery) ([]core.Candidate, error)

	// AddDocuments persists documents with their embeddings and metadata.
	AddDocuments(ctx context.Context, docs []*core.Document) error

	// Count returns the total number of documents in the store.
	Count(ctx context.Context) (int64, error)

	// Ping probes connection liveness.
	Ping(ctx context.Context) error

	// Reconnect re-establishes a connection that failed its liveness probe.
	Reconnect(ctx context.Context) error

	// Close closes the connection and releases resources.
	Close() error
}
