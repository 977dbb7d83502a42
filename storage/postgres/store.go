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


// Package postgres implements the document store on PostgreSQL with the
// pgvector extension.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// Store is a single PostgreSQL connection implementing storage.Store over
// a pgvector-backed documents table. It is not safe for concurrent use;
// lease it through a storage.Pool.
type Store struct {
	conn   *pgx.Conn
	dsn    string
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// Connect dials PostgreSQL, registers the pgvector types, and ensures the
// schema exists.
func Connect(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	s := &Store{
		dsn:    dsn,
		logger: slog.Default().With("component", "postgres-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	if err := s.setupSchema(ctx); err != nil {
		s.conn.Close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *Store) connect(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
		conn.Close(ctx)
		return fmt.Errorf("registering vector types: %w", err)
	}

	s.conn = conn
	return nil
}

// setupSchema creates the vector extension, documents table, and ANN index.
func (s *Store) setupSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d)
		)`, core.EmbeddingDim),
		`CREATE INDEX IF NOT EXISTS documents_embedding_idx ON documents
			USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`,
		`CREATE INDEX IF NOT EXISTS documents_content_tsv_idx ON documents
			USING gin (to_tsvector('english', content))`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("setting up schema: %w", err)
		}
	}
	return nil
}

const hybridSearchSQL = `
SELECT id, content, metadata,
       ts_rank(to_tsvector('english', content), to_tsquery('english', $1)) * (1 - $2::float8)
       + (1 - (embedding <=> $3)) * $2::float8 AS hybrid_score
FROM documents
WHERE to_tsvector('english', content) @@ to_tsquery('english', $1)
ORDER BY hybrid_score DESC
LIMIT $4`

const vectorSearchSQL = `
SELECT id, content, metadata,
       1 - (embedding <=> $1) AS hybrid_score
FROM documents
ORDER BY hybrid_score DESC
LIMIT $2`

// HybridSearch computes the blended keyword/vector score inside the
// database and returns candidates in descending score order. With keywords
// present, documents must match at least one keyword before scoring; this
// narrows the candidate set ahead of the vector comparison. Without
// keywords, scoring collapses to pure vector similarity.
func (s *Store) HybridSearch(ctx context.Context, query storage.HybridQuery) ([]core.Candidate, error) {
	vec := pgvector.NewVector(query.Embedding)

	var rows pgx.Rows
	var err error
	if query.Keywords != "" {
		rows, err = s.conn.Query(ctx, hybridSearchSQL, query.Keywords, query.Ratio, vec, query.Limit)
	} else {
		rows, err = s.conn.Query(ctx, vectorSearchSQL, vec, query.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("hybrid search query: %w", err)
	}
	defer rows.Close()

	var candidates []core.Candidate
	for rows.Next() {
		var c core.Candidate
		if err := rows.Scan(&c.ID, &c.Content, &c.Metadata, &c.HybridScore); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading candidate rows: %w", err)
	}

	s.logger.Debug("hybrid search completed",
		"keywords", query.Keywords,
		"candidates", len(candidates))
	return candidates, nil
}

// AddDocuments persists documents with their embeddings in one transaction.
func (s *Store) AddDocuments(ctx context.Context, docs []*core.Document) error {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range docs {
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (content, metadata, embedding) VALUES ($1, $2, $3)`,
			doc.Content, doc.Metadata, pgvector.NewVector(doc.Embedding))
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}

	s.logger.Debug("documents added", "count", len(docs))
	return nil
}

// Count returns the total number of documents in the store.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Ping probes connection liveness.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Reconnect re-establishes the connection after a failed liveness probe.
// The old connection is closed best-effort.
func (s *Store) Reconnect(ctx context.Context) error {
	if s.conn != nil {
		s.conn.Close(ctx)
	}
	return s.connect(ctx)
}

// Close closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}
