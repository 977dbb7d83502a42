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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline chunks documents, embeds the chunks in bounded parallel, and
// writes them to the store. A failed chunk fails the whole file; nothing
// is written unless every chunk embedded.
type Pipeline struct {
	store        storage.Store
	embedder     ai.Embedder
	pool         *ants.Pool
	maxChunkSize int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMaxChunkSize sets the per-chunk rune budget.
// Default is DefaultMaxChunkSize.
func WithMaxChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultMaxChunkSize
		}
		p.maxChunkSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to the given store.
// The store must be leased for exclusive use for the pipeline's lifetime.
func NewPipeline(store storage.Store, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:        store,
		embedder:     embedder,
		pool:         pool,
		maxChunkSize: DefaultMaxChunkSize,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestOptions holds optional per-document metadata.
type IngestOptions struct {
	URL  string // Source URL, if the document was scraped
	Type string // Document category, e.g. "policy" or "minutes"
}

// IngestText chunks and stores one document. source names the document in
// result metadata. It returns the number of chunks written.
func (p *Pipeline) IngestText(ctx context.Context, source, text string, opts *IngestOptions) (int, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	chunks := splitChunks(text, p.maxChunkSize)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyFile, source)
	}

	heading := extractHeading(text)
	if heading == "" {
		heading = source
	}
	scrapedAt := time.Now().UTC().Format(time.RFC3339)

	docs := make([]*core.Document, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			embedding, err := p.embedder.EmbedText(ctx, chunk)
			if err != nil {
				errs[i] = fmt.Errorf("%w: chunk %d of %s: %w", core.ErrEmbedding, i, source, err)
				return
			}
			docs[i] = &core.Document{
				Content: chunk,
				Metadata: core.Metadata{
					"source":     source,
					"heading":    heading,
					"url":        opts.URL,
					"scraped_at": scrapedAt,
					"type":       opts.Type,
				},
				Embedding: embedding,
			}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	if err := p.store.AddDocuments(ctx, docs); err != nil {
		return 0, err
	}

	p.logger.Info("document ingested", "source", source, "chunks", len(chunks))
	return len(chunks), nil
}

// IngestFile reads and ingests a single plain-text or Markdown file. The
// file's base name becomes its source label.
func (p *Pipeline) IngestFile(ctx context.Context, path string, opts *IngestOptions) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return p.IngestText(ctx, filepath.Base(path), string(data), opts)
}

// IngestDir ingests every .md and .txt file directly under dir. It stops
// at the first failure and returns the total chunks written so far.
func (p *Pipeline) IngestDir(ctx context.Context, dir string, opts *IngestOptions) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".md" && ext != ".txt" {
			continue
		}
		n, err := p.IngestFile(ctx, filepath.Join(dir, entry.Name()), opts)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
