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


package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/search"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/panjf2000/ants/v2"
)

// Defaults for the per-request tunables.
const (
	// DefaultTopK is the number of candidates handed to generation.
	DefaultTopK = 5

	// DefaultHybridRatio balances keyword rank against vector similarity.
	DefaultHybridRatio = 0.5

	// DefaultWorkerPoolSize caps simultaneous blocking backend calls
	// across all in-flight requests.
	DefaultWorkerPoolSize = 10

	// DefaultPassageBudget caps each retrieved passage, in runes, before
	// it enters the generation prompt.
	DefaultPassageBudget = 2000
)

// Processor coordinates one query end to end. A single Processor serves
// concurrent requests; they share only the connection pool, the worker
// pool, and whatever the ClientSource policy shares.
type Processor struct {
	pool    *storage.Pool
	clients ai.ClientSource
	engine  *search.Engine
	workers *ants.Pool

	detector      *languageDetector
	topK          int
	hybridRatio   float64
	passageBudget int
	logger        *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithTopK sets how many candidates are retrieved and handed to
// generation. Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(p *Processor) error {
		if k < 1 {
			k = DefaultTopK
		}
		p.topK = k
		return nil
	}
}

// WithHybridRatio sets the keyword/vector blend weight.
// Default is DefaultHybridRatio.
func WithHybridRatio(ratio float64) Option {
	return func(p *Processor) error {
		p.hybridRatio = ratio
		return nil
	}
}

// WithWorkerPoolSize sets the shared worker pool capacity.
// Default is DefaultWorkerPoolSize.
func WithWorkerPoolSize(size int) Option {
	return func(p *Processor) error {
		if size < 1 {
			size = 1
		}
		if p.workers != nil {
			p.workers.Release()
		}
		workers, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.workers = workers
		return nil
	}
}

// WithPassageBudget sets the per-passage rune budget applied before
// generation. Default is DefaultPassageBudget.
func WithPassageBudget(budget int) Option {
	return func(p *Processor) error {
		p.passageBudget = budget
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a query processor.
func NewProcessor(pool *storage.Pool, clients ai.ClientSource, engine *search.Engine, opts ...Option) (*Processor, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if clients == nil {
		return nil, ErrClientSourceRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}

	workers, err := ants.NewPool(DefaultWorkerPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		pool:          pool,
		clients:       clients,
		engine:        engine,
		workers:       workers,
		detector:      newLanguageDetector(),
		topK:          DefaultTopK,
		hybridRatio:   DefaultHybridRatio,
		passageBudget: DefaultPassageBudget,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Process answers one query. On failure it returns exactly one error from
// the request taxonomy; partial answers are never returned. The store
// connection leased for retrieval is released exactly once on every exit
// path.
func (p *Processor) Process(ctx context.Context, raw string) (*core.Result, error) {
	started := time.Now()

	provider, releaseClient, err := p.clients.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring client: %w", core.ErrInference, err)
	}
	defer releaseClient()

	q := core.Query{
		Raw:        raw,
		Language:   p.detector.Detect(raw),
		SearchText: raw,
	}
	if q.Language == core.LanguageSpanish {
		translated, err := provider.Translator().Translate(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: translation: %w", core.ErrInference, err)
		}
		q.SearchText = translated
	}
	p.logger.Debug("language detected",
		"language", q.Language.String(),
		"translated", q.SearchText != q.Raw)

	store, err := p.pool.Lease(ctx)
	if err != nil {
		return nil, err
	}
	defer p.pool.Release(store)

	// Prompt preparation and retrieval have no data dependency; fork them
	// on the shared worker pool and join on channels. The prompt task is
	// submitted first because it holds no resources: if the retrieval
	// submit fails, an abandoned prompt task is harmless, whereas the
	// reverse would release the store while retrieval still uses it.
	promptCh := make(chan string, 1)
	if err := p.workers.Submit(func() {
		promptCh <- buildSystemPrompt(q.Language, time.Now())
	}); err != nil {
		return nil, fmt.Errorf("%w: scheduling prompt preparation: %w", core.ErrInference, err)
	}

	type retrieval struct {
		candidates []core.Candidate
		err        error
	}
	retrievalCh := make(chan retrieval, 1)
	if err := p.workers.Submit(func() {
		candidates, err := p.engine.Search(ctx, store, q.SearchText, p.topK, p.hybridRatio)
		retrievalCh <- retrieval{candidates: candidates, err: err}
	}); err != nil {
		return nil, fmt.Errorf("%w: scheduling retrieval: %w", core.ErrStoreQuery, err)
	}

	// From here on, every exit must drain retrievalCh first so the store
	// handle is never released while the forked task still uses it.
	retrieved := <-retrievalCh
	system := <-promptCh
	if retrieved.err != nil {
		return nil, retrieved.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passages := make([]string, len(retrieved.candidates))
	for i, c := range retrieved.candidates {
		passages[i] = truncateContent(c.Content, p.passageBudget)
	}

	// Generation goes through the same bounded pool so a burst of
	// requests queues instead of spawning unbounded inference calls.
	type generation struct {
		answer string
		err    error
	}
	generationCh := make(chan generation, 1)
	if err := p.workers.Submit(func() {
		answer, err := provider.Generator().Generate(ctx, ai.GenerateRequest{
			System:   system,
			Passages: passages,
			Query:    q.SearchText,
		})
		generationCh <- generation{answer: answer, err: err}
	}); err != nil {
		return nil, fmt.Errorf("%w: scheduling generation: %w", core.ErrInference, err)
	}
	generated := <-generationCh
	if generated.err != nil {
		return nil, fmt.Errorf("%w: generation: %w", core.ErrInference, generated.err)
	}

	sources := make([]core.Source, len(retrieved.candidates))
	for i, c := range retrieved.candidates {
		sources[i] = core.SourceFromMetadata(c.Metadata)
	}

	p.logger.Info("query processed",
		"language", q.Language.String(),
		"candidates", len(retrieved.candidates),
		"duration", time.Since(started))

	return &core.Result{
		Answer:  stripReasoning(generated.answer),
		Sources: sources,
		LanguageInfo: core.LanguageInfo{
			Language:   q.Language.String(),
			SearchText: q.SearchText,
		},
	}, nil
}

// Release releases the worker pool. The processor should not be used
// after calling Release.
func (p *Processor) Release() {
	if p.workers != nil {
		p.workers.Release()
	}
}
