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


package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"context"

	"github.com/JFlic/EarlhamAI/core"
)

// DefaultMaxConnections is the default pool capacity.
const DefaultMaxConnections = 10

// DialFunc establishes a new store connection.
type DialFunc func(ctx context.Context) (Store, error)

// Pool is a bounded, thread-safe pool of persistent store connections.
//
// Lease returns an idle connection if one exists, otherwise dials a new
// one; the pool never blocks a caller waiting for capacity. Release
// returns the connection for reuse, or closes it immediately when the pool
// is already at its maximum, so resource growth stays bounded. The mutex
// is held only for the push/pop itself, never across dial or close calls.
type Pool struct {
	mu     sync.Mutex
	idle   []Store
	max    int
	closed bool

	dial   DialFunc
	logger *slog.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithMaxConnections sets the maximum number of idle pooled connections.
// Default is DefaultMaxConnections. Values below 1 are clamped to 1.
func WithMaxConnections(max int) PoolOption {
	return func(p *Pool) {
		if max < 1 {
			max = 1
		}
		p.max = max
	}
}

// WithPoolLogger sets a custom logger.
// Default is slog.Default().
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPool creates a connection pool backed by the given dial function.
func NewPool(dial DialFunc, opts ...PoolOption) (*Pool, error) {
	if dial == nil {
		return nil, ErrDialFuncRequired
	}

	p := &Pool{
		max:    DefaultMaxConnections,
		dial:   dial,
		logger: slog.Default().With("component", "store-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Lease checks out a connection for exclusive use. A pooled connection that
// fails its liveness probe is reconnected before reuse; if reconnection
// also fails the error surfaces as store-unavailable without internal
// retries. Every Lease must be matched by exactly one Release on every
// exit path.
func (p *Pool) Lease(ctx context.Context) (Store, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	var store Store
	if n := len(p.idle); n > 0 {
		store = p.idle[n-1]
		p.idle = p.idle[:n-1]
	}
	p.mu.Unlock()

	if store == nil {
		store, err := p.dial(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrStoreQuery, err)
		}
		return store, nil
	}

	// Probe and repair outside the lock; the connection is exclusively ours.
	if err := store.Ping(ctx); err != nil {
		p.logger.Warn("pooled connection failed liveness probe, reconnecting", "err", err)
		if err := store.Reconnect(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("%w: reconnect: %w", core.ErrStoreQuery, err)
		}
	}
	return store, nil
}

// Release returns a leased connection. If the pool is at capacity the
// connection is closed instead; this is not an error condition. Release
// never blocks on pool state.
func (p *Pool) Release(store Store) {
	if store == nil {
		return
	}

	p.mu.Lock()
	if !p.closed && len(p.idle) < p.max {
		p.idle = append(p.idle, store)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	// Pool full or closed; close outside the lock.
	if err := store.Close(); err != nil {
		p.logger.Warn("error closing surplus connection", "err", err)
	}
}

// Size returns the current number of idle pooled connections.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close closes all idle connections and rejects further leases.
// Connections still leased out are closed by Release when returned.
func (p *Pool) Close() error {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mu.Unlock()

	var firstErr error
	for _, store := range idle {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
