package storage_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/JFlic/EarlhamAI/core"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/JFlic/EarlhamAI/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryDialer(dialed *atomic.Int64) storage.DialFunc {
	return func(ctx context.Context) (storage.Store, error) {
		if dialed != nil {
			dialed.Add(1)
		}
		return memory.NewStore(), nil
	}
}

func TestNewPool(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		pool, err := storage.NewPool(memoryDialer(nil))
		require.NoError(t, err)
		assert.NotNil(t, pool)
	})

	t.Run("nil dial function", func(t *testing.T) {
		_, err := storage.NewPool(nil)
		assert.Equal(t, storage.ErrDialFuncRequired, err)
	})
}

func TestPoolLeaseRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("lease dials when empty", func(t *testing.T) {
		var dialed atomic.Int64
		pool, err := storage.NewPool(memoryDialer(&dialed))
		require.NoError(t, err)

		store, err := pool.Lease(ctx)
		require.NoError(t, err)
		assert.NotNil(t, store)
		assert.EqualValues(t, 1, dialed.Load())
	})

	t.Run("released connection is reused", func(t *testing.T) {
		var dialed atomic.Int64
		pool, err := storage.NewPool(memoryDialer(&dialed))
		require.NoError(t, err)

		store, err := pool.Lease(ctx)
		require.NoError(t, err)
		pool.Release(store)

		again, err := pool.Lease(ctx)
		require.NoError(t, err)
		assert.Same(t, store, again)
		assert.EqualValues(t, 1, dialed.Load())
	})

	t.Run("release beyond capacity closes connection", func(t *testing.T) {
		pool, err := storage.NewPool(memoryDialer(nil), storage.WithMaxConnections(1))
		require.NoError(t, err)

		first, err := pool.Lease(ctx)
		require.NoError(t, err)
		second, err := pool.Lease(ctx)
		require.NoError(t, err)

		pool.Release(first)
		pool.Release(second)

		assert.Equal(t, 1, pool.Size())
		assert.True(t, second.(*memory.Store).Closed())
		assert.False(t, first.(*memory.Store).Closed())
	})

	t.Run("dial failure surfaces as store error", func(t *testing.T) {
		pool, err := storage.NewPool(func(ctx context.Context) (storage.Store, error) {
			return nil, errors.New("connection refused")
		})
		require.NoError(t, err)

		_, err = pool.Lease(ctx)
		assert.ErrorIs(t, err, core.ErrStoreQuery)
	})

	t.Run("nil release is ignored", func(t *testing.T) {
		pool, err := storage.NewPool(memoryDialer(nil))
		require.NoError(t, err)
		pool.Release(nil)
		assert.Zero(t, pool.Size())
	})
}

func TestPoolLivenessProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("dead connection is reconnected before reuse", func(t *testing.T) {
		pool, err := storage.NewPool(memoryDialer(nil))
		require.NoError(t, err)

		store, err := pool.Lease(ctx)
		require.NoError(t, err)
		store.(*memory.Store).PingErr = errors.New("server closed the connection")
		pool.Release(store)

		again, err := pool.Lease(ctx)
		require.NoError(t, err)
		assert.Same(t, store, again)
		assert.NoError(t, again.Ping(ctx))
	})

	t.Run("reconnect failure is not retried", func(t *testing.T) {
		pool, err := storage.NewPool(memoryDialer(nil))
		require.NoError(t, err)

		store, err := pool.Lease(ctx)
		require.NoError(t, err)
		ms := store.(*memory.Store)
		ms.PingErr = errors.New("server closed the connection")
		ms.ReconnectErr = errors.New("still unreachable")
		pool.Release(store)

		_, err = pool.Lease(ctx)
		assert.ErrorIs(t, err, core.ErrStoreQuery)
		assert.True(t, ms.Closed())
	})
}

// TestPoolConcurrentInvariants exercises N concurrent lease/release cycles
// and checks that the pool never exceeds its maximum and no handle is ever
// observed leased by two goroutines at once.
func TestPoolConcurrentInvariants(t *testing.T) {
	const (
		maxConns = 4
		workers  = 16
		cycles   = 50
	)

	pool, err := storage.NewPool(memoryDialer(nil), storage.WithMaxConnections(maxConns))
	require.NoError(t, err)

	var mu sync.Mutex
	leased := make(map[storage.Store]bool)
	var doubleLease atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			for j := 0; j < cycles; j++ {
				store, err := pool.Lease(ctx)
				if err != nil {
					t.Error(err)
					return
				}

				mu.Lock()
				if leased[store] {
					doubleLease.Store(true)
				}
				leased[store] = true
				mu.Unlock()

				mu.Lock()
				leased[store] = false
				mu.Unlock()

				pool.Release(store)
			}
		}()
	}
	wg.Wait()

	assert.False(t, doubleLease.Load(), "a handle was leased to two callers at once")
	assert.LessOrEqual(t, pool.Size(), maxConns)
}

func TestPoolClose(t *testing.T) {
	ctx := context.Background()

	pool, err := storage.NewPool(memoryDialer(nil))
	require.NoError(t, err)

	store, err := pool.Lease(ctx)
	require.NoError(t, err)
	pool.Release(store)

	require.NoError(t, pool.Close())
	assert.True(t, store.(*memory.Store).Closed())

	_, err = pool.Lease(ctx)
	assert.Equal(t, storage.ErrPoolClosed, err)

	// A connection still out at close time is closed on release.
	late := memory.NewStore()
	pool.Release(late)
	assert.True(t, late.Closed())
}
