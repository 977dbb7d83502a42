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


package ai_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSource(t *testing.T) {
	t.Run("requires provider", func(t *testing.T) {
		_, err := ai.NewSharedSource(nil)
		assert.ErrorIs(t, err, ai.ErrProviderRequired)
	})

	t.Run("every caller gets the same instance", func(t *testing.T) {
		provider := mock.NewMockProvider()
		source, err := ai.NewSharedSource(provider)
		require.NoError(t, err)

		first, releaseFirst, err := source.Acquire()
		require.NoError(t, err)
		second, releaseSecond, err := source.Acquire()
		require.NoError(t, err)

		assert.Same(t, first.(*mock.MockProvider), second.(*mock.MockProvider))

		releaseFirst()
		releaseSecond()
	})

	t.Run("close closes the provider", func(t *testing.T) {
		provider := mock.NewMockProvider()
		source, err := ai.NewSharedSource(provider)
		require.NoError(t, err)

		require.NoError(t, source.Close())
		assert.True(t, provider.Closed())
	})
}

func TestPerWorkerSource(t *testing.T) {
	t.Run("requires factory", func(t *testing.T) {
		_, err := ai.NewPerWorkerSource(nil)
		assert.ErrorIs(t, err, ai.ErrFactoryRequired)
	})

	t.Run("concurrent acquires get distinct instances", func(t *testing.T) {
		created := 0
		source, err := ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			created++
			return mock.NewMockProvider(), nil
		})
		require.NoError(t, err)

		first, releaseFirst, err := source.Acquire()
		require.NoError(t, err)
		second, releaseSecond, err := source.Acquire()
		require.NoError(t, err)

		assert.NotSame(t, first.(*mock.MockProvider), second.(*mock.MockProvider))
		assert.Equal(t, 2, created)

		releaseFirst()
		releaseSecond()
	})

	t.Run("released instances are reused", func(t *testing.T) {
		created := 0
		source, err := ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			created++
			return mock.NewMockProvider(), nil
		})
		require.NoError(t, err)

		first, release, err := source.Acquire()
		require.NoError(t, err)
		release()

		second, release, err := source.Acquire()
		require.NoError(t, err)
		release()

		assert.Same(t, first.(*mock.MockProvider), second.(*mock.MockProvider))
		assert.Equal(t, 1, created)
	})

	t.Run("factory errors propagate", func(t *testing.T) {
		boom := errors.New("dial failed")
		source, err := ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			return nil, boom
		})
		require.NoError(t, err)

		_, _, err = source.Acquire()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("close closes every created instance", func(t *testing.T) {
		var providers []*mock.MockProvider
		var mu sync.Mutex
		source, err := ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			p := mock.NewMockProvider()
			mu.Lock()
			providers = append(providers, p)
			mu.Unlock()
			return p, nil
		})
		require.NoError(t, err)

		_, releaseFirst, err := source.Acquire()
		require.NoError(t, err)
		_, releaseSecond, err := source.Acquire()
		require.NoError(t, err)
		releaseFirst()
		releaseSecond()

		require.NoError(t, source.Close())
		require.Len(t, providers, 2)
		for _, p := range providers {
			assert.True(t, p.Closed())
		}
	})

	t.Run("concurrent acquire and release", func(t *testing.T) {
		source, err := ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			return mock.NewMockProvider(), nil
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					provider, release, err := source.Acquire()
					assert.NoError(t, err)
					assert.NotNil(t, provider)
					release()
				}
			}()
		}
		wg.Wait()
	})
}
