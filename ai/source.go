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


package ai

import "sync"

// ClientSource hands out AIProvider instances to request workers. Two
// policies exist: a single shared instance for clients that are safe for
// concurrent invocation, and per-worker instances for clients that are not.
// The policy is chosen once at startup.
type ClientSource interface {
	// Acquire returns a provider and a release function. The release
	// function must be called exactly once when the worker is done with
	// the provider, on every exit path.
	Acquire() (AIProvider, func(), error)

	// Close releases every provider the source has created.
	Close() error
}

// SharedSource hands every caller the same provider instance. Use it when
// the underlying client serializes or safely interleaves concurrent calls.
type SharedSource struct {
	provider AIProvider
}

var _ ClientSource = (*SharedSource)(nil)

// NewSharedSource creates a source backed by a single shared provider.
func NewSharedSource(provider AIProvider) (*SharedSource, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	return &SharedSource{provider: provider}, nil
}

// Acquire returns the shared provider. The release function is a no-op.
func (s *SharedSource) Acquire() (AIProvider, func(), error) {
	return s.provider, func() {}, nil
}

// Close closes the shared provider.
func (s *SharedSource) Close() error {
	return s.provider.Close()
}

// ProviderFactory constructs a new provider instance.
type ProviderFactory func() (AIProvider, error)

// PerWorkerSource lazily creates one provider per concurrent worker. A
// released provider is reused by the next caller, so the number of live
// instances matches the peak concurrency, not the request count. No
// instance is ever visible to two workers at once, so the providers
// themselves need no locking.
type PerWorkerSource struct {
	mu      sync.Mutex
	idle    []AIProvider
	all     []AIProvider
	factory ProviderFactory
}

var _ ClientSource = (*PerWorkerSource)(nil)

// NewPerWorkerSource creates a source that builds providers on demand using
// the given factory.
func NewPerWorkerSource(factory ProviderFactory) (*PerWorkerSource, error) {
	if factory == nil {
		return nil, ErrFactoryRequired
	}
	return &PerWorkerSource{factory: factory}, nil
}

// Acquire returns an idle provider or creates a new one. The release
// function returns the instance for reuse.
func (s *PerWorkerSource) Acquire() (AIProvider, func(), error) {
	s.mu.Lock()
	if n := len(s.idle); n > 0 {
		provider := s.idle[n-1]
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		return provider, func() { s.release(provider) }, nil
	}
	s.mu.Unlock()

	// Construct outside the lock; the factory may dial out.
	provider, err := s.factory()
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.all = append(s.all, provider)
	s.mu.Unlock()

	return provider, func() { s.release(provider) }, nil
}

func (s *PerWorkerSource) release(provider AIProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle = append(s.idle, provider)
}

// Close closes every provider ever created by this source.
func (s *PerWorkerSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, provider := range s.all {
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.idle = nil
	s.all = nil
	return firstErr
}
