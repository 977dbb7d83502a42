package mock

import "github.com/JFlic/EarlhamAI/ai"

// MockProvider is a test double for ai.AIProvider that aggregates the
// individual mocks.
type MockProvider struct {
	embedder   *MockEmbedder
	translator *MockTranslator
	generator  *MockGenerator

	closed bool
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a provider with default mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		translator: NewMockTranslator(),
		generator:  NewMockGenerator(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Translator returns the mock translation service.
func (p *MockProvider) Translator() ai.Translator {
	return p.translator
}

// Generator returns the mock generation service.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the concrete embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockTranslator returns the concrete translator for test assertions.
func (p *MockProvider) GetMockTranslator() *MockTranslator {
	return p.translator
}

// GetMockGenerator returns the concrete generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
