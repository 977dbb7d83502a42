package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/JFlic/EarlhamAI/ai"
)

// MockTranslator is a test double for ai.Translator. Safe for concurrent
// use; set TranslateFunc before handing it to concurrent callers.
type MockTranslator struct {
	// TranslateFunc is called by Translate if set.
	// If nil, returns the input unchanged.
	TranslateFunc func(ctx context.Context, text string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockTranslator creates a mock translator that echoes its input.
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{}
}

// Translate returns the injected translation or the input unchanged.
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text)
	}
	return text, nil
}

// CallCount returns the number of times Translate was called.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MockGenerator is a test double for ai.Generator. Safe for concurrent
// use; set GenerateFunc before handing it to concurrent callers.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default behavior: a canned answer naming the query and
	// the number of context passages.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	mu        sync.Mutex
	callCount int
	lastReq   ai.GenerateRequest
}

// NewMockGenerator creates a mock generator with default canned behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the request and returns the injected or canned answer.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastReq = req
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	var b strings.Builder
	b.WriteString("Answer to ")
	b.WriteString(req.Query)
	b.WriteString(" from ")
	b.WriteString(strings.Join(req.Passages, " | "))
	return b.String(), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request passed to Generate.
func (m *MockGenerator) LastRequest() ai.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}
