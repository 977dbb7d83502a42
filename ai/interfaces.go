package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic for
// identical input within a session.
type Embedder interface {
	// EmbedText generates a normalized vector embedding for a single text
	// string. Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Translator translates secondary-language text to the primary language.
type Translator interface {
	// Translate translates Spanish text to English, preserving meaning and
	// adding no extra commentary. Returns an error if the backend fails.
	Translate(ctx context.Context, text string) (string, error)
}

// GenerateRequest carries everything the generation backend needs to produce
// a grounded answer: the prepared system prompt, the retrieved passages, and
// the query text. For translated queries, Query holds the translated form.
type GenerateRequest struct {
	// System is the prepared prompt template for the detected language and
	// current date. It is built concurrently with retrieval.
	System string

	// Passages are the retrieved document contents, already truncated to
	// the per-passage character budget, in ranked order.
	Passages []string

	// Query is the text the answer should address.
	Query string
}

// Generator produces answers grounded in retrieved context.
type Generator interface {
	// Generate invokes the language model with the assembled context and
	// query, returning the raw answer text. The returned text may still
	// contain reasoning delimiter spans; stripping them is the caller's
	// responsibility.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Translator,
// and Generator instances, ensuring they share configuration appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Translator returns the translation service.
	Translator() Translator

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider should not be used.
	Close() error
}
