package ai

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrFactoryRequired is returned when a provider factory is not provided.
	ErrFactoryRequired = errors.New("provider factory required")
)
