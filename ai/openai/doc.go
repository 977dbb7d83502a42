// Package openai implements the ai package interfaces against
// OpenAI-compatible HTTP APIs, including local services such as Ollama,
// LocalAI, and vLLM.
package openai
