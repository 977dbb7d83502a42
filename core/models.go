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


package core

import "fmt"

// EmbeddingDim is the fixed dimensionality of document and query embeddings.
// Vectors are expected to be normalized to unit length by the embedding
// service; the retrieval engine does not re-validate this.
const EmbeddingDim = 1024

// Language identifies the language of a user query.
type Language int

const (
	// LanguageEnglish is the system's primary operating language.
	LanguageEnglish Language = iota + 1
	// LanguageSpanish is the supported secondary language. Spanish queries
	// are translated to English before retrieval.
	LanguageSpanish
)

// String returns the human-readable label used in results and logs.
func (l Language) String() string {
	switch l {
	case LanguageSpanish:
		return "Spanish"
	default:
		return "English"
	}
}

// Metadata holds the structured metadata attached to a document chunk.
// It is stored opaquely; only a handful of keys are interpreted by the
// core (source, heading, url, page, scraped_at, type).
type Metadata map[string]any

// GetString returns the string value for key, or fallback if the key is
// missing or nil. Non-string values are formatted with fmt.Sprint.
func (m Metadata) GetString(key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Document is a persisted corpus record: one chunk of source material with
// its metadata and embedding. Documents are immutable once written, except
// by a re-ingestion overwrite.
type Document struct {
	ID        int64
	Content   string
	Metadata  Metadata
	Embedding []float32
}

// Candidate is a document plus its retrieval scores. Candidates are
// produced by the retrieval engine mid-pipeline and never persisted.
type Candidate struct {
	ID          int64
	Content     string
	Metadata    Metadata
	HybridScore float64 // store-side blend of keyword rank and vector similarity
	FinalScore  float64 // hybrid score after client-side re-ranking multipliers
}

// Query is the ephemeral per-request value describing one user question.
type Query struct {
	Raw        string
	Language   Language
	SearchText string // equals Raw for English queries, the translation otherwise
}

// Source summarizes where a retrieved passage came from. One Source is
// emitted per candidate, in candidate order, without deduplication.
type Source struct {
	Heading string `json:"heading"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Page    string `json:"page"`
}

// SourceFromMetadata builds a Source summary from document metadata,
// substituting placeholders for missing keys.
func SourceFromMetadata(m Metadata) Source {
	return Source{
		Heading: m.GetString("heading", "Unknown Title"),
		Source:  m.GetString("source", "None"),
		URL:     m.GetString("url", ""),
		Page:    m.GetString("page", ""),
	}
}

// LanguageInfo reports the detected language label and the text that was
// actually used for retrieval and generation.
type LanguageInfo struct {
	Language   string `json:"language"`
	SearchText string `json:"search_text"`
}

// Result is the answer payload returned to the caller on success.
type Result struct {
	Answer       string       `json:"answer"`
	Sources      []Source     `json:"sources"`
	LanguageInfo LanguageInfo `json:"language_info"`
}
