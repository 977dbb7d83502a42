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

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Embedding, when present, must have exactly EmbeddingDim elements
//
// NOT validated:
//   - ID (0 is valid before the database assigns one)
//   - Metadata (opaque; recognized keys are read best-effort)
//   - Embedding normalization (a caller-provided invariant)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if len(doc.Embedding) != 0 && len(doc.Embedding) != EmbeddingDim {
		return fmt.Errorf("%w: embedding has %d dimensions, want %d",
			ErrInvalidDocument, len(doc.Embedding), EmbeddingDim)
	}

	return nil
}
