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

import "errors"

// Request failure taxonomy. Every failed request surfaces exactly one of
// these, wrapped with detail. Exceeding the connection pool maximum is not
// an error: excess handles are closed on return, a lease never blocks or
// fails because of pool occupancy.
var (
	// ErrEmbedding indicates the embedding backend was unreachable or
	// rejected the input. Raised before any store access occurs.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStoreQuery indicates a document store failure: connection loss,
	// a malformed query, or a liveness probe that still fails after a
	// reconnect attempt.
	ErrStoreQuery = errors.New("store query failed")

	// ErrInference indicates the translation or generation backend failed.
	ErrInference = errors.New("inference failed")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
