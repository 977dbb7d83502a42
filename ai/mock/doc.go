// Package mock provides test doubles for the ai package interfaces.
//
// The mocks use deterministic default behavior (hash-derived embeddings,
// echo translation and generation) and allow custom behavior injection via
// function fields, so tests can force specific failures without network
// access or a running inference service.
package mock
