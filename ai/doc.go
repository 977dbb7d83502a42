// Package ai defines the contracts for the inference and embedding services
// the engine depends on: text embedding, Spanish-to-English translation, and
// grounded answer generation.
//
// The package also manages inference client handles. A ClientSource decides
// whether callers share one process-wide provider instance or check out a
// per-worker instance, a policy selected once at startup rather than
// duck-typed at call sites.
package ai
