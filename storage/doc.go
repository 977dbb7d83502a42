// Package storage defines the document store contract consumed by the
// retrieval engine, and a bounded pool of reusable store connections.
//
// The store is treated as an opaque service: it exposes a scored hybrid
// query (keyword rank blended with vector similarity, computed store-side),
// a liveness probe, and connect/close lifecycle calls. The on-disk format
// is an implementation concern of the backend packages.
package storage
