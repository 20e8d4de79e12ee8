// Package semantic owns all Qdrant operations: it persists embedded
// knowledge-base records and serves similarity search as an alternative to
// the in-memory linear scan for corpora too large to re-embed per run.
package semantic

import "github.com/lorekeep/lorekeep/engine/domain"

// Hit is a single vector search result: the reconstructed record and its
// cosine distance from the query (smaller is more similar).
type Hit struct {
	ID       string        `json:"id"`
	Record   domain.Record `json:"record"`
	Distance float64       `json:"distance"`
}
