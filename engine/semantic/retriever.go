package semantic

import (
	"context"

	"github.com/lorekeep/lorekeep/engine/rank"
)

// Retriever adapts the VectorStore to the rag.Retriever contract.
type Retriever struct {
	store *VectorStore
	limit int
}

// NewRetriever wraps store as a retriever returning at most limit hits.
func NewRetriever(store *VectorStore, limit int) *Retriever {
	if limit <= 0 {
		limit = 25
	}
	return &Retriever{store: store, limit: limit}
}

// Retrieve searches Qdrant and returns results in the same shape the
// in-memory ranker produces: ascending cosine distance.
func (r *Retriever) Retrieve(ctx context.Context, embedding []float32) ([]rank.Ranked, error) {
	hits, err := r.store.Search(ctx, embedding, r.limit)
	if err != nil {
		return nil, err
	}
	ranked := make([]rank.Ranked, len(hits))
	for i, h := range hits {
		ranked[i] = rank.Ranked{Record: h.Record, Distance: h.Distance}
	}
	return ranked, nil
}
