// Package rank orders knowledge-base records by ascending cosine distance
// from a query embedding. Ranking is a pure function over a linear scan of
// the corpus; the corpus itself is never mutated.
package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/lorekeep/lorekeep/engine/domain"
)

// Ranked pairs a record with its cosine distance to the query.
type Ranked struct {
	Record   domain.Record
	Distance float64
}

// Rank returns a new view of the corpus ordered by ascending cosine distance
// to the query embedding. Ties keep the original corpus order. Every record
// must share the query's dimensionality or the call fails immediately.
func Rank(query []float32, corpus domain.Corpus) ([]Ranked, error) {
	ranked := make([]Ranked, len(corpus))
	for i, rec := range corpus {
		if len(rec.Embedding) != len(query) {
			return nil, fmt.Errorf("rank: record %d (%s): %d-dim embedding vs %d-dim query: %w",
				i, rec.Name, len(rec.Embedding), len(query), domain.ErrDimensionMismatch)
		}
		ranked[i] = Ranked{Record: rec, Distance: CosineDistance(query, rec.Embedding)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked, nil
}

// Texts returns the rendered record text of each ranked entry, in rank order.
func Texts(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Record.Text()
	}
	return out
}

// CosineSimilarity computes the cosine similarity between two equal-length
// vectors, accumulating in float64. Zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 minus cosine similarity; smaller means more similar.
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}
