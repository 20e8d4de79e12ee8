// Package domain holds the core types shared by the corpus, ranking
// and retrieval layers.
package domain

import "fmt"

// Record is a single character entry from the knowledge base.
// Embedding is nil until attached by the corpus embedder.
type Record struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Medium      string    `json:"medium"`
	Setting     string    `json:"setting"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Text renders the record into the canonical chunk layout used for
// embedding and prompt context.
func (r Record) Text() string {
	return fmt.Sprintf("NAME: %s\nDESCRIPTION: %s\nMEDIUM: %s\nSETTING: %s",
		r.Name, r.Description, r.Medium, r.Setting)
}

// WithEmbedding returns a copy of the record carrying the given vector.
// The receiver is not modified.
func (r Record) WithEmbedding(vec []float32) Record {
	out := r
	out.Embedding = make([]float32, len(vec))
	copy(out.Embedding, vec)
	return out
}

// Corpus is an ordered collection of records. Order is significant:
// ties during ranking preserve corpus order.
type Corpus []Record

// Texts returns the chunk text of every record, in corpus order.
func (c Corpus) Texts() []string {
	out := make([]string, len(c))
	for i, r := range c {
		out[i] = r.Text()
	}
	return out
}

// Dimensions returns the shared embedding dimensionality of the corpus.
// It fails if the corpus is empty, any record is unembedded, or the
// records disagree on dimensionality.
func (c Corpus) Dimensions() (int, error) {
	if len(c) == 0 {
		return 0, fmt.Errorf("domain: dimensions: %w", ErrEmptyCorpus)
	}
	dims := 0
	for i, r := range c {
		if len(r.Embedding) == 0 {
			return 0, fmt.Errorf("domain: record %d (%s): %w", i, r.Name, ErrNoEmbedding)
		}
		if dims == 0 {
			dims = len(r.Embedding)
			continue
		}
		if len(r.Embedding) != dims {
			return 0, fmt.Errorf("domain: record %d (%s): got %d dims, want %d: %w",
				i, r.Name, len(r.Embedding), dims, ErrDimensionMismatch)
		}
	}
	return dims, nil
}
