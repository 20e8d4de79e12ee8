package corpus

import (
	"context"
	"fmt"

	"github.com/lorekeep/lorekeep/engine/domain"
	"github.com/lorekeep/lorekeep/pkg/llm"
)

// EmbedBatchSize is the max texts per embedding request.
const EmbedBatchSize = 100

// Attach embeds every record's rendered text in one batch pass and returns a
// new corpus with the embeddings set. The input corpus is not mutated. All
// returned vectors must share one dimensionality.
func Attach(ctx context.Context, embedder llm.Embedder, c domain.Corpus) (domain.Corpus, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("corpus: attach: %w", domain.ErrEmptyCorpus)
	}

	texts := c.Texts()
	out := make(domain.Corpus, len(c))

	for i := 0; i < len(texts); i += EmbedBatchSize {
		end := i + EmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := embedder.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("corpus: embed records %d-%d: %w", i, end-1, err)
		}
		if len(vectors) != end-i {
			return nil, fmt.Errorf("corpus: embed records %d-%d: expected %d vectors, got %d",
				i, end-1, end-i, len(vectors))
		}

		for j, vec := range vectors {
			out[i+j] = c[i+j].WithEmbedding(vec)
		}
	}

	if _, err := out.Dimensions(); err != nil {
		return nil, fmt.Errorf("corpus: attach: %w", err)
	}
	return out, nil
}
