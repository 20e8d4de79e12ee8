package domain

import (
	"errors"
	"testing"
)

func TestRecordText(t *testing.T) {
	r := Record{
		Name:        "Emily",
		Description: "A young woman with a talent for magic",
		Medium:      "Novel",
		Setting:     "A fantasy kingdom",
	}
	want := "NAME: Emily\nDESCRIPTION: A young woman with a talent for magic\nMEDIUM: Novel\nSETTING: A fantasy kingdom"
	if got := r.Text(); got != want {
		t.Errorf("unexpected text layout:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestWithEmbeddingDoesNotMutate(t *testing.T) {
	r := Record{Name: "Jack", Description: "A pirate"}
	r2 := r.WithEmbedding([]float32{0.1, 0.2})
	if r.Embedding != nil {
		t.Error("original record was mutated")
	}
	if len(r2.Embedding) != 2 {
		t.Errorf("expected 2-dim embedding, got %d", len(r2.Embedding))
	}
}

func TestCorpusDimensions(t *testing.T) {
	c := Corpus{
		{Name: "a", Embedding: []float32{1, 2, 3}},
		{Name: "b", Embedding: []float32{4, 5, 6}},
	}
	dims, err := c.Dimensions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dims != 3 {
		t.Errorf("expected 3 dims, got %d", dims)
	}
}

func TestCorpusDimensions_Empty(t *testing.T) {
	_, err := Corpus{}.Dimensions()
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestCorpusDimensions_Mismatch(t *testing.T) {
	c := Corpus{
		{Name: "a", Embedding: []float32{1, 2, 3}},
		{Name: "b", Embedding: []float32{4, 5}},
	}
	_, err := c.Dimensions()
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCorpusDimensions_NoEmbedding(t *testing.T) {
	c := Corpus{{Name: "a"}}
	_, err := c.Dimensions()
	if !errors.Is(err, ErrNoEmbedding) {
		t.Errorf("expected ErrNoEmbedding, got %v", err)
	}
}

func TestValidateRecord(t *testing.T) {
	if err := ValidateRecord(Record{Name: "Tom", Description: "A cat"}); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	err := ValidateRecord(Record{Name: "  ", Description: "A cat"})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Errorf("expected ValidationError on name, got %v", err)
	}

	if err := ValidateRecord(Record{Name: "Tom"}); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField for empty description, got %v", err)
	}
}

func TestCorpusTexts(t *testing.T) {
	c := Corpus{
		{Name: "a", Description: "d1"},
		{Name: "b", Description: "d2"},
	}
	texts := c.Texts()
	if len(texts) != 2 {
		t.Fatalf("expected 2 texts, got %d", len(texts))
	}
	if texts[0] == texts[1] {
		t.Error("texts should differ per record")
	}
}
