package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		// Longer prompts get a different vector so batch order is testable.
		vec := []float64{float64(len(req.Prompt)), 0.5}
		json.NewEncoder(w).Encode(ollamaEmbedResp{Embedding: vec})
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		json.NewEncoder(w).Encode(ollamaGenerateResp{Response: "generated: " + req.Model, Done: true})
	})
	return httptest.NewServer(mux)
}

func TestOllamaEmbed(t *testing.T) {
	srv := newOllamaServer(t)
	defer srv.Close()

	c := NewOllama(Config{BaseURL: srv.URL}, nil)
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected 2-dim vector, got %d", len(vec))
	}
	if vec[0] != 5 {
		t.Errorf("expected first component 5 (prompt length), got %f", vec[0])
	}
}

func TestOllamaEmbedBatch_PreservesOrder(t *testing.T) {
	srv := newOllamaServer(t)
	defer srv.Close()

	c := NewOllama(Config{BaseURL: srv.URL}, nil)
	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][0] != 3 {
		t.Errorf("batch order not preserved: %v", vecs)
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := newOllamaServer(t)
	defer srv.Close()

	c := NewOllama(Config{BaseURL: srv.URL, ChatModel: "test-model"}, nil)
	got, err := c.Complete(context.Background(), "prompt text", 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "generated: test-model" {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestOllamaEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer srv.Close()

	c := NewOllama(Config{BaseURL: srv.URL}, nil)
	_, err := c.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if perr.Provider != "ollama" || perr.Op != "embed" {
		t.Errorf("unexpected provider/op: %s/%s", perr.Provider, perr.Op)
	}
}

func TestOllamaComplete_ContextCancelled(t *testing.T) {
	srv := newOllamaServer(t)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewOllama(Config{BaseURL: srv.URL}, nil)
	if _, err := c.Complete(ctx, "prompt", 16); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
