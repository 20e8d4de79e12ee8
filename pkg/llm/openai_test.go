package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// openaiStub mimics the two endpoints the client uses.
func openaiStub(t *testing.T, embedDims int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		type datum struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, embedDims)
			vec[0] = float32(i + 1)
			data[i] = datum{Object: "embedding", Index: i, Embedding: vec}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "test-model",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": "Emily is a young woman."}, "finish_reason": "stop"}},
			"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18},
		})
	})
	return httptest.NewServer(mux)
}

func TestOpenAIEmbedBatch(t *testing.T) {
	srv := openaiStub(t, 4)
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL}, nil)
	vecs, err := c.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 4 {
			t.Errorf("vector %d: expected 4 dims, got %d", i, len(v))
		}
		if v[0] != float32(i+1) {
			t.Errorf("vector %d out of order: %v", i, v)
		}
	}
}

func TestOpenAIEmbed(t *testing.T) {
	srv := openaiStub(t, 3)
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL}, nil)
	vec, err := c.Embed(context.Background(), "who is Emily?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 dims, got %d", len(vec))
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := openaiStub(t, 3)
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL}, nil)
	got, err := c.Complete(context.Background(), "a prompt", 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Emily is a young woman." {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestOpenAIEmbed_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, 429)
	}))
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL}, nil)
	_, err := c.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if perr.Provider != "openai" || perr.Op != "embed" {
		t.Errorf("unexpected provider/op: %s/%s", perr.Provider, perr.Op)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProviderError{Provider: "openai", Op: "complete", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ProviderError should unwrap to its cause")
	}
	want := "openai: complete: connection refused"
	if err.Error() != want {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
