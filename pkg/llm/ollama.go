package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// OllamaClient implements Embedder and Completer using Ollama's HTTP API,
// for deployments that run models locally.
type OllamaClient struct {
	baseURL string
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOllama creates an Ollama provider client. cfg.BaseURL is the Ollama
// server address, e.g. http://localhost:11434.
func NewOllama(cfg Config, logger *slog.Logger) *OllamaClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "nomic-embed-text"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "llama3.1:8b"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &OllamaClient{
		baseURL: cfg.BaseURL,
		cfg:     cfg,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		limiter: newLimiter(cfg),
		logger:  logger,
	}
}

func (c *OllamaClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

type ollamaEmbedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResp struct {
	Embedding []float64 `json:"embedding"`
}

type ollamaGenerateReq struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResp struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *OllamaClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Embed returns the embedding vector for a single text.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &ProviderError{Provider: "ollama", Op: "embed", Err: err}
	}

	var result ollamaEmbedResp
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/api/embeddings", ollamaEmbedReq{Model: c.cfg.EmbedModel, Prompt: text}, &result)
	})
	if err != nil {
		return nil, &ProviderError{Provider: "ollama", Op: "embed", Err: err}
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

// EmbedBatch embeds texts one request at a time; the Ollama embeddings
// endpoint takes a single prompt per call.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d]: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Complete generates a completion for the assembled prompt.
func (c *OllamaClient) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", &ProviderError{Provider: "ollama", Op: "complete", Err: err}
	}

	payload := ollamaGenerateReq{
		Model:  c.cfg.ChatModel,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": maxOutputTokens,
		},
	}

	var result ollamaGenerateResp
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/api/generate", payload, &result)
	})
	if err != nil {
		return "", &ProviderError{Provider: "ollama", Op: "complete", Err: err}
	}
	return result.Response, nil
}
