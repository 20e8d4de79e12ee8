package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// OpenAIClient implements Embedder and Completer against the OpenAI API or
// any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client  *openai.Client
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAI creates an OpenAI provider client from cfg.
func NewOpenAI(cfg Config, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = string(openai.SmallEmbedding3)
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		cfg:     cfg,
		limiter: newLimiter(cfg),
		logger:  logger,
	}
}

func newLimiter(cfg Config) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

func (c *OpenAIClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Embed returns the embedding vector for a single text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in a single API call, preserving input order.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &ProviderError{Provider: "openai", Op: "embed", Err: err}
	}

	var resp openai.EmbeddingResponse
	err := withRetry(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: openai.EmbeddingModel(c.cfg.EmbedModel),
		})
		return callErr
	})
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Op: "embed", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &ProviderError{
			Provider: "openai",
			Op:       "embed",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Complete generates a chat completion for the assembled prompt.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", &ProviderError{Provider: "openai", Op: "complete", Err: err}
	}

	var resp openai.ChatCompletionResponse
	err := withRetry(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   maxOutputTokens,
			Temperature: c.cfg.Temperature,
		})
		return callErr
	})
	if err != nil {
		return "", &ProviderError{Provider: "openai", Op: "complete", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Op: "complete", Err: fmt.Errorf("no choices returned")}
	}

	c.logger.Debug("openai completion", "model", resp.Model, "tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
