// Package llm provides embedding and completion provider clients. Providers
// are configured with an explicit Config at construction; nothing in this
// package reads the environment.
package llm

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Embedder turns text into fixed-dimensionality vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates text for an assembled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// Config configures a provider client.
type Config struct {
	APIKey      string
	BaseURL     string
	EmbedModel  string
	ChatModel   string
	Temperature float32
	// RequestsPerSecond caps outbound calls; zero disables the limiter.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// ProviderError is a typed provider failure carrying which provider and
// operation failed, so callers can decide whether to surface it or degrade
// to an empty answer.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

const (
	maxAttempts = 3
	initialWait = 500 * time.Millisecond
	maxWait     = 8 * time.Second
)

// withRetry runs f up to maxAttempts times with exponential backoff and
// jitter, honoring context cancellation between attempts.
func withRetry(ctx context.Context, f func(context.Context) error) error {
	wait := initialWait
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = f(ctx)
		if err == nil {
			return nil
		}
		if attempt == maxAttempts-1 {
			break
		}

		sleep := time.Duration(float64(wait) * (0.5 + rand.Float64()))
		if sleep > maxWait {
			sleep = maxWait
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		wait *= 2
		if wait > maxWait {
			wait = maxWait
		}
	}
	return err
}
