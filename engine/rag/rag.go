// Package rag orchestrates the retrieval-augmented generation pipeline: it
// embeds a user question, ranks the knowledge base by relevance, assembles a
// token-bounded prompt, and calls the completion provider for the answer.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorekeep/lorekeep/engine/domain"
	"github.com/lorekeep/lorekeep/engine/prompt"
	"github.com/lorekeep/lorekeep/engine/rank"
	"github.com/lorekeep/lorekeep/pkg/llm"
)

// Retriever returns knowledge-base records ordered by ascending cosine
// distance from the query embedding.
type Retriever interface {
	Retrieve(ctx context.Context, embedding []float32) ([]rank.Ranked, error)
}

// Options configures the pipeline behaviour.
type Options struct {
	MaxPromptTokens int
	MaxOutputTokens int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxPromptTokens: 1800,
		MaxOutputTokens: 150,
	}
}

// Service runs the RAG pipeline.
type Service struct {
	embed    llm.Embedder
	complete llm.Completer
	retrieve Retriever
	builder  *prompt.Builder
	opts     Options
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a Service.
func New(embed llm.Embedder, complete llm.Completer, retrieve Retriever, builder *prompt.Builder, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embed:    embed,
		complete: complete,
		retrieve: retrieve,
		builder:  builder,
		opts:     opts,
		logger:   logger,
		tracer:   otel.Tracer("engine/rag"),
	}
}

// Answer is the structured result of a query.
type Answer struct {
	Text         string   `json:"text"`
	Sources      []Source `json:"sources"`
	PromptTokens int      `json:"prompt_tokens"`
	ChunksUsed   int      `json:"chunks_used"`
}

// Source identifies a record whose text made it into the prompt context.
type Source struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Query runs the full pipeline for a user question. Provider failures
// surface as *llm.ProviderError for the caller to handle.
func (s *Service) Query(ctx context.Context, question string) (*Answer, error) {
	ctx, span := s.tracer.Start(ctx, "rag.query")
	defer span.End()

	s.logger.Info("rag query start", "question_len", len(question))

	embedding, err := s.stageEmbed(ctx, question)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("rag: embed question: %w", err))
	}

	ranked, err := s.stageRetrieve(ctx, embedding)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("rag: rank corpus: %w", err))
	}

	promptStr, stats := s.builder.BuildWithStats(question, rank.Texts(ranked), s.opts.MaxPromptTokens)
	s.logger.Info("rag prompt assembled",
		"chunks", stats.ChunksUsed,
		"prompt_tokens", stats.PromptTokens,
		"budget", s.opts.MaxPromptTokens,
	)

	text, err := s.stageComplete(ctx, promptStr)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("rag: complete: %w", err))
	}

	sources := make([]Source, stats.ChunksUsed)
	for i := range sources {
		sources[i] = Source{Name: ranked[i].Record.Name, Distance: ranked[i].Distance}
	}

	return &Answer{
		Text:         text,
		Sources:      sources,
		PromptTokens: stats.PromptTokens,
		ChunksUsed:   stats.ChunksUsed,
	}, nil
}

// QueryOrEmpty degrades provider failures to an empty answer after logging
// them, for callers that treat "no answer" and "failed" the same way.
func (s *Service) QueryOrEmpty(ctx context.Context, question string) string {
	ans, err := s.Query(ctx, question)
	if err != nil {
		s.logger.Error("rag query failed", "err", err)
		return ""
	}
	return ans.Text
}

func (s *Service) stageEmbed(ctx context.Context, question string) ([]float32, error) {
	ctx, span := s.tracer.Start(ctx, "rag.embed")
	defer span.End()
	return s.embed.Embed(ctx, question)
}

func (s *Service) stageRetrieve(ctx context.Context, embedding []float32) ([]rank.Ranked, error) {
	ctx, span := s.tracer.Start(ctx, "rag.retrieve")
	defer span.End()
	return s.retrieve.Retrieve(ctx, embedding)
}

func (s *Service) stageComplete(ctx context.Context, promptStr string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "rag.complete")
	defer span.End()
	return s.complete.Complete(ctx, promptStr, s.opts.MaxOutputTokens)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// CorpusRetriever ranks an in-memory corpus with a linear scan.
type CorpusRetriever struct {
	corpus domain.Corpus
}

// NewCorpusRetriever wraps a loaded corpus as a Retriever.
func NewCorpusRetriever(c domain.Corpus) *CorpusRetriever {
	return &CorpusRetriever{corpus: c}
}

// Retrieve implements Retriever.
func (r *CorpusRetriever) Retrieve(_ context.Context, embedding []float32) ([]rank.Ranked, error) {
	return rank.Rank(embedding, r.corpus)
}
