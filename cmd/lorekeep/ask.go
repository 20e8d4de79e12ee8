package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/lorekeep/lorekeep/engine/corpus"
	"github.com/lorekeep/lorekeep/engine/prompt"
	"github.com/lorekeep/lorekeep/engine/rag"
	"github.com/lorekeep/lorekeep/engine/semantic"
)

func askAction(c *cli.Context) error {
	question := c.Args().First()
	if question == "" {
		return fmt.Errorf("usage: lorekeep ask \"<question>\"")
	}

	cfg := loadConfig(c)
	logger := newLogger(cfg)

	svc, cleanup, err := buildService(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ans, err := svc.Query(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Println(ans.Text)
	for _, src := range ans.Sources {
		fmt.Printf("  [%s distance=%.3f]\n", src.Name, src.Distance)
	}
	return nil
}

// buildService wires corpus, retriever, builder, and providers per config.
// cleanup releases the Qdrant connection when that backend is selected.
func buildService(ctx context.Context, cfg config, logger *slog.Logger) (*rag.Service, func(), error) {
	embedder, completer, err := buildProviders(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	tok, err := newTokenizer(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := rag.Options{
		MaxPromptTokens: cfg.MaxPromptTokens,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	var retriever rag.Retriever
	cleanup := func() {}

	switch cfg.Backend {
	case "qdrant":
		store, err := semantic.New(cfg.QdrantAddr, cfg.Collection)
		if err != nil {
			return nil, nil, err
		}
		retriever = semantic.NewRetriever(store, 25)
		cleanup = func() { store.Close() }

	case "memory":
		kb, err := corpus.LoadFile(cfg.KBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("knowledge base loaded", "path", cfg.KBPath, "records", len(kb))

		embedded, err := corpus.Attach(ctx, embedder, kb)
		if err != nil {
			return nil, nil, err
		}
		dims, _ := embedded.Dimensions()
		logger.Info("corpus embedded", "records", len(embedded), "dims", dims)
		retriever = rag.NewCorpusRetriever(embedded)

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	svc := rag.New(embedder, completer, retriever, prompt.NewBuilder(tok), opts, logger)
	return svc, cleanup, nil
}

