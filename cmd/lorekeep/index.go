package main

import (
	"github.com/urfave/cli/v2"

	"github.com/lorekeep/lorekeep/engine/corpus"
	"github.com/lorekeep/lorekeep/engine/semantic"
)

func indexAction(c *cli.Context) error {
	cfg := loadConfig(c)
	logger := newLogger(cfg)
	ctx := c.Context

	embedder, _, err := buildProviders(cfg, logger)
	if err != nil {
		return err
	}

	kb, err := corpus.LoadFile(cfg.KBPath)
	if err != nil {
		return err
	}
	logger.Info("knowledge base loaded", "path", cfg.KBPath, "records", len(kb))

	embedded, err := corpus.Attach(ctx, embedder, kb)
	if err != nil {
		return err
	}
	dims, err := embedded.Dimensions()
	if err != nil {
		return err
	}
	logger.Info("corpus embedded", "records", len(embedded), "dims", dims)

	store, err := semantic.New(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Bool("recreate") {
		if err := store.DeleteCollection(ctx); err != nil {
			logger.Warn("delete collection", "err", err)
		}
	}
	if err := store.EnsureCollection(ctx, dims); err != nil {
		return err
	}
	if err := store.Upsert(ctx, embedded); err != nil {
		return err
	}

	logger.Info("index complete", "collection", cfg.Collection, "points", len(embedded))
	return nil
}
