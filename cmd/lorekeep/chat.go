package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lorekeep/lorekeep/pkg/llm"
	"github.com/lorekeep/lorekeep/pkg/metrics"
)

func chatAction(c *cli.Context) error {
	cfg := loadConfig(c)
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := metrics.New()
	mQueries := met.Counter("lorekeep_queries_total", "Questions answered")
	mErrors := met.Counter("lorekeep_provider_errors_total", "Provider failures")
	mLatency := met.Histogram("lorekeep_query_seconds", "End-to-end query latency", nil)
	mPromptTokens := met.Histogram("lorekeep_prompt_tokens", "Assembled prompt token counts",
		[]float64{100, 250, 500, 1000, 1800, 4000})

	if port := c.Int("metrics-port"); port > 0 {
		met.ServeAsync(port)
		logger.Info("metrics server started", "port", port)
	}

	svc, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("lorekeep: ask about the knowledge base (ctrl-d to quit)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		start := time.Now()
		ans, err := svc.Query(ctx, question)
		mLatency.Since(start)

		if err != nil {
			var perr *llm.ProviderError
			if errors.As(err, &perr) {
				mErrors.Inc()
			}
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error("query failed", "err", err)
			fmt.Println("(no answer)")
			continue
		}

		mQueries.Inc()
		mPromptTokens.Observe(float64(ans.PromptTokens))

		fmt.Println(ans.Text)
		for _, src := range ans.Sources {
			fmt.Printf("  [%s distance=%.3f]\n", src.Name, src.Distance)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}
