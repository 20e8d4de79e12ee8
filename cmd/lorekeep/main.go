// Command lorekeep answers questions about a character knowledge base using
// retrieval-augmented generation: it embeds the question, ranks the corpus
// by cosine distance, assembles a token-bounded prompt, and asks a
// completion provider.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lorekeep/lorekeep/pkg/llm"
	"github.com/lorekeep/lorekeep/pkg/tokenizer"
)

func main() {
	app := &cli.App{
		Name:  "lorekeep",
		Usage: "ask questions about a character knowledge base",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kb", Value: "characters.csv", Usage: "knowledge base CSV path", EnvVars: []string{"LOREKEEP_KB"}},
			&cli.StringFlag{Name: "provider", Value: "openai", Usage: "llm provider: openai or ollama", EnvVars: []string{"LOREKEEP_PROVIDER"}},
			&cli.StringFlag{Name: "api-key", Usage: "provider API key", EnvVars: []string{"OPENAI_API_KEY"}},
			&cli.StringFlag{Name: "base-url", Usage: "provider base URL override", EnvVars: []string{"LOREKEEP_BASE_URL"}},
			&cli.StringFlag{Name: "embed-model", Usage: "embedding model name", EnvVars: []string{"LOREKEEP_EMBED_MODEL"}},
			&cli.StringFlag{Name: "chat-model", Usage: "chat model name", EnvVars: []string{"LOREKEEP_CHAT_MODEL"}},
			&cli.StringFlag{Name: "encoding", Value: tokenizer.DefaultEncoding, Usage: "tiktoken encoding, or 'words' for the offline heuristic", EnvVars: []string{"LOREKEEP_ENCODING"}},
			&cli.IntFlag{Name: "max-prompt-tokens", Value: 1800, Usage: "prompt token budget", EnvVars: []string{"LOREKEEP_MAX_PROMPT_TOKENS"}},
			&cli.IntFlag{Name: "max-output-tokens", Value: 150, Usage: "completion token cap", EnvVars: []string{"LOREKEEP_MAX_OUTPUT_TOKENS"}},
			&cli.StringFlag{Name: "backend", Value: "memory", Usage: "retrieval backend: memory or qdrant", EnvVars: []string{"LOREKEEP_BACKEND"}},
			&cli.StringFlag{Name: "qdrant", Value: "localhost:6334", Usage: "Qdrant gRPC address", EnvVars: []string{"QDRANT_URL"}},
			&cli.StringFlag{Name: "collection", Value: "lorekeep", Usage: "Qdrant collection name", EnvVars: []string{"QDRANT_COLLECTION"}},
			&cli.Float64Flag{Name: "rps", Value: 4, Usage: "provider requests per second, 0 disables"},
			&cli.BoolFlag{Name: "json-logs", Usage: "log as JSON instead of text"},
		},
		Commands: []*cli.Command{
			{
				Name:    "ask",
				Aliases: []string{"a"},
				Usage:   "Answer a single question",
				Action:  askAction,
			},
			{
				Name:    "chat",
				Aliases: []string{"c"},
				Usage:   "Interactive question loop on stdin",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "metrics-port", Usage: "serve /metrics on this port, 0 disables", EnvVars: []string{"LOREKEEP_METRICS_PORT"}},
				},
				Action: chatAction,
			},
			{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Embed the knowledge base and upsert it into Qdrant",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "recreate", Usage: "drop the collection before indexing"},
				},
				Action: indexAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type config struct {
	KBPath          string
	Provider        string
	APIKey          string
	BaseURL         string
	EmbedModel      string
	ChatModel       string
	Encoding        string
	MaxPromptTokens int
	MaxOutputTokens int
	Backend         string
	QdrantAddr      string
	Collection      string
	RPS             float64
	JSONLogs        bool
}

func loadConfig(c *cli.Context) config {
	return config{
		KBPath:          c.String("kb"),
		Provider:        c.String("provider"),
		APIKey:          c.String("api-key"),
		BaseURL:         c.String("base-url"),
		EmbedModel:      c.String("embed-model"),
		ChatModel:       c.String("chat-model"),
		Encoding:        c.String("encoding"),
		MaxPromptTokens: c.Int("max-prompt-tokens"),
		MaxOutputTokens: c.Int("max-output-tokens"),
		Backend:         c.String("backend"),
		QdrantAddr:      c.String("qdrant"),
		Collection:      c.String("collection"),
		RPS:             c.Float64("rps"),
		JSONLogs:        c.Bool("json-logs"),
	}
}

func newLogger(cfg config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if cfg.JSONLogs {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// buildProviders constructs the embedding and completion clients from config.
func buildProviders(cfg config, logger *slog.Logger) (llm.Embedder, llm.Completer, error) {
	pc := llm.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		EmbedModel:        cfg.EmbedModel,
		ChatModel:         cfg.ChatModel,
		RequestsPerSecond: cfg.RPS,
	}

	switch cfg.Provider {
	case "openai":
		client := llm.NewOpenAI(pc, logger)
		return client, client, nil
	case "ollama":
		client := llm.NewOllama(pc, logger)
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newTokenizer(cfg config) (tokenizer.Tokenizer, error) {
	if cfg.Encoding == "words" {
		return tokenizer.Words{}, nil
	}
	return tokenizer.NewTiktoken(cfg.Encoding)
}
