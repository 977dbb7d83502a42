// Copyright 2025 The EarlhamAI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/JFlic/EarlhamAI/ai"
	"github.com/JFlic/EarlhamAI/ai/openai"
	"github.com/JFlic/EarlhamAI/ingestion"
	"github.com/JFlic/EarlhamAI/query"
	"github.com/JFlic/EarlhamAI/search"
	"github.com/JFlic/EarlhamAI/storage"
	"github.com/JFlic/EarlhamAI/storage/postgres"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; environment variables may come from anywhere.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "earlham",
		Usage: "Retrieval-augmented question answering over a document corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP query service",
				Action: serveCommand,
				Flags: append(backendFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address for the HTTP server",
						Value:   ":8000",
						EnvVars: []string{"EARLHAM_ADDR"},
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Answer a single query and print the result",
				Action:    askCommand,
				ArgsUsage: "<query>",
				Flags:     backendFlags(),
			},
			{
				Name:   "ingest",
				Usage:  "Load a directory of .md/.txt documents into the store",
				Action: ingestCommand,
				Flags: append(backendFlags(),
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory of documents to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document category recorded in metadata",
						Value: "document",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source URL recorded in metadata",
					},
				),
			},
			{
				Name:   "count",
				Usage:  "Print the number of stored document chunks",
				Action: countCommand,
				Flags:  backendFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// backendFlags are shared by every command that talks to the store and the
// AI services.
func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "dsn",
			Usage:    "PostgreSQL connection string",
			EnvVars:  []string{"POSTGRES_DSN"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EARLHAM_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "bge-m3",
			EnvVars: []string{"EARLHAM_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "inference-model",
			Usage:   "Translation and generation model name",
			Value:   "qwen3:4b",
			EnvVars: []string{"EARLHAM_INFERENCE_MODEL"},
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of passages handed to generation",
			Value: query.DefaultTopK,
		},
		&cli.Float64Flag{
			Name:  "hybrid-ratio",
			Usage: "Vector weight in hybrid scoring (0 = keyword only, 1 = vector only)",
			Value: query.DefaultHybridRatio,
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Worker pool size for blocking backend calls",
			Value: query.DefaultWorkerPoolSize,
		},
		&cli.IntFlag{
			Name:  "max-connections",
			Usage: "Maximum pooled database connections",
			Value: storage.DefaultMaxConnections,
		},
		&cli.BoolFlag{
			Name:  "per-worker-clients",
			Usage: "Create one AI client per concurrent worker instead of sharing one",
		},
	}
}

// backend bundles the long-lived pieces a command builds before doing its
// work, with a single teardown.
type backend struct {
	pool      *storage.Pool
	clients   ai.ClientSource
	processor *query.Processor
}

func (b *backend) close() {
	if b.processor != nil {
		b.processor.Release()
	}
	if b.clients != nil {
		if err := b.clients.Close(); err != nil {
			slog.Warn("closing AI clients", "err", err)
		}
	}
	if b.pool != nil {
		if err := b.pool.Close(); err != nil {
			slog.Warn("closing connection pool", "err", err)
		}
	}
}

func buildBackend(c *cli.Context) (*backend, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithInferenceModel(c.String("inference-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	dsn := c.String("dsn")
	pool, err := storage.NewPool(func(ctx context.Context) (storage.Store, error) {
		return postgres.Connect(ctx, dsn)
	}, storage.WithMaxConnections(c.Int("max-connections")))
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	var clients ai.ClientSource
	if c.Bool("per-worker-clients") {
		clients, err = ai.NewPerWorkerSource(func() (ai.AIProvider, error) {
			return openai.NewProvider(aiConfig)
		})
	} else {
		var provider ai.AIProvider
		provider, err = openai.NewProvider(aiConfig)
		if err == nil {
			clients, err = ai.NewSharedSource(provider)
		}
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create AI clients: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		clients.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	engine, err := search.NewEngine(embedder)
	if err != nil {
		clients.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to create search engine: %w", err)
	}

	processor, err := query.NewProcessor(pool, clients, engine,
		query.WithTopK(c.Int("top-k")),
		query.WithHybridRatio(c.Float64("hybrid-ratio")),
		query.WithWorkerPoolSize(c.Int("pool-size")),
	)
	if err != nil {
		clients.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to create query processor: %w", err)
	}

	return &backend{pool: pool, clients: clients, processor: processor}, nil
}

func serveCommand(c *cli.Context) error {
	b, err := buildBackend(c)
	if err != nil {
		return err
	}
	defer b.close()

	server := newServer(b.processor, slog.Default())
	return server.listen(c.String("addr"))
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a query is required")
	}

	b, err := buildBackend(c)
	if err != nil {
		return err
	}
	defer b.close()

	result, err := b.processor.Process(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, source := range result.Sources {
			line := "  - " + source.Heading
			if source.Source != "None" {
				line += " (" + source.Source + ")"
			}
			fmt.Println(line)
		}
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := c.Context

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithInferenceModel(c.String("inference-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	store, err := postgres.Connect(ctx, c.String("dsn"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	pipeline, err := ingestion.NewPipeline(store, embedder,
		ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	n, err := pipeline.IngestDir(ctx, c.String("dir"), &ingestion.IngestOptions{
		URL:  c.String("url"),
		Type: c.String("type"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed after %d chunks: %w", n, err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d chunks from %s\n", n, c.String("dir"))
	return nil
}

func countCommand(c *cli.Context) error {
	ctx := c.Context

	store, err := postgres.Connect(ctx, c.String("dsn"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Println(count)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
