// Copyright 2025 Poiesic Systems
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
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/respite"
	"github.com/poiesic/respite/ai"
	"github.com/poiesic/respite/ai/openai"
	"github.com/poiesic/respite/config"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/ingestion"
	"github.com/poiesic/respite/profile"
	"github.com/poiesic/respite/reembed"
	"github.com/poiesic/respite/retrieval"
	"github.com/poiesic/respite/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "respite",
		Usage: "Priority-weighted retrieval and supportive message generation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Ingest a directory of .txt corpus files into the database",
				Action: seedCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:     "corpus",
						Usage:    "Directory of .txt files, split into passages on blank lines",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages to embed per request",
						Value: 32,
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Run a priority-weighted search and print the ranked passages",
				Action: searchCommand,
				Flags:  append(append(storageFlags(), profileFlags()...), kFlag()),
			},
			{
				Name:   "capsule",
				Usage:  "Generate a supportive message capsule for the given input",
				Action: capsuleCommand,
				Flags:  append(append(storageFlags(), profileFlags()...), kFlag()),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored passages with new embeddings",
				Action: reembedCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (overrides config)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N passages",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (overrides config)",
		},
	}
}

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Nickname used to address the user",
		},
		&cli.IntFlag{
			Name:  "age",
			Usage: "User age in years",
		},
		&cli.StringFlag{
			Name:  "gender",
			Usage: "User gender",
		},
		&cli.StringFlag{
			Name:  "occupation",
			Usage: "Occupation code (e.g. information-technology)",
		},
		&cli.StringFlag{
			Name:  "keywords",
			Usage: "Comma-separated personal keywords",
		},
		&cli.BoolFlag{
			Name:  "depressed",
			Usage: "Depressive-mood screening flag",
		},
		&cli.BoolFlag{
			Name:  "anxious",
			Usage: "Anxiety screening flag",
		},
		&cli.BoolFlag{
			Name:  "work-stress",
			Usage: "Occupational-strain screening flag",
		},
	}
}

func kFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "k",
		Aliases: []string{"top-k"},
		Usage:   "Number of ranked passages to retrieve (overrides config)",
	}
}

func setup(c *cli.Context) error {
	_ = godotenv.Load()

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

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if db := c.String("db"); db != "" {
		cfg.Database.Path = db
	}
	if c.IsSet("k") {
		cfg.Retrieval.TopK = c.Int("k")
	}
	return cfg, nil
}

func aiConfigFrom(cfg *config.AppConfig) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithGeneratorHost(cfg.AI.GeneratorHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGeneratorModel(cfg.AI.GeneratorModel),
		ai.WithAPIToken(cfg.AI.APIToken()),
		ai.WithTemperature(cfg.AI.Temperature),
		ai.WithMaxRetries(cfg.AI.MaxRetries),
	)
}

func openService(cfg *config.AppConfig) (*respite.Service, error) {
	opts := []respite.ServiceOption{
		respite.WithAIConfig(aiConfigFrom(cfg)),
		respite.WithWeights(retrieval.Weights{
			Primary:   cfg.Retrieval.PrimaryWeight,
			Secondary: cfg.Retrieval.SecondaryWeight,
		}),
		respite.WithTopK(cfg.Retrieval.TopK),
		respite.WithMaxContextLength(cfg.Context.MaxLength),
	}
	if cfg.Retrieval.QueryTimeoutSecs > 0 {
		opts = append(opts, respite.WithQueryTimeout(
			time.Duration(cfg.Retrieval.QueryTimeoutSecs)*time.Second))
	}
	return respite.Open(cfg.Database.Path, opts...)
}

// profileFromFlags builds the user profile the pipeline personalizes
// retrieval with. The three screening flags classify into one of eight
// stress types.
func profileFromFlags(c *cli.Context) *core.UserProfile {
	var keywords []string
	for _, kw := range strings.Split(c.String("keywords"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &core.UserProfile{
		Nickname:   c.String("name"),
		Age:        c.Int("age"),
		Gender:     c.String("gender"),
		Occupation: c.String("occupation"),
		Stress:     profile.Classify(c.Bool("depressed"), c.Bool("anxious"), c.Bool("work-stress")),
		Keywords:   keywords,
	}
}

func seedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	passages, err := ingestion.LoadCorpusDir(c.String("corpus"))
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(passages) == 0 {
		return fmt.Errorf("no passages found under %s", c.String("corpus"))
	}

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer svc.Close()

	pipeline, err := svc.NewIngestionPipeline(ingestion.WithBatchSize(c.Int("batch-size")))
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	stored, err := pipeline.Ingest(context.Background(), passages)
	if err != nil {
		return fmt.Errorf("ingestion failed after %d passages: %w", stored, err)
	}

	fmt.Printf("Ingested %d passages from %s\n", stored, c.String("corpus"))
	return nil
}

func searchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := strings.Join(c.Args().Slice(), " ")

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer svc.Close()

	results, err := svc.Search(context.Background(), input, profileFromFlags(c))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: [%s] '%s' [%0.3f]\n", i, hit.Passage.Source, hit.Passage.Content, hit.Score)
	}
	return nil
}

func capsuleCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := strings.Join(c.Args().Slice(), " ")

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer svc.Close()

	result, err := svc.GenerateCapsule(context.Background(), input, profileFromFlags(c))
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	fmt.Println()
	fmt.Printf("stress: %s  confidence: %0.2f  fallback: %v\n",
		result.Stress, result.Confidence, result.Fallback)
	if len(result.TherapyMethods) > 0 {
		fmt.Printf("approaches: %s\n", strings.Join(result.TherapyMethods, ", "))
	}
	if len(result.Sources) > 0 {
		fmt.Printf("sources: %s\n", strings.Join(result.Sources, ", "))
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if host := c.String("embedding-host"); host != "" {
		cfg.AI.EmbeddingHost = host
	}
	if model := c.String("embedding-model"); model != "" {
		cfg.AI.EmbeddingModel = model
	}

	aiConfig := aiConfigFrom(cfg)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	repo, err := badger.NewRepository(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
