// Package config loads application configuration from YAML files, filling
// in defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	// Path is the BadgerDB directory. Empty selects an in-memory database.
	Path string `yaml:"path"`
}

// AIConfig holds connection settings for the embedding and generation services.
type AIConfig struct {
	EmbeddingHost  string  `yaml:"embedding_host"`
	GeneratorHost  string  `yaml:"generator_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	GeneratorModel string  `yaml:"generator_model"`
	APITokenEnv    string  `yaml:"api_token_env"`
	Temperature    float64 `yaml:"temperature"`
	MaxRetries     int     `yaml:"max_retries"`
}

// RetrievalConfig holds ranking parameters.
type RetrievalConfig struct {
	PrimaryWeight    float64 `yaml:"primary_weight"`
	SecondaryWeight  float64 `yaml:"secondary_weight"`
	TopK             int     `yaml:"top_k"`
	QueryTimeoutSecs int     `yaml:"query_timeout_secs"`
}

// ContextConfig bounds the assembled reference material.
type ContextConfig struct {
	MaxLength int `yaml:"max_length"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Database  DatabaseConfig  `yaml:"database"`
	AI        AIConfig        `yaml:"ai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Context   ContextConfig   `yaml:"context"`
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: "respite.db",
		},
		AI: AIConfig{
			EmbeddingHost:  "http://localhost:11434/v1",
			GeneratorHost:  "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			GeneratorModel: "qwen2.5:3b",
			APITokenEnv:    "RESPITE_API_TOKEN",
			Temperature:    0.7,
			MaxRetries:     3,
		},
		Retrieval: RetrievalConfig{
			PrimaryWeight:   0.7,
			SecondaryWeight: 0.3,
			TopK:            3,
		},
		Context: ContextConfig{
			MaxLength: 2000,
		},
	}
}

// Load reads a config from path. A missing file returns the defaults; a
// present but malformed file is an error.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// APIToken resolves the API token from the configured environment variable.
// Returns an empty string when unset, which local services accept.
func (c *AIConfig) APIToken() string {
	if c.APITokenEnv == "" {
		return ""
	}
	return os.Getenv(c.APITokenEnv)
}

// Validate checks the configuration for values that would misbehave at
// runtime rather than fail fast.
func (c *AppConfig) Validate() error {
	if c.Retrieval.PrimaryWeight < 0 || c.Retrieval.SecondaryWeight < 0 {
		return errors.New("retrieval weights must not be negative")
	}
	if c.Retrieval.TopK < 0 {
		return errors.New("retrieval top_k must not be negative")
	}
	if c.Retrieval.QueryTimeoutSecs < 0 {
		return errors.New("retrieval query_timeout_secs must not be negative")
	}
	if c.Context.MaxLength < 0 {
		return errors.New("context max_length must not be negative")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return errors.New("ai temperature must be between 0 and 2")
	}
	return nil
}

// applyDefaults fills zero-valued fields so a sparse file behaves like the
// defaults with overrides.
func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if cfg.AI.GeneratorHost == "" {
		cfg.AI.GeneratorHost = def.AI.GeneratorHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.GeneratorModel == "" {
		cfg.AI.GeneratorModel = def.AI.GeneratorModel
	}
	if cfg.AI.APITokenEnv == "" {
		cfg.AI.APITokenEnv = def.AI.APITokenEnv
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = def.AI.Temperature
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = def.AI.MaxRetries
	}
	if cfg.Retrieval.PrimaryWeight == 0 && cfg.Retrieval.SecondaryWeight == 0 {
		cfg.Retrieval.PrimaryWeight = def.Retrieval.PrimaryWeight
		cfg.Retrieval.SecondaryWeight = def.Retrieval.SecondaryWeight
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Context.MaxLength == 0 {
		cfg.Context.MaxLength = def.Context.MaxLength
	}
}
