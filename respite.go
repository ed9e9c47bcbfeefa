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


package respite

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/respite/ai"
	"github.com/poiesic/respite/ai/openai"
	"github.com/poiesic/respite/capsule"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/index"
	"github.com/poiesic/respite/ingestion"
	"github.com/poiesic/respite/profile"
	"github.com/poiesic/respite/retrieval"
	"github.com/poiesic/respite/storage"
	"github.com/poiesic/respite/storage/badger"
)

// Service wires storage, the semantic index, the retriever, and the AI
// provider into the full support pipeline: classify, compose, retrieve,
// assemble, generate.
type Service struct {
	backend     *badger.Backend
	passageRepo storage.PassageRepository
	provider    ai.AIProvider
	retriever   *retrieval.Retriever
	weights     retrieval.Weights
	topK        int
	maxContext  int
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	inMemory     bool
	weights      retrieval.Weights
	topK         int
	maxContext   int
	queryTimeout time.Duration
	logger       *slog.Logger
}

// WithAIConfig sets the configuration for the OpenAI-compatible provider.
// Ignored when WithProvider is also given.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies an already-constructed AI provider. The service
// takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the database in memory. The path is ignored.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithWeights overrides the default 70/30 primary/secondary weight split.
func WithWeights(w retrieval.Weights) ServiceOption {
	return func(o *serviceOptions) {
		o.weights = w
	}
}

// WithTopK sets how many ranked passages retrieval returns.
func WithTopK(k int) ServiceOption {
	return func(o *serviceOptions) {
		o.topK = k
	}
}

// WithMaxContextLength bounds the assembled reference material handed to
// the generator.
func WithMaxContextLength(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.maxContext = n
	}
}

// WithQueryTimeout bounds each individual index query during retrieval.
func WithQueryTimeout(d time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.queryTimeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// Open creates a Service over the database at filePath.
func Open(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:   ai.DefaultConfig(),
		weights:    retrieval.DefaultWeights(),
		topK:       retrieval.DefaultK,
		maxContext: capsule.DefaultMaxContextLength,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	passageRepo, err := badger.NewPassageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			passageRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	semantic, err := index.NewSemantic(provider.Embedder(), passageRepo,
		index.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		passageRepo.Close()
		backend.Close()
		return nil, err
	}

	retrieverOpts := []retrieval.Option{retrieval.WithLogger(options.logger)}
	if options.queryTimeout > 0 {
		retrieverOpts = append(retrieverOpts, retrieval.WithQueryTimeout(options.queryTimeout))
	}
	retriever, err := retrieval.NewRetriever(semantic, retrieverOpts...)
	if err != nil {
		provider.Close()
		passageRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:     backend,
		passageRepo: passageRepo,
		provider:    provider,
		retriever:   retriever,
		weights:     options.weights,
		topK:        options.topK,
		maxContext:  options.maxContext,
		logger:      options.logger,
	}, nil
}

// Close releases the retriever, the AI provider, and the database.
func (s *Service) Close() error {
	s.retriever.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.passageRepo.Close(); err != nil {
		s.logger.Error("error closing passage repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// PassageRepository returns the underlying passage store.
func (s *Service) PassageRepository() storage.PassageRepository {
	return s.passageRepo
}

// NewIngestionPipeline creates an ingestion pipeline over the service's
// repository and AI provider.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.passageRepo, s.provider, opts...)
}

// Search composes a retrieval request from the input and profile and
// returns the ranked passages. An empty result with a nil error means
// nothing in the corpus was relevant.
func (s *Service) Search(ctx context.Context, input string, userProfile *core.UserProfile) ([]*core.RankedPassage, error) {
	req, err := retrieval.Compose(input, userProfile,
		retrieval.WithWeights(s.weights),
		retrieval.WithK(s.topK))
	if err != nil {
		return nil, err
	}
	return s.retriever.Retrieve(ctx, req)
}

// GenerateCapsule runs the full pipeline: retrieve passages for the input,
// assemble them into a prompt, and generate a supportive message. When
// retrieval finds nothing relevant, a canned per-stress-type fallback
// capsule is returned instead of calling the generator.
func (s *Service) GenerateCapsule(ctx context.Context, input string, userProfile *core.UserProfile) (*capsule.Capsule, error) {
	results, err := s.Search(ctx, input, userProfile)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		s.logger.Info("no relevant passages, using fallback capsule")
		return capsule.Fallback(userProfile), nil
	}

	contextBlock := capsule.AssembleContext(results, s.maxContext)
	prompt := capsule.BuildPrompt(input, userProfile, contextBlock)

	message, err := s.provider.Generator().GenerateMessage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c := &capsule.Capsule{
		Message: message,
		Sources: capsule.SourceLabels(results),
	}
	if userProfile != nil {
		c.Stress = userProfile.Stress
		c.TherapyMethods = profile.TherapyNames(userProfile.Stress)
		c.Keywords = userProfile.Keywords
		c.Confidence = capsule.Confidence(results, userProfile.Keywords)
	} else {
		c.Confidence = capsule.Confidence(results, nil)
	}

	return c, nil
}
