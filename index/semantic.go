// Package index adapts an embedder and a passage repository into a text
// query index for the retriever.
package index

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/respite/ai"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
)

var (
	// ErrEmbedderRequired indicates that no embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRepositoryRequired indicates that no repository was provided.
	ErrRepositoryRequired = errors.New("repository is required")
)

// Semantic answers text queries by embedding them and scanning the passage
// repository for nearest vectors. Query vectors are normalized before the
// scan so stored dot products translate directly into cosine distances.
type Semantic struct {
	embedder ai.Embedder
	repo     storage.PassageRepository
	logger   *slog.Logger
}

// Option configures a Semantic index.
type Option func(*Semantic) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Semantic) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSemantic creates a semantic index over the given repository.
func NewSemantic(embedder ai.Embedder, repo storage.PassageRepository, opts ...Option) (*Semantic, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Semantic{
		embedder: embedder,
		repo:     repo,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search embeds the query and returns up to limit passage hits ordered by
// cosine distance, closest first.
func (s *Semantic) Search(ctx context.Context, query string, limit int) ([]*core.PassageHit, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	hits, err := s.repo.FindSimilar(ctx, core.NormalizeVector(vector), limit)
	if err != nil {
		s.logger.Error("error querying for similar passages", "err", err)
		return nil, err
	}

	s.logger.Debug("semantic search complete", "query", query, "hits", len(hits))
	return hits, nil
}
