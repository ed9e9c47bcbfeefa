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


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/respite/ai"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
)

const defaultBatchSize = 32

// Pipeline orchestrates the ingestion of support passages.
// It embeds passages in batches and writes them to storage concurrently.
type Pipeline struct {
	repository storage.PassageRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many passages are embedded per request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.PassageRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest embeds the passages and writes them to storage.
// Passages are processed in batches on the worker pool; the first error is
// recorded, remaining batches are drained, and the error is returned.
// Returns the number of passages stored.
func (p *Pipeline) Ingest(ctx context.Context, passages []*core.Passage) (int, error) {
	if len(passages) == 0 {
		return 0, ErrNoPassages
	}

	for _, passage := range passages {
		if err := core.ValidatePassage(passage); err != nil {
			return 0, err
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		stored   int
	)

	for start := 0; start < len(passages); start += p.batchSize {
		end := start + p.batchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.processBatch(ctx, batch); err != nil {
				p.logger.Error("error processing batch", "size", len(batch), "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			stored += len(batch)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return stored, firstErr
	}

	p.logger.Info("ingestion complete", "passages", stored)
	return stored, nil
}

// processBatch embeds one batch and writes it to storage.
func (p *Pipeline) processBatch(ctx context.Context, batch []*core.Passage) error {
	texts := make([]string, len(batch))
	for i, passage := range batch {
		texts[i] = passage.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	for i, passage := range batch {
		if i < len(vectors) {
			passage.Vector = core.NormalizeVector(vectors[i])
		}
	}

	_, err = p.repository.AddPassages(ctx, batch...)
	return err
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
