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


package reembed

import (
	"context"

	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
)

const (
	// DefaultBatchSize is the default number of passages to fetch in each batch
	DefaultBatchSize = 100
)

// PassageIterator iterates over all stored passages in batches.
type PassageIterator struct {
	repo      storage.PassageRepository
	batchSize int
}

// NewPassageIterator creates a new passage iterator.
// batchSize: number of passages to fetch in each batch (must be > 0)
func NewPassageIterator(repo storage.PassageRepository, batchSize int) *PassageIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &PassageIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all passages, calling fn for each batch.
// Iteration stops on first error from fn or when all passages are processed.
// Context cancellation is checked between batches.
func (it *PassageIterator) ForEach(ctx context.Context, fn func([]*core.Passage) error) error {
	var after core.ID
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.repo.ListPassages(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		after = batch[len(batch)-1].Id
	}
}
