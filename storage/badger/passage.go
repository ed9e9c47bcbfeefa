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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
)

// PassageRepository implements storage.PassageRepository for BadgerDB.
type PassageRepository struct {
	backend *Backend
}

var _ storage.PassageRepository = (*PassageRepository)(nil)

// NewPassageRepository creates a new PassageRepository.
func NewPassageRepository(backend *Backend) (*PassageRepository, error) {
	return &PassageRepository{
		backend: backend,
	}, nil
}

// NewRepository opens a BadgerDB database at path and returns a passage
// repository backed by it. Closing the repository closes the database.
func NewRepository(path string) (storage.PassageRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &ownedRepository{PassageRepository{backend: backend}}, nil
}

// ownedRepository closes the backend it owns on Close.
type ownedRepository struct {
	PassageRepository
}

func (r *ownedRepository) Close() error {
	return r.backend.Close()
}

// Close releases resources. PassageRepository does not own the backend.
func (r *PassageRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *PassageRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.PassageHit, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// WithTransaction delegates to the backend.
func (r *PassageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPassages adds one or more passages to storage.
// IDs are derived from source and content, so re-adding the same passage
// overwrites the earlier copy instead of duplicating it.
func (r *PassageRepository) AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, passage := range passages {
			if err := core.ValidatePassage(passage); err != nil {
				return err
			}

			// Use content-based ID if not set
			if passage.Id == 0 {
				passage.Id = core.PassageID(passage.Content, passage.Source)
			}

			// Set timestamps
			passage.InsertedAt = time.Now().UTC()
			passage.UpdatedAt = passage.InsertedAt

			key := makePassageKey(passage.Id)
			value := storage.MarshalPassage(passage)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return passages, err
}

// UpdatePassages updates existing passages.
func (r *PassageRepository) UpdatePassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, passage := range passages {
			key := makePassageKey(passage.Id)

			old, err := readPassage(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			passage.UpdatedAt = time.Now().UTC()

			value := storage.MarshalPassage(passage)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return passages, err
}

// DeletePassages removes passages by their IDs.
func (r *PassageRepository) DeletePassages(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePassageKey(id)

			passage, err := readPassage(tx, key)
			if err != nil {
				return err
			}
			if passage == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPassage retrieves a single passage by ID.
func (r *PassageRepository) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	var result *core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePassageKey(id)
		var err error
		result, err = readPassage(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPassages retrieves multiple passages by their IDs.
func (r *PassageRepository) GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error) {
	var result []*core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePassageKey(id)
			passage, err := readPassage(tx, key)
			if err != nil {
				return err
			}
			if passage != nil {
				result = append(result, passage)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListPassages retrieves up to limit passages with IDs greater than afterID,
// in ascending ID order.
func (r *PassageRepository) ListPassages(ctx context.Context, afterID core.ID, limit int) ([]*core.Passage, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(passagePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// BigEndian keys iterate in ascending ID order, so seeking just
		// past afterID resumes where the previous batch stopped.
		start := makePassageKey(afterID + 1)
		if afterID == 0 {
			start = []byte(passagePrefix + ":")
		}

		for iter.Seek(start); iter.Valid() && len(results) < limit; iter.Next() {
			item := iter.Item()

			var passage *core.Passage
			err := item.Value(func(val []byte) error {
				var err error
				passage, err = storage.UnmarshalPassage(val)
				return err
			})
			if err != nil {
				return err
			}
			if passage != nil {
				results = append(results, passage)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountPassages returns the total number of passages in storage.
func (r *PassageRepository) CountPassages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(passagePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readPassage reads a passage from the transaction.
func readPassage(tx *badger.Txn, key []byte) (*core.Passage, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var passage *core.Passage
	err = item.Value(func(val []byte) error {
		var err error
		passage, err = storage.UnmarshalPassage(val)
		return err
	})
	return passage, err
}
