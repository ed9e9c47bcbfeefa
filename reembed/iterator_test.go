package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
	"github.com/poiesic/respite/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (storage.PassageRepository, func()) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		backend.Close()
	}

	return repo, cleanup
}

func addTestPassages(t *testing.T, repo storage.PassageRepository, n int) []*core.Passage {
	t.Helper()
	passages := make([]*core.Passage, n)
	for i := 0; i < n; i++ {
		passages[i] = &core.Passage{
			Content: fmt.Sprintf("test passage %d", i),
			Source:  "corpus.txt",
		}
	}
	added, err := repo.AddPassages(context.Background(), passages...)
	require.NoError(t, err)
	return added
}

func TestPassageIterator_Basic(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestPassages(t, repo, 3)

	iter := NewPassageIterator(repo, 2)
	count := 0
	var ids []core.ID

	err := iter.ForEach(ctx, func(passages []*core.Passage) error {
		count += len(passages)
		for _, p := range passages {
			ids = append(ids, p.Id)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count, "should iterate all 3 passages")
	assert.Len(t, ids, 3, "should have 3 IDs")
}

func TestPassageIterator_BatchSizes(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestPassages(t, repo, 10)

	tests := []struct {
		name          string
		batchSize     int
		expectedBatch int
	}{
		{"batch size 1", 1, 10},
		{"batch size 3", 3, 4}, // 3+3+3+1
		{"batch size 5", 5, 2}, // 5+5
		{"batch size 10", 10, 1},
		{"batch size 100", 100, 1}, // All in one batch
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter := NewPassageIterator(repo, tt.batchSize)
			batchCount := 0
			totalPassages := 0

			err := iter.ForEach(ctx, func(passages []*core.Passage) error {
				batchCount++
				totalPassages += len(passages)
				assert.LessOrEqual(t, len(passages), tt.batchSize, "batch should not exceed batchSize")
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedBatch, batchCount, "batch count")
			assert.Equal(t, 10, totalPassages, "total passages")
		})
	}
}

func TestPassageIterator_EmptyDatabase(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	iter := NewPassageIterator(repo, 10)
	called := false

	err := iter.ForEach(context.Background(), func(passages []*core.Passage) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called, "callback should not be called for empty database")
}

func TestPassageIterator_ErrorHandling(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestPassages(t, repo, 2)

	iter := NewPassageIterator(repo, 1)
	called := 0

	err := iter.ForEach(ctx, func(passages []*core.Passage) error {
		called++
		if called == 1 {
			return assert.AnError
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err, "should return callback error")
	assert.Equal(t, 1, called, "should stop on first error")
}

func TestPassageIterator_ContextCancellation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	addTestPassages(t, repo, 5)

	iter := NewPassageIterator(repo, 1)
	called := 0

	err := iter.ForEach(ctx, func(passages []*core.Passage) error {
		called++
		if called == 2 {
			cancel()
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, called, "should process until context canceled")
}

func TestPassageIterator_InvalidBatchSize(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Zero batch size should be handled gracefully
	iter := NewPassageIterator(repo, 0)
	assert.Greater(t, iter.batchSize, 0, "should use default batch size for invalid input")

	// Negative batch size
	iter = NewPassageIterator(repo, -10)
	assert.Greater(t, iter.batchSize, 0, "should use default batch size for negative input")
}
