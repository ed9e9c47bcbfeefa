package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/respite/ai/mock"
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/storage"
	"github.com/poiesic/respite/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.PassageRepository, *mock.MockProvider) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider().(*mock.MockProvider)
	pipeline, err := NewPipeline(repo, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repo, provider
}

func TestNewPipeline_Validation(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = NewPipeline(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds and stores passages", func(t *testing.T) {
		pipeline, repo, _ := setupPipeline(t)

		passages := SplitPassages("first passage\n\nsecond passage\n\nthird passage", "corpus.txt")
		stored, err := pipeline.Ingest(ctx, passages)
		require.NoError(t, err)
		assert.Equal(t, 3, stored)

		count, err := repo.CountPassages(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		// Stored passages carry normalized embeddings.
		listed, err := repo.ListPassages(ctx, 0, 10)
		require.NoError(t, err)
		for _, p := range listed {
			assert.NotEmpty(t, p.Vector)
		}
	})

	t.Run("empty input is an error", func(t *testing.T) {
		pipeline, _, _ := setupPipeline(t)
		_, err := pipeline.Ingest(ctx, nil)
		assert.ErrorIs(t, err, ErrNoPassages)
	})

	t.Run("invalid passage rejected before embedding", func(t *testing.T) {
		pipeline, _, provider := setupPipeline(t)
		_, err := pipeline.Ingest(ctx, []*core.Passage{{Content: "", Source: "a.txt"}})
		assert.ErrorIs(t, err, core.ErrEmptyContent)
		assert.Zero(t, provider.GetMockEmbedder().CallCount())
	})

	t.Run("embedder failure fails ingestion", func(t *testing.T) {
		pipeline, _, provider := setupPipeline(t)
		provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, assert.AnError
		}

		_, err := pipeline.Ingest(ctx, SplitPassages("a\n\nb", "corpus.txt"))
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("batches split across pool", func(t *testing.T) {
		pipeline, _, provider := setupPipeline(t, WithBatchSize(2), WithPoolSize(2))

		passages := SplitPassages("a\n\nb\n\nc\n\nd\n\ne", "corpus.txt")
		stored, err := pipeline.Ingest(ctx, passages)
		require.NoError(t, err)
		assert.Equal(t, 5, stored)
		// 5 passages with batch size 2 means 3 embedding calls.
		assert.Equal(t, 3, provider.GetMockEmbedder().CallCount())
	})
}

func TestSplitPassages(t *testing.T) {
	passages := SplitPassages("one\n\n\n\n  two  \n\n", "file.txt")
	require.Len(t, passages, 2)
	assert.Equal(t, "one", passages[0].Content)
	assert.Equal(t, "two", passages[1].Content)
	assert.Equal(t, "file.txt", passages[0].Source)
}

func TestLoadCorpusDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("p1\n\np2"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("p3"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("nope"), 0644))

	passages, err := LoadCorpusDir(dir)
	require.NoError(t, err)
	assert.Len(t, passages, 3)

	sources := map[string]int{}
	for _, p := range passages {
		sources[p.Source]++
	}
	assert.Equal(t, 2, sources["a.txt"])
	assert.Equal(t, 1, sources["b.txt"])
}
