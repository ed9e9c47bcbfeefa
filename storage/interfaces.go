package storage

import (
	"context"

	"github.com/poiesic/respite/core"
)

// PassageRepository provides operations for managing the support-passage corpus.
// Implementations must be thread-safe and support concurrent access.
type PassageRepository interface {
	// FindSimilar finds passages similar to the given vector.
	// Returns up to limit hits ordered by cosine distance (closest first).
	// The query vector must be normalized to unit length.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.PassageHit, error)

	// AddPassages adds one or more passages to storage.
	// IDs are derived from the passage's source and content, so adding the
	// same passage twice overwrites rather than duplicates.
	// Sets InsertedAt timestamp if not already set.
	// Returns the passages with IDs and timestamps populated.
	AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// UpdatePassages updates existing passages.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any passage doesn't exist.
	UpdatePassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// DeletePassages removes passages by their IDs.
	// Returns ErrNotFound if any passage doesn't exist.
	DeletePassages(ctx context.Context, ids ...core.ID) error

	// GetPassage retrieves a single passage by ID.
	// Returns ErrNotFound if the passage doesn't exist.
	GetPassage(ctx context.Context, id core.ID) (*core.Passage, error)

	// GetPassages retrieves multiple passages by their IDs.
	// Returns only the passages that exist (no error for missing passages).
	GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error)

	// ListPassages retrieves up to limit passages with IDs greater than afterID,
	// in ascending ID order. Pass afterID=0 to start from the beginning.
	// Used for batch iteration over the whole corpus.
	ListPassages(ctx context.Context, afterID core.ID, limit int) ([]*core.Passage, error)

	// CountPassages returns the total number of passages in storage.
	CountPassages(ctx context.Context) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
