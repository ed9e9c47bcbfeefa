package retrieval

import (
	"context"

	"github.com/poiesic/respite/core"
)

// Index answers text queries with passage hits ordered by cosine distance
// (closest first). Implementations must be thread-safe; the retriever issues
// queries concurrently.
type Index interface {
	Search(ctx context.Context, query string, limit int) ([]*core.PassageHit, error)
}
