package retrieval

import "errors"

var (
	// ErrIndexRequired indicates that no index was provided.
	ErrIndexRequired = errors.New("index is required")

	// ErrEmptyQuery indicates that composition produced no primary query.
	ErrEmptyQuery = errors.New("empty query")

	// ErrPrimaryQueryFailed indicates that the primary query could not be
	// executed. Secondary query failures are absorbed; this one is fatal.
	ErrPrimaryQueryFailed = errors.New("primary query failed")
)
