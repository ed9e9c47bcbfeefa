package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a passage repository is not provided.
	ErrRepositoryRequired = errors.New("passage repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoPassages is returned when a corpus source yields nothing to ingest.
	ErrNoPassages = errors.New("no passages to ingest")
)
