// Package ingestion loads support passages into storage.
//
// The Pipeline type manages the ingestion workflow for passages, including:
//   - Splitting corpus files into passages
//   - Generating embeddings in batches
//   - Writing embedded passages to storage
//
// Batches are processed concurrently using a worker pool to maximize
// throughput. The first error encountered fails the ingestion.
package ingestion
