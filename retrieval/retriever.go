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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/respite/core"
)

// Retriever executes priority-weighted retrieval: one primary query and a
// set of secondary queries fan out concurrently against the index, and the
// hits are merged into a single ranked list.
type Retriever struct {
	index        Index
	pool         *ants.Pool
	queryTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent queries.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Retriever) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithQueryTimeout bounds each individual index query. Zero disables the
// per-query deadline. A timed-out secondary query is absorbed; a timed-out
// primary query fails the retrieval.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(r *Retriever) error {
		r.queryTimeout = timeout
		return nil
	}
}

// NewRetriever creates a new retriever over the given index.
func NewRetriever(index Index, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Retriever{
		index:  index,
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.pool.Release()
			return nil, err
		}
	}

	return r, nil
}

// Retrieve executes the request and returns up to req.K ranked passages.
// An empty result with a nil error is valid: it means nothing in the corpus
// was relevant, not that retrieval failed.
func (r *Retriever) Retrieve(ctx context.Context, req *Request) ([]*core.RankedPassage, error) {
	return r.RetrieveWithMonitor(ctx, req, nil)
}

// queryJob is one index query scheduled on the pool. Results land in the
// job's own slot, so merging can run sequentially in request order and the
// final ranking stays deterministic regardless of completion order.
type queryJob struct {
	query   string
	limit   int
	primary bool
	hits    []*core.PassageHit
	err     error
}

// RetrieveWithMonitor executes the request with monitoring callbacks at
// each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, req *Request, monitor RetrievalMonitor) ([]*core.RankedPassage, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if req == nil || req.Primary == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(req)

	k := req.K
	if k < 0 {
		k = 0
	}
	if k == 0 {
		monitor.Finish(nil)
		return []*core.RankedPassage{}, nil
	}

	weights := req.Weights.Normalized(r.logger)

	// Over-fetch the primary query so secondary contributions can still
	// promote passages into the final top K.
	jobs := make([]*queryJob, 0, 1+len(req.Secondary))
	jobs = append(jobs, &queryJob{query: req.Primary, limit: 2 * k, primary: true})
	for _, q := range req.Secondary {
		jobs = append(jobs, &queryJob{query: q, limit: k})
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		job := job
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			queryCtx := ctx
			if r.queryTimeout > 0 {
				var cancel context.CancelFunc
				queryCtx, cancel = context.WithTimeout(ctx, r.queryTimeout)
				defer cancel()
			}
			job.hits, job.err = r.index.Search(queryCtx, job.query, job.limit)
		})
		if submitErr != nil {
			wg.Done()
			job.err = submitErr
		}
	}
	wg.Wait()

	if jobs[0].err != nil {
		r.logger.Error("primary query failed", "query", jobs[0].query, "err", jobs[0].err)
		return nil, fmt.Errorf("%w: %v", ErrPrimaryQueryFailed, jobs[0].err)
	}
	monitor.AfterPrimaryQuery(jobs[0].hits)

	secondaryWeight := 0.0
	if len(req.Secondary) > 0 {
		secondaryWeight = weights.Secondary / float64(len(req.Secondary))
	}

	// Merge in request order. Contributions from every query are summed per
	// passage; a passage found by several queries outranks one found once.
	type entry struct {
		passage *core.Passage
		score   float64
		order   int
	}
	merged := make(map[core.ID]*entry)
	nextOrder := 0

	for _, job := range jobs {
		if job.err != nil {
			r.logger.Warn("secondary query failed, continuing without it",
				"query", job.query, "err", job.err)
			monitor.SecondaryQueryFailed(job.query, job.err)
			continue
		}
		if !job.primary {
			monitor.AfterSecondaryQuery(job.query, job.hits)
		}

		weight := secondaryWeight
		if job.primary {
			weight = weights.Primary
		}

		for _, hit := range job.hits {
			sim := similarity(hit.Distance)
			id := core.PassageID(hit.Passage.Content, hit.Passage.Source)

			e, ok := merged[id]
			if !ok {
				e = &entry{passage: hit.Passage, order: nextOrder}
				nextOrder++
				merged[id] = e
			}
			e.score += weight * sim
		}
	}
	monitor.AfterMerge(len(merged))

	entries := make([]*entry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}

	// Score descending; ties keep first-seen order so ranking is stable.
	slices.SortFunc(entries, func(a, b *entry) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return a.order - b.order
	})

	if len(entries) > k {
		entries = entries[:k]
	}

	results := make([]*core.RankedPassage, len(entries))
	for i, e := range entries {
		results[i] = &core.RankedPassage{
			Passage: e.passage,
			Score:   e.score,
		}
	}
	monitor.Finish(results)

	return results, nil
}

// similarity converts a cosine distance to a similarity in [0, 1].
func similarity(distance float32) float64 {
	sim := 1 - float64(distance)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Release releases the worker pool.
// The retriever should not be used after calling Release.
func (r *Retriever) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
