package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/respite/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexCall struct {
	query string
	limit int
}

// stubIndex answers queries from a canned table and records every call.
type stubIndex struct {
	mu      sync.Mutex
	calls   []indexCall
	answers map[string][]*core.PassageHit
	errs    map[string]error
	fn      func(ctx context.Context, query string, limit int) ([]*core.PassageHit, error)
}

func newStubIndex() *stubIndex {
	return &stubIndex{
		answers: make(map[string][]*core.PassageHit),
		errs:    make(map[string]error),
	}
}

func (s *stubIndex) Search(ctx context.Context, query string, limit int) ([]*core.PassageHit, error) {
	s.mu.Lock()
	s.calls = append(s.calls, indexCall{query: query, limit: limit})
	s.mu.Unlock()

	if s.fn != nil {
		return s.fn(ctx, query, limit)
	}
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	hits := s.answers[query]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *stubIndex) recorded() []indexCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]indexCall(nil), s.calls...)
}

func hit(content string, distance float32) *core.PassageHit {
	return &core.PassageHit{
		Passage: &core.Passage{
			Content: content,
			Source:  "corpus.txt",
		},
		Distance: distance,
	}
}

func newTestRetriever(t *testing.T, index Index, opts ...Option) *Retriever {
	t.Helper()
	r, err := NewRetriever(index, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

func TestNewRetriever_RequiresIndex(t *testing.T) {
	_, err := NewRetriever(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestRetrieve_PriorityWeighting(t *testing.T) {
	// A appears only in the primary query with similarity 0.9.
	// B appears in the primary query (0.6) and one of two secondary
	// queries (0.8). With a 0.7/0.3 split the secondary share per query
	// is 0.15, so A scores 0.63 and B scores 0.42 + 0.12 = 0.54.
	index := newStubIndex()
	index.answers["primary"] = []*core.PassageHit{
		hit("passage A", 0.1),
		hit("passage B", 0.4),
	}
	index.answers["sec one"] = []*core.PassageHit{
		hit("passage B", 0.2),
	}
	index.answers["sec two"] = nil

	r := newTestRetriever(t, index)
	results, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"sec one", "sec two"},
		Weights:   DefaultWeights(),
		K:         3,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "passage A", results[0].Passage.Content)
	assert.InDelta(t, 0.63, results[0].Score, 1e-6)

	assert.Equal(t, "passage B", results[1].Passage.Content)
	assert.InDelta(t, 0.54, results[1].Score, 1e-6)
}

func TestRetrieve_SecondaryWeightSplitsByQueryCount(t *testing.T) {
	index := newStubIndex()
	index.answers["primary"] = nil
	index.answers["only secondary"] = []*core.PassageHit{hit("passage C", 0)}

	r := newTestRetriever(t, index)
	results, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"only secondary"},
		Weights:   DefaultWeights(),
		K:         3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// One secondary query gets the whole 0.3 share.
	assert.InDelta(t, 0.3, results[0].Score, 1e-6)
}

func TestRetrieve_OverFetchesPrimary(t *testing.T) {
	index := newStubIndex()
	index.answers["primary"] = nil
	index.answers["sec"] = nil

	r := newTestRetriever(t, index)
	_, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"sec"},
		K:         5,
	})
	require.NoError(t, err)

	limits := map[string]int{}
	for _, c := range index.recorded() {
		limits[c.query] = c.limit
	}
	assert.Equal(t, 10, limits["primary"])
	assert.Equal(t, 5, limits["sec"])
}

func TestRetrieve_DeduplicatesByContentAndSource(t *testing.T) {
	index := newStubIndex()
	index.answers["primary"] = []*core.PassageHit{hit("same passage", 0.2)}
	index.answers["sec"] = []*core.PassageHit{hit("same passage", 0.3)}

	r := newTestRetriever(t, index)
	results, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"sec"},
		K:         3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 0.7*0.8 + 0.3*0.7 contributions summed into a single entry.
	assert.InDelta(t, 0.77, results[0].Score, 1e-6)
}

func TestRetrieve_PrimaryFailureIsFatal(t *testing.T) {
	index := newStubIndex()
	index.errs["primary"] = errors.New("index exploded")
	index.answers["sec"] = []*core.PassageHit{hit("x", 0)}

	r := newTestRetriever(t, index)
	_, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"sec"},
		K:         3,
	})
	assert.ErrorIs(t, err, ErrPrimaryQueryFailed)
}

func TestRetrieve_SecondaryFailureIsAbsorbed(t *testing.T) {
	index := newStubIndex()
	index.answers["primary"] = []*core.PassageHit{hit("passage A", 0.1)}
	index.errs["broken"] = errors.New("index exploded")

	r := newTestRetriever(t, index)
	results, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"broken"},
		K:         3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "passage A", results[0].Passage.Content)
}

func TestRetrieve_SlowSecondaryTimesOut(t *testing.T) {
	index := newStubIndex()
	index.fn = func(ctx context.Context, query string, limit int) ([]*core.PassageHit, error) {
		if query == "slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []*core.PassageHit{hit("fast passage", 0.1)}, nil
	}

	r := newTestRetriever(t, index, WithQueryTimeout(10*time.Millisecond))
	results, err := r.Retrieve(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"slow"},
		K:         3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fast passage", results[0].Passage.Content)
}

func TestRetrieve_EdgeCases(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		r := newTestRetriever(t, newStubIndex())
		_, err := r.Retrieve(context.Background(), &Request{})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("K of zero returns empty without querying", func(t *testing.T) {
		index := newStubIndex()
		r := newTestRetriever(t, index)
		results, err := r.Retrieve(context.Background(), &Request{Primary: "p", K: 0})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Empty(t, index.recorded())
	})

	t.Run("K larger than available returns all", func(t *testing.T) {
		index := newStubIndex()
		index.answers["p"] = []*core.PassageHit{hit("only one", 0.1)}
		r := newTestRetriever(t, index)
		results, err := r.Retrieve(context.Background(), &Request{Primary: "p", K: 50})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("no hits anywhere is a valid empty result", func(t *testing.T) {
		index := newStubIndex()
		r := newTestRetriever(t, index)
		results, err := r.Retrieve(context.Background(), &Request{
			Primary:   "p",
			Secondary: []string{"s"},
			K:         3,
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("out-of-range distances clamp to valid similarity", func(t *testing.T) {
		index := newStubIndex()
		index.answers["p"] = []*core.PassageHit{
			hit("beyond orthogonal", 1.8),
			hit("suspiciously close", -0.2),
		}
		r := newTestRetriever(t, index)
		results, err := r.Retrieve(context.Background(), &Request{Primary: "p", K: 3})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "suspiciously close", results[0].Passage.Content)
		assert.InDelta(t, 0.7, results[0].Score, 1e-6)
		assert.InDelta(t, 0.0, results[1].Score, 1e-6)
	})
}

func TestRetrieve_DeterministicTieBreak(t *testing.T) {
	index := newStubIndex()
	index.answers["p"] = []*core.PassageHit{
		hit("first seen", 0.5),
		hit("second seen", 0.5),
	}

	r := newTestRetriever(t, index)
	for i := 0; i < 5; i++ {
		results, err := r.Retrieve(context.Background(), &Request{Primary: "p", K: 2})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "first seen", results[0].Passage.Content)
		assert.Equal(t, "second seen", results[1].Passage.Content)
	}
}

func TestRetrieveWithMonitor_Callbacks(t *testing.T) {
	index := newStubIndex()
	index.answers["primary"] = []*core.PassageHit{hit("a", 0.1)}
	index.answers["sec"] = []*core.PassageHit{hit("b", 0.2)}
	index.errs["broken"] = errors.New("boom")

	monitor := &recordingMonitor{}
	r := newTestRetriever(t, index)
	_, err := r.RetrieveWithMonitor(context.Background(), &Request{
		Primary:   "primary",
		Secondary: []string{"sec", "broken"},
		K:         3,
	}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 1, monitor.primaryHits)
	assert.Equal(t, []string{"sec"}, monitor.secondaryQueries)
	assert.Equal(t, []string{"broken"}, monitor.failedQueries)
	assert.Equal(t, 2, monitor.mergedCount)
	assert.Equal(t, 2, monitor.finished)
}

type recordingMonitor struct {
	started          bool
	primaryHits      int
	secondaryQueries []string
	failedQueries    []string
	mergedCount      int
	finished         int
}

func (m *recordingMonitor) Start(_ *Request) { m.started = true }
func (m *recordingMonitor) AfterPrimaryQuery(hits []*core.PassageHit) {
	m.primaryHits = len(hits)
}
func (m *recordingMonitor) AfterSecondaryQuery(query string, _ []*core.PassageHit) {
	m.secondaryQueries = append(m.secondaryQueries, query)
}
func (m *recordingMonitor) SecondaryQueryFailed(query string, _ error) {
	m.failedQueries = append(m.failedQueries, query)
}
func (m *recordingMonitor) AfterMerge(candidates int)             { m.mergedCount = candidates }
func (m *recordingMonitor) Finish(results []*core.RankedPassage) { m.finished = len(results) }
