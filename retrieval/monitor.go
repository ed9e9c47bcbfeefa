package retrieval

import "github.com/poiesic/respite/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(req *Request)
	AfterPrimaryQuery(hits []*core.PassageHit)
	AfterSecondaryQuery(query string, hits []*core.PassageHit)
	SecondaryQueryFailed(query string, err error)
	AfterMerge(candidates int)
	Finish(results []*core.RankedPassage)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *Request)                                 {}
func (n *noopMonitor) AfterPrimaryQuery(_ []*core.PassageHit)           {}
func (n *noopMonitor) AfterSecondaryQuery(_ string, _ []*core.PassageHit) {}
func (n *noopMonitor) SecondaryQueryFailed(_ string, _ error)           {}
func (n *noopMonitor) AfterMerge(_ int)                                 {}
func (n *noopMonitor) Finish(_ []*core.RankedPassage)                   {}
