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


// Package retrieval implements priority-weighted retrieval over a passage
// index.
//
// A retrieval request carries one primary query, built from the user's input
// and the therapy labels for their stress type, and up to three secondary
// queries derived from their profile. The primary query carries 70% of the
// relevance weight; the remaining 30% is split evenly among the secondary
// queries actually issued.
//
// Queries fan out concurrently against the index. Hits are merged by passage
// identity, with contributions from every query summed, then ranked by total
// score. Ties preserve first-seen order, so results are deterministic.
//
// The primary query is the only hard dependency: if it fails, retrieval
// fails. Secondary query failures are logged and absorbed, and an empty
// result set is a valid outcome, not an error.
//
// Usage:
//
//	req, err := retrieval.Compose("I can't sleep before deadlines", profile)
//	if err != nil {
//	    return err
//	}
//	retriever, err := retrieval.NewRetriever(index)
//	if err != nil {
//	    return err
//	}
//	defer retriever.Release()
//
//	ranked, err := retriever.Retrieve(ctx, req)
package retrieval
