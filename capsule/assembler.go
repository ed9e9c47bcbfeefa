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


package capsule

import (
	"strings"

	"github.com/poiesic/respite/core"
)

const (
	// DefaultMaxContextLength bounds the assembled context handed to the
	// generator.
	DefaultMaxContextLength = 2000

	// maxPassageLength bounds each individual passage within the context.
	maxPassageLength = 500
)

// AssembleContext formats ranked passages into the reference block handed to
// the message generator. Each passage renders as "[source] content", blocks
// are joined with blank lines, and passages are kept in rank order.
//
// Passages longer than maxPassageLength are cut with an ellipsis. If the
// whole context would exceed maxLen, trailing passages are dropped whole
// rather than split mid-passage. maxLen <= 0 uses DefaultMaxContextLength.
func AssembleContext(results []*core.RankedPassage, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxContextLength
	}

	var blocks []string
	total := 0
	for _, r := range results {
		content := strings.TrimSpace(r.Passage.Content)
		if len(content) > maxPassageLength {
			content = content[:maxPassageLength] + "..."
		}

		block := "[" + r.Passage.Source + "] " + content
		sep := 0
		if len(blocks) > 0 {
			sep = 2
		}
		if total+sep+len(block) > maxLen {
			break
		}
		blocks = append(blocks, block)
		total += sep + len(block)
	}

	return strings.Join(blocks, "\n\n")
}

// SourceLabels returns the source labels of the ranked passages, unique and
// in rank order.
func SourceLabels(results []*core.RankedPassage) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range results {
		if r.Passage.Source == "" || seen[r.Passage.Source] {
			continue
		}
		seen[r.Passage.Source] = true
		labels = append(labels, r.Passage.Source)
	}
	return labels
}
