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
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/profile"
)

const (
	// DefaultK is the number of ranked passages returned when no K is set.
	DefaultK = 3

	// maxOccupationKeywords caps how many occupation keywords join the
	// keyword query alongside the user's own keywords.
	maxOccupationKeywords = 4
)

// Weights splits retrieval relevance between the primary query and the
// combined secondary queries. The secondary share is divided evenly among
// however many secondary queries a request carries.
type Weights struct {
	Primary   float64
	Secondary float64
}

// DefaultWeights returns the standard 70/30 split.
func DefaultWeights() Weights {
	return Weights{Primary: 0.7, Secondary: 0.3}
}

// IsZero reports whether no weights have been set.
func (w Weights) IsZero() bool {
	return w.Primary == 0 && w.Secondary == 0
}

// Normalized returns weights rescaled so they sum to 1. Zero weights fall
// back to the defaults. A rescale is logged because it usually means a
// misconfigured caller.
func (w Weights) Normalized(logger *slog.Logger) Weights {
	if logger == nil {
		logger = slog.Default()
	}
	if w.IsZero() {
		return DefaultWeights()
	}
	if w.Primary < 0 || w.Secondary < 0 {
		logger.Warn("negative retrieval weights, using defaults",
			"primary", w.Primary, "secondary", w.Secondary)
		return DefaultWeights()
	}

	sum := w.Primary + w.Secondary
	if math.Abs(sum-1.0) < 1e-9 {
		return w
	}

	logger.Warn("rescaling retrieval weights to sum to 1",
		"primary", w.Primary, "secondary", w.Secondary, "sum", sum)
	return Weights{
		Primary:   w.Primary / sum,
		Secondary: w.Secondary / sum,
	}
}

// Request is a composed retrieval request. Primary carries most of the
// relevance weight; Secondary queries broaden recall around the user's
// demographic, occupation, and stated keywords.
type Request struct {
	Primary   string
	Secondary []string
	Weights   Weights
	K         int
}

// ComposeOption configures query composition.
type ComposeOption func(*Request)

// WithWeights overrides the default 70/30 weight split.
func WithWeights(w Weights) ComposeOption {
	return func(r *Request) {
		r.Weights = w
	}
}

// WithK sets the number of ranked passages to return.
func WithK(k int) ComposeOption {
	return func(r *Request) {
		r.K = k
	}
}

// Compose builds a retrieval request from the user's input and profile.
//
// The primary query joins the raw input with the therapy method labels for
// the profile's stress type. Secondary queries are derived from the profile
// in a fixed order: demographic descriptor, occupation descriptor, then the
// user's keywords merged with occupation keywords. Blank components are
// dropped, so a sparse profile simply issues fewer secondary queries.
func Compose(input string, userProfile *core.UserProfile, opts ...ComposeOption) (*Request, error) {
	req := &Request{
		Weights: DefaultWeights(),
		K:       DefaultK,
	}
	for _, opt := range opts {
		opt(req)
	}

	input = strings.TrimSpace(input)

	var primaryParts []string
	if input != "" {
		primaryParts = append(primaryParts, input)
	}
	if userProfile != nil {
		primaryParts = append(primaryParts, profile.TherapyLabels(userProfile.Stress)...)
	}
	if len(primaryParts) == 0 {
		return nil, ErrEmptyQuery
	}
	req.Primary = strings.Join(primaryParts, " ")

	if userProfile == nil {
		return req, nil
	}

	if userProfile.Age > 0 {
		demographic := profile.DemographicDescriptor(userProfile.Age, userProfile.Gender)
		req.Secondary = append(req.Secondary, demographic+" stress")
	} else if gender := strings.TrimSpace(userProfile.Gender); gender != "" {
		req.Secondary = append(req.Secondary, strings.ToLower(gender)+" stress")
	}

	if occupation := strings.TrimSpace(userProfile.Occupation); occupation != "" {
		req.Secondary = append(req.Secondary, profile.OccupationDescriptor(occupation)+" stress")
	}

	keywords := make([]string, 0, len(userProfile.Keywords)+maxOccupationKeywords)
	for _, kw := range userProfile.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if occupation := strings.TrimSpace(userProfile.Occupation); occupation != "" {
		keywords = append(keywords, profile.OccupationKeywords(occupation, maxOccupationKeywords)...)
	}
	if len(keywords) > 0 {
		req.Secondary = append(req.Secondary, strings.Join(keywords, " "))
	}

	return req, nil
}
