package capsule

import (
	"strings"

	"github.com/poiesic/respite/core"
)

// Confidence estimates how well the retrieved passages ground a generated
// message, in [0, 1]. Each passage is scored on keyword coverage (50%),
// content length (20%), source attribution (15%), and sentence richness
// (15%); the average gets a small bonus for result count and is capped at 1.
func Confidence(results []*core.RankedPassage, keywords []string) float64 {
	if len(results) == 0 {
		return 0.0
	}

	totalKeywords := len(keywords)
	if totalKeywords == 0 {
		totalKeywords = 1
	}

	total := 0.0
	for _, r := range results {
		content := strings.ToLower(r.Passage.Content)
		score := 0.0

		matches := 0
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(content, kw) {
				matches++
			}
		}
		score += float64(matches) / float64(totalKeywords) * 0.5

		length := len(content)
		switch {
		case length >= 100 && length <= 1000:
			score += 0.2
		case length >= 50 && length <= 1500:
			score += 0.1
		}

		if r.Passage.Source != "" {
			score += 0.15
		}

		sentences := strings.Count(content, ".")
		switch {
		case sentences >= 3:
			score += 0.15
		case sentences >= 1:
			score += 0.08
		}

		total += score
	}

	avg := total / float64(len(results))
	countBonus := float64(len(results)) / 3.0
	if countBonus > 1.0 {
		countBonus = 1.0
	}

	confidence := avg + countBonus*0.1
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
