package profile

import "strings"

// AgeBracket bins an age into the decade descriptor used for demographic
// retrieval queries.
func AgeBracket(age int) string {
	switch {
	case age < 20:
		return "teens"
	case age < 30:
		return "20s"
	case age < 40:
		return "30s"
	case age < 50:
		return "40s"
	case age < 60:
		return "50s"
	default:
		return "60s and over"
	}
}

// DemographicDescriptor combines the age bracket with gender into a single
// retrieval descriptor, e.g. "30s female". A blank gender yields the bracket
// alone.
func DemographicDescriptor(age int, gender string) string {
	bracket := AgeBracket(age)
	gender = strings.TrimSpace(gender)
	if gender == "" {
		return bracket
	}
	return bracket + " " + strings.ToLower(gender)
}
