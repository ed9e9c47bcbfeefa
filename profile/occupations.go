package profile

import "strings"

// Occupation bundles the human-readable descriptor and the stressor keywords
// associated with an occupation code.
type Occupation struct {
	Descriptor string
	Keywords   []string
}

// generalOccupation is the fallback for unknown occupation codes.
var generalOccupation = Occupation{
	Descriptor: "general occupation",
	Keywords:   []string{"work stress", "workload"},
}

// occupationTable maps occupation codes to descriptors and typical stressor
// keywords. Codes follow the national competency classification the intake
// survey uses; the short aliases exist for callers that pass plain names.
var occupationTable = map[string]Occupation{
	"management-accounting": {
		Descriptor: "management and office work",
		Keywords:   []string{"work overload", "reporting", "meetings", "administrative stress"},
	},
	"finance-insurance": {
		Descriptor: "finance and insurance work",
		Keywords:   []string{"risk management", "client pressure", "performance targets", "compliance"},
	},
	"education-research": {
		Descriptor: "education and research work",
		Keywords:   []string{"student guidance", "parent conflict", "evaluation stress", "administrative load"},
	},
	"law-public-safety": {
		Descriptor: "law enforcement and public safety work",
		Keywords:   []string{"public safety", "hazardous situations", "patrol duty", "legal pressure"},
	},
	"healthcare": {
		Descriptor: "healthcare work",
		Keywords:   []string{"burnout", "emotional labor", "patient safety", "night shifts", "emergencies"},
	},
	"social-welfare": {
		Descriptor: "social welfare work",
		Keywords:   []string{"emotional labor", "counseling load", "case management", "client crises"},
	},
	"culture-arts-media": {
		Descriptor: "creative and media work",
		Keywords:   []string{"creative pressure", "financial insecurity", "public evaluation", "creative slumps"},
	},
	"athletics": {
		Descriptor: "athletic work",
		Keywords:   []string{"performance pressure", "injury risk", "training load", "competition stress"},
	},
	"travel-leisure": {
		Descriptor: "travel and leisure service work",
		Keywords:   []string{"customer service", "peak season", "seasonal workload"},
	},
	"hospitality-food": {
		Descriptor: "hospitality and food service work",
		Keywords:   []string{"customer-facing stress", "kitchen work", "weekend shifts", "emotional labor"},
	},
	"beauty-events": {
		Descriptor: "beauty and event service work",
		Keywords:   []string{"client satisfaction", "emotional labor", "trend pressure"},
	},
	"clerical-support": {
		Descriptor: "clerical support work",
		Keywords:   []string{"schedule management", "document work", "support duties"},
	},
	"agriculture-fishery": {
		Descriptor: "agriculture and fishery work",
		Keywords:   []string{"weather dependence", "seasonality", "physical labor"},
	},
	"food-processing": {
		Descriptor: "food processing work",
		Keywords:   []string{"hygiene control", "production line", "quality control"},
	},
	"textiles-apparel": {
		Descriptor: "textile and apparel work",
		Keywords:   []string{"trend pressure", "production deadlines", "quality control"},
	},
	"materials": {
		Descriptor: "materials engineering work",
		Keywords:   []string{"quality control", "process management", "research deadlines"},
	},
	"chemistry": {
		Descriptor: "chemical industry work",
		Keywords:   []string{"hazardous substances", "safety management", "laboratory work"},
	},
	"electrical-electronics": {
		Descriptor: "electrical and electronics work",
		Keywords:   []string{"circuit design", "maintenance duty", "electrical safety"},
	},
	"information-technology": {
		Descriptor: "information technology work",
		Keywords: []string{
			"overtime", "deadlines", "technology churn", "project pressure", "bugs",
			"multitasking", "irregular sleep", "work overload", "learning pressure",
		},
	},
	"machinery": {
		Descriptor: "machinery and manufacturing work",
		Keywords:   []string{"machine operation", "maintenance", "production targets", "workplace safety"},
	},
	"metals": {
		Descriptor: "metalworking",
		Keywords:   []string{"welding", "workplace safety", "physical strain"},
	},
	"construction": {
		Descriptor: "construction work",
		Keywords:   []string{"site hazards", "schedule compression", "project pressure", "field work"},
	},
	"environment-energy-safety": {
		Descriptor: "environment and safety work",
		Keywords:   []string{"safety inspection", "risk management", "regulatory pressure"},
	},
	"printing-crafts": {
		Descriptor: "printing and craft work",
		Keywords:   []string{"production management", "craftsmanship pressure", "deadlines"},
	},

	// Short aliases kept for intake forms that collect a plain name.
	"management": {
		Descriptor: "management and office work",
		Keywords:   []string{"work overload", "administrative stress", "meetings"},
	},
	"education": {
		Descriptor: "education work",
		Keywords:   []string{"student guidance", "parent conflict", "evaluation stress"},
	},
	"it": {
		Descriptor: "information technology work",
		Keywords:   []string{"overtime", "deadlines", "technology churn", "project pressure", "bugs"},
	},
	"service": {
		Descriptor: "service work",
		Keywords:   []string{"customer-facing stress", "emotional labor"},
	},
}

// LookupOccupation returns the occupation entry for a code. Unknown or blank
// codes fail soft and return the generic entry; query composition must never
// break on a malformed profile field.
func LookupOccupation(code string) Occupation {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if occupation, ok := occupationTable[normalized]; ok {
		return occupation
	}
	return generalOccupation
}

// OccupationDescriptor returns the retrieval descriptor for an occupation
// code, falling back to the generic descriptor for unknown codes.
func OccupationDescriptor(code string) string {
	return LookupOccupation(code).Descriptor
}

// OccupationKeywords returns up to limit stressor keywords for an occupation
// code. A limit <= 0 returns all keywords.
func OccupationKeywords(code string, limit int) []string {
	keywords := LookupOccupation(code).Keywords
	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
