package profile

import "github.com/poiesic/respite/core"

// TherapyMethod describes an evidence-based intervention referenced by the
// corpus. The short name is the label used in retrieval queries; the full
// name appears in generated capsules.
type TherapyMethod struct {
	Name           string
	FullName       string
	TargetSymptoms []string
}

// The five interventions the reference corpus is organized around.
var (
	MBSR = TherapyMethod{
		Name:           "MBSR",
		FullName:       "mindfulness-based stress reduction",
		TargetSymptoms: []string{"stress", "anxiety", "low mood"},
	}
	PPT = TherapyMethod{
		Name:           "PPT",
		FullName:       "positive psychotherapy",
		TargetSymptoms: []string{"low mood", "lethargy", "self-esteem"},
	}
	ACT = TherapyMethod{
		Name:           "ACT",
		FullName:       "acceptance and commitment therapy",
		TargetSymptoms: []string{"anxiety", "low mood", "occupational stress"},
	}
	CBT = TherapyMethod{
		Name:           "CBT",
		FullName:       "cognitive behavioral therapy",
		TargetSymptoms: []string{"low mood", "anxiety", "negative thinking"},
	}
	DBT = TherapyMethod{
		Name:           "DBT",
		FullName:       "dialectical behavior therapy",
		TargetSymptoms: []string{"emotion regulation", "relationships", "crisis"},
	}
)

// therapyTable maps every stress type to its recommended interventions,
// most relevant first. Several types share labels on purpose: the corpus
// groups material by intervention, not by stress type, so overlapping
// recommendations pull from overlapping material.
var therapyTable = map[core.StressType][]TherapyMethod{
	core.StressCalm:                   {MBSR},
	core.StressDepressive:             {PPT, MBSR},
	core.StressAnxious:                {ACT, MBSR},
	core.StressOccupational:           {ACT, CBT},
	core.StressDepressiveAnxious:      {PPT, ACT, CBT},
	core.StressDepressiveOccupational: {PPT, ACT},
	core.StressAnxiousOccupational:    {ACT, CBT},
	core.StressCrisis:                 {PPT, ACT, DBT},
}

// TherapyMethods returns the recommended interventions for a stress type,
// most relevant first. Undefined stress types fall back to the calm set so
// that query composition never fails.
func TherapyMethods(stress core.StressType) []TherapyMethod {
	methods, ok := therapyTable[stress]
	if !ok {
		return therapyTable[core.StressCalm]
	}
	return methods
}

// TherapyLabels returns the short intervention labels for a stress type,
// in recommendation order. These labels are appended to the primary
// retrieval query.
func TherapyLabels(stress core.StressType) []string {
	methods := TherapyMethods(stress)
	labels := make([]string, len(methods))
	for i, method := range methods {
		labels[i] = method.Name
	}
	return labels
}

// TherapyNames returns the full intervention names for a stress type, used
// for capsule attribution.
func TherapyNames(stress core.StressType) []string {
	methods := TherapyMethods(stress)
	names := make([]string, len(methods))
	for i, method := range methods {
		names[i] = method.FullName
	}
	return names
}
