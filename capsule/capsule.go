package capsule

import (
	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/profile"
)

// Capsule is the assembled support response: the generated message plus the
// retrieval provenance that produced it.
type Capsule struct {
	// Message is the generated supportive message.
	Message string

	// Stress is the stress type the message was tailored to.
	Stress core.StressType

	// TherapyMethods lists the therapy method names that steered retrieval.
	TherapyMethods []string

	// Sources lists the source labels of the passages behind the message,
	// unique and in rank order. Empty for fallback capsules.
	Sources []string

	// Keywords are the user's keywords that participated in retrieval.
	Keywords []string

	// Confidence estimates how well the retrieved passages ground the
	// message, in [0, 1].
	Confidence float64

	// Fallback is true when no relevant passages were found and the
	// message is a canned per-stress-type response.
	Fallback bool
}

const fallbackConfidence = 0.3

var fallbackMessages = map[core.StressType]string{
	core.StressCalm:                   "Take a moment to notice the calm you already have. You are doing well.",
	core.StressDepressive:             "The heaviness you feel is real. Start with one small thing today; you are not alone.",
	core.StressAnxious:                "Anxious thoughts are loud but they are not facts. Breathe slowly and come back to this moment.",
	core.StressOccupational:           "Work feels overwhelming right now. Pick one priority and let the rest wait.",
	core.StressDepressiveAnxious:      "A lot of tangled feelings are sitting with you. Untangle them slowly, one at a time.",
	core.StressDepressiveOccupational: "You sound worn down. It is alright to pause and rest before pushing on.",
	core.StressAnxiousOccupational:    "Busy and worried is a hard combination. A short mindful break can help you find your center.",
	core.StressCrisis:                 "Right now your safety comes first. Reaching out to someone nearby for help is an act of courage.",
}

const defaultFallbackMessage = "In this moment, you are doing enough. Be gentle with yourself."

// Fallback builds a canned capsule for when retrieval finds nothing
// relevant. The message is keyed to the profile's stress type and carries a
// fixed low confidence.
func Fallback(userProfile *core.UserProfile) *Capsule {
	c := &Capsule{
		Message:    defaultFallbackMessage,
		Confidence: fallbackConfidence,
		Fallback:   true,
	}
	if userProfile == nil {
		return c
	}

	if msg, ok := fallbackMessages[userProfile.Stress]; ok {
		c.Message = msg
	}
	c.Stress = userProfile.Stress
	c.TherapyMethods = profile.TherapyNames(userProfile.Stress)
	c.Keywords = userProfile.Keywords
	return c
}
