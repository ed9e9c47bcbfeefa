package capsule

import (
	"strings"
	"testing"

	"github.com/poiesic/respite/core"
	"github.com/stretchr/testify/assert"
)

func testProfile() *core.UserProfile {
	return &core.UserProfile{
		Nickname:   "dana",
		Age:        34,
		Gender:     "female",
		Occupation: "information-technology",
		Stress:     core.StressAnxiousOccupational,
		Keywords:   []string{"insomnia", "deadlines"},
	}
}

func TestFallback(t *testing.T) {
	t.Run("message keyed to stress type", func(t *testing.T) {
		c := Fallback(testProfile())
		assert.True(t, c.Fallback)
		assert.Equal(t, 0.3, c.Confidence)
		assert.Equal(t, core.StressAnxiousOccupational, c.Stress)
		assert.Equal(t, fallbackMessages[core.StressAnxiousOccupational], c.Message)
		assert.NotEmpty(t, c.TherapyMethods)
		assert.Empty(t, c.Sources)
	})

	t.Run("every stress type has a distinct message", func(t *testing.T) {
		seen := make(map[string]core.StressType)
		for stress := core.StressCalm; stress <= core.StressCrisis; stress++ {
			msg := fallbackMessages[stress]
			assert.NotEmpty(t, msg, "stress %v", stress)
			if prev, dup := seen[msg]; dup {
				t.Errorf("stress %v and %v share a fallback message", prev, stress)
			}
			seen[msg] = stress
		}
	})

	t.Run("nil profile gets generic message", func(t *testing.T) {
		c := Fallback(nil)
		assert.True(t, c.Fallback)
		assert.Equal(t, defaultFallbackMessage, c.Message)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("includes profile, input, and context", func(t *testing.T) {
		prompt := BuildPrompt("I can't sleep before releases", testProfile(),
			"[sleep.txt] Sleep hygiene matters.")

		assert.Contains(t, prompt, "dana")
		assert.Contains(t, prompt, "34")
		assert.Contains(t, prompt, "information technology work")
		assert.Contains(t, prompt, "I can't sleep before releases")
		assert.Contains(t, prompt, "[sleep.txt] Sleep hygiene matters.")
		assert.Contains(t, prompt, "insomnia, deadlines")
		assert.Contains(t, prompt, "acceptance and commitment therapy")
	})

	t.Run("empty context gets placeholder", func(t *testing.T) {
		prompt := BuildPrompt("help", testProfile(), "")
		assert.Contains(t, prompt, "No reference material")
	})

	t.Run("nil profile uses placeholders", func(t *testing.T) {
		prompt := BuildPrompt("help", nil, "ctx")
		assert.Contains(t, prompt, "friend")
		assert.False(t, strings.Contains(prompt, "%s"))
	})
}
