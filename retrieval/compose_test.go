package retrieval

import (
	"strings"
	"testing"

	"github.com/poiesic/respite/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProfile() *core.UserProfile {
	return &core.UserProfile{
		Nickname:   "dana",
		Age:        34,
		Gender:     "female",
		Occupation: "information-technology",
		Stress:     core.StressAnxiousOccupational,
		Keywords:   []string{"insomnia", "deadlines"},
	}
}

func TestCompose(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		req, err := Compose("I can't sleep before releases", fullProfile())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(req.Primary, "I can't sleep before releases"))
		assert.Contains(t, req.Primary, "ACT")
		assert.Contains(t, req.Primary, "CBT")

		require.Len(t, req.Secondary, 3)
		assert.Equal(t, "30s female stress", req.Secondary[0])
		assert.Equal(t, "information technology work stress", req.Secondary[1])
		assert.Contains(t, req.Secondary[2], "insomnia")
		assert.Contains(t, req.Secondary[2], "deadlines")

		assert.Equal(t, DefaultWeights(), req.Weights)
		assert.Equal(t, DefaultK, req.K)
	})

	t.Run("blank input falls back to therapy labels", func(t *testing.T) {
		req, err := Compose("   ", fullProfile())
		require.NoError(t, err)
		assert.Equal(t, "ACT CBT", req.Primary)
	})

	t.Run("nil profile uses input alone", func(t *testing.T) {
		req, err := Compose("stressful day", nil)
		require.NoError(t, err)
		assert.Equal(t, "stressful day", req.Primary)
		assert.Empty(t, req.Secondary)
	})

	t.Run("nil profile and blank input is an error", func(t *testing.T) {
		_, err := Compose("", nil)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("sparse profile issues fewer secondary queries", func(t *testing.T) {
		req, err := Compose("help", &core.UserProfile{
			Stress: core.StressCalm,
		})
		require.NoError(t, err)
		assert.Empty(t, req.Secondary)
	})

	t.Run("unknown occupation degrades to generic descriptor", func(t *testing.T) {
		p := fullProfile()
		p.Occupation = "lighthouse-keeper"
		req, err := Compose("help", p)
		require.NoError(t, err)
		assert.Equal(t, "general occupation stress", req.Secondary[1])
	})

	t.Run("options override defaults", func(t *testing.T) {
		req, err := Compose("help", fullProfile(),
			WithK(10),
			WithWeights(Weights{Primary: 0.5, Secondary: 0.5}),
		)
		require.NoError(t, err)
		assert.Equal(t, 10, req.K)
		assert.Equal(t, Weights{Primary: 0.5, Secondary: 0.5}, req.Weights)
	})
}

func TestWeightsNormalized(t *testing.T) {
	t.Run("already normalized", func(t *testing.T) {
		w := Weights{Primary: 0.7, Secondary: 0.3}
		assert.Equal(t, w, w.Normalized(nil))
	})

	t.Run("zero falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultWeights(), Weights{}.Normalized(nil))
	})

	t.Run("rescales to sum to 1", func(t *testing.T) {
		got := Weights{Primary: 1.4, Secondary: 0.6}.Normalized(nil)
		assert.InDelta(t, 0.7, got.Primary, 1e-9)
		assert.InDelta(t, 0.3, got.Secondary, 1e-9)
	})

	t.Run("negative falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultWeights(), Weights{Primary: -1, Secondary: 2}.Normalized(nil))
	})
}
