package scratch

import (
	"math/rand"
	"testing"

	"raspadinha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countSymbols(grid []string) map[string]int {
	counts := make(map[string]int)
	for _, s := range grid {
		counts[s]++
	}
	return counts
}

func prizeAmounts(game *Game) map[Symbol]int64 {
	amounts := make(map[Symbol]int64)
	for _, tier := range game.Tiers {
		for _, v := range tier.Values {
			amounts[v.Symbol] = v.Amount
		}
	}
	return amounts
}

func TestGenerator_WinOutcome(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	game, ok := cfg.Game("classic")
	require.True(t, ok)

	// Force every round to win
	forced := *game
	forced.Standard.WinFrequency = 1.0

	gen := NewGenerator(rand.New(rand.NewSource(7)))
	amounts := prizeAmounts(game)

	for i := 0; i < 5000; i++ {
		outcome := gen.Generate(&forced, models.UserClassStandard)
		require.True(t, outcome.Won)
		require.Len(t, outcome.Grid, GridSize)

		// The prize symbol appears exactly MatchCount times and pays the
		// amount its table row promises
		counts := countSymbols(outcome.Grid)
		assert.Equal(t, MatchCount, counts[string(outcome.PrizeSymbol)])
		assert.Equal(t, amounts[outcome.PrizeSymbol], outcome.Prize)

		// No other symbol reaches MatchCount
		for s, n := range counts {
			if s != string(outcome.PrizeSymbol) {
				assert.Less(t, n, MatchCount, "symbol %s tripled on a winning grid", s)
			}
		}
	}
}

func TestGenerator_LoseOutcome_NeverShowsTriple(t *testing.T) {
	cfg := DefaultConfig()
	game, ok := cfg.Game("classic")
	require.True(t, ok)

	// Force every round to lose
	forced := *game
	forced.Standard.WinFrequency = 0.0

	gen := NewGenerator(rand.New(rand.NewSource(11)))

	for i := 0; i < 20000; i++ {
		outcome := gen.Generate(&forced, models.UserClassStandard)
		require.False(t, outcome.Won)
		require.Equal(t, int64(0), outcome.Prize)
		require.Len(t, outcome.Grid, GridSize)

		for s, n := range countSymbols(outcome.Grid) {
			require.Less(t, n, MatchCount, "symbol %s tripled on a losing grid", s)
		}
	}
}

func TestGenerator_WinFrequency(t *testing.T) {
	cfg := DefaultConfig()
	game, ok := cfg.Game("classic")
	require.True(t, ok)

	gen := NewGenerator(rand.New(rand.NewSource(42)))

	const rounds = 100000
	wins := 0
	for i := 0; i < rounds; i++ {
		if gen.Generate(game, models.UserClassPromotional).Won {
			wins++
		}
	}

	// Promotional classic profile wins 65% of the time; 100k rounds keep the
	// sample within a percentage point of that
	rate := float64(wins) / float64(rounds)
	assert.InDelta(t, game.Promotional.WinFrequency, rate, 0.01)
}

func TestGenerator_ClassSelectsProfile(t *testing.T) {
	cfg := DefaultConfig()
	game, ok := cfg.Game("classic")
	require.True(t, ok)

	gen := NewGenerator(rand.New(rand.NewSource(3)))

	const rounds = 50000
	standardWins, promoWins := 0, 0
	for i := 0; i < rounds; i++ {
		if gen.Generate(game, models.UserClassStandard).Won {
			standardWins++
		}
		if gen.Generate(game, models.UserClassPromotional).Won {
			promoWins++
		}
	}

	assert.InDelta(t, game.Standard.WinFrequency, float64(standardWins)/float64(rounds), 0.01)
	assert.InDelta(t, game.Promotional.WinFrequency, float64(promoWins)/float64(rounds), 0.01)
}

func TestGenerator_TierWeightsShapePrizes(t *testing.T) {
	cfg := DefaultConfig()
	game, ok := cfg.Game("classic")
	require.True(t, ok)

	forced := *game
	forced.Standard.WinFrequency = 1.0

	gen := NewGenerator(rand.New(rand.NewSource(5)))

	// Map each prize symbol to its tier index
	tierOf := make(map[Symbol]int)
	for i, tier := range game.Tiers {
		for _, v := range tier.Values {
			tierOf[v.Symbol] = i
		}
	}

	const rounds = 100000
	hits := make([]int, len(game.Tiers))
	for i := 0; i < rounds; i++ {
		outcome := gen.Generate(&forced, models.UserClassStandard)
		hits[tierOf[outcome.PrizeSymbol]]++
	}

	// Standard classic weights are 75/20/5
	var total int64
	for _, w := range game.Standard.TierWeights {
		total += w
	}
	for i, w := range game.Standard.TierWeights {
		expected := float64(w) / float64(total)
		assert.InDelta(t, expected, float64(hits[i])/float64(rounds), 0.01, "tier %d", i)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("shipped catalog validates", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("filler colliding with a prize symbol is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Games[0].Fillers[0] = "clover"
		assert.Error(t, cfg.Validate())
	})

	t.Run("too few fillers are rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Games[0].Fillers = []Symbol{"cherry", "lemon"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("win frequency out of range is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Games[0].Standard.WinFrequency = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("mismatched tier weights are rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Games[0].Standard.TierWeights = []int64{1, 2}
		assert.Error(t, cfg.Validate())
	})

	t.Run("duplicate game ids are rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Games = append(cfg.Games, cfg.Games[0])
		assert.Error(t, cfg.Validate())
	})
}
