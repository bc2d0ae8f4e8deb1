package scratch

import (
	"math/rand"
	"sync"

	"raspadinha/models"
)

// maxRejectionAttempts bounds the lose-grid rejection loop. With the shipped
// pools a valid grid is drawn in O(1) expected attempts; past the cap the
// grid is dealt from a capped pool, which cannot contain a triple.
const maxRejectionAttempts = 16

// Outcome is a fully decided round: win flag, prize and rendered grid
type Outcome struct {
	Won         bool
	Prize       int64 // centavos, 0 unless won
	PrizeSymbol Symbol
	Grid        []string
}

// Generator draws outcomes for validated games. Safe for concurrent use;
// the underlying rand source is guarded by a mutex.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator around the given rand source
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate decides one round for a game and user class
func (g *Generator) Generate(game *Game, class models.UserClass) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	profile := game.Profile(class)
	if g.rng.Float64() < profile.WinFrequency {
		return g.winOutcome(game, profile)
	}
	return g.loseOutcome(game)
}

// winOutcome draws a prize from the weighted tier table, places its symbol
// in exactly MatchCount uniformly chosen cells and fills the rest from the
// filler pool, at most two copies each.
func (g *Generator) winOutcome(game *Game, profile ClassProfile) Outcome {
	tier := game.Tiers[g.pickTier(profile.TierWeights)]
	value := tier.Values[g.rng.Intn(len(tier.Values))]

	grid := make([]string, GridSize)
	positions := g.rng.Perm(GridSize)
	for _, pos := range positions[:MatchCount] {
		grid[pos] = string(value.Symbol)
	}

	pool := g.cappedPool(game.Fillers)
	rest := positions[MatchCount:]
	for i, pos := range rest {
		grid[pos] = string(pool[i])
	}

	g.shuffleGrid(grid)
	return Outcome{
		Won:         true,
		Prize:       value.Amount,
		PrizeSymbol: value.Symbol,
		Grid:        grid,
	}
}

// loseOutcome samples the grid with replacement from the union of prize and
// filler symbols, rejecting any draw where a symbol reaches MatchCount. A
// pure random draw could accidentally render an unintended three-of-a-kind,
// which must never appear on a lost card. The loop is bounded; the fallback
// deals from a capped pool and is triple-free by construction.
func (g *Generator) loseOutcome(game *Game) Outcome {
	union := g.unionSymbols(game)

	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		grid := make([]string, GridSize)
		counts := make(map[string]int, GridSize)
		valid := true
		for i := range grid {
			s := string(union[g.rng.Intn(len(union))])
			counts[s]++
			if counts[s] >= MatchCount {
				valid = false
				break
			}
			grid[i] = s
		}
		if valid {
			return Outcome{Grid: grid}
		}
	}

	pool := g.cappedPool(union)
	grid := make([]string, GridSize)
	for i := range grid {
		grid[i] = string(pool[i])
	}
	g.shuffleGrid(grid)
	return Outcome{Grid: grid}
}

// pickTier selects a tier index by cumulative weight
func (g *Generator) pickTier(weights []int64) int {
	var total int64
	for _, w := range weights {
		total += w
	}
	draw := g.rng.Int63n(total)
	var cum int64
	for i, w := range weights {
		cum += w
		if draw < cum {
			return i
		}
	}
	return len(weights) - 1
}

// cappedPool deals a shuffled pool holding maxSymbolRepeat copies of each
// symbol, so any prefix of it respects the per-symbol cap
func (g *Generator) cappedPool(symbols []Symbol) []Symbol {
	pool := make([]Symbol, 0, len(symbols)*maxSymbolRepeat)
	for _, s := range symbols {
		for i := 0; i < maxSymbolRepeat; i++ {
			pool = append(pool, s)
		}
	}
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

func (g *Generator) unionSymbols(game *Game) []Symbol {
	union := make([]Symbol, 0, len(game.Fillers)+len(game.Tiers)*2)
	for _, tier := range game.Tiers {
		for _, v := range tier.Values {
			union = append(union, v.Symbol)
		}
	}
	union = append(union, game.Fillers...)
	return union
}

func (g *Generator) shuffleGrid(grid []string) {
	g.rng.Shuffle(len(grid), func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})
}
