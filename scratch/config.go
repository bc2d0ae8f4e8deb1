// Package scratch decides scratch-card round outcomes. Generation is pure
// computation over fixed, validated game tables: it draws the win/lose flag,
// the prize and the 9-cell symbol grid up front, so no user-visible
// randomness happens after Generate returns.
package scratch

import (
	"fmt"

	"raspadinha/models"
)

// Grid geometry and placement constraints. A win shows the prize symbol in
// exactly MatchCount cells; no symbol may ever reach MatchCount occurrences
// on a lost grid.
const (
	GridSize        = 9
	MatchCount      = 3
	maxSymbolRepeat = MatchCount - 1
)

// Symbol is one scratch cell face
type Symbol string

// PrizeValue maps a winnable amount to the symbol that pays it
type PrizeValue struct {
	Symbol Symbol
	Amount int64 // centavos
}

// PrizeTier groups prize values into the small/medium/large bands the
// categorical draw selects between
type PrizeTier struct {
	Name   string
	Values []PrizeValue
}

// ClassProfile holds the per-user-class outcome weighting. TierWeights is
// parallel to the game's Tiers slice; the promotional profile is biased
// toward winning and toward the larger bands.
type ClassProfile struct {
	WinFrequency float64
	TierWeights  []int64
}

// Game is one fixed-price scratch card with its prize table and symbol pools
type Game struct {
	ID          string
	Name        string
	Price       int64 // centavos
	Tiers       []PrizeTier
	Fillers     []Symbol // non-winning pool
	Standard    ClassProfile
	Promotional ClassProfile
}

// Profile selects the outcome weighting for a user class
func (g *Game) Profile(class models.UserClass) ClassProfile {
	if class == models.UserClassPromotional {
		return g.Promotional
	}
	return g.Standard
}

// Validate checks the game tables at startup. A misconfigured table is a
// configuration error, never a runtime one: once a game validates,
// generation cannot fail.
func (g *Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.Price <= 0 {
		return fmt.Errorf("game %s: price must be positive", g.ID)
	}
	if len(g.Tiers) == 0 {
		return fmt.Errorf("game %s: prize table has no tiers", g.ID)
	}

	prizeSymbols := make(map[Symbol]bool)
	for _, tier := range g.Tiers {
		if len(tier.Values) == 0 {
			return fmt.Errorf("game %s: tier %s has no prize values", g.ID, tier.Name)
		}
		for _, v := range tier.Values {
			if v.Amount <= 0 {
				return fmt.Errorf("game %s: tier %s has a non-positive prize", g.ID, tier.Name)
			}
			if v.Symbol == "" {
				return fmt.Errorf("game %s: tier %s has a prize without a symbol", g.ID, tier.Name)
			}
			if prizeSymbols[v.Symbol] {
				return fmt.Errorf("game %s: prize symbol %s is not unique", g.ID, v.Symbol)
			}
			prizeSymbols[v.Symbol] = true
		}
	}

	// Filling 6 cells at 2 copies per symbol needs at least 3 fillers, and
	// fillers must never collide with a prize symbol or a placed win could
	// exceed exactly MatchCount occurrences.
	if len(g.Fillers) < 3 {
		return fmt.Errorf("game %s: need at least 3 filler symbols, have %d", g.ID, len(g.Fillers))
	}
	fillers := make(map[Symbol]bool)
	for _, f := range g.Fillers {
		if prizeSymbols[f] {
			return fmt.Errorf("game %s: filler symbol %s collides with a prize symbol", g.ID, f)
		}
		if fillers[f] {
			return fmt.Errorf("game %s: filler symbol %s is duplicated", g.ID, f)
		}
		fillers[f] = true
	}

	// Dealing GridSize cells at maxSymbolRepeat copies per symbol needs
	// ceil(GridSize / maxSymbolRepeat) distinct symbols in the union pool.
	distinct := len(prizeSymbols) + len(fillers)
	minDistinct := (GridSize + maxSymbolRepeat - 1) / maxSymbolRepeat
	if distinct < minDistinct {
		return fmt.Errorf("game %s: union pool needs at least %d distinct symbols, have %d", g.ID, minDistinct, distinct)
	}

	for _, profile := range []struct {
		name string
		p    ClassProfile
	}{{"standard", g.Standard}, {"promotional", g.Promotional}} {
		if profile.p.WinFrequency < 0 || profile.p.WinFrequency > 1 {
			return fmt.Errorf("game %s: %s win frequency must be within [0, 1]", g.ID, profile.name)
		}
		if len(profile.p.TierWeights) != len(g.Tiers) {
			return fmt.Errorf("game %s: %s profile has %d tier weights for %d tiers", g.ID, profile.name, len(profile.p.TierWeights), len(g.Tiers))
		}
		var total int64
		for _, w := range profile.p.TierWeights {
			if w < 0 {
				return fmt.Errorf("game %s: %s profile has a negative tier weight", g.ID, profile.name)
			}
			total += w
		}
		if total <= 0 {
			return fmt.Errorf("game %s: %s profile tier weights sum to zero", g.ID, profile.name)
		}
	}

	return nil
}

// Config is the full catalog of playable games
type Config struct {
	Games []Game
}

// Game looks up a game by id
func (c *Config) Game(id string) (*Game, bool) {
	for i := range c.Games {
		if c.Games[i].ID == id {
			return &c.Games[i], true
		}
	}
	return nil, false
}

// Validate checks every game table
func (c *Config) Validate() error {
	if len(c.Games) == 0 {
		return fmt.Errorf("no games configured")
	}
	seen := make(map[string]bool)
	for i := range c.Games {
		if seen[c.Games[i].ID] {
			return fmt.Errorf("duplicate game id %s", c.Games[i].ID)
		}
		seen[c.Games[i].ID] = true
		if err := c.Games[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultConfig returns the shipped game catalog
func DefaultConfig() Config {
	return Config{
		Games: []Game{
			{
				ID:    "classic",
				Name:  "Raspadinha Clássica",
				Price: 100, // R$ 1.00
				Tiers: []PrizeTier{
					{Name: "small", Values: []PrizeValue{
						{Symbol: "clover", Amount: 100},
						{Symbol: "horseshoe", Amount: 200},
					}},
					{Name: "medium", Values: []PrizeValue{
						{Symbol: "bell", Amount: 500},
						{Symbol: "star", Amount: 1000},
					}},
					{Name: "large", Values: []PrizeValue{
						{Symbol: "seven", Amount: 5000},
						{Symbol: "diamond", Amount: 10000},
					}},
				},
				Fillers:     []Symbol{"cherry", "lemon", "grape", "melon", "orange"},
				Standard:    ClassProfile{WinFrequency: 0.30, TierWeights: []int64{75, 20, 5}},
				Promotional: ClassProfile{WinFrequency: 0.65, TierWeights: []int64{50, 35, 15}},
			},
			{
				ID:    "premium",
				Name:  "Raspadinha Premium",
				Price: 500, // R$ 5.00
				Tiers: []PrizeTier{
					{Name: "small", Values: []PrizeValue{
						{Symbol: "clover", Amount: 500},
						{Symbol: "horseshoe", Amount: 1000},
					}},
					{Name: "medium", Values: []PrizeValue{
						{Symbol: "bell", Amount: 2500},
						{Symbol: "star", Amount: 5000},
					}},
					{Name: "large", Values: []PrizeValue{
						{Symbol: "crown", Amount: 25000},
						{Symbol: "diamond", Amount: 100000},
					}},
				},
				Fillers:     []Symbol{"cherry", "lemon", "grape", "melon", "orange"},
				Standard:    ClassProfile{WinFrequency: 0.25, TierWeights: []int64{80, 17, 3}},
				Promotional: ClassProfile{WinFrequency: 0.60, TierWeights: []int64{55, 35, 10}},
			},
		},
	}
}
