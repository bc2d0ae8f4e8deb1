package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RoundStatus tracks a round through its lifecycle
type RoundStatus string

const (
	RoundStatusGenerated RoundStatus = "generated"
	RoundStatusSettled   RoundStatus = "settled"
)

// Round is one scratch-card play. The outcome is decided and persisted at
// generation time; settlement applies it to the wallet exactly once, keyed
// by the round id. A round that fails settlement stays generated and is
// replayed with the same outcome, never regenerated.
type Round struct {
	ID        uuid.UUID   `db:"id"`
	UserID    int64       `db:"user_id"`
	GameID    string      `db:"game_id"`
	UserClass UserClass   `db:"user_class"`
	Stake     int64       `db:"stake"` // centavos
	Grid      []string    `db:"grid"`  // 9 symbol assignments, jsonb
	Won       bool        `db:"won"`
	Prize     int64       `db:"prize"` // centavos, 0 unless won
	Status    RoundStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
	SettledAt *time.Time  `db:"settled_at"`
}

// IsSettled returns true once the round's stake (and prize, if won) have
// been applied to the wallet
func (r *Round) IsSettled() bool {
	return r.Status == RoundStatusSettled
}

// Validate checks the generated-outcome invariants before persisting
func (r *Round) Validate() error {
	if r.Stake <= 0 {
		return errors.New("stake must be positive")
	}
	if len(r.Grid) != 9 {
		return errors.New("grid must have exactly 9 cells")
	}
	if r.Won && r.Prize <= 0 {
		return errors.New("won rounds must carry a positive prize")
	}
	if !r.Won && r.Prize != 0 {
		return errors.New("lost rounds cannot carry a prize")
	}
	return nil
}

// RoundResult is what settlement returns to the player
type RoundResult struct {
	RoundID    uuid.UUID `json:"round_id"`
	Grid       []string  `json:"grid"`
	Won        bool      `json:"won"`
	Prize      int64     `json:"prize"`
	NewBalance int64     `json:"new_balance"`
}
