package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ReferralTier is one node of the affiliate -> agent -> manager chain.
// ParentID points one level up: an affiliate's parent is its agent, an
// agent's parent is its manager, a manager has none. The chain is a fixed
// depth-3 hierarchy, not a general tree.
//
// Each tier owns its earnings account and its own commission rate; rates are
// independent per tier, not a split of a single pool. Inactive tiers keep
// their historical commissions but earn no new ones.
type ReferralTier struct {
	ID             int64           `db:"id"`
	UserID         int64           `db:"user_id"`
	AccountID      int64           `db:"account_id"`
	Role           AccountRole     `db:"role"`
	ParentID       *int64          `db:"parent_id"`
	CommissionRate decimal.Decimal `db:"commission_rate"` // percentage, 0-100
	Active         bool            `db:"active"`
	CreatedAt      time.Time       `db:"created_at"`
}

// Validate checks tier invariants before persisting
func (t *ReferralTier) Validate() error {
	if !t.Role.IsTier() {
		return errors.New("referral tier role must be affiliate, agent or manager")
	}
	if t.CommissionRate.IsNegative() || t.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("commission rate must be between 0 and 100")
	}
	switch t.Role {
	case RoleManager:
		if t.ParentID != nil {
			return errors.New("managers cannot have a parent tier")
		}
	case RoleAffiliate, RoleAgent:
		// parent optional: an affiliate may be created without an agent
	}
	return nil
}

// CommissionFor computes this tier's cut of a deposit amount in centavos.
// The rate math runs in decimal to keep fractional-centavo rounding exact.
func (t *ReferralTier) CommissionFor(depositAmount int64) int64 {
	return decimal.NewFromInt(depositAmount).
		Mul(t.CommissionRate).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
