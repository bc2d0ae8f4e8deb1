package models

import (
	"errors"
	"time"
)

// AccountRole identifies what kind of balance an account holds
type AccountRole string

const (
	// RoleWallet is a player's spendable wallet
	RoleWallet AccountRole = "wallet"

	// Referral tier earnings accounts
	RoleAffiliate AccountRole = "affiliate"
	RoleAgent     AccountRole = "agent"
	RoleManager   AccountRole = "manager"
)

// IsTier returns true if the role is a referral tier earnings account
func (r AccountRole) IsTier() bool {
	return r == RoleAffiliate || r == RoleAgent || r == RoleManager
}

// UserClass selects which outcome profile a player's rounds are drawn from
type UserClass string

const (
	UserClassStandard    UserClass = "standard"
	UserClassPromotional UserClass = "promotional"
)

// Account is any entity that can hold a balance: a player wallet or a
// referral tier's earnings record. Accounts are never deleted, only
// deactivated.
type Account struct {
	ID        int64       `db:"id"`
	UserID    int64       `db:"user_id"`
	Role      AccountRole `db:"role"`
	Balance   int64       `db:"balance"` // cached sum of ledger entries, centavos
	UserClass UserClass   `db:"user_class"`
	Active    bool        `db:"active"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// CanAfford checks if the account balance covers an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// ValidateStake checks that a stake amount can be debited from this account
func (a *Account) ValidateStake(amount int64) error {
	if amount <= 0 {
		return errors.New("stake must be positive")
	}
	if !a.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// AccountSummary is the aggregate view exposed for a tier account.
// All amounts are centavos.
type AccountSummary struct {
	AccountID          int64               `json:"account_id"`
	Earned             int64               `json:"earned"`
	Paid               int64               `json:"paid"`
	Available          int64               `json:"available"`
	PendingCommissions []*CommissionRecord `json:"pending_commissions"`
}
