package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionStatus tracks whether a commission has been withdrawn yet
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// CommissionRecord is one row per (deposit, tier account). Created exactly
// once when a deposit confirms; its status moves to paid only through
// withdrawal reconciliation, never by direct edit.
type CommissionRecord struct {
	ID        int64            `db:"id" json:"id"`
	DepositID string           `db:"deposit_id" json:"deposit_id"`
	AccountID int64            `db:"account_id" json:"account_id"`
	Rate      decimal.Decimal  `db:"rate" json:"rate"`
	Amount    int64            `db:"amount" json:"amount"` // centavos
	Status    CommissionStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// IsPending returns true while the commission is still withdrawable
func (c *CommissionRecord) IsPending() bool {
	return c.Status == CommissionStatusPending
}
