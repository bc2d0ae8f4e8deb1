package models

import "time"

// DepositStatus is the processing state of a PIX charge
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusConfirmed DepositStatus = "confirmed"
	DepositStatusFailed    DepositStatus = "failed"
)

// Deposit is a PIX charge tracked locally. The id is the payment provider's
// charge identifier and keys the commission cascade: the pending -> confirmed
// transition happens exactly once no matter how many times the webhook or
// the poller reports the same charge.
type Deposit struct {
	ID          string        `db:"id"`
	UserID      int64         `db:"user_id"`
	Amount      int64         `db:"amount"` // centavos
	Status      DepositStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	ConfirmedAt *time.Time    `db:"confirmed_at"`
}

// IsConfirmed returns true once the charge has been paid and processed
func (d *Deposit) IsConfirmed() bool {
	return d.Status == DepositStatusConfirmed
}
