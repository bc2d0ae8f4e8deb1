package models

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawalStatus is the state of a payout request
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusCancelled  WithdrawalStatus = "cancelled"
)

// IsTerminal returns true for states that accept no further transitions
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusCancelled
}

// IsValid returns true for known statuses
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusProcessing,
		WithdrawalStatusCompleted, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// WithdrawalRequest is a payout drawn against a tier account's available
// balance. Lifecycle: pending -> processing -> {completed, cancelled}, with
// processing optional. Only the transition into completed writes a ledger
// entry; it is applied exactly once per withdrawal id.
type WithdrawalRequest struct {
	ID          uuid.UUID        `db:"id"`
	AccountID   int64            `db:"account_id"`
	Amount      int64            `db:"amount"` // centavos
	Destination string           `db:"destination"`
	Status      WithdrawalStatus `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

// CanTransitionTo reports whether the state machine allows moving to target.
// Re-asserting the current state is allowed and treated as a no-op by the
// caller; anything else out of a terminal state is rejected.
func (w *WithdrawalRequest) CanTransitionTo(target WithdrawalStatus) bool {
	if target == w.Status {
		return true
	}
	switch w.Status {
	case WithdrawalStatusPending:
		return target == WithdrawalStatusProcessing ||
			target == WithdrawalStatusCompleted ||
			target == WithdrawalStatusCancelled
	case WithdrawalStatusProcessing:
		return target == WithdrawalStatusCompleted ||
			target == WithdrawalStatusCancelled
	}
	return false
}

// IsOpen returns true while the request still holds available balance
func (w *WithdrawalRequest) IsOpen() bool {
	return w.Status == WithdrawalStatusPending || w.Status == WithdrawalStatusProcessing
}
