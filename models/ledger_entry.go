package models

import (
	"errors"
	"time"
)

// EntryKind represents the type of a balance-affecting event
type EntryKind string

// All ledger entry kinds supported by the system
const (
	// Round settlement
	EntryKindStake EntryKind = "stake"
	EntryKindPrize EntryKind = "prize"

	// Deposits and referral earnings
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindCommission EntryKind = "commission"

	// Withdrawal completion
	EntryKindPayout EntryKind = "payout"
)

// IsCredit returns true if entries of this kind increase a balance
func (k EntryKind) IsCredit() bool {
	return k == EntryKindPrize || k == EntryKindDeposit || k == EntryKindCommission
}

// IsDebit returns true if entries of this kind decrease a balance
func (k EntryKind) IsDebit() bool {
	return k == EntryKindStake || k == EntryKindPayout
}

// String returns the string representation of the entry kind
func (k EntryKind) String() string {
	return string(k)
}

// LedgerEntry is an immutable, signed balance change record. The tuple
// (AccountID, Kind, ReferenceID) is the idempotency key: at most one entry
// may exist per account for a given kind and reference, enforced by a unique
// constraint in the store. An account's balance is the sum of its entries.
type LedgerEntry struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`
	Kind        EntryKind `db:"kind"`
	Amount      int64     `db:"amount"` // centavos, signed
	ReferenceID string    `db:"reference_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Validate performs basic consistency checks before the entry is written
func (e *LedgerEntry) Validate() error {
	if e.AccountID == 0 {
		return errors.New("account id is required")
	}
	if e.ReferenceID == "" {
		return errors.New("reference id is required")
	}
	if e.Amount == 0 {
		return errors.New("amount cannot be zero")
	}
	if e.Kind.IsCredit() && e.Amount < 0 {
		return errors.New("credit entries must have a positive amount")
	}
	if e.Kind.IsDebit() && e.Amount > 0 {
		return errors.New("debit entries must have a negative amount")
	}
	return nil
}
