package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_Validate(t *testing.T) {
	valid := func() *LedgerEntry {
		return &LedgerEntry{
			AccountID:   1,
			Kind:        EntryKindDeposit,
			Amount:      1000,
			ReferenceID: "charge-1",
		}
	}

	t.Run("valid credit passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing account is rejected", func(t *testing.T) {
		e := valid()
		e.AccountID = 0
		assert.Error(t, e.Validate())
	})

	t.Run("missing reference is rejected", func(t *testing.T) {
		e := valid()
		e.ReferenceID = ""
		assert.Error(t, e.Validate())
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		e := valid()
		e.Amount = 0
		assert.Error(t, e.Validate())
	})

	t.Run("negative credit is rejected", func(t *testing.T) {
		e := valid()
		e.Kind = EntryKindPrize
		e.Amount = -500
		assert.Error(t, e.Validate())
	})

	t.Run("positive debit is rejected", func(t *testing.T) {
		e := valid()
		e.Kind = EntryKindStake
		e.Amount = 100
		assert.Error(t, e.Validate())
	})

	t.Run("negative debit passes", func(t *testing.T) {
		e := valid()
		e.Kind = EntryKindPayout
		e.Amount = -100
		assert.NoError(t, e.Validate())
	})
}

func TestEntryKind_Signs(t *testing.T) {
	for _, k := range []EntryKind{EntryKindPrize, EntryKindDeposit, EntryKindCommission} {
		assert.True(t, k.IsCredit(), "%s should be a credit", k)
		assert.False(t, k.IsDebit(), "%s should not be a debit", k)
	}
	for _, k := range []EntryKind{EntryKindStake, EntryKindPayout} {
		assert.True(t, k.IsDebit(), "%s should be a debit", k)
		assert.False(t, k.IsCredit(), "%s should not be a credit", k)
	}
}
