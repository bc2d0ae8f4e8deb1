package testutil

import (
	"raspadinha/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestEntry builds a ledger entry with the given idempotency key
func CreateTestEntry(accountID int64, kind models.EntryKind, amount int64, referenceID string) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		ReferenceID: referenceID,
	}
}

// CreateTestRound builds an unsettled round with a plausible losing grid
func CreateTestRound(userID int64, gameID string, stake int64) *models.Round {
	return &models.Round{
		ID:        uuid.New(),
		UserID:    userID,
		GameID:    gameID,
		UserClass: models.UserClassStandard,
		Stake:     stake,
		Grid:      []string{"cherry", "lemon", "grape", "lemon", "cherry", "melon", "grape", "melon", "orange"},
		Won:       false,
		Prize:     0,
		Status:    models.RoundStatusGenerated,
	}
}

// CreateTestTier builds a referral tier over an existing account
func CreateTestTier(userID, accountID int64, role models.AccountRole, parentID *int64, rate string) *models.ReferralTier {
	return &models.ReferralTier{
		UserID:         userID,
		AccountID:      accountID,
		Role:           role,
		ParentID:       parentID,
		CommissionRate: decimal.RequireFromString(rate),
		Active:         true,
	}
}

// CreateTestCommission builds a pending commission record
func CreateTestCommission(depositID string, accountID int64, rate string, amount int64) *models.CommissionRecord {
	return &models.CommissionRecord{
		DepositID: depositID,
		AccountID: accountID,
		Rate:      decimal.RequireFromString(rate),
		Amount:    amount,
		Status:    models.CommissionStatusPending,
	}
}

// CreateTestWithdrawal builds a pending withdrawal request
func CreateTestWithdrawal(accountID int64, amount int64) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		ID:          uuid.New(),
		AccountID:   accountID,
		Amount:      amount,
		Destination: "pix:test@example.com",
		Status:      models.WithdrawalStatusPending,
	}
}

// CreateTestDeposit builds a pending deposit for a provider charge id
func CreateTestDeposit(chargeID string, userID int64, amount int64) *models.Deposit {
	return &models.Deposit{
		ID:     chargeID,
		UserID: userID,
		Amount: amount,
		Status: models.DepositStatusPending,
	}
}
