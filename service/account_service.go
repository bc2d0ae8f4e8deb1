package service

import (
	"context"
	"fmt"

	"raspadinha/models"
)

type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{uowFactory: uowFactory}
}

// Summary reports a tier account's aggregates from the ledger: earned
// commissions, completed payouts, the withdrawable remainder, and the
// commission rows still pending. All figures come from one transaction so
// the snapshot is consistent.
func (s *accountService) Summary(ctx context.Context, accountID int64) (*models.AccountSummary, error) {
	var summary *models.AccountSummary
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.Accounts().GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get account %d: %w", accountID, err)
		}
		if account == nil || !account.Role.IsTier() {
			return ErrAccountNotFound
		}

		earned, err := uow.Ledger().SumByKind(ctx, accountID, models.EntryKindCommission)
		if err != nil {
			return fmt.Errorf("failed to sum commissions: %w", err)
		}
		paidOut, err := uow.Ledger().SumByKind(ctx, accountID, models.EntryKindPayout)
		if err != nil {
			return fmt.Errorf("failed to sum payouts: %w", err)
		}
		available, err := availableBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		pending, err := uow.Commissions().GetPendingByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to list pending commissions: %w", err)
		}

		summary = &models.AccountSummary{
			AccountID:          accountID,
			Earned:             earned,
			Paid:               -paidOut,
			Available:          available,
			PendingCommissions: pending,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
