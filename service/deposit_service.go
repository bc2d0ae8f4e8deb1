package service

import (
	"context"
	"fmt"

	"raspadinha/models"
)

type depositService struct {
	uowFactory UnitOfWorkFactory
}

// NewDepositService creates a new deposit tracking service
func NewDepositService(uowFactory UnitOfWorkFactory) DepositService {
	return &depositService{uowFactory: uowFactory}
}

// Track records a freshly opened provider charge as a pending deposit so
// the poller can reconcile it if the webhook never arrives. Re-tracking a
// known charge keeps the original row.
func (s *depositService) Track(ctx context.Context, depositID string, userID int64, amount int64) (*models.Deposit, error) {
	if depositID == "" {
		return nil, fmt.Errorf("deposit id is required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	var deposit *models.Deposit
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		d := &models.Deposit{
			ID:     depositID,
			UserID: userID,
			Amount: amount,
			Status: models.DepositStatusPending,
		}
		if err := uow.Deposits().CreatePending(ctx, d); err != nil {
			return err
		}
		var err error
		deposit, err = uow.Deposits().GetByID(ctx, depositID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}
