package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"

	log "github.com/sirupsen/logrus"
)

type commissionService struct {
	uowFactory UnitOfWorkFactory
}

// NewCommissionService creates a new commission cascade service
func NewCommissionService(uowFactory UnitOfWorkFactory) CommissionService {
	return &commissionService{uowFactory: uowFactory}
}

// OnDepositConfirmed processes one confirmed PIX charge: credits the payer
// wallet, then walks the referral chain (affiliate, its agent, that agent's
// manager) and credits each active tier's earnings account. The deposit
// row's pending -> confirmed transition gates the whole cascade, so repeated
// notifications for the same deposit id are no-ops returning the records
// created the first time. Each tier's rate applies independently to the full
// deposit amount.
func (s *commissionService) OnDepositConfirmed(ctx context.Context, depositID string, payerUserID int64, amount int64) ([]*models.CommissionRecord, error) {
	if depositID == "" {
		return nil, fmt.Errorf("deposit id is required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	var records []*models.CommissionRecord
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		// The poller already tracks the charge; webhook-first deliveries
		// create the row here.
		deposit := &models.Deposit{
			ID:     depositID,
			UserID: payerUserID,
			Amount: amount,
			Status: models.DepositStatusPending,
		}
		if err := uow.Deposits().CreatePending(ctx, deposit); err != nil {
			return fmt.Errorf("failed to track deposit %s: %w", depositID, err)
		}

		confirmed, err := uow.Deposits().MarkConfirmed(ctx, depositID)
		if err != nil {
			return fmt.Errorf("failed to confirm deposit %s: %w", depositID, err)
		}
		if !confirmed {
			// Duplicate notification: return the prior result
			records, err = uow.Commissions().GetByDeposit(ctx, depositID)
			return err
		}

		if err := s.creditWallet(ctx, uow, depositID, payerUserID, amount); err != nil {
			return err
		}

		chain, err := uow.Referrals().GetChainForUser(ctx, payerUserID)
		if err != nil {
			return fmt.Errorf("failed to resolve referral chain for user %d: %w", payerUserID, err)
		}
		// No affiliate is not an error; the deposit simply earns nothing
		for _, tier := range chain {
			if err := s.creditTier(ctx, uow, depositID, amount, tier); err != nil {
				return err
			}
		}

		records, err = uow.Commissions().GetByDeposit(ctx, depositID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// creditWallet makes the deposited funds playable
func (s *commissionService) creditWallet(ctx context.Context, uow UnitOfWork, depositID string, userID int64, amount int64) error {
	wallet, err := uow.Accounts().GetOrCreateWallet(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	entry := &models.LedgerEntry{
		AccountID:   wallet.ID,
		Kind:        models.EntryKindDeposit,
		Amount:      amount,
		ReferenceID: depositID,
	}
	inserted, err := uow.Ledger().Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert deposit entry: %w", err)
	}
	if inserted {
		if _, err := uow.Accounts().ApplyChange(ctx, wallet.ID, amount); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
	}

	uow.Publish(events.DepositConfirmedEvent{
		DepositID: depositID,
		UserID:    userID,
		Amount:    amount,
	})
	return nil
}

// creditTier applies one tier's independent commission exactly once
func (s *commissionService) creditTier(ctx context.Context, uow UnitOfWork, depositID string, amount int64, tier *models.ReferralTier) error {
	cut := tier.CommissionFor(amount)
	if cut == 0 {
		return nil
	}

	entry := &models.LedgerEntry{
		AccountID:   tier.AccountID,
		Kind:        models.EntryKindCommission,
		Amount:      cut,
		ReferenceID: depositID,
	}
	inserted, err := uow.Ledger().Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert commission entry for account %d: %w", tier.AccountID, err)
	}
	if inserted {
		if _, err := uow.Accounts().ApplyChange(ctx, tier.AccountID, cut); err != nil {
			return fmt.Errorf("failed to credit commission: %w", err)
		}
	}

	record := &models.CommissionRecord{
		DepositID: depositID,
		AccountID: tier.AccountID,
		Rate:      tier.CommissionRate,
		Amount:    cut,
		Status:    models.CommissionStatusPending,
	}
	if _, err := uow.Commissions().Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create commission record: %w", err)
	}

	uow.Publish(events.CommissionEarnedEvent{
		DepositID: depositID,
		AccountID: tier.AccountID,
		Role:      tier.Role,
		Amount:    cut,
	})

	log.WithFields(log.Fields{
		"depositId": depositID,
		"accountId": tier.AccountID,
		"role":      tier.Role,
		"rate":      tier.CommissionRate,
		"amount":    cut,
	}).Info("Commission credited")

	return nil
}
