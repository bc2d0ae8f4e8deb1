package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory) WithdrawalService {
	return &withdrawalService{uowFactory: uowFactory}
}

// Request creates a pending withdrawal when the tier account's available
// balance covers it. Available is recomputed under the account row lock:
// earned commissions minus completed payouts minus amounts already held by
// open requests, so concurrent requests cannot jointly overdraw.
func (s *withdrawalService) Request(ctx context.Context, accountID int64, amount int64, destination string) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}
	if destination == "" {
		return nil, fmt.Errorf("payout destination is required")
	}

	var request *models.WithdrawalRequest
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.Accounts().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %d: %w", accountID, err)
		}
		if account == nil || !account.Role.IsTier() {
			return ErrAccountNotFound
		}

		available, err := availableBalance(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if amount > available {
			return ErrInsufficientAvailableBalance
		}

		request = &models.WithdrawalRequest{
			ID:          uuid.New(),
			AccountID:   accountID,
			Amount:      amount,
			Destination: destination,
			Status:      models.WithdrawalStatusPending,
		}
		if err := uow.Withdrawals().Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create withdrawal: %w", err)
		}

		uow.Publish(events.WithdrawalStateChangedEvent{
			WithdrawalID: request.ID.String(),
			AccountID:    accountID,
			NewStatus:    models.WithdrawalStatusPending,
			Amount:       amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Transition moves a withdrawal through pending -> processing ->
// {completed, cancelled}. Only the transition into completed writes the
// payout ledger entry, exactly once per withdrawal id; cancelling releases
// the hold with no ledger write. Re-asserting the current state is a no-op.
func (s *withdrawalService) Transition(ctx context.Context, actor Actor, id uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if !target.IsValid() {
		return nil, ErrInvalidStateTransition
	}

	var request *models.WithdrawalRequest
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		w, err := uow.Withdrawals().GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock withdrawal %s: %w", id, err)
		}
		if w == nil {
			return ErrWithdrawalNotFound
		}

		if target == w.Status {
			// Duplicate transition requests are absorbed
			request = w
			return nil
		}
		if !w.CanTransitionTo(target) {
			return ErrInvalidStateTransition
		}

		if target == models.WithdrawalStatusCompleted {
			if err := s.applyPayout(ctx, uow, w); err != nil {
				return err
			}
		}

		if err := uow.Withdrawals().UpdateStatus(ctx, id, target); err != nil {
			return fmt.Errorf("failed to update withdrawal status: %w", err)
		}

		uow.Publish(events.WithdrawalStateChangedEvent{
			WithdrawalID: w.ID.String(),
			AccountID:    w.AccountID,
			OldStatus:    w.Status,
			NewStatus:    target,
			Amount:       w.Amount,
		})

		log.WithFields(log.Fields{
			"withdrawalId": w.ID,
			"accountId":    w.AccountID,
			"from":         w.Status,
			"to":           target,
		}).Info("Withdrawal transitioned")

		w.Status = target
		request = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// applyPayout writes the negative payout entry and reconciles commission
// records into paid, oldest first, within the account's total completed
// payouts. Both steps are idempotent: the entry is keyed by withdrawal id
// and the reconciliation cursor is derived from ledger sums.
func (s *withdrawalService) applyPayout(ctx context.Context, uow UnitOfWork, w *models.WithdrawalRequest) error {
	entry := &models.LedgerEntry{
		AccountID:   w.AccountID,
		Kind:        models.EntryKindPayout,
		Amount:      -w.Amount,
		ReferenceID: w.ID.String(),
	}
	inserted, err := uow.Ledger().Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert payout entry: %w", err)
	}
	if inserted {
		if _, err := uow.Accounts().ApplyChange(ctx, w.AccountID, -w.Amount); err != nil {
			return fmt.Errorf("failed to debit payout: %w", err)
		}
	}

	paidTotal, err := uow.Ledger().SumByKind(ctx, w.AccountID, models.EntryKindPayout)
	if err != nil {
		return fmt.Errorf("failed to sum payouts: %w", err)
	}
	if _, err := uow.Commissions().MarkPaidThrough(ctx, w.AccountID, -paidTotal); err != nil {
		return fmt.Errorf("failed to reconcile commissions: %w", err)
	}
	return nil
}

// availableBalance computes the withdrawable amount for a tier account:
// earned commissions minus completed payouts minus open withdrawal holds.
func availableBalance(ctx context.Context, uow UnitOfWork, accountID int64) (int64, error) {
	earned, err := uow.Ledger().SumByKind(ctx, accountID, models.EntryKindCommission)
	if err != nil {
		return 0, fmt.Errorf("failed to sum commissions: %w", err)
	}
	paidOut, err := uow.Ledger().SumByKind(ctx, accountID, models.EntryKindPayout)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payouts: %w", err)
	}
	holds, err := uow.Withdrawals().SumOpenByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum open withdrawals: %w", err)
	}
	// payout entries are negative, so adding them subtracts the paid total
	return earned + paidOut - holds, nil
}
