package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"
	"raspadinha/scratch"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	games      scratch.Config
	generator  *scratch.Generator
}

// NewGameService creates a new game service over a validated game catalog
func NewGameService(uowFactory UnitOfWorkFactory, games scratch.Config, generator *scratch.Generator) GameService {
	return &gameService{
		uowFactory: uowFactory,
		games:      games,
		generator:  generator,
	}
}

// PlayRound generates one round and settles it. Generation commits before
// settlement: if settlement fails the round stays generated and the client
// retries with the same round id, so the outcome is never redrawn for a
// stake that was already decided.
func (s *gameService) PlayRound(ctx context.Context, userID int64, gameID string) (*models.RoundResult, error) {
	game, ok := s.games.Game(gameID)
	if !ok {
		return nil, ErrUnknownGame
	}

	var round *models.Round
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		wallet, err := uow.Accounts().GetOrCreateWallet(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
		}

		outcome := s.generator.Generate(game, wallet.UserClass)
		round = &models.Round{
			ID:        uuid.New(),
			UserID:    userID,
			GameID:    game.ID,
			UserClass: wallet.UserClass,
			Stake:     game.Price,
			Grid:      outcome.Grid,
			Won:       outcome.Won,
			Prize:     outcome.Prize,
			Status:    models.RoundStatusGenerated,
		}
		if err := round.Validate(); err != nil {
			return fmt.Errorf("generated round is invalid: %w", err)
		}
		if err := uow.Rounds().Create(ctx, round); err != nil {
			return fmt.Errorf("failed to create round: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.settleByID(ctx, round.ID)
}

// SettleRound replays settlement of an existing round. Safe to call any
// number of times with the same round id.
func (s *gameService) SettleRound(ctx context.Context, roundID uuid.UUID) (*models.RoundResult, error) {
	return s.settleByID(ctx, roundID)
}

func (s *gameService) settleByID(ctx context.Context, roundID uuid.UUID) (*models.RoundResult, error) {
	var result *models.RoundResult
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		round, err := uow.Rounds().GetByID(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to get round %s: %w", roundID, err)
		}
		if round == nil {
			return ErrRoundNotFound
		}

		result, err = s.settle(ctx, uow, round)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settle applies a round's outcome to the wallet exactly once. The stake
// entry's insert-if-absent doubles as the settled check: a duplicate means
// a previous settlement already went through, and the current balance is
// returned without reapplying anything.
func (s *gameService) settle(ctx context.Context, uow UnitOfWork, round *models.Round) (*models.RoundResult, error) {
	wallet, err := uow.Accounts().GetWalletByUserID(ctx, round.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", round.UserID, err)
	}
	if wallet == nil {
		return nil, ErrAccountNotFound
	}

	stakeEntry := &models.LedgerEntry{
		AccountID:   wallet.ID,
		Kind:        models.EntryKindStake,
		Amount:      -round.Stake,
		ReferenceID: round.ID.String(),
	}
	inserted, err := uow.Ledger().Insert(ctx, stakeEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stake entry: %w", err)
	}
	if !inserted {
		// Already settled; safe retry returns the prior result
		return &models.RoundResult{
			RoundID:    round.ID,
			Grid:       round.Grid,
			Won:        round.Won,
			Prize:      round.Prize,
			NewBalance: wallet.Balance,
		}, nil
	}

	newBalance, ok, err := uow.Accounts().DebitIfSufficient(ctx, wallet.ID, round.Stake)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}
	if !ok {
		// Rollback removes the stake entry; the round stays generated
		return nil, ErrInsufficientFunds
	}

	if round.Won {
		prizeEntry := &models.LedgerEntry{
			AccountID:   wallet.ID,
			Kind:        models.EntryKindPrize,
			Amount:      round.Prize,
			ReferenceID: round.ID.String(),
		}
		if _, err := uow.Ledger().Insert(ctx, prizeEntry); err != nil {
			return nil, fmt.Errorf("failed to insert prize entry: %w", err)
		}
		newBalance, err = uow.Accounts().ApplyChange(ctx, wallet.ID, round.Prize)
		if err != nil {
			return nil, fmt.Errorf("failed to credit prize: %w", err)
		}
	}

	if err := uow.Rounds().MarkSettled(ctx, round.ID); err != nil {
		return nil, fmt.Errorf("failed to mark round settled: %w", err)
	}

	uow.Publish(events.RoundSettledEvent{
		RoundID:    round.ID.String(),
		UserID:     round.UserID,
		Stake:      round.Stake,
		Won:        round.Won,
		Prize:      round.Prize,
		NewBalance: newBalance,
	})

	log.WithFields(log.Fields{
		"roundId": round.ID,
		"userId":  round.UserID,
		"won":     round.Won,
		"prize":   round.Prize,
	}).Info("Round settled")

	return &models.RoundResult{
		RoundID:    round.ID,
		Grid:       round.Grid,
		Won:        round.Won,
		Prize:      round.Prize,
		NewBalance: newBalance,
	}, nil
}
