package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RoundRepository implements the service.RoundRepository interface
type RoundRepository struct {
	q queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// newRoundRepositoryWithTx creates a new round repository with a transaction
func newRoundRepositoryWithTx(tx queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

// Create persists a freshly generated round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	gridJSON, err := json.Marshal(round.Grid)
	if err != nil {
		return fmt.Errorf("failed to marshal grid: %w", err)
	}

	query := `
		INSERT INTO rounds (id, user_id, game_id, user_class, stake, grid, won, prize, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = r.q.QueryRow(ctx, query,
		round.ID,
		round.UserID,
		round.GameID,
		round.UserClass,
		round.Stake,
		gridJSON,
		round.Won,
		round.Prize,
		round.Status,
	).Scan(&round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round %s: %w", round.ID, err)
	}
	return nil
}

// GetByID retrieves a round
func (r *RoundRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	query := `
		SELECT id, user_id, game_id, user_class, stake, grid, won, prize, status, created_at, settled_at
		FROM rounds
		WHERE id = $1
	`
	var round models.Round
	var gridJSON []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&round.ID,
		&round.UserID,
		&round.GameID,
		&round.UserClass,
		&round.Stake,
		&gridJSON,
		&round.Won,
		&round.Prize,
		&round.Status,
		&round.CreatedAt,
		&round.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %s: %w", id, err)
	}
	if err := json.Unmarshal(gridJSON, &round.Grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grid for round %s: %w", id, err)
	}
	return &round, nil
}

// MarkSettled flips a round to settled
func (r *RoundRepository) MarkSettled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE rounds
		SET status = $2, settled_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, id, models.RoundStatusSettled)
	if err != nil {
		return fmt.Errorf("failed to mark round %s settled: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round %s not found", id)
	}
	return nil
}
