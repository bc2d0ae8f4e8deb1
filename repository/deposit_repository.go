package repository

import (
	"context"
	"fmt"
	"time"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the service.DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepositoryWithTx creates a new deposit repository with a transaction
func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// CreatePending records a charge if it is not yet known. The webhook and
// the poller can both report the same charge; the first write wins.
func (r *DepositRepository) CreatePending(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (id, user_id, amount, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.q.Exec(ctx, query,
		deposit.ID,
		deposit.UserID,
		deposit.Amount,
		models.DepositStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to record deposit %s: %w", deposit.ID, err)
	}
	return nil
}

// GetByID retrieves a deposit
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	query := `
		SELECT id, user_id, amount, status, created_at, confirmed_at
		FROM deposits
		WHERE id = $1
	`
	var d models.Deposit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Amount,
		&d.Status,
		&d.CreatedAt,
		&d.ConfirmedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit %s: %w", id, err)
	}
	return &d, nil
}

// MarkConfirmed transitions pending -> confirmed with a conditional update.
// Exactly one caller wins the transition; everyone else gets false and must
// not run the commission cascade.
func (r *DepositRepository) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE deposits
		SET status = $2, confirmed_at = NOW()
		WHERE id = $1 AND status = $3
	`
	tag, err := r.q.Exec(ctx, query, id,
		models.DepositStatusConfirmed, models.DepositStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to confirm deposit %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending returns pending deposits created before the cutoff, oldest
// first, for the reconciliation poller
func (r *DepositRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]*models.Deposit, error) {
	query := `
		SELECT id, user_id, amount, status, created_at, confirmed_at
		FROM deposits
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`
	rows, err := r.q.Query(ctx, query, models.DepositStatusPending, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*models.Deposit
	for rows.Next() {
		var d models.Deposit
		if err := rows.Scan(&d.ID, &d.UserID, &d.Amount, &d.Status, &d.CreatedAt, &d.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, &d)
	}
	return deposits, rows.Err()
}
