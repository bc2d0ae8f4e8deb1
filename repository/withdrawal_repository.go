package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WithdrawalRepository implements the service.WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

const withdrawalColumns = `id, account_id, amount, destination, status, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := row.Scan(
		&w.ID,
		&w.AccountID,
		&w.Amount,
		&w.Destination,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persists a new pending request
func (r *WithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawal_requests (id, account_id, amount, destination, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		request.ID,
		request.AccountID,
		request.Amount,
		request.Destination,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal %s: %w", request.ID, err)
	}
	return nil
}

// GetByID retrieves a request
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal %s: %w", id, err)
	}
	return request, nil
}

// GetByIDForUpdate retrieves a request and locks its row so concurrent
// transitions of the same withdrawal serialize
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`
	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal %s: %w", id, err)
	}
	return request, nil
}

// UpdateStatus moves a request to a new status
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus) error {
	query := `
		UPDATE withdrawal_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %s to %s: %w", id, status, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %s not found", id)
	}
	return nil
}

// SumOpenByAccount returns the total held by pending and processing requests
func (r *WithdrawalRepository) SumOpenByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawal_requests
		WHERE account_id = $1 AND status IN ($2, $3)
	`
	var sum int64
	err := r.q.QueryRow(ctx, query, accountID,
		models.WithdrawalStatusPending, models.WithdrawalStatusProcessing).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum open withdrawals for account %d: %w", accountID, err)
	}
	return sum, nil
}
