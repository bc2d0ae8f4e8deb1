package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// CommissionRepository implements the service.CommissionRepository interface
type CommissionRepository struct {
	q queryable
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *database.DB) *CommissionRepository {
	return &CommissionRepository{q: db.Pool}
}

// newCommissionRepositoryWithTx creates a new commission repository with a transaction
func newCommissionRepositoryWithTx(tx queryable) *CommissionRepository {
	return &CommissionRepository{q: tx}
}

// Create inserts a record unless one already exists for (deposit, account).
// Mirrors the ledger's insert-if-absent contract so the cascade stays
// idempotent per deposit.
func (r *CommissionRepository) Create(ctx context.Context, record *models.CommissionRecord) (bool, error) {
	query := `
		INSERT INTO commission_records (deposit_id, account_id, rate, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (deposit_id, account_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		record.DepositID,
		record.AccountID,
		record.Rate,
		record.Amount,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create commission record for deposit %s: %w", record.DepositID, err)
	}
	return true, nil
}

const commissionColumns = `id, deposit_id, account_id, rate, amount, status, created_at`

func scanCommissions(rows pgx.Rows) ([]*models.CommissionRecord, error) {
	defer rows.Close()
	var records []*models.CommissionRecord
	for rows.Next() {
		var c models.CommissionRecord
		if err := rows.Scan(&c.ID, &c.DepositID, &c.AccountID, &c.Rate, &c.Amount, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan commission record: %w", err)
		}
		records = append(records, &c)
	}
	return records, rows.Err()
}

// GetByDeposit returns all records generated by one deposit
func (r *CommissionRepository) GetByDeposit(ctx context.Context, depositID string) ([]*models.CommissionRecord, error) {
	query := `
		SELECT ` + commissionColumns + `
		FROM commission_records
		WHERE deposit_id = $1
		ORDER BY id
	`
	rows, err := r.q.Query(ctx, query, depositID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commission records for deposit %s: %w", depositID, err)
	}
	return scanCommissions(rows)
}

// GetPendingByAccount returns an account's pending records, oldest first
func (r *CommissionRepository) GetPendingByAccount(ctx context.Context, accountID int64) ([]*models.CommissionRecord, error) {
	query := `
		SELECT ` + commissionColumns + `
		FROM commission_records
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at, id
	`
	rows, err := r.q.Query(ctx, query, accountID, models.CommissionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending commissions for account %d: %w", accountID, err)
	}
	return scanCommissions(rows)
}

// MarkPaidThrough reconciles commission statuses against the total already
// paid out: records are ordered oldest first and marked paid while their
// running total stays within paidTotal. Re-running with the same total is a
// no-op, so the reconciliation can follow every completed withdrawal.
func (r *CommissionRepository) MarkPaidThrough(ctx context.Context, accountID int64, paidTotal int64) (int64, error) {
	query := `
		WITH ordered AS (
			SELECT id, SUM(amount) OVER (ORDER BY created_at, id) AS running
			FROM commission_records
			WHERE account_id = $1
		)
		UPDATE commission_records c
		SET status = $3
		FROM ordered o
		WHERE c.id = o.id
		  AND o.running <= $2
		  AND c.status = $4
	`
	tag, err := r.q.Exec(ctx, query, accountID, paidTotal,
		models.CommissionStatusPaid, models.CommissionStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile commissions for account %d: %w", accountID, err)
	}
	return tag.RowsAffected(), nil
}
