package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the service.LedgerRepository interface.
// The unique constraint on (account_id, kind, reference_id) is the sole
// idempotency mechanism for money motion.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Insert writes an entry unless its idempotency key already exists. The
// insert-if-absent is a single conditional write: no separate check phase.
func (r *LedgerRepository) Insert(ctx context.Context, entry *models.LedgerEntry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, fmt.Errorf("invalid ledger entry: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (account_id, kind, amount, reference_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, kind, reference_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Kind,
		entry.Amount,
		entry.ReferenceID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err == pgx.ErrNoRows {
		// Entry already applied for this reference
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert ledger entry for account %d: %w", entry.AccountID, err)
	}
	return true, nil
}

// GetByAccount returns recent entries for an account, newest first
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, kind, amount, reference_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// SumByKind returns the signed sum of an account's entries of one kind
func (r *LedgerRepository) SumByKind(ctx context.Context, accountID int64, kind models.EntryKind) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND kind = $2
	`
	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID, kind).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum %s entries for account %d: %w", kind, accountID, err)
	}
	return sum, nil
}
