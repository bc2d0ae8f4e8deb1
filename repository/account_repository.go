package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, user_id, role, balance, user_class, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Role,
		&a.Balance,
		&a.UserClass,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by its id
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row until the
// surrounding transaction ends. This is the per-account serialization
// point for balance-affecting operations.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return account, nil
}

// GetWalletByUserID retrieves a user's wallet account
func (r *AccountRepository) GetWalletByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND role = $2`
	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, models.RoleWallet))
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return account, nil
}

// GetOrCreateWallet retrieves a user's wallet, creating it on first use.
// The (user_id, role) unique constraint makes concurrent first-use safe.
func (r *AccountRepository) GetOrCreateWallet(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, userID, models.RoleWallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}
	wallet, err := r.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet for user %d missing after upsert", userID)
	}
	return wallet, nil
}

// Create creates an account for a role grant
func (r *AccountRepository) Create(ctx context.Context, userID int64, role models.AccountRole) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, role)
		VALUES ($1, $2)
		RETURNING ` + accountColumns
	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s account for user %d: %w", role, userID, err)
	}
	return account, nil
}

// ApplyChange adjusts the cached balance and returns the new value
func (r *AccountRepository) ApplyChange(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`
	var balance int64
	if err := r.q.QueryRow(ctx, query, id, delta).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to apply balance change to account %d: %w", id, err)
	}
	return balance, nil
}

// DebitIfSufficient atomically checks and debits in a single conditional
// update, so concurrent debits cannot both pass the check before either
// applies.
func (r *AccountRepository) DebitIfSufficient(ctx context.Context, id int64, amount int64) (int64, bool, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`
	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to debit account %d: %w", id, err)
	}
	return balance, true, nil
}

// Deactivate flags an account inactive; accounts are never deleted
func (r *AccountRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}
	return nil
}
