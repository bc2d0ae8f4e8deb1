package repository

import (
	"context"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"

	"github.com/jackc/pgx/v5"
)

// ReferralRepository implements the service.ReferralRepository interface
type ReferralRepository struct {
	q queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a new referral repository with a transaction
func newReferralRepositoryWithTx(tx queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

const tierColumns = `id, user_id, account_id, role, parent_id, commission_rate, active, created_at`

func scanTier(row pgx.Row) (*models.ReferralTier, error) {
	var t models.ReferralTier
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Role,
		&t.ParentID,
		&t.CommissionRate,
		&t.Active,
		&t.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTier persists a new tier and fills in its assigned id
func (r *ReferralRepository) CreateTier(ctx context.Context, tier *models.ReferralTier) error {
	query := `
		INSERT INTO referral_tiers (user_id, account_id, role, parent_id, commission_rate, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		tier.UserID,
		tier.AccountID,
		tier.Role,
		tier.ParentID,
		tier.CommissionRate,
		tier.Active,
	).Scan(&tier.ID, &tier.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s tier for user %d: %w", tier.Role, tier.UserID, err)
	}
	return nil
}

// GetTierByID retrieves a tier
func (r *ReferralRepository) GetTierByID(ctx context.Context, id int64) (*models.ReferralTier, error) {
	query := `SELECT ` + tierColumns + ` FROM referral_tiers WHERE id = $1`
	tier, err := scanTier(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get tier %d: %w", id, err)
	}
	return tier, nil
}

// GetTierByUserID retrieves the tier a user occupies, if any
func (r *ReferralRepository) GetTierByUserID(ctx context.Context, userID int64) (*models.ReferralTier, error) {
	query := `SELECT ` + tierColumns + ` FROM referral_tiers WHERE user_id = $1`
	tier, err := scanTier(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get tier for user %d: %w", userID, err)
	}
	return tier, nil
}

// BindPlayer links a player to an affiliate tier. The primary key on user_id
// makes the first binding win; later attempts are silently ignored.
func (r *ReferralRepository) BindPlayer(ctx context.Context, userID int64, tierID int64) error {
	query := `
		INSERT INTO referral_bindings (user_id, tier_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, userID, tierID); err != nil {
		return fmt.Errorf("failed to bind user %d to tier %d: %w", userID, tierID, err)
	}
	return nil
}

// GetChainForUser resolves the referral chain for a player by walking
// parent_id from the bound affiliate upward. Inactive tiers are filtered
// out but the walk continues past them, so an agent still earns when its
// affiliate was deactivated.
func (r *ReferralRepository) GetChainForUser(ctx context.Context, userID int64) ([]*models.ReferralTier, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT t.id, t.user_id, t.account_id, t.role, t.parent_id, t.commission_rate, t.active, t.created_at, 1 AS depth
			FROM referral_bindings b
			JOIN referral_tiers t ON t.id = b.tier_id
			WHERE b.user_id = $1
			UNION ALL
			SELECT p.id, p.user_id, p.account_id, p.role, p.parent_id, p.commission_rate, p.active, p.created_at, chain.depth + 1
			FROM referral_tiers p
			JOIN chain ON p.id = chain.parent_id
			WHERE chain.depth < 3
		)
		SELECT id, user_id, account_id, role, parent_id, commission_rate, active, created_at
		FROM chain
		WHERE active
		ORDER BY depth
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral chain for user %d: %w", userID, err)
	}
	defer rows.Close()

	var chain []*models.ReferralTier
	for rows.Next() {
		var t models.ReferralTier
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Role, &t.ParentID, &t.CommissionRate, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chain tier: %w", err)
		}
		chain = append(chain, &t)
	}
	return chain, rows.Err()
}

// DeactivateTier stops a tier from earning new commissions
func (r *ReferralRepository) DeactivateTier(ctx context.Context, id int64) error {
	query := `UPDATE referral_tiers SET active = FALSE WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate tier %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tier %d not found", id)
	}
	return nil
}
