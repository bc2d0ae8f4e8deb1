package service

import (
	"context"
	"fmt"

	"raspadinha/events"
	"raspadinha/models"

	"github.com/shopspring/decimal"
)

type referralService struct {
	uowFactory UnitOfWorkFactory
}

// NewReferralService creates a new referral administration service
func NewReferralService(uowFactory UnitOfWorkFactory) ReferralService {
	return &referralService{uowFactory: uowFactory}
}

// tierParentRole maps each tier to the role its parent must hold
var tierParentRole = map[models.AccountRole]models.AccountRole{
	models.RoleAffiliate: models.RoleAgent,
	models.RoleAgent:     models.RoleManager,
}

// GrantTier creates a referral tier and its earnings account. The chain is
// a fixed depth-3 hierarchy: an affiliate may hang under an agent, an agent
// under a manager, and a manager stands alone.
func (s *referralService) GrantTier(ctx context.Context, actor Actor, userID int64, role models.AccountRole, parentID *int64, rate decimal.Decimal) (*models.ReferralTier, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var tier *models.ReferralTier
	err := runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		existing, err := uow.Referrals().GetTierByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check existing tier: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("user %d already occupies tier %s", userID, existing.Role)
		}

		if parentID != nil {
			want, ok := tierParentRole[role]
			if !ok {
				return fmt.Errorf("a %s cannot have a parent tier", role)
			}
			parent, err := uow.Referrals().GetTierByID(ctx, *parentID)
			if err != nil {
				return fmt.Errorf("failed to get parent tier: %w", err)
			}
			if parent == nil {
				return fmt.Errorf("parent tier %d not found", *parentID)
			}
			if parent.Role != want {
				return fmt.Errorf("a %s must hang under a %s, not a %s", role, want, parent.Role)
			}
		}

		account, err := uow.Accounts().Create(ctx, userID, role)
		if err != nil {
			return fmt.Errorf("failed to create earnings account: %w", err)
		}

		tier = &models.ReferralTier{
			UserID:         userID,
			AccountID:      account.ID,
			Role:           role,
			ParentID:       parentID,
			CommissionRate: rate,
			Active:         true,
		}
		if err := tier.Validate(); err != nil {
			return err
		}
		if err := uow.Referrals().CreateTier(ctx, tier); err != nil {
			return fmt.Errorf("failed to create tier: %w", err)
		}

		uow.Publish(events.AccountCreatedEvent{
			AccountID: account.ID,
			UserID:    userID,
			Role:      role,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

// BindPlayer attaches a player to an affiliate tier. The first binding
// wins; rebinding is silently ignored.
func (s *referralService) BindPlayer(ctx context.Context, userID int64, affiliateTierID int64) error {
	return runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		tier, err := uow.Referrals().GetTierByID(ctx, affiliateTierID)
		if err != nil {
			return fmt.Errorf("failed to get affiliate tier: %w", err)
		}
		if tier == nil || tier.Role != models.RoleAffiliate || !tier.Active {
			return fmt.Errorf("tier %d is not an active affiliate", affiliateTierID)
		}
		return uow.Referrals().BindPlayer(ctx, userID, affiliateTierID)
	})
}

// DeactivateTier stops a tier from earning. The earnings account stays
// active so accumulated commissions remain withdrawable.
func (s *referralService) DeactivateTier(ctx context.Context, actor Actor, tierID int64) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	return runInUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		tier, err := uow.Referrals().GetTierByID(ctx, tierID)
		if err != nil {
			return fmt.Errorf("failed to get tier: %w", err)
		}
		if tier == nil {
			return fmt.Errorf("tier %d not found", tierID)
		}
		return uow.Referrals().DeactivateTier(ctx, tierID)
	})
}
