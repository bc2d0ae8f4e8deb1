package service

import (
	"context"
	"testing"

	"raspadinha/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_GrantTier(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockReferralRepo := new(MockReferralRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockReferralRepo, nil, nil, nil)

	service := NewReferralService(mockFactory)

	agentTier := &models.ReferralTier{ID: 2, UserID: 20, AccountID: 12, Role: models.RoleAgent, Active: true}
	account := &models.Account{ID: 30, UserID: 300, Role: models.RoleAffiliate, Active: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockReferralRepo.On("GetTierByUserID", ctx, int64(300)).Return(nil, nil)
	mockReferralRepo.On("GetTierByID", ctx, int64(2)).Return(agentTier, nil)
	mockAccountRepo.On("Create", ctx, int64(300), models.RoleAffiliate).Return(account, nil)
	mockReferralRepo.On("CreateTier", ctx, mock.MatchedBy(func(tier *models.ReferralTier) bool {
		return tier.UserID == 300 && tier.AccountID == 30 && tier.Role == models.RoleAffiliate && tier.Active
	})).Return(nil)

	parentID := int64(2)
	tier, err := service.GrantTier(ctx, AdminActor(), 300, models.RoleAffiliate, &parentID, decimal.NewFromInt(50))

	assert.NoError(t, err)
	assert.NotNil(t, tier)
	assert.Len(t, mockUoW.PublishedEvents, 1)

	mockReferralRepo.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestReferralService_GrantTier_WrongParentRole(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockReferralRepo := new(MockReferralRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockReferralRepo, nil, nil, nil)

	service := NewReferralService(mockFactory)

	// An affiliate cannot hang under a manager directly
	managerTier := &models.ReferralTier{ID: 3, UserID: 30, AccountID: 13, Role: models.RoleManager, Active: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockReferralRepo.On("GetTierByUserID", ctx, int64(300)).Return(nil, nil)
	mockReferralRepo.On("GetTierByID", ctx, int64(3)).Return(managerTier, nil)

	parentID := int64(3)
	tier, err := service.GrantTier(ctx, AdminActor(), 300, models.RoleAffiliate, &parentID, decimal.NewFromInt(50))

	assert.Error(t, err)
	assert.Nil(t, tier)
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReferralService_GrantTier_UserAlreadyTiered(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockReferralRepo := new(MockReferralRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockReferralRepo, nil, nil, nil)

	service := NewReferralService(mockFactory)

	existing := &models.ReferralTier{ID: 4, UserID: 300, Role: models.RoleAgent, Active: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockReferralRepo.On("GetTierByUserID", ctx, int64(300)).Return(existing, nil)

	tier, err := service.GrantTier(ctx, AdminActor(), 300, models.RoleAffiliate, nil, decimal.NewFromInt(50))

	assert.Error(t, err)
	assert.Nil(t, tier)
}

func TestReferralService_GrantTier_RequiresAdmin(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewReferralService(mockFactory)

	player := Actor{UserID: 300, Role: "player"}

	tier, err := service.GrantTier(ctx, player, 300, models.RoleAffiliate, nil, decimal.NewFromInt(50))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, tier)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestReferralService_BindPlayer(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockReferralRepo := new(MockReferralRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockReferralRepo, nil, nil, nil)

	service := NewReferralService(mockFactory)

	affiliate := &models.ReferralTier{ID: 1, UserID: 10, AccountID: 11, Role: models.RoleAffiliate, Active: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockReferralRepo.On("GetTierByID", ctx, int64(1)).Return(affiliate, nil)
	mockReferralRepo.On("BindPlayer", ctx, int64(500), int64(1)).Return(nil)

	err := service.BindPlayer(ctx, 500, 1)

	assert.NoError(t, err)
	mockReferralRepo.AssertExpectations(t)
}

func TestReferralService_BindPlayer_InactiveAffiliate(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockReferralRepo := new(MockReferralRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockReferralRepo, nil, nil, nil)

	service := NewReferralService(mockFactory)

	inactive := &models.ReferralTier{ID: 1, UserID: 10, AccountID: 11, Role: models.RoleAffiliate, Active: false}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockReferralRepo.On("GetTierByID", ctx, int64(1)).Return(inactive, nil)

	err := service.BindPlayer(ctx, 500, 1)

	assert.Error(t, err)
	mockReferralRepo.AssertNotCalled(t, "BindPlayer", mock.Anything, mock.Anything, mock.Anything)
}
