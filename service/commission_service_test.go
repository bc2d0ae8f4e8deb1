package service

import (
	"context"
	"testing"

	"raspadinha/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func chainOfThree() []*models.ReferralTier {
	agentID := int64(2)
	managerID := int64(3)
	return []*models.ReferralTier{
		{ID: 1, AccountID: 11, Role: models.RoleAffiliate, ParentID: &agentID, CommissionRate: decimal.NewFromInt(50), Active: true},
		{ID: 2, AccountID: 12, Role: models.RoleAgent, ParentID: &managerID, CommissionRate: decimal.NewFromInt(10), Active: true},
		{ID: 3, AccountID: 13, Role: models.RoleManager, CommissionRate: decimal.NewFromInt(5), Active: true},
	}
}

func TestCommissionService_OnDepositConfirmed_FullChain(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockReferralRepo := new(MockReferralRepository)
	mockCommissionRepo := new(MockCommissionRepository)
	mockDepositRepo := new(MockDepositRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockLedgerRepo, nil, mockReferralRepo, mockCommissionRepo, nil, mockDepositRepo)

	service := NewCommissionService(mockFactory)

	wallet := &models.Account{ID: 1, UserID: 100, Role: models.RoleWallet, Balance: 0}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("CreatePending", ctx, mock.MatchedBy(func(d *models.Deposit) bool {
		return d.ID == "charge-1" && d.UserID == 100 && d.Amount == 10000
	})).Return(nil)
	mockDepositRepo.On("MarkConfirmed", ctx, "charge-1").Return(true, nil)

	// Wallet credit
	mockAccountRepo.On("GetOrCreateWallet", ctx, int64(100)).Return(wallet, nil)
	mockLedgerRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == 1 && e.Kind == models.EntryKindDeposit && e.Amount == 10000 && e.ReferenceID == "charge-1"
	})).Return(true, nil)
	mockAccountRepo.On("ApplyChange", ctx, int64(1), int64(10000)).Return(int64(10000), nil)

	// Cascade: 50% / 10% / 5% of R$ 100.00, each independently
	mockReferralRepo.On("GetChainForUser", ctx, int64(100)).Return(chainOfThree(), nil)
	for _, tc := range []struct {
		accountID int64
		amount    int64
	}{{11, 5000}, {12, 1000}, {13, 500}} {
		accountID, amount := tc.accountID, tc.amount
		mockLedgerRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
			return e.AccountID == accountID && e.Kind == models.EntryKindCommission && e.Amount == amount
		})).Return(true, nil)
		mockAccountRepo.On("ApplyChange", ctx, accountID, amount).Return(amount, nil)
		mockCommissionRepo.On("Create", ctx, mock.MatchedBy(func(r *models.CommissionRecord) bool {
			return r.AccountID == accountID && r.Amount == amount && r.DepositID == "charge-1" && r.Status == models.CommissionStatusPending
		})).Return(true, nil)
	}

	createdRecords := []*models.CommissionRecord{
		{ID: 1, DepositID: "charge-1", AccountID: 11, Amount: 5000},
		{ID: 2, DepositID: "charge-1", AccountID: 12, Amount: 1000},
		{ID: 3, DepositID: "charge-1", AccountID: 13, Amount: 500},
	}
	mockCommissionRepo.On("GetByDeposit", ctx, "charge-1").Return(createdRecords, nil)

	records, err := service.OnDepositConfirmed(ctx, "charge-1", 100, 10000)

	assert.NoError(t, err)
	assert.Len(t, records, 3)
	// deposit confirmed + 3 commissions
	assert.Len(t, mockUoW.PublishedEvents, 4)

	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockReferralRepo.AssertExpectations(t)
	mockCommissionRepo.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
}

func TestCommissionService_OnDepositConfirmed_Duplicate(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockReferralRepo := new(MockReferralRepository)
	mockCommissionRepo := new(MockCommissionRepository)
	mockDepositRepo := new(MockDepositRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockLedgerRepo, nil, mockReferralRepo, mockCommissionRepo, nil, mockDepositRepo)

	service := NewCommissionService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("CreatePending", ctx, mock.AnythingOfType("*models.Deposit")).Return(nil)
	// The confirmation gate was already won by a previous notification
	mockDepositRepo.On("MarkConfirmed", ctx, "charge-1").Return(false, nil)

	prior := []*models.CommissionRecord{
		{ID: 1, DepositID: "charge-1", AccountID: 11, Amount: 5000},
	}
	mockCommissionRepo.On("GetByDeposit", ctx, "charge-1").Return(prior, nil)

	records, err := service.OnDepositConfirmed(ctx, "charge-1", 100, 10000)

	assert.NoError(t, err)
	assert.Len(t, records, 1)

	// No money moved and no events fired on the replay
	mockAccountRepo.AssertNotCalled(t, "GetOrCreateWallet", mock.Anything, mock.Anything)
	mockLedgerRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockReferralRepo.AssertNotCalled(t, "GetChainForUser", mock.Anything, mock.Anything)
	assert.Empty(t, mockUoW.PublishedEvents)
}

func TestCommissionService_OnDepositConfirmed_NoAffiliate(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockReferralRepo := new(MockReferralRepository)
	mockCommissionRepo := new(MockCommissionRepository)
	mockDepositRepo := new(MockDepositRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockLedgerRepo, nil, mockReferralRepo, mockCommissionRepo, nil, mockDepositRepo)

	service := NewCommissionService(mockFactory)

	wallet := &models.Account{ID: 1, UserID: 200, Role: models.RoleWallet}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("CreatePending", ctx, mock.AnythingOfType("*models.Deposit")).Return(nil)
	mockDepositRepo.On("MarkConfirmed", ctx, "charge-2").Return(true, nil)
	mockAccountRepo.On("GetOrCreateWallet", ctx, int64(200)).Return(wallet, nil)
	mockLedgerRepo.On("Insert", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(true, nil)
	mockAccountRepo.On("ApplyChange", ctx, int64(1), int64(5000)).Return(int64(5000), nil)

	// Unreferred player: the wallet still gets credited, nobody earns
	mockReferralRepo.On("GetChainForUser", ctx, int64(200)).Return([]*models.ReferralTier{}, nil)
	mockCommissionRepo.On("GetByDeposit", ctx, "charge-2").Return([]*models.CommissionRecord{}, nil)

	records, err := service.OnDepositConfirmed(ctx, "charge-2", 200, 5000)

	assert.NoError(t, err)
	assert.Empty(t, records)
	mockCommissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommissionService_OnDepositConfirmed_ZeroRateTierSkipped(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockReferralRepo := new(MockReferralRepository)
	mockCommissionRepo := new(MockCommissionRepository)
	mockDepositRepo := new(MockDepositRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockLedgerRepo, nil, mockReferralRepo, mockCommissionRepo, nil, mockDepositRepo)

	service := NewCommissionService(mockFactory)

	wallet := &models.Account{ID: 1, UserID: 300, Role: models.RoleWallet}
	zeroRate := []*models.ReferralTier{
		{ID: 9, AccountID: 19, Role: models.RoleAffiliate, CommissionRate: decimal.Zero, Active: true},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDepositRepo.On("CreatePending", ctx, mock.AnythingOfType("*models.Deposit")).Return(nil)
	mockDepositRepo.On("MarkConfirmed", ctx, "charge-3").Return(true, nil)
	mockAccountRepo.On("GetOrCreateWallet", ctx, int64(300)).Return(wallet, nil)
	mockLedgerRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Kind == models.EntryKindDeposit
	})).Return(true, nil)
	mockAccountRepo.On("ApplyChange", ctx, int64(1), int64(5000)).Return(int64(5000), nil)
	mockReferralRepo.On("GetChainForUser", ctx, int64(300)).Return(zeroRate, nil)
	mockCommissionRepo.On("GetByDeposit", ctx, "charge-3").Return([]*models.CommissionRecord{}, nil)

	records, err := service.OnDepositConfirmed(ctx, "charge-3", 300, 5000)

	assert.NoError(t, err)
	assert.Empty(t, records)
	// A zero cut writes neither a ledger entry nor a record
	mockCommissionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommissionService_OnDepositConfirmed_InvalidArguments(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewCommissionService(mockFactory)

	_, err := service.OnDepositConfirmed(ctx, "", 100, 10000)
	assert.Error(t, err)

	_, err = service.OnDepositConfirmed(ctx, "charge-1", 100, 0)
	assert.Error(t, err)

	_, err = service.OnDepositConfirmed(ctx, "charge-1", 100, -5)
	assert.Error(t, err)

	mockFactory.AssertNotCalled(t, "Create")
}
