package service

import (
	"context"
	"time"

	"raspadinha/events"
	"raspadinha/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetWalletByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreateWallet(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, userID int64, role models.AccountRole) (*models.Account, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyChange(ctx context.Context, id int64, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) DebitIfSufficient(ctx context.Context, id int64, amount int64) (int64, bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Insert(ctx context.Context, entry *models.LedgerEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByKind(ctx context.Context, accountID int64, kind models.EntryKind) (int64, error) {
	args := m.Called(ctx, accountID, kind)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(ctx context.Context, round *models.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *MockRoundRepository) MarkSettled(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CreateTier(ctx context.Context, tier *models.ReferralTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockReferralRepository) GetTierByID(ctx context.Context, id int64) (*models.ReferralTier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralTier), args.Error(1)
}

func (m *MockReferralRepository) GetTierByUserID(ctx context.Context, userID int64) (*models.ReferralTier, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralTier), args.Error(1)
}

func (m *MockReferralRepository) BindPlayer(ctx context.Context, userID int64, tierID int64) error {
	args := m.Called(ctx, userID, tierID)
	return args.Error(0)
}

func (m *MockReferralRepository) GetChainForUser(ctx context.Context, userID int64) ([]*models.ReferralTier, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReferralTier), args.Error(1)
}

func (m *MockReferralRepository) DeactivateTier(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommissionRepository is a mock implementation of CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Create(ctx context.Context, record *models.CommissionRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionRepository) GetByDeposit(ctx context.Context, depositID string) ([]*models.CommissionRecord, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) GetPendingByAccount(ctx context.Context, accountID int64) ([]*models.CommissionRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) MarkPaidThrough(ctx context.Context, accountID int64, paidTotal int64) (int64, error) {
	args := m.Called(ctx, accountID, paidTotal)
	return args.Get(0).(int64), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) SumOpenByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) CreatePending(ctx context.Context, deposit *models.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*models.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDepositRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]*models.Deposit, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deposit), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Lifecycle calls go
// through testify expectations; repository accessors return whatever was
// installed via SetRepositories, and published events are collected on
// PublishedEvents for assertions.
type MockUnitOfWork struct {
	mock.Mock

	accountRepo    AccountRepository
	ledgerRepo     LedgerRepository
	roundRepo      RoundRepository
	referralRepo   ReferralRepository
	commissionRepo CommissionRepository
	withdrawalRepo WithdrawalRepository
	depositRepo    DepositRepository

	PublishedEvents []events.Event
}

// SetRepositories installs the repository mocks this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	accounts AccountRepository,
	ledger LedgerRepository,
	rounds RoundRepository,
	referrals ReferralRepository,
	commissions CommissionRepository,
	withdrawals WithdrawalRepository,
	deposits DepositRepository,
) {
	m.accountRepo = accounts
	m.ledgerRepo = ledger
	m.roundRepo = rounds
	m.referralRepo = referrals
	m.commissionRepo = commissions
	m.withdrawalRepo = withdrawals
	m.depositRepo = deposits
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Publish(event events.Event) {
	m.PublishedEvents = append(m.PublishedEvents, event)
}

func (m *MockUnitOfWork) Accounts() AccountRepository       { return m.accountRepo }
func (m *MockUnitOfWork) Ledger() LedgerRepository          { return m.ledgerRepo }
func (m *MockUnitOfWork) Rounds() RoundRepository           { return m.roundRepo }
func (m *MockUnitOfWork) Referrals() ReferralRepository     { return m.referralRepo }
func (m *MockUnitOfWork) Commissions() CommissionRepository { return m.commissionRepo }
func (m *MockUnitOfWork) Withdrawals() WithdrawalRepository { return m.withdrawalRepo }
func (m *MockUnitOfWork) Deposits() DepositRepository       { return m.depositRepo }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
