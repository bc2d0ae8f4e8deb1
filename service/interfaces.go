package service

import (
	"context"
	"time"

	"raspadinha/events"
	"raspadinha/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines data access for balance-holding accounts
type AccountRepository interface {
	// GetByID retrieves an account by its id
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row for the
	// duration of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error)

	// GetWalletByUserID retrieves a user's wallet account
	GetWalletByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// GetOrCreateWallet retrieves a user's wallet, creating it on first use
	GetOrCreateWallet(ctx context.Context, userID int64) (*models.Account, error)

	// Create creates an account for a role grant
	Create(ctx context.Context, userID int64, role models.AccountRole) (*models.Account, error)

	// ApplyChange adjusts the cached balance and returns the new value.
	// Must only be called after the matching ledger entry was inserted.
	ApplyChange(ctx context.Context, id int64, delta int64) (int64, error)

	// DebitIfSufficient atomically debits amount when the balance covers it.
	// Returns the new balance and whether the debit was applied.
	DebitIfSufficient(ctx context.Context, id int64, amount int64) (int64, bool, error)

	// Deactivate flags an account inactive; accounts are never deleted
	Deactivate(ctx context.Context, id int64) error
}

// LedgerRepository defines access to the append-only ledger
type LedgerRepository interface {
	// Insert writes an entry if its idempotency key (account, kind,
	// reference) is absent. Returns false when the entry already exists.
	Insert(ctx context.Context, entry *models.LedgerEntry) (bool, error)

	// GetByAccount returns recent entries for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.LedgerEntry, error)

	// SumByKind returns the signed sum of an account's entries of one kind
	SumByKind(ctx context.Context, accountID int64, kind models.EntryKind) (int64, error)
}

// RoundRepository defines data access for scratch rounds
type RoundRepository interface {
	// Create persists a freshly generated round
	Create(ctx context.Context, round *models.Round) error

	// GetByID retrieves a round
	GetByID(ctx context.Context, id uuid.UUID) (*models.Round, error)

	// MarkSettled flips a round to settled
	MarkSettled(ctx context.Context, id uuid.UUID) error
}

// ReferralRepository defines data access for the referral hierarchy
type ReferralRepository interface {
	// CreateTier persists a new tier and returns it with ids assigned
	CreateTier(ctx context.Context, tier *models.ReferralTier) error

	// GetTierByID retrieves a tier
	GetTierByID(ctx context.Context, id int64) (*models.ReferralTier, error)

	// GetTierByUserID retrieves the tier a user occupies, if any
	GetTierByUserID(ctx context.Context, userID int64) (*models.ReferralTier, error)

	// BindPlayer links a player to an affiliate tier; first binding wins
	BindPlayer(ctx context.Context, userID int64, tierID int64) error

	// GetChainForUser resolves the referral chain for a player: affiliate
	// first, then its agent, then that agent's manager. Inactive tiers drop
	// out of the result but the walk continues past them; a missing binding
	// yields an empty chain.
	GetChainForUser(ctx context.Context, userID int64) ([]*models.ReferralTier, error)

	// DeactivateTier stops a tier from earning new commissions
	DeactivateTier(ctx context.Context, id int64) error
}

// CommissionRepository defines data access for commission records
type CommissionRepository interface {
	// Create inserts a record if none exists for (deposit, account).
	// Returns false on the duplicate.
	Create(ctx context.Context, record *models.CommissionRecord) (bool, error)

	// GetByDeposit returns all records generated by one deposit
	GetByDeposit(ctx context.Context, depositID string) ([]*models.CommissionRecord, error)

	// GetPendingByAccount returns an account's pending records, oldest first
	GetPendingByAccount(ctx context.Context, accountID int64) ([]*models.CommissionRecord, error)

	// MarkPaidThrough marks pending records paid, oldest first, while their
	// running total stays within paidTotal. Returns how many were marked.
	MarkPaidThrough(ctx context.Context, accountID int64, paidTotal int64) (int64, error)
}

// WithdrawalRepository defines data access for withdrawal requests
type WithdrawalRepository interface {
	// Create persists a new pending request
	Create(ctx context.Context, request *models.WithdrawalRequest) error

	// GetByID retrieves a request
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)

	// GetByIDForUpdate retrieves a request and locks its row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)

	// UpdateStatus moves a request to a new status
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus) error

	// SumOpenByAccount returns the total amount held by pending and
	// processing requests for an account
	SumOpenByAccount(ctx context.Context, accountID int64) (int64, error)
}

// DepositRepository defines data access for tracked PIX charges
type DepositRepository interface {
	// CreatePending records a charge if it is not yet known
	CreatePending(ctx context.Context, deposit *models.Deposit) error

	// GetByID retrieves a deposit
	GetByID(ctx context.Context, id string) (*models.Deposit, error)

	// MarkConfirmed transitions pending -> confirmed. Returns false when the
	// deposit was already confirmed or failed; this is the exactly-once gate
	// for the commission cascade.
	MarkConfirmed(ctx context.Context, id string) (bool, error)

	// ListPending returns pending deposits created before the cutoff
	ListPending(ctx context.Context, before time.Time, limit int) ([]*models.Deposit, error)
}

// UnitOfWork bundles the repositories over one database transaction and a
// transactional event publisher flushed on commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// Publish queues an event for emission after a successful commit
	Publish(event events.Event)

	Accounts() AccountRepository
	Ledger() LedgerRepository
	Rounds() RoundRepository
	Referrals() ReferralRepository
	Commissions() CommissionRepository
	Withdrawals() WithdrawalRepository
	Deposits() DepositRepository
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Actor is the authenticated caller of an operation. Authorization is an
// explicit parameter of each privileged operation, never ambient state.
type Actor struct {
	UserID int64
	Role   string
}

// AdminActor is the reviewer identity used by admin-authenticated requests
func AdminActor() Actor {
	return Actor{Role: "admin"}
}

// IsAdmin returns true for administrative reviewers
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

// GameService plays and settles scratch rounds
type GameService interface {
	// PlayRound generates and settles one round for a user
	PlayRound(ctx context.Context, userID int64, gameID string) (*models.RoundResult, error)

	// SettleRound replays settlement of an existing round; idempotent per
	// round id, never regenerates the outcome
	SettleRound(ctx context.Context, roundID uuid.UUID) (*models.RoundResult, error)
}

// CommissionService runs the deposit-confirmation cascade
type CommissionService interface {
	// OnDepositConfirmed credits the payer wallet and every eligible
	// referral tier exactly once for this deposit id
	OnDepositConfirmed(ctx context.Context, depositID string, payerUserID int64, amount int64) ([]*models.CommissionRecord, error)
}

// WithdrawalService operates the payout state machine
type WithdrawalService interface {
	// Request creates a pending withdrawal against available balance
	Request(ctx context.Context, accountID int64, amount int64, destination string) (*models.WithdrawalRequest, error)

	// Transition moves a request through the state machine; admin only
	Transition(ctx context.Context, actor Actor, id uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error)
}

// DepositService tracks provider charges locally
type DepositService interface {
	// Track records a freshly opened charge as a pending deposit; known
	// charges keep their original row
	Track(ctx context.Context, depositID string, userID int64, amount int64) (*models.Deposit, error)
}

// AccountService exposes aggregate account views
type AccountService interface {
	// Summary reports earned, paid and available balance for a tier account
	Summary(ctx context.Context, accountID int64) (*models.AccountSummary, error)
}

// ReferralService administers the referral hierarchy
type ReferralService interface {
	// GrantTier creates a tier (and its earnings account) for a user
	GrantTier(ctx context.Context, actor Actor, userID int64, role models.AccountRole, parentID *int64, rate decimal.Decimal) (*models.ReferralTier, error)

	// BindPlayer attaches a player to an affiliate; first binding wins
	BindPlayer(ctx context.Context, userID int64, affiliateTierID int64) error

	// DeactivateTier stops a tier from earning new commissions
	DeactivateTier(ctx context.Context, actor Actor, tierID int64) error
}
