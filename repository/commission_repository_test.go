package repository

import (
	"context"
	"testing"

	"raspadinha/models"
	"raspadinha/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	depositRepo := NewDepositRepository(testDB.DB)
	repo := NewCommissionRepository(testDB.DB)
	ctx := context.Background()

	account, err := accountRepo.Create(ctx, 10, models.RoleAffiliate)
	require.NoError(t, err)
	require.NoError(t, depositRepo.CreatePending(ctx, testutil.CreateTestDeposit("dep-1", 99, 10000)))

	t.Run("first record per deposit and account applies", func(t *testing.T) {
		record := testutil.CreateTestCommission("dep-1", account.ID, "50", 5000)
		created, err := repo.Create(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, record.ID)
	})

	t.Run("duplicate record is refused silently", func(t *testing.T) {
		dup := testutil.CreateTestCommission("dep-1", account.ID, "50", 5000)
		created, err := repo.Create(ctx, dup)
		require.NoError(t, err)
		assert.False(t, created)

		records, err := repo.GetByDeposit(ctx, "dep-1")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestCommissionRepository_MarkPaidThrough(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	depositRepo := NewDepositRepository(testDB.DB)
	repo := NewCommissionRepository(testDB.DB)
	ctx := context.Background()

	account, err := accountRepo.Create(ctx, 20, models.RoleAgent)
	require.NoError(t, err)

	// Three commissions of 1000, 2000 and 3000 centavos, oldest first
	amounts := []int64{1000, 2000, 3000}
	for i, amount := range amounts {
		depositID := string(rune('a'+i)) + "-dep"
		require.NoError(t, depositRepo.CreatePending(ctx, testutil.CreateTestDeposit(depositID, 99, amount*10)))
		record := testutil.CreateTestCommission(depositID, account.ID, "10", amount)
		created, err := repo.Create(ctx, record)
		require.NoError(t, err)
		require.True(t, created)
	}

	t.Run("marks oldest records within the paid total", func(t *testing.T) {
		// 3000 covers the first two (1000 + 2000), not the third
		marked, err := repo.MarkPaidThrough(ctx, account.ID, 3000)
		require.NoError(t, err)
		assert.Equal(t, int64(2), marked)

		pending, err := repo.GetPendingByAccount(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, int64(3000), pending[0].Amount)
	})

	t.Run("re-running with the same total is a no-op", func(t *testing.T) {
		marked, err := repo.MarkPaidThrough(ctx, account.ID, 3000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), marked)
	})

	t.Run("a larger total catches the rest up", func(t *testing.T) {
		marked, err := repo.MarkPaidThrough(ctx, account.ID, 6000)
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		pending, err := repo.GetPendingByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("a total below the first record marks nothing", func(t *testing.T) {
		other, err := accountRepo.Create(ctx, 21, models.RoleManager)
		require.NoError(t, err)
		require.NoError(t, depositRepo.CreatePending(ctx, testutil.CreateTestDeposit("d-dep", 99, 10000)))
		record := testutil.CreateTestCommission("d-dep", other.ID, "5", 500)
		created, err := repo.Create(ctx, record)
		require.NoError(t, err)
		require.True(t, created)

		marked, err := repo.MarkPaidThrough(ctx, other.ID, 499)
		require.NoError(t, err)
		assert.Equal(t, int64(0), marked)
	})
}
