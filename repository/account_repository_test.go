package repository

import (
	"context"
	"testing"

	"raspadinha/models"
	"raspadinha/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetOrCreateWallet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates the wallet on first use", func(t *testing.T) {
		wallet, err := repo.GetOrCreateWallet(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, wallet)
		assert.Equal(t, int64(42), wallet.UserID)
		assert.Equal(t, models.RoleWallet, wallet.Role)
		assert.Equal(t, int64(0), wallet.Balance)
		assert.True(t, wallet.Active)
	})

	t.Run("returns the same wallet on repeat calls", func(t *testing.T) {
		first, err := repo.GetOrCreateWallet(ctx, 43)
		require.NoError(t, err)
		second, err := repo.GetOrCreateWallet(ctx, 43)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("a tier account does not shadow the wallet", func(t *testing.T) {
		_, err := repo.Create(ctx, 44, models.RoleAffiliate)
		require.NoError(t, err)

		wallet, err := repo.GetOrCreateWallet(ctx, 44)
		require.NoError(t, err)
		assert.Equal(t, models.RoleWallet, wallet.Role)
	})
}

func TestAccountRepository_DebitIfSufficient(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	wallet, err := repo.GetOrCreateWallet(ctx, 100)
	require.NoError(t, err)

	_, err = repo.ApplyChange(ctx, wallet.ID, 1000)
	require.NoError(t, err)

	t.Run("debits when the balance covers the amount", func(t *testing.T) {
		balance, ok, err := repo.DebitIfSufficient(ctx, wallet.ID, 400)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(600), balance)
	})

	t.Run("refuses a debit past zero", func(t *testing.T) {
		_, ok, err := repo.DebitIfSufficient(ctx, wallet.ID, 601)
		require.NoError(t, err)
		assert.False(t, ok)

		// Balance must be untouched after the refusal
		account, err := repo.GetByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(600), account.Balance)
	})

	t.Run("debit to exactly zero succeeds", func(t *testing.T) {
		balance, ok, err := repo.DebitIfSufficient(ctx, wallet.ID, 600)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(0), balance)
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found returns nil without error", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_Deactivate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.Create(ctx, 200, models.RoleAgent)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(ctx, account.ID))

	reloaded, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	t.Run("unknown account errors", func(t *testing.T) {
		assert.Error(t, repo.Deactivate(ctx, 999999))
	})
}
