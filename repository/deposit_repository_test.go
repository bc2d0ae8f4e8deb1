package repository

import (
	"context"
	"testing"
	"time"

	"raspadinha/models"
	"raspadinha/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRepository_MarkConfirmed(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("charge-1", 10, 10000)))

	t.Run("first confirmation wins", func(t *testing.T) {
		confirmed, err := repo.MarkConfirmed(ctx, "charge-1")
		require.NoError(t, err)
		assert.True(t, confirmed)

		deposit, err := repo.GetByID(ctx, "charge-1")
		require.NoError(t, err)
		require.NotNil(t, deposit)
		assert.Equal(t, models.DepositStatusConfirmed, deposit.Status)
		assert.NotNil(t, deposit.ConfirmedAt)
	})

	t.Run("repeat confirmation loses the gate", func(t *testing.T) {
		confirmed, err := repo.MarkConfirmed(ctx, "charge-1")
		require.NoError(t, err)
		assert.False(t, confirmed)
	})

	t.Run("unknown charge loses the gate", func(t *testing.T) {
		confirmed, err := repo.MarkConfirmed(ctx, "no-such-charge")
		require.NoError(t, err)
		assert.False(t, confirmed)
	})
}

func TestDepositRepository_CreatePending(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("charge-2", 10, 5000)))

	t.Run("re-reporting the charge keeps the original row", func(t *testing.T) {
		require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("charge-2", 10, 9999)))

		deposit, err := repo.GetByID(ctx, "charge-2")
		require.NoError(t, err)
		require.NotNil(t, deposit)
		assert.Equal(t, int64(5000), deposit.Amount)
	})
}

func TestDepositRepository_ListPending(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("old-1", 10, 1000)))
	require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("old-2", 11, 2000)))
	require.NoError(t, repo.CreatePending(ctx, testutil.CreateTestDeposit("done", 12, 3000)))
	_, err := repo.MarkConfirmed(ctx, "done")
	require.NoError(t, err)

	t.Run("returns only pending charges before the cutoff", func(t *testing.T) {
		deposits, err := repo.ListPending(ctx, time.Now().Add(time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, deposits, 2)
		assert.Equal(t, "old-1", deposits[0].ID)
		assert.Equal(t, "old-2", deposits[1].ID)
	})

	t.Run("cutoff in the past excludes fresh charges", func(t *testing.T) {
		deposits, err := repo.ListPending(ctx, time.Now().Add(-time.Hour), 10)
		require.NoError(t, err)
		assert.Empty(t, deposits)
	})

	t.Run("honors the limit", func(t *testing.T) {
		deposits, err := repo.ListPending(ctx, time.Now().Add(time.Minute), 1)
		require.NoError(t, err)
		assert.Len(t, deposits, 1)
	})
}
