package repository

import (
	"context"
	"testing"

	"raffler/domain/entities"
	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPoolRepository_UpsertReplacesContents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	userRepo := NewUserRepository(testDB.DB)
	user := testutil.CreateTestUser("pool@example.com")
	require.NoError(t, userRepo.Create(ctx, user))

	poolRepo := NewTicketPoolRepository(testDB.DB)

	missing, err := poolRepo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	pool := testutil.CreateTestPool(user.ID, user.Email, []string{"AAAA111111"})
	require.NoError(t, poolRepo.Upsert(ctx, pool))
	firstID := pool.ID

	// A second consolidation replaces the contents under the same row
	updated := testutil.CreateTestPool(user.ID, user.Email, []string{"AAAA111111", "BBBB222222"})
	require.NoError(t, poolRepo.Upsert(ctx, updated))
	assert.Equal(t, firstID, updated.ID)

	saved, err := poolRepo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, []string{"AAAA111111", "BBBB222222"}, saved.TicketIDs)
}

func TestTicketPoolRepository_ArchiveAndClear(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	userRepo := NewUserRepository(testDB.DB)
	alice := testutil.CreateTestUser("alice@example.com")
	require.NoError(t, userRepo.Create(ctx, alice))
	bob := testutil.CreateTestUser("bob@example.com")
	require.NoError(t, userRepo.Create(ctx, bob))

	poolRepo := NewTicketPoolRepository(testDB.DB)
	archiveRepo := NewPoolArchiveRepository(testDB.DB)

	alicePool := testutil.CreateTestPool(alice.ID, alice.Email, []string{"AAAA111111", "BBBB222222"})
	require.NoError(t, poolRepo.Upsert(ctx, alicePool))
	bobPool := testutil.CreateTestPool(bob.ID, bob.Email, []string{"CCCC333333"})
	require.NoError(t, poolRepo.Upsert(ctx, bobPool))

	ticketIDs, err := poolRepo.GetAllTicketIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAA111111", "BBBB222222", "CCCC333333"}, ticketIDs)

	pools, err := poolRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	archives := make([]*entities.PoolArchive, 0, len(pools))
	for _, p := range pools {
		archives = append(archives, &entities.PoolArchive{
			UserID:    p.UserID,
			Email:     p.Email,
			FullName:  p.FullName,
			TicketIDs: p.TicketIDs,
		})
	}
	require.NoError(t, archiveRepo.CreateBatch(ctx, archives))
	for _, a := range archives {
		assert.NotEqual(t, int64(0), a.ID)
		assert.False(t, a.ArchivedAt.IsZero())
	}

	count, err := archiveRepo.CountMatching(ctx, pools)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := poolRepo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := poolRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Archives survive the clear
	saved, err := archiveRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}
