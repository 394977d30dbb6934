package services

import (
	"context"
	"testing"
	"time"

	"raffler/domain/entities"
	"raffler/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupConsolidationMocks() (
	*testhelpers.MockUserRepository,
	*testhelpers.MockTicketGrantRepository,
	*testhelpers.MockSubscriptionQuotaRepository,
	*testhelpers.MockTicketPoolRepository,
	*testhelpers.MockEventPublisher,
) {
	return new(testhelpers.MockUserRepository),
		new(testhelpers.MockTicketGrantRepository),
		new(testhelpers.MockSubscriptionQuotaRepository),
		new(testhelpers.MockTicketPoolRepository),
		new(testhelpers.MockEventPublisher)
}

func testUser(id int64) *entities.User {
	return &entities.User{
		ID:       id,
		Email:    "entrant@example.com",
		FullName: "Test Entrant",
	}
}

func monthlyQuota(userID int64, entitlement int64) *entities.SubscriptionQuota {
	lastReset := time.Now().UTC()
	return &entities.SubscriptionQuota{
		ID:           1,
		UserID:       userID,
		BillingCycle: entities.BillingCycleMonthly,
		Entitlement:  entitlement,
		LastReset:    &lastReset,
		IsActive:     true,
		EndDate:      time.Now().UTC().AddDate(0, 1, 0),
	}
}

func yearlyQuota(userID int64, entitlement int64) *entities.SubscriptionQuota {
	q := monthlyQuota(userID, entitlement)
	q.BillingCycle = entities.BillingCycleYearly
	return q
}

func newConsolidationForTest(
	userRepo *testhelpers.MockUserRepository,
	grantRepo *testhelpers.MockTicketGrantRepository,
	quotaRepo *testhelpers.MockSubscriptionQuotaRepository,
	poolRepo *testhelpers.MockTicketPoolRepository,
	publisher *testhelpers.MockEventPublisher,
) *consolidationService {
	quotaService := NewQuotaService(quotaRepo)
	return NewConsolidationService(userRepo, grantRepo, quotaRepo, poolRepo, quotaService, publisher).(*consolidationService)
}

func TestConsolidationService_ConsolidateUser_MonthlyTakesAll(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	grant := &entities.TicketGrant{
		ID:            100,
		UserID:        10,
		Quantity:      3,
		TicketIDs:     []string{"T1", "T2", "T3"},
		Source:        entities.GrantSourceSubscription,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
	quota := monthlyQuota(10, 5)

	userRepo.On("GetByID", mock.Anything, int64(10)).Return(testUser(10), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(10)).Return([]*entities.TicketGrant{grant}, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(10)).Return(quota, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(10)).Return(nil, nil)
	poolRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entities.TicketPool) bool {
		return p.UserID == 10 && len(p.TicketIDs) == 3
	})).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(100), []string{}).Return(nil)
	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	pool, err := service.ConsolidateUser(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, pool)

	assert.Equal(t, []string{"T1", "T2", "T3"}, pool.TicketIDs)
	assert.Equal(t, int64(3), quota.MonthlyUsed)

	userRepo.AssertExpectations(t)
	grantRepo.AssertExpectations(t)
	quotaRepo.AssertExpectations(t)
	poolRepo.AssertExpectations(t)
}

func TestConsolidationService_ConsolidateUser_YearlyInstallment(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	// 24 yearly tickets release 24/12 = 2 per pass.
	ids := make([]string, 24)
	for i := range ids {
		ids[i] = string(rune('A' + i))
	}
	grant := &entities.TicketGrant{
		ID:            101,
		UserID:        11,
		Quantity:      24,
		TicketIDs:     ids,
		Source:        entities.GrantSourceSubscription,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
	quota := yearlyQuota(11, 2)

	userRepo.On("GetByID", mock.Anything, int64(11)).Return(testUser(11), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(11)).Return([]*entities.TicketGrant{grant}, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(11)).Return(quota, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(11)).Return(nil, nil)
	poolRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entities.TicketPool) bool {
		return len(p.TicketIDs) == 2
	})).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(101), mock.MatchedBy(func(remaining []string) bool {
		return len(remaining) == 22
	})).Return(nil)
	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	pool, err := service.ConsolidateUser(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, pool)

	assert.Equal(t, ids[:2], pool.TicketIDs)
	// 2 consumed of a 24-ticket yearly entitlement is one month's worth.
	assert.InDelta(t, 1.0, quota.YearlyUsed, 0.0001)
}

func TestConsolidationService_ConsolidateUser_YearlySmallGrantReleasesOne(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	// A bonus grant of one ticket still releases it despite len/12 == 0.
	grant := &entities.TicketGrant{
		ID:            102,
		UserID:        12,
		Quantity:      1,
		TicketIDs:     []string{"BONUS"},
		Source:        entities.GrantSourceFirstTimeBonus,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
	quota := yearlyQuota(12, 1)

	userRepo.On("GetByID", mock.Anything, int64(12)).Return(testUser(12), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(12)).Return([]*entities.TicketGrant{grant}, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(12)).Return(quota, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(12)).Return(nil, nil)
	poolRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(102), []string{}).Return(nil)
	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	pool, err := service.ConsolidateUser(ctx, 12)
	require.NoError(t, err)
	require.NotNil(t, pool)
	assert.Equal(t, []string{"BONUS"}, pool.TicketIDs)
}

func TestConsolidationService_ConsolidateUser_DeduplicatesAcrossGrants(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	grants := []*entities.TicketGrant{
		{
			ID:            201,
			UserID:        13,
			TicketIDs:     []string{"X1", "X2"},
			Source:        entities.GrantSourcePurchase,
			PaymentStatus: entities.PaymentStatusSucceeded,
		},
		{
			ID:            202,
			UserID:        13,
			TicketIDs:     []string{"X2", "X3"},
			Source:        entities.GrantSourcePurchase,
			PaymentStatus: entities.PaymentStatusSucceeded,
		},
	}

	userRepo.On("GetByID", mock.Anything, int64(13)).Return(testUser(13), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(13)).Return(grants, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(13)).Return(nil, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(13)).Return(nil, nil)

	var pooled []string
	poolRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entities.TicketPool) bool {
		pooled = p.TicketIDs
		return true
	})).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(201), []string{}).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(202), []string{}).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	pool, err := service.ConsolidateUser(ctx, 13)
	require.NoError(t, err)
	require.NotNil(t, pool)

	// First-seen order, duplicate dropped.
	assert.Equal(t, []string{"X1", "X2", "X3"}, pooled)
}

func TestConsolidationService_ConsolidateUser_MergesIntoExistingPool(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	// An earlier pass already drained T1,T2 into the pool; a grant for T3
	// lands afterwards. The second pass must keep the undrawn tickets.
	existing := &entities.TicketPool{
		ID:        1,
		UserID:    16,
		TicketIDs: []string{"T1", "T2"},
	}
	grant := &entities.TicketGrant{
		ID:            401,
		UserID:        16,
		TicketIDs:     []string{"T3"},
		Source:        entities.GrantSourceSubscription,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
	quota := monthlyQuota(16, 5)
	quota.MonthlyUsed = 2

	userRepo.On("GetByID", mock.Anything, int64(16)).Return(testUser(16), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(16)).Return([]*entities.TicketGrant{grant}, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(16)).Return(quota, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(16)).Return(existing, nil)
	poolRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(401), []string{}).Return(nil)
	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	pool, err := service.ConsolidateUser(ctx, 16)
	require.NoError(t, err)
	require.NotNil(t, pool)

	assert.Equal(t, []string{"T1", "T2", "T3"}, pool.TicketIDs)
	// Only the newly drained ticket counts against the quota.
	assert.Equal(t, int64(3), quota.MonthlyUsed)
}

func TestConsolidationService_ConsolidateUser_NoGrantsIsNoop(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	userRepo.On("GetByID", mock.Anything, int64(14)).Return(testUser(14), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(14)).Return([]*entities.TicketGrant{}, nil)

	pool, err := service.ConsolidateUser(ctx, 14)
	require.NoError(t, err)
	assert.Nil(t, pool)

	poolRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	quotaRepo.AssertNotCalled(t, "UpdateUsage", mock.Anything, mock.Anything)
}

func TestConsolidationService_ConsolidateUser_MonthlyUsageClamped(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)
	ctx := context.Background()

	grant := &entities.TicketGrant{
		ID:            301,
		UserID:        15,
		TicketIDs:     []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8"},
		Source:        entities.GrantSourcePurchase,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
	quota := monthlyQuota(15, 5)

	userRepo.On("GetByID", mock.Anything, int64(15)).Return(testUser(15), nil)
	grantRepo.On("GetUnconsumedByUserForUpdate", mock.Anything, int64(15)).Return([]*entities.TicketGrant{grant}, nil)
	quotaRepo.On("GetActiveByUserForUpdate", mock.Anything, int64(15)).Return(quota, nil)
	poolRepo.On("GetByUser", mock.Anything, int64(15)).Return(nil, nil)
	poolRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(301), []string{}).Return(nil)
	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	_, err := service.ConsolidateUser(ctx, 15)
	require.NoError(t, err)

	// Usage never exceeds the entitlement.
	assert.Equal(t, int64(5), quota.MonthlyUsed)
}

func TestConsolidationService_EligibleTickets(t *testing.T) {
	t.Parallel()

	userRepo, grantRepo, quotaRepo, poolRepo, publisher := setupConsolidationMocks()
	service := newConsolidationForTest(userRepo, grantRepo, quotaRepo, poolRepo, publisher)

	poolRepo.On("GetAllTicketIDs", mock.Anything).Return([]string{"A", "B", "C"}, nil)

	ids, err := service.EligibleTickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}
