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

func setupAllocationMocks() (
	*testhelpers.MockTicketGrantRepository,
	*testhelpers.MockSubscriptionQuotaRepository,
	*testhelpers.MockGiveawayRepository,
	*testhelpers.MockEventPublisher,
) {
	return new(testhelpers.MockTicketGrantRepository),
		new(testhelpers.MockSubscriptionQuotaRepository),
		new(testhelpers.MockGiveawayRepository),
		new(testhelpers.MockEventPublisher)
}

func activeQuota(id, userID int64, cycle entities.BillingCycle, entitlement int64) *entities.SubscriptionQuota {
	return &entities.SubscriptionQuota{
		ID:           id,
		UserID:       userID,
		BillingCycle: cycle,
		Entitlement:  entitlement,
		IsActive:     true,
		EndDate:      time.Now().UTC().AddDate(1, 0, 0),
	}
}

func TestAllocationService_AllocateFreeTickets_MonthlyWithBonus(t *testing.T) {
	t.Parallel()

	grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
	service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)
	ctx := context.Background()

	quota := activeQuota(1, 10, entities.BillingCycleMonthly, 5)
	giveaway := openGiveaway(7)

	quotaRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(quota, nil)
	giveawayRepo.On("GetOpenForUpdate", mock.Anything).Return(giveaway, nil)
	grantRepo.On("ExistsForUser", mock.Anything, int64(10)).Return(false, nil)
	grantRepo.On("ExistsSubscriptionGrantSince", mock.Anything, int64(10), mock.Anything).Return(false, nil)

	grantRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *entities.TicketGrant) bool {
		return g.Source == entities.GrantSourceSubscription && g.Quantity == 5 && len(g.TicketIDs) == 5
	})).Return(nil).Once()
	grantRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *entities.TicketGrant) bool {
		return g.Source == entities.GrantSourceFirstTimeBonus && g.Quantity == 1
	})).Return(nil).Once()
	giveawayRepo.On("DecrementCapacity", mock.Anything, int64(7), int64(5)).Return(nil)
	giveawayRepo.On("DecrementCapacity", mock.Anything, int64(7), int64(1)).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.AllocateFreeTickets(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Standard)
	assert.Equal(t, 1, result.Bonus)
	assert.Equal(t, 6, result.Total)

	grantRepo.AssertExpectations(t)
	giveawayRepo.AssertExpectations(t)
}

func TestAllocationService_AllocateFreeTickets_MonthlyAlreadyAllocated(t *testing.T) {
	t.Parallel()

	grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
	service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)
	ctx := context.Background()

	quota := activeQuota(1, 10, entities.BillingCycleMonthly, 5)

	quotaRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(quota, nil)
	giveawayRepo.On("GetOpenForUpdate", mock.Anything).Return(openGiveaway(7), nil)
	grantRepo.On("ExistsForUser", mock.Anything, int64(10)).Return(true, nil)
	grantRepo.On("ExistsSubscriptionGrantSince", mock.Anything, int64(10), mock.Anything).Return(true, nil)

	result, err := service.AllocateFreeTickets(ctx, 1)
	require.NoError(t, err)

	// Nothing to allocate: not first-time, already granted this month.
	assert.Zero(t, result.Total)
	grantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAllocationService_AllocateFreeTickets_YearlyFullAllotment(t *testing.T) {
	t.Parallel()

	grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
	service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)
	ctx := context.Background()

	quota := activeQuota(2, 11, entities.BillingCycleYearly, 3)

	quotaRepo.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(quota, nil)
	giveawayRepo.On("GetOpenForUpdate", mock.Anything).Return(openGiveaway(7), nil)
	grantRepo.On("ExistsForUser", mock.Anything, int64(11)).Return(true, nil)
	grantRepo.On("ExistsSubscriptionGrantSince", mock.Anything, int64(11), mock.Anything).Return(false, nil)

	grantRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *entities.TicketGrant) bool {
		return g.Source == entities.GrantSourceSubscription && g.Quantity == 36 && len(g.TicketIDs) == 36
	})).Return(nil)
	giveawayRepo.On("DecrementCapacity", mock.Anything, int64(7), int64(36)).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.AllocateFreeTickets(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 36, result.Standard)
	assert.Zero(t, result.Bonus)
}

func TestAllocationService_AllocateFreeTickets_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMocks func(*testhelpers.MockTicketGrantRepository, *testhelpers.MockSubscriptionQuotaRepository, *testhelpers.MockGiveawayRepository)
		wantErr    error
	}{
		{
			name: "quota not found",
			setupMocks: func(g *testhelpers.MockTicketGrantRepository, q *testhelpers.MockSubscriptionQuotaRepository, gv *testhelpers.MockGiveawayRepository) {
				q.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(nil, nil)
			},
			wantErr: ErrQuotaNotFound,
		},
		{
			name: "quota expired",
			setupMocks: func(g *testhelpers.MockTicketGrantRepository, q *testhelpers.MockSubscriptionQuotaRepository, gv *testhelpers.MockGiveawayRepository) {
				quota := activeQuota(1, 10, entities.BillingCycleMonthly, 5)
				quota.EndDate = time.Now().UTC().AddDate(0, 0, -1)
				q.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(quota, nil)
			},
			wantErr: ErrQuotaNotFound,
		},
		{
			name: "no open giveaway",
			setupMocks: func(g *testhelpers.MockTicketGrantRepository, q *testhelpers.MockSubscriptionQuotaRepository, gv *testhelpers.MockGiveawayRepository) {
				q.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(activeQuota(1, 10, entities.BillingCycleMonthly, 5), nil)
				gv.On("GetOpenForUpdate", mock.Anything).Return(nil, nil)
			},
			wantErr: ErrGiveawayNotFound,
		},
		{
			name: "insufficient capacity",
			setupMocks: func(g *testhelpers.MockTicketGrantRepository, q *testhelpers.MockSubscriptionQuotaRepository, gv *testhelpers.MockGiveawayRepository) {
				q.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(activeQuota(1, 10, entities.BillingCycleMonthly, 5), nil)
				small := openGiveaway(7)
				small.TotalAvailable = 2
				gv.On("GetOpenForUpdate", mock.Anything).Return(small, nil)
				g.On("ExistsForUser", mock.Anything, int64(10)).Return(true, nil)
				g.On("ExistsSubscriptionGrantSince", mock.Anything, int64(10), mock.Anything).Return(false, nil)
			},
			wantErr: ErrInsufficientCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
			service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)
			tt.setupMocks(grantRepo, quotaRepo, giveawayRepo)

			result, err := service.AllocateFreeTickets(context.Background(), 1)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestAllocationService_ConfirmGrant(t *testing.T) {
	t.Parallel()

	grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
	service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)
	ctx := context.Background()

	grant := &entities.TicketGrant{
		ID:            50,
		UserID:        10,
		GiveawayID:    7,
		Quantity:      3,
		Source:        entities.GrantSourcePurchase,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}

	grantRepo.On("GetByID", mock.Anything, int64(50)).Return(grant, nil)
	giveawayRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).Return(openGiveaway(7), nil)
	giveawayRepo.On("DecrementCapacity", mock.Anything, int64(7), int64(3)).Return(nil)
	grantRepo.On("UpdateTicketIDs", mock.Anything, int64(50), mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 3
	})).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	confirmed, err := service.ConfirmGrant(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, confirmed.TicketIDs, 3)

	grantRepo.AssertExpectations(t)
}

func TestAllocationService_ConfirmGrant_PaymentPending(t *testing.T) {
	t.Parallel()

	grantRepo, quotaRepo, giveawayRepo, publisher := setupAllocationMocks()
	service := NewAllocationService(grantRepo, quotaRepo, giveawayRepo, publisher)

	grant := &entities.TicketGrant{
		ID:            51,
		GiveawayID:    7,
		Quantity:      1,
		PaymentStatus: entities.PaymentStatusPending,
	}
	grantRepo.On("GetByID", mock.Anything, int64(51)).Return(grant, nil)

	confirmed, err := service.ConfirmGrant(context.Background(), 51)
	require.ErrorIs(t, err, ErrPaymentNotSucceeded)
	assert.Nil(t, confirmed)

	giveawayRepo.AssertNotCalled(t, "DecrementCapacity", mock.Anything, mock.Anything, mock.Anything)
}
