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

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestQuotaService_ResetIfElapsed_FirstUse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	quotaRepo := new(testhelpers.MockSubscriptionQuotaRepository)
	service := NewQuotaServiceWithClock(quotaRepo, fixedClock(now))

	quota := &entities.SubscriptionQuota{
		ID:           1,
		UserID:       10,
		BillingCycle: entities.BillingCycleMonthly,
		Entitlement:  5,
		MonthlyUsed:  3,
		YearlyUsed:   2.5,
		LastReset:    nil,
	}

	quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)

	err := service.ResetIfElapsed(context.Background(), quota)
	require.NoError(t, err)

	assert.Equal(t, int64(0), quota.MonthlyUsed)
	assert.Equal(t, float64(0), quota.YearlyUsed)
	require.NotNil(t, quota.LastReset)
	assert.Equal(t, now, *quota.LastReset)
	quotaRepo.AssertExpectations(t)
}

func TestQuotaService_ResetIfElapsed_Monthly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		now       time.Time
		lastReset time.Time
		wantReset bool
	}{
		{
			name:      "same month no reset",
			now:       time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC),
			lastReset: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantReset: false,
		},
		{
			name:      "month rolled over",
			now:       time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			lastReset: time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC),
			wantReset: true,
		},
		{
			name:      "same month different year",
			now:       time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			lastReset: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			wantReset: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotaRepo := new(testhelpers.MockSubscriptionQuotaRepository)
			service := NewQuotaServiceWithClock(quotaRepo, fixedClock(tt.now))

			lastReset := tt.lastReset
			quota := &entities.SubscriptionQuota{
				ID:           1,
				UserID:       10,
				BillingCycle: entities.BillingCycleMonthly,
				Entitlement:  5,
				MonthlyUsed:  4,
				LastReset:    &lastReset,
			}

			if tt.wantReset {
				quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
			}

			err := service.ResetIfElapsed(context.Background(), quota)
			require.NoError(t, err)

			if tt.wantReset {
				assert.Equal(t, int64(0), quota.MonthlyUsed)
				assert.Equal(t, tt.now, *quota.LastReset)
			} else {
				assert.Equal(t, int64(4), quota.MonthlyUsed)
				assert.Equal(t, tt.lastReset, *quota.LastReset)
			}
			quotaRepo.AssertExpectations(t)
		})
	}
}

func TestQuotaService_ResetIfElapsed_Yearly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		now       time.Time
		lastReset time.Time
		wantReset bool
	}{
		{
			name:      "same year no reset",
			now:       time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			lastReset: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantReset: false,
		},
		{
			name:      "year rolled over",
			now:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			lastReset: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			wantReset: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotaRepo := new(testhelpers.MockSubscriptionQuotaRepository)
			service := NewQuotaServiceWithClock(quotaRepo, fixedClock(tt.now))

			lastReset := tt.lastReset
			quota := &entities.SubscriptionQuota{
				ID:           2,
				UserID:       11,
				BillingCycle: entities.BillingCycleYearly,
				Entitlement:  5,
				YearlyUsed:   7.5,
				LastReset:    &lastReset,
			}

			if tt.wantReset {
				quotaRepo.On("UpdateUsage", mock.Anything, quota).Return(nil)
			}

			err := service.ResetIfElapsed(context.Background(), quota)
			require.NoError(t, err)

			if tt.wantReset {
				assert.Equal(t, float64(0), quota.YearlyUsed)
			} else {
				assert.Equal(t, 7.5, quota.YearlyUsed)
			}
			quotaRepo.AssertExpectations(t)
		})
	}
}
