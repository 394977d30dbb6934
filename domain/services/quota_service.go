package services

import (
	"context"
	"fmt"
	"time"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
)

// quotaService implements billing-period accounting for subscription quotas
type quotaService struct {
	quotaRepo interfaces.SubscriptionQuotaRepository
	now       func() time.Time
}

// NewQuotaService creates a new quota service
func NewQuotaService(quotaRepo interfaces.SubscriptionQuotaRepository) interfaces.QuotaService {
	return &quotaService{
		quotaRepo: quotaRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewQuotaServiceWithClock creates a quota service with a fixed clock for tests
func NewQuotaServiceWithClock(quotaRepo interfaces.SubscriptionQuotaRepository, now func() time.Time) interfaces.QuotaService {
	return &quotaService{
		quotaRepo: quotaRepo,
		now:       now,
	}
}

// ResetIfElapsed zeroes usage counters when the billing period rolled over.
// The check runs under the caller's transaction, immediately before any
// usage increment, so a rollover is never missed nor applied twice.
func (s *quotaService) ResetIfElapsed(ctx context.Context, quota *entities.SubscriptionQuota) error {
	now := s.now()

	if quota.LastReset == nil {
		quota.MonthlyUsed = 0
		quota.YearlyUsed = 0
		quota.LastReset = &now
		if err := s.quotaRepo.UpdateUsage(ctx, quota); err != nil {
			return fmt.Errorf("failed to initialize quota usage: %w", err)
		}
		return nil
	}

	last := quota.LastReset.UTC()

	switch quota.BillingCycle {
	case entities.BillingCycleMonthly:
		if now.Year() != last.Year() || now.Month() != last.Month() {
			quota.MonthlyUsed = 0
			quota.LastReset = &now
			if err := s.quotaRepo.UpdateUsage(ctx, quota); err != nil {
				return fmt.Errorf("failed to reset monthly quota usage: %w", err)
			}
		}
	case entities.BillingCycleYearly:
		if now.Year() != last.Year() {
			quota.YearlyUsed = 0
			quota.LastReset = &now
			if err := s.quotaRepo.UpdateUsage(ctx, quota); err != nil {
				return fmt.Errorf("failed to reset yearly quota usage: %w", err)
			}
		}
	}

	return nil
}
