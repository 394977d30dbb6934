package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// SubscriptionQuotaRepository implements the SubscriptionQuotaRepository interface
type SubscriptionQuotaRepository struct {
	q Queryable
}

// NewSubscriptionQuotaRepository creates a new subscription quota repository
func NewSubscriptionQuotaRepository(q Queryable) *SubscriptionQuotaRepository {
	return &SubscriptionQuotaRepository{q: q}
}

const quotaColumns = `id, user_id, plan_name, billing_cycle, entitlement, monthly_used, yearly_used, last_reset, is_active, end_date, created_at, updated_at`

func scanQuota(row pgx.Row) (*entities.SubscriptionQuota, error) {
	var q entities.SubscriptionQuota
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.PlanName,
		&q.BillingCycle,
		&q.Entitlement,
		&q.MonthlyUsed,
		&q.YearlyUsed,
		&q.LastReset,
		&q.IsActive,
		&q.EndDate,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetByID retrieves a quota by its ID
func (r *SubscriptionQuotaRepository) GetByID(ctx context.Context, id int64) (*entities.SubscriptionQuota, error) {
	query := `SELECT ` + quotaColumns + ` FROM subscription_quotas WHERE id = $1`

	quota, err := scanQuota(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription quota %d: %w", id, err)
	}

	return quota, nil
}

// GetByIDForUpdate retrieves a quota by ID with a row lock
func (r *SubscriptionQuotaRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.SubscriptionQuota, error) {
	query := `SELECT ` + quotaColumns + ` FROM subscription_quotas WHERE id = $1 FOR UPDATE`

	quota, err := scanQuota(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription quota %d for update: %w", id, err)
	}

	return quota, nil
}

// GetActiveByUserForUpdate returns the user's active quota locked for update,
// or nil if the user has no active subscription
func (r *SubscriptionQuotaRepository) GetActiveByUserForUpdate(ctx context.Context, userID int64) (*entities.SubscriptionQuota, error) {
	query := `
		SELECT ` + quotaColumns + `
		FROM subscription_quotas
		WHERE user_id = $1 AND is_active = true
		ORDER BY end_date DESC
		LIMIT 1
		FOR UPDATE
	`

	quota, err := scanQuota(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active quota for user %d: %w", userID, err)
	}

	return quota, nil
}

// UpdateUsage persists the usage counters and last-reset timestamp
func (r *SubscriptionQuotaRepository) UpdateUsage(ctx context.Context, quota *entities.SubscriptionQuota) error {
	query := `
		UPDATE subscription_quotas
		SET monthly_used = $2, yearly_used = $3, last_reset = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, quota.ID, quota.MonthlyUsed, quota.YearlyUsed, quota.LastReset)
	if err != nil {
		return fmt.Errorf("failed to update usage for quota %d: %w", quota.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription quota %d not found", quota.ID)
	}

	return nil
}
