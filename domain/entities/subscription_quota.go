package entities

import "time"

// BillingCycle is the recurrence of a subscription
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// SubscriptionQuota tracks how many free tickets an active subscription has
// claimed in the current billing period. One row per subscribed user.
//
// MonthlyUsed counts tickets and is clamped to Entitlement. YearlyUsed counts
// months of the yearly allotment and is clamped to 12; it is fractional
// because consolidation converts consumed tickets into a fraction of the
// twelve-month entitlement.
type SubscriptionQuota struct {
	ID           int64        `db:"id"`
	UserID       int64        `db:"user_id"`
	PlanName     string       `db:"plan_name"`
	BillingCycle BillingCycle `db:"billing_cycle"`
	Entitlement  int64        `db:"entitlement"`
	MonthlyUsed  int64        `db:"monthly_used"`
	YearlyUsed   float64      `db:"yearly_used"`
	LastReset    *time.Time   `db:"last_reset"`
	IsActive     bool         `db:"is_active"`
	EndDate      time.Time    `db:"end_date"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// IsCurrent reports whether the subscription is active and unexpired.
func (q *SubscriptionQuota) IsCurrent(now time.Time) bool {
	return q.IsActive && !now.After(q.EndDate)
}

// RecordUsage adds consumed tickets to the period counter for the quota's
// billing cycle, clamping at the period ceiling.
func (q *SubscriptionQuota) RecordUsage(consumed int) {
	switch q.BillingCycle {
	case BillingCycleMonthly:
		q.MonthlyUsed += int64(consumed)
		if q.MonthlyUsed > q.Entitlement {
			q.MonthlyUsed = q.Entitlement
		}
	case BillingCycleYearly:
		maxYearly := q.Entitlement * 12
		if maxYearly < 1 {
			maxYearly = 1
		}
		q.YearlyUsed += float64(consumed) / float64(maxYearly) * 12
		if q.YearlyUsed > 12 {
			q.YearlyUsed = 12
		}
	}
}
