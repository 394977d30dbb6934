package entities

import "time"

// GrantSource identifies where a ticket grant came from
type GrantSource string

const (
	GrantSourcePurchase       GrantSource = "purchase"
	GrantSourceManual         GrantSource = "manual"
	GrantSourceSubscription   GrantSource = "subscription"
	GrantSourceFirstTimeBonus GrantSource = "first_time_bonus"
)

// PaymentStatus tracks the payment state of a grant
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// TicketGrant is one ledger entry of tickets issued to a user from a single
// source. Consolidation drains TicketIDs in place; grants are never deleted.
type TicketGrant struct {
	ID            int64         `db:"id"`
	UserID        int64         `db:"user_id"`
	GiveawayID    int64         `db:"giveaway_id"`
	Quantity      int64         `db:"quantity"`
	TicketIDs     []string      `db:"ticket_ids"`
	Source        GrantSource   `db:"source"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// IsFree reports whether the grant was issued without payment.
func (g *TicketGrant) IsFree() bool {
	return g.Source == GrantSourceSubscription || g.Source == GrantSourceFirstTimeBonus
}

// EligibleTicketIDs returns the identifiers this grant contributes to one
// consolidation pass. Subscription and bonus grants under a yearly billing
// cycle release a monthly installment of the yearly allotment; everything
// else contributes all remaining identifiers.
func (g *TicketGrant) EligibleTicketIDs(cycle BillingCycle) []string {
	if g.IsFree() && cycle == BillingCycleYearly {
		count := len(g.TicketIDs) / 12
		if count < 1 {
			count = 1
		}
		if count > len(g.TicketIDs) {
			count = len(g.TicketIDs)
		}
		return g.TicketIDs[:count]
	}
	return g.TicketIDs
}
