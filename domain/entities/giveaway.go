package entities

import "time"

// Giveaway represents one giveaway with a finite ticket capacity
type Giveaway struct {
	ID             int64     `db:"id"`
	Code           string    `db:"code"`
	Title          string    `db:"title"`
	PriceCents     int64     `db:"price_cents"`
	TotalAvailable int64     `db:"total_available"`
	ExpiresAt      time.Time `db:"expires_at"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// IsOpen reports whether tickets can still be issued and draws run against
// this giveaway: active flag set, capacity remaining, and not expired.
func (g *Giveaway) IsOpen(now time.Time) bool {
	return g.IsActive && g.TotalAvailable > 0 && !now.After(g.ExpiresAt)
}
