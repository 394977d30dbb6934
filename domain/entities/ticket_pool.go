package entities

import "time"

// TicketPool is the consolidated, deduplicated set of one user's drawable
// tickets. Replaced by consolidation, cleared by the draw after archiving.
type TicketPool struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	TicketIDs []string  `db:"ticket_ids"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PoolArchive is an immutable snapshot of a TicketPool taken at clearing time.
type PoolArchive struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Email      string    `db:"email"`
	FullName   string    `db:"full_name"`
	TicketIDs  []string  `db:"ticket_ids"`
	ArchivedAt time.Time `db:"archived_at"`
}
