package entities

import "time"

// Winner is one selected entry of a completed draw. (UserID, Position,
// GiveawayID) is unique, and a ticket identifier wins at most once per
// giveaway.
type Winner struct {
	ID         int64     `db:"id"`
	GiveawayID int64     `db:"giveaway_id"`
	UserID     int64     `db:"user_id"`
	Email      string    `db:"email"`
	FullName   string    `db:"full_name"`
	TicketID   string    `db:"ticket_id"`
	Position   string    `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}

// WinnerArchive is an immutable copy of a purged Winner. CreatedAt preserves
// the original draw time; ArchivedAt records the purge.
type WinnerArchive struct {
	ID         int64     `db:"id"`
	GiveawayID int64     `db:"giveaway_id"`
	UserID     int64     `db:"user_id"`
	Email      string    `db:"email"`
	FullName   string    `db:"full_name"`
	TicketID   string    `db:"ticket_id"`
	Position   string    `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
	ArchivedAt time.Time `db:"archived_at"`
}
