package entities

import "time"

// User represents a giveaway entrant
type User struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	CreatedAt time.Time `db:"created_at"`
}
