package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"
)

// WinnerRepository implements the WinnerRepository interface
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(q Queryable) *WinnerRepository {
	return &WinnerRepository{q: q}
}

// Create creates a new winner record
func (r *WinnerRepository) Create(ctx context.Context, winner *entities.Winner) error {
	query := `
		INSERT INTO winners (giveaway_id, user_id, email, full_name, ticket_id, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.GiveawayID,
		winner.UserID,
		winner.Email,
		winner.FullName,
		winner.TicketID,
		winner.Position,
	).Scan(&winner.ID, &winner.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create winner for user %d in giveaway %d: %w", winner.UserID, winner.GiveawayID, err)
	}

	return nil
}

// GetAll returns all current winners, most recent first
func (r *WinnerRepository) GetAll(ctx context.Context) ([]*entities.Winner, error) {
	query := `
		SELECT id, giveaway_id, user_id, email, full_name, ticket_id, position, created_at
		FROM winners
		ORDER BY created_at DESC, id DESC
	`

	return r.queryWinners(ctx, query)
}

// GetByGiveaway returns winners for a giveaway in selection order
func (r *WinnerRepository) GetByGiveaway(ctx context.Context, giveawayID int64) ([]*entities.Winner, error) {
	query := `
		SELECT id, giveaway_id, user_id, email, full_name, ticket_id, position, created_at
		FROM winners
		WHERE giveaway_id = $1
		ORDER BY id ASC
	`

	return r.queryWinners(ctx, query, giveawayID)
}

func (r *WinnerRepository) queryWinners(ctx context.Context, query string, args ...any) ([]*entities.Winner, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get winners: %w", err)
	}
	defer rows.Close()

	var winners []*entities.Winner
	for rows.Next() {
		var winner entities.Winner
		err := rows.Scan(
			&winner.ID,
			&winner.GiveawayID,
			&winner.UserID,
			&winner.Email,
			&winner.FullName,
			&winner.TicketID,
			&winner.Position,
			&winner.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &winner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winners: %w", err)
	}

	return winners, nil
}

// DeleteAll removes every winner row, returning the number deleted
func (r *WinnerRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM winners`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete winners: %w", err)
	}

	return tag.RowsAffected(), nil
}
