package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TicketPoolRepository implements the TicketPoolRepository interface
type TicketPoolRepository struct {
	q Queryable
}

// NewTicketPoolRepository creates a new ticket pool repository
func NewTicketPoolRepository(q Queryable) *TicketPoolRepository {
	return &TicketPoolRepository{q: q}
}

// Upsert creates or replaces the user's pool contents. Consolidation always
// writes the complete deduplicated set, so replacement is safe.
func (r *TicketPoolRepository) Upsert(ctx context.Context, pool *entities.TicketPool) error {
	query := `
		INSERT INTO ticket_pools (user_id, email, full_name, ticket_ids)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = EXCLUDED.full_name,
		    ticket_ids = EXCLUDED.ticket_ids,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		pool.UserID,
		pool.Email,
		pool.FullName,
		pool.TicketIDs,
	).Scan(&pool.ID, &pool.CreatedAt, &pool.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert ticket pool for user %d: %w", pool.UserID, err)
	}

	return nil
}

// GetByUser retrieves the pool for a user, or nil if none exists
func (r *TicketPoolRepository) GetByUser(ctx context.Context, userID int64) (*entities.TicketPool, error) {
	query := `
		SELECT id, user_id, email, full_name, ticket_ids, created_at, updated_at
		FROM ticket_pools
		WHERE user_id = $1
	`

	var pool entities.TicketPool
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&pool.ID,
		&pool.UserID,
		&pool.Email,
		&pool.FullName,
		&pool.TicketIDs,
		&pool.CreatedAt,
		&pool.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket pool for user %d: %w", userID, err)
	}

	return &pool, nil
}

// GetAll returns every current pool ordered by user
func (r *TicketPoolRepository) GetAll(ctx context.Context) ([]*entities.TicketPool, error) {
	query := `
		SELECT id, user_id, email, full_name, ticket_ids, created_at, updated_at
		FROM ticket_pools
		ORDER BY user_id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket pools: %w", err)
	}
	defer rows.Close()

	var pools []*entities.TicketPool
	for rows.Next() {
		var pool entities.TicketPool
		err := rows.Scan(
			&pool.ID,
			&pool.UserID,
			&pool.Email,
			&pool.FullName,
			&pool.TicketIDs,
			&pool.CreatedAt,
			&pool.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket pool: %w", err)
		}
		pools = append(pools, &pool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticket pools: %w", err)
	}

	return pools, nil
}

// GetAllTicketIDs returns every ticket identifier across all pools
func (r *TicketPoolRepository) GetAllTicketIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT unnest(ticket_ids)
		FROM ticket_pools
		ORDER BY user_id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pooled ticket ids: %w", err)
	}
	defer rows.Close()

	var ticketIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ticket id: %w", err)
		}
		ticketIDs = append(ticketIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticket ids: %w", err)
	}

	return ticketIDs, nil
}

// DeleteAll clears every pool row, returning the number deleted
func (r *TicketPoolRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM ticket_pools`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ticket pools: %w", err)
	}

	return tag.RowsAffected(), nil
}
