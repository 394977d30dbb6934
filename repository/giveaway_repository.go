package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GiveawayRepository implements the GiveawayRepository interface
type GiveawayRepository struct {
	q Queryable
}

// NewGiveawayRepository creates a new giveaway repository
func NewGiveawayRepository(q Queryable) *GiveawayRepository {
	return &GiveawayRepository{q: q}
}

const giveawayColumns = `id, code, title, price_cents, total_available, expires_at, is_active, created_at, updated_at`

func scanGiveaway(row pgx.Row) (*entities.Giveaway, error) {
	var g entities.Giveaway
	err := row.Scan(
		&g.ID,
		&g.Code,
		&g.Title,
		&g.PriceCents,
		&g.TotalAvailable,
		&g.ExpiresAt,
		&g.IsActive,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID retrieves a giveaway by its ID
func (r *GiveawayRepository) GetByID(ctx context.Context, id int64) (*entities.Giveaway, error) {
	query := `SELECT ` + giveawayColumns + ` FROM giveaways WHERE id = $1`

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway %d: %w", id, err)
	}

	return giveaway, nil
}

// GetByIDForUpdate retrieves a giveaway by ID with a row lock, serializing
// concurrent draws against the same giveaway
func (r *GiveawayRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Giveaway, error) {
	query := `SELECT ` + giveawayColumns + ` FROM giveaways WHERE id = $1 FOR UPDATE`

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway %d for update: %w", id, err)
	}

	return giveaway, nil
}

// GetOpenForUpdate returns the oldest open giveaway with a row lock, or nil
// if no giveaway is currently open
func (r *GiveawayRepository) GetOpenForUpdate(ctx context.Context) (*entities.Giveaway, error) {
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways
		WHERE is_active = true AND total_available > 0 AND expires_at >= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE
	`

	giveaway, err := scanGiveaway(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open giveaway: %w", err)
	}

	return giveaway, nil
}

// Create creates a new giveaway
func (r *GiveawayRepository) Create(ctx context.Context, giveaway *entities.Giveaway) error {
	query := `
		INSERT INTO giveaways (code, title, price_cents, total_available, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		giveaway.Code,
		giveaway.Title,
		giveaway.PriceCents,
		giveaway.TotalAvailable,
		giveaway.ExpiresAt,
		giveaway.IsActive,
	).Scan(&giveaway.ID, &giveaway.CreatedAt, &giveaway.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create giveaway %s: %w", giveaway.Code, err)
	}

	return nil
}

// DecrementCapacity reduces remaining capacity by quantity. The guard in the
// WHERE clause makes over-allocation impossible under concurrent grants.
func (r *GiveawayRepository) DecrementCapacity(ctx context.Context, id int64, quantity int64) error {
	query := `
		UPDATE giveaways
		SET total_available = total_available - $2, updated_at = NOW()
		WHERE id = $1 AND total_available >= $2
	`

	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement capacity for giveaway %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insufficient capacity for giveaway %d: requested %d", id, quantity)
	}

	return nil
}
