package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(q Queryable) *UserRepository {
	return &UserRepository{q: q}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (email, full_name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, user.Email, user.FullName).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `
		SELECT id, email, full_name, created_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &user, nil
}

// GetIDsWithUnconsumedGrants returns the IDs of users holding at least one
// succeeded grant with undrained ticket identifiers
func (r *UserRepository) GetIDsWithUnconsumedGrants(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM ticket_grants
		WHERE payment_status = 'succeeded' AND cardinality(ticket_ids) > 0
		ORDER BY user_id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with unconsumed grants: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}

	return ids, nil
}
