package repository

import (
	"context"
	"fmt"
	"time"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TicketGrantRepository implements the TicketGrantRepository interface
type TicketGrantRepository struct {
	q Queryable
}

// NewTicketGrantRepository creates a new ticket grant repository
func NewTicketGrantRepository(q Queryable) *TicketGrantRepository {
	return &TicketGrantRepository{q: q}
}

const grantColumns = `id, user_id, giveaway_id, quantity, ticket_ids, source, payment_status, created_at, updated_at`

func scanGrant(row pgx.Row) (*entities.TicketGrant, error) {
	var g entities.TicketGrant
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.GiveawayID,
		&g.Quantity,
		&g.TicketIDs,
		&g.Source,
		&g.PaymentStatus,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create creates a new grant
func (r *TicketGrantRepository) Create(ctx context.Context, grant *entities.TicketGrant) error {
	query := `
		INSERT INTO ticket_grants (user_id, giveaway_id, quantity, ticket_ids, source, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		grant.UserID,
		grant.GiveawayID,
		grant.Quantity,
		grant.TicketIDs,
		grant.Source,
		grant.PaymentStatus,
	).Scan(&grant.ID, &grant.CreatedAt, &grant.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ticket grant for user %d: %w", grant.UserID, err)
	}

	return nil
}

// GetByID retrieves a grant by its ID
func (r *TicketGrantRepository) GetByID(ctx context.Context, id int64) (*entities.TicketGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM ticket_grants WHERE id = $1`

	grant, err := scanGrant(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket grant %d: %w", id, err)
	}

	return grant, nil
}

// GetUnconsumedByUserForUpdate returns the user's succeeded grants that still
// hold ticket identifiers, locked against concurrent consolidation
func (r *TicketGrantRepository) GetUnconsumedByUserForUpdate(ctx context.Context, userID int64) ([]*entities.TicketGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM ticket_grants
		WHERE user_id = $1 AND payment_status = 'succeeded' AND cardinality(ticket_ids) > 0
		ORDER BY created_at ASC
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unconsumed grants for user %d: %w", userID, err)
	}
	defer rows.Close()

	var grants []*entities.TicketGrant
	for rows.Next() {
		var g entities.TicketGrant
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.GiveawayID,
			&g.Quantity,
			&g.TicketIDs,
			&g.Source,
			&g.PaymentStatus,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket grant: %w", err)
		}
		grants = append(grants, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticket grants: %w", err)
	}

	return grants, nil
}

// UpdateTicketIDs writes back a grant's remaining ticket identifiers
func (r *TicketGrantRepository) UpdateTicketIDs(ctx context.Context, grantID int64, ticketIDs []string) error {
	query := `
		UPDATE ticket_grants
		SET ticket_ids = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, grantID, ticketIDs)
	if err != nil {
		return fmt.Errorf("failed to update ticket ids for grant %d: %w", grantID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket grant %d not found", grantID)
	}

	return nil
}

// UpdatePaymentStatus updates a grant's payment status
func (r *TicketGrantRepository) UpdatePaymentStatus(ctx context.Context, grantID int64, status entities.PaymentStatus) error {
	query := `
		UPDATE ticket_grants
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, grantID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status for grant %d: %w", grantID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket grant %d not found", grantID)
	}

	return nil
}

// ExistsForUser reports whether the user has any grant at all
func (r *TicketGrantRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ticket_grants WHERE user_id = $1)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check grants for user %d: %w", userID, err)
	}

	return exists, nil
}

// ExistsSubscriptionGrantSince reports whether the user already received a
// subscription grant at or after the given time
func (r *TicketGrantRepository) ExistsSubscriptionGrantSince(ctx context.Context, userID int64, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM ticket_grants
			WHERE user_id = $1 AND source = 'subscription' AND created_at >= $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription grants for user %d: %w", userID, err)
	}

	return exists, nil
}
