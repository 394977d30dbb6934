package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"
)

// PoolArchiveRepository implements the PoolArchiveRepository interface
type PoolArchiveRepository struct {
	q Queryable
}

// NewPoolArchiveRepository creates a new pool archive repository
func NewPoolArchiveRepository(q Queryable) *PoolArchiveRepository {
	return &PoolArchiveRepository{q: q}
}

// CreateBatch writes archive snapshots for the given pools in a single insert
func (r *PoolArchiveRepository) CreateBatch(ctx context.Context, archives []*entities.PoolArchive) error {
	if len(archives) == 0 {
		return nil
	}

	// Build batch insert query with parameterized values
	query := `
		INSERT INTO pool_archives (user_id, email, full_name, ticket_ids)
		VALUES `

	values := make([]interface{}, 0, len(archives)*4)
	for i, archive := range archives {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 4
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4)
		values = append(values, archive.UserID, archive.Email, archive.FullName, archive.TicketIDs)
	}
	query += " RETURNING id, archived_at"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create pool archives: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&archives[i].ID, &archives[i].ArchivedAt); err != nil {
			return fmt.Errorf("failed to scan pool archive result: %w", err)
		}
		i++
	}

	return rows.Err()
}

// CountMatching counts archive rows matching the given pools by owner and
// ticket-set identity. Used to confirm the archive write before the pools
// themselves are deleted.
func (r *PoolArchiveRepository) CountMatching(ctx context.Context, pools []*entities.TicketPool) (int64, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM pool_archives
			WHERE user_id = $1 AND ticket_ids = $2
		)
	`

	var count int64
	for _, pool := range pools {
		var exists bool
		if err := r.q.QueryRow(ctx, query, pool.UserID, pool.TicketIDs).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to confirm archive for user %d: %w", pool.UserID, err)
		}
		if exists {
			count++
		}
	}

	return count, nil
}

// GetAll returns archived pools ordered by archival time descending
func (r *PoolArchiveRepository) GetAll(ctx context.Context) ([]*entities.PoolArchive, error) {
	query := `
		SELECT id, user_id, email, full_name, ticket_ids, archived_at
		FROM pool_archives
		ORDER BY archived_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool archives: %w", err)
	}
	defer rows.Close()

	var archives []*entities.PoolArchive
	for rows.Next() {
		var archive entities.PoolArchive
		err := rows.Scan(
			&archive.ID,
			&archive.UserID,
			&archive.Email,
			&archive.FullName,
			&archive.TicketIDs,
			&archive.ArchivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool archive: %w", err)
		}
		archives = append(archives, &archive)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool archives: %w", err)
	}

	return archives, nil
}
