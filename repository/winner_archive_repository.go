package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"
)

// WinnerArchiveRepository implements the WinnerArchiveRepository interface
type WinnerArchiveRepository struct {
	q Queryable
}

// NewWinnerArchiveRepository creates a new winner archive repository
func NewWinnerArchiveRepository(q Queryable) *WinnerArchiveRepository {
	return &WinnerArchiveRepository{q: q}
}

// CreateBatch writes archive copies for the given winners in a single insert.
// CreatedAt is carried over so the archive preserves the original draw time.
func (r *WinnerArchiveRepository) CreateBatch(ctx context.Context, archives []*entities.WinnerArchive) error {
	if len(archives) == 0 {
		return nil
	}

	query := `
		INSERT INTO winner_archives (giveaway_id, user_id, email, full_name, ticket_id, position, created_at)
		VALUES `

	values := make([]interface{}, 0, len(archives)*7)
	for i, archive := range archives {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 7
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4,
			paramOffset+5, paramOffset+6, paramOffset+7)
		values = append(values, archive.GiveawayID, archive.UserID, archive.Email,
			archive.FullName, archive.TicketID, archive.Position, archive.CreatedAt)
	}
	query += " RETURNING id, archived_at"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create winner archives: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&archives[i].ID, &archives[i].ArchivedAt); err != nil {
			return fmt.Errorf("failed to scan winner archive result: %w", err)
		}
		i++
	}

	return rows.Err()
}

// GetAll returns archived winners ordered by archival time descending
func (r *WinnerArchiveRepository) GetAll(ctx context.Context) ([]*entities.WinnerArchive, error) {
	query := `
		SELECT id, giveaway_id, user_id, email, full_name, ticket_id, position, created_at, archived_at
		FROM winner_archives
		ORDER BY archived_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner archives: %w", err)
	}
	defer rows.Close()

	var archives []*entities.WinnerArchive
	for rows.Next() {
		var archive entities.WinnerArchive
		err := rows.Scan(
			&archive.ID,
			&archive.GiveawayID,
			&archive.UserID,
			&archive.Email,
			&archive.FullName,
			&archive.TicketID,
			&archive.Position,
			&archive.CreatedAt,
			&archive.ArchivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner archive: %w", err)
		}
		archives = append(archives, &archive)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winner archives: %w", err)
	}

	return archives, nil
}
