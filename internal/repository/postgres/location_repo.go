package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// LocationRepo implements LocationRepository using PostgreSQL.
type LocationRepo struct{ db *DB }

// NewLocationRepo constructs a location repository.
func NewLocationRepo(db *DB) *LocationRepo { return &LocationRepo{db: db} }

const (
	insertLocationSQL = `INSERT INTO locations (id, board_id, name, lat, lng, created_by)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	locationsOfSQL = `SELECT id, board_id, name, lat, lng, created_by, created_at FROM locations
WHERE board_id=$1 ORDER BY created_at DESC, id`
	deleteLocationSQL = `DELETE FROM locations WHERE id=$1`
)

// Create inserts a location.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	err := r.db.Pool.QueryRow(ctx, insertLocationSQL, l.ID, l.BoardID, l.Name, l.Lat, l.Lng, l.CreatedBy).Scan(&l.CreatedAt)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// List returns a board's locations, newest first.
func (r *LocationRepo) List(ctx context.Context, boardID uuid.UUID) ([]model.Location, error) {
	rows, err := r.db.Pool.Query(ctx, locationsOfSQL, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes a location.
func (r *LocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteLocationSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanLocation(row pgx.Row) (model.Location, error) {
	var (
		l         model.Location
		createdBy *uuid.UUID
	)
	if err := row.Scan(&l.ID, &l.BoardID, &l.Name, &l.Lat, &l.Lng, &createdBy, &l.CreatedAt); err != nil {
		return model.Location{}, notFoundOnNoRows(err)
	}
	if createdBy != nil {
		l.CreatedBy = *createdBy
	}
	return l, nil
}
