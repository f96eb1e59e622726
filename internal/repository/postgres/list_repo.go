package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// ListRepo implements ListRepository using PostgreSQL.
type ListRepo struct{ db *DB }

// NewListRepo constructs a list repository.
func NewListRepo(db *DB) *ListRepo { return &ListRepo{db: db} }

const (
	insertListSQL = `INSERT INTO lists (id, board_id, title, color, position) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	listByIDSQL   = `SELECT id, board_id, title, color, position, created_at FROM lists WHERE id=$1`
	listsOfSQL    = `SELECT id, board_id, title, color, position, created_at FROM lists WHERE board_id=$1 ORDER BY position, created_at, id`
	updateListSQL = `UPDATE lists SET title=$2, color=$3 WHERE id=$1 RETURNING id, board_id, title, color, position, created_at`
	deleteListSQL = `DELETE FROM lists WHERE id=$1`
)

const defaultListColor = "blue"

// Create appends or inserts l under its board.
func (r *ListRepo) Create(ctx context.Context, l *model.List, index *int) error {
	if l.Color == "" {
		l.Color = defaultListColor
	}
	return r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		pos, err := listLedger.place(ctx, tx, l.BoardID, l.ID, index)
		if err != nil {
			return err
		}
		l.Position = pos
		return tx.QueryRow(ctx, insertListSQL, l.ID, l.BoardID, l.Title, l.Color, l.Position).Scan(&l.CreatedAt)
	})
}

// Get selects a list by ID.
func (r *ListRepo) Get(ctx context.Context, id uuid.UUID) (model.List, error) {
	return scanList(r.db.Pool.QueryRow(ctx, listByIDSQL, id))
}

// ListByBoard returns the lists of a board in sibling order.
func (r *ListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.List, error) {
	return queryLists(ctx, r.db.Pool, listsOfSQL, boardID)
}

// Update renames and recolors a list.
func (r *ListRepo) Update(ctx context.Context, id uuid.UUID, title, color string) (model.List, error) {
	return scanList(r.db.Pool.QueryRow(ctx, updateListSQL, id, title, color))
}

// Delete removes a list; its cards go with it.
func (r *ListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteListSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Move repositions a list within its board.
func (r *ListRepo) Move(ctx context.Context, id uuid.UUID, index int) (at model.Placement, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		at, err = listLedger.move(ctx, tx, id, uuid.Nil, uuid.Nil, index)
		return err
	})
	return at, err
}

// Reorder applies an explicit order to the lists of a board.
func (r *ListRepo) Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) (order []uuid.UUID, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		order, err = listLedger.reorder(ctx, tx, boardID, ids)
		return err
	})
	return order, err
}

func scanList(row pgx.Row) (model.List, error) {
	var l model.List
	err := row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Color, &l.Position, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.List{}, errs.ErrNotFound
	}
	return l, err
}

func queryLists(ctx context.Context, q querier, sql string, args ...any) ([]model.List, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
