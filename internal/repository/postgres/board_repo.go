package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// BoardRepo implements BoardRepository and access.Resolver using PostgreSQL.
type BoardRepo struct{ db *DB }

// NewBoardRepo constructs a board repository.
func NewBoardRepo(db *DB) *BoardRepo { return &BoardRepo{db: db} }

const (
	boardColumns = `id, title, description, owner_id, currency, budget, start_date, end_date, status, is_favorite,
share_token, is_shared, created_at, updated_at`
	boardColumnsB = `b.id, b.title, b.description, b.owner_id, b.currency, b.budget, b.start_date, b.end_date, b.status, b.is_favorite,
b.share_token, b.is_shared, b.created_at, b.updated_at`
)

const (
	insertBoardSQL = `INSERT INTO boards (id, title, description, owner_id, currency, budget, start_date, end_date, status, is_favorite, share_token)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at, updated_at`
	insertOwnerSQL  = `INSERT INTO board_members (id, board_id, user_id, role) VALUES ($1, $2, $3, 'owner')`
	boardByIDSQL    = `SELECT ` + boardColumns + ` FROM boards WHERE id=$1`
	boardsOfUserSQL = `SELECT ` + boardColumnsB + ` FROM boards b
WHERE b.owner_id = $1 OR EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = $1)
ORDER BY b.created_at DESC, b.id`
	updateBoardSQL = `UPDATE boards SET
  title = COALESCE($2, title),
  description = COALESCE($3, description),
  budget = COALESCE($4, budget),
  start_date = COALESCE($5, start_date),
  end_date = COALESCE($6, end_date),
  status = COALESCE($7, status),
  is_favorite = COALESCE($8, is_favorite),
  updated_at = now()
WHERE id=$1
RETURNING ` + boardColumns
	deleteBoardSQL = `DELETE FROM boards WHERE id=$1`
	memberRoleSQL  = `SELECT role FROM board_members WHERE board_id=$1 AND user_id=$2`
)

// owningBoardSQL resolves every ref kind to its board in one statement.
var owningBoardSQL = map[access.Kind]string{
	access.KindBoard: boardByIDSQL,
	access.KindList: `SELECT ` + boardColumnsB + ` FROM boards b
JOIN lists l ON l.board_id = b.id WHERE l.id=$1`,
	access.KindCard: `SELECT ` + boardColumnsB + ` FROM boards b
JOIN lists l ON l.board_id = b.id JOIN cards c ON c.list_id = l.id WHERE c.id=$1`,
	access.KindMember: `SELECT ` + boardColumnsB + ` FROM boards b
JOIN board_members m ON m.board_id = b.id WHERE m.id=$1`,
	access.KindExpense: `SELECT ` + boardColumnsB + ` FROM boards b
JOIN expenses e ON e.board_id = b.id WHERE e.id=$1`,
	access.KindLocation: `SELECT ` + boardColumnsB + ` FROM boards b
JOIN locations p ON p.board_id = b.id WHERE p.id=$1`,
}

// Create inserts the board and its owner membership in one transaction.
func (r *BoardRepo) Create(ctx context.Context, b *model.Board) error {
	return r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertBoardSQL,
			b.ID, b.Title, b.Description, b.OwnerID, b.Currency, b.Budget, b.StartDate, b.EndDate, b.Status, b.Favorite, b.ShareToken,
		).Scan(&b.CreatedAt, &b.UpdatedAt)
		if isForeignKeyViolation(err) {
			return errs.NotFoundField("owner")
		}
		if err != nil {
			return err
		}
		memberID, err := uuid.NewV4()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, insertOwnerSQL, memberID, b.ID, b.OwnerID)
		return err
	})
}

// Get selects a board by ID.
func (r *BoardRepo) Get(ctx context.Context, id uuid.UUID) (model.Board, error) {
	return scanBoard(r.db.Pool.QueryRow(ctx, boardByIDSQL, id))
}

// ListForUser returns boards owned by or shared with the user.
func (r *BoardRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	rows, err := r.db.Pool.Query(ctx, boardsOfUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of p.
func (r *BoardRepo) Update(ctx context.Context, id uuid.UUID, p model.BoardPatch) (model.Board, error) {
	return scanBoard(r.db.Pool.QueryRow(ctx, updateBoardSQL,
		id, p.Title, p.Description, p.Budget, p.StartDate, p.EndDate, p.Status, p.Favorite))
}

// Delete removes a board; lists, cards, members, expenses and locations cascade.
func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteBoardSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// OwningBoard resolves ref to the board that owns it.
func (r *BoardRepo) OwningBoard(ctx context.Context, ref access.Ref) (model.Board, error) {
	q, ok := owningBoardSQL[ref.Kind]
	if !ok {
		return model.Board{}, fmt.Errorf("unsupported ref kind %q", ref.Kind)
	}
	return scanBoard(r.db.Pool.QueryRow(ctx, q, ref.ID))
}

// MemberRole returns the role recorded for (board, user).
func (r *BoardRepo) MemberRole(ctx context.Context, boardID, userID uuid.UUID) (model.Role, error) {
	var role string
	err := r.db.Pool.QueryRow(ctx, memberRoleSQL, boardID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RoleNone, errs.ErrNotFound
	}
	if err != nil {
		return model.RoleNone, err
	}
	return model.Role(role), nil
}

func scanBoard(row pgx.Row) (model.Board, error) {
	var b model.Board
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.Currency, &b.Budget,
		&b.StartDate, &b.EndDate, &b.Status, &b.Favorite, &b.ShareToken, &b.Shared, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Board{}, errs.ErrNotFound
	}
	return b, err
}
