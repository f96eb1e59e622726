package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// ExpenseRepo implements ExpenseRepository using PostgreSQL.
type ExpenseRepo struct{ db *DB }

// NewExpenseRepo constructs an expense repository.
func NewExpenseRepo(db *DB) *ExpenseRepo { return &ExpenseRepo{db: db} }

const expenseColumns = `id, board_id, title, amount, currency, category, spent_on, notes, created_by, created_at`

const (
	insertExpenseSQL = `INSERT INTO expenses (id, board_id, title, amount, currency, category, spent_on, notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`
	deleteExpenseSQL = `DELETE FROM expenses WHERE id=$1`
)

// Create inserts an expense.
func (r *ExpenseRepo) Create(ctx context.Context, e *model.Expense) error {
	err := r.db.Pool.QueryRow(ctx, insertExpenseSQL,
		e.ID, e.BoardID, e.Title, e.Amount, e.Currency, e.Category, e.Date, e.Notes, e.CreatedBy,
	).Scan(&e.CreatedAt)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// List returns a board's expenses, newest first, narrowed by f.
func (r *ExpenseRepo) List(ctx context.Context, boardID uuid.UUID, f model.ExpenseFilter) ([]model.Expense, error) {
	conds := []string{"board_id = $1"}
	args := []any{boardID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.From != nil {
		add("spent_on >= $%d", *f.From)
	}
	if f.To != nil {
		add("spent_on <= $%d", *f.To)
	}
	q := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY spent_on DESC, created_at DESC, id`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes an expense.
func (r *ExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, deleteExpenseSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (model.Expense, error) {
	var (
		e         model.Expense
		createdBy *uuid.UUID
	)
	err := row.Scan(&e.ID, &e.BoardID, &e.Title, &e.Amount, &e.Currency, &e.Category, &e.Date, &e.Notes,
		&createdBy, &e.CreatedAt)
	if err != nil {
		return model.Expense{}, notFoundOnNoRows(err)
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return e, nil
}
