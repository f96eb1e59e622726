package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/and161185/travel-kanban/internal/model"
)

// ReportRepo implements ReportRepository using PostgreSQL. Money sums are computed as
// NUMERIC in the database and added with decimal arithmetic in Go.
type ReportRepo struct{ db *DB }

// NewReportRepo constructs a report repository.
func NewReportRepo(db *DB) *ReportRepo { return &ReportRepo{db: db} }

const (
	listStatsSQL = `SELECT l.id, l.title, COUNT(c.id), COALESCE(SUM(c.budget), 0), COALESCE(SUM(c.people), 0)
FROM lists l LEFT JOIN cards c ON c.list_id = l.id
WHERE l.board_id=$1
GROUP BY l.id, l.title, l.position, l.created_at
ORDER BY l.position, l.created_at, l.id`
	boardBudgetSQL = `SELECT currency, budget FROM boards WHERE id=$1`
	spentByCatSQL  = `SELECT category, SUM(amount) FROM expenses WHERE board_id=$1 GROUP BY category ORDER BY category`
)

// BoardStats totals cards per list and per board. Empty boards and lists report zeros.
func (r *ReportRepo) BoardStats(ctx context.Context, boardID uuid.UUID) (model.BoardStats, error) {
	rows, err := r.db.Pool.Query(ctx, listStatsSQL, boardID)
	if err != nil {
		return model.BoardStats{}, err
	}
	defer rows.Close()

	st := model.BoardStats{BoardID: boardID, TotalBudget: decimal.Zero, Lists: []model.ListStats{}}
	for rows.Next() {
		var (
			ls    model.ListStats
			count int64
		)
		if err := rows.Scan(&ls.ListID, &ls.Title, &count, &ls.Budget, &ls.People); err != nil {
			return model.BoardStats{}, err
		}
		ls.CardCount = int(count)
		st.Lists = append(st.Lists, ls)
		st.ListCount++
		st.CardCount += ls.CardCount
		st.TotalBudget = st.TotalBudget.Add(ls.Budget)
		st.TotalPeople += ls.People
	}
	return st, rows.Err()
}

// BudgetSummary compares the board budget with recorded expenses.
func (r *ReportRepo) BudgetSummary(ctx context.Context, boardID uuid.UUID) (model.BudgetSummary, error) {
	sum := model.BudgetSummary{BoardID: boardID, Spent: decimal.Zero, ByCategory: []model.CategoryTotal{}}
	if err := r.db.Pool.QueryRow(ctx, boardBudgetSQL, boardID).Scan(&sum.Currency, &sum.Budget); err != nil {
		return model.BudgetSummary{}, notFoundOnNoRows(err)
	}

	rows, err := r.db.Pool.Query(ctx, spentByCatSQL, boardID)
	if err != nil {
		return model.BudgetSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ct model.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return model.BudgetSummary{}, err
		}
		sum.ByCategory = append(sum.ByCategory, ct)
		sum.Spent = sum.Spent.Add(ct.Total)
	}
	if err := rows.Err(); err != nil {
		return model.BudgetSummary{}, err
	}
	sum.Remaining = decimal.Max(sum.Budget.Sub(sum.Spent), decimal.Zero)
	return sum, nil
}
