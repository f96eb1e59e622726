package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/model"
)

// ReportRepository computes read-side rollups.
type ReportRepository interface {
	BoardStats(ctx context.Context, boardID uuid.UUID) (model.BoardStats, error)
	BudgetSummary(ctx context.Context, boardID uuid.UUID) (model.BudgetSummary, error)
}

// ExpenseRepository stores money spent for boards.
type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	List(ctx context.Context, boardID uuid.UUID, f model.ExpenseFilter) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationRepository stores map points of boards.
type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	List(ctx context.Context, boardID uuid.UUID) ([]model.Location, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
