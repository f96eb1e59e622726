package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/notify"
	"github.com/and161185/travel-kanban/internal/repository"
)

// ReportService computes board rollups on demand.
type ReportService interface {
	// Stats totals lists, cards, card budgets and people per board and per list.
	Stats(ctx context.Context, userID, boardID uuid.UUID) (model.BoardStats, error)
	// Budget compares the planned budget with recorded expenses.
	Budget(ctx context.Context, userID, boardID uuid.UUID) (model.BudgetSummary, error)
}

// ExpenseService records money spent for a board.
type ExpenseService interface {
	Create(ctx context.Context, userID, boardID uuid.UUID, in ExpenseInput) (model.Expense, error)
	List(ctx context.Context, userID, boardID uuid.UUID, f model.ExpenseFilter) ([]model.Expense, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
}

// ExpenseInput is the payload of expense creation. Currency defaults to the board's.
type ExpenseInput struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"omitempty,iso4217"`
	Category string          `json:"category" validate:"required,oneof=travel lodging food activities fees misc"`
	Date     *time.Time      `json:"date"`
	Notes    string          `json:"notes" validate:"max=5000"`
}

type ReportServiceImpl struct {
	reports repository.ReportRepository
	auth    *access.Authorizer
}

// NewReportService constructs ReportService.
func NewReportService(boards repository.BoardRepository, reports repository.ReportRepository) *ReportServiceImpl {
	return &ReportServiceImpl{reports: reports, auth: access.NewAuthorizer(boards)}
}

func (s *ReportServiceImpl) Stats(ctx context.Context, userID, boardID uuid.UUID) (model.BoardStats, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return model.BoardStats{}, err
	}
	return s.reports.BoardStats(ctx, boardID)
}

func (s *ReportServiceImpl) Budget(ctx context.Context, userID, boardID uuid.UUID) (model.BudgetSummary, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return model.BudgetSummary{}, err
	}
	return s.reports.BudgetSummary(ctx, boardID)
}

type ExpenseServiceImpl struct {
	expenses repository.ExpenseRepository
	auth     *access.Authorizer
	events   events
	now      func() time.Time
}

// NewExpenseService constructs ExpenseService.
func NewExpenseService(boards repository.BoardRepository, expenses repository.ExpenseRepository, n notify.Notifier, log *zap.Logger) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{
		expenses: expenses,
		auth:     access.NewAuthorizer(boards),
		events:   newEvents(n, log),
		now:      time.Now,
	}
}

// Create records an expense in the board currency and notifies its creator.
func (s *ExpenseServiceImpl) Create(ctx context.Context, userID, boardID uuid.UUID, in ExpenseInput) (model.Expense, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := checkInput(in); err != nil {
		return model.Expense{}, err
	}
	title, err := required("title", in.Title)
	if err != nil {
		return model.Expense{}, err
	}
	if !in.Amount.IsPositive() {
		return model.Expense{}, errs.Invalid("amount", "must be positive")
	}
	if err := checkMoney("amount", in.Amount); err != nil {
		return model.Expense{}, err
	}
	g, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite)
	if err != nil {
		return model.Expense{}, err
	}
	currency := in.Currency
	if currency == "" {
		currency = g.Board.Currency
	}
	if currency != g.Board.Currency {
		return model.Expense{}, errs.Invalid("currency", "must match the board currency "+g.Board.Currency)
	}
	date := s.now().UTC().Truncate(24 * time.Hour)
	if in.Date != nil {
		date = *in.Date
	}
	id, err := newID()
	if err != nil {
		return model.Expense{}, err
	}

	e := model.Expense{
		ID:        id,
		BoardID:   boardID,
		Title:     title,
		Amount:    in.Amount,
		Currency:  currency,
		Category:  in.Category,
		Date:      date,
		Notes:     plain(in.Notes),
		CreatedBy: userID,
	}
	if err := s.expenses.Create(ctx, &e); err != nil {
		return model.Expense{}, err
	}
	s.events.send(ctx, userID, "Budget updated",
		fmt.Sprintf("Expense %q of %s %s was added to %q.", e.Title, e.Amount.StringFixed(2), e.Currency, g.Board.Title))
	return e, nil
}

func (s *ExpenseServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID, f model.ExpenseFilter) ([]model.Expense, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, errs.Invalid("date_from", "must not be after date_to")
	}
	if f.Category != "" {
		if err := validate.Var(f.Category, "oneof=travel lodging food activities fees misc"); err != nil {
			return nil, errs.Invalid("category", "must be one of: travel lodging food activities fees misc")
		}
	}
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return nil, err
	}
	return s.expenses.List(ctx, boardID, f)
}

func (s *ExpenseServiceImpl) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.Expense(expenseID), access.ActionWrite); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, expenseID)
}
