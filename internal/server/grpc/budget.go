package grpcserver

import (
	"context"

	"github.com/and161185/travel-kanban/internal/model"
)

// --- Reports ---

func (s *Server) BoardStats(ctx context.Context, req *BoardRef) (*BoardStats, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Reports.Stats(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("BoardStats", err)
	}
	out := toBoardStats(st)
	return &out, nil
}

func (s *Server) BudgetSummary(ctx context.Context, req *BoardRef) (*BudgetSummary, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	sum, err := s.svc.Reports.Budget(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("BudgetSummary", err)
	}
	out := toBudgetSummary(sum)
	return &out, nil
}

// --- Expenses ---

func (s *Server) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	e, err := s.svc.Expenses.Create(ctx, uid, bid, req.ExpenseInput)
	if err != nil {
		return nil, s.fail("CreateExpense", err)
	}
	out := toExpense(e)
	return &out, nil
}

func (s *Server) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ExpensesResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	es, err := s.svc.Expenses.List(ctx, uid, bid, model.ExpenseFilter{Category: req.Category, From: req.DateFrom, To: req.DateTo})
	if err != nil {
		return nil, s.fail("ListExpenses", err)
	}
	return &ExpensesResponse{Expenses: mapAll(es, toExpense)}, nil
}

func (s *Server) DeleteExpense(ctx context.Context, req *ExpenseRef) (*Empty, error) {
	uid, id, err := refCall(ctx, "expense_id", req.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Expenses.Delete(ctx, uid, id); err != nil {
		return nil, s.fail("DeleteExpense", err)
	}
	return &Empty{}, nil
}

// --- Locations ---

func (s *Server) AddLocation(ctx context.Context, req *AddLocationRequest) (*Location, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	l, err := s.svc.Locations.Add(ctx, uid, bid, req.LocationInput)
	if err != nil {
		return nil, s.fail("AddLocation", err)
	}
	out := toLocation(l)
	return &out, nil
}

func (s *Server) ListLocations(ctx context.Context, req *BoardRef) (*LocationsResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	ls, err := s.svc.Locations.List(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("ListLocations", err)
	}
	return &LocationsResponse{Locations: mapAll(ls, toLocation)}, nil
}

func (s *Server) DeleteLocation(ctx context.Context, req *LocationRef) (*Empty, error) {
	uid, id, err := refCall(ctx, "location_id", req.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Locations.Delete(ctx, uid, id); err != nil {
		return nil, s.fail("DeleteLocation", err)
	}
	return &Empty{}, nil
}
