package grpcserver

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// Wire shapes of the domain entities. Money is a decimal string, ids are canonical UUID
// strings and times are RFC 3339.

type Board struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Currency    string          `json:"currency"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Status      string          `json:"status"`
	Favorite    bool            `json:"is_favorite"`
	Shared      bool            `json:"shared"`
	ShareToken  string          `json:"share_token,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Member struct {
	ID        uuid.UUID  `json:"id"`
	BoardID   uuid.UUID  `json:"board_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      model.Role `json:"role"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
}

type List struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type Card struct {
	ID          uuid.UUID       `json:"id"`
	ListID      uuid.UUID       `json:"list_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Position    int64           `json:"position"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	People      int             `json:"people"`
	Assignees   []uuid.UUID     `json:"assignees"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CardPage struct {
	Cards []Card `json:"cards"`
	Count int    `json:"count"`
	Page  int    `json:"page"`
	Next  bool   `json:"next"`
}

type Placement struct {
	ParentID uuid.UUID `json:"parent_id"`
	Index    int       `json:"index"`
	Position int64     `json:"position"`
}

type ShareStatus struct {
	Token          string `json:"token,omitempty"`
	Enabled        bool   `json:"enabled"`
	AlreadyEnabled bool   `json:"already_enabled"`
}

type SharedBoard struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Currency    string       `json:"currency"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	Lists       []SharedList `json:"lists"`
}

type SharedList struct {
	List
	Cards []Card `json:"cards"`
}

type ListStats struct {
	ListID    uuid.UUID       `json:"list_id"`
	Title     string          `json:"title"`
	CardCount int             `json:"card_count"`
	Budget    decimal.Decimal `json:"budget"`
	People    int64           `json:"people"`
}

type BoardStats struct {
	BoardID     uuid.UUID       `json:"board_id"`
	ListCount   int             `json:"list_count"`
	CardCount   int             `json:"card_count"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	TotalPeople int64           `json:"total_people"`
	Lists       []ListStats     `json:"lists"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type BudgetSummary struct {
	BoardID    uuid.UUID       `json:"board_id"`
	Currency   string          `json:"currency"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	ByCategory []CategoryTotal `json:"by_category"`
}

type Expense struct {
	ID        uuid.UUID       `json:"id"`
	BoardID   uuid.UUID       `json:"board_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

type Location struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toBoard(b model.Board) Board {
	return Board{
		ID: b.ID, Title: b.Title, Description: b.Description, OwnerID: b.OwnerID,
		Currency: b.Currency, Budget: b.Budget, StartDate: b.StartDate, EndDate: b.EndDate,
		Status: string(b.Status), Favorite: b.Favorite,
		Shared: b.Shared, ShareToken: b.ShareToken, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

func toMember(m model.Member) Member {
	return Member{
		ID: m.ID, BoardID: m.BoardID, UserID: m.UserID, Role: m.Role,
		Email: m.Email, Username: m.Username, CreatedAt: m.CreatedAt,
	}
}

func toList(l model.List) List {
	return List{ID: l.ID, BoardID: l.BoardID, Title: l.Title, Color: l.Color, Position: l.Position, CreatedAt: l.CreatedAt}
}

func toCard(c model.Card) Card {
	assignees := c.Assignees
	if assignees == nil {
		assignees = []uuid.UUID{}
	}
	return Card{
		ID: c.ID, ListID: c.ListID, Title: c.Title, Description: c.Description, Category: c.Category,
		Position: c.Position, DueDate: c.DueDate, Budget: c.Budget, People: c.People,
		Assignees: assignees, CreatedAt: c.CreatedAt,
	}
}

func toPlacement(p model.Placement) Placement {
	return Placement{ParentID: p.ParentID, Index: p.Index, Position: p.Position}
}

func toShareStatus(s model.ShareStatus) ShareStatus {
	return ShareStatus{Token: s.Token, Enabled: s.Enabled, AlreadyEnabled: s.AlreadyEnabled}
}

func toSharedBoard(b model.SharedBoard) SharedBoard {
	out := SharedBoard{
		ID: b.ID, Title: b.Title, Description: b.Description, Currency: b.Currency,
		StartDate: b.StartDate, EndDate: b.EndDate, Lists: make([]SharedList, 0, len(b.Lists)),
	}
	for _, l := range b.Lists {
		out.Lists = append(out.Lists, SharedList{List: toList(l.List), Cards: mapAll(l.Cards, toCard)})
	}
	return out
}

func toBoardStats(s model.BoardStats) BoardStats {
	out := BoardStats{
		BoardID: s.BoardID, ListCount: s.ListCount, CardCount: s.CardCount,
		TotalBudget: s.TotalBudget, TotalPeople: s.TotalPeople,
	}
	out.Lists = mapAll(s.Lists, func(l model.ListStats) ListStats {
		return ListStats{ListID: l.ListID, Title: l.Title, CardCount: l.CardCount, Budget: l.Budget, People: l.People}
	})
	return out
}

func toBudgetSummary(s model.BudgetSummary) BudgetSummary {
	return BudgetSummary{
		BoardID: s.BoardID, Currency: s.Currency, Budget: s.Budget, Spent: s.Spent, Remaining: s.Remaining,
		ByCategory: mapAll(s.ByCategory, func(c model.CategoryTotal) CategoryTotal {
			return CategoryTotal{Category: c.Category, Total: c.Total}
		}),
	}
}

func toExpense(e model.Expense) Expense {
	return Expense{
		ID: e.ID, BoardID: e.BoardID, Title: e.Title, Amount: e.Amount, Currency: e.Currency,
		Category: e.Category, Date: e.Date, Notes: e.Notes, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt,
	}
}

func toLocation(l model.Location) Location {
	return Location{ID: l.ID, BoardID: l.BoardID, Name: l.Name, Lat: l.Lat, Lng: l.Lng, CreatedBy: l.CreatedBy, CreatedAt: l.CreatedAt}
}

// mapAll converts every element and never returns nil, so empty collections encode as [].
func mapAll[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// parseID parses a required identifier field.
func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.Invalid(field, "must be a UUID")
	}
	return id, nil
}

// parseOptionalID parses an identifier that may be omitted; empty yields uuid.Nil.
func parseOptionalID(field, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return parseID(field, s)
}

func parseIDs(field string, in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := parseID(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func idStrings(ids []uuid.UUID) []string {
	return mapAll(ids, uuid.UUID.String)
}
