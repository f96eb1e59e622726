package grpcserver

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/service"
)

// Request messages. Identifiers travel as strings and are parsed by the handlers so
// that a malformed id is an InvalidArgument, not a decoding failure.

type Empty struct{}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
}

// CreateBoardRequest creates a board. SeedLists overrides the server default for
// appending the starter lists.
type CreateBoardRequest struct {
	service.BoardInput
	SeedLists *bool `json:"seed_lists,omitempty"`
}

type CreateBoardResponse struct {
	Board Board  `json:"board"`
	Lists []List `json:"lists"`
}

type BoardRef struct {
	BoardID string `json:"board_id"`
}

type UpdateBoardRequest struct {
	BoardID string `json:"board_id"`
	service.BoardUpdate
}

type BoardsResponse struct {
	Boards []Board `json:"boards"`
}

type MemberRef struct {
	MemberID string `json:"member_id"`
}

type InviteMemberRequest struct {
	BoardID string     `json:"board_id"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
}

type InviteMemberResponse struct {
	Member Member             `json:"member"`
	Status model.InviteStatus `json:"status"`
}

type ChangeRoleRequest struct {
	MemberID string     `json:"member_id"`
	Role     model.Role `json:"role"`
}

type MembersResponse struct {
	Members []Member `json:"members"`
}

type ListRef struct {
	ListID string `json:"list_id"`
}

type CreateListRequest struct {
	BoardID string `json:"board_id"`
	service.ListInput
}

type UpdateListRequest struct {
	ListID string `json:"list_id"`
	service.ListInput
}

type MoveListRequest struct {
	ListID string `json:"list_id"`
	Index  int    `json:"index"`
}

type ListsResponse struct {
	Lists []List `json:"lists"`
}

// ReorderRequest carries the desired order of the children of ParentID (a board for
// lists, a list for cards).
type ReorderRequest struct {
	ParentID string   `json:"parent_id"`
	IDs      []string `json:"ids"`
}

type ReorderResponse struct {
	IDs []string `json:"ids"`
}

type CardRef struct {
	CardID string `json:"card_id"`
}

type CreateCardRequest struct {
	ListID string `json:"list_id"`
	service.CardInput
}

type UpdateCardRequest struct {
	CardID string `json:"card_id"`
	service.CardUpdate
}

type QueryCardsRequest struct {
	ListID    string           `json:"list_id"`
	Search    string           `json:"search,omitempty"`
	MinBudget *decimal.Decimal `json:"min_budget,omitempty"`
	MaxBudget *decimal.Decimal `json:"max_budget,omitempty"`
	DueFrom   *time.Time       `json:"due_from,omitempty"`
	DueTo     *time.Time       `json:"due_to,omitempty"`
	Ordering  string           `json:"ordering,omitempty"`
	Page      int              `json:"page,omitempty"`
	PageSize  int              `json:"page_size,omitempty"`
}

// MoveCardRequest moves a card. FromList is optional; ToList empty keeps the card in
// its list.
type MoveCardRequest struct {
	CardID   string `json:"card_id"`
	FromList string `json:"from_list,omitempty"`
	ToList   string `json:"to_list,omitempty"`
	Index    int    `json:"index"`
}

type AssignRequest struct {
	CardID  string   `json:"card_id"`
	UserIDs []string `json:"user_ids"`
}

type UnassignRequest struct {
	CardID string `json:"card_id"`
	UserID string `json:"user_id"`
}

type ResolveRequest struct {
	Token string `json:"token"`
}

type CreateExpenseRequest struct {
	BoardID string `json:"board_id"`
	service.ExpenseInput
}

type ListExpensesRequest struct {
	BoardID  string     `json:"board_id"`
	Category string     `json:"category,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

type ExpenseRef struct {
	ExpenseID string `json:"expense_id"`
}

type ExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type AddLocationRequest struct {
	BoardID string `json:"board_id"`
	service.LocationInput
}

type LocationRef struct {
	LocationID string `json:"location_id"`
}

type LocationsResponse struct {
	Locations []Location `json:"locations"`
}

type ListNotificationsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
}
