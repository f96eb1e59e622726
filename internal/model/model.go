// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account. The password is never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Email     string    // unique, normalised
	Username  string
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-user auth salt
	CreatedAt time.Time
}

// Role is a user's relationship to a board.
type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

// Valid reports whether r is one of the stored roles.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor || r == RoleOwner
}

// BoardStatus is the trip's lifecycle stage.
type BoardStatus string

const (
	StatusPlanning  BoardStatus = "planning"
	StatusActive    BoardStatus = "active"
	StatusCompleted BoardStatus = "completed"
)

// Board is the top-level shareable container of lists.
type Board struct {
	ID          uuid.UUID
	Title       string
	Description string
	OwnerID     uuid.UUID
	Currency    string          // ISO 4217 code
	Budget      decimal.Decimal // planned total
	StartDate   *time.Time
	EndDate     *time.Time
	Status      BoardStatus
	Favorite    bool
	ShareToken  string // empty when not visible to the caller
	Shared      bool   // read-only public link enabled
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BoardPatch carries optional board field updates.
type BoardPatch struct {
	Title       *string
	Description *string
	Budget      *decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *BoardStatus
	Favorite    *bool
}

// Member is a (board, user) role association.
type Member struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	UserID    uuid.UUID
	Role      Role
	Email     string // joined from users for listing
	Username  string
	CreatedAt time.Time
}

// InviteStatus distinguishes first invitation from idempotent repeats.
type InviteStatus string

const (
	InviteCreated       InviteStatus = "created"
	InviteAlreadyExists InviteStatus = "already_exists"
	InviteUpdated       InviteStatus = "updated"
)

// List is an ordered column of cards within a board.
type List struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Title     string
	Color     string
	Position  int64
	CreatedAt time.Time
}

// Card is a single planning item within a list.
type Card struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	Title       string
	Description string
	Category    string
	Position    int64
	DueDate     *time.Time
	Budget      decimal.Decimal
	People      int
	Assignees   []uuid.UUID
	CreatedAt   time.Time
}

// Placement is where an ordered entity ended up after a move.
type Placement struct {
	ParentID uuid.UUID
	Index    int
	Position int64
}

// CardPatch carries optional card field updates.
type CardPatch struct {
	Title       *string
	Description *string
	Category    *string
	DueDate     *time.Time
	ClearDue    bool
	Budget      *decimal.Decimal
	People      *int
}

// CardFilter narrows and orders a card listing.
type CardFilter struct {
	Search    string
	MinBudget *decimal.Decimal
	MaxBudget *decimal.Decimal
	DueFrom   *time.Time
	DueTo     *time.Time
	Ordering  string
	Page      int
	PageSize  int
}

// CardPage is one page of a card listing.
type CardPage struct {
	Cards []Card
	Count int
	Page  int
	Next  bool
}

// ShareStatus reports the outcome of a share-gate transition.
type ShareStatus struct {
	Token          string
	Enabled        bool
	AlreadyEnabled bool // Enable was a no-op
}

// SharedBoard is the anonymous read-only snapshot resolved from a share token.
// It never carries members or the token itself.
type SharedBoard struct {
	ID          uuid.UUID
	Title       string
	Description string
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
	Lists       []SharedList
}

// SharedList is a list with its cards inside a SharedBoard.
type SharedList struct {
	List  List
	Cards []Card
}

// ListStats is the per-list subtotal of a board rollup.
type ListStats struct {
	ListID    uuid.UUID
	Title     string
	CardCount int
	Budget    decimal.Decimal
	People    int64
}

// BoardStats is the per-board rollup over the card tree.
type BoardStats struct {
	BoardID     uuid.UUID
	ListCount   int
	CardCount   int
	TotalBudget decimal.Decimal
	TotalPeople int64
	Lists       []ListStats
}

// Expense is money actually spent for a board.
type Expense struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Title     string
	Amount    decimal.Decimal
	Currency  string
	Category  string
	Date      time.Time
	Notes     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// ExpenseFilter narrows an expense listing.
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

// CategoryTotal is the spend for one expense category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// BudgetSummary compares the planned board budget with actual spend.
type BudgetSummary struct {
	BoardID    uuid.UUID
	Currency   string
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal // floored at zero
	ByCategory []CategoryTotal
}

// Location is a pinned map point on a board.
type Location struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Name      string
	Lat       float64
	Lng       float64
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// Notification is an event description for the external dispatcher.
type Notification struct {
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
