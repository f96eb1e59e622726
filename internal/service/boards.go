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
	pkgcrypto "github.com/and161185/travel-kanban/internal/crypto"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/notify"
	"github.com/and161185/travel-kanban/internal/repository"
)

// DefaultCurrency is used when a board is created without one.
const DefaultCurrency = "USD"

// DefaultLists are appended by SeedDefaultLists.
var DefaultLists = []string{"To Plan", "In Progress", "Booked", "Completed"}

// BoardService manages boards.
type BoardService interface {
	// Create makes userID the owner of a new board.
	Create(ctx context.Context, userID uuid.UUID, in BoardInput) (model.Board, error)
	// SeedDefaultLists appends the starter lists to a board that has none yet.
	SeedDefaultLists(ctx context.Context, userID, boardID uuid.UUID) ([]model.List, error)
	Get(ctx context.Context, userID, boardID uuid.UUID) (model.Board, error)
	// ListMine returns the boards userID owns or is a member of.
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, userID, boardID uuid.UUID, in BoardUpdate) (model.Board, error)
	Delete(ctx context.Context, userID, boardID uuid.UUID) error
}

// BoardInput is the payload of board creation.
type BoardInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Currency    string          `json:"currency" validate:"omitempty,iso4217"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Status      string          `json:"status" validate:"omitempty,oneof=planning active completed"`
	Favorite    bool            `json:"is_favorite"`
}

// BoardUpdate carries the board fields to change; nil fields are kept.
type BoardUpdate struct {
	Title       *string          `json:"title" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	Status      *string          `json:"status" validate:"omitempty,oneof=planning active completed"`
	Favorite    *bool            `json:"is_favorite"`
}

type BoardServiceImpl struct {
	boards repository.BoardRepository
	lists  repository.ListRepository
	auth   *access.Authorizer
	events events
}

// NewBoardService constructs BoardService.
func NewBoardService(boards repository.BoardRepository, lists repository.ListRepository, n notify.Notifier, log *zap.Logger) *BoardServiceImpl {
	return &BoardServiceImpl{
		boards: boards,
		lists:  lists,
		auth:   access.NewAuthorizer(boards),
		events: newEvents(n, log),
	}
}

// Create stores the board with its owner membership and notifies the owner.
// New boards are not shared; their stored token is a discarded random value.
func (s *BoardServiceImpl) Create(ctx context.Context, userID uuid.UUID, in BoardInput) (model.Board, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := checkInput(in); err != nil {
		return model.Board{}, err
	}
	title, err := required("title", in.Title)
	if err != nil {
		return model.Board{}, err
	}
	if err := checkMoney("budget", in.Budget); err != nil {
		return model.Board{}, err
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return model.Board{}, err
	}
	id, err := newID()
	if err != nil {
		return model.Board{}, err
	}
	discard, err := pkgcrypto.NewToken()
	if err != nil {
		return model.Board{}, err
	}
	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	status := model.BoardStatus(in.Status)
	if status == "" {
		status = model.StatusPlanning
	}

	b := model.Board{
		ID:          id,
		Title:       title,
		Description: plain(in.Description),
		OwnerID:     userID,
		Currency:    currency,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		Favorite:    in.Favorite,
		ShareToken:  discard,
	}
	if err := s.boards.Create(ctx, &b); err != nil {
		return model.Board{}, err
	}
	s.events.send(ctx, userID, "New board created", fmt.Sprintf("Board %q has been created.", b.Title))
	return present(b, model.RoleOwner), nil
}

// SeedDefaultLists is the explicit post-creation step that gives an empty board its
// starter lists. A board that already has lists is returned unchanged.
func (s *BoardServiceImpl) SeedDefaultLists(ctx context.Context, userID, boardID uuid.UUID) ([]model.List, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite); err != nil {
		return nil, err
	}
	existing, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	out := make([]model.List, 0, len(DefaultLists))
	for _, title := range DefaultLists {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		l := model.List{ID: id, BoardID: boardID, Title: title}
		if err := s.lists.Create(ctx, &l, nil); err != nil {
			return nil, fmt.Errorf("seed %q: %w", title, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *BoardServiceImpl) Get(ctx context.Context, userID, boardID uuid.UUID) (model.Board, error) {
	g, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead)
	if err != nil {
		return model.Board{}, err
	}
	return present(g.Board, g.Role), nil
}

func (s *BoardServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	bs, err := s.boards.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, b := range bs {
		role := model.RoleViewer
		if b.OwnerID == userID {
			role = model.RoleOwner
		}
		bs[i] = present(b, role)
	}
	return bs, nil
}

func (s *BoardServiceImpl) Update(ctx context.Context, userID, boardID uuid.UUID, in BoardUpdate) (model.Board, error) {
	if err := checkInput(in); err != nil {
		return model.Board{}, err
	}
	g, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite)
	if err != nil {
		return model.Board{}, err
	}
	p := model.BoardPatch{Budget: in.Budget, StartDate: in.StartDate, EndDate: in.EndDate, Favorite: in.Favorite}
	if in.Status != nil {
		st := model.BoardStatus(*in.Status)
		p.Status = &st
	}
	if in.Title != nil {
		title, err := required("title", *in.Title)
		if err != nil {
			return model.Board{}, err
		}
		p.Title = &title
	}
	if in.Description != nil {
		d := plain(*in.Description)
		p.Description = &d
	}
	if in.Budget != nil {
		if err := checkMoney("budget", *in.Budget); err != nil {
			return model.Board{}, err
		}
	}
	start, end := g.Board.StartDate, g.Board.EndDate
	if in.StartDate != nil {
		start = in.StartDate
	}
	if in.EndDate != nil {
		end = in.EndDate
	}
	if err := checkDates(start, end); err != nil {
		return model.Board{}, err
	}

	b, err := s.boards.Update(ctx, boardID, p)
	if err != nil {
		return model.Board{}, err
	}
	return present(b, g.Role), nil
}

// Delete removes the board with everything it owns. Only the owner may do this.
func (s *BoardServiceImpl) Delete(ctx context.Context, userID, boardID uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionDeleteBoard); err != nil {
		return err
	}
	return s.boards.Delete(ctx, boardID)
}

// present hides the share token from everyone but the owner, and from the owner too
// while sharing is off.
func present(b model.Board, role model.Role) model.Board {
	if role != model.RoleOwner || !b.Shared {
		b.ShareToken = ""
	}
	return b
}

func checkMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return errs.Invalid(field, "must not be negative")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return errs.Invalid(field, "must have at most 2 decimal places")
	}
	return nil
}
