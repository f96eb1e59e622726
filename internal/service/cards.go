package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
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

// CardService manages the ordered cards of a list.
type CardService interface {
	Create(ctx context.Context, userID, listID uuid.UUID, in CardInput) (model.Card, error)
	Get(ctx context.Context, userID, cardID uuid.UUID) (model.Card, error)
	// Query returns one page of a list's cards.
	Query(ctx context.Context, userID, listID uuid.UUID, f model.CardFilter) (model.CardPage, error)
	Update(ctx context.Context, userID, cardID uuid.UUID, in CardUpdate) (model.Card, error)
	Delete(ctx context.Context, userID, cardID uuid.UUID) error
	// Move places a card at index in toList (uuid.Nil keeps its list). A non-nil fromList
	// must name the card's current list.
	Move(ctx context.Context, userID, cardID, fromList, toList uuid.UUID, index int) (model.Placement, error)
	Reorder(ctx context.Context, userID, listID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	// Assign links board members to a card and notifies the newly assigned ones.
	Assign(ctx context.Context, userID, cardID uuid.UUID, assignees []uuid.UUID) (model.Card, error)
	Unassign(ctx context.Context, userID, cardID, assignee uuid.UUID) error
}

// CardInput is the payload of card creation.
type CardInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"omitempty,oneof=flight hotel food activity romantic family"`
	DueDate     *time.Time      `json:"due_date"`
	Budget      decimal.Decimal `json:"budget"`
	People      *int            `json:"people" validate:"omitempty,min=0"`
	Index       *int            `json:"index"`
}

// CardUpdate carries the card fields to change; nil fields are kept.
type CardUpdate struct {
	Title       *string          `json:"title" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Category    *string          `json:"category" validate:"omitempty,oneof=flight hotel food activity romantic family"`
	DueDate     *time.Time       `json:"due_date"`
	ClearDue    bool             `json:"clear_due"`
	Budget      *decimal.Decimal `json:"budget"`
	People      *int             `json:"people" validate:"omitempty,min=0"`
}

// MaxPage is the highest page number a card query accepts.
const MaxPage = 100_000

// Paging bounds card listings.
type Paging struct {
	Default int
	Max     int
}

type CardServiceImpl struct {
	cards  repository.CardRepository
	auth   *access.Authorizer
	paging Paging
	events events
}

// NewCardService constructs CardService.
func NewCardService(boards repository.BoardRepository, cards repository.CardRepository, paging Paging, n notify.Notifier, log *zap.Logger) *CardServiceImpl {
	if paging.Default <= 0 {
		paging.Default = 20
	}
	if paging.Max < paging.Default {
		paging.Max = paging.Default
	}
	return &CardServiceImpl{
		cards:  cards,
		auth:   access.NewAuthorizer(boards),
		paging: paging,
		events: newEvents(n, log),
	}
}

func (s *CardServiceImpl) Create(ctx context.Context, userID, listID uuid.UUID, in CardInput) (model.Card, error) {
	if err := checkInput(in); err != nil {
		return model.Card{}, err
	}
	title, err := required("title", in.Title)
	if err != nil {
		return model.Card{}, err
	}
	if err := checkMoney("budget", in.Budget); err != nil {
		return model.Card{}, err
	}
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionWrite); err != nil {
		return model.Card{}, err
	}
	id, err := newID()
	if err != nil {
		return model.Card{}, err
	}
	people := 1
	if in.People != nil {
		people = *in.People
	}
	c := model.Card{
		ID:          id,
		ListID:      listID,
		Title:       title,
		Description: plain(in.Description),
		Category:    in.Category,
		DueDate:     in.DueDate,
		Budget:      in.Budget,
		People:      people,
		Assignees:   []uuid.UUID{},
	}
	if err := s.cards.Create(ctx, &c, in.Index); err != nil {
		return model.Card{}, err
	}
	return c, nil
}

func (s *CardServiceImpl) Get(ctx context.Context, userID, cardID uuid.UUID) (model.Card, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionRead); err != nil {
		return model.Card{}, err
	}
	return s.cards.Get(ctx, cardID)
}

func (s *CardServiceImpl) Query(ctx context.Context, userID, listID uuid.UUID, f model.CardFilter) (model.CardPage, error) {
	switch {
	case f.Page < 0:
		return model.CardPage{}, errs.Invalid("page", "must not be negative")
	case f.Page > MaxPage:
		return model.CardPage{}, errs.Invalid("page", fmt.Sprintf("must not exceed %d", MaxPage))
	case f.PageSize < 0:
		return model.CardPage{}, errs.Invalid("page_size", "must not be negative")
	case f.MinBudget != nil && f.MaxBudget != nil && f.MinBudget.GreaterThan(*f.MaxBudget):
		return model.CardPage{}, errs.Invalid("min_budget", "must not exceed max_budget")
	case f.DueFrom != nil && f.DueTo != nil && f.DueFrom.After(*f.DueTo):
		return model.CardPage{}, errs.Invalid("due_from", "must not be after due_to")
	}
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionRead); err != nil {
		return model.CardPage{}, err
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = s.paging.Default
	}
	f.PageSize = min(f.PageSize, s.paging.Max)
	f.Search = plain(f.Search)
	return s.cards.Query(ctx, listID, f)
}

func (s *CardServiceImpl) Update(ctx context.Context, userID, cardID uuid.UUID, in CardUpdate) (model.Card, error) {
	if err := checkInput(in); err != nil {
		return model.Card{}, err
	}
	p := model.CardPatch{Category: in.Category, DueDate: in.DueDate, ClearDue: in.ClearDue, Budget: in.Budget, People: in.People}
	if in.Title != nil {
		title, err := required("title", *in.Title)
		if err != nil {
			return model.Card{}, err
		}
		p.Title = &title
	}
	if in.Description != nil {
		d := plain(*in.Description)
		p.Description = &d
	}
	if in.Budget != nil {
		if err := checkMoney("budget", *in.Budget); err != nil {
			return model.Card{}, err
		}
	}
	if _, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionWrite); err != nil {
		return model.Card{}, err
	}
	return s.cards.Update(ctx, cardID, p)
}

// Delete removes a card. The remaining cards keep their order.
func (s *CardServiceImpl) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionWrite); err != nil {
		return err
	}
	return s.cards.Delete(ctx, cardID)
}

// Move keeps cards on their board: a target list of another board is reported as not found.
func (s *CardServiceImpl) Move(ctx context.Context, userID, cardID, fromList, toList uuid.UUID, index int) (model.Placement, error) {
	g, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionWrite)
	if err != nil {
		return model.Placement{}, err
	}
	if toList != uuid.Nil {
		dst, err := s.auth.Authorize(ctx, userID, access.List(toList), access.ActionWrite)
		switch {
		case errors.Is(err, errs.ErrPermissionDenied):
			return model.Placement{}, errs.NotFoundField("to_list")
		case err != nil:
			return model.Placement{}, err
		case dst.Board.ID != g.Board.ID:
			return model.Placement{}, errs.NotFoundField("to_list")
		}
	}
	return s.cards.Move(ctx, cardID, fromList, toList, index)
}

func (s *CardServiceImpl) Reorder(ctx context.Context, userID, listID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionWrite); err != nil {
		return nil, err
	}
	return s.cards.Reorder(ctx, listID, ids)
}

// Assign accepts only users with a role on the card's board.
func (s *CardServiceImpl) Assign(ctx context.Context, userID, cardID uuid.UUID, assignees []uuid.UUID) (model.Card, error) {
	if len(assignees) == 0 {
		return model.Card{}, errs.Invalid("assignees", "is required")
	}
	g, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionWrite)
	if err != nil {
		return model.Card{}, err
	}
	ids := slices.Clone(assignees)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a.Bytes(), b.Bytes()) })
	ids = slices.Compact(ids)
	for _, id := range ids {
		role, err := s.auth.RoleOf(ctx, id, g.Board)
		if err != nil {
			return model.Card{}, err
		}
		if role == model.RoleNone {
			return model.Card{}, errs.Invalid("assignees", fmt.Sprintf("user %s is not a member of the board", id))
		}
	}
	added, err := s.cards.AddAssignees(ctx, cardID, ids)
	if err != nil {
		return model.Card{}, err
	}
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return model.Card{}, err
	}
	for _, id := range added {
		s.events.send(ctx, id, "Task assigned to you", fmt.Sprintf("You have been assigned to %q.", c.Title))
	}
	return c, nil
}

func (s *CardServiceImpl) Unassign(ctx context.Context, userID, cardID, assignee uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.Card(cardID), access.ActionWrite); err != nil {
		return err
	}
	return s.cards.RemoveAssignee(ctx, cardID, assignee)
}
