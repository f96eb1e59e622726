package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/repository"
)

// ListService manages the ordered lists of a board.
type ListService interface {
	Create(ctx context.Context, userID, boardID uuid.UUID, in ListInput) (model.List, error)
	List(ctx context.Context, userID, boardID uuid.UUID) ([]model.List, error)
	Update(ctx context.Context, userID, listID uuid.UUID, in ListInput) (model.List, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	// Move puts a list at index among its siblings (clamped to the last slot).
	Move(ctx context.Context, userID, listID uuid.UUID, index int) (model.Placement, error)
	// Reorder applies ids as the leading order of the board's lists.
	Reorder(ctx context.Context, userID, boardID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

// ListInput is the payload of list creation and update. Index only applies to creation:
// nil appends, otherwise the list is inserted at the clamped index.
type ListInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,oneof=blue green red yellow orange purple pink gray"`
	Index *int   `json:"index"`
}

type ListServiceImpl struct {
	lists repository.ListRepository
	auth  *access.Authorizer
}

// NewListService constructs ListService.
func NewListService(boards repository.BoardRepository, lists repository.ListRepository) *ListServiceImpl {
	return &ListServiceImpl{lists: lists, auth: access.NewAuthorizer(boards)}
}

func (s *ListServiceImpl) Create(ctx context.Context, userID, boardID uuid.UUID, in ListInput) (model.List, error) {
	title, err := s.check(in)
	if err != nil {
		return model.List{}, err
	}
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite); err != nil {
		return model.List{}, err
	}
	id, err := newID()
	if err != nil {
		return model.List{}, err
	}
	l := model.List{ID: id, BoardID: boardID, Title: title, Color: in.Color}
	if err := s.lists.Create(ctx, &l, in.Index); err != nil {
		return model.List{}, err
	}
	return l, nil
}

func (s *ListServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]model.List, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return nil, err
	}
	return s.lists.ListByBoard(ctx, boardID)
}

func (s *ListServiceImpl) Update(ctx context.Context, userID, listID uuid.UUID, in ListInput) (model.List, error) {
	title, err := s.check(in)
	if err != nil {
		return model.List{}, err
	}
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionWrite); err != nil {
		return model.List{}, err
	}
	color := in.Color
	if color == "" {
		cur, err := s.lists.Get(ctx, listID)
		if err != nil {
			return model.List{}, err
		}
		color = cur.Color
	}
	return s.lists.Update(ctx, listID, title, color)
}

// Delete removes the list and its cards. The remaining lists keep their order.
func (s *ListServiceImpl) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionWrite); err != nil {
		return err
	}
	return s.lists.Delete(ctx, listID)
}

func (s *ListServiceImpl) Move(ctx context.Context, userID, listID uuid.UUID, index int) (model.Placement, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.List(listID), access.ActionWrite); err != nil {
		return model.Placement{}, err
	}
	return s.lists.Move(ctx, listID, index)
}

func (s *ListServiceImpl) Reorder(ctx context.Context, userID, boardID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite); err != nil {
		return nil, err
	}
	return s.lists.Reorder(ctx, boardID, ids)
}

func (s *ListServiceImpl) check(in ListInput) (string, error) {
	if err := checkInput(in); err != nil {
		return "", err
	}
	return required("title", in.Title)
}
