package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/model"
)

// ListRepository stores ordered lists within boards.
type ListRepository interface {
	// Create appends l to its board, or inserts it at *index when index is non-nil.
	Create(ctx context.Context, l *model.List, index *int) error
	Get(ctx context.Context, id uuid.UUID) (model.List, error)
	// ListByBoard returns the lists of a board in sibling order.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.List, error)
	// Update changes the title and color of a list.
	Update(ctx context.Context, id uuid.UUID, title, color string) (model.List, error)
	// Delete removes a list and its cards.
	Delete(ctx context.Context, id uuid.UUID) error
	// Move repositions a list among its siblings.
	Move(ctx context.Context, id uuid.UUID, index int) (model.Placement, error)
	// Reorder applies an explicit order to the lists of a board.
	Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

// CardRepository stores ordered cards within lists.
type CardRepository interface {
	// Create appends c to its list, or inserts it at *index when index is non-nil.
	Create(ctx context.Context, c *model.Card, index *int) error
	Get(ctx context.Context, id uuid.UUID) (model.Card, error)
	// Query returns one page of the cards of a list.
	Query(ctx context.Context, listID uuid.UUID, f model.CardFilter) (model.CardPage, error)
	// Update applies the set fields of p.
	Update(ctx context.Context, id uuid.UUID, p model.CardPatch) (model.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Move places a card at index in toList, which may be its current list.
	// A non-nil fromList must match the card's current list.
	Move(ctx context.Context, id, fromList, toList uuid.UUID, index int) (model.Placement, error)
	// Reorder applies an explicit order to the cards of a list.
	Reorder(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	// AddAssignees links users to a card and returns the ones that were not linked yet.
	AddAssignees(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error)
	// RemoveAssignee unlinks a user from a card.
	RemoveAssignee(ctx context.Context, id, userID uuid.UUID) error
}
