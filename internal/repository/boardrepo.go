package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/model"
)

// BoardRepository stores boards and resolves board ownership for any board-owned entity.
type BoardRepository interface {
	access.Resolver

	// Create inserts the board together with the owner's membership row.
	Create(ctx context.Context, b *model.Board) error
	// Get loads a board by ID.
	Get(ctx context.Context, id uuid.UUID) (model.Board, error)
	// ListForUser returns boards the user owns or is a member of, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	// Update applies the non-nil fields of p.
	Update(ctx context.Context, id uuid.UUID, p model.BoardPatch) (model.Board, error)
	// Delete removes the board and everything it owns.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberRepository stores (board, user) role associations.
type MemberRepository interface {
	// List returns members of a board with their account details.
	List(ctx context.Context, boardID uuid.UUID) ([]model.Member, error)
	// Get loads a member record by ID.
	Get(ctx context.Context, id uuid.UUID) (model.Member, error)
	// Invite creates the membership or reports whether it already held role.
	Invite(ctx context.Context, boardID, userID uuid.UUID, role model.Role) (model.Member, model.InviteStatus, error)
	// SetRole changes the role of a member record.
	SetRole(ctx context.Context, id uuid.UUID, role model.Role) (model.Member, error)
	// Delete removes a member record.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShareRepository drives the share-token state machine of a board.
// Token values are generated by the caller.
type ShareRepository interface {
	// Enable turns sharing on with token, or returns the current token if already enabled.
	Enable(ctx context.Context, boardID uuid.UUID, token string) (model.ShareStatus, error)
	// Rotate replaces the token of an enabled board.
	Rotate(ctx context.Context, boardID uuid.UUID, token string) (model.ShareStatus, error)
	// Disable turns sharing off and overwrites the token with discard.
	Disable(ctx context.Context, boardID uuid.UUID, discard string) (model.ShareStatus, error)
	// Resolve returns the read-only snapshot of the enabled board holding token.
	Resolve(ctx context.Context, token string) (model.SharedBoard, error)
}
