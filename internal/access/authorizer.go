package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// Resolver loads the facts the policy needs.
type Resolver interface {
	// OwningBoard returns the board that ultimately owns ref (errs.ErrNotFound if missing).
	OwningBoard(ctx context.Context, ref Ref) (model.Board, error)
	// MemberRole returns the recorded member role (errs.ErrNotFound if not a member).
	MemberRole(ctx context.Context, boardID, userID uuid.UUID) (model.Role, error)
}

// Grant is an admitted request: the resolved board and the caller's role on it.
type Grant struct {
	Board model.Board
	Role  model.Role
}

// Authorizer combines role resolution with the policy.
type Authorizer struct {
	r Resolver
}

// NewAuthorizer constructs an Authorizer over r.
func NewAuthorizer(r Resolver) *Authorizer { return &Authorizer{r: r} }

// RoleOf resolves the user's role on board: owner by board ownership, otherwise the member
// record, otherwise none.
func (a *Authorizer) RoleOf(ctx context.Context, userID uuid.UUID, board model.Board) (model.Role, error) {
	if userID == uuid.Nil {
		return model.RoleNone, nil
	}
	if board.OwnerID == userID {
		return model.RoleOwner, nil
	}
	role, err := a.r.MemberRole(ctx, board.ID, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.RoleNone, nil
	}
	if err != nil {
		return model.RoleNone, err
	}
	return role, nil
}

// Authorize resolves ref to its board and admits or denies action for userID.
func (a *Authorizer) Authorize(ctx context.Context, userID uuid.UUID, ref Ref, action Action) (Grant, error) {
	board, err := a.r.OwningBoard(ctx, ref)
	if err != nil {
		return Grant{}, fmt.Errorf("%s: %w", ref.Kind, err)
	}
	role, err := a.RoleOf(ctx, userID, board)
	if err != nil {
		return Grant{}, err
	}
	if !Can(role, action) {
		return Grant{}, fmt.Errorf("%w: %s requires more than %q", errs.ErrPermissionDenied, action, role)
	}
	return Grant{Board: board, Role: role}, nil
}
