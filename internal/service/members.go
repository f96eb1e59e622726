package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/repository"
)

// MemberService manages the collaborators of a board. Only the owner may change them.
type MemberService interface {
	List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Member, error)
	// Invite gives the user behind email a role on the board. Repeating an invite with the
	// same role reports model.InviteAlreadyExists instead of failing.
	Invite(ctx context.Context, userID, boardID uuid.UUID, in InviteInput) (model.Member, model.InviteStatus, error)
	ChangeRole(ctx context.Context, userID, memberID uuid.UUID, role model.Role) (model.Member, error)
	Remove(ctx context.Context, userID, memberID uuid.UUID) error
}

// InviteInput names the invited account and its role.
type InviteInput struct {
	Email string     `json:"email" validate:"required,email"`
	Role  model.Role `json:"role" validate:"required,oneof=owner editor viewer"`
}

type MemberServiceImpl struct {
	members repository.MemberRepository
	users   repository.UserRepository
	auth    *access.Authorizer
}

// NewMemberService constructs MemberService.
func NewMemberService(boards repository.BoardRepository, members repository.MemberRepository, users repository.UserRepository) *MemberServiceImpl {
	return &MemberServiceImpl{members: members, users: users, auth: access.NewAuthorizer(boards)}
}

func (s *MemberServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Member, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return nil, err
	}
	return s.members.List(ctx, boardID)
}

func (s *MemberServiceImpl) Invite(ctx context.Context, userID, boardID uuid.UUID, in InviteInput) (model.Member, model.InviteStatus, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := checkInput(in); err != nil {
		return model.Member{}, "", err
	}
	g, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionManageMembers)
	if err != nil {
		return model.Member{}, "", err
	}
	target, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return model.Member{}, "", err
	}
	if err := checkRole(g.Board, target.ID, in.Role); err != nil {
		return model.Member{}, "", err
	}
	return s.members.Invite(ctx, boardID, target.ID, in.Role)
}

// ChangeRole re-roles a member. Giving the owner the owner role again is a no-op.
func (s *MemberServiceImpl) ChangeRole(ctx context.Context, userID, memberID uuid.UUID, role model.Role) (model.Member, error) {
	if !role.Valid() {
		return model.Member{}, errs.Invalid("role", "must be one of: owner editor viewer")
	}
	g, err := s.auth.Authorize(ctx, userID, access.Member(memberID), access.ActionManageMembers)
	if err != nil {
		return model.Member{}, err
	}
	m, err := s.members.Get(ctx, memberID)
	if err != nil {
		return model.Member{}, err
	}
	if err := checkRole(g.Board, m.UserID, role); err != nil {
		return model.Member{}, err
	}
	if m.Role == role {
		return m, nil
	}
	return s.members.SetRole(ctx, memberID, role)
}

// Remove deletes a membership. The owner's membership cannot be removed.
func (s *MemberServiceImpl) Remove(ctx context.Context, userID, memberID uuid.UUID) error {
	g, err := s.auth.Authorize(ctx, userID, access.Member(memberID), access.ActionManageMembers)
	if err != nil {
		return err
	}
	m, err := s.members.Get(ctx, memberID)
	if err != nil {
		return err
	}
	if m.UserID == g.Board.OwnerID {
		return errs.Invalid("member", "the owner's membership cannot be removed")
	}
	return s.members.Delete(ctx, memberID)
}

// checkRole enforces that exactly the board owner holds the owner role.
func checkRole(board model.Board, userID uuid.UUID, role model.Role) error {
	isOwner := userID == board.OwnerID
	switch {
	case role == model.RoleOwner && !isOwner:
		return errs.Invalid("role", "only the board owner can hold the owner role")
	case role != model.RoleOwner && isOwner:
		return errs.Invalid("role", "the owner cannot be demoted")
	}
	return nil
}
