package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/access"
	pkgcrypto "github.com/and161185/travel-kanban/internal/crypto"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/repository"
)

// ShareService drives the public read-only link of a board.
type ShareService interface {
	Enable(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error)
	Rotate(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error)
	Disable(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error)
	// Resolve needs no user: the token is the credential.
	Resolve(ctx context.Context, token string) (model.SharedBoard, error)
}

type ShareServiceImpl struct {
	shares   repository.ShareRepository
	auth     *access.Authorizer
	newToken func() (string, error)
}

// NewShareService constructs ShareService.
func NewShareService(boards repository.BoardRepository, shares repository.ShareRepository) *ShareServiceImpl {
	return &ShareServiceImpl{shares: shares, auth: access.NewAuthorizer(boards), newToken: pkgcrypto.NewToken}
}

// Enable turns sharing on. On an enabled board it returns the current token with
// AlreadyEnabled set.
func (s *ShareServiceImpl) Enable(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error) {
	tok, err := s.admit(ctx, userID, boardID)
	if err != nil {
		return model.ShareStatus{}, err
	}
	return s.shares.Enable(ctx, boardID, tok)
}

// Rotate replaces the token; the previous one stops resolving immediately.
func (s *ShareServiceImpl) Rotate(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error) {
	tok, err := s.admit(ctx, userID, boardID)
	if err != nil {
		return model.ShareStatus{}, err
	}
	return s.shares.Rotate(ctx, boardID, tok)
}

// Disable turns sharing off and overwrites the token with a value nobody has seen.
func (s *ShareServiceImpl) Disable(ctx context.Context, userID, boardID uuid.UUID) (model.ShareStatus, error) {
	tok, err := s.admit(ctx, userID, boardID)
	if err != nil {
		return model.ShareStatus{}, err
	}
	st, err := s.shares.Disable(ctx, boardID, tok)
	if err != nil {
		return model.ShareStatus{}, err
	}
	st.Token = ""
	return st, nil
}

func (s *ShareServiceImpl) Resolve(ctx context.Context, token string) (model.SharedBoard, error) {
	if token == "" {
		return model.SharedBoard{}, errs.ErrNotFound
	}
	return s.shares.Resolve(ctx, token)
}

// admit checks the owner-only share permission and prepares a fresh token.
func (s *ShareServiceImpl) admit(ctx context.Context, userID, boardID uuid.UUID) (string, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionManageShare); err != nil {
		return "", err
	}
	return s.newToken()
}
