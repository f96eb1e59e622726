package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

func TestShare_StateMachine(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	b := e.board(t, owner)
	l := e.list(t, owner, b.ID, "To Plan")
	e.card(t, owner, l.ID, "Flights", "300.00")

	_, err := e.shares.Rotate(ctx, owner, b.ID)
	require.ErrorIs(t, err, errs.ErrValidation, "rotate needs sharing on")

	first, err := e.shares.Enable(ctx, owner, b.ID)
	require.NoError(t, err)
	require.True(t, first.Enabled)
	require.False(t, first.AlreadyEnabled)
	require.NotEmpty(t, first.Token)

	again, err := e.shares.Enable(ctx, owner, b.ID)
	require.NoError(t, err)
	require.True(t, again.AlreadyEnabled)
	require.Equal(t, first.Token, again.Token)

	sb, err := e.shares.Resolve(ctx, first.Token)
	require.NoError(t, err)
	require.Equal(t, b.ID, sb.ID)
	require.Len(t, sb.Lists, 1)
	require.Len(t, sb.Lists[0].Cards, 1)

	rotated, err := e.shares.Rotate(ctx, owner, b.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, rotated.Token)

	_, err = e.shares.Resolve(ctx, first.Token)
	require.ErrorIs(t, err, errs.ErrNotFound, "old token dies on rotate")
	_, err = e.shares.Resolve(ctx, rotated.Token)
	require.NoError(t, err)

	off, err := e.shares.Disable(ctx, owner, b.ID)
	require.NoError(t, err)
	require.False(t, off.Enabled)
	require.Empty(t, off.Token)

	for _, tok := range []string{first.Token, rotated.Token, ""} {
		_, err = e.shares.Resolve(ctx, tok)
		require.ErrorIs(t, err, errs.ErrNotFound)
	}
	require.NotEqual(t, rotated.Token, e.st.boards[b.ID].ShareToken, "disable overwrites the token")

	_, err = e.shares.Disable(ctx, owner, b.ID)
	require.NoError(t, err, "disabling twice is a no-op")
}

func TestShare_OwnerOnly(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	b := e.board(t, owner)
	editor := e.join(t, b, "editor@example.com", model.RoleEditor)

	_, err := e.shares.Enable(ctx, editor, b.ID)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	_, err = e.shares.Disable(ctx, editor, b.ID)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	require.False(t, e.st.boards[b.ID].Shared)
}
