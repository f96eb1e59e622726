package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

func expectShareState(mock pgxmock.PgxPoolIface, boardID any, shared bool, token string) {
	mock.ExpectQuery(regexp.QuoteMeta(lockShareSQL)).WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"is_shared", "share_token"}).AddRow(shared, token))
}

func TestShareRepo_Enable(t *testing.T) {
	db, mock := newDB(t)
	r := NewShareRepo(db)
	boardID := newID()

	mock.ExpectBegin()
	expectShareState(mock, boardID, false, "discarded")
	mock.ExpectExec(regexp.QuoteMeta(setShareSQL)).WithArgs(boardID, "fresh", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	st, err := r.Enable(context.Background(), boardID, "fresh")
	require.NoError(t, err)
	require.Equal(t, model.ShareStatus{Token: "fresh", Enabled: true}, st)

	mock.ExpectBegin()
	expectShareState(mock, boardID, true, "fresh")
	mock.ExpectCommit()

	st, err = r.Enable(context.Background(), boardID, "other")
	require.NoError(t, err)
	require.Equal(t, model.ShareStatus{Token: "fresh", Enabled: true, AlreadyEnabled: true}, st)
}

func TestShareRepo_Rotate(t *testing.T) {
	db, mock := newDB(t)
	r := NewShareRepo(db)
	boardID := newID()

	mock.ExpectBegin()
	expectShareState(mock, boardID, true, "old")
	mock.ExpectExec(regexp.QuoteMeta(setShareSQL)).WithArgs(boardID, "new", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	st, err := r.Rotate(context.Background(), boardID, "new")
	require.NoError(t, err)
	require.Equal(t, "new", st.Token)

	mock.ExpectBegin()
	expectShareState(mock, boardID, false, "x")
	mock.ExpectRollback()

	_, err = r.Rotate(context.Background(), boardID, "newer")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestShareRepo_Disable(t *testing.T) {
	db, mock := newDB(t)
	r := NewShareRepo(db)
	boardID := newID()

	mock.ExpectBegin()
	expectShareState(mock, boardID, true, "live")
	mock.ExpectExec(regexp.QuoteMeta(setShareSQL)).WithArgs(boardID, "discard", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	st, err := r.Disable(context.Background(), boardID, "discard")
	require.NoError(t, err)
	require.False(t, st.Enabled)

	// already disabled: nothing written
	mock.ExpectBegin()
	expectShareState(mock, boardID, false, "discard")
	mock.ExpectCommit()
	_, err = r.Disable(context.Background(), boardID, "discard2")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockShareSQL)).WithArgs(boardID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	_, err = r.Disable(context.Background(), boardID, "d")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestShareRepo_Resolve(t *testing.T) {
	db, mock := newDB(t)
	r := NewShareRepo(db)
	boardID, listA, listB, cardID := newID(), newID(), newID(), newID()

	mock.ExpectBeginTx(snapshotTx)
	mock.ExpectQuery(regexp.QuoteMeta(sharedHeadSQL)).WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "currency", "start_date", "end_date"}).
			AddRow(boardID, "Lisbon", "", "EUR", nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta(listsOfSQL)).WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "board_id", "title", "color", "position", "created_at"}).
			AddRow(listA, boardID, "To Plan", "blue", int64(1), t0).
			AddRow(listB, boardID, "Booked", "blue", int64(2), t0))
	mock.ExpectQuery(regexp.QuoteMeta(sharedCardsSQL)).WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "list_id", "title", "description", "category", "position", "due_date", "budget", "people", "created_at"}).
			AddRow(cardID, listB, "Hotel", "", "lodging", int64(1), nil, "300.00", 2, t0))
	mock.ExpectCommit()

	sb, err := r.Resolve(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, boardID, sb.ID)
	require.Len(t, sb.Lists, 2)
	require.Empty(t, sb.Lists[0].Cards)
	require.Equal(t, cardID, sb.Lists[1].Cards[0].ID)
}

func TestShareRepo_Resolve_UnknownOrDisabled(t *testing.T) {
	db, mock := newDB(t)
	r := NewShareRepo(db)

	mock.ExpectBeginTx(snapshotTx)
	mock.ExpectQuery(regexp.QuoteMeta(sharedHeadSQL)).WithArgs("gone").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Resolve(context.Background(), "gone")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
