package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

var boardCols = []string{"id", "title", "description", "owner_id", "currency", "budget", "start_date", "end_date",
	"status", "is_favorite", "share_token", "is_shared", "created_at", "updated_at"}

func boardRow(id, owner uuid.UUID) *pgxmock.Rows {
	return pgxmock.NewRows(boardCols).
		AddRow(id, "Lisbon", "spring trip", owner, "EUR", "1200.00", nil, nil, model.StatusActive, true, "tok", false, t0, t0)
}

func TestBoardRepo_Create_WritesOwnerMembership(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	b := &model.Board{ID: newID(), Title: "Lisbon", OwnerID: newID(), Currency: "EUR",
		Budget: decimal.RequireFromString("1200"), Status: model.StatusPlanning, ShareToken: "tok"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertBoardSQL)).
		WithArgs(b.ID, "Lisbon", "", b.OwnerID, "EUR", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			model.StatusPlanning, false, "tok").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(t0, t0))
	mock.ExpectExec(regexp.QuoteMeta(insertOwnerSQL)).
		WithArgs(pgxmock.AnyArg(), b.ID, b.OwnerID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Create(context.Background(), b))
	require.Equal(t, t0, b.CreatedAt)
}

func TestBoardRepo_Create_UnknownOwner(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	b := &model.Board{ID: newID(), Title: "x", OwnerID: newID(), Currency: "USD", Status: model.StatusPlanning, ShareToken: "tok"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertBoardSQL)).
		WithArgs(b.ID, "x", "", b.OwnerID, "USD", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			model.StatusPlanning, false, "tok").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	require.ErrorIs(t, r.Create(context.Background(), b), errs.ErrNotFound)
}

func TestBoardRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	id, owner := newID(), newID()

	mock.ExpectQuery(regexp.QuoteMeta(boardByIDSQL)).WithArgs(id).WillReturnRows(boardRow(id, owner))
	b, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, owner, b.OwnerID)
	require.Equal(t, "EUR", b.Currency)
	require.True(t, decimal.RequireFromString("1200").Equal(b.Budget))
	require.Nil(t, b.StartDate)
	require.Equal(t, model.StatusActive, b.Status)
	require.True(t, b.Favorite)

	mock.ExpectQuery(regexp.QuoteMeta(boardByIDSQL)).WithArgs(id).WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBoardRepo_OwningBoard_ResolvesEveryKind(t *testing.T) {
	for _, kind := range []access.Kind{
		access.KindBoard, access.KindList, access.KindCard, access.KindMember, access.KindExpense, access.KindLocation,
	} {
		t.Run(string(kind), func(t *testing.T) {
			db, mock := newDB(t)
			r := NewBoardRepo(db)
			boardID, owner, ref := newID(), newID(), newID()

			mock.ExpectQuery(regexp.QuoteMeta(owningBoardSQL[kind])).WithArgs(ref).WillReturnRows(boardRow(boardID, owner))
			b, err := r.OwningBoard(context.Background(), access.Ref{Kind: kind, ID: ref})
			require.NoError(t, err)
			require.Equal(t, boardID, b.ID)
		})
	}
}

func TestBoardRepo_OwningBoard_Missing(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	cardID := newID()

	mock.ExpectQuery(regexp.QuoteMeta(owningBoardSQL[access.KindCard])).WithArgs(cardID).WillReturnError(pgx.ErrNoRows)
	_, err := r.OwningBoard(context.Background(), access.Card(cardID))
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = r.OwningBoard(context.Background(), access.Ref{Kind: "comment", ID: cardID})
	require.Error(t, err)
}

func TestBoardRepo_MemberRole(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	boardID, userID := newID(), newID()

	mock.ExpectQuery(regexp.QuoteMeta(memberRoleSQL)).WithArgs(boardID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("viewer"))
	role, err := r.MemberRole(context.Background(), boardID, userID)
	require.NoError(t, err)
	require.Equal(t, model.RoleViewer, role)

	mock.ExpectQuery(regexp.QuoteMeta(memberRoleSQL)).WithArgs(boardID, userID).WillReturnError(pgx.ErrNoRows)
	_, err = r.MemberRole(context.Background(), boardID, userID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBoardRepo_ListForUser_And_Delete(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	userID, boardID := newID(), newID()

	mock.ExpectQuery(regexp.QuoteMeta(boardsOfUserSQL)).WithArgs(userID).WillReturnRows(boardRow(boardID, userID))
	bs, err := r.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, bs, 1)

	mock.ExpectExec(regexp.QuoteMeta(deleteBoardSQL)).WithArgs(boardID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(context.Background(), boardID), errs.ErrNotFound)
}

func TestBoardRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	r := NewBoardRepo(db)
	id, owner := newID(), newID()
	title := "Lisbon"
	st, fav := model.StatusActive, true

	mock.ExpectQuery(regexp.QuoteMeta(updateBoardSQL)).
		WithArgs(id, &title, (*string)(nil), (*decimal.Decimal)(nil), pgxmock.AnyArg(), pgxmock.AnyArg(), &st, &fav).
		WillReturnRows(boardRow(id, owner))
	b, err := r.Update(context.Background(), id, model.BoardPatch{Title: &title, Status: &st, Favorite: &fav})
	require.NoError(t, err)
	require.Equal(t, "Lisbon", b.Title)
	require.Equal(t, model.StatusActive, b.Status)
}
