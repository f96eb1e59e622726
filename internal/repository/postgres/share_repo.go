package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// ShareRepo implements ShareRepository using PostgreSQL. Transitions lock the board row,
// and the token and flag always change in one UPDATE, so a resolver never sees a mix of
// old and new state.
type ShareRepo struct{ db *DB }

// NewShareRepo constructs a share repository.
func NewShareRepo(db *DB) *ShareRepo { return &ShareRepo{db: db} }

const (
	lockShareSQL  = `SELECT is_shared, share_token FROM boards WHERE id=$1 FOR UPDATE`
	setShareSQL   = `UPDATE boards SET share_token=$2, is_shared=$3, updated_at=now() WHERE id=$1`
	sharedHeadSQL = `SELECT id, title, description, currency, start_date, end_date FROM boards
WHERE share_token=$1 AND is_shared`
	sharedCardsSQL = `SELECT c.id, c.list_id, c.title, c.description, c.category, c.position, c.due_date, c.budget, c.people, c.created_at
FROM cards c JOIN lists l ON l.id = c.list_id
WHERE l.board_id=$1 ORDER BY c.position, c.created_at, c.id`
)

// snapshotTx reads the shared view from a single snapshot.
var snapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// Enable turns sharing on. An enabled board keeps its token and reports AlreadyEnabled.
func (r *ShareRepo) Enable(ctx context.Context, boardID uuid.UUID, token string) (st model.ShareStatus, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		shared, cur, err := lockShare(ctx, tx, boardID)
		if err != nil {
			return err
		}
		if shared {
			st = model.ShareStatus{Token: cur, Enabled: true, AlreadyEnabled: true}
			return nil
		}
		if _, err := tx.Exec(ctx, setShareSQL, boardID, token, true); err != nil {
			return err
		}
		st = model.ShareStatus{Token: token, Enabled: true}
		return nil
	})
	return st, err
}

// Rotate swaps the token of an enabled board; the old token stops resolving at commit.
func (r *ShareRepo) Rotate(ctx context.Context, boardID uuid.UUID, token string) (st model.ShareStatus, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		shared, _, err := lockShare(ctx, tx, boardID)
		if err != nil {
			return err
		}
		if !shared {
			return errs.Invalid("share", "sharing is not enabled")
		}
		if _, err := tx.Exec(ctx, setShareSQL, boardID, token, true); err != nil {
			return err
		}
		st = model.ShareStatus{Token: token, Enabled: true}
		return nil
	})
	return st, err
}

// Disable clears the flag and overwrites the token with discard. Disabled boards are left
// untouched.
func (r *ShareRepo) Disable(ctx context.Context, boardID uuid.UUID, discard string) (st model.ShareStatus, err error) {
	err = r.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		shared, _, err := lockShare(ctx, tx, boardID)
		if err != nil || !shared {
			return err
		}
		_, err = tx.Exec(ctx, setShareSQL, boardID, discard, false)
		return err
	})
	return model.ShareStatus{}, err
}

// Resolve returns the public snapshot of the enabled board holding token. Unknown and
// disabled tokens are both ErrNotFound.
func (r *ShareRepo) Resolve(ctx context.Context, token string) (sb model.SharedBoard, err error) {
	err = r.db.inTx(ctx, snapshotTx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, sharedHeadSQL, token).Scan(
			&sb.ID, &sb.Title, &sb.Description, &sb.Currency, &sb.StartDate, &sb.EndDate)
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		if err != nil {
			return err
		}
		lists, err := queryLists(ctx, tx, listsOfSQL, sb.ID)
		if err != nil {
			return err
		}
		cards, err := queryCards(ctx, tx, sharedCardsSQL, sb.ID)
		if err != nil {
			return err
		}
		byList := make(map[uuid.UUID][]model.Card, len(lists))
		for _, c := range cards {
			byList[c.ListID] = append(byList[c.ListID], c)
		}
		sb.Lists = make([]model.SharedList, 0, len(lists))
		for _, l := range lists {
			cs := byList[l.ID]
			if cs == nil {
				cs = []model.Card{}
			}
			sb.Lists = append(sb.Lists, model.SharedList{List: l, Cards: cs})
		}
		return nil
	})
	if err != nil {
		return model.SharedBoard{}, err
	}
	return sb, nil
}

func lockShare(ctx context.Context, tx pgx.Tx, boardID uuid.UUID) (bool, string, error) {
	var (
		shared bool
		token  string
	)
	err := tx.QueryRow(ctx, lockShareSQL, boardID).Scan(&shared, &token)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, "", errs.ErrNotFound
	}
	return shared, token, err
}
