package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/ordering"
)

// ledger applies ordering plans to one sibling table. Every mutation locks the parent row
// first, so concurrent inserts and moves against the same parent serialize on it; the
// sibling rows are then read FOR UPDATE in authoritative order.
type ledger struct {
	lockParentSQL string
	siblingsSQL   string
	tailSQL       string
	setPosSQL     string
	parentOfSQL   string
	reparentSQL   string
}

func newLedger(table, parentTable, parentCol string) ledger {
	return ledger{
		lockParentSQL: fmt.Sprintf(`SELECT id FROM %s WHERE id=$1 FOR UPDATE`, parentTable),
		siblingsSQL: fmt.Sprintf(`SELECT id, position, created_at FROM %s WHERE %s=$1 ORDER BY position, created_at, id FOR UPDATE`,
			table, parentCol),
		tailSQL:     fmt.Sprintf(`SELECT COALESCE(MAX(position), 0), COUNT(*) FROM %s WHERE %s=$1`, table, parentCol),
		setPosSQL:   fmt.Sprintf(`UPDATE %s SET position=$2 WHERE id=$1`, table),
		parentOfSQL: fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, parentCol, table),
		reparentSQL: fmt.Sprintf(`UPDATE %s SET %s=$2, position=$3 WHERE id=$1`, table, parentCol),
	}
}

var (
	listLedger = newLedger("lists", "boards", "board_id")
	cardLedger = newLedger("cards", "lists", "list_id")
)

// maxOwnerAttempts bounds retries when an entity changes parent between read and lock.
const maxOwnerAttempts = 3

// lockParents locks the given parent rows in uuid byte order. Nil ids are skipped.
func (l ledger) lockParents(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) error {
	ids = slices.DeleteFunc(slices.Clone(ids), func(id uuid.UUID) bool { return id == uuid.Nil })
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a.Bytes(), b.Bytes()) })
	ids = slices.Compact(ids)
	for _, id := range ids {
		var got uuid.UUID
		err := tx.QueryRow(ctx, l.lockParentSQL, id).Scan(&got)
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l ledger) siblings(ctx context.Context, tx pgx.Tx, parentID uuid.UUID) ([]ordering.Sibling, error) {
	rows, err := tx.Query(ctx, l.siblingsSQL, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ordering.Sibling
	for rows.Next() {
		var s ordering.Sibling
		if err := rows.Scan(&s.ID, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (l ledger) write(ctx context.Context, tx pgx.Tx, updates []ordering.Assignment) error {
	for _, u := range updates {
		if _, err := tx.Exec(ctx, l.setPosSQL, u.ID, u.Position); err != nil {
			return err
		}
	}
	return nil
}

func (l ledger) parentOf(ctx context.Context, tx pgx.Tx, id uuid.UUID) (uuid.UUID, error) {
	var p uuid.UUID
	err := tx.QueryRow(ctx, l.parentOfSQL, id).Scan(&p)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, errs.ErrNotFound
	}
	return p, err
}

// lockOwner locks the current parent of id (plus extra) and returns that parent.
func (l ledger) lockOwner(ctx context.Context, tx pgx.Tx, id, extra uuid.UUID) (uuid.UUID, error) {
	for range maxOwnerAttempts {
		parent, err := l.parentOf(ctx, tx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if err := l.lockParents(ctx, tx, parent, extra); err != nil {
			return uuid.Nil, err
		}
		again, err := l.parentOf(ctx, tx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if again == parent {
			return parent, nil
		}
	}
	return uuid.Nil, fmt.Errorf("parent of %s changed during %d attempts", id, maxOwnerAttempts)
}

// place reserves the position of a new entity under parentID: last when index is nil,
// otherwise at the clamped index with the following siblings shifted.
func (l ledger) place(ctx context.Context, tx pgx.Tx, parentID, id uuid.UUID, index *int) (int64, error) {
	if index != nil {
		if err := ordering.CheckIndex(*index); err != nil {
			return 0, err
		}
	}
	if err := l.lockParents(ctx, tx, parentID); err != nil {
		return 0, err
	}
	if index == nil {
		var maxPos, count int64
		if err := tx.QueryRow(ctx, l.tailSQL, parentID).Scan(&maxPos, &count); err != nil {
			return 0, err
		}
		return ordering.AppendPosition(maxPos, int(count)), nil
	}
	sibs, err := l.siblings(ctx, tx, parentID)
	if err != nil {
		return 0, err
	}
	plan, err := ordering.PlanInsert(sibs, id, *index)
	if err != nil {
		return 0, err
	}
	if err := l.write(ctx, tx, plan.Updates); err != nil {
		return 0, err
	}
	return plan.Position, nil
}

// move repositions id at index under to, or under its current parent when to is Nil.
// A non-Nil declared parent must match the current one.
func (l ledger) move(ctx context.Context, tx pgx.Tx, id, declared, to uuid.UUID, index int) (model.Placement, error) {
	if err := ordering.CheckIndex(index); err != nil {
		return model.Placement{}, err
	}
	from, err := l.lockOwner(ctx, tx, id, to)
	if err != nil {
		return model.Placement{}, err
	}
	if declared != uuid.Nil && declared != from {
		return model.Placement{}, errs.ErrNotFound
	}
	if to == uuid.Nil || to == from {
		return l.moveWithin(ctx, tx, id, from, index)
	}
	return l.moveAcross(ctx, tx, id, from, to, index)
}

func (l ledger) moveWithin(ctx context.Context, tx pgx.Tx, id, parent uuid.UUID, index int) (model.Placement, error) {
	sibs, err := l.siblings(ctx, tx, parent)
	if err != nil {
		return model.Placement{}, err
	}
	plan, err := ordering.PlanMove(sibs, id, index)
	if err != nil {
		return model.Placement{}, err
	}
	at := model.Placement{ParentID: parent, Index: plan.Index, Position: plan.Position}
	if plan.Noop {
		return at, nil
	}
	updates := append(plan.Updates, ordering.Assignment{ID: id, Position: plan.Position})
	return at, l.write(ctx, tx, updates)
}

func (l ledger) moveAcross(ctx context.Context, tx pgx.Tx, id, from, to uuid.UUID, index int) (model.Placement, error) {
	src, err := l.siblings(ctx, tx, from)
	if err != nil {
		return model.Placement{}, err
	}
	dst, err := l.siblings(ctx, tx, to)
	if err != nil {
		return model.Placement{}, err
	}
	out, err := ordering.PlanRemove(src, id)
	if err != nil {
		return model.Placement{}, err
	}
	in, err := ordering.PlanInsert(dst, id, index)
	if err != nil {
		return model.Placement{}, err
	}
	if err := l.write(ctx, tx, out.Updates); err != nil {
		return model.Placement{}, err
	}
	if _, err := tx.Exec(ctx, l.reparentSQL, id, to, in.Position); err != nil {
		return model.Placement{}, err
	}
	if err := l.write(ctx, tx, in.Updates); err != nil {
		return model.Placement{}, err
	}
	return model.Placement{ParentID: to, Index: in.Index, Position: in.Position}, nil
}

// reorder applies an explicit permutation to the children of parentID and returns the
// resulting order.
func (l ledger) reorder(ctx context.Context, tx pgx.Tx, parentID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := l.lockParents(ctx, tx, parentID); err != nil {
		return nil, err
	}
	sibs, err := l.siblings(ctx, tx, parentID)
	if err != nil {
		return nil, err
	}
	plan, err := ordering.PlanBulk(sibs, ids)
	if err != nil {
		return nil, err
	}
	if plan.Noop {
		return plan.Order, nil
	}
	return plan.Order, l.write(ctx, tx, plan.Updates)
}
