// Package ordering implements the sibling-order rules shared by lists within a board and
// cards within a list.
//
// The authoritative order is (position ASC, created_at ASC, id ASC). Positions may contain
// gaps or duplicates; every mutation produces a plan that renumbers the affected sibling set
// densely as 1..N so that the stored positions never collide afterwards.
package ordering

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/errs"
)

// Sibling is the ordering key of one entity under a parent.
type Sibling struct {
	ID        uuid.UUID
	Position  int64
	CreatedAt time.Time
}

// Assignment sets a new position for an existing sibling.
type Assignment struct {
	ID       uuid.UUID
	Position int64
}

// Plan is the outcome of an ordering operation on one parent.
type Plan struct {
	Order    []uuid.UUID  // final sibling order, subject included when it stays under the parent
	Updates  []Assignment // existing siblings (subject excluded) whose stored position changes
	Index    int          // final index of the subject
	Position int64        // final position of the subject
	Noop     bool         // nothing to write
}

// Compare orders a and b by position, then creation time, then id.
func Compare(a, b Sibling) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID.Bytes(), b.ID.Bytes())
}

// Sorted returns a copy of siblings in authoritative order.
func Sorted(siblings []Sibling) []Sibling {
	out := slices.Clone(siblings)
	slices.SortFunc(out, Compare)
	return out
}

// IDs returns the ids of siblings in authoritative order.
func IDs(siblings []Sibling) []uuid.UUID {
	sorted := Sorted(siblings)
	out := make([]uuid.UUID, len(sorted))
	for i, s := range sorted {
		out[i] = s.ID
	}
	return out
}

// AppendPosition returns the position for a new last sibling given the current maximum.
func AppendPosition(maxPos int64, count int) int64 {
	if count == 0 {
		return 1
	}
	return maxPos + 1
}

// CheckIndex rejects negative target indices. Out-of-range non-negative indices are clamped
// by the planners instead.
func CheckIndex(index int) error {
	if index < 0 {
		return errs.Invalid("index", "must not be negative")
	}
	return nil
}

// PlanInsert places a new entity id at index among siblings (which must not contain id).
func PlanInsert(siblings []Sibling, id uuid.UUID, index int) (Plan, error) {
	if err := CheckIndex(index); err != nil {
		return Plan{}, err
	}
	order := IDs(siblings)
	index = min(index, len(order))
	order = slices.Insert(order, index, id)
	return renumber(siblings, order, id, index), nil
}

// PlanMove repositions an existing sibling id at newIndex under the same parent.
func PlanMove(siblings []Sibling, id uuid.UUID, newIndex int) (Plan, error) {
	if err := CheckIndex(newIndex); err != nil {
		return Plan{}, err
	}
	order := IDs(siblings)
	old := slices.Index(order, id)
	if old < 0 {
		return Plan{}, errs.ErrNotFound
	}
	newIndex = min(newIndex, len(order)-1)
	if newIndex == old {
		return Plan{Order: order, Index: old, Position: positionOf(siblings, id), Noop: true}, nil
	}
	order = slices.Delete(order, old, old+1)
	order = slices.Insert(order, newIndex, id)
	return renumber(siblings, order, id, newIndex), nil
}

// PlanRemove closes the gap left by id leaving the parent.
func PlanRemove(siblings []Sibling, id uuid.UUID) (Plan, error) {
	order := IDs(siblings)
	old := slices.Index(order, id)
	if old < 0 {
		return Plan{}, errs.ErrNotFound
	}
	order = slices.Delete(order, old, old+1)
	p := renumber(siblings, order, uuid.Nil, -1)
	p.Index = old
	return p, nil
}

// PlanBulk applies an explicit (full or partial) permutation. Ids that are not siblings are
// ignored; siblings missing from ids keep their relative order after the placed ones.
// Duplicate ids make the payload malformed.
func PlanBulk(siblings []Sibling, ids []uuid.UUID) (Plan, error) {
	current := IDs(siblings)
	member := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		member[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	order := make([]uuid.UUID, 0, len(current))
	for _, id := range ids {
		if seen[id] {
			return Plan{}, errs.Invalid("ordered_ids", "duplicate id "+id.String())
		}
		seen[id] = true
		if member[id] {
			order = append(order, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			order = append(order, id)
		}
	}
	p := renumber(siblings, order, uuid.Nil, -1)
	p.Noop = len(p.Updates) == 0
	return p, nil
}

// renumber assigns 1..N along order and collects the changes for existing siblings
// other than subject.
func renumber(siblings []Sibling, order []uuid.UUID, subject uuid.UUID, index int) Plan {
	stored := make(map[uuid.UUID]int64, len(siblings))
	for _, s := range siblings {
		stored[s.ID] = s.Position
	}
	p := Plan{Order: order, Index: index}
	for i, id := range order {
		pos := int64(i + 1)
		if id == subject {
			p.Position = pos
			continue
		}
		if cur, ok := stored[id]; !ok || cur != pos {
			p.Updates = append(p.Updates, Assignment{ID: id, Position: pos})
		}
	}
	return p
}

func positionOf(siblings []Sibling, id uuid.UUID) int64 {
	for _, s := range siblings {
		if s.ID == id {
			return s.Position
		}
	}
	return 0
}
