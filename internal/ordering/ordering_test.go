package ordering

import (
	"slices"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/travel-kanban/internal/errs"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSiblings(n int) []Sibling {
	out := make([]Sibling, n)
	for i := range out {
		out[i] = Sibling{
			ID:        uuid.Must(uuid.NewV4()),
			Position:  int64(i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

// apply writes a plan back onto a sibling set, adding subject when it is new.
func apply(sibs []Sibling, p Plan, subject *Sibling) []Sibling {
	out := slices.Clone(sibs)
	for _, u := range p.Updates {
		for i := range out {
			if out[i].ID == u.ID {
				out[i].Position = u.Position
			}
		}
	}
	if subject != nil {
		found := false
		for i := range out {
			if out[i].ID == subject.ID {
				out[i].Position = p.Position
				found = true
			}
		}
		if !found {
			s := *subject
			s.Position = p.Position
			out = append(out, s)
		}
	}
	return out
}

func requireStrictOrder(t *testing.T, sibs []Sibling) {
	t.Helper()
	sorted := Sorted(sibs)
	for i := 1; i < len(sorted); i++ {
		require.Negative(t, Compare(sorted[i-1], sorted[i]), "siblings %d and %d compare equal or reversed", i-1, i)
		require.Less(t, sorted[i-1].Position, sorted[i].Position, "positions must not collide after a plan")
	}
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(slices.Clone(ids), func(x uuid.UUID) bool { return x == id })
}

func TestCompare_TieBreaks(t *testing.T) {
	a := Sibling{ID: uuid.Must(uuid.FromString("00000000-0000-0000-0000-000000000001")), Position: 3, CreatedAt: base}
	b := Sibling{ID: uuid.Must(uuid.FromString("00000000-0000-0000-0000-000000000002")), Position: 3, CreatedAt: base}
	c := Sibling{ID: a.ID, Position: 3, CreatedAt: base.Add(-time.Second)}

	require.Negative(t, Compare(a, b), "equal position and time fall back to id")
	require.Positive(t, Compare(a, c), "earlier creation wins on equal position")
	require.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, IDs([]Sibling{b, a, c}))
}

func TestAppendPosition_KeepsAppendOrder(t *testing.T) {
	var sibs []Sibling
	var want []uuid.UUID
	for i := 0; i < 5; i++ {
		maxPos := int64(0)
		for _, s := range sibs {
			maxPos = max(maxPos, s.Position)
		}
		s := Sibling{ID: uuid.Must(uuid.NewV4()), Position: AppendPosition(maxPos, len(sibs)), CreatedAt: base}
		sibs = append(sibs, s)
		want = append(want, s.ID)
	}
	require.Equal(t, int64(1), sibs[0].Position)
	require.Equal(t, want, IDs(sibs))
	requireStrictOrder(t, sibs)
}

func TestPlanInsert_PlacesAtIndex(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for idx := 0; idx <= n+2; idx++ {
			sibs := newSiblings(n)
			before := IDs(sibs)
			e := Sibling{ID: uuid.Must(uuid.NewV4()), CreatedAt: base.Add(time.Hour)}

			p, err := PlanInsert(sibs, e.ID, idx)
			require.NoError(t, err)

			after := apply(sibs, p, &e)
			got := IDs(after)
			want := min(idx, n)
			require.Equal(t, want, slices.Index(got, e.ID), "n=%d idx=%d", n, idx)
			require.Equal(t, want, p.Index)
			require.Equal(t, before, without(got, e.ID), "relative order of others must not change")
			require.Equal(t, got, p.Order)
			requireStrictOrder(t, after)
		}
	}
}

func TestPlanInsert_NegativeIndex(t *testing.T) {
	_, err := PlanInsert(newSiblings(2), uuid.Must(uuid.NewV4()), -1)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestPlanInsert_RepairsDuplicatePositions(t *testing.T) {
	sibs := newSiblings(3)
	for i := range sibs {
		sibs[i].Position = 7
	}
	before := IDs(sibs)
	e := Sibling{ID: uuid.Must(uuid.NewV4()), CreatedAt: base.Add(time.Hour)}

	p, err := PlanInsert(sibs, e.ID, 1)
	require.NoError(t, err)
	after := apply(sibs, p, &e)

	require.Equal(t, []uuid.UUID{before[0], e.ID, before[1], before[2]}, IDs(after))
	requireStrictOrder(t, after)
}

func TestPlanMove_RoundTrip(t *testing.T) {
	const n = 5
	for old := 0; old < n; old++ {
		for idx := 0; idx < n+2; idx++ {
			sibs := newSiblings(n)
			orig := IDs(sibs)
			id := orig[old]

			p, err := PlanMove(sibs, id, idx)
			require.NoError(t, err)
			moved := apply(sibs, p, &Sibling{ID: id})
			require.Equal(t, min(idx, n-1), slices.Index(IDs(moved), id))
			require.Equal(t, without(orig, id), without(IDs(moved), id))
			requireStrictOrder(t, moved)

			back, err := PlanMove(moved, id, old)
			require.NoError(t, err)
			restored := apply(moved, back, &Sibling{ID: id})
			require.Equal(t, orig, IDs(restored), "old=%d idx=%d", old, idx)
		}
	}
}

func TestPlanMove_ShiftsOnlyTheRange(t *testing.T) {
	sibs := newSiblings(5)
	ids := IDs(sibs)

	// moving index 1 to 3 shifts the siblings at 2..3 toward 1
	p, err := PlanMove(sibs, ids[1], 3)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3], ids[1], ids[4]}, p.Order)
	require.Equal(t, []Assignment{{ID: ids[2], Position: 2}, {ID: ids[3], Position: 3}}, p.Updates)
	require.Equal(t, int64(4), p.Position)

	// moving index 3 to 0 shifts [0,3) away
	p, err = PlanMove(sibs, ids[3], 0)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{ids[3], ids[0], ids[1], ids[2], ids[4]}, p.Order)
	require.Len(t, p.Updates, 3)
}

func TestPlanMove_NoopAndErrors(t *testing.T) {
	sibs := newSiblings(3)
	ids := IDs(sibs)

	p, err := PlanMove(sibs, ids[2], 10)
	require.NoError(t, err)
	require.True(t, p.Noop, "clamped index equal to current index is a no-op")
	require.Empty(t, p.Updates)

	_, err = PlanMove(sibs, uuid.Must(uuid.NewV4()), 0)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = PlanMove(sibs, ids[0], -3)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestPlanRemove_ClosesGap(t *testing.T) {
	sibs := newSiblings(4)
	ids := IDs(sibs)

	p, err := PlanRemove(sibs, ids[1])
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3]}, p.Order)
	require.Equal(t, []Assignment{{ID: ids[2], Position: 2}, {ID: ids[3], Position: 3}}, p.Updates)

	_, err = PlanRemove(sibs, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCrossParentMove_Scenario(t *testing.T) {
	listA := newSiblings(2) // C1, C2
	var listB []Sibling
	c1 := listA[0]
	c2 := listA[1]

	out, err := PlanRemove(listA, c1.ID)
	require.NoError(t, err)
	in, err := PlanInsert(listB, c1.ID, 0)
	require.NoError(t, err)

	afterA := apply(slices.DeleteFunc(slices.Clone(listA), func(s Sibling) bool { return s.ID == c1.ID }), out, nil)
	afterB := apply(listB, in, &c1)

	require.Equal(t, []uuid.UUID{c2.ID}, IDs(afterA))
	require.Equal(t, []uuid.UUID{c1.ID}, IDs(afterB))
	require.Equal(t, len(listA)+len(listB), len(afterA)+len(afterB), "moves conserve entities")
}

func TestCrossParentMove_ClampsToTargetCount(t *testing.T) {
	target := newSiblings(2)
	e := Sibling{ID: uuid.Must(uuid.NewV4()), CreatedAt: base}

	p, err := PlanInsert(target, e.ID, 99)
	require.NoError(t, err)
	require.Equal(t, 2, p.Index)
	require.Equal(t, int64(3), p.Position)
	require.Empty(t, p.Updates)
}

func TestPlanBulk(t *testing.T) {
	sibs := newSiblings(4)
	ids := IDs(sibs)
	foreign := uuid.Must(uuid.NewV4())

	p, err := PlanBulk(sibs, []uuid.UUID{ids[3], foreign, ids[1]})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{ids[3], ids[1], ids[0], ids[2]}, p.Order,
		"omitted siblings keep relative order after the placed ones")
	requireStrictOrder(t, apply(sibs, p, nil))

	p, err = PlanBulk(sibs, []uuid.UUID{ids[2], ids[1], ids[0]})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0], ids[3]}, p.Order)

	p, err = PlanBulk(sibs, ids)
	require.NoError(t, err)
	require.True(t, p.Noop)

	_, err = PlanBulk(sibs, []uuid.UUID{ids[0], ids[0]})
	require.ErrorIs(t, err, errs.ErrValidation)
}
