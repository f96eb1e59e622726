package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/ordering"
	"github.com/and161185/travel-kanban/internal/repository"
)

// store is an in-memory board tree shared by the repository fakes below. Sibling order
// goes through the ordering package exactly like the postgres ledger does.
type store struct {
	mu        sync.Mutex
	clock     time.Time
	boards    map[uuid.UUID]*model.Board
	members   map[uuid.UUID]*model.Member
	lists     map[uuid.UUID]*model.List
	cards     map[uuid.UUID]*model.Card
	expenses  map[uuid.UUID]*model.Expense
	locations map[uuid.UUID]*model.Location
}

func newStore() *store {
	return &store{
		clock:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		boards:    map[uuid.UUID]*model.Board{},
		members:   map[uuid.UUID]*model.Member{},
		lists:     map[uuid.UUID]*model.List{},
		cards:     map[uuid.UUID]*model.Card{},
		expenses:  map[uuid.UUID]*model.Expense{},
		locations: map[uuid.UUID]*model.Location{},
	}
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) listSiblings(boardID uuid.UUID) []ordering.Sibling {
	var out []ordering.Sibling
	for _, l := range s.lists {
		if l.BoardID == boardID {
			out = append(out, ordering.Sibling{ID: l.ID, Position: l.Position, CreatedAt: l.CreatedAt})
		}
	}
	return out
}

func (s *store) cardSiblings(listID uuid.UUID) []ordering.Sibling {
	var out []ordering.Sibling
	for _, c := range s.cards {
		if c.ListID == listID {
			out = append(out, ordering.Sibling{ID: c.ID, Position: c.Position, CreatedAt: c.CreatedAt})
		}
	}
	return out
}

func (s *store) applyLists(p ordering.Plan) {
	for _, u := range p.Updates {
		s.lists[u.ID].Position = u.Position
	}
}

func (s *store) applyCards(p ordering.Plan) {
	for _, u := range p.Updates {
		s.cards[u.ID].Position = u.Position
	}
}

func (s *store) boardOfList(listID uuid.UUID) (uuid.UUID, bool) {
	l, ok := s.lists[listID]
	if !ok {
		return uuid.Nil, false
	}
	return l.BoardID, true
}

func (s *store) boardOf(ref access.Ref) (uuid.UUID, bool) {
	switch ref.Kind {
	case access.KindBoard:
		_, ok := s.boards[ref.ID]
		return ref.ID, ok
	case access.KindList:
		return s.boardOfList(ref.ID)
	case access.KindCard:
		c, ok := s.cards[ref.ID]
		if !ok {
			return uuid.Nil, false
		}
		return s.boardOfList(c.ListID)
	case access.KindMember:
		m, ok := s.members[ref.ID]
		if !ok {
			return uuid.Nil, false
		}
		return m.BoardID, true
	case access.KindExpense:
		e, ok := s.expenses[ref.ID]
		if !ok {
			return uuid.Nil, false
		}
		return e.BoardID, true
	case access.KindLocation:
		l, ok := s.locations[ref.ID]
		if !ok {
			return uuid.Nil, false
		}
		return l.BoardID, true
	}
	return uuid.Nil, false
}

func (s *store) memberOf(boardID, userID uuid.UUID) *model.Member {
	for _, m := range s.members {
		if m.BoardID == boardID && m.UserID == userID {
			return m
		}
	}
	return nil
}

// --- boards ---

type fakeBoards struct{ *store }

var _ repository.BoardRepository = fakeBoards{}

func (f fakeBoards) Create(_ context.Context, b *model.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.CreatedAt = f.tick()
	b.UpdatedAt = b.CreatedAt
	cpy := *b
	f.boards[b.ID] = &cpy
	id := uuid.Must(uuid.NewV4())
	f.members[id] = &model.Member{ID: id, BoardID: b.ID, UserID: b.OwnerID, Role: model.RoleOwner, CreatedAt: b.CreatedAt}
	return nil
}

func (f fakeBoards) Get(_ context.Context, id uuid.UUID) (model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[id]
	if !ok {
		return model.Board{}, errs.ErrNotFound
	}
	return *b, nil
}

func (f fakeBoards) ListForUser(_ context.Context, userID uuid.UUID) ([]model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Board{}
	for _, b := range f.boards {
		if b.OwnerID == userID || f.memberOf(b.ID, userID) != nil {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b model.Board) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f fakeBoards) Update(_ context.Context, id uuid.UUID, p model.BoardPatch) (model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[id]
	if !ok {
		return model.Board{}, errs.ErrNotFound
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Budget != nil {
		b.Budget = *p.Budget
	}
	if p.StartDate != nil {
		b.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = p.EndDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Favorite != nil {
		b.Favorite = *p.Favorite
	}
	b.UpdatedAt = f.tick()
	return *b, nil
}

func (f fakeBoards) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boards[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.boards, id)
	for mid, m := range f.members {
		if m.BoardID == id {
			delete(f.members, mid)
		}
	}
	for lid, l := range f.lists {
		if l.BoardID == id {
			delete(f.lists, lid)
			for cid, c := range f.cards {
				if c.ListID == lid {
					delete(f.cards, cid)
				}
			}
		}
	}
	return nil
}

func (f fakeBoards) OwningBoard(_ context.Context, ref access.Ref) (model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.boardOf(ref)
	if !ok {
		return model.Board{}, errs.ErrNotFound
	}
	b, ok := f.boards[id]
	if !ok {
		return model.Board{}, errs.ErrNotFound
	}
	return *b, nil
}

func (f fakeBoards) MemberRole(_ context.Context, boardID, userID uuid.UUID) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.memberOf(boardID, userID)
	if m == nil {
		return model.RoleNone, errs.ErrNotFound
	}
	return m.Role, nil
}

// --- members ---

type fakeMembers struct {
	*store
	users *fakeUsers
}

var _ repository.MemberRepository = fakeMembers{}

func (f fakeMembers) withAccount(m model.Member) model.Member {
	if u, err := f.users.GetByID(context.Background(), m.UserID); err == nil {
		m.Email, m.Username = u.Email, u.Username
	}
	return m
}

func (f fakeMembers) List(_ context.Context, boardID uuid.UUID) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Member{}
	for _, m := range f.members {
		if m.BoardID == boardID {
			out = append(out, f.withAccount(*m))
		}
	}
	slices.SortFunc(out, func(a, b model.Member) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (f fakeMembers) Get(_ context.Context, id uuid.UUID) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return model.Member{}, errs.ErrNotFound
	}
	return f.withAccount(*m), nil
}

func (f fakeMembers) Invite(_ context.Context, boardID, userID uuid.UUID, role model.Role) (model.Member, model.InviteStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m := f.memberOf(boardID, userID); m != nil {
		if m.Role == role {
			return f.withAccount(*m), model.InviteAlreadyExists, nil
		}
		m.Role = role
		return f.withAccount(*m), model.InviteUpdated, nil
	}
	id := uuid.Must(uuid.NewV4())
	m := &model.Member{ID: id, BoardID: boardID, UserID: userID, Role: role, CreatedAt: f.tick()}
	f.members[id] = m
	return f.withAccount(*m), model.InviteCreated, nil
}

func (f fakeMembers) SetRole(_ context.Context, id uuid.UUID, role model.Role) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return model.Member{}, errs.ErrNotFound
	}
	m.Role = role
	return f.withAccount(*m), nil
}

func (f fakeMembers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.members, id)
	return nil
}

// --- share ---

type fakeShares struct{ *store }

var _ repository.ShareRepository = fakeShares{}

func (f fakeShares) Enable(_ context.Context, boardID uuid.UUID, token string) (model.ShareStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[boardID]
	if !ok {
		return model.ShareStatus{}, errs.ErrNotFound
	}
	if b.Shared {
		return model.ShareStatus{Token: b.ShareToken, Enabled: true, AlreadyEnabled: true}, nil
	}
	b.ShareToken, b.Shared = token, true
	return model.ShareStatus{Token: token, Enabled: true}, nil
}

func (f fakeShares) Rotate(_ context.Context, boardID uuid.UUID, token string) (model.ShareStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[boardID]
	if !ok {
		return model.ShareStatus{}, errs.ErrNotFound
	}
	if !b.Shared {
		return model.ShareStatus{}, errs.Invalid("share", "sharing is not enabled")
	}
	b.ShareToken = token
	return model.ShareStatus{Token: token, Enabled: true}, nil
}

func (f fakeShares) Disable(_ context.Context, boardID uuid.UUID, discard string) (model.ShareStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[boardID]
	if !ok {
		return model.ShareStatus{}, errs.ErrNotFound
	}
	if b.Shared {
		b.ShareToken, b.Shared = discard, false
	}
	return model.ShareStatus{}, nil
}

func (f fakeShares) Resolve(_ context.Context, token string) (model.SharedBoard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.boards {
		if b.Shared && b.ShareToken == token {
			sb := model.SharedBoard{ID: b.ID, Title: b.Title, Description: b.Description, Currency: b.Currency,
				StartDate: b.StartDate, EndDate: b.EndDate, Lists: []model.SharedList{}}
			for _, lid := range ordering.IDs(f.listSiblings(b.ID)) {
				sl := model.SharedList{List: *f.lists[lid], Cards: []model.Card{}}
				for _, cid := range ordering.IDs(f.cardSiblings(lid)) {
					sl.Cards = append(sl.Cards, *f.cards[cid])
				}
				sb.Lists = append(sb.Lists, sl)
			}
			return sb, nil
		}
	}
	return model.SharedBoard{}, errs.ErrNotFound
}

// --- lists ---

type fakeLists struct{ *store }

var _ repository.ListRepository = fakeLists{}

func (f fakeLists) Create(_ context.Context, l *model.List, index *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boards[l.BoardID]; !ok {
		return errs.ErrNotFound
	}
	if l.Color == "" {
		l.Color = "blue"
	}
	sibs := f.listSiblings(l.BoardID)
	if index == nil {
		maxPos := int64(0)
		for _, s := range sibs {
			maxPos = max(maxPos, s.Position)
		}
		l.Position = ordering.AppendPosition(maxPos, len(sibs))
	} else {
		p, err := ordering.PlanInsert(sibs, l.ID, *index)
		if err != nil {
			return err
		}
		f.applyLists(p)
		l.Position = p.Position
	}
	l.CreatedAt = f.tick()
	cpy := *l
	f.lists[l.ID] = &cpy
	return nil
}

func (f fakeLists) Get(_ context.Context, id uuid.UUID) (model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[id]
	if !ok {
		return model.List{}, errs.ErrNotFound
	}
	return *l, nil
}

func (f fakeLists) ListByBoard(_ context.Context, boardID uuid.UUID) ([]model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.List{}
	for _, id := range ordering.IDs(f.listSiblings(boardID)) {
		out = append(out, *f.lists[id])
	}
	return out, nil
}

func (f fakeLists) Update(_ context.Context, id uuid.UUID, title, color string) (model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[id]
	if !ok {
		return model.List{}, errs.ErrNotFound
	}
	l.Title, l.Color = title, color
	return *l, nil
}

func (f fakeLists) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lists[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.lists, id)
	for cid, c := range f.cards {
		if c.ListID == id {
			delete(f.cards, cid)
		}
	}
	return nil
}

func (f fakeLists) Move(_ context.Context, id uuid.UUID, index int) (model.Placement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[id]
	if !ok {
		return model.Placement{}, errs.ErrNotFound
	}
	p, err := ordering.PlanMove(f.listSiblings(l.BoardID), id, index)
	if err != nil {
		return model.Placement{}, err
	}
	f.applyLists(p)
	l.Position = p.Position
	return model.Placement{ParentID: l.BoardID, Index: p.Index, Position: p.Position}, nil
}

func (f fakeLists) Reorder(_ context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boards[boardID]; !ok {
		return nil, errs.ErrNotFound
	}
	p, err := ordering.PlanBulk(f.listSiblings(boardID), ids)
	if err != nil {
		return nil, err
	}
	f.applyLists(p)
	return p.Order, nil
}

// --- cards ---

type fakeCards struct{ *store }

var _ repository.CardRepository = fakeCards{}

func (f fakeCards) Create(_ context.Context, c *model.Card, index *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lists[c.ListID]; !ok {
		return errs.ErrNotFound
	}
	sibs := f.cardSiblings(c.ListID)
	idx := len(sibs)
	if index != nil {
		idx = *index
	}
	p, err := ordering.PlanInsert(sibs, c.ID, idx)
	if err != nil {
		return err
	}
	f.applyCards(p)
	c.Position = p.Position
	c.CreatedAt = f.tick()
	cpy := *c
	cpy.Assignees = slices.Clone(c.Assignees)
	f.cards[c.ID] = &cpy
	return nil
}

func (f fakeCards) Get(_ context.Context, id uuid.UUID) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return model.Card{}, errs.ErrNotFound
	}
	cpy := *c
	cpy.Assignees = slices.Clone(c.Assignees)
	return cpy, nil
}

// Query supports the search and paging parts of the filter, which is what the service
// forwards.
func (f fakeCards) Query(_ context.Context, listID uuid.UUID, fl model.CardFilter) (model.CardPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.Card
	for _, id := range ordering.IDs(f.cardSiblings(listID)) {
		c := f.cards[id]
		if fl.Search == "" || strings.Contains(strings.ToLower(c.Title), strings.ToLower(fl.Search)) {
			all = append(all, *c)
		}
	}
	from := min((fl.Page-1)*fl.PageSize, len(all))
	to := min(from+fl.PageSize, len(all))
	return model.CardPage{Cards: append([]model.Card{}, all[from:to]...), Count: len(all), Page: fl.Page, Next: to < len(all)}, nil
}

func (f fakeCards) Update(_ context.Context, id uuid.UUID, p model.CardPatch) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return model.Card{}, errs.ErrNotFound
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.ClearDue {
		c.DueDate = nil
	} else if p.DueDate != nil {
		c.DueDate = p.DueDate
	}
	if p.Budget != nil {
		c.Budget = *p.Budget
	}
	if p.People != nil {
		c.People = *p.People
	}
	return *c, nil
}

func (f fakeCards) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f fakeCards) Move(_ context.Context, id, fromList, toList uuid.UUID, index int) (model.Placement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ordering.CheckIndex(index); err != nil {
		return model.Placement{}, err
	}
	c, ok := f.cards[id]
	if !ok || (fromList != uuid.Nil && fromList != c.ListID) {
		return model.Placement{}, errs.ErrNotFound
	}
	if toList == uuid.Nil || toList == c.ListID {
		p, err := ordering.PlanMove(f.cardSiblings(c.ListID), id, index)
		if err != nil {
			return model.Placement{}, err
		}
		f.applyCards(p)
		c.Position = p.Position
		return model.Placement{ParentID: c.ListID, Index: p.Index, Position: p.Position}, nil
	}
	if _, ok := f.lists[toList]; !ok {
		return model.Placement{}, errs.ErrNotFound
	}
	out, err := ordering.PlanRemove(f.cardSiblings(c.ListID), id)
	if err != nil {
		return model.Placement{}, err
	}
	in, err := ordering.PlanInsert(f.cardSiblings(toList), id, index)
	if err != nil {
		return model.Placement{}, err
	}
	f.applyCards(out)
	f.applyCards(in)
	c.ListID, c.Position = toList, in.Position
	return model.Placement{ParentID: toList, Index: in.Index, Position: in.Position}, nil
}

func (f fakeCards) Reorder(_ context.Context, listID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := ordering.PlanBulk(f.cardSiblings(listID), ids)
	if err != nil {
		return nil, err
	}
	f.applyCards(p)
	return p.Order, nil
}

func (f fakeCards) AddAssignees(_ context.Context, id uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	added := []uuid.UUID{}
	for _, u := range userIDs {
		if !slices.Contains(c.Assignees, u) {
			c.Assignees = append(c.Assignees, u)
			added = append(added, u)
		}
	}
	return added, nil
}

func (f fakeCards) RemoveAssignee(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return errs.ErrNotFound
	}
	i := slices.Index(c.Assignees, userID)
	if i < 0 {
		return errs.NotFoundField("assignee")
	}
	c.Assignees = slices.Delete(c.Assignees, i, i+1)
	return nil
}

// --- reports, expenses, locations ---

type fakeReports struct{ *store }

var _ repository.ReportRepository = fakeReports{}

func (f fakeReports) BoardStats(_ context.Context, boardID uuid.UUID) (model.BoardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := model.BoardStats{BoardID: boardID, Lists: []model.ListStats{}}
	for _, lid := range ordering.IDs(f.listSiblings(boardID)) {
		ls := model.ListStats{ListID: lid, Title: f.lists[lid].Title}
		for _, c := range f.cards {
			if c.ListID == lid {
				ls.CardCount++
				ls.Budget = ls.Budget.Add(c.Budget)
				ls.People += int64(c.People)
			}
		}
		st.ListCount++
		st.CardCount += ls.CardCount
		st.TotalBudget = st.TotalBudget.Add(ls.Budget)
		st.TotalPeople += ls.People
		st.Lists = append(st.Lists, ls)
	}
	return st, nil
}

func (f fakeReports) BudgetSummary(_ context.Context, boardID uuid.UUID) (model.BudgetSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[boardID]
	if !ok {
		return model.BudgetSummary{}, errs.ErrNotFound
	}
	sum := model.BudgetSummary{BoardID: boardID, Currency: b.Currency, Budget: b.Budget, ByCategory: []model.CategoryTotal{}}
	for _, e := range f.expenses {
		if e.BoardID == boardID {
			sum.Spent = sum.Spent.Add(e.Amount)
		}
	}
	sum.Remaining = decimal.Max(decimal.Zero, sum.Budget.Sub(sum.Spent))
	return sum, nil
}

type fakeExpenses struct{ *store }

var _ repository.ExpenseRepository = fakeExpenses{}

func (f fakeExpenses) Create(_ context.Context, e *model.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.CreatedAt = f.tick()
	cpy := *e
	f.expenses[e.ID] = &cpy
	return nil
}

func (f fakeExpenses) List(_ context.Context, boardID uuid.UUID, fl model.ExpenseFilter) ([]model.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Expense{}
	for _, e := range f.expenses {
		if e.BoardID != boardID || (fl.Category != "" && e.Category != fl.Category) {
			continue
		}
		if (fl.From != nil && e.Date.Before(*fl.From)) || (fl.To != nil && e.Date.After(*fl.To)) {
			continue
		}
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b model.Expense) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (f fakeExpenses) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.expenses[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

type fakeLocations struct{ *store }

var _ repository.LocationRepository = fakeLocations{}

func (f fakeLocations) Create(_ context.Context, l *model.Location) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.CreatedAt = f.tick()
	cpy := *l
	f.locations[l.ID] = &cpy
	return nil
}

func (f fakeLocations) List(_ context.Context, boardID uuid.UUID) ([]model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Location{}
	for _, l := range f.locations {
		if l.BoardID == boardID {
			out = append(out, *l)
		}
	}
	slices.SortFunc(out, func(a, b model.Location) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (f fakeLocations) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.locations[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.locations, id)
	return nil
}

// --- notifications ---

type fakeNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, m model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, m)
	return nil
}

func (n *fakeNotifier) Recent(_ context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := []model.Notification{}
	for i := len(n.sent) - 1; i >= 0 && len(out) < limit; i-- {
		if n.sent[i].UserID == userID {
			out = append(out, n.sent[i])
		}
	}
	return out, nil
}

func (n *fakeNotifier) titlesFor(userID uuid.UUID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.sent {
		if m.UserID == userID {
			out = append(out, m.Title)
		}
	}
	return out
}

// --- environment ---

type env struct {
	st    *store
	users *fakeUsers
	note  *fakeNotifier

	boards    *BoardServiceImpl
	members   *MemberServiceImpl
	lists     *ListServiceImpl
	cards     *CardServiceImpl
	shares    *ShareServiceImpl
	reports   *ReportServiceImpl
	expenses  *ExpenseServiceImpl
	locations *LocationServiceImpl
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := newStore()
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	note := &fakeNotifier{}
	log := zaptest.NewLogger(t)
	boards := fakeBoards{st}
	return &env{
		st:        st,
		users:     users,
		note:      note,
		boards:    NewBoardService(boards, fakeLists{st}, note, log),
		members:   NewMemberService(boards, fakeMembers{store: st, users: users}, users),
		lists:     NewListService(boards, fakeLists{st}),
		cards:     NewCardService(boards, fakeCards{st}, Paging{Default: 2, Max: 3}, note, log),
		shares:    NewShareService(boards, fakeShares{st}),
		reports:   NewReportService(boards, fakeReports{st}),
		expenses:  NewExpenseService(boards, fakeExpenses{st}, note, log),
		locations: NewLocationService(boards, fakeLocations{st}),
	}
}

func (e *env) user(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Email: email, Username: strings.Split(email, "@")[0]}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.ID
}

func (e *env) board(t *testing.T, owner uuid.UUID) model.Board {
	t.Helper()
	b, err := e.boards.Create(context.Background(), owner, BoardInput{Title: "Lisbon trip"})
	require.NoError(t, err)
	return b
}

// join registers a fresh user and invites them to the board with role.
func (e *env) join(t *testing.T, b model.Board, email string, role model.Role) uuid.UUID {
	t.Helper()
	id := e.user(t, email)
	_, st, err := e.members.Invite(context.Background(), b.OwnerID, b.ID, InviteInput{Email: email, Role: role})
	require.NoError(t, err)
	require.Equal(t, model.InviteCreated, st)
	return id
}

func (e *env) list(t *testing.T, by uuid.UUID, boardID uuid.UUID, title string) model.List {
	t.Helper()
	l, err := e.lists.Create(context.Background(), by, boardID, ListInput{Title: title})
	require.NoError(t, err)
	return l
}

func (e *env) card(t *testing.T, by uuid.UUID, listID uuid.UUID, title string, budget string) model.Card {
	t.Helper()
	c, err := e.cards.Create(context.Background(), by, listID, CardInput{Title: title, Budget: decimal.RequireFromString(budget)})
	require.NoError(t, err)
	return c
}

func cardIDs(t *testing.T, e *env, by, listID uuid.UUID) []uuid.UUID {
	t.Helper()
	page, err := e.cards.Query(context.Background(), by, listID, model.CardFilter{PageSize: 3})
	require.NoError(t, err)
	out := []uuid.UUID{}
	for _, c := range page.Cards {
		out = append(out, c.ID)
	}
	return out
}

var errBoom = errors.New("boom")
