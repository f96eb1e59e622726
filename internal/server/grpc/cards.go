package grpcserver

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/model"
)

// refCall resolves the caller and one required id field.
func refCall(ctx context.Context, field, id string) (uid, ref uuid.UUID, err error) {
	if uid, err = caller(ctx); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if ref, err = parseID(field, id); err != nil {
		return uuid.Nil, uuid.Nil, toStatus(err)
	}
	return uid, ref, nil
}

// --- Lists ---

func (s *Server) CreateList(ctx context.Context, req *CreateListRequest) (*List, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	l, err := s.svc.Lists.Create(ctx, uid, bid, req.ListInput)
	if err != nil {
		return nil, s.fail("CreateList", err)
	}
	out := toList(l)
	return &out, nil
}

func (s *Server) ListLists(ctx context.Context, req *BoardRef) (*ListsResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	ls, err := s.svc.Lists.List(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("ListLists", err)
	}
	return &ListsResponse{Lists: mapAll(ls, toList)}, nil
}

func (s *Server) UpdateList(ctx context.Context, req *UpdateListRequest) (*List, error) {
	uid, lid, err := refCall(ctx, "list_id", req.ListID)
	if err != nil {
		return nil, err
	}
	l, err := s.svc.Lists.Update(ctx, uid, lid, req.ListInput)
	if err != nil {
		return nil, s.fail("UpdateList", err)
	}
	out := toList(l)
	return &out, nil
}

func (s *Server) DeleteList(ctx context.Context, req *ListRef) (*Empty, error) {
	uid, lid, err := refCall(ctx, "list_id", req.ListID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Lists.Delete(ctx, uid, lid); err != nil {
		return nil, s.fail("DeleteList", err)
	}
	return &Empty{}, nil
}

func (s *Server) MoveList(ctx context.Context, req *MoveListRequest) (*Placement, error) {
	uid, lid, err := refCall(ctx, "list_id", req.ListID)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Lists.Move(ctx, uid, lid, req.Index)
	if err != nil {
		return nil, s.fail("MoveList", err)
	}
	out := toPlacement(p)
	return &out, nil
}

func (s *Server) ReorderLists(ctx context.Context, req *ReorderRequest) (*ReorderResponse, error) {
	uid, bid, err := refCall(ctx, "parent_id", req.ParentID)
	if err != nil {
		return nil, err
	}
	ids, err := parseIDs("ids", req.IDs)
	if err != nil {
		return nil, toStatus(err)
	}
	order, err := s.svc.Lists.Reorder(ctx, uid, bid, ids)
	if err != nil {
		return nil, s.fail("ReorderLists", err)
	}
	return &ReorderResponse{IDs: idStrings(order)}, nil
}

// --- Cards ---

func (s *Server) CreateCard(ctx context.Context, req *CreateCardRequest) (*Card, error) {
	uid, lid, err := refCall(ctx, "list_id", req.ListID)
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Cards.Create(ctx, uid, lid, req.CardInput)
	if err != nil {
		return nil, s.fail("CreateCard", err)
	}
	out := toCard(c)
	return &out, nil
}

func (s *Server) GetCard(ctx context.Context, req *CardRef) (*Card, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Cards.Get(ctx, uid, cid)
	if err != nil {
		return nil, s.fail("GetCard", err)
	}
	out := toCard(c)
	return &out, nil
}

func (s *Server) QueryCards(ctx context.Context, req *QueryCardsRequest) (*CardPage, error) {
	uid, lid, err := refCall(ctx, "list_id", req.ListID)
	if err != nil {
		return nil, err
	}
	page, err := s.svc.Cards.Query(ctx, uid, lid, model.CardFilter{
		Search:    req.Search,
		MinBudget: req.MinBudget,
		MaxBudget: req.MaxBudget,
		DueFrom:   req.DueFrom,
		DueTo:     req.DueTo,
		Ordering:  req.Ordering,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, s.fail("QueryCards", err)
	}
	return &CardPage{Cards: mapAll(page.Cards, toCard), Count: page.Count, Page: page.Page, Next: page.Next}, nil
}

func (s *Server) UpdateCard(ctx context.Context, req *UpdateCardRequest) (*Card, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Cards.Update(ctx, uid, cid, req.CardUpdate)
	if err != nil {
		return nil, s.fail("UpdateCard", err)
	}
	out := toCard(c)
	return &out, nil
}

func (s *Server) DeleteCard(ctx context.Context, req *CardRef) (*Empty, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Cards.Delete(ctx, uid, cid); err != nil {
		return nil, s.fail("DeleteCard", err)
	}
	return &Empty{}, nil
}

// MoveCard repositions a card within its list or onto another list of the same board.
func (s *Server) MoveCard(ctx context.Context, req *MoveCardRequest) (*Placement, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	from, err := parseOptionalID("from_list", req.FromList)
	if err != nil {
		return nil, toStatus(err)
	}
	to, err := parseOptionalID("to_list", req.ToList)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.svc.Cards.Move(ctx, uid, cid, from, to, req.Index)
	if err != nil {
		return nil, s.fail("MoveCard", err)
	}
	out := toPlacement(p)
	return &out, nil
}

func (s *Server) ReorderCards(ctx context.Context, req *ReorderRequest) (*ReorderResponse, error) {
	uid, lid, err := refCall(ctx, "parent_id", req.ParentID)
	if err != nil {
		return nil, err
	}
	ids, err := parseIDs("ids", req.IDs)
	if err != nil {
		return nil, toStatus(err)
	}
	order, err := s.svc.Cards.Reorder(ctx, uid, lid, ids)
	if err != nil {
		return nil, s.fail("ReorderCards", err)
	}
	return &ReorderResponse{IDs: idStrings(order)}, nil
}

func (s *Server) AssignCard(ctx context.Context, req *AssignRequest) (*Card, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	users, err := parseIDs("user_ids", req.UserIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	c, err := s.svc.Cards.Assign(ctx, uid, cid, users)
	if err != nil {
		return nil, s.fail("AssignCard", err)
	}
	out := toCard(c)
	return &out, nil
}

func (s *Server) UnassignCard(ctx context.Context, req *UnassignRequest) (*Empty, error) {
	uid, cid, err := refCall(ctx, "card_id", req.CardID)
	if err != nil {
		return nil, err
	}
	user, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.svc.Cards.Unassign(ctx, uid, cid, user); err != nil {
		return nil, s.fail("UnassignCard", err)
	}
	return &Empty{}, nil
}
