package grpcserver

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/service"
)

// boardCall resolves the caller and the board id shared by most board-level RPCs.
func boardCall(ctx context.Context, boardID string) (uid, bid uuid.UUID, err error) {
	if uid, err = caller(ctx); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if bid, err = parseID("board_id", boardID); err != nil {
		return uuid.Nil, uuid.Nil, toStatus(err)
	}
	return uid, bid, nil
}

// --- Boards ---

// CreateBoard creates a board and, unless disabled, seeds the starter lists.
func (s *Server) CreateBoard(ctx context.Context, req *CreateBoardRequest) (*CreateBoardResponse, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.svc.Boards.Create(ctx, uid, req.BoardInput)
	if err != nil {
		return nil, s.fail("CreateBoard", err)
	}
	out := &CreateBoardResponse{Board: toBoard(b), Lists: []List{}}
	seed := s.seedLists
	if req.SeedLists != nil {
		seed = *req.SeedLists
	}
	if seed {
		// the board is already committed; a failed seed leaves it empty
		ls, err := s.svc.Boards.SeedDefaultLists(ctx, uid, b.ID)
		if err != nil {
			s.log.Warn("seed default lists failed", zap.String("board", b.ID.String()), zap.Error(err))
		} else {
			out.Lists = mapAll(ls, toList)
		}
	}
	return out, nil
}

func (s *Server) GetBoard(ctx context.Context, req *BoardRef) (*Board, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	b, err := s.svc.Boards.Get(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("GetBoard", err)
	}
	out := toBoard(b)
	return &out, nil
}

func (s *Server) ListBoards(ctx context.Context, _ *Empty) (*BoardsResponse, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	bs, err := s.svc.Boards.ListMine(ctx, uid)
	if err != nil {
		return nil, s.fail("ListBoards", err)
	}
	return &BoardsResponse{Boards: mapAll(bs, toBoard)}, nil
}

func (s *Server) UpdateBoard(ctx context.Context, req *UpdateBoardRequest) (*Board, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	b, err := s.svc.Boards.Update(ctx, uid, bid, req.BoardUpdate)
	if err != nil {
		return nil, s.fail("UpdateBoard", err)
	}
	out := toBoard(b)
	return &out, nil
}

func (s *Server) DeleteBoard(ctx context.Context, req *BoardRef) (*Empty, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Boards.Delete(ctx, uid, bid); err != nil {
		return nil, s.fail("DeleteBoard", err)
	}
	return &Empty{}, nil
}

func (s *Server) SeedDefaultLists(ctx context.Context, req *BoardRef) (*ListsResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	ls, err := s.svc.Boards.SeedDefaultLists(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("SeedDefaultLists", err)
	}
	return &ListsResponse{Lists: mapAll(ls, toList)}, nil
}

// --- Members ---

func (s *Server) ListMembers(ctx context.Context, req *BoardRef) (*MembersResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	ms, err := s.svc.Members.List(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("ListMembers", err)
	}
	return &MembersResponse{Members: mapAll(ms, toMember)}, nil
}

// InviteMember adds a registered user to the board or updates their role. Repeating an
// identical invite succeeds with status already_exists.
func (s *Server) InviteMember(ctx context.Context, req *InviteMemberRequest) (*InviteMemberResponse, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	m, st, err := s.svc.Members.Invite(ctx, uid, bid, service.InviteInput{Email: req.Email, Role: req.Role})
	if err != nil {
		return nil, s.fail("InviteMember", err)
	}
	return &InviteMemberResponse{Member: toMember(m), Status: st}, nil
}

func (s *Server) ChangeMemberRole(ctx context.Context, req *ChangeRoleRequest) (*Member, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	mid, err := parseID("member_id", req.MemberID)
	if err != nil {
		return nil, toStatus(err)
	}
	m, err := s.svc.Members.ChangeRole(ctx, uid, mid, req.Role)
	if err != nil {
		return nil, s.fail("ChangeMemberRole", err)
	}
	out := toMember(m)
	return &out, nil
}

func (s *Server) RemoveMember(ctx context.Context, req *MemberRef) (*Empty, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	mid, err := parseID("member_id", req.MemberID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.svc.Members.Remove(ctx, uid, mid); err != nil {
		return nil, s.fail("RemoveMember", err)
	}
	return &Empty{}, nil
}

// --- Share ---

func (s *Server) EnableShare(ctx context.Context, req *BoardRef) (*ShareStatus, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Share.Enable(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("EnableShare", err)
	}
	out := toShareStatus(st)
	return &out, nil
}

func (s *Server) RotateShare(ctx context.Context, req *BoardRef) (*ShareStatus, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Share.Rotate(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("RotateShare", err)
	}
	out := toShareStatus(st)
	return &out, nil
}

func (s *Server) DisableShare(ctx context.Context, req *BoardRef) (*ShareStatus, error) {
	uid, bid, err := boardCall(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Share.Disable(ctx, uid, bid)
	if err != nil {
		return nil, s.fail("DisableShare", err)
	}
	out := toShareStatus(st)
	return &out, nil
}

// ResolveSharedBoard serves the anonymous read-only view behind a share token. Every
// unusable token is NotFound.
func (s *Server) ResolveSharedBoard(ctx context.Context, req *ResolveRequest) (*SharedBoard, error) {
	tok := strings.TrimSpace(req.Token)
	if tok == "" {
		return nil, toStatus(errs.NotFoundField("token"))
	}
	b, err := s.svc.Share.Resolve(ctx, tok)
	if err != nil {
		return nil, s.fail("ResolveSharedBoard", err)
	}
	out := toSharedBoard(b)
	return &out, nil
}
