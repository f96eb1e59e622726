package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a typed TravelKanban client over any gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc. Calls always use the JSON codec.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts...)
}

func (c *Client) CreateBoard(ctx context.Context, in *CreateBoardRequest, opts ...grpc.CallOption) (*CreateBoardResponse, error) {
	return invoke[CreateBoardResponse](ctx, c.cc, "CreateBoard", in, opts...)
}

func (c *Client) GetBoard(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*Board, error) {
	return invoke[Board](ctx, c.cc, "GetBoard", in, opts...)
}

func (c *Client) ListBoards(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*BoardsResponse, error) {
	return invoke[BoardsResponse](ctx, c.cc, "ListBoards", in, opts...)
}

func (c *Client) UpdateBoard(ctx context.Context, in *UpdateBoardRequest, opts ...grpc.CallOption) (*Board, error) {
	return invoke[Board](ctx, c.cc, "UpdateBoard", in, opts...)
}

func (c *Client) DeleteBoard(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteBoard", in, opts...)
}

func (c *Client) SeedDefaultLists(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*ListsResponse, error) {
	return invoke[ListsResponse](ctx, c.cc, "SeedDefaultLists", in, opts...)
}

func (c *Client) ListMembers(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*MembersResponse, error) {
	return invoke[MembersResponse](ctx, c.cc, "ListMembers", in, opts...)
}

func (c *Client) InviteMember(ctx context.Context, in *InviteMemberRequest, opts ...grpc.CallOption) (*InviteMemberResponse, error) {
	return invoke[InviteMemberResponse](ctx, c.cc, "InviteMember", in, opts...)
}

func (c *Client) ChangeMemberRole(ctx context.Context, in *ChangeRoleRequest, opts ...grpc.CallOption) (*Member, error) {
	return invoke[Member](ctx, c.cc, "ChangeMemberRole", in, opts...)
}

func (c *Client) RemoveMember(ctx context.Context, in *MemberRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "RemoveMember", in, opts...)
}

func (c *Client) EnableShare(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*ShareStatus, error) {
	return invoke[ShareStatus](ctx, c.cc, "EnableShare", in, opts...)
}

func (c *Client) RotateShare(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*ShareStatus, error) {
	return invoke[ShareStatus](ctx, c.cc, "RotateShare", in, opts...)
}

func (c *Client) DisableShare(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*ShareStatus, error) {
	return invoke[ShareStatus](ctx, c.cc, "DisableShare", in, opts...)
}

func (c *Client) ResolveSharedBoard(ctx context.Context, in *ResolveRequest, opts ...grpc.CallOption) (*SharedBoard, error) {
	return invoke[SharedBoard](ctx, c.cc, "ResolveSharedBoard", in, opts...)
}

func (c *Client) CreateList(ctx context.Context, in *CreateListRequest, opts ...grpc.CallOption) (*List, error) {
	return invoke[List](ctx, c.cc, "CreateList", in, opts...)
}

func (c *Client) ListLists(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*ListsResponse, error) {
	return invoke[ListsResponse](ctx, c.cc, "ListLists", in, opts...)
}

func (c *Client) UpdateList(ctx context.Context, in *UpdateListRequest, opts ...grpc.CallOption) (*List, error) {
	return invoke[List](ctx, c.cc, "UpdateList", in, opts...)
}

func (c *Client) DeleteList(ctx context.Context, in *ListRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteList", in, opts...)
}

func (c *Client) MoveList(ctx context.Context, in *MoveListRequest, opts ...grpc.CallOption) (*Placement, error) {
	return invoke[Placement](ctx, c.cc, "MoveList", in, opts...)
}

func (c *Client) ReorderLists(ctx context.Context, in *ReorderRequest, opts ...grpc.CallOption) (*ReorderResponse, error) {
	return invoke[ReorderResponse](ctx, c.cc, "ReorderLists", in, opts...)
}

func (c *Client) CreateCard(ctx context.Context, in *CreateCardRequest, opts ...grpc.CallOption) (*Card, error) {
	return invoke[Card](ctx, c.cc, "CreateCard", in, opts...)
}

func (c *Client) GetCard(ctx context.Context, in *CardRef, opts ...grpc.CallOption) (*Card, error) {
	return invoke[Card](ctx, c.cc, "GetCard", in, opts...)
}

func (c *Client) QueryCards(ctx context.Context, in *QueryCardsRequest, opts ...grpc.CallOption) (*CardPage, error) {
	return invoke[CardPage](ctx, c.cc, "QueryCards", in, opts...)
}

func (c *Client) UpdateCard(ctx context.Context, in *UpdateCardRequest, opts ...grpc.CallOption) (*Card, error) {
	return invoke[Card](ctx, c.cc, "UpdateCard", in, opts...)
}

func (c *Client) DeleteCard(ctx context.Context, in *CardRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteCard", in, opts...)
}

func (c *Client) MoveCard(ctx context.Context, in *MoveCardRequest, opts ...grpc.CallOption) (*Placement, error) {
	return invoke[Placement](ctx, c.cc, "MoveCard", in, opts...)
}

func (c *Client) ReorderCards(ctx context.Context, in *ReorderRequest, opts ...grpc.CallOption) (*ReorderResponse, error) {
	return invoke[ReorderResponse](ctx, c.cc, "ReorderCards", in, opts...)
}

func (c *Client) AssignCard(ctx context.Context, in *AssignRequest, opts ...grpc.CallOption) (*Card, error) {
	return invoke[Card](ctx, c.cc, "AssignCard", in, opts...)
}

func (c *Client) UnassignCard(ctx context.Context, in *UnassignRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "UnassignCard", in, opts...)
}

func (c *Client) BoardStats(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*BoardStats, error) {
	return invoke[BoardStats](ctx, c.cc, "BoardStats", in, opts...)
}

func (c *Client) BudgetSummary(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*BudgetSummary, error) {
	return invoke[BudgetSummary](ctx, c.cc, "BudgetSummary", in, opts...)
}

func (c *Client) CreateExpense(ctx context.Context, in *CreateExpenseRequest, opts ...grpc.CallOption) (*Expense, error) {
	return invoke[Expense](ctx, c.cc, "CreateExpense", in, opts...)
}

func (c *Client) ListExpenses(ctx context.Context, in *ListExpensesRequest, opts ...grpc.CallOption) (*ExpensesResponse, error) {
	return invoke[ExpensesResponse](ctx, c.cc, "ListExpenses", in, opts...)
}

func (c *Client) DeleteExpense(ctx context.Context, in *ExpenseRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteExpense", in, opts...)
}

func (c *Client) AddLocation(ctx context.Context, in *AddLocationRequest, opts ...grpc.CallOption) (*Location, error) {
	return invoke[Location](ctx, c.cc, "AddLocation", in, opts...)
}

func (c *Client) ListLocations(ctx context.Context, in *BoardRef, opts ...grpc.CallOption) (*LocationsResponse, error) {
	return invoke[LocationsResponse](ctx, c.cc, "ListLocations", in, opts...)
}

func (c *Client) DeleteLocation(ctx context.Context, in *LocationRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteLocation", in, opts...)
}

func (c *Client) ListNotifications(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*NotificationsResponse, error) {
	return invoke[NotificationsResponse](ctx, c.cc, "ListNotifications", in, opts...)
}
