package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "travelkanban.v1.TravelKanban"

// FullMethod returns the "/service/method" path of an RPC.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// unary builds the method descriptor of a handler. Requests are decoded by the
// registered codec selected through the call's content-subtype.
func unary[Req, Resp any](name string, call func(*Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := func(ctx context.Context, req any) (any, error) {
				return call(srv.(*Server), ctx, req.(*Req))
			}
			if ic == nil {
				return h(ctx, in)
			}
			return ic(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}, h)
		},
	}
}

// ServiceDesc describes the TravelKanban API for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", (*Server).Register),
		unary("Login", (*Server).Login),

		unary("CreateBoard", (*Server).CreateBoard),
		unary("GetBoard", (*Server).GetBoard),
		unary("ListBoards", (*Server).ListBoards),
		unary("UpdateBoard", (*Server).UpdateBoard),
		unary("DeleteBoard", (*Server).DeleteBoard),
		unary("SeedDefaultLists", (*Server).SeedDefaultLists),

		unary("ListMembers", (*Server).ListMembers),
		unary("InviteMember", (*Server).InviteMember),
		unary("ChangeMemberRole", (*Server).ChangeMemberRole),
		unary("RemoveMember", (*Server).RemoveMember),

		unary("EnableShare", (*Server).EnableShare),
		unary("RotateShare", (*Server).RotateShare),
		unary("DisableShare", (*Server).DisableShare),
		unary("ResolveSharedBoard", (*Server).ResolveSharedBoard),

		unary("CreateList", (*Server).CreateList),
		unary("ListLists", (*Server).ListLists),
		unary("UpdateList", (*Server).UpdateList),
		unary("DeleteList", (*Server).DeleteList),
		unary("MoveList", (*Server).MoveList),
		unary("ReorderLists", (*Server).ReorderLists),

		unary("CreateCard", (*Server).CreateCard),
		unary("GetCard", (*Server).GetCard),
		unary("QueryCards", (*Server).QueryCards),
		unary("UpdateCard", (*Server).UpdateCard),
		unary("DeleteCard", (*Server).DeleteCard),
		unary("MoveCard", (*Server).MoveCard),
		unary("ReorderCards", (*Server).ReorderCards),
		unary("AssignCard", (*Server).AssignCard),
		unary("UnassignCard", (*Server).UnassignCard),

		unary("BoardStats", (*Server).BoardStats),
		unary("BudgetSummary", (*Server).BudgetSummary),
		unary("CreateExpense", (*Server).CreateExpense),
		unary("ListExpenses", (*Server).ListExpenses),
		unary("DeleteExpense", (*Server).DeleteExpense),

		unary("AddLocation", (*Server).AddLocation),
		unary("ListLocations", (*Server).ListLocations),
		unary("DeleteLocation", (*Server).DeleteLocation),

		unary("ListNotifications", (*Server).ListNotifications),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "travelkanban/v1/travelkanban.json",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv *Server) {
	s.RegisterService(&ServiceDesc, srv)
}
