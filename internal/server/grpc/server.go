// Package grpcserver exposes the TravelKanban gRPC API handlers.
//
// Messages are plain Go structs encoded with the JSON codec registered by this package;
// clients select it with grpc.CallContentSubtype(CodecName).
package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"

	"github.com/and161185/travel-kanban/internal/service"
)

// Services bundles the application services the handlers delegate to.
type Services struct {
	Auth          service.AuthService
	Boards        service.BoardService
	Members       service.MemberService
	Lists         service.ListService
	Cards         service.CardService
	Share         service.ShareService
	Reports       service.ReportService
	Expenses      service.ExpenseService
	Locations     service.LocationService
	Notifications service.NotificationService
}

// Server wires services into gRPC handlers.
type Server struct {
	svc       Services
	seedLists bool
	log       *zap.Logger
}

// New constructs a gRPC server with injected services. seedLists is the default for
// appending the starter lists to new boards.
func New(svc Services, seedLists bool, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, seedLists: seedLists, log: log}
}

// fail converts a service error into a status error, logging the internal ones whose
// detail the client does not get to see.
func (s *Server) fail(method string, err error) error {
	if codeOf(err) == codes.Internal {
		s.log.Error("handler failed", zap.String("method", method), zap.Error(err))
	}
	return toStatus(err)
}

// --- Auth ---

// Register creates a new user account.
func (s *Server) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	id, err := s.svc.Auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, s.fail("Register", err)
	}
	return &RegisterResponse{UserID: id}, nil
}

// remoteIP is the caller's address without the port, so all connections of a client
// share one rate-limit bucket.
func remoteIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// Login authenticates a user and returns an access token.
func (s *Server) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	tok, u, err := s.svc.Auth.LoginWithIP(ctx, req.Email, req.Password, remoteIP(ctx))
	if err != nil {
		return nil, s.fail("Login", err)
	}
	return &LoginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
		UserID:      u.ID.String(),
		Email:       u.Email,
		Username:    u.Username,
	}, nil
}

// --- Notifications ---

func (s *Server) ListNotifications(ctx context.Context, req *ListNotificationsRequest) (*NotificationsResponse, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	ns, err := s.svc.Notifications.List(ctx, uid, req.Limit)
	if err != nil {
		return nil, s.fail("ListNotifications", err)
	}
	return &NotificationsResponse{Notifications: ns}, nil
}
