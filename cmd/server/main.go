// Command tk-server starts the TravelKanban gRPC server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/travel-kanban/internal/config"
	"github.com/and161185/travel-kanban/internal/limiter"
	"github.com/and161185/travel-kanban/internal/migrate"
	"github.com/and161185/travel-kanban/internal/notify"
	"github.com/and161185/travel-kanban/internal/repository/postgres"
	"github.com/and161185/travel-kanban/internal/server/admin"
	grpcserver "github.com/and161185/travel-kanban/internal/server/grpc"
	"github.com/and161185/travel-kanban/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves gRPC plus the admin listener.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// zap is not configured yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schema, err := migrate.Up(ctx, cfg.DSN, logger)
	if err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}
	logger.Info("schema ready", zap.Int64("version", schema))

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer db.Close()

	// Notifications
	var notifier interface {
		notify.Notifier
		notify.Feed
	} = notify.Nop{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis url", zap.Error(err))
		}
		rc := redis.NewClient(opts)
		defer func() { _ = rc.Close() }()
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, notifications will be dropped until it recovers", zap.Error(err))
		}
		notifier = notify.NewRedis(rc, cfg.NotificationsKeep, cfg.NotificationsTTL)
	} else {
		logger.Info("redis_url not set, notifications disabled")
	}

	// Repositories
	users := postgres.NewUserRepo(db)
	boards := postgres.NewBoardRepo(db)
	members := postgres.NewMemberRepo(db)
	lists := postgres.NewListRepo(db)
	cards := postgres.NewCardRepo(db)
	shares := postgres.NewShareRepo(db)
	reports := postgres.NewReportRepo(db)
	expenses := postgres.NewExpenseRepo(db)
	locations := postgres.NewLocationRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlock)

	// Services
	svc := grpcserver.Services{
		Auth:          service.NewAuthService(users, []byte(cfg.JWTKey), cfg.AccessTTL, lim),
		Boards:        service.NewBoardService(boards, lists, notifier, logger),
		Members:       service.NewMemberService(boards, members, users),
		Lists:         service.NewListService(boards, lists),
		Cards:         service.NewCardService(boards, cards, service.Paging{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}, notifier, logger),
		Share:         service.NewShareService(boards, shares),
		Reports:       service.NewReportService(boards, reports),
		Expenses:      service.NewExpenseService(boards, expenses, notifier, logger),
		Locations:     service.NewLocationService(boards, locations),
		Notifications: service.NewNotificationService(notifier),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := grpcserver.NewMetrics(reg)

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
			metrics.Unary(),
			grpcserver.AuthUnary([]byte(cfg.JWTKey)),
		),
	}
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("tls_cert not set, serving plaintext gRPC")
	}
	s := grpc.NewServer(opts...)

	grpcserver.Register(s, grpcserver.New(svc, cfg.SeedDefaultLists, logger))

	// Health & reflection (dev)
	hs := health.NewServer()
	hs.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSCert != ""))
		errCh <- s.Serve(lis)
	}()

	var adminSrv *http.Server
	if cfg.AdminAddr != "" {
		adminSrv = &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           admin.NewRouter(reg, reg, db, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin listening", zap.String("addr", cfg.AdminAddr))
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		hs.Shutdown()
		if adminSrv != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = adminSrv.Shutdown(sctx)
			cancel()
		}
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
