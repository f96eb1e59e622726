// Package admin serves the operational HTTP endpoints next to the gRPC listener:
// Prometheus metrics and a database-backed health check.
package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable (pgxpool.Pool satisfies it).
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the admin mux. Metrics are read from g; requests to the mux itself
// are counted on reg.
func NewRouter(reg prometheus.Registerer, g prometheus.Gatherer, db Pinger, log *zap.Logger) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelkanban",
		Subsystem: "admin",
		Name:      "http_requests_total",
		Help:      "Admin HTTP requests by route and status.",
	}, []string{"path", "status"})
	reg.MustRegister(requests)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			path := req.URL.Path
			if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
				path = rc.RoutePattern()
			}
			requests.WithLabelValues(path, strconv.Itoa(ww.Status())).Inc()
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
