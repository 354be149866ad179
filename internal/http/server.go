// Package http exposes the ledger as a JSON REST API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/cache"
	"github.com/Rohttz/GestorDeFinancas/internal/metrics"
	"github.com/Rohttz/GestorDeFinancas/internal/middleware/ratelimit"
	"github.com/Rohttz/GestorDeFinancas/internal/middleware/security"
	"github.com/Rohttz/GestorDeFinancas/internal/middleware/trace"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

const (
	summaryCacheSize = 256
	summaryCacheTTL  = 30 * time.Second
)

// Services bundles everything the API serves. Ready, when set, gates
// the readiness probe on a dependency check such as a database ping.
type Services struct {
	Users      *services.UserService
	Accounts   *services.AccountService
	Categories *services.CategoryService
	Goals      *services.GoalService
	Incomes    *services.IncomeService
	Expenses   *services.ExpenseService
	Dashboard  *services.DashboardService

	Ready func(context.Context) error
}

type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	deps       Services

	summaryCache *cache.LRUCache[*services.Summary]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
}

func NewServer(addr string, deps Services) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		deps:         deps,
		summaryCache: cache.NewLRUCache[*services.Summary](summaryCacheSize, summaryCacheTTL),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(time.Minute)

	s.routes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

func (s *Server) routes() {
	traceMW := trace.NewMiddleware(clientIP)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.router.Use(traceMW.Middleware)
	s.router.Use(headersMW.Middleware)
	s.router.Use(metricsMiddleware)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limiter.Middleware(clientIP, rateLimited))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleUserCreate)
			r.Get("/{id}", s.handleUserGet)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleAccountCreate)
			r.Get("/", s.handleAccountList)
			r.Get("/{id}", s.handleAccountGet)
			r.Patch("/{id}", s.handleAccountUpdate)
			r.Delete("/{id}", s.handleAccountDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCategoryCreate)
			r.Post("/defaults", s.handleCategorySeedDefaults)
			r.Get("/", s.handleCategoryList)
			r.Get("/{id}", s.handleCategoryGet)
			r.Patch("/{id}", s.handleCategoryUpdate)
			r.Delete("/{id}", s.handleCategoryDelete)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", s.handleGoalCreate)
			r.Get("/", s.handleGoalList)
			r.Get("/{id}", s.handleGoalGet)
			r.Patch("/{id}", s.handleGoalUpdate)
			r.Delete("/{id}", s.handleGoalDelete)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Post("/", s.handleIncomeCreate)
			r.Get("/", s.handleIncomeList)
			r.Get("/{id}", s.handleIncomeGet)
			r.Patch("/{id}", s.handleIncomeUpdate)
			r.Delete("/{id}", s.handleIncomeDelete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", s.handleExpenseCreate)
			r.Get("/", s.handleExpenseList)
			r.Get("/{id}", s.handleExpenseGet)
			r.Patch("/{id}", s.handleExpenseUpdate)
			r.Delete("/{id}", s.handleExpenseDelete)
		})

		r.Get("/dashboard", s.handleDashboard)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	s.cacheManager.Stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// invalidateSummary drops the cached dashboard for a user after any
// mutation that could change it.
func (s *Server) invalidateSummary(userID string) {
	if userID != "" {
		s.summaryCache.Delete(userID)
	}
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}
