package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/log"
	"budget/internal/middleware/cors"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/trace"
	"budget/internal/store"
)

// Version reported by the liveness banner.
const Version = "1.0.0"

// Options tunes the server's middleware and per-request behavior.
type Options struct {
	// AllowedOrigins configures CORS. Empty means cross-origin requests
	// are not allowed.
	AllowedOrigins []string

	// RateLimitPerMinute bounds mutating requests per client IP.
	RateLimitPerMinute int

	// RequestTimeout bounds each handler's storage round-trips.
	RequestTimeout time.Duration

	Logger *log.Logger
}

type Server struct {
	http.Server

	transactions store.TransactionStore
	categories   store.CategoryStore
	budget       store.BudgetReader

	logger         *log.Logger
	rateLimiter    *ratelimit.Limiter
	requestTimeout time.Duration
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tx store.TransactionStore, cat store.CategoryStore, bud store.BudgetReader, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	s := &Server{
		transactions:   tx,
		categories:     cat,
		budget:         bud,
		logger:         logger,
		requestTimeout: requestTimeout,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)

	mux.HandleFunc("GET /budget/summary", s.handleBudgetSummary)
	mux.HandleFunc("GET /budget/categories", s.handleCategorySpending)

	corsMW := cors.NewMiddleware(cors.Config{AllowedOrigins: opts.AllowedOrigins})
	traceMW := trace.NewMiddleware(logger.Logger)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(trace.ExtractClientIP)(handler)
	handler = corsMW.Middleware(handler)
	handler = traceMW.Middleware(handler)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   requestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// Handler exposes the fully wrapped handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown drains in-flight requests and stops middleware housekeeping.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requestContext bounds a handler's storage work so a wedged database
// surfaces as a timeout instead of a hung response.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Budget Tracker API is running",
		"version": Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
