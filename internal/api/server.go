// Package api provides the HTTP API server and handlers for the dashboard.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignicult/dashboard-server/internal/ratelimit"
	"github.com/ignicult/dashboard-server/internal/search"
	"github.com/ignicult/dashboard-server/internal/service"
	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Snapshots *service.SnapshotService
	Sessions  *service.SessionService
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string

	// Per-IP limit on /api routes. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	cache      *store.Store
	index      *search.GameIndex
	sseManager *sse.Manager
	sseHandler *sse.Handler
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, cache *store.Store, index *search.GameIndex, sseManager *sse.Manager, sseHandler *sse.Handler, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services:   services,
		cache:      cache,
		index:      index,
		sseManager: sseManager,
		sseHandler: sseHandler,
		router:     chi.NewRouter(),
		logger:     logger,
	}
	if opts.RequestsPerSecond > 0 {
		s.limiter = ratelimit.New(opts.RequestsPerSecond, max(opts.Burst, 1))
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Ignicult Dashboard API", "1.0.0")
	humaConfig.Info.Description = "Animated leaderboard and activity views over the Ignicult platform data"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases the rate limiter.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		limit := RateLimitMiddleware(s.limiter, s.logger)
		s.router.Use(func(next http.Handler) http.Handler {
			limited := limit(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.URL.Path, "/api/") {
					limited.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
			})
		})
	}
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerSessionRoutes()
	s.registerLeaderboardRoutes()
	s.registerDashboardRoutes()
	s.registerGameRoutes()
	s.registerSnapshotRoutes()

	// The event stream is not a JSON operation; it goes on the router directly.
	s.router.Get("/api/v1/sessions/{id}/events", s.handleSessionEvents)
}
