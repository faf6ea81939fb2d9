// Package web provides the HTTP server and handlers for the leads dashboard.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/leadboard/internal/config"
	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/upstream"
	"github.com/JonMunkholm/leadboard/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// contentSecurityPolicy allows the htmx script origin and inline styles.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'"

// AuthProxy is the part of the backend client used for sign-in.
// *upstream.Client implements it.
type AuthProxy interface {
	Login(ctx context.Context, creds upstream.Credentials, cookies []*http.Cookie) (*upstream.Session, error)
	Me(ctx context.Context, cookies []*http.Cookie) (*upstream.Session, error)
	Logout(ctx context.Context, cookies []*http.Cookie) ([]string, error)
}

// Server is the HTTP server for the leads dashboard.
type Server struct {
	service *core.Service
	auth    AuthProxy
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a server. auth may be nil when no backend is
// configured; the auth routes then answer 503.
func NewServer(cfg *config.Config, service *core.Service, auth AuthProxy) *Server {
	s := &Server{
		service: service,
		auth:    auth,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(newIPRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/", s.handleDashboard)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			if s.auth != nil {
				r.Use(middleware.SessionAuth(s.auth, s.cfg.Security.AuthRequired))
			}

			r.Get("/", s.handleLeads)
			r.Get("/industries", s.handleIndustries)
			r.Get("/status", s.handleStatus)
			r.Get("/download", s.handleDownload)

			// Loads are expensive; they get their own, tighter budget.
			r.Group(func(r chi.Router) {
				if s.cfg.Rate.Enabled {
					r.Use(newIPRateLimiter(s.cfg.Rate.LoadLimit, time.Minute).middleware)
				}
				r.Post("/refresh", s.handleRefresh)
				r.Post("/upload", s.handleUpload)
				r.Post("/generate", s.handleGenerate)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Get("/me", s.handleMe)
			r.Post("/logout", s.handleLogout)
		})
	})
}

// Start listens on the configured address. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
