// Package devserver is a local stand-in for the platform backend. It serves
// the auth, connection and curriculum endpoints the client consumes, backed
// by demo accounts and canned curriculum data kept in memory. It exists for
// tests, smoke runs and offline development.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/eduportal/internal/logging"
	"github.com/me/eduportal/pkg/model"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the stand-in backend.
type Config struct {
	Addr       string        // Listen address (default ":5001")
	TokenTTL   time.Duration // Lifetime of issued bearer tokens
	CodeTTL    time.Duration // Lifetime of registered connection codes
	BcryptCost int           // Cost used when hashing demo passwords
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":5001",
		TokenTTL:   24 * time.Hour,
		CodeTTL:    24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Server is the stand-in backend.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    Config
	startTime time.Time

	mu       sync.Mutex
	accounts []*account
	tokens   map[string]issuedToken
	codes    map[string]pendingCode
	catalog  *catalog
}

// Option configures optional Server settings.
type Option func(*Server) error

// WithAccounts replaces the default demo accounts.
func WithAccounts(specs ...AccountSpec) Option {
	return func(s *Server) error {
		s.accounts = nil
		for _, spec := range specs {
			if err := s.addAccount(spec); err != nil {
				return err
			}
		}
		return nil
	}
}

// New creates a Server with the demo accounts and routes registered.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	def := DefaultConfig()
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = def.TokenTTL
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = def.CodeTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = def.BcryptCost
	}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "devserver"),
		config:    cfg,
		startTime: time.Now(),
		tokens:    make(map[string]issuedToken),
		codes:     make(map[string]pendingCode),
		catalog:   newCatalog(),
	}
	for _, spec := range DemoAccounts() {
		if err := s.addAccount(spec); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// Connection endpoints live outside the api prefix.
	r.Route("/connection", func(r chi.Router) {
		r.Post("/generate", s.handleGenerateCode)
		r.Post("/verify", s.handleVerifyCode)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/admin/curriculum", func(r chi.Router) {
			r.Use(s.requireToken(model.RoleAdmin))
			r.Get("/subjects", s.handleListSubjects)
			r.Get("/grades", s.handleListGrades)
			r.Get("/lessons", s.handleListLessons)
			r.Post("/generate", s.handleGenerate)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken())
			r.Get("/assignment/{role}/{id}", s.handleAssignments)
			r.Get("/library/{role}/{id}", s.handleLibrary)
		})
	})
}

func (s *Server) addAccount(spec AccountSpec) error {
	a := &account{
		ID:         spec.ID,
		Role:       spec.Role,
		Name:       spec.Name,
		Email:      spec.Email,
		AccessCode: spec.AccessCode,
	}
	if spec.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(spec.Password), s.config.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", spec.ID, err)
		}
		a.PasswordHash = hash
	}
	s.accounts = append(s.accounts, a)
	return nil
}
