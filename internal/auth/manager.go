// Package auth owns the client session: who is logged in, the bearer token
// used on their behalf, and the persisted copy that survives restarts.
//
// Every other component reaches the session through a *Manager passed to it
// on construction.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/me/eduportal/internal/api"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/internal/logging"
	"github.com/me/eduportal/internal/store"
	"github.com/me/eduportal/pkg/model"
)

// DefaultSessionTTL is how long a persisted session stays restorable.
const DefaultSessionTTL = 24 * time.Hour

const loginFallback = "Login failed. Please try again."

// LoginResult is the outcome of a login attempt. Failures carry a message
// suitable for showing to the user; Login never returns a Go error.
type LoginResult struct {
	Success bool
	User    *model.User
	Error   string
}

// Manager is the session owner.
type Manager struct {
	client *api.Client
	store  store.Store
	bus    *events.Bus
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	session model.Session
}

// Option configures optional Manager settings.
type Option func(*Manager)

// WithSessionTTL sets the lifetime of persisted sessions.
func WithSessionTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager. The manager installs itself as the
// client's authorizer so every request carries the session headers.
func NewManager(client *api.Client, st store.Store, bus *events.Bus, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		store:  st,
		bus:    bus,
		logger: logging.Component(logger, "auth"),
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	client.SetAuthorizer(m)
	return m
}

// Login authenticates role with creds against the backend. Validation
// failures are reported without a network call.
func (m *Manager) Login(ctx context.Context, role model.Role, creds model.Credentials) LoginResult {
	if apiErr := creds.Validate(role); apiErr != nil {
		return LoginResult{Error: apiErr.Message}
	}

	var resp model.LoginResponse
	err := m.client.Post(ctx, "auth/login", model.LoginRequest{Role: role, Credentials: creds}, &resp)
	if err != nil {
		m.logger.Warn("login failed", "role", role, "error", err)
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return LoginResult{Error: apiErr.Message}
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return LoginResult{Error: "Unable to reach the server. Please check your connection."}
		}
		return LoginResult{Error: loginFallback}
	}
	if !resp.Success || resp.User == nil || resp.Token == "" {
		m.logger.Warn("login rejected", "role", role, "message", resp.Message)
		return LoginResult{Error: resp.Reason(loginFallback)}
	}

	now := m.now()
	sess := model.Session{
		User:      resp.User,
		Token:     resp.Token,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()

	if err := store.SetJSON(ctx, m.store, store.KeySession, sess); err != nil {
		// The in-memory session is still usable; it just won't survive a restart.
		m.logger.Warn("persist session failed", "error", err)
	}

	m.logger.Info("logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	u := *resp.User
	return LoginResult{Success: true, User: &u}
}

// LoginDemo logs in with the pre-canned demo account for role.
func (m *Manager) LoginDemo(ctx context.Context, role model.Role) LoginResult {
	creds, ok := DemoCredentials(role)
	if !ok {
		return LoginResult{Error: "No demo account for role " + string(role)}
	}
	return m.Login(ctx, role, creds)
}

// Logout clears the session and its persisted copy and announces the change.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	prev := m.session.User
	m.session = model.Session{}
	m.mu.Unlock()

	if err := m.store.RemoveItem(ctx, store.KeySession); err != nil {
		m.logger.Warn("remove persisted session failed", "error", err)
	}
	m.logger.Info("logged out")
	m.bus.Publish(events.Event{Type: events.UserLoggedOut, User: prev})
}

// HydrateSession restores the session from storage. It reports false and
// leaves the current state untouched when nothing usable is stored.
func (m *Manager) HydrateSession(ctx context.Context) bool {
	var sess model.Session
	ok, err := store.GetJSON(ctx, m.store, store.KeySession, &sess)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		m.logger.Warn("discarding corrupt persisted session", "error", err)
		_ = m.store.RemoveItem(ctx, store.KeySession)
		return false
	case err != nil:
		m.logger.Warn("read persisted session failed", "error", err)
		return false
	case !ok:
		return false
	}

	if !sess.Complete() {
		m.logger.Warn("discarding incomplete persisted session")
		_ = m.store.RemoveItem(ctx, store.KeySession)
		return false
	}
	if !sess.ExpiresAt.IsZero() && m.now().After(sess.ExpiresAt) {
		m.logger.Info("persisted session expired", "expired_at", sess.ExpiresAt)
		_ = m.store.RemoveItem(ctx, store.KeySession)
		return false
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	m.logger.Debug("session restored", "user_id", sess.User.ID)
	return true
}

// WithAuthHeaders returns a copy of h with the JSON content type and, when
// a token is held, the bearer Authorization header. Headers already present
// in h win over the defaults.
func (m *Manager) WithAuthHeaders(h http.Header) http.Header {
	out := http.Header{}
	out.Set("Content-Type", "application/json")
	if token := m.Token(); token != "" {
		out.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range h {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// RequireRole reports whether a user is logged in with one of roles.
func (m *Manager) RequireRole(roles ...model.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.User != nil && m.session.User.HasRole(roles...)
}

// AuthGate is RequireRole for UI entry points; it additionally logs the
// denial so a refused screen can be traced.
func (m *Manager) AuthGate(roles ...model.Role) bool {
	if m.RequireRole(roles...) {
		return true
	}
	m.logger.Info("access denied", "allowed", roles, "user", m.CurrentUser())
	return false
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (m *Manager) CurrentUser() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.User == nil {
		return nil
	}
	u := *m.session.User
	return &u
}

// Token returns the bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.User != nil && m.session.Token != ""
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
