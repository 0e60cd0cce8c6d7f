// Package connection pairs students with teachers and parents through short
// codes. Teachers and parents generate and register a code; students enter
// it and keep the verified pairing in local storage.
package connection

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/me/eduportal/internal/api"
	"github.com/me/eduportal/internal/logging"
	"github.com/me/eduportal/internal/store"
	"github.com/me/eduportal/pkg/model"
)

const (
	generateFallback = "Failed to generate connection code"
	verifyFallback   = "Invalid or expired connection code"
	networkMessage   = "Unable to reach the server. Please check your connection."
)

// SessionSource reports the logged-in user. *auth.Manager satisfies it.
type SessionSource interface {
	CurrentUser() *model.User
}

// GenerateResult is the outcome of Generate. Code is set only on success.
type GenerateResult struct {
	Success bool
	Code    string
	Message string
}

// EnterResult is the outcome of Enter.
type EnterResult struct {
	Success    bool
	Connection *model.Connection
	Message    string
}

// Service implements the pairing flows. The persisted connection list is
// only ever written through a Service.
type Service struct {
	client  *api.Client
	store   store.Store
	session SessionSource
	logger  *slog.Logger
	now     func() time.Time
	newCode func() (string, error)

	mu sync.Mutex
}

// Option configures optional Service settings.
type Option func(*Service)

// WithClock replaces time.Now for connectedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		s.newCode = gen
	}
}

// NewService creates a connection service.
func NewService(client *api.Client, st store.Store, session SessionSource, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		client:  client,
		store:   st,
		session: session,
		logger:  logging.Component(logger, "connection"),
		now:     time.Now,
		newCode: GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates a code for userID and registers it with the backend. A
// code the backend did not accept is never returned.
func (s *Service) Generate(ctx context.Context, userID string, role model.Role) GenerateResult {
	if userID == "" {
		return GenerateResult{Message: "You must be logged in to generate a connection code"}
	}
	if role != model.RoleTeacher && role != model.RoleParent {
		return GenerateResult{Message: "Only teachers and parents can generate connection codes"}
	}

	code, err := s.newCode()
	if err != nil {
		s.logger.Error("generate code", "error", err)
		return GenerateResult{Message: generateFallback}
	}

	var resp model.Envelope
	req := model.GenerateCodeRequest{Code: code, UserID: userID, UserRole: role}
	if err := s.client.PostRoot(ctx, "connection/generate", req, &resp); err != nil {
		s.logger.Warn("register code failed", "user_id", userID, "error", err)
		return GenerateResult{Message: failureMessage(err, generateFallback)}
	}
	if !resp.Success {
		return GenerateResult{Message: resp.Reason(generateFallback)}
	}

	s.logger.Info("connection code registered", "user_id", userID, "role", role)
	return GenerateResult{Success: true, Code: code}
}

// Enter verifies a student-entered code and, on success, appends the pairing
// to the persisted list. Entering the same code twice records it twice.
func (s *Service) Enter(ctx context.Context, code string) EnterResult {
	code = NormalizeCode(code)
	if code == "" {
		return EnterResult{Message: "Please enter a connection code"}
	}
	if !ValidCode(code) {
		return EnterResult{Message: "Connection code must be 6 letters or digits"}
	}

	req := model.VerifyCodeRequest{Code: code}
	if u := s.currentUser(); u != nil {
		req.StudentID = u.ID
	}

	var resp model.VerifyCodeResponse
	if err := s.client.PostRoot(ctx, "connection/verify", req, &resp); err != nil {
		s.logger.Warn("verify code failed", "error", err)
		return EnterResult{Message: failureMessage(err, verifyFallback)}
	}
	if !resp.Success || resp.Connection == nil {
		return EnterResult{Message: resp.Reason(verifyFallback)}
	}

	conn := model.Connection{
		Code:        code,
		Type:        resp.Connection.Type,
		Name:        resp.Connection.Name,
		UserID:      resp.Connection.UserID,
		ConnectedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.loadLocked(ctx)
	list = append(list, conn)
	if err := store.SetJSON(ctx, s.store, store.KeyConnections, list); err != nil {
		s.logger.Error("persist connections", "error", err)
		return EnterResult{Message: "Connected, but the connection could not be saved"}
	}

	s.logger.Info("connected", "type", conn.Type, "peer_id", conn.UserID)
	return EnterResult{Success: true, Connection: &conn}
}

// Connections lists the pairings visible to role. Students get their
// persisted list. Listing a teacher's or parent's students is not backed by
// an endpoint yet, so those roles get an empty list.
func (s *Service) Connections(ctx context.Context, role model.Role) []model.Connection {
	if role != model.RoleStudent {
		return []model.Connection{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// loadLocked reads the persisted list; unreadable data counts as empty.
func (s *Service) loadLocked(ctx context.Context) []model.Connection {
	var list []model.Connection
	ok, err := store.GetJSON(ctx, s.store, store.KeyConnections, &list)
	if err != nil {
		s.logger.Warn("ignoring unreadable connection list", "error", err)
		return []model.Connection{}
	}
	if !ok || list == nil {
		return []model.Connection{}
	}
	return list
}

func (s *Service) currentUser() *model.User {
	if s.session == nil {
		return nil
	}
	return s.session.CurrentUser()
}

func failureMessage(err error, fallback string) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return networkMessage
	}
	return fallback
}
