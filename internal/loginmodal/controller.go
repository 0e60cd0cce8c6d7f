// Package loginmodal is the state machine behind the login dialog: role
// selection, the credential fields each role needs, submission and the
// loading and error indicators.
package loginmodal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/eduportal/internal/auth"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/internal/logging"
	"github.com/me/eduportal/pkg/model"
)

// Field is a credential input shown in the dialog.
type Field string

const (
	FieldName       Field = "name"
	FieldAccessCode Field = "accessCode"
	FieldEmail      Field = "email"
	FieldPassword   Field = "password"
)

const msgSelectRole = "Please select a role"

// Authenticator performs logins. *auth.Manager satisfies it.
type Authenticator interface {
	Login(ctx context.Context, role model.Role, creds model.Credentials) auth.LoginResult
	LoginDemo(ctx context.Context, role model.Role) auth.LoginResult
}

// State is a snapshot of the dialog.
type State struct {
	Open    bool
	Role    model.Role
	Loading bool
	Error   string
}

// Controller drives one login dialog.
type Controller struct {
	auth   Authenticator
	bus    *events.Bus
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a closed dialog with no role selected.
func NewController(a Authenticator, bus *events.Bus, logger *slog.Logger) *Controller {
	return &Controller{
		auth:   a,
		bus:    bus,
		logger: logging.Component(logger, "loginmodal"),
	}
}

// Open shows the dialog with any previous error cleared.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Open = true
	c.state.Error = ""
}

// Close hides the dialog and resets the selected role.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Open = false
	c.state.Role = ""
	c.state.Error = ""
}

// SelectRole picks the role whose form is shown.
func (c *Controller) SelectRole(role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("select role: unknown role %q", role)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Role = role
	c.state.Error = ""
	return nil
}

// Fields lists the inputs for the selected role. Students sign in with
// their name and class access code; everyone else with email and password.
func (c *Controller) Fields() []Field {
	c.mu.Lock()
	role := c.state.Role
	c.mu.Unlock()
	if role.UsesAccessCode() {
		return []Field{FieldName, FieldAccessCode}
	}
	return []Field{FieldEmail, FieldPassword}
}

// State returns a snapshot of the dialog.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit logs in with creds for the selected role. It reports whether the
// login succeeded; on failure the reason is in State().Error.
func (c *Controller) Submit(ctx context.Context, creds model.Credentials) bool {
	return c.submit(ctx, func(role model.Role) auth.LoginResult {
		return c.auth.Login(ctx, role, creds)
	})
}

// SubmitDemo logs in with the demo account of the selected role.
func (c *Controller) SubmitDemo(ctx context.Context) bool {
	return c.submit(ctx, func(role model.Role) auth.LoginResult {
		return c.auth.LoginDemo(ctx, role)
	})
}

func (c *Controller) submit(ctx context.Context, login func(model.Role) auth.LoginResult) bool {
	role, ok := c.begin()
	if !ok {
		return false
	}
	defer c.finish()

	res := login(role)
	if ctx.Err() != nil && !res.Success {
		res.Error = "Login cancelled"
	}
	if !res.Success {
		c.mu.Lock()
		c.state.Error = res.Error
		c.mu.Unlock()
		c.logger.Debug("login rejected", "role", role, "reason", res.Error)
		return false
	}

	c.mu.Lock()
	c.state.Open = false
	c.state.Role = ""
	c.state.Error = ""
	c.mu.Unlock()

	c.bus.Publish(events.Event{Type: events.UserLoggedIn, User: res.User})
	return true
}

// begin claims the loading flag. A submit while another is in flight is
// rejected, as is a submit with no role selected.
func (c *Controller) begin() (model.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return "", false
	}
	if c.state.Role == "" {
		c.state.Error = msgSelectRole
		return "", false
	}
	c.state.Loading = true
	c.state.Error = ""
	return c.state.Role, true
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.state.Loading = false
	c.mu.Unlock()
}
