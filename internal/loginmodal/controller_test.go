package loginmodal

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/me/eduportal/internal/auth"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeAuth records calls and answers with result. When gate is non-nil each
// call waits on it.
type fakeAuth struct {
	mu     sync.Mutex
	calls  []model.Role
	demo   int
	creds  model.Credentials
	result auth.LoginResult
	gate   chan struct{}
}

func (f *fakeAuth) Login(ctx context.Context, role model.Role, creds model.Credentials) auth.LoginResult {
	f.mu.Lock()
	f.calls = append(f.calls, role)
	f.creds = creds
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.result
}

func (f *fakeAuth) LoginDemo(ctx context.Context, role model.Role) auth.LoginResult {
	f.mu.Lock()
	f.demo++
	f.mu.Unlock()
	return f.Login(ctx, role, model.Credentials{})
}

func (f *fakeAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestFieldsPerRole(t *testing.T) {
	c := NewController(&fakeAuth{}, nil, testLogger())

	tests := []struct {
		role model.Role
		want []Field
	}{
		{model.RoleStudent, []Field{FieldName, FieldAccessCode}},
		{model.RoleTeacher, []Field{FieldEmail, FieldPassword}},
		{model.RoleParent, []Field{FieldEmail, FieldPassword}},
		{model.RoleAdmin, []Field{FieldEmail, FieldPassword}},
	}
	for _, tt := range tests {
		if err := c.SelectRole(tt.role); err != nil {
			t.Fatalf("SelectRole(%s): %v", tt.role, err)
		}
		if diff := cmp.Diff(tt.want, c.Fields()); diff != "" {
			t.Errorf("Fields for %s (-want +got):\n%s", tt.role, diff)
		}
	}
}

func TestSelectRole_Invalid(t *testing.T) {
	c := NewController(&fakeAuth{}, nil, testLogger())
	c.SelectRole(model.RoleParent)
	if err := c.SelectRole("principal"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if c.State().Role != model.RoleParent {
		t.Errorf("Role = %q, want unchanged parent", c.State().Role)
	}
}

func TestSubmit_NoRole(t *testing.T) {
	fa := &fakeAuth{result: auth.LoginResult{Success: true, User: &model.User{ID: "u"}}}
	c := NewController(fa, nil, testLogger())
	c.Open()

	if c.Submit(context.Background(), model.Credentials{Email: "a@b.c", Password: "p"}) {
		t.Fatal("Submit without role succeeded")
	}
	st := c.State()
	if st.Error != msgSelectRole || !st.Open || st.Loading {
		t.Errorf("state = %+v", st)
	}
	if fa.callCount() != 0 {
		t.Errorf("authenticator called %d times", fa.callCount())
	}
	if c.SubmitDemo(context.Background()) || fa.callCount() != 0 {
		t.Error("SubmitDemo without role must not call the authenticator")
	}
}

func TestSubmit_Success(t *testing.T) {
	user := &model.User{ID: "usr_teacher", Role: model.RoleTeacher, Name: "T"}
	fa := &fakeAuth{result: auth.LoginResult{Success: true, User: user}}
	bus := events.NewBus()
	var got []*model.User
	bus.Subscribe(events.UserLoggedIn, func(e events.Event) { got = append(got, e.User) })

	c := NewController(fa, bus, testLogger())
	c.Open()
	c.SelectRole(model.RoleTeacher)
	creds := model.Credentials{Email: "t@x.org", Password: "pw"}

	if !c.Submit(context.Background(), creds) {
		t.Fatalf("Submit failed: %s", c.State().Error)
	}
	if diff := cmp.Diff(State{}, c.State()); diff != "" {
		t.Errorf("state after success (-want +got):\n%s", diff)
	}
	if len(got) != 1 || got[0].ID != "usr_teacher" {
		t.Errorf("logged-in events = %v", got)
	}
	if fa.creds != creds || fa.calls[0] != model.RoleTeacher {
		t.Errorf("authenticator got role=%v creds=%+v", fa.calls, fa.creds)
	}
}

func TestSubmit_Failure(t *testing.T) {
	fa := &fakeAuth{result: auth.LoginResult{Error: "Invalid credentials"}}
	bus := events.NewBus()
	published := 0
	bus.Subscribe(events.UserLoggedIn, func(events.Event) { published++ })

	c := NewController(fa, bus, testLogger())
	c.Open()
	c.SelectRole(model.RoleAdmin)

	if c.Submit(context.Background(), model.Credentials{Email: "a", Password: "b"}) {
		t.Fatal("Submit succeeded")
	}
	want := State{Open: true, Role: model.RoleAdmin, Error: "Invalid credentials"}
	if diff := cmp.Diff(want, c.State()); diff != "" {
		t.Errorf("state after failure (-want +got):\n%s", diff)
	}
	if published != 0 {
		t.Error("no event expected on failure")
	}

	// Retrying clears the previous error while in flight and after success.
	fa.result = auth.LoginResult{Success: true, User: &model.User{ID: "usr_admin"}}
	if !c.Submit(context.Background(), model.Credentials{Email: "a", Password: "b"}) {
		t.Fatal("retry failed")
	}
	if c.State().Error != "" {
		t.Errorf("Error = %q after success", c.State().Error)
	}
}

func TestSubmitDemo(t *testing.T) {
	fa := &fakeAuth{result: auth.LoginResult{Success: true, User: &model.User{ID: "usr_student"}}}
	c := NewController(fa, nil, testLogger())
	c.Open()
	c.SelectRole(model.RoleStudent)

	if !c.SubmitDemo(context.Background()) {
		t.Fatal("SubmitDemo failed")
	}
	if fa.demo != 1 {
		t.Errorf("demo logins = %d, want 1", fa.demo)
	}
}

func TestSubmit_RejectedWhileLoading(t *testing.T) {
	gate := make(chan struct{})
	fa := &fakeAuth{gate: gate, result: auth.LoginResult{Error: "nope"}}
	c := NewController(fa, nil, testLogger())
	c.Open()
	c.SelectRole(model.RoleParent)

	done := make(chan bool)
	go func() {
		done <- c.Submit(context.Background(), model.Credentials{Email: "p", Password: "p"})
	}()

	// Wait for the first submit to reach the authenticator.
	for fa.callCount() == 0 {
		select {
		case <-done:
			t.Fatal("first submit returned early")
		case <-time.After(time.Millisecond):
		}
	}
	if !c.State().Loading {
		t.Error("Loading = false during call")
	}
	if c.Submit(context.Background(), model.Credentials{Email: "p", Password: "p"}) {
		t.Error("second submit while loading succeeded")
	}
	if fa.callCount() != 1 {
		t.Errorf("authenticator calls = %d, want 1", fa.callCount())
	}

	close(gate)
	<-done
	if c.State().Loading {
		t.Error("Loading not released after failure")
	}
}

func TestSubmit_Cancelled(t *testing.T) {
	fa := &fakeAuth{result: auth.LoginResult{Error: "Unable to reach the server. Please check your connection."}}
	c := NewController(fa, nil, testLogger())
	c.SelectRole(model.RoleTeacher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if c.Submit(ctx, model.Credentials{Email: "e", Password: "p"}) {
		t.Fatal("cancelled submit succeeded")
	}
	st := c.State()
	if st.Loading || st.Error != "Login cancelled" {
		t.Errorf("state = %+v", st)
	}
}

func TestClose_Resets(t *testing.T) {
	c := NewController(&fakeAuth{result: auth.LoginResult{Error: "bad"}}, nil, testLogger())
	c.Open()
	c.SelectRole(model.RoleTeacher)
	c.Submit(context.Background(), model.Credentials{Email: "e", Password: "p"})
	c.Close()

	if diff := cmp.Diff(State{}, c.State()); diff != "" {
		t.Errorf("state after Close (-want +got):\n%s", diff)
	}
	c.Open()
	if c.State().Error != "" {
		t.Error("Open must clear stale errors")
	}
}
