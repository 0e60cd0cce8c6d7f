package smoke

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/eduportal/internal/api"
	"github.com/me/eduportal/internal/auth"
	"github.com/me/eduportal/internal/connection"
	"github.com/me/eduportal/internal/environment"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/internal/store"
	"github.com/me/eduportal/pkg/model"
)

// Env is what the suites need to reach a backend. Each suite keeps its
// sessions in throwaway in-memory storage.
type Env struct {
	Resolver *environment.Resolver
	Logger   *slog.Logger
	Timeout  time.Duration
}

type session struct {
	client  *api.Client
	store   *store.MemoryStore
	manager *auth.Manager
}

func (e Env) newSession() *session {
	client := api.NewClient(e.Resolver, e.Logger, api.WithTimeout(e.Timeout))
	st := store.NewMemoryStore()
	return &session{
		client:  client,
		store:   st,
		manager: auth.NewManager(client, st, events.NewBus(), e.Logger),
	}
}

func (s *session) login(ctx context.Context, role model.Role) error {
	res := s.manager.LoginDemo(ctx, role)
	if !res.Success {
		return fmt.Errorf("demo login as %s: %s", role, res.Error)
	}
	return nil
}

// Suites returns the named suites. "all" is not a suite; callers expand it.
func Suites(env Env) map[string]*Harness {
	return map[string]*Harness{
		"auth":       AuthSuite(env),
		"curriculum": CurriculumSuite(env),
		"connection": ConnectionSuite(env),
	}
}

// SuiteNames lists suite names in run order.
var SuiteNames = []string{"auth", "curriculum", "connection"}

// AuthSuite exercises the session contract: demo logins, request headers,
// role checks, logout and session restore.
func AuthSuite(env Env) *Harness {
	h := NewHarness("auth", env.Logger)
	s := env.newSession()

	for _, role := range model.Roles {
		h.Add("demo login as "+string(role), func(ctx context.Context) (string, error) {
			if err := s.login(ctx, role); err != nil {
				return "", err
			}
			u := s.manager.CurrentUser()
			if u == nil || u.Role != role {
				return "", fmt.Errorf("logged in user = %+v, want role %s", u, role)
			}
			return "logged in as " + u.Name, nil
		})
	}

	h.Add("auth headers carry bearer token", func(ctx context.Context) (string, error) {
		hdr := s.manager.WithAuthHeaders(nil)
		if hdr.Get("Content-Type") != "application/json" {
			return "", fmt.Errorf("Content-Type = %q", hdr.Get("Content-Type"))
		}
		token, ok := strings.CutPrefix(hdr.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return "", fmt.Errorf("Authorization = %q", hdr.Get("Authorization"))
		}
		return "Authorization: Bearer " + token[:min(8, len(token))] + "...", nil
	})

	h.Add("student is refused admin access", func(ctx context.Context) (string, error) {
		if err := s.login(ctx, model.RoleStudent); err != nil {
			return "", err
		}
		if s.manager.RequireRole(model.RoleAdmin) {
			return "", fmt.Errorf("RequireRole(admin) = true for a student")
		}
		if !s.manager.RequireRole(model.RoleStudent) {
			return "", fmt.Errorf("RequireRole(student) = false for a student")
		}
		return "role checks hold", nil
	})

	h.Add("wrong password is rejected", func(ctx context.Context) (string, error) {
		fresh := env.newSession()
		res := fresh.manager.Login(ctx, model.RoleTeacher, model.Credentials{Email: "teacher@demo.eduportal.dev", Password: "not-the-password"})
		if res.Success {
			return "", fmt.Errorf("login with a wrong password succeeded")
		}
		if fresh.manager.IsAuthenticated() {
			return "", fmt.Errorf("session changed after a failed login")
		}
		return "rejected: " + res.Error, nil
	})

	h.Add("session survives restart", func(ctx context.Context) (string, error) {
		if err := s.login(ctx, model.RoleParent); err != nil {
			return "", err
		}
		client := api.NewClient(env.Resolver, env.Logger, api.WithTimeout(env.Timeout))
		restarted := auth.NewManager(client, s.store, events.NewBus(), env.Logger)
		if !restarted.HydrateSession(ctx) {
			return "", fmt.Errorf("HydrateSession = false")
		}
		if restarted.Token() != s.manager.Token() {
			return "", fmt.Errorf("restored token differs")
		}
		return "restored " + restarted.CurrentUser().ID, nil
	})

	h.Add("logout clears the session", func(ctx context.Context) (string, error) {
		s.manager.Logout(ctx)
		if s.manager.IsAuthenticated() {
			return "", fmt.Errorf("still authenticated")
		}
		if s.manager.HydrateSession(ctx) {
			return "", fmt.Errorf("HydrateSession = true after logout")
		}
		return "logged out", nil
	})

	return h
}

// CurriculumSuite exercises the admin curriculum endpoints and the
// per-user assignment and library lists.
func CurriculumSuite(env Env) *Harness {
	h := NewHarness("curriculum", env.Logger)
	s := env.newSession()
	var subject, grade string

	h.Add("admin login", func(ctx context.Context) (string, error) {
		if err := s.login(ctx, model.RoleAdmin); err != nil {
			return "", err
		}
		return "logged in", nil
	})

	h.Add("list subjects", func(ctx context.Context) (string, error) {
		subjects, err := s.client.Subjects(ctx)
		if err != nil {
			return "", err
		}
		if len(subjects) == 0 {
			return "", fmt.Errorf("no subjects")
		}
		subject = subjects[0].ID
		return fmt.Sprintf("%d subjects", len(subjects)), nil
	})

	h.Add("list grades", func(ctx context.Context) (string, error) {
		grades, err := s.client.Grades(ctx)
		if err != nil {
			return "", err
		}
		if len(grades) == 0 {
			return "", fmt.Errorf("no grades")
		}
		grade = grades[len(grades)/2].ID
		return fmt.Sprintf("%d grades", len(grades)), nil
	})

	h.Add("dry-run generate", func(ctx context.Context) (string, error) {
		before, err := s.client.Lessons(ctx, subject, grade)
		if err != nil {
			return "", err
		}
		res, err := s.client.Generate(ctx, model.GenerateRequest{Subject: subject, Grade: grade, Count: 2, DryRun: true})
		if err != nil {
			return "", err
		}
		if !res.DryRun || res.Created != 0 || len(res.Lessons) != 2 {
			return "", fmt.Errorf("unexpected dry-run result: dryRun=%v created=%d lessons=%d", res.DryRun, res.Created, len(res.Lessons))
		}
		after, err := s.client.Lessons(ctx, subject, grade)
		if err != nil {
			return "", err
		}
		if len(after) != len(before) {
			return "", fmt.Errorf("dry run stored lessons: %d -> %d", len(before), len(after))
		}
		return fmt.Sprintf("would create %d lessons", len(res.Lessons)), nil
	})

	h.Add("generate", func(ctx context.Context) (string, error) {
		res, err := s.client.Generate(ctx, model.GenerateRequest{Subject: subject, Grade: grade, Count: 1})
		if err != nil {
			return "", err
		}
		if res.Created != 1 {
			return "", fmt.Errorf("created = %d, want 1", res.Created)
		}
		return "created " + res.Lessons[0].Title, nil
	})

	h.Add("list lessons", func(ctx context.Context) (string, error) {
		lessons, err := s.client.Lessons(ctx, subject, grade)
		if err != nil {
			return "", err
		}
		if len(lessons) == 0 {
			return "", fmt.Errorf("no lessons after generate")
		}
		return fmt.Sprintf("%d lessons", len(lessons)), nil
	})

	h.Add("student assignments", func(ctx context.Context) (string, error) {
		st := env.newSession()
		if err := st.login(ctx, model.RoleStudent); err != nil {
			return "", err
		}
		u := st.manager.CurrentUser()
		items, err := st.client.Assignments(ctx, u.Role, u.ID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d assignments", len(items)), nil
	})

	h.Add("teacher library", func(ctx context.Context) (string, error) {
		tc := env.newSession()
		if err := tc.login(ctx, model.RoleTeacher); err != nil {
			return "", err
		}
		u := tc.manager.CurrentUser()
		items, err := tc.client.Library(ctx, u.Role, u.ID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d library items", len(items)), nil
	})

	h.Add("non-admin is refused", func(ctx context.Context) (string, error) {
		tc := env.newSession()
		if err := tc.login(ctx, model.RoleTeacher); err != nil {
			return "", err
		}
		if _, err := tc.client.Subjects(ctx); err == nil {
			return "", fmt.Errorf("teacher listed admin subjects")
		}
		return "403 as expected", nil
	})

	return h
}

// ConnectionSuite pairs a demo student with the demo teacher.
func ConnectionSuite(env Env) *Harness {
	h := NewHarness("connection", env.Logger)
	teacher := env.newSession()
	student := env.newSession()
	teacherSvc := connection.NewService(teacher.client, teacher.store, teacher.manager, env.Logger)
	studentSvc := connection.NewService(student.client, student.store, student.manager, env.Logger)
	var code string
	var before int

	h.Add("teacher generates a code", func(ctx context.Context) (string, error) {
		if err := teacher.login(ctx, model.RoleTeacher); err != nil {
			return "", err
		}
		u := teacher.manager.CurrentUser()
		res := teacherSvc.Generate(ctx, u.ID, u.Role)
		if !res.Success {
			return "", fmt.Errorf("generate: %s", res.Message)
		}
		code = res.Code
		return "code " + code, nil
	})

	h.Add("student enters the code", func(ctx context.Context) (string, error) {
		if code == "" {
			return "", fmt.Errorf("no code to enter")
		}
		if err := student.login(ctx, model.RoleStudent); err != nil {
			return "", err
		}
		before = len(studentSvc.Connections(ctx, model.RoleStudent))
		res := studentSvc.Enter(ctx, strings.ToLower(code))
		if !res.Success {
			return "", fmt.Errorf("enter: %s", res.Message)
		}
		return fmt.Sprintf("connected to %s %s", res.Connection.Type, res.Connection.Name), nil
	})

	h.Add("connection is listed", func(ctx context.Context) (string, error) {
		list := studentSvc.Connections(ctx, model.RoleStudent)
		if len(list) != before+1 {
			return "", fmt.Errorf("connections = %d, want %d", len(list), before+1)
		}
		if list[len(list)-1].Code != code {
			return "", fmt.Errorf("last connection code = %q, want %q", list[len(list)-1].Code, code)
		}
		return fmt.Sprintf("%d connection(s)", len(list)), nil
	})

	h.Add("bad code is rejected", func(ctx context.Context) (string, error) {
		res := studentSvc.Enter(ctx, "ZZZZZZ")
		if res.Success {
			return "", fmt.Errorf("unregistered code accepted")
		}
		return "rejected: " + res.Message, nil
	})

	return h
}
