package smoke

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/eduportal/internal/devserver"
	"github.com/me/eduportal/internal/environment"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEnv(t *testing.T) Env {
	t.Helper()
	cfg := devserver.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	srv, err := devserver.New(cfg, testLogger())
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return Env{
		Resolver: environment.NewResolver(environment.Location{Protocol: "http:", Hostname: "localhost", Port: "5001"}).WithBaseURL(ts.URL),
		Logger:   testLogger(),
		Timeout:  5 * time.Second,
	}
}

func TestHarness_RunAndPrint(t *testing.T) {
	h := NewHarness("demo", testLogger()).
		Add("ok", func(context.Context) (string, error) { return "fine", nil }).
		Add("bad", func(context.Context) (string, error) { return "", errors.New("broken") }).
		Add("boom", func(context.Context) (string, error) { panic("kaboom") }).
		Add("after", func(context.Context) (string, error) { return "still ran", nil })

	rep := h.Run(context.Background())
	if rep.Total() != 4 || rep.Passed() != 2 || rep.OK() {
		t.Fatalf("passed/total = %d/%d", rep.Passed(), rep.Total())
	}
	if rep.Results[2].Message != "panic: kaboom" {
		t.Errorf("panic message = %q", rep.Results[2].Message)
	}

	var buf bytes.Buffer
	if err := rep.Print(&buf); err != nil {
		t.Fatal(err)
	}
	want := "PASS  ok: fine\nFAIL  bad: broken\nFAIL  boom: panic: kaboom\nPASS  after: still ran\ndemo: 2/4 checks passed\n"
	if buf.String() != want {
		t.Errorf("Print output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestHarness_Cancelled(t *testing.T) {
	ran := false
	h := NewHarness("c", testLogger()).Add("x", func(context.Context) (string, error) {
		ran = true
		return "", nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := h.Run(ctx)
	if ran || rep.Passed() != 0 || !strings.HasPrefix(rep.Results[0].Message, "skipped") {
		t.Errorf("cancelled run = %+v, ran=%v", rep, ran)
	}
}

func TestSuitesAgainstDevserver(t *testing.T) {
	env := testEnv(t)
	suites := Suites(env)
	for _, name := range SuiteNames {
		t.Run(name, func(t *testing.T) {
			rep := suites[name].Run(context.Background())
			if !rep.OK() {
				var buf bytes.Buffer
				rep.Print(&buf)
				t.Errorf("suite %s failed:\n%s", name, buf.String())
			}
		})
	}
}

func TestSuitesReportUnreachableBackend(t *testing.T) {
	env := Env{
		Resolver: environment.NewResolver(environment.Location{Protocol: "http:", Hostname: "localhost", Port: "5001"}).WithBaseURL("http://127.0.0.1:1"),
		Logger:   testLogger(),
		Timeout:  time.Second,
	}
	rep := AuthSuite(env).Run(context.Background())
	if rep.OK() {
		t.Error("auth suite passed without a backend")
	}
}
