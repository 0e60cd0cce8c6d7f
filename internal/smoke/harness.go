// Package smoke runs scripted scenarios against a live backend and reports
// pass/fail per step.
package smoke

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/me/eduportal/internal/logging"
)

// CheckFunc runs one scenario step. A nil error passes; the returned
// message describes what was observed either way.
type CheckFunc func(ctx context.Context) (string, error)

// Check is a named scenario step.
type Check struct {
	Name string
	Run  CheckFunc
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Passed   bool
	Message  string
	Duration time.Duration
}

// Report collects the results of a harness run in order.
type Report struct {
	Suite   string
	Results []Result
}

// Passed returns the number of passing checks.
func (r Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Total returns the number of checks run.
func (r Report) Total() int { return len(r.Results) }

// OK reports whether every check passed.
func (r Report) OK() bool { return r.Passed() == r.Total() }

// Print writes one line per check and a passed/total summary.
func (r Report) Print(w io.Writer) error {
	for _, res := range r.Results {
		mark := "PASS"
		if !res.Passed {
			mark = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s  %s: %s\n", mark, res.Name, res.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d/%d checks passed\n", r.Suite, r.Passed(), r.Total())
	return err
}

// Harness is an ordered list of checks.
type Harness struct {
	name   string
	checks []Check
	logger *slog.Logger
}

// NewHarness creates an empty harness.
func NewHarness(name string, logger *slog.Logger) *Harness {
	return &Harness{name: name, logger: logging.Component(logger, "smoke")}
}

// Name returns the suite name.
func (h *Harness) Name() string { return h.name }

// Add appends a check.
func (h *Harness) Add(name string, fn CheckFunc) *Harness {
	h.checks = append(h.checks, Check{Name: name, Run: fn})
	return h
}

// Run executes the checks in order. Every check runs even after a failure;
// a cancelled context fails the remaining checks without running them.
func (h *Harness) Run(ctx context.Context) Report {
	rep := Report{Suite: h.name}
	for _, c := range h.checks {
		if err := ctx.Err(); err != nil {
			rep.Results = append(rep.Results, Result{Name: c.Name, Message: "skipped: " + err.Error()})
			continue
		}
		start := time.Now()
		msg, err := runCheck(ctx, c)
		res := Result{Name: c.Name, Passed: err == nil, Message: msg, Duration: time.Since(start)}
		if err != nil {
			res.Message = err.Error()
			h.logger.Warn("check failed", "suite", h.name, "check", c.Name, "error", err)
		} else {
			h.logger.Debug("check passed", "suite", h.name, "check", c.Name)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func runCheck(ctx context.Context, c Check) (msg string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return c.Run(ctx)
}
