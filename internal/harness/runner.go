package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldenapi/internal/config"
	"goldenapi/internal/env"
	"goldenapi/internal/normalize"
	"goldenapi/internal/snapshot"

	"github.com/google/uuid"
)

// FailuresError reports that cases failed comparison.
type FailuresError struct {
	Failed int
	Total  int
}

func (e *FailuresError) Error() string {
	return fmt.Sprintf("%d of %d cases failed", e.Failed, e.Total)
}

// Err returns the error that decides a run's exit status: the first errored
// case's error, then a FailuresError when cases failed, else nil.
func (s SuiteResult) Err() error {
	for _, c := range s.CaseResults {
		if c.Result == ResultError && c.err != nil {
			return c.err
		}
	}
	if s.FailedCases > 0 || s.ErrorCases > 0 {
		return &FailuresError{Failed: s.FailedCases + s.ErrorCases, Total: s.TotalCases}
	}
	return nil
}

// Runner runs suites case by case through a Harness.
type Runner struct {
	harness  *Harness
	reporter TestReporter
	mode     env.Mode
	filter   string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMode sets the execution mode used by skipOnCI and skipOnAdapter.
func WithMode(m env.Mode) RunnerOption {
	return func(r *Runner) {
		r.mode = m
	}
}

// WithCaseFilter runs only cases whose name, or whose suite's name, equals name.
func WithCaseFilter(name string) RunnerOption {
	return func(r *Runner) {
		r.filter = name
	}
}

// NewRunner creates a Runner. The default mode is read from the environment.
func NewRunner(h *Harness, reporter TestReporter, opts ...RunnerOption) *Runner {
	r := &Runner{
		harness:  h,
		reporter: reporter,
		mode:     env.FromEnvironment(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every selected case of suites sequentially.
func (r *Runner) Run(ctx context.Context, cfg RunConfiguration, suites []config.Suite) *SuiteResult {
	result := &SuiteResult{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	r.reporter.ReportStart(cfg)

suites:
	for _, suite := range suites {
		h, err := r.harnessFor(suite)
		for i, c := range suite.Cases {
			name := c.DisplayName(i)
			if r.filter != "" && r.filter != name && r.filter != suite.Name {
				continue
			}

			r.reporter.ReportCaseStart(suite.Name, name)
			var cr CaseResult
			if err != nil {
				cr = CaseResult{Suite: suite.Name, TestName: suite.TestName(), Case: name, StartTime: time.Now()}
				cr.fail(err, ResultError)
			} else {
				cr = r.runCase(ctx, h, suite, name, c)
			}
			result.add(cr)
			r.reporter.ReportCaseResult(cr)

			if ctx.Err() != nil {
				break suites
			}
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	r.reporter.ReportSuiteResult(*result)
	return result
}

// harnessFor applies the suite's rounding table.
func (r *Runner) harnessFor(suite config.Suite) (*Harness, error) {
	if len(suite.Rounding) == 0 && r.mode.Adapter != "MYSQLI" {
		return r.harness, nil
	}
	opts := []normalize.Option{normalize.WithAdapter(r.mode.Adapter)}
	if len(suite.Rounding) > 0 {
		table, err := normalize.RoundingFromConfig(suite.Rounding)
		if err != nil {
			var cfgErr *config.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.FilePath = suite.Path
			}
			return nil, err
		}
		opts = append(opts, normalize.WithRounding(table))
	}
	h := *r.harness
	h.normalizer = normalize.New(opts...)
	return &h, nil
}

func (r *Runner) runCase(ctx context.Context, h *Harness, suite config.Suite, name string, c config.Case) (cr CaseResult) {
	cr = CaseResult{
		Suite:     suite.Name,
		TestName:  suite.TestName(),
		Case:      name,
		StartTime: time.Now(),
	}
	defer func() {
		cr.Duration = time.Since(cr.StartTime)
	}()

	if reason := r.mode.SkipReason(c.SkipOnCI, c.SkipOnAdapter); reason != "" {
		cr.Result = ResultSkipped
		cr.SkipReason = reason
		return cr
	}

	report, err := h.Run(ctx, suite.TestName(), c.API, c.Config)
	if report != nil {
		cr.Skipped = report.Skipped
		if report.Requests != nil {
			cr.Requests = report.Requests.Len()
		}
		if report.Report != nil {
			cr.record(report.Report)
		}
	}
	if err != nil {
		cr.fail(err, ResultError)
		return cr
	}
	if err := report.Err(); err != nil {
		cr.fail(err, ResultFailed)
		return cr
	}
	cr.Result = ResultPassed
	return cr
}

func (c *CaseResult) fail(err error, result TestResult) {
	c.Result = result
	c.Error = err.Error()
	c.err = err
}

func (c *CaseResult) record(report *snapshot.RunReport) {
	c.Passed = report.Passed
	c.Missing = append([]string(nil), report.Missing...)
	c.Failed = len(report.Failures)
	for _, o := range report.Outcomes {
		rr := RequestResult{
			ID:        o.RequestID,
			Status:    o.Status.String(),
			Expected:  o.ExpectedPath,
			Processed: o.ProcessedPath,
			Refreshed: o.Refreshed,
		}
		if o.Mismatch != nil {
			rr.Error = o.Mismatch.Error()
		}
		c.Outcomes = append(c.Outcomes, rr)
	}
	for _, f := range report.Failures {
		var rf *snapshot.RequestFailure
		if errors.As(f, &rf) {
			c.Outcomes = append(c.Outcomes, RequestResult{ID: rf.RequestID, Status: "error", Error: rf.Err.Error()})
		}
	}
}
