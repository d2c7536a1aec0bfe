package harness

import (
	"time"

	"goldenapi/internal/api"
	"goldenapi/internal/request"
	"goldenapi/internal/snapshot"
)

// TestResult is the result of one case.
type TestResult string

const (
	ResultPassed  TestResult = "PASSED"
	ResultFailed  TestResult = "FAILED"
	ResultSkipped TestResult = "SKIPPED"
	ResultError   TestResult = "ERROR"
)

// TestLogger receives harness progress messages.
type TestLogger interface {
	// Debug logs debug-level messages (only shown when debug=true)
	Debug(format string, args ...interface{})
	// Info logs info-level messages (shown when verbose=true or debug=true)
	Info(format string, args ...interface{})
	// Error logs error-level messages (always shown)
	Error(format string, args ...interface{})
	// IsDebugEnabled returns whether debug logging is enabled
	IsDebugEnabled() bool
	// IsVerboseEnabled returns whether verbose logging is enabled
	IsVerboseEnabled() bool
}

// CaseReport is everything one RunAPITests call produced.
type CaseReport struct {
	TestName string
	// Operations are the enumerated operation ids
	Operations []string
	// Skipped lists skipped operations and declined combinations
	Skipped []api.Skip
	// Requests is nil when the build failed
	Requests *request.Collection
	Report   *snapshot.RunReport
}

// Err returns the run-level comparison error of the case.
func (r *CaseReport) Err() error {
	if r == nil || r.Report == nil {
		return nil
	}
	return r.Report.Err()
}

// RequestResult is the JSON form of one compared request.
type RequestResult struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Expected  string `json:"expected,omitempty"`
	Processed string `json:"processed,omitempty"`
	Refreshed bool   `json:"refreshed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CaseResult is the outcome of one suite case.
type CaseResult struct {
	Suite      string          `json:"suite"`
	TestName   string          `json:"test_name"`
	Case       string          `json:"case"`
	Result     TestResult      `json:"result"`
	SkipReason string          `json:"skip_reason,omitempty"`
	Requests   int             `json:"requests"`
	Passed     int             `json:"passed"`
	Missing    []string        `json:"missing,omitempty"`
	Failed     int             `json:"failed"`
	Skipped    []api.Skip      `json:"skipped,omitempty"`
	Outcomes   []RequestResult `json:"outcomes,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartTime  time.Time       `json:"start_time"`
	Duration   time.Duration   `json:"duration"`

	// err keeps the typed error for exit code mapping
	err error
}

// Err returns the typed error behind a failed or errored case.
func (c CaseResult) Err() error {
	return c.err
}

// SuiteResult aggregates every case of a run.
type SuiteResult struct {
	RunID        string        `json:"run_id"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration"`
	TotalCases   int           `json:"total_cases"`
	PassedCases  int           `json:"passed_cases"`
	FailedCases  int           `json:"failed_cases"`
	SkippedCases int           `json:"skipped_cases"`
	ErrorCases   int           `json:"error_cases"`
	CaseResults  []CaseResult  `json:"case_results"`
}

// Succeeded reports whether no case failed or errored.
func (s SuiteResult) Succeeded() bool {
	return s.FailedCases == 0 && s.ErrorCases == 0
}

func (s *SuiteResult) add(c CaseResult) {
	s.CaseResults = append(s.CaseResults, c)
	s.TotalCases++
	switch c.Result {
	case ResultPassed:
		s.PassedCases++
	case ResultFailed:
		s.FailedCases++
	case ResultSkipped:
		s.SkippedCases++
	case ResultError:
		s.ErrorCases++
	}
}

// RunConfiguration describes a run for reporters.
type RunConfiguration struct {
	SuitePath  string        `json:"suite_path"`
	Descriptor string        `json:"descriptor,omitempty"`
	Store      string        `json:"store"`
	Target     string        `json:"target,omitempty"`
	Case       string        `json:"case,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty"`
	ReportPath string        `json:"report_path,omitempty"`
}

// TestReporter receives run lifecycle events.
type TestReporter interface {
	// ReportStart is called when a run begins
	ReportStart(config RunConfiguration)
	// ReportCaseStart is called before a case runs
	ReportCaseStart(suite, name string)
	// ReportCaseResult is called when a case completes
	ReportCaseResult(result CaseResult)
	// ReportSuiteResult is called when all cases completed
	ReportSuiteResult(result SuiteResult)
}
