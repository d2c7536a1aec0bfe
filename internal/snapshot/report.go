package snapshot

import (
	"errors"
)

// RunReport collects the outcomes of one test method.
type RunReport struct {
	TestName    string
	ExpectedDir string
	Outcomes    []Outcome
	Missing     []string
	Failures    []error
	Passed      int
}

// NewRunReport creates an empty report.
func NewRunReport(testName, expectedDir string) *RunReport {
	return &RunReport{TestName: testName, ExpectedDir: expectedDir}
}

// Add records a comparison outcome.
func (r *RunReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusPass:
		r.Passed++
	case StatusBaselineMissing:
		r.Missing = append(r.Missing, o.ExpectedPath)
	case StatusFail:
		r.Failures = append(r.Failures, o.Mismatch)
	}
}

// AddFailure records a request that failed before comparison.
func (r *RunReport) AddFailure(requestID string, err error) {
	r.Failures = append(r.Failures, &RequestFailure{RequestID: requestID, Err: err})
}

// Total returns the number of recorded requests.
func (r *RunReport) Total() int {
	return r.Passed + len(r.Missing) + len(r.Failures)
}

// Err returns the run-level error: missing baselines first, then the
// aggregated comparison failures. Both are joined when both occurred.
func (r *RunReport) Err() error {
	var errs []error
	if len(r.Missing) > 0 {
		errs = append(errs, &MissingBaselinesError{Paths: r.Missing, ExpectedDir: r.ExpectedDir})
	}
	if len(r.Failures) > 0 {
		errs = append(errs, &ComparisonFailures{Failures: r.Failures})
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
