package snapshot

import (
	"fmt"
	"strings"
)

// StoreUnwritableError reports that the processed directory cannot be
// written.
type StoreUnwritableError struct {
	Dir string
	Err error
}

func (e *StoreUnwritableError) Error() string {
	return fmt.Sprintf("To run the tests, you need to give write permissions to the following directory (create it if it doesn't exist).\n"+
		"%s\nRun: mkdir -p %s && chmod 777 %s\n(%v)", e.Dir, e.Dir, e.Dir, e.Err)
}

func (e *StoreUnwritableError) Unwrap() error {
	return e.Err
}

// MissingBaselinesError lists the baselines that were bootstrapped during a
// run and must be reviewed.
type MissingBaselinesError struct {
	Paths       []string
	ExpectedDir string
}

func (e *MissingBaselinesError) Error() string {
	var b strings.Builder
	for _, p := range e.Paths {
		fmt.Fprintf(&b, "Could not find expected API output '%s'. ", p)
	}
	fmt.Fprintf(&b, "For new tests, to pass the test, you can copy files from the processed/ directory into %s after checking that the output is valid.", e.ExpectedDir)
	return b.String()
}

// ComparisonMismatch is one request whose output differs from its baseline.
type ComparisonMismatch struct {
	RequestID     string
	ProcessedPath string
	ExpectedPath  string
	// Kind is "length", "content" or "structure"
	Kind string
	// Diff is a go-cmp diff from expected to produced
	Diff string
}

func (e *ComparisonMismatch) Error() string {
	return fmt.Sprintf("Differences with expected in '%s' (%s mismatch against %s)\n%s", e.ProcessedPath, e.Kind, e.ExpectedPath, e.Diff)
}

// ComparisonFailures aggregates every failed request of a run. The first
// failure is exposed through Representative and Unwrap.
type ComparisonFailures struct {
	Failures []error
}

func (e *ComparisonFailures) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d comparison failure(s):", len(e.Failures))
	for i, f := range e.Failures {
		first, _, _ := strings.Cut(f.Error(), "\n")
		fmt.Fprintf(&b, "\n#%d: %s", i+1, first)
	}
	return b.String()
}

// Representative returns the first failure.
func (e *ComparisonFailures) Representative() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0]
}

func (e *ComparisonFailures) Unwrap() error {
	return e.Representative()
}

// RequestFailure wraps an error raised while producing a request's output,
// such as a declined dispatch or a normalization guard.
type RequestFailure struct {
	RequestID string
	Err       error
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.RequestID, e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}
