package snapshot

import (
	"fmt"
	"strings"

	"goldenapi/pkg/logging"

	"github.com/google/go-cmp/cmp"
)

// Status is the result of comparing one request.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusBaselineMissing
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusBaselineMissing:
		return "baseline-missing"
	default:
		return "unknown"
	}
}

// Options tune one comparison.
type Options struct {
	// Suffix is appended to the test name in artifact names
	Suffix string
	// CompareAgainst reads baselines of test_<CompareAgainst> instead
	CompareAgainst string
	// Format selects structural XML equality for "xml"
	Format string
	// Normalize is applied to the baseline before comparing; nil keeps it as is
	Normalize func(string) (string, error)
}

// Outcome describes one comparison.
type Outcome struct {
	RequestID     string
	Status        Status
	ProcessedPath string
	ExpectedPath  string
	// Mismatch is set when Status is StatusFail
	Mismatch error
	// Refreshed is true when a passing baseline was rewritten
	Refreshed bool
}

// Comparator compares produced responses with baselines in a Store.
type Comparator struct {
	store *Store
}

// NewComparator creates a Comparator over store.
func NewComparator(store *Store) *Comparator {
	return &Comparator{store: store}
}

// Names returns the processed and expected artifact names of a request.
func Names(testName, requestID string, opts Options) (processed, expected string) {
	processed = ArtifactName(testName+opts.Suffix, requestID)
	baseline := testName
	if opts.CompareAgainst != "" {
		baseline = "test_" + opts.CompareAgainst
	}
	expected = ArtifactName(baseline+opts.Suffix, requestID)
	return processed, expected
}

// Compare writes produced to processed/ and compares it with its baseline.
// The returned error is reserved for store failures; mismatches are
// reported through the Outcome.
func (c *Comparator) Compare(testName, requestID, produced string, opts Options) (Outcome, error) {
	processedName, expectedName := Names(testName, requestID, opts)
	out := Outcome{
		RequestID:     requestID,
		ProcessedPath: c.store.ProcessedPath(processedName),
		ExpectedPath:  c.store.ExpectedPath(expectedName),
	}

	if err := c.store.WriteProcessed(processedName, produced); err != nil {
		return out, err
	}

	raw, ok, err := c.store.ReadExpected(expectedName)
	if err != nil {
		return out, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		out.Status = StatusBaselineMissing
		// An aliased baseline belongs to another test.
		if opts.CompareAgainst != "" {
			logging.Warn("Comparator", "Baseline %s of %s is missing", out.ExpectedPath, opts.CompareAgainst)
			return out, nil
		}
		logging.Info("Comparator", "Writing new baseline %s", out.ExpectedPath)
		if err := c.store.WriteExpected(expectedName, produced); err != nil {
			return out, err
		}
		return out, nil
	}

	expected := raw
	if opts.Normalize != nil {
		if expected, err = opts.Normalize(raw); err != nil {
			return out, fmt.Errorf("failed to normalize baseline %s: %w", out.ExpectedPath, err)
		}
	}

	if mismatch := c.diff(out, expected, produced, opts.Format); mismatch != nil {
		out.Status = StatusFail
		out.Mismatch = mismatch
		return out, nil
	}

	out.Status = StatusPass
	if raw != produced && opts.CompareAgainst == "" {
		logging.Debug("Comparator", "Refreshing baseline %s", out.ExpectedPath)
		if err := c.store.WriteExpected(expectedName, produced); err != nil {
			return out, err
		}
		out.Refreshed = true
	}
	return out, nil
}

func (c *Comparator) diff(out Outcome, expected, produced, format string) *ComparisonMismatch {
	mismatch := func(kind string) *ComparisonMismatch {
		return &ComparisonMismatch{
			RequestID:     out.RequestID,
			ProcessedPath: out.ProcessedPath,
			ExpectedPath:  out.ExpectedPath,
			Kind:          kind,
			Diff:          cmp.Diff(expected, produced),
		}
	}

	if format == "xml" {
		if equal, ok := XMLEqual(expected, produced); ok {
			if equal {
				return nil
			}
			return mismatch("structure")
		}
	}

	if len(expected) != len(produced) {
		m := mismatch("length")
		m.Diff = fmt.Sprintf("expected %d characters, got %d\n%s", len(expected), len(produced), m.Diff)
		return m
	}
	if expected != produced {
		return mismatch("content")
	}
	return nil
}
