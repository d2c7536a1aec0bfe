package request

import (
	"fmt"
	"strings"

	"goldenapi/internal/config"
)

// ProbeError reports that the sub-table probe found nothing to load. It is a
// configuration problem and also matches *config.ConfigurationError.
type ProbeError struct {
	// Operation is the "Module.method" the probe was issued for
	Operation string
	// Probe is the configured supertable operation
	Probe string
	// Cause is set when the probe itself failed
	Cause error
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sub-table probe %s for %s failed: %v", e.Probe, e.Operation, e.Cause)
	}
	return fmt.Sprintf("Cannot find subtable to load for %s in %s.", e.Operation, e.Probe)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// As lets errors.As treat a probe failure as a configuration error.
func (e *ProbeError) As(target interface{}) bool {
	if ce, ok := target.(**config.ConfigurationError); ok {
		*ce = &config.ConfigurationError{
			Key:     config.KeySupertableAPI,
			Message: e.Error(),
			Suggestions: []string{
				"Check that the probe operation returns rows with an idsubdatatable for this site and date",
			},
		}
		return true
	}
	return false
}

// InsufficientCoverageError reports that fewer requests were synthesized than
// operations were explicitly requested, or none at all.
type InsufficientCoverageError struct {
	Requested []string
	Generated []string
}

func (e *InsufficientCoverageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Only generated %d API calls to test but was expecting more for this test.\n", len(e.Generated))
	fmt.Fprintf(&b, "Want to test APIs: %s\n", strings.Join(e.Requested, ", "))
	b.WriteString("But only generated these requests:\n")
	b.WriteString(strings.Join(e.Generated, "\n"))
	return b.String()
}

// DuplicateRequestError reports two combinations that derived the same
// identifier.
type DuplicateRequestError struct {
	ID string
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("request identifier '%s' was generated twice", e.ID)
}
