package api

import "fmt"

// SkipReason classifies why a request combination was not generated.
type SkipReason string

const (
	// SkipNoExample means the operation is intentionally unsupported for
	// example rendering (e.g. it mutates state).
	SkipNoExample SkipReason = "no-example"
	// SkipMissingParameter means a required parameter had no known value.
	// This usually points at a descriptor or suite that needs attention.
	SkipMissingParameter SkipReason = "missing-parameter"
	// SkipNotIncluded means the operation was not in the include list.
	SkipNotIncluded SkipReason = "not-included"
	// SkipNotReadOperation means the method does not follow the read naming convention.
	SkipNotReadOperation SkipReason = "not-read-operation"
	// SkipExcluded means the module or operation is on the exclude list.
	SkipExcluded SkipReason = "excluded"
	// SkipAssetMethod means the method returns UI assets that are never snapshotted.
	SkipAssetMethod SkipReason = "asset-method"
)

// Skip records one skipped operation (or operation/period/format combination).
type Skip struct {
	// ID is the "Module.method" identifier
	ID string `json:"id"`
	// Reason classifies the skip
	Reason SkipReason `json:"reason"`
	// Detail adds context such as the missing parameter name
	Detail string `json:"detail,omitempty"`
}

// String implements fmt.Stringer.
func (s Skip) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("%s (%s)", s.ID, s.Reason)
	}
	return fmt.Sprintf("%s (%s: %s)", s.ID, s.Reason, s.Detail)
}
