// Package env derives execution-mode flags from the process environment.
package env

import (
	"os"
	"strings"
)

const (
	// AdapterVariable selects the database adapter the instance under test uses
	AdapterVariable = "MYSQL_ADAPTER"
	// DefaultAdapter is used when AdapterVariable is unset
	DefaultAdapter = "PDO_MYSQL"
)

// Lookup reads an environment variable.
type Lookup func(key string) (string, bool)

// Mode is the execution mode of a run.
type Mode struct {
	// CI is true on continuous integration hosts
	CI bool
	// Adapter is the database adapter name, upper case
	Adapter string
}

// FromEnvironment reads the mode from the process environment.
func FromEnvironment() Mode {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the mode through lookup.
func FromLookup(lookup Lookup) Mode {
	return Mode{
		CI:      isSet(lookup, "CI") || isSet(lookup, "TRAVIS"),
		Adapter: adapter(lookup),
	}
}

// SkipReason returns why a case marked skipOnCI / skipOnAdapter must not run
// in this mode, or "" when it runs.
func (m Mode) SkipReason(skipOnCI bool, skipOnAdapter string) string {
	if skipOnCI && m.CI {
		return "skipped on CI"
	}
	if skipOnAdapter != "" && strings.EqualFold(skipOnAdapter, m.Adapter) {
		return "skipped on adapter " + m.Adapter
	}
	return ""
}

func isSet(lookup Lookup, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v != "" && v != "0" && v != "false"
}

func adapter(lookup Lookup) string {
	if v, ok := lookup(AdapterVariable); ok && strings.TrimSpace(v) != "" {
		return strings.ToUpper(strings.TrimSpace(v))
	}
	return DefaultAdapter
}
