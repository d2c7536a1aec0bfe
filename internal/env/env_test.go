package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(vars map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromLookup(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		ci      bool
		adapter string
	}{
		{"empty", map[string]string{}, false, DefaultAdapter},
		{"ci", map[string]string{"CI": "true"}, true, DefaultAdapter},
		{"travis", map[string]string{"TRAVIS": "1"}, true, DefaultAdapter},
		{"ci disabled", map[string]string{"CI": "false"}, false, DefaultAdapter},
		{"mysqli", map[string]string{"MYSQL_ADAPTER": "mysqli"}, false, "MYSQLI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromLookup(lookupFrom(tt.vars))
			assert.Equal(t, tt.ci, m.CI)
			assert.Equal(t, tt.adapter, m.Adapter)
		})
	}
}

func TestSkipReason(t *testing.T) {
	m := Mode{CI: true, Adapter: "MYSQLI"}
	assert.Equal(t, "skipped on CI", m.SkipReason(true, ""))
	assert.Equal(t, "skipped on adapter MYSQLI", m.SkipReason(false, "mysqli"))
	assert.Empty(t, m.SkipReason(false, "PDO_MYSQL"))
	assert.Empty(t, Mode{}.SkipReason(true, ""))
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("TRAVIS", "")
	t.Setenv(AdapterVariable, "mysqli")
	m := FromEnvironment()
	assert.False(t, m.CI)
	assert.Equal(t, "MYSQLI", m.Adapter)
}
