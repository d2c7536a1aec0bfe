package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Engine resolves {{ name }} placeholders inside parameter values.
type Engine struct {
	// Pattern to match template variables like {{ variableName }}
	templatePattern *regexp.Regexp
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		templatePattern: regexp.MustCompile(`\{\{\s*\.?([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`),
	}
}

// HasTemplates reports whether s contains at least one placeholder.
func (e *Engine) HasTemplates(s string) bool {
	return e.templatePattern.MatchString(s)
}

// Render replaces every placeholder in s with its value from vars.
// All missing variables are reported together.
func (e *Engine) Render(s string, vars map[string]string) (string, error) {
	var missingVars []string

	result := e.templatePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := e.templatePattern.FindStringSubmatch(match)[1]
		value, exists := vars[name]
		if !exists {
			missingVars = append(missingVars, name)
			return match
		}
		return value
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missingVars, ", "))
	}
	return result, nil
}

// RenderMap renders every value of m against vars and returns a new map.
func (e *Engine) RenderMap(m map[string]string, vars map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(m))
	for key, value := range m {
		rendered, err := e.Render(value, vars)
		if err != nil {
			return nil, fmt.Errorf("error in key '%s': %w", key, err)
		}
		result[key] = rendered
	}
	return result, nil
}

// ExtractVariables returns the sorted, de-duplicated variable names used in s.
func (e *Engine) ExtractVariables(s string) []string {
	seen := make(map[string]bool)
	for _, match := range e.templatePattern.FindAllStringSubmatch(s, -1) {
		if len(match) >= 2 {
			seen[match[1]] = true
		}
	}

	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
