package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid test configuration or suite file.
// It is fatal: the run is aborted before any request is dispatched.
type ConfigurationError struct {
	// FilePath is the suite file that carried the option, if any
	FilePath string `json:"filePath,omitempty"`
	// Key is the offending option key, if any
	Key string `json:"key,omitempty"`
	// Message is the human-readable error message
	Message string `json:"message"`
	// Suggestions are actionable hints to fix the error
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if ce.FilePath != "" {
		b.WriteString(" in ")
		b.WriteString(ce.FilePath)
	}
	if ce.Key != "" {
		fmt.Fprintf(&b, " (option '%s')", ce.Key)
	}
	b.WriteString(": ")
	b.WriteString(ce.Message)
	return b.String()
}

// DetailedError returns the error message followed by its suggestions.
func (ce *ConfigurationError) DetailedError() string {
	if len(ce.Suggestions) == 0 {
		return ce.Error()
	}
	parts := []string{ce.Error(), "  Suggestions:"}
	for _, suggestion := range ce.Suggestions {
		parts = append(parts, fmt.Sprintf("    - %s", suggestion))
	}
	return strings.Join(parts, "\n")
}

func newKeyError(key, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: fmt.Sprintf(format, args...)}
}
