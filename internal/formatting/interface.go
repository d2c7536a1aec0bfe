// Package formatting renders run summaries and operation listings for the
// command line as go-pretty tables, JSON or YAML.
package formatting

import (
	"fmt"
	"io"
	"os"
	"time"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
	// Output defaults to os.Stdout
	Output io.Writer
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// CaseRow is one line of a run summary.
type CaseRow struct {
	Suite    string        `json:"suite" yaml:"suite"`
	Case     string        `json:"case" yaml:"case"`
	Result   string        `json:"result" yaml:"result"`
	Requests int           `json:"requests" yaml:"requests"`
	Passed   int           `json:"passed" yaml:"passed"`
	Missing  int           `json:"missing" yaml:"missing"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// OperationRow is one line of an operation listing.
type OperationRow struct {
	ID     string `json:"id" yaml:"id"`
	Class  string `json:"class,omitempty" yaml:"class,omitempty"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Formatter renders summaries and listings.
type Formatter interface {
	FormatCaseSummary(rows []CaseRow) error
	FormatOperations(rows []OperationRow) error
}

// New creates the formatter for options.Format.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &dataFormatter{options: options, encode: encodeJSON}
	case FormatYAML:
		return &dataFormatter{options: options, encode: encodeYAML}
	default:
		return NewTableFormatter(options)
	}
}
