package normalize

import (
	"strings"

	"goldenapi/internal/api"
)

// Context describes the request a response belongs to.
type Context struct {
	// Method is the "Module.method" the request addressed
	Method string
	// Format is the requested output format
	Format string
	// FileExtension is the configured identifier extension, if any
	FileExtension string
	// Date is the configured date expression
	Date string
	// Params are the final request parameters
	Params api.Params
	// SubtableResolved is true when a probe supplied the idSubtable
	SubtableResolved bool
	// KeepLiveDates keeps the date fields of live-data operations
	KeepLiveDates bool
	// FieldsToRemove are extra XML elements to strip
	FieldsToRemove []string
}

// RelativeDate reports whether the configured or requested date depends on
// the current time.
func (c Context) RelativeDate() bool {
	return isRelativeDate(c.Date) || isRelativeDate(c.Params["date"])
}

// EmbeddedDocument reports whether the response is a generated PDF.
func (c Context) EmbeddedDocument() bool {
	return c.Format == "pdf" || c.FileExtension == "pdf" || c.Params["reportFormat"] == "pdf"
}

func isRelativeDate(date string) bool {
	d := strings.ToLower(date)
	return strings.Contains(d, "last") || strings.Contains(d, "today") || strings.Contains(d, "now")
}
