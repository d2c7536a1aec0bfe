package api

import (
	"context"
	"errors"
)

// ErrDeclined is returned by an Executor that declines to handle a request.
var ErrDeclined = errors.New("request declined by executor")

// MetadataProvider exposes the declared API surface.
type MetadataProvider interface {
	// ListOperations returns every declaring class with its methods. The
	// order is stable for the lifetime of the provider.
	ListOperations() []ClassMetadata
	// ModuleNameFor maps a declaring class to its public module name.
	ModuleNameFor(class string) string
	// RenderExampleURL renders a query string calling class.method with the
	// given known parameter values. A non-nil Skip means no example could be
	// rendered and explains why.
	RenderExampleURL(class, method string, params Params) (string, *Skip)
}

// Executor runs one synthesized request against the system under test.
//
// The returned value may be text (string or []byte) or structured data;
// the dispatcher coerces it to text.
type Executor interface {
	Execute(ctx context.Context, params Params) (interface{}, error)
}

// LanguageSwitcher switches the process-wide active language of the system
// under test. Implementations are called from a single goroutine.
type LanguageSwitcher interface {
	// SwitchLanguage activates the given language code.
	SwitchLanguage(lang string) error
	// CurrentLanguage returns the active language code.
	CurrentLanguage() string
}
