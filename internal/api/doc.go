// Package api defines the contracts between the golden-file harness core and
// the collaborators it drives.
//
// The harness never talks to the system under test directly. Everything it
// needs is expressed through three small interfaces:
//
//  1. **MetadataProvider** - lists the declared operations grouped by
//     declaring class and renders an example request for one of them
//     (implemented by internal/registry from a YAML descriptor).
//
//  2. **Executor** - executes one fully resolved request and returns its
//     output in whatever shape the engine produces (implemented by
//     internal/dispatch for HTTP endpoints and recorded fixtures).
//
//  3. **LanguageSwitcher** - the scoped "active language" setting that the
//     test-boundary caller acquires and releases around each test method.
//
// Keeping these contracts in a leaf package means the enumerator, request
// builder, dispatcher and comparator never import each other's
// implementations, which keeps each of them testable with plain fakes.
package api
