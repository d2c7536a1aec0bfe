// Package surface enumerates the read operations of an API that a golden-file
// run should cover.
package surface

import (
	"strings"

	"goldenapi/internal/api"
	"goldenapi/pkg/logging"
)

// SelectAll selects every module and applies DefaultExcluded.
const SelectAll = "all"

// DefaultExcluded lists modules and operations that return random or
// environment-dependent data, or are covered by dedicated tests.
var DefaultExcluded = []string{
	"LanguagesManager",
	"DBStats",
	"Dashboard",
	"UsersManager",
	"SitesManager",
	"ExampleUI",
	"Overlay",
	"Live",
	"SEO",
	"ExampleAPI",
	"ScheduledReports",
	"MobileMessaging",
	"Transitions",
	"API",
	"ImageGraph",
	"Annotations",
	"SegmentEditor",
	"UserCountry.getLocationFromIP",
	"ExamplePluginTemplate",
	"CustomAlerts",
	"Insights",
}

// assetMethods return UI assets and are never meaningful to snapshot.
var assetMethods = map[string]bool{
	"getLogoUrl":       true,
	"getSVGLogoUrl":    true,
	"hasSVGLogo":       true,
	"getHeaderLogoUrl": true,
}

const (
	readPrefix     = "get"
	generateReport = "generateReport"
)

// Selection is the ordered result of an enumeration.
type Selection struct {
	// Operations lists the surviving operations in enumeration order
	Operations []api.Operation
	// Skipped lists every operation that did not survive, with its reason
	Skipped []api.Skip
	// Requested is the explicit include list; empty when everything was selected
	Requested []string
}

// IDs returns the identifiers of the surviving operations.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.Operations))
	for i, op := range s.Operations {
		ids[i] = op.ID()
	}
	return ids
}

// Callable resolves an API selector into the include and exclude lists.
//
// The selector "all" (or an empty selector) includes everything and excludes
// DefaultExcluded. An explicit list includes exactly what it names and
// excludes API.getPiwikVersion and UserCountry.getLocationFromIP, unless the
// latter was explicitly requested.
func Callable(selector []string) (include, exclude []string) {
	if len(selector) == 0 || (len(selector) == 1 && selector[0] == SelectAll) {
		return nil, append([]string(nil), DefaultExcluded...)
	}

	include = append([]string(nil), selector...)
	if contains(selector, "UserCountry.getLocationFromIP") {
		return include, nil
	}
	return include, []string{"API.getPiwikVersion", "UserCountry.getLocationFromIP"}
}

// Enumerate walks the provider's operations and applies the include and
// exclude lists. Entries are bare module names or "Module.method" ids.
//
// A non-empty include list keeps only what it names. Excludes apply on top
// of it, by module or by full id.
func Enumerate(provider api.MetadataProvider, include, exclude []string) Selection {
	sel := Selection{Requested: append([]string(nil), include...)}

	for _, class := range provider.ListOperations() {
		module := provider.ModuleNameFor(class.Class)
		for _, method := range class.Methods {
			op := api.Operation{Class: class.Class, Module: module, Method: method.Name}
			id := op.ID()

			if reason, skipped := skipReason(op, include, exclude); skipped {
				sel.Skipped = append(sel.Skipped, api.Skip{ID: id, Reason: reason})
				continue
			}
			sel.Operations = append(sel.Operations, op)
		}
	}

	logging.Debug("Enumerator", "Selected %d operations, skipped %d", len(sel.Operations), len(sel.Skipped))
	return sel
}

func skipReason(op api.Operation, include, exclude []string) (api.SkipReason, bool) {
	id := op.ID()

	if len(include) > 0 && !contains(include, op.Module) && !contains(include, id) {
		return api.SkipNotIncluded, true
	}
	if !strings.HasPrefix(op.Method, readPrefix) && op.Method != generateReport {
		return api.SkipNotReadOperation, true
	}
	if contains(exclude, id) || contains(exclude, op.Module) {
		return api.SkipExcluded, true
	}
	if assetMethods[op.Method] {
		return api.SkipAssetMethod, true
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
