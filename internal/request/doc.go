// Package request synthesizes the named request parameter sets of a
// golden-file run.
//
// Build expands a base parameter template across the surviving operations,
// the configured periods and the configured formats, in that nesting order.
// Each combination the metadata provider can render becomes one Request,
// identified by "Module.method[_period].format[.extension]". Identifiers are
// unique within a Collection and double as baseline file name suffixes.
package request
