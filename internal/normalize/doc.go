// Package normalize strips non-deterministic content from API responses
// before they are compared with a baseline.
//
// A Normalizer runs an ordered Pipeline of Rules. Each rule decides from the
// request Context whether it applies: live-data date fields, relative-date
// artifacts, resolved sub-table ids, configured extra fields, the rounding
// table, and embedded-document (PDF) generation metadata. Normalizing an
// already normalized text is a no-op.
package normalize
