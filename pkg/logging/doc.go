// Package logging provides the process-wide structured logger used by the
// goldenapi harness and its command-line tools.
//
// It is a thin layer over log/slog: every entry carries a subsystem
// attribute so harness output can be filtered per component (Enumerator,
// RequestBuilder, Dispatcher, Normalizer, Comparator, ...).
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//
//	logging.Info("Harness", "running %d requests for %s", n, testName)
//	logging.Debug("RequestBuilder", "skipped %s: %s", id, reason)
//	logging.Error("Comparator", err, "could not refresh baseline %s", path)
//
// Before Init is called only error entries are written (to stderr), which
// keeps library use from tests quiet.
package logging
