// Package harness drives golden-file runs.
//
// A Harness owns the collaborators of one run: the metadata provider, the
// dispatcher over an executor, the request builder, the normalizer and the
// snapshot store. RunAPITests executes the whole pipeline for one test
// method:
//
//	enumerate → build → dispatch → normalize → compare → report
//
// The Runner loads suite files and calls RunAPITests once per case,
// collecting per-case results for reporters. Reporters follow the same
// lifecycle as the CLI: ReportStart, ReportCaseStart/ReportCaseResult for
// every case, then ReportSuiteResult.
//
// Test methods run sequentially. The active language is switched before a
// test method and restored to "en" afterwards.
package harness
