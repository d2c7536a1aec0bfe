package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StructuredReporter captures run events without writing output, so tooling
// can query results while or after a run executes.
type StructuredReporter struct {
	mu      sync.RWMutex
	config  RunConfiguration
	running map[string]bool
	results []CaseResult
	suite   *SuiteResult
}

// NewStructuredReporter creates an empty StructuredReporter.
func NewStructuredReporter() *StructuredReporter {
	return &StructuredReporter{running: make(map[string]bool)}
}

func (r *StructuredReporter) ReportStart(config RunConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
	r.results = nil
	r.suite = nil
}

func (r *StructuredReporter) ReportCaseStart(suite, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running[suite+"/"+name] = true
}

func (r *StructuredReporter) ReportCaseResult(result CaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, result.Suite+"/"+result.Case)
	r.results = append(r.results, result)
}

func (r *StructuredReporter) ReportSuiteResult(result SuiteResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suite = &result
}

// GetCurrentResults returns the case results reported so far.
func (r *StructuredReporter) GetCurrentResults() []CaseResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CaseResult(nil), r.results...)
}

// GetSuiteResult returns the final result, or nil while the run is going.
func (r *StructuredReporter) GetSuiteResult() *SuiteResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suite
}

// GetResultsAsJSON returns the configuration and results as JSON.
func (r *StructuredReporter) GetResultsAsJSON() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := map[string]interface{}{
		"configuration": r.config,
		"results":       r.results,
	}
	if r.suite != nil {
		data["summary"] = r.suite
	}
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

// SaveReport writes result as indented JSON to path, creating parent
// directories.
func SaveReport(path string, result SuiteResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// multiReporter fans events out to several reporters
type multiReporter []TestReporter

// NewMultiReporter combines reporters; events reach them in order.
func NewMultiReporter(reporters ...TestReporter) TestReporter {
	return multiReporter(reporters)
}

func (m multiReporter) ReportStart(config RunConfiguration) {
	for _, r := range m {
		r.ReportStart(config)
	}
}

func (m multiReporter) ReportCaseStart(suite, name string) {
	for _, r := range m {
		r.ReportCaseStart(suite, name)
	}
}

func (m multiReporter) ReportCaseResult(result CaseResult) {
	for _, r := range m {
		r.ReportCaseResult(result)
	}
}

func (m multiReporter) ReportSuiteResult(result SuiteResult) {
	for _, r := range m {
		r.ReportSuiteResult(result)
	}
}
