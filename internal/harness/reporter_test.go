package harness

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"goldenapi/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuiteResult() SuiteResult {
	result := SuiteResult{RunID: "run-1", Duration: 2 * time.Second}
	result.add(CaseResult{Suite: "OneVisitor", Case: "day", Result: ResultPassed, Requests: 4, Passed: 4})
	failed := CaseResult{Suite: "OneVisitor", Case: "lastN", Result: ResultFailed, Requests: 3, Passed: 2, Failed: 1}
	failed.fail(errors.New("1 comparison failure(s):\n#1: Differences with expected"), ResultFailed)
	result.add(failed)
	result.add(CaseResult{Suite: "OneVisitor", Case: "ci", Result: ResultSkipped, SkipReason: "skipped on CI",
		Skipped: []api.Skip{{ID: "Foo.setBar", Reason: api.SkipNotReadOperation}}})
	return result
}

func TestConsoleReporter_Summary(t *testing.T) {
	var out bytes.Buffer
	r := NewTestReporter(ReporterOptions{Output: &out, Verbose: true})

	r.ReportStart(RunConfiguration{SuitePath: "suites/", Store: "store/"})
	r.ReportCaseStart("OneVisitor", "day")
	r.ReportCaseResult(CaseResult{Suite: "OneVisitor", Case: "day", Result: ResultPassed})
	r.ReportSuiteResult(sampleSuiteResult())

	s := out.String()
	assert.Contains(t, s, "🧪 Starting golden-file run")
	assert.Contains(t, s, "• Suites: suites/")
	assert.Contains(t, s, "• Case: all")
	assert.Contains(t, s, "🎯 OneVisitor/day... ✅")
	assert.Contains(t, s, "lastN")
	assert.Contains(t, s, "❌ Failed: 1")
	assert.Contains(t, s, "Success Rate: 33.3%")
	assert.Contains(t, s, "💔 Some tests failed")
}

func TestQuietReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewQuietReporter(&out)
	result := sampleSuiteResult()
	for _, c := range result.CaseResults {
		r.ReportCaseResult(c)
	}
	r.ReportSuiteResult(result)

	assert.Equal(t, "❌ OneVisitor/lastN: 1 comparison failure(s):\n❌ 1/3 cases failed (2s)\n", out.String())
}

func TestCaseRows(t *testing.T) {
	rows := CaseRows(sampleSuiteResult())
	require.Len(t, rows, 3)
	assert.Equal(t, "FAILED", rows[1].Result)
	assert.Equal(t, "1 comparison failure(s):\n#1: Differences with expected", rows[1].Error)
	assert.Empty(t, rows[2].Error)
	assert.Equal(t, 1, rows[2].Skipped)
}

func TestStructuredReporter(t *testing.T) {
	r := NewStructuredReporter()
	r.ReportStart(RunConfiguration{Store: "store"})
	r.ReportCaseStart("OneVisitor", "day")
	r.ReportCaseResult(CaseResult{Suite: "OneVisitor", Case: "day", Result: ResultPassed})
	assert.Nil(t, r.GetSuiteResult())
	assert.Len(t, r.GetCurrentResults(), 1)

	r.ReportSuiteResult(sampleSuiteResult())
	js, err := r.GetResultsAsJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"run_id": "run-1"`)
	assert.Contains(t, js, `"store": "store"`)
}

func TestMultiReporter(t *testing.T) {
	a, b := NewStructuredReporter(), NewStructuredReporter()
	m := NewMultiReporter(a, b)
	m.ReportStart(RunConfiguration{})
	m.ReportCaseResult(CaseResult{Case: "x"})
	m.ReportSuiteResult(SuiteResult{})
	assert.Len(t, a.GetCurrentResults(), 1)
	assert.Len(t, b.GetCurrentResults(), 1)
	assert.NotNil(t, b.GetSuiteResult())
}

func TestWriterLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger(&out, &errOut, true, false)
	l.Debug("debug %d\n", 1)
	l.Info("info %d\n", 2)
	l.Error("error %d\n", 3)
	assert.Equal(t, "info 2\n", out.String())
	assert.Equal(t, "error 3\n", errOut.String())
	assert.True(t, l.IsVerboseEnabled())
	assert.False(t, l.IsDebugEnabled())

	silent := NewSilentLogger()
	silent.Error("nothing")
	assert.False(t, silent.IsDebugEnabled())
}
