package harness

import (
	"fmt"
	"io"
	"os"
	"strings"

	"goldenapi/internal/formatting"
	"goldenapi/pkg/logging"
	pkgstrings "goldenapi/pkg/strings"
)

// consoleReporter prints progress lines and a summary table
type consoleReporter struct {
	out        io.Writer
	verbose    bool
	debug      bool
	color      bool
	reportPath string
}

// ReporterOptions configures the console reporter.
type ReporterOptions struct {
	Verbose bool
	Debug   bool
	Color   bool
	// ReportPath receives a JSON report when set
	ReportPath string
	// Output defaults to os.Stdout
	Output io.Writer
}

// NewTestReporter creates the console reporter.
func NewTestReporter(opts ReporterOptions) TestReporter {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &consoleReporter{
		out:        out,
		verbose:    opts.Verbose,
		debug:      opts.Debug,
		color:      opts.Color,
		reportPath: opts.ReportPath,
	}
}

func (r *consoleReporter) ReportStart(config RunConfiguration) {
	fmt.Fprintf(r.out, "🧪 Starting golden-file run\n")

	if r.verbose {
		fmt.Fprintf(r.out, "\n⚙️  Configuration:\n")
		fmt.Fprintf(r.out, "   • Suites: %s\n", config.SuitePath)
		if config.Descriptor != "" {
			fmt.Fprintf(r.out, "   • Descriptor: %s\n", config.Descriptor)
		}
		fmt.Fprintf(r.out, "   • Store: %s\n", config.Store)
		if config.Target != "" {
			fmt.Fprintf(r.out, "   • Target: %s\n", config.Target)
		}
		fmt.Fprintf(r.out, "   • Case: %s\n", stringOrDefault(config.Case, "all"))
		if config.Timeout > 0 {
			fmt.Fprintf(r.out, "   • Timeout: %v\n", config.Timeout)
		}
		if config.ReportPath != "" {
			fmt.Fprintf(r.out, "   • Report path: %s\n", config.ReportPath)
		}
		fmt.Fprintf(r.out, "\n")
	}
}

func (r *consoleReporter) ReportCaseStart(suite, name string) {
	fmt.Fprintf(r.out, "🎯 %s/%s... ", suite, name)
}

func (r *consoleReporter) ReportCaseResult(result CaseResult) {
	fmt.Fprintf(r.out, "%s (%v)\n", resultSymbol(result.Result), result.Duration)

	if result.SkipReason != "" && r.verbose {
		fmt.Fprintf(r.out, "   ⏭️  %s\n", result.SkipReason)
	}
	if result.Error != "" && (r.verbose || result.Result == ResultError) {
		fmt.Fprintf(r.out, "%s\n", indentText(result.Error, "   "))
	}
	if r.debug {
		for _, s := range result.Skipped {
			fmt.Fprintf(r.out, "   ⏭️  %s\n", s)
		}
	}
}

func (r *consoleReporter) ReportSuiteResult(result SuiteResult) {
	fmt.Fprintf(r.out, "\n🏁 Run Complete\n")
	if len(result.CaseResults) > 0 {
		formatter := formatting.New(formatting.Options{Format: formatting.FormatTable, Color: r.color, Output: r.out})
		if err := formatter.FormatCaseSummary(CaseRows(result)); err != nil {
			logging.Error("Reporter", err, "Failed to render summary")
		}
	}

	fmt.Fprintf(r.out, "⏱️  Duration: %v\n", result.Duration)
	fmt.Fprintf(r.out, "📊 Results:\n")
	fmt.Fprintf(r.out, "   ✅ Passed: %d\n", result.PassedCases)
	if result.FailedCases > 0 {
		fmt.Fprintf(r.out, "   ❌ Failed: %d\n", result.FailedCases)
	}
	if result.ErrorCases > 0 {
		fmt.Fprintf(r.out, "   💥 Errors: %d\n", result.ErrorCases)
	}
	if result.SkippedCases > 0 {
		fmt.Fprintf(r.out, "   ⏭️  Skipped: %d\n", result.SkippedCases)
	}
	fmt.Fprintf(r.out, "   📈 Total: %d\n", result.TotalCases)

	successRate := 0.0
	if result.TotalCases > 0 {
		successRate = float64(result.PassedCases) / float64(result.TotalCases) * 100
	}
	fmt.Fprintf(r.out, "   📏 Success Rate: %.1f%%\n", successRate)

	if result.Succeeded() {
		fmt.Fprintf(r.out, "\n🎉 All tests passed!\n")
	} else {
		fmt.Fprintf(r.out, "\n💔 Some tests failed\n")
	}

	if r.reportPath != "" {
		if err := SaveReport(r.reportPath, result); err != nil {
			fmt.Fprintf(r.out, "⚠️  Failed to save detailed report: %v\n", err)
		} else {
			fmt.Fprintf(r.out, "📄 Detailed report saved to: %s\n", r.reportPath)
		}
	}
}

// CaseRows converts case results into summary table rows.
func CaseRows(result SuiteResult) []formatting.CaseRow {
	rows := make([]formatting.CaseRow, 0, len(result.CaseResults))
	for _, c := range result.CaseResults {
		row := formatting.CaseRow{
			Suite:    c.Suite,
			Case:     c.Case,
			Result:   string(c.Result),
			Requests: c.Requests,
			Passed:   c.Passed,
			Missing:  len(c.Missing),
			Failed:   c.Failed,
			Skipped:  len(c.Skipped),
			Duration: c.Duration,
		}
		if c.Error != "" {
			row.Error = pkgstrings.FirstLines(c.Error, 2)
		}
		rows = append(rows, row)
	}
	return rows
}

func resultSymbol(result TestResult) string {
	switch result {
	case ResultPassed:
		return "✅"
	case ResultFailed:
		return "❌"
	case ResultSkipped:
		return "⏭️"
	case ResultError:
		return "💥"
	default:
		return "❓"
	}
}

func indentText(text, indent string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func stringOrDefault(s, defaultValue string) string {
	if s == "" {
		return defaultValue
	}
	return s
}

// NewQuietReporter creates a reporter that only outputs failures and a
// one-line summary.
func NewQuietReporter(out io.Writer) TestReporter {
	if out == nil {
		out = os.Stdout
	}
	return &quietReporter{out: out}
}

// quietReporter implements minimal output for CI
type quietReporter struct {
	out io.Writer
}

func (r *quietReporter) ReportStart(config RunConfiguration) {}

func (r *quietReporter) ReportCaseStart(suite, name string) {}

func (r *quietReporter) ReportCaseResult(result CaseResult) {
	if result.Result == ResultFailed || result.Result == ResultError {
		fmt.Fprintf(r.out, "%s %s/%s: %s\n", resultSymbol(result.Result), result.Suite, result.Case, pkgstrings.FirstLines(result.Error, 1))
	}
}

func (r *quietReporter) ReportSuiteResult(result SuiteResult) {
	if result.Succeeded() {
		fmt.Fprintf(r.out, "✅ All %d cases passed (%v)\n", result.TotalCases, result.Duration)
	} else {
		fmt.Fprintf(r.out, "❌ %d/%d cases failed (%v)\n",
			result.FailedCases+result.ErrorCases,
			result.TotalCases,
			result.Duration)
	}
}
