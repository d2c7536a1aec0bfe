package formatting

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) *TableFormatter {
	return &TableFormatter{options: options}
}

// FormatCaseSummary renders one row per executed case plus a totals footer.
func (f *TableFormatter) FormatCaseSummary(rows []CaseRow) error {
	if len(rows) == 0 {
		fmt.Fprint(f.options.writer(), f.formatEmptyMessage("📋", "No cases were run"))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{
		f.header("SUITE"), f.header("CASE"), f.header("RESULT"), f.header("REQUESTS"),
		f.header("PASSED"), f.header("MISSING"), f.header("FAILED"), f.header("SKIPPED"), f.header("DURATION"),
	})

	var requests, passed, missing, failed, skipped int
	var total time.Duration
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Suite, r.Case, f.colorResult(r.Result), r.Requests,
			r.Passed, r.Missing, r.Failed, r.Skipped, r.Duration.Round(time.Millisecond),
		})
		requests += r.Requests
		passed += r.Passed
		missing += r.Missing
		failed += r.Failed
		skipped += r.Skipped
		total += r.Duration
	}
	t.AppendFooter(table.Row{"", "TOTAL", "", requests, passed, missing, failed, skipped, total.Round(time.Millisecond)})
	t.Render()

	for _, r := range rows {
		if r.Error != "" {
			fmt.Fprintf(f.options.writer(), "\n%s %s/%s:\n%s\n", f.color(text.FgRed, "❌"), r.Suite, r.Case, r.Error)
		}
	}
	return nil
}

// FormatOperations renders the enumerated operations and the skipped ones.
func (f *TableFormatter) FormatOperations(rows []OperationRow) error {
	if len(rows) == 0 {
		fmt.Fprint(f.options.writer(), f.formatEmptyMessage("📋", "No operations found"))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("OPERATION"), f.header("CLASS"), f.header("STATUS"), f.header("DETAIL")})

	selected := 0
	for _, r := range rows {
		status := r.Status
		if status == "selected" {
			selected++
			status = f.color(text.FgGreen, status)
		} else {
			status = f.color(text.FgYellow, status)
		}
		t.AppendRow(table.Row{r.ID, r.Class, status, r.Detail})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d selected", selected, len(rows)), ""})
	t.Render()
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.color(text.FgHiCyan, s)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TableFormatter) colorResult(result string) string {
	switch result {
	case "PASSED":
		return f.color(text.FgGreen, result)
	case "FAILED", "ERROR":
		return f.color(text.FgRed, result)
	default:
		return f.color(text.FgYellow, result)
	}
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", f.color(text.FgYellow, icon), f.color(text.FgYellow, message))
}
