package config

import (
	"fmt"
	"strings"
)

// ScheduledReportsAPI is the operation the scheduled-report cases call.
const ScheduledReportsAPI = "ScheduledReports.generateReport"

// outputReturn asks generateReport to return the report instead of sending it.
const outputReturn = 4

// ScheduledReports expands into the generateReport cases of one date and
// period.
type ScheduledReports struct {
	IDSite string `yaml:"idSite"`
	Date   string `yaml:"date"`
	Period string `yaml:"period"`
	// Images adds the reports that embed graphs (PDF, HTML with graphs, row
	// evolution). The server needs an image renderer for them.
	Images bool `yaml:"images,omitempty"`
}

type scheduledReport struct {
	suffix       string
	extension    string
	idReport     int
	reportFormat string
	images       bool
}

var scheduledReportVariants = []scheduledReport{
	{suffix: "_scheduled_report_in_html_tables_only", extension: "html", idReport: 1, reportFormat: "html"},
	{suffix: "_scheduled_report_in_csv", extension: "csv", idReport: 1, reportFormat: "csv"},
	{suffix: "_scheduled_report_in_pdf_tables_only", extension: "pdf", idReport: 1, reportFormat: "pdf", images: true},
	{suffix: "_scheduled_report_via_sms_one_site", extension: "sms.txt", idReport: 2},
	{suffix: "_scheduled_report_via_sms_all_sites", extension: "sms.txt", idReport: 3},
	{suffix: "_scheduled_report_in_html_tables_and_graph", extension: "html", idReport: 4, reportFormat: "html", images: true},
	{suffix: "_scheduled_report_in_html_row_evolution_graph", extension: "html", idReport: 5, images: true},
}

// Cases returns one case per report variant, in a fixed order. Each case
// carries its own testSuffix so the artifacts of the variants stay apart.
func (s ScheduledReports) Cases() []Case {
	var cases []Case
	for _, v := range scheduledReportVariants {
		if v.images && !s.Images {
			continue
		}
		other := map[string]interface{}{
			"idReport":   v.idReport,
			"outputType": outputReturn,
		}
		if v.reportFormat != "" {
			other["reportFormat"] = v.reportFormat
		}
		cases = append(cases, Case{
			Name: "scheduled-" + strings.ReplaceAll(strings.TrimPrefix(v.suffix, "_scheduled_report_"), "_", "-"),
			API:  APISelector{ScheduledReportsAPI},
			Options: map[string]interface{}{
				KeyIDSite:                 s.IDSite,
				KeyDate:                   s.Date,
				KeyPeriods:                s.Period,
				KeyFormat:                 "original",
				KeyFileExtension:          v.extension,
				KeyTestSuffix:             v.suffix,
				KeyOtherRequestParameters: other,
			},
		})
	}
	return cases
}

func (s ScheduledReports) validate() error {
	if strings.TrimSpace(s.IDSite) == "" {
		return &ConfigurationError{Key: "scheduledReports.idSite", Message: "scheduled reports need an idSite"}
	}
	if strings.TrimSpace(s.Date) == "" {
		return &ConfigurationError{Key: "scheduledReports.date", Message: "scheduled reports need a date"}
	}
	if !ValidPeriods[s.Period] {
		return &ConfigurationError{
			Key:         "scheduledReports.period",
			Message:     fmt.Sprintf("unknown period '%s'", s.Period),
			Suggestions: []string{"Use one of: day, week, month, year, range"},
		}
	}
	return nil
}
