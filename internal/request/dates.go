package request

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"goldenapi/internal/config"
)

const isoDate = "2006-01-02"

var (
	relativeRangeRe = regexp.MustCompile(`^(last|previous)[0-9]+$`)

	dateLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		isoDate,
	}
)

// baseDate resolves the configured date into the request date: an ISO date,
// unless the period is range-only, the date already names several dates, or
// it is a lastN/previousN keyword.
func baseDate(cfg *config.TestConfiguration, now time.Time) (string, error) {
	if cfg.IsRangeOnly() || cfg.DateIsMulti() {
		return cfg.Date, nil
	}

	d := strings.TrimSpace(cfg.Date)
	switch strings.ToLower(d) {
	case "today", "now":
		return now.Format(isoDate), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(isoDate), nil
	}
	if relativeRangeRe.MatchString(strings.ToLower(d)) {
		return d, nil
	}

	t, err := parseDate(d)
	if err != nil {
		return "", &config.ConfigurationError{
			Key:     config.KeyDate,
			Message: fmt.Sprintf("cannot parse date '%s'", cfg.Date),
			Suggestions: []string{
				"Use YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, today, yesterday, lastN or previousN",
			},
		}
	}
	return t.Format(isoDate), nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// lastNRange rewrites a start date into "start,end" where end is start
// advanced by n units of period. It only reads its inputs, so every format of
// a period derives the same range from the same backup.
func lastNRange(backup, period string, n int) (string, error) {
	start, err := parseDate(backup)
	if err != nil {
		return "", &config.ConfigurationError{
			Key:     config.KeySetDateLastN,
			Message: fmt.Sprintf("setDateLastN requires an absolute date, got '%s'", backup),
		}
	}

	var end time.Time
	switch period {
	case "week":
		end = start.AddDate(0, 0, 7*n)
	case "month":
		end = start.AddDate(0, n, 0)
	case "year":
		end = start.AddDate(n, 0, 0)
	default:
		end = start.AddDate(0, 0, n)
	}
	return backup + "," + end.Format(isoDate), nil
}
