package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"goldenapi/internal/api"
	"goldenapi/internal/config"
	"goldenapi/internal/surface"
	"goldenapi/pkg/logging"
)

// Placeholder values used by operations that take a URL or page name.
const (
	PiwikURL    = "http://example.org/piwik/"
	URL         = "http://example.org/store/purchase.htm"
	DownloadURL = "http://piwik.org/path/again/latest.zip?phpsessid=this is ignored when searching"
	OutlinkURL  = "http://dev.piwik.org/svn"
	PageURL     = "http://example.org/index.htm?sessionid=this is also ignored by default"
	PageName    = " Checkout / Purchasing... "
)

const subtableKey = "idsubdatatable"

// Prober issues the structured sub-table probe request. It returns the
// decoded rows and the raw response text.
type Prober interface {
	Rows(ctx context.Context, params api.Params) ([]map[string]interface{}, string, error)
}

// Builder synthesizes request collections.
type Builder struct {
	provider api.MetadataProvider
	prober   Prober
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used to resolve "today", "now" and "yesterday".
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder. prober may be nil when no configuration
// uses supertableApi.
func NewBuilder(provider api.MetadataProvider, prober Prober, opts ...Option) *Builder {
	b := &Builder{
		provider: provider,
		prober:   prober,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build synthesizes one request per (operation, period, format) combination
// of the selection. It fails on an unparseable date, a probe that finds no
// sub-table, a duplicate identifier, or when fewer requests were generated
// than operations were explicitly requested.
func (b *Builder) Build(ctx context.Context, sel surface.Selection, cfg *config.TestConfiguration) (*Collection, error) {
	base, err := b.baseParams(cfg)
	if err != nil {
		return nil, err
	}
	backup := base["date"]

	coll := newCollection()
	for _, op := range sel.Operations {
		for _, period := range cfg.Periods {
			params := base.Clone()
			params["period"] = period

			if cfg.UsesLastN() {
				date, err := lastNRange(backup, period, cfg.SetDateLastN)
				if err != nil {
					return nil, err
				}
				params["date"] = date
			}

			if cfg.Language != "" {
				params["language"] = cfg.Language
			}

			subtableResolved := false
			if cfg.SupertableAPI != "" {
				id, err := b.probeSubtable(ctx, op, cfg.SupertableAPI, params)
				if err != nil {
					return nil, err
				}
				params["idSubtable"] = id
				subtableResolved = true
			}

			for _, format := range cfg.Formats {
				params["format"] = format
				params["hideIdSubDatable"] = "1"
				params["serialize"] = "1"

				rendered, skip := b.provider.RenderExampleURL(op.Class, op.Method, params)
				if skip != nil {
					s := *skip
					s.ID = fmt.Sprintf("%s_%s.%s", op.ID(), period, format)
					logging.Debug("RequestBuilder", "Skipping %s", s)
					coll.Skipped = append(coll.Skipped, s)
					continue
				}

				query := strings.TrimPrefix(rendered, "?")
				final, err := api.ParseQuery(query)
				if err != nil {
					return nil, fmt.Errorf("failed to parse rendered query for %s: %w", op.ID(), err)
				}

				req := Request{
					ID:               requestID(op, period, format, cfg.FileExtension, query),
					Operation:        op,
					Period:           period,
					Format:           format,
					Params:           final,
					Query:            query,
					SubtableResolved: subtableResolved,
				}
				if err := coll.add(req); err != nil {
					return nil, err
				}
			}
		}
	}

	if coll.Len() == 0 || len(sel.Requested) > coll.Len() {
		return nil, &InsufficientCoverageError{Requested: sel.Requested, Generated: coll.IDs()}
	}

	logging.Debug("RequestBuilder", "Generated %d requests, skipped %d combinations", coll.Len(), len(coll.Skipped))
	return coll, nil
}

// requestID derives "Module.method[_period].format[.extension]". The period
// suffix is only present when the rendered query carries a period.
func requestID(op api.Operation, period, format, extension, query string) string {
	id := op.ID()
	if strings.Contains(query, "period=") {
		id += "_" + period
	}
	id += "." + format
	if extension != "" {
		id += "." + extension
	}
	return id
}

func (b *Builder) baseParams(cfg *config.TestConfiguration) (api.Params, error) {
	date, err := baseDate(cfg, b.now())
	if err != nil {
		return nil, err
	}

	language := cfg.Language
	if language == "" {
		language = config.DefaultLanguage
	}
	abandoned := "0"
	if cfg.AbandonedCarts {
		abandoned = "1"
	}

	params := api.Params{
		"idSite":         cfg.IDSite,
		"date":           date,
		"expanded":       "1",
		"piwikUrl":       PiwikURL,
		"url":            URL,
		"downloadUrl":    DownloadURL,
		"outlinkUrl":     OutlinkURL,
		"pageUrl":        PageURL,
		"pageName":       PageName,
		"showTimer":      "0",
		"language":       language,
		"abandonedCarts": abandoned,
		"idSites":        cfg.IDSite,
	}
	params.Merge(cfg.OtherRequestParameters)

	if cfg.VisitorID != "" {
		params["visitorId"] = cfg.VisitorID
	}
	if cfg.APIModule != "" {
		params["apiModule"] = cfg.APIModule
	}
	if cfg.APIAction != "" {
		params["apiAction"] = cfg.APIAction
	}
	if cfg.Segment != "" {
		params["segment"] = url.QueryEscape(cfg.Segment)
	}
	if goal, ok := cfg.IDGoal.Get(); ok {
		params["idGoal"] = goal
	}
	return params, nil
}

// probeSubtable asks the supertable operation for its rows and returns the
// first sub-table id found.
func (b *Builder) probeSubtable(ctx context.Context, op api.Operation, probe string, params api.Params) (string, error) {
	if b.prober == nil {
		return "", &ProbeError{Operation: op.ID(), Probe: probe, Cause: fmt.Errorf("no prober configured")}
	}

	probeParams := api.Params{
		"module":    "API",
		"method":    probe,
		"idSite":    params["idSite"],
		"period":    params["period"],
		"date":      params["date"],
		"format":    "json",
		"serialize": "0",
	}

	rows, raw, err := b.prober.Rows(ctx, probeParams)
	if err != nil {
		return "", &ProbeError{Operation: op.ID(), Probe: probe, Cause: err}
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "error") || strings.Contains(lower, "exception") {
		return "", &ProbeError{Operation: op.ID(), Probe: probe, Cause: fmt.Errorf("error in probe response: %s", raw)}
	}

	for _, row := range rows {
		if v, ok := row[subtableKey]; ok && v != nil {
			logging.Debug("RequestBuilder", "Probe %s resolved idSubtable for %s", probe, op.ID())
			return scalarString(v), nil
		}
	}
	return "", &ProbeError{Operation: op.ID(), Probe: probe}
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}
