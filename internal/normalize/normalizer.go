package normalize

import (
	"fmt"
	"regexp"

	"goldenapi/pkg/logging"
)

// LiveMethods return raw visit data whose dates change on every run.
var LiveMethods = map[string]bool{
	"Live.getLastVisits":        true,
	"Live.getLastVisitsDetails": true,
	"Live.getVisitorProfile":    true,
}

// LiveDateFields are removed from live-data responses unless the
// configuration keeps them.
var LiveDateFields = []string{
	"serverDate",
	"firstActionTimestamp",
	"lastActionTimestamp",
	"lastActionDateTime",
	"serverTimestamp",
	"serverTimePretty",
	"serverDatePretty",
	"serverDatePrettyFirstAction",
	"serverTimePrettyFirstAction",
	"goalTimePretty",
	"visitorId",
	"nextVisitorId",
	"previousVisitorId",
	"visitServerHour",
	"date",
	"prettyDate",
	"serverDateTimePrettyFirstAction",
}

var (
	relativeDateParamRe = regexp.MustCompile(`date=[-0-9,%Ca-z]+`)
	idSubtableParamRe   = regexp.MustCompile(`idSubtable=[0-9]+`)
)

// maxPasses bounds the fixpoint iteration of Normalize.
const maxPasses = 5

// Rule is one named transformation of the pipeline.
type Rule struct {
	Name string
	// Applies reports whether the rule runs for the given request
	Applies func(Context) bool
	Apply   func(text string, ctx Context) (string, error)
}

// Pipeline is an ordered list of rules.
type Pipeline []Rule

// Run applies every applicable rule in order.
func (p Pipeline) Run(text string, ctx Context) (string, error) {
	var err error
	for _, rule := range p {
		if rule.Applies != nil && !rule.Applies(ctx) {
			continue
		}
		text, err = rule.Apply(text, ctx)
		if err != nil {
			return text, fmt.Errorf("normalization rule %s: %w", rule.Name, err)
		}
	}
	return text, nil
}

// Names returns the rule names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = r.Name
	}
	return names
}

// Normalizer strips volatile content from responses.
type Normalizer struct {
	pipeline Pipeline
}

// Option configures a Normalizer.
type Option func(*options)

type options struct {
	rounding RoundingTable
	adapter  string
}

// WithRounding replaces the default rounding table.
func WithRounding(table RoundingTable) Option {
	return func(o *options) {
		o.rounding = table
	}
}

// WithAdapter names the database adapter; "MYSQLI" adds its revenue rewrite.
func WithAdapter(adapter string) Option {
	return func(o *options) {
		o.adapter = adapter
	}
}

// New creates a Normalizer with the standard pipeline.
func New(opts ...Option) *Normalizer {
	o := options{rounding: DefaultRounding()}
	for _, opt := range opts {
		opt(&o)
	}

	rounding := append(RoundingTable(nil), o.rounding...)
	if o.adapter == "MYSQLI" {
		rounding = append(rounding, MySQLiRounding()...)
	}

	return &Normalizer{pipeline: StandardPipeline(rounding)}
}

// Pipeline returns the normalizer's rules.
func (n *Normalizer) Pipeline() Pipeline {
	return n.pipeline
}

// Normalize applies the pipeline until the text stops changing, so that
// normalizing normalized output is a no-op.
func (n *Normalizer) Normalize(text string, ctx Context) (string, error) {
	out := text
	for pass := 0; pass < maxPasses; pass++ {
		next, err := n.pipeline.Run(out, ctx)
		if err != nil {
			return "", err
		}
		if next == out {
			break
		}
		out = next
	}
	if len(out) != len(text) {
		logging.Debug("Normalizer", "Normalized %s from %d to %d characters", ctx.Method, len(text), len(out))
	}
	return out, nil
}

// StandardPipeline returns the rules in their required order.
func StandardPipeline(rounding RoundingTable) Pipeline {
	return Pipeline{
		{
			Name: "live-dates",
			Applies: func(ctx Context) bool {
				return LiveMethods[ctx.Method] && !ctx.KeepLiveDates
			},
			Apply: func(text string, ctx Context) (string, error) {
				return RemoveElements(text, LiveDateFields)
			},
		},
		{
			Name: "relative-dates",
			Applies: func(ctx Context) bool {
				return !LiveMethods[ctx.Method] && ctx.RelativeDate()
			},
			Apply: func(text string, ctx Context) (string, error) {
				var err error
				if ctx.Method == "API.getProcessedReport" {
					if text, err = RemoveElementGuarded(text, "prettyDate"); err != nil {
						return text, err
					}
				}
				if text, err = RemoveElementGuarded(text, "visitServerHour"); err != nil {
					return text, err
				}
				return relativeDateParamRe.ReplaceAllLiteralString(text, "date="), nil
			},
		},
		{
			Name: "subtable-id",
			Applies: func(ctx Context) bool {
				return ctx.SubtableResolved
			},
			Apply: func(text string, ctx Context) (string, error) {
				return idSubtableParamRe.ReplaceAllLiteralString(text, "idSubtable="), nil
			},
		},
		{
			Name: "extra-fields",
			Applies: func(ctx Context) bool {
				return len(ctx.FieldsToRemove) > 0
			},
			Apply: func(text string, ctx Context) (string, error) {
				return RemoveElements(text, ctx.FieldsToRemove)
			},
		},
		{
			Name: "rounding",
			Apply: func(text string, ctx Context) (string, error) {
				return rounding.Apply(text), nil
			},
		},
		{
			Name:    "embedded-document",
			Applies: Context.EmbeddedDocument,
			Apply: func(text string, ctx Context) (string, error) {
				return normalizePDF(text), nil
			},
		},
	}
}
