package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldenapi/internal/api"
	"goldenapi/internal/config"
	"goldenapi/internal/dispatch"
	"goldenapi/internal/normalize"
	"goldenapi/internal/request"
	"goldenapi/internal/snapshot"
	"goldenapi/internal/surface"
	"goldenapi/pkg/logging"
)

// Harness runs golden-file test methods against one API.
type Harness struct {
	provider   api.MetadataProvider
	dispatcher *dispatch.Dispatcher
	builder    *request.Builder
	store      *snapshot.Store
	comparator *snapshot.Comparator
	normalizer *normalize.Normalizer
	languages  api.LanguageSwitcher
	logger     TestLogger
	now        func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithNormalizer replaces the standard normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(h *Harness) {
		h.normalizer = n
	}
}

// WithLanguageSwitcher scopes each test method's language through s.
func WithLanguageSwitcher(s api.LanguageSwitcher) Option {
	return func(h *Harness) {
		h.languages = s
	}
}

// WithLogger sets the progress logger.
func WithLogger(l TestLogger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithClock sets the clock used to resolve relative dates.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		h.now = now
	}
}

// New creates a Harness over the given collaborators.
func New(provider api.MetadataProvider, executor api.Executor, store *snapshot.Store, opts ...Option) *Harness {
	h := &Harness{
		provider:   provider,
		dispatcher: dispatch.New(executor),
		store:      store,
		comparator: snapshot.NewComparator(store),
		normalizer: normalize.New(),
		languages:  NewMemoryLanguageSwitcher(),
		logger:     NewSilentLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.builder = request.NewBuilder(provider, h.dispatcher, request.WithClock(h.now))
	return h
}

// Store returns the harness's snapshot store.
func (h *Harness) Store() *snapshot.Store {
	return h.store
}

// RunAPITests runs every request of one test method and compares it with
// its baseline. It returns true when all comparisons passed. Configuration,
// build and store errors are returned before any comparison; missing
// baselines and mismatches are returned aggregated after all requests ran.
func (h *Harness) RunAPITests(ctx context.Context, testName string, selector []string, cfg *config.TestConfiguration) (bool, error) {
	report, err := h.Run(ctx, testName, selector, cfg)
	if err != nil {
		return false, err
	}
	if err := report.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Run is RunAPITests returning the full case report.
func (h *Harness) Run(ctx context.Context, testName string, selector []string, cfg *config.TestConfiguration) (*CaseReport, error) {
	if cfg == nil {
		return nil, &config.ConfigurationError{Message: "test configuration is required"}
	}

	lang := cfg.Language
	if lang == "" {
		lang = config.DefaultLanguage
	}
	if err := h.languages.SwitchLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to switch language to %s: %w", lang, err)
	}
	defer func() {
		if err := h.languages.SwitchLanguage(config.DefaultLanguage); err != nil {
			logging.Error("Harness", err, "Failed to restore language %s", config.DefaultLanguage)
		}
	}()
	ctx = dispatch.WithLanguage(ctx, lang)
	ctx = dispatch.WithArchivingDisabled(ctx, cfg.DisableArchiving)

	include, exclude := surface.Callable(selector)
	exclude = append(exclude, cfg.APINotToCall...)
	sel := surface.Enumerate(h.provider, include, exclude)

	out := &CaseReport{
		TestName:   testName,
		Operations: sel.IDs(),
		Skipped:    append([]api.Skip(nil), sel.Skipped...),
	}

	coll, err := h.builder.Build(ctx, sel, cfg)
	if err != nil {
		return out, err
	}
	out.Requests = coll
	out.Skipped = append(out.Skipped, coll.Skipped...)
	h.logger.Info("   📋 %s: %d requests, %d skipped\n", testName, coll.Len(), len(out.Skipped))

	report := snapshot.NewRunReport(testName, h.store.ExpectedDirPath())
	out.Report = report

	for _, req := range coll.Requests() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		produced, nctx, err := h.produce(ctx, req, cfg)
		if err != nil {
			h.logger.Debug("      💥 %s: %v\n", req.ID, err)
			report.AddFailure(req.ID, err)
			continue
		}

		outcome, err := h.comparator.Compare(testName, req.ID, produced, h.compareOptions(req, cfg, nctx))
		if err != nil {
			var guard *normalize.GuardError
			if !errors.As(err, &guard) {
				return out, err
			}
			report.AddFailure(req.ID, err)
			continue
		}
		h.logger.Debug("      %s %s\n", statusSymbol(outcome.Status), req.ID)
		report.Add(outcome)
	}

	logging.Info("Harness", "%s: %d passed, %d missing, %d failed", testName, report.Passed, len(report.Missing), len(report.Failures))
	return out, nil
}

// produce dispatches req and normalizes its response.
func (h *Harness) produce(ctx context.Context, req request.Request, cfg *config.TestConfiguration) (string, normalize.Context, error) {
	nctx := normalize.Context{
		Method:           req.Operation.ID(),
		Format:           req.Format,
		FileExtension:    cfg.FileExtension,
		Date:             cfg.Date,
		Params:           req.Params,
		SubtableResolved: req.SubtableResolved,
		KeepLiveDates:    cfg.KeepLiveDates,
		FieldsToRemove:   cfg.XMLFieldsToRemove,
	}

	raw, err := h.dispatcher.Dispatch(ctx, req.Params)
	if err != nil {
		return "", nctx, err
	}
	produced, err := h.normalizer.Normalize(raw, nctx)
	if err != nil {
		return "", nctx, err
	}
	return produced, nctx, nil
}

func (h *Harness) compareOptions(req request.Request, cfg *config.TestConfiguration, nctx normalize.Context) snapshot.Options {
	return snapshot.Options{
		Suffix:         cfg.TestSuffix,
		CompareAgainst: cfg.CompareAgainst,
		Format:         req.Format,
		Normalize: func(baseline string) (string, error) {
			return h.normalizer.Normalize(baseline, nctx)
		},
	}
}

func statusSymbol(s snapshot.Status) string {
	switch s {
	case snapshot.StatusPass:
		return "✅"
	case snapshot.StatusFail:
		return "❌"
	case snapshot.StatusBaselineMissing:
		return "🆕"
	default:
		return "❓"
	}
}
