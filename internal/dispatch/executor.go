package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goldenapi/internal/api"
	"goldenapi/pkg/logging"
	pkgstrings "goldenapi/pkg/strings"
)

// ExecutorFunc adapts a function to api.Executor.
type ExecutorFunc func(ctx context.Context, params api.Params) (interface{}, error)

// Execute implements api.Executor.
func (f ExecutorFunc) Execute(ctx context.Context, params api.Params) (interface{}, error) {
	return f(ctx, params)
}

const (
	// HeaderArchivingDisabled asks the engine not to archive on demand
	HeaderArchivingDisabled = "X-Archiving-Disabled"

	defaultHTTPTimeout = 60 * time.Second
)

// HTTPExecutor issues requests to a running instance at
// <BaseURL>/index.php?<query>.
type HTTPExecutor struct {
	baseURL   string
	tokenAuth string
	client    *http.Client
}

// HTTPOption configures an HTTPExecutor.
type HTTPOption func(*HTTPExecutor)

// WithTokenAuth adds token_auth to every request.
func WithTokenAuth(token string) HTTPOption {
	return func(e *HTTPExecutor) {
		e.tokenAuth = token
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(e *HTTPExecutor) {
		e.client = client
	}
}

// NewHTTPExecutor creates an executor for the instance at baseURL.
func NewHTTPExecutor(baseURL string, opts ...HTTPOption) *HTTPExecutor {
	e := &HTTPExecutor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements api.Executor. A 404 or 501 answer declines the request.
func (e *HTTPExecutor) Execute(ctx context.Context, params api.Params) (interface{}, error) {
	query := params.Clone()
	if _, ok := query["module"]; !ok {
		query["module"] = "API"
	}
	if e.tokenAuth != "" {
		query["token_auth"] = e.tokenAuth
	}

	endpoint := e.baseURL + "/index.php?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if lang, ok := LanguageFrom(ctx); ok {
		req.Header.Set("Accept-Language", lang)
	}
	if ArchivingDisabled(ctx) {
		req.Header.Set(HeaderArchivingDisabled, "1")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotImplemented:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, api.ErrDeclined)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, pkgstrings.Snippet(string(body), pkgstrings.DefaultSnippetLen))
	}

	return body, nil
}

// ReplayExecutor serves canned responses from a directory of fixture files
// named Module.method[_period].format.
type ReplayExecutor struct {
	dir string
}

// NewReplayExecutor creates an executor reading fixtures from dir.
func NewReplayExecutor(dir string) (*ReplayExecutor, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures path %s is not a directory", dir)
	}
	return &ReplayExecutor{dir: dir}, nil
}

// FixtureName returns the fixture file name serving params.
func FixtureName(params api.Params) string {
	name := params.Method()
	if period := params["period"]; period != "" {
		name += "_" + period
	}
	if format := params["format"]; format != "" {
		name += "." + format
	}
	return name
}

// Execute implements api.Executor. Requests without a fixture are declined.
func (e *ReplayExecutor) Execute(ctx context.Context, params api.Params) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := FixtureName(params)
	data, err := os.ReadFile(filepath.Join(e.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("ReplayExecutor", "No fixture %s", name)
		return nil, fmt.Errorf("no fixture %s: %w", name, api.ErrDeclined)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	return data, nil
}
