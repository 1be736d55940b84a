// Package executor runs test cases against live HTTP endpoints and builds a
// TestResult for each one.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tasnimchaouch0/APIBEAST/internal/assertion"
	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// DefaultTimeout bounds a single outbound request when no client is supplied.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 10 << 20

// Options configures an Executor. The zero value is usable.
type Options struct {
	// Client is shared by every request. When nil a client with Timeout is built.
	Client      *http.Client
	Timeout     time.Duration
	Concurrency int // max in-flight requests; values below 1 mean sequential
	// MaxBodyBytes caps the response body read per request. Larger bodies
	// are treated like non-JSON ones. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Executor issues one HTTP request per test case.
type Executor struct {
	http        *http.Client
	concurrency int
	maxBody     int64
	logger      *slog.Logger
}

// New creates an Executor from opts.
func New(opts Options) *Executor {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Executor{http: client, concurrency: concurrency, maxBody: maxBody, logger: logger}
}

// Execute runs every test case and returns one result per case in input
// order. Cases missing an id, or repeating one, get a fresh id first; the
// caller's slice is not modified. Cancelling ctx aborts in-flight requests
// and every unfinished case is reported as an error.
func (e *Executor) Execute(ctx context.Context, tests []model.TestCase) []model.TestResult {
	cases := slices.Clone(tests)
	if n := model.EnsureIDs(cases); n > 0 {
		e.logger.Debug("assigned test case ids", "count", n)
	}

	results := make([]model.TestResult, len(cases))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range cases {
		g.Go(func() error {
			results[i] = e.ExecuteOne(ctx, cases[i])
			return nil
		})
	}
	g.Wait()

	return results
}

// ExecuteOne runs a single test case.
func (e *Executor) ExecuteOne(ctx context.Context, tc model.TestCase) (result model.TestResult) {
	result = model.NewResult(tc.ID, tc.Name)
	start := time.Now()
	defer func() {
		result.DurationMs = time.Since(start).Milliseconds()
	}()

	req, err := buildRequest(ctx, tc)
	if err != nil {
		result.Fail(model.StatusError, fmt.Sprintf("Request failed: %v", err))
		return result
	}

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Debug("request failed", "test", tc.Name, "err", err)
		result.Fail(model.StatusError, fmt.Sprintf("Request failed: %v", err))
		return result
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	result.ResponseStatus = &status
	if status != tc.ExpectedStatus {
		result.Fail(model.StatusFailed, fmt.Sprintf("Expected status %d, got %d", tc.ExpectedStatus, status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	if err != nil {
		// Unreadable bodies are treated like non-JSON ones.
		e.logger.Debug("reading response body", "test", tc.Name, "err", err)
		return result
	}
	if int64(len(body)) > e.maxBody {
		e.logger.Debug("response body too large", "test", tc.Name, "limit", e.maxBody)
		return result
	}

	doc, err := assertion.ParseDocument(body)
	if err != nil {
		e.logger.Debug("skipping assertions", "test", tc.Name, "err", err)
		return result
	}
	result.ResponseBody = json.RawMessage(bytes.TrimSpace(body))

	outcomes := assertion.EvaluateAll(doc, tc.Assertions)
	for i, ok := range outcomes {
		if !ok {
			result.Fail(model.StatusFailed, assertion.FailureMessage(tc.Assertions[i]))
		}
	}

	e.logger.Debug("test executed", "test", tc.Name, "status", result.Status, "response_status", status)
	return result
}

// NormalizeMethod maps a case-insensitive verb token to one of GET, POST,
// PUT, DELETE or PATCH. Any other token falls back to GET.
func NormalizeMethod(token string) string {
	switch m := strings.ToUpper(token); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return m
	default:
		return http.MethodGet
	}
}

// buildRequest converts a test case into an outbound request.
func buildRequest(ctx context.Context, tc model.TestCase) (*http.Request, error) {
	var reqBody io.Reader
	if tc.Body != nil {
		data, err := json.Marshal(tc.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, NormalizeMethod(tc.Method), tc.Endpoint, reqBody)
	if err != nil {
		return nil, err
	}

	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	if tc.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
