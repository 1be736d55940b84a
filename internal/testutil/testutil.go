// Package testutil drives an APIBeast HTTP handler from tests and decodes
// its JSON envelopes.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Client sends requests to an APIBeast handler served by httptest.
type Client struct {
	t    testing.TB
	base string
	http *http.Client
}

// Start serves h on a test server that is closed when the test ends.
func Start(t testing.TB, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &Client{t: t, base: ts.URL, http: ts.Client()}
}

// Response is a fully read HTTP response.
type Response struct {
	t      testing.TB
	Status int
	Header http.Header
	Body   []byte
}

// Send issues method on path with an optional body and headers.
func (c *Client) Send(method, path string, body io.Reader, header http.Header) *Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return &Response{t: c.t, Status: resp.StatusCode, Header: resp.Header, Body: data}
}

// PostRaw posts body verbatim as application/json.
func (c *Client) PostRaw(path, body string) *Response {
	c.t.Helper()
	return c.Send(http.MethodPost, path, strings.NewReader(body), jsonHeader())
}

func (c *Client) postJSON(path string, v any) *Response {
	c.t.Helper()
	data, err := json.Marshal(v)
	require.NoError(c.t, err)
	return c.Send(http.MethodPost, path, bytes.NewReader(data), jsonHeader())
}

// GenerateTests calls POST /api/generate-tests.
func (c *Client) GenerateTests(req model.GenerateRequest) *Response {
	c.t.Helper()
	return c.postJSON("/api/generate-tests", req)
}

// ExecuteTests calls POST /api/execute-tests.
func (c *Client) ExecuteTests(tests []model.TestCase) *Response {
	c.t.Helper()
	return c.postJSON("/api/execute-tests", model.ExecuteRequest{Tests: tests})
}

// Health calls GET /api/health.
func (c *Client) Health() *Response {
	c.t.Helper()
	return c.Send(http.MethodGet, "/api/health", nil, nil)
}

// Preflight sends a CORS preflight for method on path from origin.
func (c *Client) Preflight(path, origin, method string) *Response {
	c.t.Helper()
	return c.Send(http.MethodOptions, path, nil, http.Header{
		"Origin":                        {origin},
		"Access-Control-Request-Method": {method},
	})
}

func jsonHeader() http.Header {
	return http.Header{"Content-Type": {"application/json"}}
}

// ExpectStatus fails the test unless the response has status code.
func (r *Response) ExpectStatus(code int) *Response {
	r.t.Helper()
	assert.Equal(r.t, code, r.Status, "body: %s", r.Body)
	return r
}

// ExpectBody fails the test unless the raw body contains substr.
func (r *Response) ExpectBody(substr string) *Response {
	r.t.Helper()
	assert.Contains(r.t, string(r.Body), substr)
	return r
}

// ExpectHeader fails the test unless header key has value want.
func (r *Response) ExpectHeader(key, want string) *Response {
	r.t.Helper()
	assert.Equal(r.t, want, r.Header.Get(key), "header %s", key)
	return r
}

// Decode unmarshals the body into v and stops the test on failure.
func (r *Response) Decode(v any) {
	r.t.Helper()
	require.NoError(r.t, json.Unmarshal(r.Body, v), "body: %s", r.Body)
}

// Generated decodes a generation envelope.
func (r *Response) Generated() model.GenerateResponse {
	r.t.Helper()
	var out model.GenerateResponse
	r.Decode(&out)
	return out
}

// Executed decodes an execution envelope.
func (r *Response) Executed() model.ExecuteResponse {
	r.t.Helper()
	var out model.ExecuteResponse
	r.Decode(&out)
	return out
}

// Failure decodes an error envelope and checks success is false.
func (r *Response) Failure() model.ErrorResponse {
	r.t.Helper()
	var out model.ErrorResponse
	r.Decode(&out)
	assert.False(r.t, out.Success, "error envelopes carry success=false")
	return out
}
