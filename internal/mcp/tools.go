package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
	"github.com/tasnimchaouch0/APIBEAST/internal/report"
	"github.com/tasnimchaouch0/APIBEAST/internal/suite"
)

// Tool describes an MCP tool definition.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// ToolResult is returned from tool invocations.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolContent holds a single piece of tool output.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ToolContent{{Type: "text", Text: text}}}
}

func errorResult(format string, args ...any) ToolResult {
	r := textResult(fmt.Sprintf(format, args...))
	r.IsError = true
	return r
}

type toolHandler func(ctx context.Context, s *Server, params json.RawMessage) ToolResult

type toolEntry struct {
	Tool    Tool
	Handler toolHandler
}

func allTools() []toolEntry {
	return []toolEntry{
		{
			Tool: Tool{
				Name:        "apibeast_generate_tests",
				Description: "Generate API test cases for an endpoint with the configured generative model. Returns the test cases as a JSON array that apibeast_execute_tests accepts.",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {"endpoint": {"type": "string", "description": "Full URL of the endpoint under test"}, "method": {"type": "string", "description": "HTTP method (default GET)"}, "openapi_spec": {"type": "string", "description": "OpenAPI document describing the API (optional)"}, "headers": {"type": "object", "additionalProperties": {"type": "string"}, "description": "Headers the endpoint is normally called with (optional)"}, "body": {"type": "string", "description": "A sample request body (optional)"}}, "required": ["endpoint"]}`),
			},
			Handler: handleGenerate,
		},
		{
			Tool: Tool{
				Name:        "apibeast_execute_tests",
				Description: "Execute API test cases and report a result per test. Pass the cases inline as 'tests' or point 'file' at a JSON or YAML suite file or directory.",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {"tests": {"type": "array", "items": {"type": "object"}, "description": "Test cases to run"}, "file": {"type": "string", "description": "Path to a suite file or directory of suites"}}, "required": []}`),
			},
			Handler: handleExecute,
		},
	}
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleGenerate(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var req model.GenerateRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return errorResult("invalid arguments: %v", err)
		}
	}
	if req.Endpoint == "" {
		return errorResult("endpoint is required")
	}

	tests, err := s.gen.Generate(ctx, req)
	if err != nil {
		return errorResult("generation failed: %v", err)
	}

	data, err := json.MarshalIndent(tests, "", "  ")
	if err != nil {
		return errorResult("encoding tests: %v", err)
	}
	return textResult(fmt.Sprintf("Generated %d tests for %s:\n%s", len(tests), req.Endpoint, data))
}

type executeParams struct {
	Tests []model.TestCase `json:"tests"`
	File  string           `json:"file"`
}

func handleExecute(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p executeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return errorResult("invalid arguments: %v", err)
		}
	}

	tests := p.Tests
	if p.File != "" {
		suites, err := suite.Load(p.File)
		if err != nil {
			return errorResult("loading suites: %v", err)
		}
		tests = append(tests, suite.Tests(suites)...)
	}
	if len(tests) == 0 {
		return errorResult("provide 'tests' or 'file'")
	}

	start := time.Now()
	results := s.exec.Execute(ctx, tests)
	sum := report.Summarize(results, time.Since(start))

	var out strings.Builder
	fmt.Fprintln(&out, sum.String())
	for _, r := range results {
		fmt.Fprintf(&out, "%-6s %s\n", strings.ToUpper(string(r.Status)), r.TestName)
		for _, e := range r.Errors {
			fmt.Fprintf(&out, "       %s\n", e)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errorResult("encoding results: %v", err)
	}
	fmt.Fprintf(&out, "\n%s", data)
	return textResult(out.String())
}
