package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

const (
	defaultMethod   = "GET"
	defaultEndpoint = "unknown"
)

const promptTemplate = `Generate 8 API test cases for %[1]s %[2]s.

CRITICAL RULES:
1. Return ONLY a JSON array - NO markdown, NO explanation, NO text before or after
2. Each test MUST have "assertions" as an empty array: []
3. DO NOT use strings like "Response body contains..." for assertions
4. Use null for empty body, not empty string

Required JSON structure:
[
  {
    "name": "Test name",
    "description": "Test description",
    "method": "%[1]s",
    "endpoint": "%[2]s",
    "headers": {},
    "body": null,
    "expected_status": 200,
    "assertions": []
  }
]

Generate exactly 8 tests covering: success (200), client errors (400, 401, 404), server error (500), and edge cases.`

// BuildPrompt renders the generation instruction for one endpoint. Absent
// method and endpoint default to GET and "unknown". Optional OpenAPI text,
// sample headers and sample body are appended as context blocks.
func BuildPrompt(req model.GenerateRequest) string {
	method := req.Method
	if method == "" {
		method = defaultMethod
	}
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate, method, endpoint)

	if len(req.Headers) > 0 {
		keys := make([]string, 0, len(req.Headers))
		for k := range req.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\nThe endpoint is normally called with these request headers:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, req.Headers[k])
		}
	}

	if strings.TrimSpace(req.Body) != "" {
		b.WriteString("\n\nA typical request body looks like this:\n")
		b.WriteString(strings.TrimSpace(req.Body))
	}

	if strings.TrimSpace(req.OpenAPISpec) != "" {
		b.WriteString("\n\nUse this OpenAPI description of the API to pick realistic paths, parameters and status codes:\n")
		b.WriteString(strings.TrimSpace(req.OpenAPISpec))
	}

	return b.String()
}
