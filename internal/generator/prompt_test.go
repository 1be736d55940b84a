package generator

import (
	"strings"
	"testing"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

func TestBuildPrompt_Defaults(t *testing.T) {
	p := BuildPrompt(model.GenerateRequest{})

	if !strings.HasPrefix(p, "Generate 8 API test cases for GET unknown.") {
		t.Errorf("unexpected prompt header: %q", strings.SplitN(p, "\n", 2)[0])
	}
	if !strings.Contains(p, `"method": "GET"`) || !strings.Contains(p, `"endpoint": "unknown"`) {
		t.Error("expected defaults in the JSON structure example")
	}
	if !strings.Contains(p, `"assertions": []`) || !strings.Contains(p, `"body": null`) {
		t.Error("expected empty assertions and null body constraints")
	}
	if strings.Contains(p, "OpenAPI") || strings.Contains(p, "request headers") {
		t.Error("no context blocks expected without optional inputs")
	}
}

func TestBuildPrompt_MethodAndEndpoint(t *testing.T) {
	p := BuildPrompt(model.GenerateRequest{Method: "POST", Endpoint: "https://api.example.com/users"})

	if !strings.HasPrefix(p, "Generate 8 API test cases for POST https://api.example.com/users.") {
		t.Errorf("unexpected prompt header: %q", strings.SplitN(p, "\n", 2)[0])
	}
	if !strings.Contains(p, `"endpoint": "https://api.example.com/users"`) {
		t.Error("expected endpoint in the JSON structure example")
	}
}

func TestBuildPrompt_ContextBlocks(t *testing.T) {
	req := model.GenerateRequest{
		Method:      "POST",
		Endpoint:    "https://api.example.com/users",
		Headers:     map[string]string{"X-Trace": "1", "Authorization": "Bearer t"},
		Body:        `{"name": "Ada"}`,
		OpenAPISpec: "openapi: 3.0.0",
	}
	p := BuildPrompt(req)

	auth := strings.Index(p, "Authorization: Bearer t")
	trace := strings.Index(p, "X-Trace: 1")
	if auth < 0 || trace < 0 || auth > trace {
		t.Error("expected headers listed in key order")
	}
	if !strings.Contains(p, `{"name": "Ada"}`) {
		t.Error("expected sample body")
	}
	if !strings.HasSuffix(p, "openapi: 3.0.0") {
		t.Error("expected OpenAPI description at the end")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := model.GenerateRequest{
		Endpoint: "http://x",
		Headers:  map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"},
	}
	first := BuildPrompt(req)
	for i := 0; i < 20; i++ {
		if BuildPrompt(req) != first {
			t.Fatal("BuildPrompt is not deterministic")
		}
	}
}
