package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

type fakeGenerator struct {
	tests []model.TestCase
	err   error
	got   model.GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req model.GenerateRequest) ([]model.TestCase, error) {
	f.got = req
	return f.tests, f.err
}

type fakeExecutor struct {
	got []model.TestCase
}

func (f *fakeExecutor) Execute(ctx context.Context, tests []model.TestCase) []model.TestResult {
	f.got = tests
	results := make([]model.TestResult, len(tests))
	for i, tc := range tests {
		results[i] = model.NewResult(tc.ID, tc.Name)
		results[i].Status = model.StatusPassed
		if tc.ExpectedStatus != 200 {
			results[i].Fail(model.StatusFailed, "Expected status 200")
		}
	}
	return results
}

// run feeds lines to a server and returns the decoded responses.
func run(t *testing.T, s *Server, lines ...string) []Response {
	t.Helper()
	var out bytes.Buffer
	s.stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	s.stdout = &out
	if err := s.Serve(context.Background()); err != nil {
		t.Fatalf("Serve() error: %v", err)
	}

	var responses []Response
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var r Response
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("invalid response line %q: %v", sc.Text(), err)
		}
		responses = append(responses, r)
	}
	return responses
}

func newTestServer(gen Generator, exec Executor) *Server {
	return NewServer(gen, exec, nil, "test")
}

// resultOf decodes a tools/call result.
func resultOf(t *testing.T, r Response) ToolResult {
	t.Helper()
	if r.Error != nil {
		t.Fatalf("unexpected RPC error: %+v", r.Error)
	}
	data, _ := json.Marshal(r.Result)
	var tr ToolResult
	if err := json.Unmarshal(data, &tr); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	return tr
}

func TestInitializeAndList(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, &fakeExecutor{})
	resps := run(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)

	if len(resps) != 2 {
		t.Fatalf("expected 2 responses (notification gets none), got %d", len(resps))
	}
	if string(resps[0].ID) != "1" {
		t.Errorf("expected id 1, got %s", resps[0].ID)
	}
	initResult := resps[0].Result.(map[string]any)
	if initResult["protocolVersion"] != ProtocolVersion {
		t.Errorf("unexpected protocol version %v", initResult["protocolVersion"])
	}

	tools := resps[1].Result.(map[string]any)["tools"].([]any)
	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	if strings.Join(names, ",") != "apibeast_generate_tests,apibeast_execute_tests" {
		t.Errorf("unexpected tools %v", names)
	}
}

func TestProtocolErrors(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, &fakeExecutor{})
	resps := run(t, s,
		`not json`,
		`{"jsonrpc":"2.0","id":"a","method":"resources/list"}`,
		`{"jsonrpc":"2.0","method":"notifications/unknown"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"nope"}}`,
		`{"jsonrpc":"1.0","id":4,"method":"ping"}`,
	)

	want := []int{ErrCodeParse, ErrCodeNoMethod, ErrCodeInvalidParams, ErrCodeInvalidReq}
	if len(resps) != len(want) {
		t.Fatalf("expected %d responses, got %d", len(want), len(resps))
	}
	for i, code := range want {
		if resps[i].Error == nil || resps[i].Error.Code != code {
			t.Errorf("response %d: expected code %d, got %+v", i, code, resps[i].Error)
		}
	}
	if string(resps[0].ID) != "null" {
		t.Errorf("parse errors should carry a null id, got %s", resps[0].ID)
	}
}

func TestGenerateTool(t *testing.T) {
	gen := &fakeGenerator{tests: []model.TestCase{{ID: "1", Name: "List", Endpoint: "http://api.test/users", ExpectedStatus: 200}}}
	s := newTestServer(gen, &fakeExecutor{})
	resps := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"apibeast_generate_tests","arguments":{"endpoint":"http://api.test/users","method":"POST"}}}`)

	tr := resultOf(t, resps[0])
	if tr.IsError {
		t.Fatalf("unexpected tool error: %v", tr.Content)
	}
	if gen.got.Endpoint != "http://api.test/users" || gen.got.Method != "POST" {
		t.Errorf("arguments not forwarded: %+v", gen.got)
	}
	if !strings.Contains(tr.Content[0].Text, "Generated 1 tests") || !strings.Contains(tr.Content[0].Text, `"expected_status": 200`) {
		t.Errorf("unexpected text %q", tr.Content[0].Text)
	}
}

func TestGenerateTool_Errors(t *testing.T) {
	tests := map[string]struct {
		gen  *fakeGenerator
		args string
		want string
	}{
		"missing endpoint": {&fakeGenerator{}, `{}`, "endpoint is required"},
		"bad arguments":    {&fakeGenerator{}, `[]`, "invalid arguments"},
		"generation fails": {&fakeGenerator{err: errors.New("quota")}, `{"endpoint":"http://x"}`, "generation failed: quota"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(tt.gen, &fakeExecutor{})
			resps := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"apibeast_generate_tests","arguments":`+tt.args+`}}`)

			tr := resultOf(t, resps[0])
			if !tr.IsError || !strings.Contains(tr.Content[0].Text, tt.want) {
				t.Errorf("expected error result containing %q, got %+v", tt.want, tr)
			}
		})
	}
}

func TestExecuteTool_Inline(t *testing.T) {
	exec := &fakeExecutor{}
	s := newTestServer(&fakeGenerator{}, exec)
	resps := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"apibeast_execute_tests","arguments":{"tests":[{"name":"ok","endpoint":"http://a","expected_status":200},{"name":"bad","endpoint":"http://b","expected_status":404}]}}}`)

	tr := resultOf(t, resps[0])
	if tr.IsError {
		t.Fatalf("unexpected tool error: %v", tr.Content)
	}
	if len(exec.got) != 2 {
		t.Fatalf("expected 2 tests executed, got %d", len(exec.got))
	}
	text := tr.Content[0].Text
	if !strings.HasPrefix(text, "2 tests, 1 passed, 1 failed, 0 errors") {
		t.Errorf("unexpected summary: %q", strings.SplitN(text, "\n", 2)[0])
	}
	if !strings.Contains(text, "FAILED bad") || !strings.Contains(text, "Expected status 200") {
		t.Errorf("expected failure details in %q", text)
	}
}

func TestExecuteTool_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(path, []byte("- name: from file\n  endpoint: http://a\n  expected_status: 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{}
	s := newTestServer(&fakeGenerator{}, exec)
	args, _ := json.Marshal(map[string]string{"file": path})
	resps := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"apibeast_execute_tests","arguments":`+string(args)+`}}`)

	tr := resultOf(t, resps[0])
	if tr.IsError {
		t.Fatalf("unexpected tool error: %v", tr.Content)
	}
	if len(exec.got) != 1 || exec.got[0].Name != "from file" {
		t.Errorf("expected suite from file, got %+v", exec.got)
	}
}

func TestExecuteTool_Errors(t *testing.T) {
	for name, args := range map[string]string{
		"no input":     `{}`,
		"missing file": `{"file":"/definitely/not/here.json"}`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(&fakeGenerator{}, &fakeExecutor{})
			resps := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"apibeast_execute_tests","arguments":`+args+`}}`)
			if tr := resultOf(t, resps[0]); !tr.IsError {
				t.Errorf("expected error result, got %+v", tr)
			}
		})
	}
}

func TestServeStopsAtEOF(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, &fakeExecutor{})
	s.stdin = strings.NewReader("")
	s.stdout = io.Discard
	if err := s.Serve(context.Background()); err != nil {
		t.Errorf("expected nil at EOF, got %v", err)
	}
}
