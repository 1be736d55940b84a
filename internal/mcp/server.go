package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// maxLineBytes bounds one JSON-RPC message; OpenAPI documents arrive inline.
const maxLineBytes = 10 << 20

// Generator produces test cases for an endpoint description.
type Generator interface {
	Generate(ctx context.Context, req model.GenerateRequest) ([]model.TestCase, error)
}

// Executor runs test cases and returns one result per case.
type Executor interface {
	Execute(ctx context.Context, tests []model.TestCase) []model.TestResult
}

// Server exposes APIBeast tools over JSON-RPC 2.0 on stdio.
type Server struct {
	gen     Generator
	exec    Executor
	logger  *slog.Logger
	version string
	tools   []toolEntry

	stdin  io.Reader
	stdout io.Writer
	mu     sync.Mutex // serializes writes to stdout
}

// NewServer creates an MCP server. Logs must not go to stdout, which
// carries the protocol.
func NewServer(gen Generator, exec Executor, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		gen:     gen,
		exec:    exec,
		logger:  logger,
		version: version,
		tools:   allTools(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
}

// Serve reads JSON-RPC messages line by line and writes one response line per
// request. It returns when the input is closed or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(newErrorResponse(nil, ErrCodeParse, "parse error: "+err.Error()))
			continue
		}
		if req.JSONRPC != "2.0" || req.Method == "" {
			if !req.IsNotification() {
				s.writeResponse(newErrorResponse(req.ID, ErrCodeInvalidReq, "invalid request"))
			}
			continue
		}

		resp, shouldReply := s.dispatch(ctx, &req)
		if shouldReply {
			s.writeResponse(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

// dispatch routes a request. The bool is false for notifications.
func (s *Server) dispatch(ctx context.Context, req *Request) (Response, bool) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req), true

	case "notifications/initialized":
		return Response{}, false

	case "ping":
		return newResponse(req.ID, map[string]any{}), true

	case "tools/list":
		return s.handleToolsList(req), true

	case "tools/call":
		return s.handleToolsCall(ctx, req), true

	default:
		if req.IsNotification() {
			return Response{}, false
		}
		return newErrorResponse(req.ID, ErrCodeNoMethod, "method not found: "+req.Method), true
	}
}

func (s *Server) handleInitialize(req *Request) Response {
	return newResponse(req.ID, map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "apibeast-mcp",
			"version": s.version,
		},
	})
}

func (s *Server) handleToolsList(req *Request) Response {
	tools := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		tools[i] = t.Tool
	}
	return newResponse(req.ID, map[string]any{"tools": tools})
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) Response {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, ErrCodeInvalidParams, "invalid params: "+err.Error())
	}

	for _, t := range s.tools {
		if t.Tool.Name == params.Name {
			s.logger.Info("tool call", "tool", params.Name)
			return newResponse(req.ID, t.Handler(ctx, s, params.Arguments))
		}
	}
	return newErrorResponse(req.ID, ErrCodeInvalidParams, "unknown tool: "+params.Name)
}

// writeResponse writes resp as a single line.
func (s *Server) writeResponse(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "err", err)
		fmt.Fprintf(s.stdout, `{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal marshal error"}}`+"\n")
		return
	}
	fmt.Fprintf(s.stdout, "%s\n", data)
}
