// apibeast generates API test cases with a generative model and executes
// them against live endpoints.
//
// Usage:
//
//	apibeast serve                         Run the HTTP API
//	apibeast generate --endpoint <url>     Generate test cases for an endpoint
//	apibeast run <file|dir>                Execute saved suites and report
//	apibeast mcp                           Start the MCP server over stdio
//	apibeast version                       Print the version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// errTestsFailed makes the process exit 1 without printing anything more.
var errTestsFailed = errors.New("tests failed")

func main() {
	cmd, args, configPath := parseArgs()

	if cmd == "" || cmd == "help" || cmd == "--help" || cmd == "-h" {
		printUsage()
		if cmd == "" {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "version", "--version", "-v":
		fmt.Printf("apibeast version %s\n", version)
		return
	case "serve":
		err = cmdServe(ctx, configPath)
	case "generate":
		err = cmdGenerate(ctx, configPath, args)
	case "run":
		err = cmdRun(ctx, configPath, args)
	case "mcp":
		err = cmdMcp(ctx, configPath)
	default:
		fmt.Fprintf(os.Stderr, "apibeast: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if errors.Is(err, errTestsFailed) {
		stop()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "apibeast: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parseArgs pulls the global --config option out of the argument list.
func parseArgs() (command string, args []string, configPath string) {
	raw := os.Args[1:]
	var filtered []string
	for i := 0; i < len(raw); i++ {
		if raw[i] == "--config" && i+1 < len(raw) {
			configPath = raw[i+1]
			i++
			continue
		}
		filtered = append(filtered, raw[i])
	}

	if len(filtered) == 0 {
		return "", nil, configPath
	}
	return filtered[0], filtered[1:], configPath
}

func printUsage() {
	fmt.Printf(`apibeast: API test generation and execution %s

Usage:
  apibeast [--config <path>] <command> [arguments]

Commands:
  serve                      Run the HTTP API (POST /api/generate-tests, POST /api/execute-tests)
  generate --endpoint <url>  Generate test cases for an endpoint
           [--method M] [--openapi file] [--header 'K: V'] [--body json] [--out file]
  run <file|dir>             Execute JSON/YAML suites and print a report
           [--concurrency n] [--timeout d] [--report out.xlsx] [--json] [--verbose] [--no-color]
  mcp                        Start MCP server over stdio (for AI agents)
  version                    Print the apibeast version

Options:
  --config <path>   YAML configuration file (default: $APIBEAST_CONFIG)

Environment:
  GEMINI_API_KEY               Key for the generative model (required for generation)
  GEMINI_API_URL               Override the generateContent endpoint
  HOST, PORT                   Listen address for serve (default 127.0.0.1:8080)
  APIBEAST_CONCURRENCY         Parallel requests during execution (default 4)
  APIBEAST_REQUEST_TIMEOUT     Timeout per executed request (default 30s)
  APIBEAST_GENERATION_TIMEOUT  Timeout for the model call (default 60s)
  APIBEAST_ALLOWED_ORIGINS     Comma separated CORS origins (default *)
  APIBEAST_LOG_LEVEL           debug, info, warn or error (default info)
`, version)
}
