package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/tasnimchaouch0/APIBEAST/internal/api"
	"github.com/tasnimchaouch0/APIBEAST/internal/config"
	"github.com/tasnimchaouch0/APIBEAST/internal/executor"
	"github.com/tasnimchaouch0/APIBEAST/internal/generator"
	"github.com/tasnimchaouch0/APIBEAST/internal/mcp"
	"github.com/tasnimchaouch0/APIBEAST/internal/model"
	"github.com/tasnimchaouch0/APIBEAST/internal/report"
	"github.com/tasnimchaouch0/APIBEAST/internal/server"
	"github.com/tasnimchaouch0/APIBEAST/internal/suite"
)

func loadConfig(path string) (*config.Config, slog.Level, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, 0, err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, 0, err
	}
	return cfg, level, nil
}

func newGenerator(cfg *config.Config, logger *slog.Logger) (*generator.Service, error) {
	if err := cfg.RequireGeminiKey(); err != nil {
		return nil, err
	}
	client := generator.NewGeminiClient(generator.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		URL:     cfg.GeminiAPIURL,
		Timeout: cfg.GenerationTimeout,
	})
	return generator.NewService(client, logger), nil
}

func newExecutor(cfg *config.Config, logger *slog.Logger) *executor.Executor {
	return executor.New(executor.Options{
		Timeout:     cfg.RequestTimeout,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func cmdServe(ctx context.Context, configPath string) error {
	cfg, level, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := server.NewLogger(level)

	var gen api.Generator
	if svc, err := newGenerator(cfg, logger); err != nil {
		logger.Warn("test generation disabled", "err", err)
		gen = api.Unavailable(err)
	} else {
		gen = svc
	}

	srv := server.New(cfg, logger)
	api.NewHandler(gen, newExecutor(cfg, logger), logger, version).Routes(srv.Router)
	return srv.Serve(ctx)
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

// headerFlag collects repeated --header 'Key: Value' options.
type headerFlag map[string]string

func (h headerFlag) String() string { return fmt.Sprint(map[string]string(h)) }

func (h headerFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, ":")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("header must look like 'Key: Value', got %q", v)
	}
	h[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return nil
}

func cmdGenerate(ctx context.Context, configPath string, args []string) error {
	headers := headerFlag{}
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	endpoint := fs.String("endpoint", "", "Full URL of the endpoint under test (required)")
	method := fs.String("method", "GET", "HTTP method of the endpoint")
	openapi := fs.String("openapi", "", "Path to an OpenAPI document to include as context")
	body := fs.String("body", "", "Sample request body")
	out := fs.String("out", "", "Write tests to this file (.json, .yaml or .yml) instead of stdout")
	fs.Var(headers, "header", "Request header 'Key: Value' (repeatable)")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	if *endpoint == "" {
		return fmt.Errorf("usage: apibeast generate --endpoint <url> [--method M] [--openapi file] [--out file]")
	}

	cfg, level, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := server.NewLoggerTo(os.Stderr, level)
	svc, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	req := model.GenerateRequest{
		Endpoint: *endpoint,
		Method:   *method,
		Body:     *body,
	}
	if len(headers) > 0 {
		req.Headers = headers
	}
	if *openapi != "" {
		data, err := os.ReadFile(*openapi)
		if err != nil {
			return fmt.Errorf("reading OpenAPI document: %w", err)
		}
		req.OpenAPISpec = string(data)
	}

	tests, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	data, err := suite.Marshal(*out, tests)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d tests to %s\n", len(tests), *out)
	return nil
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func cmdRun(ctx context.Context, configPath string, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	concurrency := fs.Int("concurrency", 0, "Parallel requests (default from config)")
	timeout := fs.Duration("timeout", 0, "Timeout per request (default from config)")
	reportPath := fs.String("report", "", "Also write an Excel report to this .xlsx file")
	asJSON := fs.Bool("json", false, "Print results as JSON instead of the console report")
	verbose := fs.Bool("verbose", false, "Show response details and curl for every test")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	paths, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("usage: apibeast run <suite-file|dir>... [--concurrency n] [--timeout d] [--report out.xlsx] [--json]")
	}

	cfg, level, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}
	logger := server.NewLoggerTo(os.Stderr, level)

	var suites []*suite.Suite
	for _, p := range paths {
		loaded, err := suite.Load(p)
		if err != nil {
			return err
		}
		suites = append(suites, loaded...)
	}
	tests := suite.Tests(suites)
	model.EnsureIDs(tests)

	start := time.Now()
	results := newExecutor(cfg, logger).Execute(ctx, tests)
	sum := report.Summarize(results, time.Since(start))

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model.ExecuteResponse{Success: true, Results: results}); err != nil {
			return err
		}
	} else {
		if *noColor {
			color.NoColor = true
		}
		report.PrintConsole(color.Output, tests, results, sum, report.ConsoleOptions{Verbose: *verbose, NoColor: *noColor})
	}

	if *reportPath != "" {
		if err := report.WriteExcel(*reportPath, tests, results, sum); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", *reportPath)
	}

	if !sum.AllPassed() {
		return errTestsFailed
	}
	return nil
}

// parseInterspersed parses fs over args allowing flags after positional
// arguments, and returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// ---------------------------------------------------------------------------
// mcp
// ---------------------------------------------------------------------------

func cmdMcp(ctx context.Context, configPath string) error {
	cfg, level, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	logger := server.NewLoggerTo(os.Stderr, level)

	var gen mcp.Generator
	if svc, err := newGenerator(cfg, logger); err != nil {
		logger.Warn("test generation disabled", "err", err)
		gen = api.Unavailable(err)
	} else {
		gen = svc
	}

	return mcp.NewServer(gen, newExecutor(cfg, logger), logger, version).Serve(ctx)
}
