package main

import (
	"flag"
	"io"
	"os"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"apibeast", "run", "--config", "cfg.yaml", "suite.json", "--json"}
	cmd, args, configPath := parseArgs()
	if cmd != "run" || configPath != "cfg.yaml" {
		t.Errorf("unexpected cmd=%q config=%q", cmd, configPath)
	}
	if strings.Join(args, " ") != "suite.json --json" {
		t.Errorf("unexpected args %v", args)
	}

	os.Args = []string{"apibeast"}
	if cmd, _, _ := parseArgs(); cmd != "" {
		t.Errorf("expected empty command, got %q", cmd)
	}
}

func TestParseInterspersed(t *testing.T) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "")
	concurrency := fs.Int("concurrency", 0, "")

	paths, err := parseInterspersed(fs, []string{"a.json", "--json", "dir", "--concurrency", "3"})
	if err != nil {
		t.Fatalf("parseInterspersed() error: %v", err)
	}
	if strings.Join(paths, ",") != "a.json,dir" {
		t.Errorf("unexpected positional args %v", paths)
	}
	if !*asJSON || *concurrency != 3 {
		t.Errorf("flags not parsed: json=%v concurrency=%d", *asJSON, *concurrency)
	}
}

func TestParseInterspersed_UnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseInterspersed(fs, []string{"a.json", "--nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestHeaderFlag(t *testing.T) {
	h := headerFlag{}
	if err := h.Set("Authorization: Bearer a:b"); err != nil {
		t.Fatal(err)
	}
	if h["Authorization"] != "Bearer a:b" {
		t.Errorf("unexpected header value %q", h["Authorization"])
	}
	if err := h.Set("no-colon"); err == nil {
		t.Error("expected error for malformed header")
	}
	if err := h.Set(": value"); err == nil {
		t.Error("expected error for empty key")
	}
}
