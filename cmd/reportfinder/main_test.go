package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/reportfinder/internal/app"
)

// isolate keeps the developer's .env and search settings out of the test.
func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, k := range []string{"SEARCH_PROVIDER", "AZURE_KEY", "BING_KEY", "SEARCH_INTERVAL", "OUTPUT_SHAPE", "SEARCH_FILE", "CACHE_DIR"} {
		t.Setenv(k, "")
	}
}

func TestParseArgs_WrongArity(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{nil, {"only.csv"}, {"a", "b", "c"}} {
		var stderr bytes.Buffer
		_, _, err := parseArgs(args, &stderr)
		if !errors.Is(err, errUsage) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
		if !strings.Contains(stderr.String(), "usage: reportfinder") {
			t.Fatalf("args %v: usage line missing: %q", args, stderr.String())
		}
	}
}

func TestParseArgs_Precedence(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("rf.yaml", []byte("provider: searxng\nsearch:\n  interval: 3s\noutput:\n  shape: harradine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEARCH_INTERVAL", "2s")

	cfg, _, err := parseArgs([]string{"-config", "rf.yaml", "-search.provider", "duckduckgo", "in.csv", "out.csv"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Provider != "duckduckgo" {
		t.Fatalf("flag should win, got provider %q", cfg.Provider)
	}
	if cfg.SearchInterval != 2*time.Second {
		t.Fatalf("env should beat file, got %v", cfg.SearchInterval)
	}
	if cfg.OutputShape != "harradine" {
		t.Fatalf("file should beat default, got %q", cfg.OutputShape)
	}
	if cfg.InputPath != "in.csv" || cfg.OutputPath != "out.csv" {
		t.Fatalf("positional paths: %q %q", cfg.InputPath, cfg.OutputPath)
	}
}

func TestParseArgs_DotenvFile(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("custom.env", []byte("AZURE_KEY=secret\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := parseArgs([]string{"-env", "custom.env", "in.csv", "out.csv"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.BingKey != "secret" {
		t.Fatalf("BingKey = %q", cfg.BingKey)
	}
}

func TestParseArgs_Version(t *testing.T) {
	isolate(t)
	_, meta, err := parseArgs([]string{"-version"}, &bytes.Buffer{})
	if err != nil || !meta.version {
		t.Fatalf("version: meta=%+v err=%v", meta, err)
	}
}

func TestRun_MissingCredentialIsConfigError(t *testing.T) {
	isolate(t)
	cfg, _, err := parseArgs([]string{"in.csv", "out.csv"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = run(context.Background(), cfg)
	var ce *app.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestRun_FileProviderEndToEnd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "agor.csv")
	out := filepath.Join(dir, "out.csv")
	fixture := filepath.Join(dir, "results.json")
	reg := "Title,Portfolio,Type of Body,Website Address\nDept A,Finance,A,www.depta.gov.au\n"
	if err := os.WriteFile(in, []byte(reg), 0o644); err != nil {
		t.Fatal(err)
	}
	res := `[{"title":"Files List","url":"http://depta.gov.au/files"},{"title":"Other","url":"http://other.gov.au/x"}]`
	if err := os.WriteFile(fixture, []byte(res), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := parseArgs([]string{"-search.provider", "file", "-search.file", fixture, "-search.interval", "0", in, out}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "Title,Portfolio,Domain,ReportURL,ReportPageTitle\nDept A,Finance,depta.gov.au,http://depta.gov.au/files,Files List\n"
	if string(b) != want {
		t.Fatalf("output:\n%s\nwant:\n%s", b, want)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
