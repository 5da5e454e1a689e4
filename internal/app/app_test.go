package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tariffscan/tariffscan/internal/schedule"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_EndToEndFromTSV(t *testing.T) {
	dir := t.TempDir()
	tsvPath := filepath.Join(dir, "tariff.tsv")
	writeFile(t, tsvPath,
		"level\tpage_num\tpar_num\tblock_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"+
			"5\t1\t1\t1\t1\t1\t0\t0\t200\t12\t95\tDocumentation Charges\n"+
			"5\t1\t1\t1\t2\t1\t0\t20\t200\t12\t95\tUp to Rs. 1,000,000 10,000/-\n"+
			"5\t1\t1\t1\t3\t1\t0\t40\t200\t12\t95\tAbove Rs. 1,000,000 0.5% Max 400,000/-\n")

	schedulePath := filepath.Join(dir, "testbank.yaml")
	writeFile(t, schedulePath, `
bank: Test Bank
product: Housing Loan
source: `+tsvPath+`
sections:
  - heading: 'Documentation Charges'
    category: processing
`)

	outDir := filepath.Join(dir, "out")
	cfg := Config{
		SchedulePaths: []string{schedulePath},
		OutputDir:     outDir,
		ReportPath:    filepath.Join(dir, "comparison.pdf"),
		Product:       "Housing Loan",
		Amount:        100_000_000,
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "test-bank.json"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	var export schedule.Export
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.Bank != "Test Bank" || len(export.Rules) != 2 {
		t.Fatalf("export = %+v", export)
	}

	if fi, err := os.Stat(cfg.ReportPath); err != nil || fi.Size() == 0 {
		t.Fatalf("comparison report not written: %v", err)
	}
}

func TestRun_StaticFallbackWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "testbank.yaml")
	writeFile(t, schedulePath, `
bank: Test Bank
product: Housing Loan
source: `+filepath.Join(dir, "does-not-exist.pdf")+`
static:
  - 'Processing Fees'
  - 'Processing fee 5,000/-'
sections:
  - heading: 'Processing Fees'
    category: processing
`)
	cfg := Config{SchedulePaths: []string{schedulePath}, OutputDir: filepath.Join(dir, "out")}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The OCR attempt will also fail on the missing file; the static lines
	// must still carry the run.
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "test-bank.json"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.Contains(string(data), `"value": 5000`) {
		t.Fatalf("static fallback rule missing: %s", data)
	}
}

func TestRun_NoRulesAnywhere(t *testing.T) {
	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "empty.yaml")
	writeFile(t, schedulePath, `
bank: Test Bank
product: Housing Loan
source: `+filepath.Join(dir, "missing.pdf")+`
sections:
  - heading: 'Anything'
`)
	cfg := Config{SchedulePaths: []string{schedulePath}, OutputDir: filepath.Join(dir, "out")}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrNoRules) {
		t.Fatalf("expected ErrNoRules, got %v", err)
	}
}

func TestAttempts_ByExtension(t *testing.T) {
	a := &App{runner: nil}
	names := func(cfg *schedule.SourceConfig) []string {
		var out []string
		for _, at := range a.attempts(cfg) {
			out = append(out, at.Name)
		}
		return out
	}
	got := names(&schedule.SourceConfig{Source: "doc.pdf", Static: []string{"x"}})
	want := []string{"pdf-text", "ocr", "static"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("pdf chain = %v, want %v", got, want)
	}
	if got := names(&schedule.SourceConfig{Source: "doc.tsv"}); strings.Join(got, ",") != "tsv" {
		t.Fatalf("tsv chain = %v", got)
	}
	if got := names(&schedule.SourceConfig{Source: "doc.html"}); strings.Join(got, ",") != "html" {
		t.Fatalf("html chain = %v", got)
	}
}
