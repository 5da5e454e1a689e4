package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stubRunner(t *testing.T, wantName string, out string) *Runner {
	t.Helper()
	r := NewRunner()
	r.Exec = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != wantName {
			t.Fatalf("executed %q, want %q", name, wantName)
		}
		return []byte(out), nil
	}
	return r
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPDFTokens_ParsesStubOutput(t *testing.T) {
	out := "level\tpage_num\tpar_num\tblock_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t72\t100\t80\t12\t96\tProcessing\n"
	r := stubRunner(t, "pdftotext", out)
	tokens, err := r.PDFTokens(context.Background(), tempFile(t, "tariff.pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Text != "Processing" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestPDFTokens_MissingFileIsNoData(t *testing.T) {
	r := NewRunner()
	r.Exec = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("must not execute for a missing file")
		return nil, nil
	}
	_, err := r.PDFTokens(context.Background(), "/nonexistent/tariff.pdf")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestOCRTokens_ParsesStubOutput(t *testing.T) {
	out := "5\t1\t1\t1\t1\t1\t10\t20\t30\t12\t90\t5,000/-\n"
	r := stubRunner(t, "tesseract", out)
	tokens, err := r.OCRTokens(context.Background(), tempFile(t, "page.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Text != "5,000/-" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestStaticLines_OneRowPerLine(t *testing.T) {
	tokens := StaticLines([]string{"Processing fee 5,000/-", "Legal fees 1.0%"})
	if len(tokens) != 2 {
		t.Fatalf("tokens = %+v", tokens)
	}
	if tokens[0].Y == tokens[1].Y {
		t.Fatal("static lines must land on distinct rows")
	}
	if tokens[0].Page != 1 || tokens[1].Page != 1 {
		t.Fatalf("static lines share one page: %+v", tokens)
	}
}
