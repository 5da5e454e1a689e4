package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/tariffscan/tariffscan/internal/token"
)

// Runner shells out to poppler and tesseract for the two real-world token
// producers. The commands are injectable so tests never execute anything.
type Runner struct {
	PdfToText string
	Tesseract string
	// Exec lets tests stub the actual command execution.
	Exec func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewRunner returns a Runner using the tools from PATH.
func NewRunner() *Runner {
	return &Runner{PdfToText: "pdftotext", Tesseract: "tesseract"}
}

func (r *Runner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Exec != nil {
		return r.Exec(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, errb.String())
	}
	return out.Bytes(), nil
}

// PDFTokens extracts the direct text layer of a PDF via `pdftotext -tsv`.
// A missing file maps to ErrNoData so a fallback chain can move on.
func (r *Runner) PDFTokens(ctx context.Context, pdfPath string) ([]token.Token, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, pdfPath)
	}
	out, err := r.run(ctx, r.PdfToText, "-tsv", pdfPath, "-")
	if err != nil {
		return nil, err
	}
	return ParseTSV(bytes.NewReader(out))
}

// OCRTokens runs tesseract over a rendered page image and parses its TSV
// output. PSM 4 treats the page as a single column of variable-sized text,
// which keeps table lines intact.
func (r *Runner) OCRTokens(ctx context.Context, imagePath string) ([]token.Token, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, imagePath)
	}
	out, err := r.run(ctx, r.Tesseract, imagePath, "stdout", "-l", "eng", "--psm", "4", "tsv")
	if err != nil {
		return nil, err
	}
	return ParseTSV(bytes.NewReader(out))
}
