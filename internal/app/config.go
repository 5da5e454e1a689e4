package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Config carries everything one CLI invocation needs. Flags populate it
// first; a config file may then fill whatever is still unset.
type Config struct {
	// SchedulePaths lists schedule source configs (YAML), one per bank
	// document.
	SchedulePaths []string

	// OutputDir receives one JSON rules export per bank.
	OutputDir string

	// ReportPath, when set, receives a PDF comparison for the scenario.
	ReportPath string

	// Scenario inputs. Selection runs only when Product is set and
	// Amount is positive.
	Product string
	Amount  float64

	// Exclude holds regex sources matched against rule descriptions to
	// drop promotional or stale lines. Patterns are data, not code.
	Exclude []string

	// Rounding selects the tie-breaking mode: "half-away" (default) or
	// "half-even".
	Rounding string

	// Tool overrides for the PDF text-layer and OCR extractors. Empty
	// means look up on PATH.
	PdfToText string
	Tesseract string

	Verbose bool
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if len(cfg.SchedulePaths) == 0 {
		return errors.New("config: at least one schedule config is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	if cfg.Amount < 0 {
		return errors.New("config: negative loan amount is not allowed")
	}
	switch cfg.Rounding {
	case "", "half-away", "half-even":
	default:
		return fmt.Errorf("config: unknown rounding mode %q", cfg.Rounding)
	}
	for _, p := range cfg.Exclude {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("config: exclude pattern %q: %w", p, err)
		}
	}
	return nil
}
