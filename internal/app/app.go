package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tariffscan/tariffscan/internal/report"
	"github.com/tariffscan/tariffscan/internal/rule"
	"github.com/tariffscan/tariffscan/internal/schedule"
	"github.com/tariffscan/tariffscan/internal/selector"
	"github.com/tariffscan/tariffscan/internal/source"
	"github.com/tariffscan/tariffscan/internal/token"
)

type App struct {
	cfg     Config
	runner  *source.Runner
	exclude []*regexp.Regexp
}

// ErrNoRules is returned when every schedule produced zero rules. Per the
// exit code policy this condition should result in a non-zero process exit.
var ErrNoRules = fmt.Errorf("no rules extracted from any schedule")

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	runner := source.NewRunner()
	if cfg.PdfToText != "" {
		runner.PdfToText = cfg.PdfToText
	}
	if cfg.Tesseract != "" {
		runner.Tesseract = cfg.Tesseract
	}
	a := &App{cfg: cfg, runner: runner}
	for _, p := range cfg.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		a.exclude = append(a.exclude, re)
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var results []report.BankResult
	total := 0
	for _, path := range a.cfg.SchedulePaths {
		cfg, err := schedule.Load(path)
		if err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}
		rules, err := a.runSchedule(ctx, cfg)
		if err != nil {
			// A dead source stops this bank, not the run.
			log.Warn().Err(err).Str("bank", cfg.Bank).Msg("schedule skipped")
			continue
		}
		total += len(rules)

		if a.scenarioSet() {
			sc := selector.Scenario{Bank: cfg.Bank, Product: a.cfg.Product, Amount: a.cfg.Amount}
			res := selector.Select(rules, sc, selector.Options{
				Exclude:  a.exclude,
				Rounding: a.roundingMode(),
			})
			for _, d := range res.Diagnostics {
				log.Warn().Err(d).Str("bank", cfg.Bank).Msg("selection diagnostic")
			}
			actuals := make([]string, len(res.ActualsFlags))
			for i, c := range res.ActualsFlags {
				actuals[i] = string(c)
			}
			log.Info().
				Str("bank", cfg.Bank).
				Float64("total", res.Total).
				Int("fees", len(res.Picked)).
				Strs("actuals", actuals).
				Msg("scenario total")
			results = append(results, report.BankResult{Bank: cfg.Bank, Result: res})
		}
	}

	if total == 0 {
		return ErrNoRules
	}

	if a.cfg.ReportPath != "" && len(results) > 0 {
		sc := selector.Scenario{Product: a.cfg.Product, Amount: a.cfg.Amount}
		if err := report.Write(a.cfg.ReportPath, sc, results); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("out", a.cfg.ReportPath).Msg("wrote comparison report")
	}
	return nil
}

// runSchedule resolves the best token source for one bank document,
// extracts its rules, and writes the JSON export.
func (a *App) runSchedule(ctx context.Context, cfg *schedule.SourceConfig) ([]rule.Rule, error) {
	tokens, name, err := source.Resolve(ctx, a.attempts(cfg))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("bank", cfg.Bank).Str("source", name).Int("tokens", len(tokens)).Msg("tokens resolved")

	rules, diags := schedule.Extract(tokens, cfg)
	for _, d := range diags {
		log.Warn().Err(d).Str("bank", cfg.Bank).Msg("extraction diagnostic")
	}

	data, err := schedule.MarshalRules(cfg.Bank, rules)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	out := filepath.Join(a.cfg.OutputDir, slug(cfg.Bank)+".json")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	log.Info().Str("bank", cfg.Bank).Int("rules", len(rules)).Str("out", out).Msg("wrote rules export")
	return rules, nil
}

// attempts builds the fallback chain for one document: direct text layer,
// then OCR, then the config's static lines. The chain stops at the first
// source that yields usable tokens.
func (a *App) attempts(cfg *schedule.SourceConfig) []source.Attempt {
	var chain []source.Attempt
	switch strings.ToLower(filepath.Ext(cfg.Source)) {
	case ".tsv":
		chain = append(chain, source.Attempt{Name: "tsv", Load: func(ctx context.Context) ([]token.Token, error) {
			return loadTSV(cfg.Source)
		}})
	case ".html", ".htm":
		chain = append(chain, source.Attempt{Name: "html", Load: func(ctx context.Context) ([]token.Token, error) {
			return loadHTML(cfg.Source)
		}})
	case ".pdf":
		chain = append(chain,
			source.Attempt{Name: "pdf-text", Load: func(ctx context.Context) ([]token.Token, error) {
				return a.runner.PDFTokens(ctx, cfg.Source)
			}},
			source.Attempt{Name: "ocr", Load: func(ctx context.Context) ([]token.Token, error) {
				return a.runner.OCRTokens(ctx, cfg.Source)
			}},
		)
	default:
		chain = append(chain,
			source.Attempt{Name: "ocr", Load: func(ctx context.Context) ([]token.Token, error) {
				return a.runner.OCRTokens(ctx, cfg.Source)
			}},
		)
	}
	if len(cfg.Static) > 0 {
		chain = append(chain, source.Attempt{Name: "static", Load: func(ctx context.Context) ([]token.Token, error) {
			return source.StaticLines(cfg.Static), nil
		}})
	}
	return chain
}

func (a *App) scenarioSet() bool {
	return a.cfg.Product != "" && a.cfg.Amount > 0
}

func (a *App) roundingMode() selector.RoundingMode {
	if a.cfg.Rounding == "half-even" {
		return selector.RoundHalfToEven
	}
	return selector.RoundHalfAwayFromZero
}

func loadTSV(path string) ([]token.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", source.ErrNoData, path)
		}
		return nil, err
	}
	defer f.Close()
	return source.ParseTSV(f)
}

func loadHTML(path string) ([]token.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", source.ErrNoData, path)
		}
		return nil, err
	}
	defer f.Close()
	return source.ParseHTMLTables(f)
}

// slug derives a filesystem-safe name from a bank label.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			if n := b.Len(); n > 0 && b.String()[n-1] != '-' {
				b.WriteByte('-')
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
