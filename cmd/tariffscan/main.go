package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tariffscan/tariffscan/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath string
		schedules  string
		outputDir  string
		reportPath string
		product    string
		amount     float64
		exclude    string
		rounding   string
		pdftotext  string
		tesseract  string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("TARIFFSCAN_CONFIG"), "Path to YAML config file")
	flag.StringVar(&schedules, "schedules", "", "Comma-separated schedule config paths, one per bank document")
	flag.StringVar(&outputDir, "output", "", "Directory to write per-bank JSON rule exports")
	flag.StringVar(&reportPath, "report", "", "Optional path to write a PDF comparison report")
	flag.StringVar(&product, "product", "", "Scenario product, e.g. 'Housing Loan'")
	flag.Float64Var(&amount, "amount", 0, "Scenario loan amount in rupees")
	flag.StringVar(&exclude, "exclude", os.Getenv("TARIFFSCAN_EXCLUDE"), "Comma-separated regexes; matching rule lines are dropped from selection")
	flag.StringVar(&rounding, "rounding", "", "Rounding mode: half-away (default) or half-even")
	flag.StringVar(&pdftotext, "tools.pdftotext", os.Getenv("PDFTOTEXT_BIN"), "Path to the pdftotext binary")
	flag.StringVar(&tesseract, "tools.tesseract", os.Getenv("TESSERACT_BIN"), "Path to the tesseract binary")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		SchedulePaths: splitList(schedules),
		OutputDir:     outputDir,
		ReportPath:    reportPath,
		Product:       product,
		Amount:        amount,
		Exclude:       splitList(exclude),
		Rounding:      rounding,
		PdfToText:     pdftotext,
		Tesseract:     tesseract,
		Verbose:       verbose,
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when nothing at all was extracted, 1 for
		// configuration or I/O failures.
		if errors.Is(err, app.ErrNoRules) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
