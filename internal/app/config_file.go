package app

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally onto the flag names.
type FileConfig struct {
	Schedules []string `yaml:"schedules"`
	Output    string   `yaml:"output"`
	Report    string   `yaml:"report"`

	Scenario struct {
		Product string  `yaml:"product"`
		Amount  float64 `yaml:"amount"`
	} `yaml:"scenario"`

	Exclude  []string `yaml:"exclude"`
	Rounding string   `yaml:"rounding"`

	Tools struct {
		PdfToText string `yaml:"pdftotext"`
		Tesseract string `yaml:"tesseract"`
	} `yaml:"tools"`

	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset. Flags should already have been parsed; the
// file supplies defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.SchedulePaths) == 0 && len(fc.Schedules) > 0 {
		cfg.SchedulePaths = append([]string{}, fc.Schedules...)
	}
	if cfg.OutputDir == "" && fc.Output != "" {
		cfg.OutputDir = fc.Output
	}
	if cfg.ReportPath == "" && fc.Report != "" {
		cfg.ReportPath = fc.Report
	}
	if cfg.Product == "" && fc.Scenario.Product != "" {
		cfg.Product = fc.Scenario.Product
	}
	if cfg.Amount == 0 && fc.Scenario.Amount > 0 {
		cfg.Amount = fc.Scenario.Amount
	}
	if len(cfg.Exclude) == 0 && len(fc.Exclude) > 0 {
		cfg.Exclude = append([]string{}, fc.Exclude...)
	}
	if cfg.Rounding == "" && fc.Rounding != "" {
		cfg.Rounding = fc.Rounding
	}
	if cfg.PdfToText == "" && fc.Tools.PdfToText != "" {
		cfg.PdfToText = fc.Tools.PdfToText
	}
	if cfg.Tesseract == "" && fc.Tools.Tesseract != "" {
		cfg.Tesseract = fc.Tools.Tesseract
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
