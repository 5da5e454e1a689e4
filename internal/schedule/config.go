// Package schedule drives the generic extraction of one bank's fee schedule
// from a token stream, parameterized entirely by data: which section
// headings to window on, which columns and band sub-headers to expect, and
// which fee category each section carries. The reconstruction algorithms
// stay generic; only the configuration varies per source.
package schedule

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/tariffscan/tariffscan/internal/rule"
	"github.com/tariffscan/tariffscan/internal/table"
)

// Mode selects how a section's window turns into raw rules.
type Mode string

const (
	// ModeLines treats each window row's text as one candidate rule.
	ModeLines Mode = "lines"
	// ModeColumns buckets value cells into labeled columns.
	ModeColumns Mode = "columns"
	// ModeBands aggregates band sub-headers across columns.
	ModeBands Mode = "bands"
)

// BandConfig declares one band sub-header. Pattern overrides the default
// label-derived matcher; Min/Max, when set, become the emitted rule's
// amount band so the selector can resolve it against a scenario.
type BandConfig struct {
	Label   string   `yaml:"label"`
	Pattern string   `yaml:"pattern,omitempty"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`

	detect *regexp.Regexp
}

// SectionConfig is one windowed slice of the document.
type SectionConfig struct {
	Heading   string       `yaml:"heading"`
	Stop      []string     `yaml:"stop,omitempty"`
	Category  string       `yaml:"category,omitempty"`
	Mode      Mode         `yaml:"mode,omitempty"`
	Columns   []string     `yaml:"columns,omitempty"`
	Bands     []BandConfig `yaml:"bands,omitempty"`
	Lookahead int          `yaml:"lookahead,omitempty"`
	PerColumn int          `yaml:"perColumn,omitempty"`

	start *regexp.Regexp
	stop  []*regexp.Regexp
}

// SourceConfig describes one bank document.
type SourceConfig struct {
	Bank      string          `yaml:"bank"`
	Product   string          `yaml:"product"`
	Source    string          `yaml:"source,omitempty"`
	Tolerance float64         `yaml:"tolerance,omitempty"`
	Sections  []SectionConfig `yaml:"sections"`
	// Static holds fallback rule lines used when no token producer yields
	// anything for this document.
	Static []string `yaml:"static,omitempty"`
}

// Load reads and validates a source config file.
func Load(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults, and compiles every heading, stop
// and band pattern so extraction never compiles regexes per document.
func Parse(data []byte) (*SourceConfig, error) {
	var cfg SourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Bank) == "" {
		return nil, fmt.Errorf("source config: bank is required")
	}
	if strings.TrimSpace(cfg.Product) == "" {
		return nil, fmt.Errorf("source config: product is required")
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = table.DefaultTolerance
	}
	for i := range cfg.Sections {
		if err := cfg.Sections[i].compile(); err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
	}
	return &cfg, nil
}

func (s *SectionConfig) compile() error {
	if strings.TrimSpace(s.Heading) == "" {
		return fmt.Errorf("heading is required")
	}
	start, err := regexp.Compile(`(?i)` + s.Heading)
	if err != nil {
		return fmt.Errorf("heading: %w", err)
	}
	s.start = start
	for _, raw := range s.Stop {
		re, err := regexp.Compile(`(?i)` + raw)
		if err != nil {
			return fmt.Errorf("stop %q: %w", raw, err)
		}
		s.stop = append(s.stop, re)
	}
	if s.Mode == "" {
		switch {
		case len(s.Bands) > 0:
			s.Mode = ModeBands
		case len(s.Columns) > 0:
			s.Mode = ModeColumns
		default:
			s.Mode = ModeLines
		}
	}
	switch s.Mode {
	case ModeLines:
	case ModeColumns:
		if len(s.Columns) == 0 {
			return fmt.Errorf("columns mode needs column labels")
		}
	case ModeBands:
		if len(s.Columns) == 0 || len(s.Bands) == 0 {
			return fmt.Errorf("bands mode needs column labels and band declarations")
		}
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	if s.Category != "" && !rule.Category(s.Category).Valid() {
		return fmt.Errorf("unknown category %q", s.Category)
	}
	for i := range s.Bands {
		b := &s.Bands[i]
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("band %d: label is required", i)
		}
		pattern := b.Pattern
		if pattern == "" {
			words := strings.Fields(b.Label)
			for j, w := range words {
				words[j] = regexp.QuoteMeta(w)
			}
			pattern = strings.Join(words, `\s+`)
		}
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return fmt.Errorf("band %q: %w", b.Label, err)
		}
		b.detect = re
	}
	return nil
}
