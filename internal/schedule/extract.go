package schedule

import (
	"strings"

	"github.com/tariffscan/tariffscan/internal/rule"
	"github.com/tariffscan/tariffscan/internal/table"
	"github.com/tariffscan/tariffscan/internal/token"
)

// Extract reconstructs the configured sections from a token stream and
// normalizes them into typed rules. It never aborts a document: section
// failures and dropped rows accumulate as diagnostics returned alongside
// whatever rules were produced. The function holds no state between calls.
func Extract(tokens []token.Token, cfg *SourceConfig) ([]rule.Rule, []error) {
	usable := token.Sanitize(tokens)
	if len(usable) == 0 {
		return nil, []error{token.ErrEmptyStream}
	}
	rows := table.ClusterRows(usable, cfg.Tolerance)

	var rules []rule.Rule
	var diags []error
	for i := range cfg.Sections {
		sec := &cfg.Sections[i]
		window, err := table.Slice(rows, sec.start, sec.stop)
		if err != nil {
			diags = append(diags, err)
			continue
		}
		var secRules []rule.Rule
		var secDiags []error
		switch sec.Mode {
		case ModeColumns:
			secRules, secDiags = extractColumns(window, sec, cfg)
		case ModeBands:
			secRules, secDiags = extractBands(window, sec, cfg)
		default:
			secRules, secDiags = extractLines(window, sec, cfg)
		}
		rules = append(rules, secRules...)
		diags = append(diags, secDiags...)
	}
	return rules, diags
}

// extractLines feeds each window row's text through the normalizer. Rows
// without any digit are prose or headings and are skipped silently; rows
// that carry digits but no parseable value surface as diagnostics.
func extractLines(window []table.Row, sec *SectionConfig, cfg *SourceConfig) ([]rule.Rule, []error) {
	var rules []rule.Rule
	var diags []error
	for _, row := range window {
		if !strings.ContainsAny(row.Text, "0123456789") {
			continue
		}
		r, err := rule.Normalize(raw(cfg, sec, row.Text, ""))
		if err != nil {
			diags = append(diags, err)
			continue
		}
		rules = append(rules, *r)
	}
	return rules, diags
}

func extractColumns(window []table.Row, sec *SectionConfig, cfg *SourceConfig) ([]rule.Rule, []error) {
	specs := table.Centers(window, sec.Columns)
	buckets := table.Bucket(window, specs)

	var rules []rule.Rule
	var diags []error
	for i, spec := range specs {
		for _, cell := range buckets[i] {
			r, err := rule.Normalize(raw(cfg, sec, spec.Label, cell.Text))
			if err != nil {
				diags = append(diags, err)
				continue
			}
			rules = append(rules, *r)
		}
	}
	return rules, diags
}

func extractBands(window []table.Row, sec *SectionConfig, cfg *SourceConfig) ([]rule.Rule, []error) {
	specs := table.Centers(window, sec.Columns)
	bandSpecs := make([]table.BandSpec, len(sec.Bands))
	for i, b := range sec.Bands {
		bandSpecs[i] = table.BandSpec{Key: b.Label, Detect: b.detect}
	}
	agg := table.AggregateBands(window, specs, bandSpecs, sec.Lookahead, sec.PerColumn)

	var rules []rule.Rule
	var diags []error
	for _, band := range sec.Bands {
		if !agg.Found(band.Label) {
			// Header never matched: the band stays absent rather than
			// being fabricated from neighbouring rows.
			continue
		}
		perColumn := agg.Values[band.Label]
		for i, spec := range specs {
			for _, cell := range perColumn[i] {
				r, err := rule.Normalize(raw(cfg, sec, band.Label+" "+spec.Label, cell.Text))
				if err != nil {
					diags = append(diags, err)
					continue
				}
				if band.Min != nil || band.Max != nil {
					attachBand(r, band)
				}
				rules = append(rules, *r)
			}
		}
	}
	return rules, diags
}

// attachBand scopes a rule produced under a configured band header to that
// band's declared bounds, unless the row text already parsed its own bands.
func attachBand(r *rule.Rule, band BandConfig) {
	if len(r.Bands) > 0 {
		return
	}
	r.Bands = []rule.Band{{Min: band.Min, Max: band.Max, Basis: r.Basis, Value: r.Value}}
}

func raw(cfg *SourceConfig, sec *SectionConfig, description, amount string) rule.RawRule {
	return rule.RawRule{
		Bank:        cfg.Bank,
		Product:     cfg.Product,
		Category:    sec.Category,
		Description: description,
		Amount:      amount,
		Source:      cfg.Source,
	}
}
