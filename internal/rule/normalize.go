package rule

import (
	"fmt"
	"strings"
)

// NoValueFoundError reports a row whose text implied a percentage or flat
// fee but carried no extractable number. The row is dropped; a value is
// never guessed.
type NoValueFoundError struct {
	Text string
}

func (e *NoValueFoundError) Error() string {
	t := e.Text
	if len(t) > 80 {
		t = t[:77] + "..."
	}
	return fmt.Sprintf("no numeric value found in %q", t)
}

// Normalize parses one raw row into zero or one typed rule. It is a pure
// function: the same input always yields the same rule, and the input is
// never modified.
//
// The concatenated category/description/amount/notes text drives every
// step: basis detection (actuals pattern, else percentage, else flat),
// value extraction, Min/Max clamps, per-unit multipliers, and band parsing
// over `;`/`|`/newline-separated segments.
func Normalize(raw RawRule) (*Rule, error) {
	full := joinFields(raw.Category, raw.Description, raw.Amount, raw.Notes)

	r := &Rule{
		Bank:        raw.Bank,
		Product:     raw.Product,
		Category:    resolveCategory(raw),
		Description: strings.TrimSpace(joinFields(raw.Description, raw.Amount)),
		Source:      raw.Source,
	}
	r.Min, r.Max = clamps(full)
	if m := perUnitRe.FindStringSubmatch(full); m != nil {
		r.PerUnit = strings.ToLower(m[1])
		r.CountDefault = 1
	}

	if actualsRe.MatchString(full) {
		r.Basis = Actuals
		return r, nil
	}

	var bands []Band
	for _, seg := range splitSegments(full) {
		if b, ok := parseSegment(seg); ok {
			bands = append(bands, b)
		}
	}
	if len(bands) == 0 {
		return nil, &NoValueFoundError{Text: full}
	}

	r.Basis = bands[0].Basis
	r.Value = bands[0].Value
	if len(bands) == 1 && bands[0].Min == nil && bands[0].Max == nil {
		// A single unconditional band is just the rule's own basis/value.
		return r, nil
	}
	r.Bands = bands
	return r, nil
}

func resolveCategory(raw RawRule) Category {
	if c := Category(raw.Category); c.Valid() {
		return c
	}
	return MapCategory(joinFields(raw.Category, raw.Description))
}

func joinFields(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}
