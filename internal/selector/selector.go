// Package selector resolves which normalized rules apply to a concrete loan
// scenario and computes the resulting monetary amount. It only reads the
// rule collection, so concurrent calls over the same rules are safe.
package selector

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tariffscan/tariffscan/internal/rule"
)

// Scenario is the caller's query: which bank and product, and the loan
// amount the banded rules are resolved against.
type Scenario struct {
	Bank    string
	Product string
	Amount  float64
}

// Picked records one applied rule: the band that won (nil when the rule has
// none) and the computed amount. Actuals rules carry no amount.
type Picked struct {
	Category rule.Category
	Rule     *rule.Rule
	Band     *rule.Band
	Amount   float64
	Actuals  bool
}

// Result is freshly computed per call and never cached.
type Result struct {
	Total        float64
	ActualsFlags []rule.Category
	Picked       []Picked
	Diagnostics  []error
}

// RoundingMode selects the convention for whole-unit rounding of computed
// amounts. The source schedules do not state one explicitly, so it is
// configurable rather than hardcoded.
type RoundingMode int

const (
	// RoundHalfAwayFromZero matches the behaviour observed in published
	// schedule examples and is the default.
	RoundHalfAwayFromZero RoundingMode = iota
	RoundHalfToEven
)

// Options configures filtering and rounding. Exclude patterns are data
// supplied by the caller (e.g. insurance riders, partial-release clauses),
// never hardcoded per bank.
type Options struct {
	Exclude  []*regexp.Regexp
	Rounding RoundingMode
}

// AmbiguousBandError records a specificity tie between two bands. The tie is
// resolved deterministically (lower lower-bound wins) but kept for audit.
type AmbiguousBandError struct {
	Description string
	Amount      float64
}

func (e *AmbiguousBandError) Error() string {
	return fmt.Sprintf("bands tie in specificity for amount %.0f on %q", e.Amount, e.Description)
}

// openPenalty widens the effective span of bands with an open bound so that
// closed ranges beat open-ended ones of the same width.
const openPenalty = 1.5

// Select filters the rules relevant to the scenario, resolves each rule's
// band by specificity, and sums the computed amounts. Actuals rules are
// flagged, never summed. A scenario matching zero rules yields an empty
// result, not an error; the caller decides whether that is a failure.
func Select(rules []rule.Rule, sc Scenario, opt Options) Result {
	var res Result
	seenActuals := map[rule.Category]bool{}
	for i := range rules {
		r := &rules[i]
		if !bankMatches(r.Bank, sc.Bank) || !productMatches(r.Product, sc.Product) {
			continue
		}
		if excluded(r, opt.Exclude) {
			continue
		}

		if r.Basis == rule.Actuals {
			if !seenActuals[r.Category] {
				seenActuals[r.Category] = true
				res.ActualsFlags = append(res.ActualsFlags, r.Category)
			}
			res.Picked = append(res.Picked, Picked{Category: r.Category, Rule: r, Actuals: true})
			continue
		}

		basis, value := r.Basis, r.Value
		var band *rule.Band
		if len(r.Bands) > 0 {
			chosen, diag := pickBand(r, sc.Amount)
			if diag != nil {
				res.Diagnostics = append(res.Diagnostics, diag)
			}
			if chosen == nil {
				continue
			}
			band = chosen
			basis, value = chosen.Basis, chosen.Value
		}

		amount := compute(basis, value, sc.Amount, opt.Rounding)
		amount = clampTo(amount, r.Min, r.Max)
		if r.PerUnit != "" {
			count := r.CountDefault
			if count == 0 {
				count = 1
			}
			amount *= float64(count)
		}
		res.Total += amount
		res.Picked = append(res.Picked, Picked{Category: r.Category, Rule: r, Band: band, Amount: amount})
	}
	return res
}

func bankMatches(ruleBank, scenarioBank string) bool {
	a := strings.ToLower(strings.TrimSpace(ruleBank))
	b := strings.ToLower(strings.TrimSpace(scenarioBank))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// productMatches compares products with spacing, case and separator
// differences removed, so "HomeLoan" equals "Home Loan".
func productMatches(ruleProduct, scenarioProduct string) bool {
	return normalizeProduct(ruleProduct) == normalizeProduct(scenarioProduct)
}

func normalizeProduct(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p) {
		switch r {
		case ' ', '-', '_', '/':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func excluded(r *rule.Rule, patterns []*regexp.Regexp) bool {
	text := r.Description + " " + r.Source
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// pickBand returns the band containing the amount with the highest
// specificity. Exact specificity ties resolve to the band with the lower
// (absent counts as -inf) lower bound, and the tie is reported for audit.
func pickBand(r *rule.Rule, amount float64) (*rule.Band, error) {
	var best *rule.Band
	bestScore := math.Inf(-1)
	var tie error
	for i := range r.Bands {
		b := &r.Bands[i]
		if !b.Contains(amount) {
			continue
		}
		score := specificity(b)
		switch {
		case score > bestScore:
			best, bestScore, tie = b, score, nil
		case score == bestScore && best != nil:
			tie = &AmbiguousBandError{Description: r.Description, Amount: amount}
			if lowerBound(b) < lowerBound(best) {
				best = b
			}
		}
	}
	return best, tie
}

// specificity is 1/(span*openPenalty+1): narrower, closed ranges win over
// wider or open-ended ones.
func specificity(b *rule.Band) float64 {
	span := upperBound(b) - lowerBound(b)
	penalty := 1.0
	if b.Min == nil || b.Max == nil {
		penalty = openPenalty
	}
	return 1 / (span*penalty + 1)
}

func lowerBound(b *rule.Band) float64 {
	if b.Min == nil {
		return math.Inf(-1)
	}
	return *b.Min
}

func upperBound(b *rule.Band) float64 {
	if b.Max == nil {
		return math.Inf(1)
	}
	return *b.Max
}

// compute rounds at the point of computation, before clamping; bounds in
// source data are whole currency units already.
func compute(basis rule.Basis, value, amount float64, mode RoundingMode) float64 {
	var raw float64
	switch basis {
	case rule.Percent:
		raw = amount * value / 100
	default:
		raw = value
	}
	return round(raw, mode)
}

func round(v float64, mode RoundingMode) float64 {
	if mode == RoundHalfToEven {
		return math.RoundToEven(v)
	}
	return math.Round(v)
}

func clampTo(v float64, min, max *float64) float64 {
	if min != nil && v < *min {
		v = *min
	}
	if max != nil && v > *max {
		v = *max
	}
	return v
}
