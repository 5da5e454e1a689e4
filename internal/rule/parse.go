package rule

import (
	"regexp"
	"strconv"
	"strings"
)

// Money and percentage token parsing for hand-authored schedule text.
// Amount phrasings observed across the source schedules include
// "Rs. 1,000,000/-", "10,000/-", "2.5 Mn", "0.5 Million" and "0.25%".

const numPat = `\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`

// moneyPat captures, per occurrence: currency prefix, number, millions
// suffix, and the "/-" amount marker the schedules append to flat fees.
const moneyPat = `(rs\.?\s*)?(` + numPat + `)(?:\s*(mn|million)\b)?(\s*/-)?`

var (
	percentRe = regexp.MustCompile(`(` + numPat + `)\s*%`)
	moneyRe   = regexp.MustCompile(`(?i)` + moneyPat)

	actualsRe = regexp.MustCompile(`(?i)\bat\s+actuals\b|\bactuals\b|\bactual\s+cost\b|\bas\s+per\s+(?:the\s+)?government\b`)

	minClampRe = regexp.MustCompile(`(?i)\bmin(?:imum)?\b(?:\s*(?:of|fee))?\s*[:.]?\s*` + moneyPat)
	maxClampRe = regexp.MustCompile(`(?i)\b(?:max(?:imum)?\b(?:\s*(?:of|fee))?|capped?(?:\s+at)?)\s*[:.]?\s*` + moneyPat)

	perUnitRe = regexp.MustCompile(`(?i)\bper\s+(inspection|valuation|document|visit|property|extract|report)\b`)

	upToRe     = regexp.MustCompile(`(?i)\b(?:up\s*to|upto|below|less\s+than|not\s+exceeding)\s+` + moneyPat)
	aboveRe    = regexp.MustCompile(`(?i)\b(?:above|over|more\s+than|exceeding|greater\s+than)\s+` + moneyPat)
	betweenRe  = regexp.MustCompile(`(?i)\b(?:between|from)\s+` + moneyPat + `\s*(?:and|to|&|—|–|‐|-)\s*` + moneyPat)
	bareSpanRe = regexp.MustCompile(`(?i)` + moneyPat + `\s*(?:—|–|‐|-{1,2}|to)\s*` + moneyPat)
)

func parseNumber(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

// moneyValue turns one moneyPat occurrence into a value, applying the
// millions multiplier when present.
func moneyValue(number, suffix string) float64 {
	v := parseNumber(number)
	if suffix != "" {
		v *= 1_000_000
	}
	return v
}

// plausibleMoney guards against reading section numbering ("11.10") or
// tenure counts ("up to 3 years") as fees. A number counts as money only
// when it carries a marker: currency prefix, thousands separator, Mn
// suffix, trailing "/-", or at least four integer digits.
func plausibleMoney(prefix, number, suffix, slash string) bool {
	if prefix != "" || suffix != "" || slash != "" {
		return true
	}
	if strings.Contains(number, ",") {
		return true
	}
	intPart := number
	if i := strings.IndexByte(intPart, '.'); i >= 0 {
		intPart = intPart[:i]
	}
	return len(intPart) >= 4
}

func firstPercent(text string) (float64, bool) {
	m := percentRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseNumber(m[1]), true
}

func firstMoney(text string) (float64, bool) {
	for _, m := range moneyRe.FindAllStringSubmatch(text, -1) {
		if plausibleMoney(m[1], m[2], m[3], m[4]) {
			return moneyValue(m[2], m[3]), true
		}
	}
	return 0, false
}

// clamps extracts explicit "Min …" / "Max …" / "capped at …" phrases. The
// keyword itself marks the number as money, so no plausibility check.
func clamps(text string) (min, max *float64) {
	if m := minClampRe.FindStringSubmatch(text); m != nil {
		v := moneyValue(m[2], m[3])
		min = &v
	}
	if m := maxClampRe.FindStringSubmatch(text); m != nil {
		v := moneyValue(m[2], m[3])
		max = &v
	}
	return min, max
}

func stripClamps(text string) string {
	text = minClampRe.ReplaceAllString(text, " ")
	return maxClampRe.ReplaceAllString(text, " ")
}

// parseSpan extracts one range phrasing from the segment and returns the
// bounds plus the segment with the matched phrase removed, so the bound
// numbers cannot be mistaken for the fee value.
//
// Phrasings, in precedence order:
//   - "between A and B" / "from A to B": closed range
//   - "up to X": max only
//   - "above X": half-open above X, so min is X+1
//   - bare "A - B": closed range
//
// Bounds that fail the money plausibility check are ignored, which keeps
// tenure phrases like "up to 3 years" from becoming amount bounds.
func parseSpan(seg string) (min, max *float64, rest string) {
	if loc := betweenRe.FindStringSubmatchIndex(seg); loc != nil {
		m := betweenRe.FindStringSubmatch(seg)
		if plausibleMoney(m[1], m[2], m[3], m[4]) && plausibleMoney(m[5], m[6], m[7], m[8]) {
			lo := moneyValue(m[2], m[3])
			hi := moneyValue(m[6], m[7])
			if lo > hi {
				lo, hi = hi, lo
			}
			return &lo, &hi, cut(seg, loc[0], loc[1])
		}
	}
	if loc := upToRe.FindStringSubmatchIndex(seg); loc != nil {
		m := upToRe.FindStringSubmatch(seg)
		if plausibleMoney(m[1], m[2], m[3], m[4]) {
			hi := moneyValue(m[2], m[3])
			return nil, &hi, cut(seg, loc[0], loc[1])
		}
	}
	if loc := aboveRe.FindStringSubmatchIndex(seg); loc != nil {
		m := aboveRe.FindStringSubmatch(seg)
		if plausibleMoney(m[1], m[2], m[3], m[4]) {
			lo := moneyValue(m[2], m[3]) + 1
			return &lo, nil, cut(seg, loc[0], loc[1])
		}
	}
	if loc := bareSpanRe.FindStringSubmatchIndex(seg); loc != nil {
		m := bareSpanRe.FindStringSubmatch(seg)
		if plausibleMoney(m[1], m[2], m[3], m[4]) && plausibleMoney(m[5], m[6], m[7], m[8]) {
			lo := moneyValue(m[2], m[3])
			hi := moneyValue(m[6], m[7])
			if lo > hi {
				lo, hi = hi, lo
			}
			return &lo, &hi, cut(seg, loc[0], loc[1])
		}
	}
	return nil, nil, seg
}

func cut(s string, from, to int) string {
	return s[:from] + " " + s[to:]
}

// parseSegment tries to read one band out of a text segment. Segments with
// no extractable basis/value yield ok=false and are dropped by the caller.
func parseSegment(seg string) (Band, bool) {
	min, max, rest := parseSpan(seg)
	rest = stripClamps(rest)
	if v, ok := firstPercent(rest); ok {
		return Band{Min: min, Max: max, Basis: Percent, Value: v}, true
	}
	if v, ok := firstMoney(rest); ok {
		return Band{Min: min, Max: max, Basis: Flat, Value: v}, true
	}
	return Band{}, false
}

var segmentSplitRe = regexp.MustCompile(`[;|\n]+`)

func splitSegments(text string) []string {
	parts := segmentSplitRe.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
