package token

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Token is a single piece of positioned text extracted from a rendered
// document. Coordinates are in the producer's page space; the pipeline only
// relies on their relative ordering, never on absolute units.
type Token struct {
	Text string
	X    float64
	Y    float64
	Page int
}

// ErrEmptyStream indicates the input token stream is empty or carries no
// usable text. Callers degrade to an empty rule list rather than aborting.
var ErrEmptyStream = errors.New("token stream is empty or has no usable text")

// Clean normalizes extracted text: NFKC fold, non-breaking spaces to plain
// spaces, and whitespace runs collapsed to a single space.
func Clean(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Sanitize cleans every token's text and drops tokens that are empty after
// cleaning. The returned slice is freshly allocated; the input is not
// modified.
func Sanitize(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		text := Clean(t.Text)
		if text == "" {
			continue
		}
		t.Text = text
		out = append(out, t)
	}
	return out
}

// SortReading orders tokens by (page, y, x) in place. Clustering depends only
// on this ordering, so any arrival permutation produces the same rows.
func SortReading(tokens []Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
