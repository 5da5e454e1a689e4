package source

import "github.com/tariffscan/tariffscan/internal/token"

// StaticLines turns configured fallback lines into a synthetic token
// stream, one single-cell row per line. It backs the last attempt of a
// fallback chain when neither the text layer nor OCR produced anything.
func StaticLines(lines []string) []token.Token {
	out := make([]token.Token, 0, len(lines))
	for i, line := range lines {
		out = append(out, token.Token{
			Text: line,
			X:    0,
			Y:    float64(i) * htmlRowPitch,
			Page: 1,
		})
	}
	return out
}
