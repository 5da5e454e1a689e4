package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/tariffscan/tariffscan/internal/token"
)

// ErrNoData is the explicit "this producer has nothing" result an attempt
// returns when its input is absent, e.g. a document without a text layer.
// The chain moves on to the next attempt instead of failing the run.
var ErrNoData = errors.New("source has no data")

// Attempt is one named extraction strategy in a fallback chain, e.g. direct
// text layer, then OCR, then static default rows.
type Attempt struct {
	Name string
	Load func(ctx context.Context) ([]token.Token, error)
}

// Resolve runs attempts in order and returns the first usable token stream
// along with the name of the attempt that produced it. An attempt is usable
// when it succeeds and yields at least one token with text after cleanup.
// When every attempt fails or comes back empty, the error wraps
// token.ErrEmptyStream so callers can degrade to an empty rule list.
func Resolve(ctx context.Context, attempts []Attempt) ([]token.Token, string, error) {
	var failures []error
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		tokens, err := a.Load(ctx)
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				failures = append(failures, fmt.Errorf("%s: %w", a.Name, err))
			}
			continue
		}
		if usable := token.Sanitize(tokens); len(usable) > 0 {
			return usable, a.Name, nil
		}
	}
	failures = append(failures, token.ErrEmptyStream)
	return nil, "", errors.Join(failures...)
}
