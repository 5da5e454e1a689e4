package table

import (
	"fmt"
	"regexp"
)

// MissingSectionError reports that a window's start heading never matched.
// It is a diagnostic, not a fatal condition: the section simply yields no
// rows and the rest of the document continues.
type MissingSectionError struct {
	Heading string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("section heading %q not found", e.Heading)
}

// Slice returns the rows from the first match of start (inclusive) up to the
// earliest following match of any stop pattern (exclusive), or to the end of
// the stream when no stop pattern matches. When start never matches it
// returns an empty window and a *MissingSectionError.
//
// Multiple calls over the same row slice are independent; none mutates rows.
func Slice(rows []Row, start *regexp.Regexp, stop []*regexp.Regexp) ([]Row, error) {
	begin := -1
	for i, r := range rows {
		if start.MatchString(r.Text) {
			begin = i
			break
		}
	}
	if begin < 0 {
		return nil, &MissingSectionError{Heading: start.String()}
	}
	end := len(rows)
	for i := begin + 1; i < len(rows); i++ {
		for _, re := range stop {
			if re.MatchString(rows[i].Text) {
				if i < end {
					end = i
				}
				break
			}
		}
		if end == i {
			break
		}
	}
	return rows[begin:end], nil
}
