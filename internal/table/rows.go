package table

import (
	"math"
	"sort"
	"strings"

	"github.com/tariffscan/tariffscan/internal/token"
)

// Cell is one positioned text fragment inside a reconstructed row.
type Cell struct {
	X    float64
	Text string
}

// Row is a cluster of tokens sharing a vertical band on one page. Cells are
// ordered left to right and Text is their space-joined concatenation.
type Row struct {
	Page  int
	Y     float64
	Cells []Cell
	Text  string
}

// DefaultTolerance is the vertical clustering tolerance that matches the
// line pitch of the bank PDFs this was tuned against. Sources with a looser
// pitch override it in their config; too large a value silently merges
// adjacent lines.
const DefaultTolerance = 2.0

// ClusterRows groups tokens into visual lines. Tokens are sorted by
// (page, y, x) first, so the result is independent of arrival order. A token
// joins the current row when it is on the same page and within tolerance of
// the row's reference y (the y of the row's first token); otherwise the row
// is closed and a new one starts.
func ClusterRows(tokens []token.Token, tolerance float64) []Row {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	sorted := make([]token.Token, len(tokens))
	copy(sorted, tokens)
	token.SortReading(sorted)

	rows := make([]Row, 0, len(sorted)/4+1)
	var cells []Cell
	page := 0
	refY := math.Inf(-1)
	flush := func() {
		if len(cells) > 0 {
			rows = append(rows, newRow(page, refY, cells))
		}
		cells = nil
	}
	for _, t := range sorted {
		if len(cells) == 0 || t.Page != page || math.Abs(t.Y-refY) > tolerance {
			flush()
			page = t.Page
			refY = t.Y
		}
		cells = append(cells, Cell{X: t.X, Text: t.Text})
	}
	flush()
	return rows
}

func newRow(page int, y float64, cells []Cell) Row {
	ordered := make([]Cell, len(cells))
	copy(ordered, cells)
	// Stable sort keeps equal-x cells in cluster order.
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].X < ordered[j].X })
	parts := make([]string, 0, len(ordered))
	for _, c := range ordered {
		parts = append(parts, c.Text)
	}
	return Row{Page: page, Y: y, Cells: ordered, Text: strings.Join(parts, " ")}
}
