package table

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// ColumnSpec pairs a column label with the x-center used to bucket values.
type ColumnSpec struct {
	Label  string
	Center float64
}

var (
	percentCellRe = regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)
	moneyCellRe   = regexp.MustCompile(`(?i)^(rs\.?\s*)?(\d[\d,]*(?:\.\d+)?)\s*(mn|million)?(\s*/-)?$`)
)

// IsValueCell reports whether a cell's text looks like a column value: a
// percentage, or a money amount carrying one of the markers the source
// schedules use (Rs. prefix, thousands separators, Mn/Million suffix,
// trailing "/-", or four or more integer digits). Bare short numbers like
// section numbering never count.
func IsValueCell(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if percentCellRe.MatchString(t) {
		return true
	}
	m := moneyCellRe.FindStringSubmatch(t)
	if m == nil {
		return false
	}
	if m[1] != "" || m[3] != "" || m[4] != "" || strings.Contains(m[2], ",") {
		return true
	}
	intPart := m[2]
	if i := strings.IndexByte(intPart, '.'); i >= 0 {
		intPart = intPart[:i]
	}
	return len(intPart) >= 4
}

// Centers resolves one x-center per label. Each label is matched, whitespace
// flexibly, against the cells of the window; the first matching cell's x
// wins. If any label has no matching header cell, all centers fall back to
// even interpolation across the window's observed x range, which is how
// hand-authored tables without header tokens are handled.
func Centers(window []Row, labels []string) []ColumnSpec {
	specs := make([]ColumnSpec, len(labels))
	missing := false
	for i, label := range labels {
		re := labelPattern(label)
		x := math.NaN()
		for _, r := range window {
			for _, c := range r.Cells {
				if re.MatchString(c.Text) {
					x = c.X
					break
				}
			}
			if !math.IsNaN(x) {
				break
			}
		}
		if math.IsNaN(x) {
			missing = true
		}
		specs[i] = ColumnSpec{Label: label, Center: x}
	}
	if !missing {
		return specs
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, r := range window {
		for _, c := range r.Cells {
			if c.X < minX {
				minX = c.X
			}
			if c.X > maxX {
				maxX = c.X
			}
		}
	}
	if minX > maxX {
		minX, maxX = 0, 0
	}
	step := (maxX - minX) / float64(len(labels)+1)
	for i := range specs {
		specs[i].Center = minX + step*float64(i+1)
	}
	return specs
}

func labelPattern(label string) *regexp.Regexp {
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`))
}

// nearest returns the index of the spec whose center is closest to x.
// Ties go to the lower-indexed column.
func nearest(specs []ColumnSpec, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, s := range specs {
		d := math.Abs(x - s.Center)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Bucket assigns every value cell in the window to the column with the
// nearest center. Cells within each column come out ordered by x, which for
// single-row sections equals row order.
func Bucket(window []Row, specs []ColumnSpec) [][]Cell {
	buckets := make([][]Cell, len(specs))
	for _, r := range window {
		bucketRow(r, specs, buckets)
	}
	for i := range buckets {
		sortCellsByX(buckets[i])
	}
	return buckets
}

func bucketRow(r Row, specs []ColumnSpec, buckets [][]Cell) {
	for _, c := range r.Cells {
		if !IsValueCell(c.Text) {
			continue
		}
		i := nearest(specs, c.X)
		buckets[i] = append(buckets[i], c)
	}
}

func sortCellsByX(cells []Cell) {
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].X < cells[j].X })
}
