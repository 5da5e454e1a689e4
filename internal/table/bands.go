package table

import "regexp"

// BandSpec declares one band sub-header to look for inside a window, e.g. a
// salary tier line that precedes several rows of per-column values.
type BandSpec struct {
	Key    string
	Detect *regexp.Regexp
}

// Defaults for the bounded look-ahead below a band header and the value
// count per column that ends collection early. Both come from the shape of
// the source tables: at most four wrapped lines per tier, three sub-columns.
const (
	DefaultLookahead = 4
	DefaultPerColumn = 3
)

// Aggregate is the accumulator for one banded window. Every declared band
// key is present in Values: a nil entry means the band header was never
// found, an empty column slice means the header matched but that column had
// no value. Nothing is ever defaulted to zero.
type Aggregate struct {
	Columns []ColumnSpec
	Values  map[string][][]Cell
}

// Found reports whether the band's header row was matched at all.
func (a *Aggregate) Found(key string) bool {
	return a.Values[key] != nil
}

// AggregateBands scans the window for each band's header row and collects
// the value cells that follow it, bucketed to the nearest column center.
// Collection is bounded: at most lookahead rows past the header, stopping
// early when another band header appears or once every column holds
// perColumn values.
func AggregateBands(window []Row, specs []ColumnSpec, bands []BandSpec, lookahead, perColumn int) *Aggregate {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if perColumn <= 0 {
		perColumn = DefaultPerColumn
	}
	agg := &Aggregate{Columns: specs, Values: make(map[string][][]Cell, len(bands))}
	for _, b := range bands {
		agg.Values[b.Key] = nil
	}
	for _, b := range bands {
		start := headerIndex(window, b.Detect)
		if start < 0 {
			continue
		}
		agg.Values[b.Key] = collect(window, start, specs, bands, lookahead, perColumn)
	}
	return agg
}

func headerIndex(window []Row, detect *regexp.Regexp) int {
	for i, r := range window {
		if detect.MatchString(r.Text) {
			return i
		}
	}
	return -1
}

// collect buckets value cells starting at the header row itself, since the
// first tier's values often share its line.
func collect(window []Row, start int, specs []ColumnSpec, bands []BandSpec, lookahead, perColumn int) [][]Cell {
	buckets := make([][]Cell, len(specs))
	for i := range buckets {
		buckets[i] = []Cell{}
	}
	end := start + 1 + lookahead
	if end > len(window) {
		end = len(window)
	}
	for i := start; i < end; i++ {
		if i != start && anyBandHeader(window[i], bands) {
			break
		}
		bucketRow(window[i], specs, buckets)
		if full(buckets, perColumn) {
			break
		}
	}
	for i := range buckets {
		sortCellsByX(buckets[i])
	}
	return buckets
}

func anyBandHeader(r Row, bands []BandSpec) bool {
	for _, b := range bands {
		if b.Detect.MatchString(r.Text) {
			return true
		}
	}
	return false
}

func full(buckets [][]Cell, perColumn int) bool {
	for _, b := range buckets {
		if len(b) < perColumn {
			return false
		}
	}
	return true
}
