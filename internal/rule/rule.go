// Package rule defines the typed fee-rule model and the normalizer that
// turns reconstructed row text into it. Rules are created once per raw row
// and never mutated afterwards; selection only reads them.
package rule

// Basis says how a fee value is interpreted.
type Basis string

const (
	Percent Basis = "percent"
	Flat    Basis = "flat"
	// Actuals marks a cost determined outside the schedule, e.g. "as per
	// government valuation". It is flagged, never computed.
	Actuals Basis = "actuals"
)

// Category is the closed fee-category enum exposed to downstream consumers.
type Category string

const (
	Processing      Category = "processing"
	Legal           Category = "legal"
	Valuation       Category = "valuation"
	CRIB            Category = "crib"
	EarlySettlement Category = "early_settlement"
	Penalty         Category = "penalty"
	Other           Category = "other"
)

// Valid reports whether c is one of the closed enum values.
func (c Category) Valid() bool {
	switch c {
	case Processing, Legal, Valuation, CRIB, EarlySettlement, Penalty, Other:
		return true
	}
	return false
}

// Band is one amount range paired with its own basis and value. Bounds are
// inclusive; a nil bound is open. Bands of one rule need not be disjoint;
// overlap is resolved at selection time by specificity.
type Band struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Basis Basis    `json:"basis"`
	Value float64  `json:"value"`
}

// Contains reports whether amount falls inside the band's inclusive bounds.
func (b Band) Contains(amount float64) bool {
	if b.Min != nil && amount < *b.Min {
		return false
	}
	if b.Max != nil && amount > *b.Max {
		return false
	}
	return true
}

// RawRule carries the unnormalized fields of one reconstructed row.
type RawRule struct {
	Bank        string
	Product     string
	Category    string
	Description string
	Amount      string
	Notes       string
	Source      string
}

// Rule is the normalized, immutable form of a fee rule.
type Rule struct {
	Bank         string   `json:"bank"`
	Product      string   `json:"product"`
	Category     Category `json:"feeCategory"`
	Basis        Basis    `json:"basis"`
	Value        float64  `json:"value,omitempty"`
	Bands        []Band   `json:"bands,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	PerUnit      string   `json:"perUnit,omitempty"`
	CountDefault int      `json:"countDefault,omitempty"`
	Description  string   `json:"description,omitempty"`
	Source       string   `json:"source,omitempty"`
}
