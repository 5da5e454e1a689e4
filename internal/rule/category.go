package rule

import "strings"

// keywordTable maps schedule phrasing to the closed category enum. Order
// matters: the first group with a hit wins. Deployments with unusual label
// phrasing override the section category in source config instead of
// patching this table.
var keywordTable = []struct {
	category Category
	keywords []string
}{
	{Processing, []string{"processing", "handling"}},
	{Legal, []string{"legal", "notary", "mortgage", "title"}},
	{Valuation, []string{"valuation", "inspection"}},
	{CRIB, []string{"crib", "credit bureau"}},
	{EarlySettlement, []string{"early settlement", "prepayment", "premature"}},
	{Penalty, []string{"penalty", "late payment"}},
}

// MapCategory resolves free text to a fee category by keyword, defaulting to
// Other when nothing matches.
func MapCategory(text string) Category {
	t := strings.ToLower(text)
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.category
			}
		}
	}
	return Other
}
