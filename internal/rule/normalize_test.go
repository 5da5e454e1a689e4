package rule

import (
	"errors"
	"reflect"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func mustNormalize(t *testing.T, raw RawRule) *Rule {
	t.Helper()
	r, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize(%+v): %v", raw, err)
	}
	return r
}

func TestNormalize_FlatFee(t *testing.T) {
	r := mustNormalize(t, RawRule{
		Bank: "HNB", Product: "Housing Loan",
		Description: "Processing fee", Amount: "5,000/-",
	})
	if r.Basis != Flat || r.Value != 5000 {
		t.Fatalf("basis=%s value=%v, want flat 5000", r.Basis, r.Value)
	}
	if r.Bands != nil {
		t.Fatalf("single unconditional value must not produce bands: %+v", r.Bands)
	}
	if r.Category != Processing {
		t.Fatalf("category = %s, want processing", r.Category)
	}
}

func TestNormalize_Percent(t *testing.T) {
	r := mustNormalize(t, RawRule{Description: "Legal fees", Amount: "0.25%"})
	if r.Basis != Percent || r.Value != 0.25 {
		t.Fatalf("basis=%s value=%v, want percent 0.25", r.Basis, r.Value)
	}
}

func TestNormalize_PercentWinsOverMoneyInSameSegment(t *testing.T) {
	r := mustNormalize(t, RawRule{Description: "Legal fees", Amount: "1.0% Min 5,000/-"})
	if r.Basis != Percent || r.Value != 1.0 {
		t.Fatalf("basis=%s value=%v, want percent 1.0", r.Basis, r.Value)
	}
	if r.Min == nil || *r.Min != 5000 {
		t.Fatalf("min clamp = %v, want 5000", r.Min)
	}
}

func TestNormalize_MillionsSuffix(t *testing.T) {
	for _, amount := range []string{"2.5 Mn", "2.5 Million"} {
		r := mustNormalize(t, RawRule{Description: "Facility fee", Amount: amount})
		if r.Basis != Flat || r.Value != 2_500_000 {
			t.Fatalf("%q: basis=%s value=%v, want flat 2500000", amount, r.Basis, r.Value)
		}
	}
}

func TestNormalize_Actuals(t *testing.T) {
	for _, amount := range []string{"At actuals", "Actual cost", "As per the Government valuation"} {
		r := mustNormalize(t, RawRule{Description: "Stamp duty", Amount: amount})
		if r.Basis != Actuals {
			t.Fatalf("%q: basis = %s, want actuals", amount, r.Basis)
		}
		if r.Value != 0 {
			t.Fatalf("actuals rule must not carry a value, got %v", r.Value)
		}
	}
}

func TestNormalize_Clamps(t *testing.T) {
	r := mustNormalize(t, RawRule{
		Description: "Documentation charges",
		Amount:      "0.2% Min 10,000/- Max 400,000/-",
	})
	if r.Basis != Percent || r.Value != 0.2 {
		t.Fatalf("basis=%s value=%v", r.Basis, r.Value)
	}
	if r.Min == nil || *r.Min != 10_000 {
		t.Fatalf("min = %v, want 10000", r.Min)
	}
	if r.Max == nil || *r.Max != 400_000 {
		t.Fatalf("max = %v, want 400000", r.Max)
	}
}

func TestNormalize_CappedAtPhrase(t *testing.T) {
	r := mustNormalize(t, RawRule{Description: "Doc charges", Amount: "0.2% capped at 400,000/-"})
	if r.Max == nil || *r.Max != 400_000 {
		t.Fatalf("max = %v, want 400000", r.Max)
	}
}

func TestNormalize_PerUnit(t *testing.T) {
	r := mustNormalize(t, RawRule{Description: "Inspection fee", Amount: "Rs. 7,500/- per valuation"})
	if r.PerUnit != "valuation" || r.CountDefault != 1 {
		t.Fatalf("perUnit=%q countDefault=%d", r.PerUnit, r.CountDefault)
	}
	if r.Basis != Flat || r.Value != 7500 {
		t.Fatalf("basis=%s value=%v", r.Basis, r.Value)
	}
}

func TestNormalize_RangePhrasings(t *testing.T) {
	cases := []struct {
		amount   string
		min, max *float64
		value    float64
	}{
		{"Up to Rs. 1,000,000 10,000/-", nil, fptr(1_000_000), 10_000},
		{"Above Rs. 1,000,000 0.5%", fptr(1_000_001), nil, 0.5},
		{"Between Rs. 1,000,001 and Rs. 25,000,000 1.0%", fptr(1_000_001), fptr(25_000_000), 1.0},
		{"From Rs. 1,000,001 to Rs. 25,000,000 1.0%", fptr(1_000_001), fptr(25_000_000), 1.0},
		{"1,000,001 - 25,000,000 1.0%", fptr(1_000_001), fptr(25_000_000), 1.0},
	}
	for _, c := range cases {
		r := mustNormalize(t, RawRule{Description: "Legal fee", Amount: c.amount})
		if len(r.Bands) != 1 {
			t.Fatalf("%q: expected 1 band, got %+v", c.amount, r.Bands)
		}
		b := r.Bands[0]
		if !reflect.DeepEqual(b.Min, c.min) || !reflect.DeepEqual(b.Max, c.max) {
			t.Fatalf("%q: bounds min=%v max=%v", c.amount, deref(b.Min), deref(b.Max))
		}
		if b.Value != c.value {
			t.Fatalf("%q: value = %v, want %v", c.amount, b.Value, c.value)
		}
	}
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestNormalize_MultipleBandSegments(t *testing.T) {
	r := mustNormalize(t, RawRule{
		Description: "Documentation charges",
		Amount:      "Up to Rs. 1,000,000 10,000/-; Above Rs. 50,000,000 0.2%",
	})
	if len(r.Bands) != 2 {
		t.Fatalf("expected 2 bands, got %+v", r.Bands)
	}
	if r.Bands[0].Basis != Flat || r.Bands[0].Value != 10_000 {
		t.Fatalf("first band = %+v", r.Bands[0])
	}
	if r.Bands[1].Basis != Percent || r.Bands[1].Value != 0.2 {
		t.Fatalf("second band = %+v", r.Bands[1])
	}
	if r.Bands[1].Min == nil || *r.Bands[1].Min != 50_000_001 {
		t.Fatalf("'above' lower bound = %v", deref(r.Bands[1].Min))
	}
}

func TestNormalize_NoValueIsErrorNotGuess(t *testing.T) {
	// Digits are present (section number, tenure) but none is plausible
	// money, so the row must be rejected rather than given a made-up fee.
	_, err := Normalize(RawRule{Description: "11.10 Housing Loans up to 3 years"})
	var noval *NoValueFoundError
	if !errors.As(err, &noval) {
		t.Fatalf("expected *NoValueFoundError, got %v", err)
	}
}

func TestNormalize_TenureBoundIgnored(t *testing.T) {
	// "up to 3 years" must not become an amount band bound.
	r := mustNormalize(t, RawRule{Description: "Processing fee up to 3 years", Amount: "5,000/-"})
	if len(r.Bands) != 0 {
		t.Fatalf("tenure phrase produced bands: %+v", r.Bands)
	}
	if r.Value != 5000 {
		t.Fatalf("value = %v", r.Value)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := RawRule{
		Bank: "HNB", Product: "Housing Loan", Category: "legal",
		Description: "Legal fees", Amount: "Up to Rs. 1,000,000 1.25%; Above Rs. 1,000,000 1.0%",
	}
	a := mustNormalize(t, raw)
	b := mustNormalize(t, raw)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("normalization is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestNormalize_ExplicitCategoryWins(t *testing.T) {
	r := mustNormalize(t, RawRule{Category: "valuation", Description: "Processing of report", Amount: "950/- per report"})
	if r.Category != Valuation {
		t.Fatalf("category = %s, want valuation", r.Category)
	}
}
