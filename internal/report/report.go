// Package report renders a scenario comparison across banks as a simple
// PDF. It is a presentation layer only: all numbers arrive fully computed.
package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tariffscan/tariffscan/internal/selector"
)

// BankResult pairs a bank label with its selection outcome.
type BankResult struct {
	Bank   string
	Result selector.Result
}

var printer = message.NewPrinter(language.English)

// formatAmount renders a whole-unit currency amount with grouping
// separators, e.g. "LKR 1,250,000".
func formatAmount(v float64) string {
	return printer.Sprintf("LKR %d", int64(v))
}

// Write renders one scenario's comparison to a PDF file. Each bank gets a
// block of picked fee lines, actuals flags, and a total.
func Write(path string, sc selector.Scenario, results []BankResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Fee comparison", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Product: %s", sc.Product), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Loan amount: %s", formatAmount(sc.Amount)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, br := range results {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, br.Bank, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		if len(br.Result.Picked) == 0 {
			pdf.CellFormat(0, 5, "no matching rules", "", 1, "L", false, 0, "")
			pdf.Ln(3)
			continue
		}
		for _, p := range br.Result.Picked {
			label := string(p.Category)
			if p.Rule != nil && p.Rule.Description != "" {
				label = fmt.Sprintf("%s: %s", p.Category, p.Rule.Description)
			}
			value := formatAmount(p.Amount)
			if p.Actuals {
				value = "at actuals"
			}
			pdf.CellFormat(130, 5, truncate(label, 90), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, value, "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(130, 6, "Total (excl. actuals)", "T", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, formatAmount(br.Result.Total), "T", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(3)
	}

	return pdf.OutputFileAndClose(path)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
