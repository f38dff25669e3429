package output

import (
	"bytes"
	"fmt"

	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.TaxCalculation) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "TAX RETURN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "%s (%d, %s)\n", result.Taxpayer, result.TaxYear, statusLabel(result.FilingStatus))
	fmt.Fprintln(&buf)

	f := result.Federal
	fmt.Fprintf(&buf, "Federal: AGI=%s Taxable=%s Tax=%s RefundOrOwed=%s\n",
		FormatCurrency(f.AGI),
		FormatCurrency(f.TaxableIncome),
		FormatCurrency(f.TaxAfterCredits),
		FormatCurrency(f.RefundOrOwed),
	)
	switch result.State.Status {
	case domain.StateComputed:
		s := result.State.Result
		fmt.Fprintf(&buf, "%s: AGI=%s Taxable=%s Tax=%s RefundOrOwed=%s\n",
			s.Jurisdiction,
			FormatCurrency(s.AGI),
			FormatCurrency(s.TaxableIncome),
			FormatCurrency(s.TaxAfterCredits),
			FormatCurrency(s.RefundOrOwed),
		)
	case domain.StateNoIncomeTax:
		fmt.Fprintf(&buf, "%s: no state income tax\n", result.State.Jurisdiction)
	default:
		fmt.Fprintf(&buf, "%s: not supported\n", result.State.Jurisdiction)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Total: Tax=%s RefundOrOwed=%s\n", FormatCurrency(totalTax(result)), FormatCurrency(result.TotalRefundOrOwed()))
	return buf.Bytes(), nil
}
