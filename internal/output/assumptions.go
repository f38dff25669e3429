package output

import (
	"fmt"

	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// DefaultAssumptions lists the computation conventions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Amounts are computed exactly and rounded to cents (half away from zero) only in the results",
	"Residential rental property depreciates straight-line over 27.5 years, mid-month convention",
	"Rental losses are limited by the $25,000 passive activity allowance; disallowed losses are reported, not carried into other years",
	"Capital loss carryover beyond the annual limit is reported for the next year only",
	"State taxable income excludes U.S. Treasury interest",
}

// GenerateAssumptions adds the return-specific assumptions to the defaults
func GenerateAssumptions(result *domain.TaxCalculation) []string {
	out := []string{fmt.Sprintf("Federal rule tables for tax year %d, %s", result.TaxYear, statusLabel(result.FilingStatus))}
	switch result.State.Status {
	case domain.StateComputed:
		out = append(out, fmt.Sprintf("%s resident for the full year", result.State.Result.Name))
	case domain.StateNoIncomeTax:
		out = append(out, fmt.Sprintf("%s resident; no state income tax", result.State.Jurisdiction))
	case domain.StateUnsupported:
		out = append(out, fmt.Sprintf("%s resident; state tax not estimated", result.State.Jurisdiction))
	}
	return append(out, DefaultAssumptions...)
}
