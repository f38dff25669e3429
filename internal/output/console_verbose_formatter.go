package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

const reportWidth = 72

// ConsoleVerboseFormatter renders the long-form text report: federal return
// with its schedules, the residence state return and a combined summary.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.TaxCalculation) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.Repeat("=", reportWidth))
	fmt.Fprintf(&buf, "  TAX RETURN ESTIMATE: %s\n", result.Taxpayer)
	fmt.Fprintf(&buf, "  Tax year %d, %s\n", result.TaxYear, statusLabel(result.FilingStatus))
	fmt.Fprintln(&buf, strings.Repeat("=", reportWidth))

	writeFederal(&buf, result)
	writeState(&buf, result.State)
	writeSummary(&buf, result)

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(result) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	return buf.Bytes(), nil
}

func line(buf *bytes.Buffer, label string, amount decimal.Decimal) {
	fmt.Fprintf(buf, "  %-52s %16s\n", label, FormatCurrency(amount))
}

func rule(buf *bytes.Buffer, ch string) {
	fmt.Fprintln(buf, "  "+strings.Repeat(ch, reportWidth-4))
}

func heading(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  %s\n", title)
	rule(buf, "-")
}

func writeBrackets(buf *bytes.Buffer, slices []domain.BracketSlice) {
	if len(slices) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "  Tax Bracket Breakdown:")
	for _, s := range slices {
		upper := "and up"
		if !s.Max.IsZero() {
			upper = "to " + FormatCurrency(s.Max)
		}
		span := fmt.Sprintf("%s %s", FormatCurrency(s.Min), upper)
		fmt.Fprintf(buf, "    %-32s @%7s on %14s = %12s\n", span, FormatRate(s.Rate), FormatCurrency(s.Income), FormatCurrency(s.Tax))
	}
}

func writeFederal(buf *bytes.Buffer, result *domain.TaxCalculation) {
	f := result.Federal
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))
	fmt.Fprintf(buf, "  FORM 1040 - U.S. Individual Income Tax Return (Tax Year %d)\n", result.TaxYear)
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))

	heading(buf, "INCOME")
	line(buf, "Total Income (all sources)", f.GrossIncome)
	line(buf, "Adjustments to Income", f.Adjustments)
	line(buf, "Adjusted Gross Income (AGI)", f.AGI)

	if cl := result.CapitalLoss; !cl.CarryoverApplied.IsZero() {
		heading(buf, "CAPITAL LOSS CARRYOVER")
		line(buf, "Prior-Year Carryover Applied", cl.CarryoverApplied)
		line(buf, "Net Capital Gain (Loss) Reported", cl.NetCapitalGain)
		line(buf, "Carryover Remaining for Next Year", cl.RemainingCarryover)
	}

	writeScheduleE(buf, result.ScheduleE)

	if f.DeductionMethod == domain.DeductionItemized || !result.ScheduleA.Total.IsZero() {
		writeScheduleA(buf, result.ScheduleA, f)
	} else {
		heading(buf, "DEDUCTIONS (STANDARD)")
		line(buf, "Deduction Amount", f.DeductionAmount)
	}

	heading(buf, "TAX COMPUTATION")
	line(buf, "Taxable Income", f.TaxableIncome)
	if f.PreferentialIncome.IsPositive() {
		line(buf, "  Ordinary Income", f.OrdinaryIncome)
		line(buf, "  Qualified Dividends and Long-Term Gains", f.PreferentialIncome)
	}
	writeBrackets(buf, f.Brackets)
	fmt.Fprintln(buf)
	rule(buf, "-")
	line(buf, "Income Tax on Ordinary Income", f.OrdinaryTax)
	if f.PreferentialTax.IsPositive() {
		line(buf, "Tax on Preferential Income", f.PreferentialTax)
	}
	if f.SETax.IsPositive() {
		line(buf, "Self-Employment Tax", f.SETax)
	}
	if f.AdditionalMedicareTax.IsPositive() {
		line(buf, "Additional Medicare Tax (0.9%)", f.AdditionalMedicareTax)
	}
	if f.NIIT.IsPositive() {
		line(buf, "Net Investment Income Tax (3.8%)", f.NIIT)
	}
	line(buf, "Tax Before Credits", f.TaxBeforeCredits)

	heading(buf, "CREDITS")
	if f.ChildTaxCredit.IsPositive() {
		line(buf, "Child Tax Credit", f.ChildTaxCredit)
	}
	if other := f.Credits.Sub(f.ChildTaxCredit); other.IsPositive() {
		line(buf, "Other Credits", other)
	}
	line(buf, "Total Credits", f.Credits)
	rule(buf, "-")
	line(buf, "TAX AFTER CREDITS", f.TaxAfterCredits)

	writePayments(buf, "Federal", f.Withheld, f.EstimatedPayments, f.RefundOrOwed)
	fmt.Fprintf(buf, "  Effective rate %s, marginal rate %s\n", FormatRate(f.EffectiveRate), FormatRate(f.MarginalRate))
}

func writeScheduleE(buf *bytes.Buffer, e domain.ScheduleESummary) {
	if len(e.Properties) == 0 && e.TotalNet.IsZero() {
		return
	}
	heading(buf, "SCHEDULE E - Supplemental Income and Loss (Rental Real Estate)")
	for i, p := range e.Properties {
		fmt.Fprintf(buf, "  Property %d: %s\n", i+1, p.Address)
		line(buf, "  Gross Rents Received", p.GrossIncome)
		line(buf, "  Total Expenses", p.TotalExpenses)
		line(buf, "  Depreciation (27.5-yr straight-line)", p.Depreciation)
		line(buf, "  Net Rental Income (Loss)", p.NetIncome)
	}
	rule(buf, "-")
	line(buf, "TOTAL Net Rental Income (Loss)", e.TotalNet)
	if e.PALDisallowed.IsPositive() {
		line(buf, "Passive Loss Allowance", e.Allowance)
		line(buf, "Rental Loss Allowed", e.AllowedNet)
		line(buf, "Passive Loss Disallowed (carried forward)", e.PALDisallowed)
	}
}

func writeScheduleA(buf *bytes.Buffer, a domain.ScheduleASummary, f domain.FederalResult) {
	heading(buf, "SCHEDULE A - Itemized Deductions (Federal)")
	line(buf, "Medical and Dental (after 7.5% AGI floor)", a.Medical)
	line(buf, "State and Local Taxes (capped)", a.SALT)
	line(buf, "Mortgage Interest", a.MortgageInterest)
	if a.OtherInterest.IsPositive() {
		line(buf, "Investment Interest", a.OtherInterest)
	}
	line(buf, "Charitable Contributions", a.Contributions)
	if a.Other.IsPositive() {
		line(buf, "Other Deductions", a.Other)
	}
	rule(buf, "-")
	line(buf, "Total Itemized Deductions", f.ItemizedTotal)
	line(buf, "Standard Deduction", f.StandardDeduction)
	rule(buf, "-")
	if f.DeductionMethod == domain.DeductionItemized {
		line(buf, ">>> USING ITEMIZED DEDUCTIONS", f.DeductionAmount)
	} else {
		line(buf, ">>> USING STANDARD DEDUCTION", f.DeductionAmount)
	}
}

func writePayments(buf *bytes.Buffer, label string, withheld, estimated, refund decimal.Decimal) {
	heading(buf, "PAYMENTS")
	line(buf, label+" Tax Withheld", withheld)
	if estimated.IsPositive() {
		line(buf, "Estimated Tax Payments", estimated)
	}
	line(buf, "Total Payments", withheld.Add(estimated))
	fmt.Fprintln(buf, "  "+strings.Repeat("=", reportWidth-4))
	if refund.IsNegative() {
		line(buf, strings.ToUpper(label)+" TAX OWED", refund.Abs())
	} else {
		line(buf, strings.ToUpper(label)+" REFUND", refund)
	}
}

func writeState(buf *bytes.Buffer, outcome domain.StateOutcome) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))
	switch outcome.Status {
	case domain.StateNoIncomeTax, domain.StateUnsupported:
		if outcome.Status == domain.StateNoIncomeTax {
			fmt.Fprintf(buf, "  %s has no state income tax\n", outcome.Jurisdiction)
		} else {
			fmt.Fprintf(buf, "  %s income tax is not supported; federal figures only\n", outcome.Jurisdiction)
		}
		fmt.Fprintln(buf, strings.Repeat("=", reportWidth))
		if outcome.Payments().IsPositive() {
			heading(buf, "STATE PAYMENTS (NOT APPLIED TO A LIABILITY)")
			line(buf, outcome.Jurisdiction+" Withholding", outcome.Withheld)
			line(buf, outcome.Jurisdiction+" Estimated Payments", outcome.EstimatedPayments)
		}
		return
	}
	s := outcome.Result
	fmt.Fprintf(buf, "  %s Resident Income Tax Return\n", s.Name)
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))

	heading(buf, "INCOME")
	line(buf, s.Jurisdiction+" Gross Income", s.GrossIncome)
	line(buf, s.Jurisdiction+" Adjustments", s.Adjustments)
	line(buf, s.Jurisdiction+" Adjusted Gross Income", s.AGI)

	if s.DeductionMethod != domain.DeductionNone {
		heading(buf, fmt.Sprintf("DEDUCTIONS (%s)", strings.ToUpper(string(s.DeductionMethod))))
		line(buf, "Itemized Deductions", s.ItemizedTotal)
		line(buf, "Standard Deduction", s.StandardDeduction)
		line(buf, "Deduction Amount", s.DeductionAmount)
	}

	heading(buf, "TAX COMPUTATION")
	line(buf, s.Jurisdiction+" Taxable Income", s.TaxableIncome)
	writeBrackets(buf, s.Brackets)
	fmt.Fprintln(buf)
	rule(buf, "-")
	if s.MentalHealthServicesTax.IsPositive() {
		line(buf, "Base Tax", s.TaxBeforeCredits.Sub(s.MentalHealthServicesTax))
		line(buf, "Mental Health Services Tax (1% over $1M)", s.MentalHealthServicesTax)
	}
	line(buf, "Tax Before Credits", s.TaxBeforeCredits)

	if s.Credits.IsPositive() {
		heading(buf, "CREDITS")
		if s.ExemptionCredit.IsPositive() {
			line(buf, "Exemption Credit", s.ExemptionCredit)
		}
		if s.RentersCredit.IsPositive() {
			line(buf, "Renter's Credit", s.RentersCredit)
		}
		line(buf, "Total Credits", s.Credits)
	}
	rule(buf, "-")
	line(buf, s.Jurisdiction+" TAX AFTER CREDITS", s.TaxAfterCredits)
	if s.SDI.IsPositive() {
		line(buf, "State Disability Insurance (informational)", s.SDI)
	}

	writePayments(buf, s.Jurisdiction, s.Withheld, s.EstimatedPayments, s.RefundOrOwed)
	fmt.Fprintf(buf, "  Effective rate %s, marginal rate %s\n", FormatRate(s.EffectiveRate), FormatRate(s.MarginalRate))
}

func writeSummary(buf *bytes.Buffer, result *domain.TaxCalculation) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))
	fmt.Fprintln(buf, "  COMBINED SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("=", reportWidth))
	line(buf, "Federal Tax", result.Federal.TaxAfterCredits)
	if s := result.State.Result; s != nil {
		line(buf, s.Name+" Tax", s.TaxAfterCredits)
	}
	line(buf, "Total Tax", totalTax(result))
	total := result.TotalRefundOrOwed()
	if total.IsNegative() {
		line(buf, "TOTAL BALANCE DUE", total.Abs())
	} else {
		line(buf, "TOTAL REFUND", total)
	}
	for _, p := range result.UnappliedPayments {
		fmt.Fprintf(buf, "  Note: %s estimated payment of %s (%s) was not applied\n", p.Jurisdiction, FormatCurrency(p.Amount), p.Period)
	}
}

func totalTax(result *domain.TaxCalculation) decimal.Decimal {
	total := result.Federal.TaxAfterCredits
	if s := result.State.Result; s != nil {
		total = total.Add(s.TaxAfterCredits)
	}
	return total
}

func statusLabel(fs domain.FilingStatus) string {
	switch fs {
	case domain.Single:
		return "Single"
	case domain.MarriedFilingJointly:
		return "Married Filing Jointly"
	case domain.MarriedFilingSeparately:
		return "Married Filing Separately"
	case domain.HeadOfHousehold:
		return "Head of Household"
	}
	return string(fs)
}
