package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validate checks the input for values the engine refuses to compute with.
// Every problem found is reported, joined into one error.
func (in *TaxReturnInput) Validate() error {
	var errs []error
	add := func(field, reason string) {
		errs = append(errs, NewValidationError(field, reason))
	}
	nonNegative := func(field string, d decimal.Decimal) {
		if d.IsNegative() {
			add(field, "cannot be negative")
		}
	}

	if !in.Taxpayer.FilingStatus.Valid() {
		add("taxpayer.filing_status", fmt.Sprintf("has unknown value %q", in.Taxpayer.FilingStatus))
	}
	if in.Taxpayer.State() == "" {
		add("taxpayer.state", "is required")
	}
	if in.Taxpayer.Age < 0 || in.Taxpayer.SpouseAge < 0 {
		add("taxpayer.age", "cannot be negative")
	}

	inc := in.Income
	nonNegative("income.wages", inc.Wages)
	nonNegative("income.medicare_wages", inc.MedicareWages)
	nonNegative("income.social_security_wages", inc.SocialSecurityWages)
	nonNegative("income.interest_income", inc.InterestIncome)
	nonNegative("income.us_treasury_interest", inc.USTreasuryInterest)
	nonNegative("income.dividend_income", inc.DividendIncome)
	nonNegative("income.qualified_dividends", inc.QualifiedDividends)
	nonNegative("income.capital_gain_distributions", inc.CapitalGainDistributions)
	nonNegative("income.retirement_income", inc.RetirementIncome)
	if inc.QualifiedDividends.GreaterThan(inc.DividendIncome) {
		add("income.qualified_dividends", "cannot exceed dividend_income")
	}
	if inc.USTreasuryInterest.GreaterThan(inc.InterestIncome) {
		add("income.us_treasury_interest", "cannot exceed interest_income")
	}

	d := in.Deductions
	nonNegative("deductions.medical_expenses", d.MedicalExpenses)
	nonNegative("deductions.state_income_tax_paid", d.StateIncomeTaxPaid)
	nonNegative("deductions.real_estate_taxes", d.RealEstateTaxes)
	nonNegative("deductions.personal_property_taxes", d.PersonalPropertyTaxes)
	nonNegative("deductions.salt_paid", d.SALTPaid)
	nonNegative("deductions.mortgage_interest", d.MortgageInterestFull)
	nonNegative("deductions.mortgage_balance", d.MortgageBalance)
	nonNegative("deductions.contributions", d.Contributions)
	nonNegative("deductions.noncash_contributions", d.NoncashContributions)
	nonNegative("deductions.ca_misc_deductions", d.CAMiscDeductions)

	for i, p := range in.RentalProperties {
		prefix := fmt.Sprintf("rental_properties[%d]", i)
		if p.DaysRented < 0 || p.DaysRented > 365 {
			add(prefix+".days_rented", "must be between 0 and 365")
		}
		if p.PersonalUseDays < 0 {
			add(prefix+".personal_use_days", "cannot be negative")
		}
		if p.LandValue.GreaterThan(p.PurchasePrice) {
			add(prefix+".land_value", "cannot exceed purchase_price")
		}
		nonNegative(prefix+".purchase_price", p.PurchasePrice)
		nonNegative(prefix+".land_value", p.LandValue)
		nonNegative(prefix+".rental_income", p.RentalIncome)
		nonNegative(prefix+".insurance", p.Insurance)
		nonNegative(prefix+".property_tax", p.PropertyTax)
		nonNegative(prefix+".other_expenses", p.OtherExpenses)
	}

	nonNegative("capital_loss_carryover", in.CapitalLossCarryover)
	if in.Credits.NumQualifyingChildren < 0 {
		add("credits.num_qualifying_children", "cannot be negative")
	}
	nonNegative("withholding.federal", in.Withholding.Federal)
	for i, p := range in.EstimatedPayments {
		nonNegative(fmt.Sprintf("estimated_payments[%d].amount", i), p.Amount)
	}

	return errors.Join(errs...)
}
