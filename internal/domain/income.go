package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TaxableIncome is the normalized income record for one return.
// CapitalGains is the net of all gain categories; ShortTermCapitalGains is
// a component of it and LongTermCapitalGains is informational only.
type TaxableIncome struct {
	Wages                    decimal.Decimal `yaml:"wages" json:"wages"`
	MedicareWages            decimal.Decimal `yaml:"medicare_wages,omitempty" json:"medicare_wages"`
	SocialSecurityWages      decimal.Decimal `yaml:"social_security_wages,omitempty" json:"social_security_wages"`
	InterestIncome           decimal.Decimal `yaml:"interest_income" json:"interest_income"`
	USTreasuryInterest       decimal.Decimal `yaml:"us_treasury_interest,omitempty" json:"us_treasury_interest"`
	DividendIncome           decimal.Decimal `yaml:"dividend_income" json:"dividend_income"`
	QualifiedDividends       decimal.Decimal `yaml:"qualified_dividends" json:"qualified_dividends"`
	// CapitalGainDistributions is 1099-DIV box 2a when CapitalGains excludes
	// it. Never report the same distributions in both fields.
	CapitalGainDistributions decimal.Decimal `yaml:"capital_gain_distributions,omitempty" json:"capital_gain_distributions"`
	CapitalGains             decimal.Decimal `yaml:"capital_gains" json:"capital_gains"`
	ShortTermCapitalGains    decimal.Decimal `yaml:"short_term_capital_gains" json:"short_term_capital_gains"`
	LongTermCapitalGains     decimal.Decimal `yaml:"long_term_capital_gains" json:"long_term_capital_gains"`
	OtherIncome              decimal.Decimal `yaml:"other_income" json:"other_income"`
	SelfEmploymentIncome     decimal.Decimal `yaml:"self_employment_income" json:"self_employment_income"`
	RetirementIncome         decimal.Decimal `yaml:"retirement_income" json:"retirement_income"`
	RentalIncome             decimal.Decimal `yaml:"rental_income" json:"rental_income"`
}

// TotalCapitalGains returns net capital gains including 1099-DIV capital gain
// distributions, before any carryover is applied.
func (ti TaxableIncome) TotalCapitalGains() decimal.Decimal {
	return ti.CapitalGains.Add(ti.CapitalGainDistributions)
}

// MedicareBase returns Medicare wages when reported, else gross wages
func (ti TaxableIncome) MedicareBase() decimal.Decimal {
	if ti.MedicareWages.IsPositive() {
		return ti.MedicareWages
	}
	return ti.Wages
}

// SocialSecurityBase returns Social Security wages when reported, else gross wages
func (ti TaxableIncome) SocialSecurityBase() decimal.Decimal {
	if ti.SocialSecurityWages.IsPositive() {
		return ti.SocialSecurityWages
	}
	return ti.Wages
}

// RentalProperty describes one Schedule E rental
type RentalProperty struct {
	Address          string          `yaml:"address" json:"address"`
	PropertyType     string          `yaml:"property_type" json:"property_type"`
	PurchasePrice    decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	PurchaseDate     time.Time       `yaml:"purchase_date" json:"purchase_date"`
	LandValue        decimal.Decimal `yaml:"land_value" json:"land_value"`
	RentalIncome     decimal.Decimal `yaml:"rental_income" json:"rental_income"`
	Insurance        decimal.Decimal `yaml:"insurance" json:"insurance"`
	PropertyTax      decimal.Decimal `yaml:"property_tax" json:"property_tax"`
	MortgageInterest decimal.Decimal `yaml:"mortgage_interest,omitempty" json:"mortgage_interest"`
	OtherExpenses    decimal.Decimal `yaml:"other_expenses,omitempty" json:"other_expenses"`
	DaysRented       int             `yaml:"days_rented" json:"days_rented"`
	PersonalUseDays  int             `yaml:"personal_use_days" json:"personal_use_days"`
}

// UnmarshalYAML defaults DaysRented to a full year when the key is absent
func (rp *RentalProperty) UnmarshalYAML(value *yaml.Node) error {
	type alias RentalProperty
	aux := alias{DaysRented: 365}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*rp = RentalProperty(aux)
	return nil
}

// DepreciableBasis is purchase price less non-depreciable land
func (rp RentalProperty) DepreciableBasis() decimal.Decimal {
	return decimal.Max(decimal.Zero, rp.PurchasePrice.Sub(rp.LandValue))
}

// ScheduleAData carries the raw itemized deduction inputs
type ScheduleAData struct {
	MedicalExpenses           decimal.Decimal `yaml:"medical_expenses" json:"medical_expenses"`
	StateIncomeTaxPaid        decimal.Decimal `yaml:"state_income_tax_paid" json:"state_income_tax_paid"`
	RealEstateTaxes           decimal.Decimal `yaml:"real_estate_taxes" json:"real_estate_taxes"`
	PersonalPropertyTaxes     decimal.Decimal `yaml:"personal_property_taxes" json:"personal_property_taxes"`
	SALTPaid                  decimal.Decimal `yaml:"salt_paid,omitempty" json:"salt_paid"`
	MortgageInterestFull      decimal.Decimal `yaml:"mortgage_interest" json:"mortgage_interest"`
	MortgagePoints            decimal.Decimal `yaml:"mortgage_points,omitempty" json:"mortgage_points"`
	InvestmentInterest        decimal.Decimal `yaml:"investment_interest,omitempty" json:"investment_interest"`
	MortgageBalance           decimal.Decimal `yaml:"mortgage_balance" json:"mortgage_balance"`
	MortgageOriginatedPre2018 bool            `yaml:"mortgage_originated_before_2018,omitempty" json:"mortgage_originated_before_2018"`
	Contributions             decimal.Decimal `yaml:"contributions" json:"contributions"`
	NoncashContributions      decimal.Decimal `yaml:"noncash_contributions" json:"noncash_contributions"`
	CasualtyLosses            decimal.Decimal `yaml:"casualty_losses,omitempty" json:"casualty_losses"`
	OtherDeductions           decimal.Decimal `yaml:"other_deductions,omitempty" json:"other_deductions"`
	CAMiscDeductions          decimal.Decimal `yaml:"ca_misc_deductions,omitempty" json:"ca_misc_deductions"`
}

// TotalSALT sums every state and local tax component, including state income tax
func (sa ScheduleAData) TotalSALT() decimal.Decimal {
	return sa.SALTPaid.Add(sa.StateIncomeTaxPaid).Add(sa.RealEstateTaxes).Add(sa.PersonalPropertyTaxes)
}

// PropertyTaxes sums the SALT components other than state income tax
func (sa ScheduleAData) PropertyTaxes() decimal.Decimal {
	return sa.RealEstateTaxes.Add(sa.PersonalPropertyTaxes)
}

// TaxCredits holds credit inputs. ChildTaxCredit is recomputed by the engine.
type TaxCredits struct {
	NumQualifyingChildren int             `yaml:"num_qualifying_children" json:"num_qualifying_children"`
	ChildTaxCredit        decimal.Decimal `yaml:"-" json:"child_tax_credit"`
	OtherCredits          decimal.Decimal `yaml:"other_credits" json:"other_credits"`
}

// EstimatedPayment is one quarterly estimated tax payment
type EstimatedPayment struct {
	PaymentDate  time.Time       `yaml:"payment_date" json:"payment_date"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
	Period       string          `yaml:"period" json:"period"`
	Jurisdiction string          `yaml:"jurisdiction" json:"jurisdiction"`
}

// Withholding captures tax withheld at source
type Withholding struct {
	Federal decimal.Decimal            `yaml:"federal" json:"federal"`
	State   map[string]decimal.Decimal `yaml:"state,omitempty" json:"state,omitempty"`
	SDI     decimal.Decimal            `yaml:"sdi,omitempty" json:"sdi"`
}

// StateWithheld returns state withholding for a jurisdiction code
func (w Withholding) StateWithheld(code string) decimal.Decimal {
	for k, v := range w.State {
		if strings.EqualFold(strings.TrimSpace(k), code) {
			return v
		}
	}
	return decimal.Zero
}

// TaxReturnInput is everything the engine needs for one return
type TaxReturnInput struct {
	TaxYear              TaxYear            `yaml:"tax_year" json:"tax_year"`
	Taxpayer             TaxpayerProfile    `yaml:"taxpayer" json:"taxpayer"`
	Income               TaxableIncome      `yaml:"income" json:"income"`
	Deductions           ScheduleAData      `yaml:"deductions" json:"deductions"`
	RentalProperties     []RentalProperty   `yaml:"rental_properties,omitempty" json:"rental_properties,omitempty"`
	CapitalLossCarryover decimal.Decimal    `yaml:"capital_loss_carryover" json:"capital_loss_carryover"`
	Credits              TaxCredits         `yaml:"credits" json:"credits"`
	Withholding          Withholding        `yaml:"withholding" json:"withholding"`
	EstimatedPayments    []EstimatedPayment `yaml:"estimated_payments,omitempty" json:"estimated_payments,omitempty"`
}
