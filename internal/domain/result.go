package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DeductionMethod records which deduction was used on a return
type DeductionMethod string

// Deduction methods
const (
	DeductionStandard DeductionMethod = "standard"
	DeductionItemized DeductionMethod = "itemized"
	DeductionNone     DeductionMethod = "none"
)

// BracketSlice is the portion of income taxed inside one bracket
type BracketSlice struct {
	Rate   decimal.Decimal `json:"rate"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"` // zero for the unbounded top bracket
	Income decimal.Decimal `json:"income"`
	Tax    decimal.Decimal `json:"tax"`
}

// FederalResult is the federal half of a TaxCalculation
type FederalResult struct {
	GrossIncome           decimal.Decimal `json:"gross_income"`
	Adjustments           decimal.Decimal `json:"adjustments"`
	AGI                   decimal.Decimal `json:"agi"`
	StandardDeduction     decimal.Decimal `json:"standard_deduction"`
	ItemizedTotal         decimal.Decimal `json:"itemized_total"`
	DeductionAmount       decimal.Decimal `json:"deduction_amount"`
	DeductionMethod       DeductionMethod `json:"deduction_method"`
	TaxableIncome         decimal.Decimal `json:"taxable_income"`
	OrdinaryIncome        decimal.Decimal `json:"ordinary_income"`
	PreferentialIncome    decimal.Decimal `json:"preferential_income"`
	OrdinaryTax           decimal.Decimal `json:"ordinary_tax"`
	PreferentialTax       decimal.Decimal `json:"preferential_tax"`
	SETax                 decimal.Decimal `json:"se_tax"`
	AdditionalMedicareTax decimal.Decimal `json:"additional_medicare_tax"`
	NIIT                  decimal.Decimal `json:"niit"`
	TaxBeforeCredits      decimal.Decimal `json:"tax_before_credits"`
	ChildTaxCredit        decimal.Decimal `json:"child_tax_credit"`
	Credits               decimal.Decimal `json:"credits"`
	TaxAfterCredits       decimal.Decimal `json:"tax_after_credits"`
	Withheld              decimal.Decimal `json:"withheld"`
	EstimatedPayments     decimal.Decimal `json:"estimated_payments"`
	RefundOrOwed          decimal.Decimal `json:"refund_or_owed"` // positive is a refund
	EffectiveRate         decimal.Decimal `json:"effective_rate"`
	MarginalRate          decimal.Decimal `json:"marginal_rate"`
	Brackets              []BracketSlice  `json:"brackets,omitempty"`
}

// StateResult is one state's computed liability
type StateResult struct {
	Jurisdiction            string          `json:"jurisdiction"`
	Name                    string          `json:"name"`
	GrossIncome             decimal.Decimal `json:"gross_income"`
	Adjustments             decimal.Decimal `json:"adjustments"`
	AGI                     decimal.Decimal `json:"agi"`
	StandardDeduction       decimal.Decimal `json:"standard_deduction"`
	ItemizedTotal           decimal.Decimal `json:"itemized_total"`
	DeductionAmount         decimal.Decimal `json:"deduction_amount"`
	DeductionMethod         DeductionMethod `json:"deduction_method"`
	TaxableIncome           decimal.Decimal `json:"taxable_income"`
	TaxBeforeCredits        decimal.Decimal `json:"tax_before_credits"`
	MentalHealthServicesTax decimal.Decimal `json:"mental_health_services_tax"`
	ExemptionCredit         decimal.Decimal `json:"exemption_credit"`
	RentersCredit           decimal.Decimal `json:"renters_credit"`
	Credits                 decimal.Decimal `json:"credits"`
	TaxAfterCredits         decimal.Decimal `json:"tax_after_credits"`
	SDI                     decimal.Decimal `json:"sdi"`
	Withheld                decimal.Decimal `json:"withheld"`
	EstimatedPayments       decimal.Decimal `json:"estimated_payments"`
	RefundOrOwed            decimal.Decimal `json:"refund_or_owed"`
	EffectiveRate           decimal.Decimal `json:"effective_rate"`
	MarginalRate            decimal.Decimal `json:"marginal_rate"`
	Brackets                []BracketSlice  `json:"brackets,omitempty"`
}

// StateStatus distinguishes computed, not applicable and unsupported states
type StateStatus string

// State outcome statuses
const (
	StateComputed    StateStatus = "computed"
	StateNoIncomeTax StateStatus = "no_income_tax"
	StateUnsupported StateStatus = "unsupported"
)

// StateOutcome is the result of state dispatch. Result is nil unless Status
// is StateComputed. Withheld and EstimatedPayments carry the state payments
// for every status, so a withholding-only outcome still reports them.
type StateOutcome struct {
	Status            StateStatus     `json:"status"`
	Jurisdiction      string          `json:"jurisdiction"`
	Withheld          decimal.Decimal `json:"withheld"`
	EstimatedPayments decimal.Decimal `json:"estimated_payments"`
	Result            *StateResult    `json:"result,omitempty"`
}

// Payments returns state withholding plus estimated payments
func (o StateOutcome) Payments() decimal.Decimal {
	return o.Withheld.Add(o.EstimatedPayments)
}

// Err returns ErrUnsupportedJurisdiction for an unsupported outcome and nil otherwise
func (o StateOutcome) Err() error {
	if o.Status == StateUnsupported {
		return &UnsupportedJurisdictionError{Jurisdiction: o.Jurisdiction}
	}
	return nil
}

// UnsupportedJurisdictionError names the state the engine cannot compute
type UnsupportedJurisdictionError struct {
	Jurisdiction string
}

func (e *UnsupportedJurisdictionError) Error() string {
	return ErrUnsupportedJurisdiction.Error() + ": " + e.Jurisdiction
}

func (e *UnsupportedJurisdictionError) Unwrap() error { return ErrUnsupportedJurisdiction }

// IsUnsupportedJurisdiction reports whether err marks an unsupported state
func IsUnsupportedJurisdiction(err error) bool {
	return errors.Is(err, ErrUnsupportedJurisdiction)
}

// RentalResult is the Schedule E line for one property
type RentalResult struct {
	Address       string          `json:"address"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Depreciation  decimal.Decimal `json:"depreciation"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// ScheduleESummary aggregates all rentals after the passive loss limitation
type ScheduleESummary struct {
	Properties     []RentalResult  `json:"properties"`
	TotalNet       decimal.Decimal `json:"total_net"`
	Allowance      decimal.Decimal `json:"allowance"`
	AllowedNet     decimal.Decimal `json:"allowed_net"`
	PALDisallowed  decimal.Decimal `json:"pal_disallowed"`
	PALCarryover   decimal.Decimal `json:"pal_carryover"`
	PreliminaryAGI decimal.Decimal `json:"preliminary_agi"`
}

// ScheduleASummary lists each itemized category after limits
type ScheduleASummary struct {
	Medical          decimal.Decimal `json:"medical"`
	SALT             decimal.Decimal `json:"salt"`
	MortgageInterest decimal.Decimal `json:"mortgage_interest"`
	OtherInterest    decimal.Decimal `json:"other_interest"`
	Contributions    decimal.Decimal `json:"contributions"`
	Other            decimal.Decimal `json:"other"`
	Total            decimal.Decimal `json:"total"`
}

// CapitalLossSummary reports how a prior-year carryover was absorbed
type CapitalLossSummary struct {
	CarryoverApplied   decimal.Decimal `json:"carryover_applied"`
	NetCapitalGain     decimal.Decimal `json:"net_capital_gain"`
	RemainingCarryover decimal.Decimal `json:"remaining_carryover"`
}

// TaxCalculation is the immutable result of one return
type TaxCalculation struct {
	ID                string             `json:"id"`
	ComputedAt        time.Time          `json:"computed_at"`
	TaxYear           TaxYear            `json:"tax_year"`
	FilingStatus      FilingStatus       `json:"filing_status"`
	Taxpayer          string             `json:"taxpayer"`
	Federal           FederalResult      `json:"federal"`
	State             StateOutcome       `json:"state"`
	ScheduleE         ScheduleESummary   `json:"schedule_e"`
	ScheduleA         ScheduleASummary   `json:"schedule_a"`
	CapitalLoss       CapitalLossSummary `json:"capital_loss"`
	UnappliedPayments []EstimatedPayment `json:"unapplied_payments,omitempty"`
}

// TotalRefundOrOwed sums federal and, when computed, state refund_or_owed
func (tc *TaxCalculation) TotalRefundOrOwed() decimal.Decimal {
	total := tc.Federal.RefundOrOwed
	if tc.State.Result != nil {
		total = total.Add(tc.State.Result.RefundOrOwed)
	}
	return total
}
