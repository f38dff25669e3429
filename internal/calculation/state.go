package calculation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

// FederalJurisdiction is the normalized label for federal estimated payments
const FederalJurisdiction = "federal"

// NoIncomeTaxStates have no broad personal income tax
var NoIncomeTaxStates = map[string]bool{
	"AK": true, "FL": true, "NV": true, "NH": true, "SD": true,
	"TN": true, "TX": true, "WA": true, "WY": true,
}

// StateInput is what a state calculator receives: the return plus the
// federal figures states start from and the payments matched to the state.
type StateInput struct {
	Year              domain.TaxYear
	Profile           domain.TaxpayerProfile
	Income            domain.TaxableIncome
	Deductions        domain.ScheduleAData
	Credits           domain.TaxCredits
	FederalGross      decimal.Decimal
	FederalAGI        decimal.Decimal
	SEDeduction       decimal.Decimal
	FederalScheduleA  domain.ScheduleASummary
	Withheld          decimal.Decimal
	EstimatedPayments decimal.Decimal
}

// StateGross returns federal gross income less US Treasury interest, which states may not tax
func (in StateInput) StateGross() decimal.Decimal {
	return in.FederalGross.Sub(in.Income.USTreasuryInterest)
}

// StateAGI returns federal AGI less US Treasury interest
func (in StateInput) StateAGI() decimal.Decimal {
	return in.FederalAGI.Sub(in.Income.USTreasuryInterest)
}

// StateCalculator computes one jurisdiction's liability
type StateCalculator interface {
	// Jurisdiction returns the two letter state code.
	Jurisdiction() string
	// Name returns the display name, e.g. "California".
	Name() string
	Calculate(in StateInput) (*domain.StateResult, error)
}

// StateRegistry dispatches a return to the calculator for its residence state
type StateRegistry struct {
	calculators map[string]StateCalculator
	noTax       map[string]bool
}

// NewStateRegistry registers the California, New York, New Jersey and Pennsylvania calculators
func NewStateRegistry(rules *RuleBook) *StateRegistry {
	r := &StateRegistry{calculators: make(map[string]StateCalculator), noTax: NoIncomeTaxStates}
	r.Register(NewCaliforniaTaxCalculator(rules))
	r.Register(NewNewYorkTaxCalculator(rules))
	r.Register(NewNewJerseyTaxCalculator(rules))
	r.Register(NewPennsylvaniaTaxCalculator(rules))
	return r
}

// Register adds or replaces a calculator
func (r *StateRegistry) Register(c StateCalculator) {
	r.calculators[strings.ToUpper(c.Jurisdiction())] = c
}

// Lookup returns the calculator for a state code
func (r *StateRegistry) Lookup(code string) (StateCalculator, bool) {
	c, ok := r.calculators[strings.ToUpper(code)]
	return c, ok
}

// Supported lists the registered state codes in order
func (r *StateRegistry) Supported() []string {
	codes := make([]string, 0, len(r.calculators))
	for code := range r.calculators {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Dispatch computes the residence state. States without an income tax yield
// an outcome with no result; states without a calculator yield an
// unsupported outcome rather than an error. Either way the state payments
// are carried on the outcome.
func (r *StateRegistry) Dispatch(code string, in StateInput) (domain.StateOutcome, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	outcome := domain.StateOutcome{
		Jurisdiction:      code,
		Withheld:          dec.Cents(in.Withheld),
		EstimatedPayments: dec.Cents(in.EstimatedPayments),
	}
	if r.noTax[code] {
		outcome.Status = domain.StateNoIncomeTax
		return outcome, nil
	}
	calc, ok := r.calculators[code]
	if !ok {
		outcome.Status = domain.StateUnsupported
		return outcome, nil
	}
	result, err := calc.Calculate(in)
	if err != nil {
		return domain.StateOutcome{}, fmt.Errorf("%s calculation failed: %w", calc.Name(), err)
	}
	outcome.Status = domain.StateComputed
	outcome.Result = result
	return outcome, nil
}

var jurisdictionAliases = map[string]string{
	"federal":      FederalJurisdiction,
	"fed":          FederalJurisdiction,
	"irs":          FederalJurisdiction,
	"us":           FederalJurisdiction,
	"california":   "CA",
	"ftb":          "CA",
	"new york":     "NY",
	"new_york":     "NY",
	"new jersey":   "NJ",
	"new_jersey":   "NJ",
	"pennsylvania": "PA",
}

var usStateCodes = strings.Fields(`AL AK AZ AR CA CO CT DE DC FL GA HI ID IL IN IA KS KY LA ME MD MA MI MN MS
	MO MT NE NV NH NJ NM NY NC ND OH OK OR PA RI SC SD TN TX UT VT VA WA WV WI WY`)

// NormalizeJurisdiction maps a payment label to "federal" or a state code
func NormalizeJurisdiction(label string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	if j, ok := jurisdictionAliases[l]; ok {
		return j, nil
	}
	upper := strings.ToUpper(l)
	for _, code := range usStateCodes {
		if code == upper {
			return code, nil
		}
	}
	return "", domain.NewValidationError("estimated_payments.jurisdiction", fmt.Sprintf("has unknown value %q", label))
}

// MatchedPayments splits estimated payments by jurisdiction
type MatchedPayments struct {
	Federal   decimal.Decimal
	State     decimal.Decimal
	Unapplied []domain.EstimatedPayment
}

// MatchEstimatedPayments assigns each payment to federal or the residence
// state. Payments for any other state are returned as unapplied; unknown
// labels are an input validation error.
func MatchEstimatedPayments(payments []domain.EstimatedPayment, residence string) (MatchedPayments, error) {
	residence = strings.ToUpper(strings.TrimSpace(residence))
	var m MatchedPayments
	for i, p := range payments {
		j, err := NormalizeJurisdiction(p.Jurisdiction)
		if err != nil {
			return MatchedPayments{}, fmt.Errorf("estimated payment %d: %w", i, err)
		}
		switch j {
		case FederalJurisdiction:
			m.Federal = m.Federal.Add(p.Amount)
		case residence:
			m.State = m.State.Add(p.Amount)
		default:
			m.Unapplied = append(m.Unapplied, p)
		}
	}
	return m, nil
}

// settleState fills payments, refund and rates, then rounds every money field
func settleState(r *domain.StateResult, in StateInput) *domain.StateResult {
	r.Withheld = in.Withheld
	r.EstimatedPayments = in.EstimatedPayments
	r.RefundOrOwed = in.Withheld.Add(in.EstimatedPayments).Sub(r.TaxAfterCredits)
	r.EffectiveRate = effectiveRate(r.TaxAfterCredits, r.AGI)

	for _, f := range []*decimal.Decimal{
		&r.GrossIncome, &r.Adjustments, &r.AGI, &r.StandardDeduction, &r.ItemizedTotal,
		&r.DeductionAmount, &r.TaxableIncome, &r.TaxBeforeCredits, &r.MentalHealthServicesTax,
		&r.ExemptionCredit, &r.RentersCredit, &r.Credits, &r.TaxAfterCredits, &r.SDI,
		&r.Withheld, &r.EstimatedPayments, &r.RefundOrOwed,
	} {
		*f = dec.Cents(*f)
	}
	r.Brackets = roundSlices(r.Brackets)
	return r
}

// progressiveState runs the shared standard-vs-itemized and bracket steps
func progressiveState(rules *ProgressiveStateRules, name string, status domain.FilingStatus, gross, adjustments, itemized decimal.Decimal) (*domain.StateResult, error) {
	table, err := rules.BracketsFor(status)
	if err != nil {
		return nil, err
	}
	standard, err := rules.StandardDeductionFor(status)
	if err != nil {
		return nil, err
	}
	agi := gross.Sub(adjustments)
	choice := ChooseDeduction(itemized, standard)
	taxable := dec.NonNegative(agi.Sub(choice.Amount))
	tax := table.Tax(taxable)
	r := &domain.StateResult{
		Jurisdiction:      rules.Code,
		Name:              name,
		GrossIncome:       gross,
		Adjustments:       adjustments,
		AGI:               agi,
		StandardDeduction: standard,
		ItemizedTotal:     itemized,
		DeductionAmount:   choice.Amount,
		DeductionMethod:   choice.Method,
		TaxableIncome:     taxable,
		TaxBeforeCredits:  tax,
		TaxAfterCredits:   tax,
		Brackets:          table.Breakdown(taxable),
	}
	if taxable.IsPositive() {
		r.MarginalRate = table.MarginalRate(taxable)
	}
	return r, nil
}
