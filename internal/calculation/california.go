package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

var (
	caExemptionReductionPerStep = decimal.NewFromInt(6)
	caExemptionPhaseoutStep     = decimal.NewFromInt(2500)
)

// CaliforniaTaxCalculator handles California resident income tax calculations
type CaliforniaTaxCalculator struct {
	rules *RuleBook
}

// NewCaliforniaTaxCalculator creates a California calculator over a rule book
func NewCaliforniaTaxCalculator(rules *RuleBook) *CaliforniaTaxCalculator {
	return &CaliforniaTaxCalculator{rules: rules}
}

func (c *CaliforniaTaxCalculator) Jurisdiction() string { return "CA" }
func (c *CaliforniaTaxCalculator) Name() string         { return "California" }

// CaliforniaExemptionCredit returns the exemption credit reduced by $6 for each
// $2,500 (or part) of federal AGI above the phaseout threshold.
func CaliforniaExemptionCredit(perExemption decimal.Decimal, exemptions int, federalAGI, threshold decimal.Decimal) decimal.Decimal {
	base := perExemption.Mul(decimal.NewFromInt(int64(exemptions)))
	reduction := dec.StepsOver(federalAGI, threshold, caExemptionPhaseoutStep).Mul(caExemptionReductionPerStep)
	return dec.NonNegative(base.Sub(reduction))
}

// Calculate computes California tax. The deduction is the larger of the
// standard deduction and itemized deductions after the high-income
// limitation. Credits cannot reduce the Mental Health Services Tax.
func (c *CaliforniaTaxCalculator) Calculate(in StateInput) (*domain.StateResult, error) {
	cr, err := c.rules.CaliforniaFor(in.Year)
	if err != nil {
		return nil, err
	}
	status := in.Profile.FilingStatus
	threshold, err := lookup(cr.ItemizedLimitThreshold, status, "CA", in.Year, "itemized limitation threshold")
	if err != nil {
		return nil, err
	}
	phaseout, err := lookup(cr.ExemptionPhaseout, status, "CA", in.Year, "exemption phaseout")
	if err != nil {
		return nil, err
	}

	gross := in.StateGross()
	agi := gross.Sub(in.SEDeduction)
	items := CaliforniaItemized(status, in.Deductions, agi)
	limitation := CaliforniaItemizedLimitation(items.Total, in.FederalAGI, threshold)

	r, err := progressiveState(&cr.ProgressiveStateRules, c.Name(), status, gross, in.SEDeduction, items.Total.Sub(limitation))
	if err != nil {
		return nil, err
	}

	r.MentalHealthServicesTax = dec.NonNegative(r.TaxableIncome.Sub(cr.MHSTThreshold)).Mul(cr.MHSTRate)
	r.ExemptionCredit = CaliforniaExemptionCredit(cr.ExemptionCredit, in.Profile.PersonalExemptions(), in.FederalAGI, phaseout)
	if in.Profile.IsRenter {
		limit, err := lookup(cr.RentersAGILimit, status, "CA", in.Year, "renter's credit AGI limit")
		if err != nil {
			return nil, err
		}
		credit, err := lookup(cr.RentersCredit, status, "CA", in.Year, "renter's credit")
		if err != nil {
			return nil, err
		}
		if agi.LessThanOrEqual(limit) {
			r.RentersCredit = credit
		}
	}
	r.Credits = r.ExemptionCredit.Add(r.RentersCredit)
	r.TaxAfterCredits = dec.NonNegative(r.TaxBeforeCredits.Sub(r.Credits)).Add(r.MentalHealthServicesTax)
	r.TaxBeforeCredits = r.TaxBeforeCredits.Add(r.MentalHealthServicesTax)
	r.SDI = decimal.Min(in.Income.Wages, cr.SDIWageBase).Mul(cr.SDIRate)

	return settleState(r, in), nil
}
