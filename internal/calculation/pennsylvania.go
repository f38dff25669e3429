package calculation

import (
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

// PennsylvaniaTaxCalculator handles Pennsylvania state tax calculations
type PennsylvaniaTaxCalculator struct {
	rules *RuleBook
}

// NewPennsylvaniaTaxCalculator creates a new Pennsylvania tax calculator
func NewPennsylvaniaTaxCalculator(rules *RuleBook) *PennsylvaniaTaxCalculator {
	return &PennsylvaniaTaxCalculator{rules: rules}
}

func (c *PennsylvaniaTaxCalculator) Jurisdiction() string { return "PA" }
func (c *PennsylvaniaTaxCalculator) Name() string         { return "Pennsylvania" }

// Calculate applies the flat rate to gross income; there is no standard deduction
func (c *PennsylvaniaTaxCalculator) Calculate(in StateInput) (*domain.StateResult, error) {
	rules, err := c.rules.PennsylvaniaFor(in.Year)
	if err != nil {
		return nil, err
	}
	gross := in.StateGross()
	taxable := dec.NonNegative(gross)
	tax := taxable.Mul(rules.Rate)
	r := &domain.StateResult{
		Jurisdiction:     rules.Code,
		Name:             c.Name(),
		GrossIncome:      gross,
		AGI:              gross,
		DeductionMethod:  domain.DeductionNone,
		TaxableIncome:    taxable,
		TaxBeforeCredits: tax,
		TaxAfterCredits:  tax,
		MarginalRate:     rules.Rate,
	}
	if taxable.IsPositive() {
		r.Brackets = []domain.BracketSlice{{Rate: rules.Rate, Income: taxable, Tax: tax}}
	}
	return settleState(r, in), nil
}
