package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// NewJerseyTaxCalculator handles New Jersey gross income tax calculations.
// New Jersey taxes gross income with no federal adjustments and no itemizing.
type NewJerseyTaxCalculator struct {
	rules *RuleBook
}

// NewNewJerseyTaxCalculator creates a New Jersey calculator over a rule book
func NewNewJerseyTaxCalculator(rules *RuleBook) *NewJerseyTaxCalculator {
	return &NewJerseyTaxCalculator{rules: rules}
}

func (c *NewJerseyTaxCalculator) Jurisdiction() string { return "NJ" }
func (c *NewJerseyTaxCalculator) Name() string         { return "New Jersey" }

// Calculate computes New Jersey tax using its own standard deduction
func (c *NewJerseyTaxCalculator) Calculate(in StateInput) (*domain.StateResult, error) {
	rules, err := c.rules.NewJerseyFor(in.Year)
	if err != nil {
		return nil, err
	}
	r, err := progressiveState(rules, c.Name(), in.Profile.FilingStatus, in.StateGross(), decimal.Zero, decimal.Zero)
	if err != nil {
		return nil, err
	}
	return settleState(r, in), nil
}
