package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

var nyPropertyTaxCap = decimal.NewFromInt(10000)

// NewYorkTaxCalculator handles New York State resident income tax calculations
type NewYorkTaxCalculator struct {
	rules *RuleBook
}

// NewNewYorkTaxCalculator creates a New York calculator over a rule book
func NewNewYorkTaxCalculator(rules *RuleBook) *NewYorkTaxCalculator {
	return &NewYorkTaxCalculator{rules: rules}
}

func (c *NewYorkTaxCalculator) Jurisdiction() string { return "NY" }
func (c *NewYorkTaxCalculator) Name() string         { return "New York" }

// NewYorkItemized starts from the federal categories but drops state income
// tax and caps property taxes at $10,000
func NewYorkItemized(data domain.ScheduleAData, federal domain.ScheduleASummary) decimal.Decimal {
	return decimal.Min(data.PropertyTaxes(), nyPropertyTaxCap).
		Add(federal.Medical).
		Add(federal.MortgageInterest).
		Add(federal.OtherInterest).
		Add(federal.Contributions).
		Add(federal.Other)
}

// Calculate computes New York tax on federal AGI less US Treasury interest
func (c *NewYorkTaxCalculator) Calculate(in StateInput) (*domain.StateResult, error) {
	rules, err := c.rules.NewYorkFor(in.Year)
	if err != nil {
		return nil, err
	}
	r, err := progressiveState(rules, c.Name(), in.Profile.FilingStatus, in.StateGross(), in.SEDeduction,
		NewYorkItemized(in.Deductions, in.FederalScheduleA))
	if err != nil {
		return nil, err
	}
	return settleState(r, in), nil
}
