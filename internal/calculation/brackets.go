package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// TaxBracket represents one progressive tax bracket. A zero Max marks the
// unbounded top bracket.
type TaxBracket struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit
func (b TaxBracket) Unbounded() bool {
	return b.Max.IsZero()
}

// upperFor returns the top of the slice of amount falling in this bracket
func (b TaxBracket) upperFor(amount decimal.Decimal) decimal.Decimal {
	if b.Unbounded() {
		return amount
	}
	return decimal.Min(amount, b.Max)
}

// BracketTable is an ordered, contiguous schedule of tax brackets
type BracketTable []TaxBracket

// newBracketTable builds a table from the upper bounds of every bracket but
// the last and the rates of every bracket, lowest first.
func newBracketTable(bounds []int64, rates ...string) BracketTable {
	if len(rates) != len(bounds)+1 {
		panic(fmt.Sprintf("bracket table needs %d rates, got %d", len(bounds)+1, len(rates)))
	}
	table := make(BracketTable, 0, len(rates))
	lower := decimal.Zero
	for i, r := range rates {
		upper := decimal.Zero
		if i < len(bounds) {
			upper = decimal.NewFromInt(bounds[i])
		}
		table = append(table, TaxBracket{Min: lower, Max: upper, Rate: decimal.RequireFromString(r)})
		lower = upper
	}
	return table
}

// Tax sums rate*(min(amount, max)-min) over every bracket whose lower bound is below amount
func (bt BracketTable) Tax(amount decimal.Decimal) decimal.Decimal {
	var totalTax decimal.Decimal
	for _, bracket := range bt {
		if amount.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := bracket.upperFor(amount).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}
	return totalTax
}

// Breakdown returns the income and tax falling into each bracket touched by amount
func (bt BracketTable) Breakdown(amount decimal.Decimal) []domain.BracketSlice {
	var slices []domain.BracketSlice
	for _, bracket := range bt {
		if amount.LessThanOrEqual(bracket.Min) {
			break
		}
		income := bracket.upperFor(amount).Sub(bracket.Min)
		slices = append(slices, domain.BracketSlice{
			Rate:   bracket.Rate,
			Min:    bracket.Min,
			Max:    bracket.Max,
			Income: income,
			Tax:    income.Mul(bracket.Rate),
		})
	}
	return slices
}

// MarginalRate returns the rate applied to the next dollar above amount
func (bt BracketTable) MarginalRate(amount decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, bracket := range bt {
		if amount.LessThan(bracket.Min) {
			break
		}
		rate = bracket.Rate
	}
	return rate
}

// Validate checks that brackets start at zero, are contiguous and increasing,
// and end with an unbounded bracket.
func (bt BracketTable) Validate() error {
	if len(bt) == 0 {
		return fmt.Errorf("bracket table is empty")
	}
	if !bt[0].Min.IsZero() {
		return fmt.Errorf("first bracket must start at 0, starts at %s", bt[0].Min)
	}
	for i, b := range bt {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d rate %s out of range", i, b.Rate)
		}
		last := i == len(bt)-1
		if last {
			if !b.Unbounded() {
				return fmt.Errorf("top bracket must be unbounded, ends at %s", b.Max)
			}
			break
		}
		if b.Unbounded() || b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("bracket %d has invalid bounds [%s, %s)", i, b.Min, b.Max)
		}
		if !bt[i+1].Min.Equal(b.Max) {
			return fmt.Errorf("bracket %d ends at %s but bracket %d starts at %s", i, b.Max, i+1, bt[i+1].Min)
		}
	}
	return nil
}

// Clone returns an independent copy of the table
func (bt BracketTable) Clone() BracketTable {
	out := make(BracketTable, len(bt))
	copy(out, bt)
	return out
}
