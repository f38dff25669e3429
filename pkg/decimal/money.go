package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Format renders the amount as dollars with thousands separators, e.g. -$1,234.50
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if m.Decimal.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}

// Cents rounds a decimal to two places. Result records call this on every money field.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NonNegative floors d at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Ratio returns num/den, or zero when den is zero
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Clamp limits d to the closed interval [lo, hi]
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(d, lo), hi)
}

// StepsOver counts the whole or partial steps of size step by which amount exceeds threshold.
// It is used by phaseouts such as "$50 per $1,000 or fraction thereof".
func StepsOver(amount, threshold, step decimal.Decimal) decimal.Decimal {
	excess := amount.Sub(threshold)
	if !excess.IsPositive() || !step.IsPositive() {
		return decimal.Zero
	}
	return excess.Div(step).Ceil()
}

// Percent formats a rate such as 0.0765 as "7.65%"
func Percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}
