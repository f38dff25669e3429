package output

import (
	"strconv"

	"github.com/shopspring/decimal"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return dec.NewMoneyFromDecimal(amount).Format() }

// FormatRate formats a fractional rate such as 0.22 as a percentage.
func FormatRate(rate decimal.Decimal) string { return dec.Percent(rate) }

func intToString(i int) string { return strconv.Itoa(i) }
