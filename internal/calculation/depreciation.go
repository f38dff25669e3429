package calculation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/pkg/dateutil"
)

var (
	residentialRecoveryYears = decimal.RequireFromString("27.5")
	halfMonthsPerYear        = decimal.NewFromInt(24)
)

// DepreciationSchedule computes straight-line depreciation for residential
// rental property over 27.5 years using the mid-month convention.
type DepreciationSchedule struct {
	Basis           decimal.Decimal
	PlacedInService time.Time
}

// NewDepreciationSchedule creates a schedule for a depreciable basis placed in service on a date
func NewDepreciationSchedule(basis decimal.Decimal, placed time.Time) DepreciationSchedule {
	return DepreciationSchedule{Basis: basis, PlacedInService: placed}
}

// AnnualAmount returns the full-year depreciation
func (ds DepreciationSchedule) AnnualAmount() decimal.Decimal {
	if !ds.Basis.IsPositive() {
		return decimal.Zero
	}
	return ds.Basis.Div(residentialRecoveryYears)
}

// MonthlyAmount returns one month of depreciation
func (ds DepreciationSchedule) MonthlyAmount() decimal.Decimal {
	return ds.AnnualAmount().Div(decimal.NewFromInt(12))
}

// uncapped returns the depreciation for year before the basis cap is applied
func (ds DepreciationSchedule) uncapped(year int) decimal.Decimal {
	halves := dateutil.HalfMonthsInService(ds.PlacedInService, year)
	if halves == 0 {
		return decimal.Zero
	}
	return ds.AnnualAmount().Mul(decimal.NewFromInt(int64(halves))).Div(halfMonthsPerYear)
}

// AccumulatedBefore returns the depreciation taken in all years before year
func (ds DepreciationSchedule) AccumulatedBefore(year int) decimal.Decimal {
	index := dateutil.RecoveryYearIndex(ds.PlacedInService, year)
	if index <= 1 {
		return decimal.Zero
	}
	first := ds.uncapped(ds.PlacedInService.Year())
	// every recovery year between the first and this one is a full year
	full := ds.AnnualAmount().Mul(decimal.NewFromInt(int64(index - 2)))
	return decimal.Min(ds.Basis, first.Add(full))
}

// ForYear returns the depreciation deductible in year. Nothing is taken
// before the placed-in-service year or once the basis is fully recovered.
// Without a placed-in-service date a full year is assumed.
func (ds DepreciationSchedule) ForYear(year int) decimal.Decimal {
	if ds.PlacedInService.IsZero() {
		return ds.AnnualAmount()
	}
	amount := ds.uncapped(year)
	if amount.IsZero() {
		return amount
	}
	remaining := ds.Basis.Sub(ds.AccumulatedBefore(year))
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(amount, remaining)
}
