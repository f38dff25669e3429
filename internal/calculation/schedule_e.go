package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

// Passive activity loss special allowance for active rental participation
var (
	palSpecialAllowance = decimal.NewFromInt(25000)
	palPhaseoutStart    = decimal.NewFromInt(100000)
	palPhaseoutEnd      = decimal.NewFromInt(150000)
	palPhaseoutRate     = decimal.RequireFromString("0.5")
	daysPerRentalYear   = decimal.NewFromInt(365)
)

// PassiveLossAllowance returns the special allowance for rental losses at a
// preliminary AGI: $25,000 up to $100,000, reduced by half of the excess, and
// zero from $150,000.
func PassiveLossAllowance(preliminaryAGI decimal.Decimal) decimal.Decimal {
	switch {
	case preliminaryAGI.LessThanOrEqual(palPhaseoutStart):
		return palSpecialAllowance
	case preliminaryAGI.GreaterThanOrEqual(palPhaseoutEnd):
		return decimal.Zero
	default:
		reduction := preliminaryAGI.Sub(palPhaseoutStart).Mul(palPhaseoutRate)
		return dec.Clamp(palSpecialAllowance.Sub(reduction), decimal.Zero, palSpecialAllowance)
	}
}

// CalculateRentalProperty computes one property's Schedule E line. When the
// property had personal use, expenses and depreciation are prorated by
// days_rented/365. Depreciation and net income are rounded to cents.
func CalculateRentalProperty(year domain.TaxYear, p domain.RentalProperty) domain.RentalResult {
	depreciation := NewDepreciationSchedule(p.DepreciableBasis(), p.PurchaseDate).ForYear(int(year))
	expenses := p.PropertyTax.Add(p.Insurance).Add(p.MortgageInterest).Add(p.OtherExpenses)

	if p.PersonalUseDays > 0 {
		ratio := dec.Ratio(decimal.NewFromInt(int64(p.DaysRented)), daysPerRentalYear)
		depreciation = depreciation.Mul(ratio)
		expenses = expenses.Mul(ratio)
	}

	depreciation = dec.Cents(depreciation)
	expenses = dec.Cents(expenses)
	return domain.RentalResult{
		Address:       p.Address,
		GrossIncome:   p.RentalIncome,
		TotalExpenses: expenses,
		Depreciation:  depreciation,
		NetIncome:     dec.Cents(p.RentalIncome.Sub(expenses).Sub(depreciation)),
	}
}

// CalculateScheduleE aggregates every property with any pre-netted rental
// income and applies the passive activity loss limitation. preliminaryAGI is
// AGI computed without any rental income or loss.
func CalculateScheduleE(year domain.TaxYear, properties []domain.RentalProperty, otherRental, preliminaryAGI decimal.Decimal) domain.ScheduleESummary {
	summary := domain.ScheduleESummary{PreliminaryAGI: preliminaryAGI}
	total := otherRental
	for _, p := range properties {
		r := CalculateRentalProperty(year, p)
		summary.Properties = append(summary.Properties, r)
		total = total.Add(r.NetIncome)
	}
	summary.TotalNet = total
	summary.AllowedNet = total

	if total.IsNegative() {
		loss := total.Neg()
		summary.Allowance = PassiveLossAllowance(preliminaryAGI)
		allowed := decimal.Min(loss, summary.Allowance)
		summary.AllowedNet = allowed.Neg()
		summary.PALDisallowed = loss.Sub(allowed)
		summary.PALCarryover = summary.PALDisallowed
	}
	return summary
}
