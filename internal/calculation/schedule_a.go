package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

var (
	medicalAGIFloorRate  = decimal.RequireFromString("0.075")
	saltCap              = decimal.NewFromInt(10000)
	saltCapSeparate      = decimal.NewFromInt(5000)
	mortgageDebtLimit    = decimal.NewFromInt(750000)
	mortgageDebtLimitOld = decimal.NewFromInt(1000000) // loans originated before 2018
	caMiscAGIFloorRate   = decimal.RequireFromString("0.02")
	caLimitationRate     = decimal.RequireFromString("0.06")
	caLimitationMaxShare = decimal.RequireFromString("0.80")
)

// DeductionChoice records the deduction actually used
type DeductionChoice struct {
	Standard decimal.Decimal
	Itemized decimal.Decimal
	Amount   decimal.Decimal
	Method   domain.DeductionMethod
}

// ChooseDeduction picks itemized only when it exceeds the standard deduction
func ChooseDeduction(itemized, standard decimal.Decimal) DeductionChoice {
	choice := DeductionChoice{Standard: standard, Itemized: itemized, Amount: standard, Method: domain.DeductionStandard}
	if itemized.GreaterThan(standard) {
		choice.Amount = itemized
		choice.Method = domain.DeductionItemized
	}
	return choice
}

// SALTCapFor returns the federal state and local tax cap
func SALTCapFor(status domain.FilingStatus) decimal.Decimal {
	if status.IsSeparate() {
		return saltCapSeparate
	}
	return saltCap
}

// MortgageDebtLimitFor returns the acquisition debt limit, halved for married filing separately
func MortgageDebtLimitFor(status domain.FilingStatus, originatedBefore2018 bool) decimal.Decimal {
	limit := mortgageDebtLimit
	if originatedBefore2018 {
		limit = mortgageDebtLimitOld
	}
	if status.IsSeparate() {
		limit = limit.Div(decimal.NewFromInt(2))
	}
	return limit
}

// DeductibleMortgageInterest prorates interest when the balance exceeds the debt limit.
// An unknown (zero) balance leaves the interest unprorated.
func DeductibleMortgageInterest(interest, balance, limit decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() || balance.LessThanOrEqual(limit) {
		return interest
	}
	return interest.Mul(limit).Div(balance)
}

// MedicalDeduction returns expenses above 7.5% of AGI
func MedicalDeduction(expenses, agi decimal.Decimal) decimal.Decimal {
	return dec.NonNegative(expenses.Sub(dec.NonNegative(agi).Mul(medicalAGIFloorRate)))
}

// FederalItemized computes the federal Schedule A categories and total
func FederalItemized(status domain.FilingStatus, data domain.ScheduleAData, agi decimal.Decimal) domain.ScheduleASummary {
	limit := MortgageDebtLimitFor(status, data.MortgageOriginatedPre2018)
	s := domain.ScheduleASummary{
		Medical:          MedicalDeduction(data.MedicalExpenses, agi),
		SALT:             decimal.Min(data.TotalSALT(), SALTCapFor(status)),
		MortgageInterest: DeductibleMortgageInterest(data.MortgageInterestFull.Add(data.MortgagePoints), data.MortgageBalance, limit),
		OtherInterest:    data.InvestmentInterest,
		Contributions:    data.Contributions.Add(data.NoncashContributions),
		Other:            data.CasualtyLosses.Add(data.OtherDeductions),
	}
	s.Total = s.Medical.Add(s.SALT).Add(s.MortgageInterest).Add(s.OtherInterest).Add(s.Contributions).Add(s.Other)
	return s
}

// CaliforniaItemized computes California itemized deductions before the
// high-income limitation. Property taxes are deductible without a cap; state
// income tax and the undifferentiated salt_paid amount are not. Mortgage
// interest uses the $1,000,000 debt limit and miscellaneous deductions are
// subject to a 2% AGI floor.
func CaliforniaItemized(status domain.FilingStatus, data domain.ScheduleAData, agi decimal.Decimal) domain.ScheduleASummary {
	limit := MortgageDebtLimitFor(status, true)
	misc := dec.NonNegative(data.CAMiscDeductions.Sub(dec.NonNegative(agi).Mul(caMiscAGIFloorRate)))
	s := domain.ScheduleASummary{
		Medical:          MedicalDeduction(data.MedicalExpenses, agi),
		SALT:             data.PropertyTaxes(),
		MortgageInterest: DeductibleMortgageInterest(data.MortgageInterestFull.Add(data.MortgagePoints), data.MortgageBalance, limit),
		OtherInterest:    data.InvestmentInterest,
		Contributions:    data.Contributions.Add(data.NoncashContributions),
		Other:            data.CasualtyLosses.Add(data.OtherDeductions).Add(misc),
	}
	s.Total = s.Medical.Add(s.SALT).Add(s.MortgageInterest).Add(s.OtherInterest).Add(s.Contributions).Add(s.Other)
	return s
}

// CaliforniaItemizedLimitation returns the reduction of itemized deductions for
// AGI above threshold: 6% of the excess, never more than 80% of the total.
func CaliforniaItemizedLimitation(total, agi, threshold decimal.Decimal) decimal.Decimal {
	excess := agi.Sub(threshold)
	if !excess.IsPositive() || !total.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(excess.Mul(caLimitationRate), total.Mul(caLimitationMaxShare))
}
