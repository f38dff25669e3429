package calculation

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// TAX TABLE SOURCES:
//
// 1. Federal: IRS Rev. Proc. 2023-34 (tax year 2024) and Rev. Proc. 2024-40 (tax year 2025)
// 2. California: FTB tax rate schedules and Form 540 instructions
// 3. New York: IT-201 rate schedules (unchanged between 2024 and 2025)
// 4. New Jersey: NJ-1040 rate schedules, filing threshold used as standard deduction
// 5. Pennsylvania: flat 3.07% personal income tax

// amounts builds a status-keyed map in single, MFJ, MFS, HOH order
func amounts(single, mfj, mfs, hoh int64) map[domain.FilingStatus]decimal.Decimal {
	return map[domain.FilingStatus]decimal.Decimal{
		domain.Single:                  decimal.NewFromInt(single),
		domain.MarriedFilingJointly:    decimal.NewFromInt(mfj),
		domain.MarriedFilingSeparately: decimal.NewFromInt(mfs),
		domain.HeadOfHousehold:         decimal.NewFromInt(hoh),
	}
}

func tables(single, mfj, mfs, hoh BracketTable) map[domain.FilingStatus]BracketTable {
	return map[domain.FilingStatus]BracketTable{
		domain.Single:                  single,
		domain.MarriedFilingJointly:    mfj,
		domain.MarriedFilingSeparately: mfs,
		domain.HeadOfHousehold:         hoh,
	}
}

var federalRates = []string{"0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37"}

func federalTable(bounds ...int64) BracketTable {
	return newBracketTable(bounds, federalRates...)
}

func federal2024() *FederalRules {
	return &FederalRules{
		Year: domain.TaxYear2024,
		Brackets: tables(
			federalTable(11600, 47150, 100525, 191950, 243725, 609350),
			federalTable(23200, 94300, 201050, 383900, 487450, 731200),
			federalTable(11600, 47150, 100525, 191950, 243725, 365600),
			federalTable(16550, 63100, 100500, 191950, 243700, 609350),
		),
		StandardDeduction:           amounts(14600, 29200, 14600, 21900),
		AdditionalDeduction:         amounts(1950, 1550, 1550, 1950),
		LTCGZeroCeiling:             amounts(47025, 94050, 47025, 63000),
		LTCGFifteenCeiling:          amounts(518900, 583750, 291850, 551350),
		AdditionalMedicareThreshold: amounts(200000, 250000, 125000, 200000),
		NIITThreshold:               amounts(200000, 250000, 125000, 200000),
		CTCPhaseoutThreshold:        amounts(200000, 400000, 200000, 200000),
		SSWageBase:                  decimal.NewFromInt(168600),
	}
}

func federal2025() *FederalRules {
	return &FederalRules{
		Year: domain.TaxYear2025,
		Brackets: tables(
			federalTable(11925, 48475, 103350, 197300, 250525, 626350),
			federalTable(23850, 96950, 206700, 394600, 501050, 751600),
			federalTable(11925, 48475, 103350, 197300, 250525, 375800),
			federalTable(17000, 64850, 103350, 197300, 250500, 626350),
		),
		StandardDeduction:           amounts(15000, 30000, 15000, 22500),
		AdditionalDeduction:         amounts(1950, 1550, 1550, 1950),
		LTCGZeroCeiling:             amounts(48350, 96700, 48350, 64750),
		LTCGFifteenCeiling:          amounts(533400, 600050, 300000, 566700),
		AdditionalMedicareThreshold: amounts(200000, 250000, 125000, 200000),
		NIITThreshold:               amounts(200000, 250000, 125000, 200000),
		CTCPhaseoutThreshold:        amounts(200000, 400000, 200000, 200000),
		SSWageBase:                  decimal.NewFromInt(176100),
	}
}

var californiaRates = []string{"0.01", "0.02", "0.04", "0.06", "0.08", "0.093", "0.103", "0.113", "0.123"}

func californiaTable(bounds ...int64) BracketTable {
	return newBracketTable(bounds, californiaRates...)
}

func californiaCommon(year domain.TaxYear, single, mfj, hoh BracketTable, stdSingle, stdJoint, credit int64, phaseout, limitation, rentersLimit map[domain.FilingStatus]decimal.Decimal) *CaliforniaRules {
	return &CaliforniaRules{
		ProgressiveStateRules: ProgressiveStateRules{
			Year:              year,
			Code:              "CA",
			Brackets:          tables(single, mfj, single, hoh),
			StandardDeduction: amounts(stdSingle, stdJoint, stdSingle, stdJoint),
		},
		ExemptionCredit:        decimal.NewFromInt(credit),
		ExemptionPhaseout:      phaseout,
		ItemizedLimitThreshold: limitation,
		RentersCredit:          amounts(60, 120, 60, 120),
		RentersAGILimit:        rentersLimit,
		MHSTThreshold:          decimal.NewFromInt(1000000),
		MHSTRate:               decimal.RequireFromString("0.01"),
		SDIRate:                decimal.RequireFromString("0.009"),
		SDIWageBase:            decimal.NewFromInt(153164),
	}
}

func california2024() *CaliforniaRules {
	return californiaCommon(domain.TaxYear2024,
		californiaTable(10412, 24684, 38959, 54081, 68350, 349137, 418961, 698271),
		californiaTable(20824, 49368, 77918, 108162, 136700, 698274, 837922, 1396542),
		californiaTable(20839, 49371, 63644, 78765, 93037, 474824, 569790, 949649),
		5363, 10726, 140,
		amounts(244860, 489719, 244860, 367290),
		amounts(244857, 489719, 244857, 367291),
		amounts(50746, 101492, 50746, 101492),
	)
}

func california2025() *CaliforniaRules {
	return californiaCommon(domain.TaxYear2025,
		californiaTable(10756, 25499, 40245, 55866, 70606, 360659, 432787, 721314),
		californiaTable(21512, 50998, 80490, 111732, 141212, 721318, 865574, 1442628),
		californiaTable(21512, 50998, 65744, 81364, 96107, 490493, 588593, 980987),
		5540, 11080, 144,
		amounts(252813, 505626, 252813, 379220),
		amounts(252813, 505626, 252813, 379220),
		amounts(52000, 104000, 52000, 104000),
	)
}

var newYorkRates = []string{"0.04", "0.045", "0.0525", "0.055", "0.06", "0.0685", "0.0965", "0.103", "0.109"}

func newYork(year domain.TaxYear, std map[domain.FilingStatus]decimal.Decimal) *ProgressiveStateRules {
	single := newBracketTable([]int64{8500, 11700, 13900, 80650, 215400, 1077550, 5000000, 25000000}, newYorkRates...)
	return &ProgressiveStateRules{
		Year: year,
		Code: "NY",
		Brackets: tables(
			single,
			newBracketTable([]int64{17150, 23600, 27900, 161550, 323200, 2155350, 5000000, 25000000}, newYorkRates...),
			single,
			newBracketTable([]int64{12800, 17650, 20900, 107650, 269300, 1616450, 5000000, 25000000}, newYorkRates...),
		),
		StandardDeduction: std,
	}
}

func newJersey(year domain.TaxYear) *ProgressiveStateRules {
	single := newBracketTable([]int64{20000, 35000, 40000, 75000, 500000, 1000000},
		"0.014", "0.0175", "0.035", "0.05525", "0.0637", "0.0897", "0.1075")
	joint := newBracketTable([]int64{20000, 50000, 70000, 80000, 150000, 500000, 1000000},
		"0.014", "0.0175", "0.0245", "0.035", "0.05525", "0.0637", "0.0897", "0.1075")
	return &ProgressiveStateRules{
		Year:              year,
		Code:              "NJ",
		Brackets:          tables(single, joint, single, joint),
		StandardDeduction: amounts(10000, 20000, 10000, 20000),
	}
}

func buildDefaultRuleBook() *RuleBook {
	return &RuleBook{
		Federal: map[domain.TaxYear]*FederalRules{
			domain.TaxYear2024: federal2024(),
			domain.TaxYear2025: federal2025(),
		},
		California: map[domain.TaxYear]*CaliforniaRules{
			domain.TaxYear2024: california2024(),
			domain.TaxYear2025: california2025(),
		},
		NewYork: map[domain.TaxYear]*ProgressiveStateRules{
			domain.TaxYear2024: newYork(domain.TaxYear2024, amounts(8000, 15800, 8000, 11200)),
			domain.TaxYear2025: newYork(domain.TaxYear2025, amounts(8000, 16050, 8000, 11200)),
		},
		NewJersey: map[domain.TaxYear]*ProgressiveStateRules{
			domain.TaxYear2024: newJersey(domain.TaxYear2024),
			domain.TaxYear2025: newJersey(domain.TaxYear2025),
		},
		Pennsylvania: map[domain.TaxYear]*FlatStateRules{
			domain.TaxYear2024: {Year: domain.TaxYear2024, Code: "PA", Rate: decimal.RequireFromString("0.0307")},
			domain.TaxYear2025: {Year: domain.TaxYear2025, Code: "PA", Rate: decimal.RequireFromString("0.0307")},
		},
	}
}

// DefaultRuleBook returns the built-in 2024 and 2025 tables. The same instance
// is shared process-wide and must not be mutated; use Clone to derive overrides.
var DefaultRuleBook = sync.OnceValue(buildDefaultRuleBook)
