package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
)

// FEDERAL RULES THAT DO NOT VARY BY YEAR:
//
// 1. Self-employment: 92.35% of SE income is subject to 12.4% Social Security
//    (up to the wage base less W-2 Social Security wages) and 2.9% Medicare
// 2. Additional Medicare Tax: 0.9% of Medicare wages plus net SE earnings over the status threshold
// 3. NIIT: 3.8% of the lesser of net investment income and MAGI over the status threshold
// 4. Capital losses offset at most $3,000 ($1,500 MFS) of ordinary income
// 5. Child tax credit: $2,000 per child, less $50 per $1,000 (or part) of AGI over the threshold
var (
	seEarningsFactor       = decimal.RequireFromString("0.9235")
	seSocialSecurityRate   = decimal.RequireFromString("0.124")
	seMedicareRate         = decimal.RequireFromString("0.029")
	additionalMedicareRate = decimal.RequireFromString("0.009")
	niitRate               = decimal.RequireFromString("0.038")
	ltcgRate15             = decimal.RequireFromString("0.15")
	ltcgRate20             = decimal.RequireFromString("0.20")
	capitalLossLimit       = decimal.NewFromInt(3000)
	capitalLossLimitMFS    = decimal.NewFromInt(1500)
	ctcPerChild            = decimal.NewFromInt(2000)
	ctcReductionPerStep    = decimal.NewFromInt(50)
	ctcPhaseoutStep        = decimal.NewFromInt(1000)
	half                   = decimal.RequireFromString("0.5")
)

// FederalInput is the federal slice of a return, with payments already matched to the federal jurisdiction
type FederalInput struct {
	Year                 domain.TaxYear
	Profile              domain.TaxpayerProfile
	Income               domain.TaxableIncome
	Deductions           domain.ScheduleAData
	RentalProperties     []domain.RentalProperty
	CapitalLossCarryover decimal.Decimal
	Credits              domain.TaxCredits
	Withheld             decimal.Decimal
	EstimatedPayments    decimal.Decimal
}

// capitalStage holds the net capital gain after the prior-year carryover and loss limit
type capitalStage struct {
	NetCapitalGain  decimal.Decimal
	NetLongTermGain decimal.Decimal
	Summary         domain.CapitalLossSummary
}

// seStage holds self-employment tax, computed before AGI because half of it is an adjustment
type seStage struct {
	NetEarnings    decimal.Decimal
	SocialSecurity decimal.Decimal
	Medicare       decimal.Decimal
	Tax            decimal.Decimal
	Deduction      decimal.Decimal
}

type incomeStage struct {
	Capital        capitalStage
	SE             seStage
	ScheduleE      domain.ScheduleESummary
	NonRentalGross decimal.Decimal
	Gross          decimal.Decimal
}

type agiStage struct {
	incomeStage
	Adjustments decimal.Decimal
	AGI         decimal.Decimal
}

type deductionStage struct {
	agiStage
	ScheduleA domain.ScheduleASummary
	Choice    DeductionChoice
}

type taxableStage struct {
	deductionStage
	TaxableIncome decimal.Decimal
}

type rateStage struct {
	taxableStage
	OrdinaryIncome     decimal.Decimal
	PreferentialIncome decimal.Decimal
	OrdinaryTax        decimal.Decimal
	PreferentialTax    decimal.Decimal
	MarginalRate       decimal.Decimal
	Brackets           []domain.BracketSlice
}

type surtaxStage struct {
	rateStage
	AdditionalMedicareTax decimal.Decimal
	NetInvestmentIncome   decimal.Decimal
	NIIT                  decimal.Decimal
}

type creditStage struct {
	surtaxStage
	TaxBeforeCredits decimal.Decimal
	ChildTaxCredit   decimal.Decimal
	Credits          decimal.Decimal
	TaxAfterCredits  decimal.Decimal
}

// FederalComputation is the unrounded outcome of the federal pipeline
type FederalComputation struct {
	creditStage
	Withheld          decimal.Decimal
	EstimatedPayments decimal.Decimal
	RefundOrOwed      decimal.Decimal
}

// FederalTaxCalculator runs the federal pipeline against one year's rules
type FederalTaxCalculator struct {
	Rules *FederalRules
}

// NewFederalTaxCalculator creates a federal calculator for the given rules
func NewFederalTaxCalculator(rules *FederalRules) *FederalTaxCalculator {
	return &FederalTaxCalculator{Rules: rules}
}

// Calculate runs every federal stage in order
func (ftc *FederalTaxCalculator) Calculate(in FederalInput) (*FederalComputation, error) {
	status := in.Profile.FilingStatus

	se := ftc.selfEmploymentTax(in.Income)
	capital := applyCapitalLossCarryover(status, in.Income, in.CapitalLossCarryover)
	income := aggregateIncome(in, capital, se)
	agi := computeAGI(income)

	deduction, err := ftc.chooseDeduction(in, agi)
	if err != nil {
		return nil, err
	}
	taxable := taxableStage{deductionStage: deduction, TaxableIncome: dec.NonNegative(deduction.AGI.Sub(deduction.Choice.Amount))}

	rates, err := ftc.rateTax(status, in.Income, taxable)
	if err != nil {
		return nil, err
	}
	surtax, err := ftc.surtaxes(status, in.Income, rates)
	if err != nil {
		return nil, err
	}
	credits, err := ftc.applyCredits(in, surtax)
	if err != nil {
		return nil, err
	}

	paid := in.Withheld.Add(in.EstimatedPayments)
	return &FederalComputation{
		creditStage:       credits,
		Withheld:          in.Withheld,
		EstimatedPayments: in.EstimatedPayments,
		RefundOrOwed:      paid.Sub(credits.TaxAfterCredits),
	}, nil
}

// applyCapitalLossCarryover nets a prior-year loss against current gains and
// limits any resulting loss to the ordinary income offset cap. The loss beyond
// the cap is reported as remaining carryover only.
func applyCapitalLossCarryover(status domain.FilingStatus, income domain.TaxableIncome, carryover decimal.Decimal) capitalStage {
	carryover = dec.NonNegative(carryover)
	net := income.TotalCapitalGains().Sub(carryover)

	limit := capitalLossLimit
	if status.IsSeparate() {
		limit = capitalLossLimitMFS
	}
	remaining := decimal.Zero
	if net.LessThan(limit.Neg()) {
		remaining = limit.Neg().Sub(net)
		net = limit.Neg()
	}
	return capitalStage{
		NetCapitalGain:  net,
		NetLongTermGain: net.Sub(income.ShortTermCapitalGains),
		Summary: domain.CapitalLossSummary{
			CarryoverApplied:   dec.NonNegative(carryover.Sub(remaining)),
			NetCapitalGain:     net,
			RemainingCarryover: remaining,
		},
	}
}

func (ftc *FederalTaxCalculator) selfEmploymentTax(income domain.TaxableIncome) seStage {
	if !income.SelfEmploymentIncome.IsPositive() {
		return seStage{}
	}
	net := income.SelfEmploymentIncome.Mul(seEarningsFactor)
	ssRoom := dec.NonNegative(ftc.Rules.SSWageBase.Sub(income.SocialSecurityBase()))
	s := seStage{
		NetEarnings:    net,
		SocialSecurity: decimal.Min(net, ssRoom).Mul(seSocialSecurityRate),
		Medicare:       net.Mul(seMedicareRate),
	}
	s.Tax = s.SocialSecurity.Add(s.Medicare)
	s.Deduction = s.Tax.Mul(half)
	return s
}

func aggregateIncome(in FederalInput, capital capitalStage, se seStage) incomeStage {
	i := in.Income
	nonRental := i.Wages.
		Add(i.InterestIncome).
		Add(i.DividendIncome).
		Add(capital.NetCapitalGain).
		Add(i.OtherIncome).
		Add(i.SelfEmploymentIncome).
		Add(i.RetirementIncome)

	preliminaryAGI := nonRental.Sub(se.Deduction)
	schedE := CalculateScheduleE(in.Year, in.RentalProperties, i.RentalIncome, preliminaryAGI)

	return incomeStage{
		Capital:        capital,
		SE:             se,
		ScheduleE:      schedE,
		NonRentalGross: nonRental,
		Gross:          nonRental.Add(schedE.AllowedNet),
	}
}

func computeAGI(income incomeStage) agiStage {
	return agiStage{
		incomeStage: income,
		Adjustments: income.SE.Deduction,
		AGI:         income.Gross.Sub(income.SE.Deduction),
	}
}

func (ftc *FederalTaxCalculator) chooseDeduction(in FederalInput, agi agiStage) (deductionStage, error) {
	standard, err := ftc.Rules.StandardDeductionFor(in.Profile.FilingStatus, in.Profile.AddOnCount())
	if err != nil {
		return deductionStage{}, err
	}
	itemized := FederalItemized(in.Profile.FilingStatus, in.Deductions, agi.AGI)
	return deductionStage{
		agiStage:  agi,
		ScheduleA: itemized,
		Choice:    ChooseDeduction(itemized.Total, standard),
	}, nil
}

// PreferentialTax taxes preferential income stacked on top of ordinary income
// through the 0%, 15% and 20% bands.
func PreferentialTax(ordinary, preferential, zeroCeiling, fifteenCeiling decimal.Decimal) decimal.Decimal {
	if !preferential.IsPositive() {
		return decimal.Zero
	}
	top := ordinary.Add(preferential)
	at15 := dec.NonNegative(decimal.Min(top, fifteenCeiling).Sub(decimal.Max(ordinary, zeroCeiling)))
	at20 := dec.NonNegative(top.Sub(decimal.Max(ordinary, fifteenCeiling)))
	return at15.Mul(ltcgRate15).Add(at20.Mul(ltcgRate20))
}

func (ftc *FederalTaxCalculator) rateTax(status domain.FilingStatus, income domain.TaxableIncome, t taxableStage) (rateStage, error) {
	table, err := ftc.Rules.BracketsFor(status)
	if err != nil {
		return rateStage{}, err
	}

	// capital_gains already nets every category, so long_term_capital_gains is never added here
	longTerm := decimal.Min(t.Capital.NetLongTermGain, t.Capital.NetCapitalGain)
	preferential := income.QualifiedDividends.Add(dec.NonNegative(longTerm))
	preferential = decimal.Min(preferential, t.TaxableIncome)
	ordinary := dec.NonNegative(t.TaxableIncome.Sub(preferential))

	r := rateStage{
		taxableStage:       t,
		OrdinaryIncome:     ordinary,
		PreferentialIncome: preferential,
		OrdinaryTax:        table.Tax(ordinary),
		Brackets:           table.Breakdown(ordinary),
	}
	if t.TaxableIncome.IsPositive() {
		r.MarginalRate = table.MarginalRate(t.TaxableIncome)
	}
	if preferential.IsPositive() {
		zero, fifteen, err := ftc.Rules.LTCGThresholds(status)
		if err != nil {
			return rateStage{}, err
		}
		r.PreferentialTax = PreferentialTax(ordinary, preferential, zero, fifteen)
	}
	return r, nil
}

// NetInvestmentIncome sums investment income; capital losses reduce it but a
// rental loss does not, and the result is floored at zero.
func NetInvestmentIncome(income domain.TaxableIncome, netCapitalGain, rental decimal.Decimal) decimal.Decimal {
	nii := income.InterestIncome.
		Add(income.DividendIncome).
		Add(netCapitalGain).
		Add(dec.NonNegative(rental))
	return dec.NonNegative(nii)
}

// NIIT returns 3.8% of the lesser of NII and MAGI above threshold
func NIIT(nii, magi, threshold decimal.Decimal) decimal.Decimal {
	excess := dec.NonNegative(magi.Sub(threshold))
	return decimal.Min(nii, excess).Mul(niitRate)
}

// AdditionalMedicareTax returns 0.9% of Medicare wages plus net SE earnings above threshold
func AdditionalMedicareTax(medicareWages, netSE, threshold decimal.Decimal) decimal.Decimal {
	base := medicareWages.Add(dec.NonNegative(netSE))
	return dec.NonNegative(base.Sub(threshold)).Mul(additionalMedicareRate)
}

func (ftc *FederalTaxCalculator) surtaxes(status domain.FilingStatus, income domain.TaxableIncome, r rateStage) (surtaxStage, error) {
	medicareThreshold, err := ftc.Rules.AdditionalMedicareThresholdFor(status)
	if err != nil {
		return surtaxStage{}, err
	}
	niitThreshold, err := ftc.Rules.NIITThresholdFor(status)
	if err != nil {
		return surtaxStage{}, err
	}
	nii := NetInvestmentIncome(income, r.Capital.NetCapitalGain, r.ScheduleE.AllowedNet)
	return surtaxStage{
		rateStage:             r,
		AdditionalMedicareTax: AdditionalMedicareTax(income.MedicareBase(), r.SE.NetEarnings, medicareThreshold),
		NetInvestmentIncome:   nii,
		NIIT:                  NIIT(nii, r.AGI, niitThreshold),
	}, nil
}

// ChildTaxCredit returns the phased-out credit for children qualifying children at agi
func ChildTaxCredit(children int, agi, threshold decimal.Decimal) decimal.Decimal {
	if children <= 0 {
		return decimal.Zero
	}
	full := ctcPerChild.Mul(decimal.NewFromInt(int64(children)))
	reduction := dec.StepsOver(agi, threshold, ctcPhaseoutStep).Mul(ctcReductionPerStep)
	return dec.NonNegative(full.Sub(reduction))
}

func (ftc *FederalTaxCalculator) applyCredits(in FederalInput, s surtaxStage) (creditStage, error) {
	threshold, err := ftc.Rules.CTCPhaseoutFor(in.Profile.FilingStatus)
	if err != nil {
		return creditStage{}, err
	}
	children := in.Credits.NumQualifyingChildren
	if children == 0 {
		children = in.Profile.QualifyingChildren()
	}

	c := creditStage{surtaxStage: s}
	c.TaxBeforeCredits = s.OrdinaryTax.Add(s.PreferentialTax).Add(s.SE.Tax).Add(s.AdditionalMedicareTax).Add(s.NIIT)
	c.ChildTaxCredit = ChildTaxCredit(children, s.AGI, threshold)
	c.Credits = c.ChildTaxCredit.Add(dec.NonNegative(in.Credits.OtherCredits))
	c.TaxAfterCredits = dec.NonNegative(c.TaxBeforeCredits.Sub(c.Credits))
	return c, nil
}

// Result rounds the computation into the federal record
func (fc *FederalComputation) Result() domain.FederalResult {
	r := domain.FederalResult{
		GrossIncome:           dec.Cents(fc.Gross),
		Adjustments:           dec.Cents(fc.Adjustments),
		AGI:                   dec.Cents(fc.AGI),
		StandardDeduction:     dec.Cents(fc.Choice.Standard),
		ItemizedTotal:         dec.Cents(fc.Choice.Itemized),
		DeductionAmount:       dec.Cents(fc.Choice.Amount),
		DeductionMethod:       fc.Choice.Method,
		TaxableIncome:         dec.Cents(fc.TaxableIncome),
		OrdinaryIncome:        dec.Cents(fc.OrdinaryIncome),
		PreferentialIncome:    dec.Cents(fc.PreferentialIncome),
		OrdinaryTax:           dec.Cents(fc.OrdinaryTax),
		PreferentialTax:       dec.Cents(fc.PreferentialTax),
		SETax:                 dec.Cents(fc.SE.Tax),
		AdditionalMedicareTax: dec.Cents(fc.AdditionalMedicareTax),
		NIIT:                  dec.Cents(fc.NIIT),
		TaxBeforeCredits:      dec.Cents(fc.TaxBeforeCredits),
		ChildTaxCredit:        dec.Cents(fc.ChildTaxCredit),
		Credits:               dec.Cents(fc.Credits),
		TaxAfterCredits:       dec.Cents(fc.TaxAfterCredits),
		Withheld:              dec.Cents(fc.Withheld),
		EstimatedPayments:     dec.Cents(fc.EstimatedPayments),
		RefundOrOwed:          dec.Cents(fc.RefundOrOwed),
		EffectiveRate:         effectiveRate(fc.TaxAfterCredits, fc.AGI),
		MarginalRate:          fc.MarginalRate,
		Brackets:              roundSlices(fc.Brackets),
	}
	return r
}

func effectiveRate(tax, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return tax.Div(base).Round(4)
}

func roundSlices(in []domain.BracketSlice) []domain.BracketSlice {
	out := make([]domain.BracketSlice, len(in))
	for i, s := range in {
		s.Income = dec.Cents(s.Income)
		s.Tax = dec.Cents(s.Tax)
		out[i] = s
	}
	return out
}
