package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	dec "github.com/yingxuan/tax-return-tool/pkg/decimal"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine orchestrates federal and state tax calculations
type CalculationEngine struct {
	Rules  *RuleBook
	States *StateRegistry
	Logger Logger
	// Parallelism bounds CalculateBatch; zero means runtime.NumCPU().
	Parallelism int
	// Now stamps results; tests may replace it.
	Now func() time.Time
}

// NewCalculationEngine creates an engine over the built-in rule tables
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithRules(DefaultRuleBook())
}

// NewCalculationEngineWithRules creates an engine over an injected rule book
func NewCalculationEngineWithRules(rules *RuleBook) *CalculationEngine {
	return &CalculationEngine{
		Rules:  rules,
		States: NewStateRegistry(rules),
		Logger: NopLogger{},
		Now:    time.Now,
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Calculate computes one return. Validation and configuration failures abort
// the return; an unsupported residence state does not.
func (ce *CalculationEngine) Calculate(ctx context.Context, input *domain.TaxReturnInput) (*domain.TaxCalculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, domain.NewValidationError("input", "is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	fedRules, err := ce.Rules.FederalFor(input.TaxYear)
	if err != nil {
		return nil, err
	}
	residence := input.Taxpayer.State()
	payments, err := MatchEstimatedPayments(input.EstimatedPayments, residence)
	if err != nil {
		return nil, err
	}
	for _, p := range input.RentalProperties {
		if p.PurchaseDate.IsZero() && p.DepreciableBasis().IsPositive() {
			ce.Logger.Warnf("rental %s has no purchase_date; assuming a full year of depreciation", p.Address)
		}
	}
	for _, p := range payments.Unapplied {
		ce.Logger.Warnf("estimated payment of $%s for %s does not match federal or residence state %s; left unapplied",
			p.Amount.StringFixed(2), p.Jurisdiction, residence)
	}

	fed, err := NewFederalTaxCalculator(fedRules).Calculate(FederalInput{
		Year:                 input.TaxYear,
		Profile:              input.Taxpayer,
		Income:               input.Income,
		Deductions:           input.Deductions,
		RentalProperties:     input.RentalProperties,
		CapitalLossCarryover: input.CapitalLossCarryover,
		Credits:              input.Credits,
		Withheld:             input.Withholding.Federal,
		EstimatedPayments:    payments.Federal,
	})
	if err != nil {
		return nil, fmt.Errorf("federal calculation failed: %w", err)
	}
	ce.logFederal(input, fed)

	outcome, err := ce.States.Dispatch(residence, StateInput{
		Year:              input.TaxYear,
		Profile:           input.Taxpayer,
		Income:            input.Income,
		Deductions:        input.Deductions,
		Credits:           input.Credits,
		FederalGross:      fed.Gross,
		FederalAGI:        fed.AGI,
		SEDeduction:       fed.SE.Deduction,
		FederalScheduleA:  fed.ScheduleA,
		Withheld:          input.Withholding.StateWithheld(residence),
		EstimatedPayments: payments.State,
	})
	if err != nil {
		return nil, err
	}
	switch outcome.Status {
	case domain.StateUnsupported:
		ce.Logger.Warnf("state %s is not supported; federal result only", residence)
		if outcome.Payments().IsPositive() {
			ce.Logger.Warnf("%s withholding of $%s and estimated payments of $%s reported without a state computation",
				residence, outcome.Withheld.StringFixed(2), outcome.EstimatedPayments.StringFixed(2))
		}
	case domain.StateNoIncomeTax:
		ce.Logger.Debugf("state %s has no income tax", residence)
		if outcome.Payments().IsPositive() {
			ce.Logger.Warnf("%s has no income tax but $%s of state payments were reported",
				residence, outcome.Payments().StringFixed(2))
		}
	default:
		ce.Logger.Debugf("%s tax after credits: $%s", outcome.Result.Name, outcome.Result.TaxAfterCredits.StringFixed(2))
	}

	return ce.buildResult(input, fed, outcome, payments.Unapplied), nil
}

// buildResult constructs the immutable aggregate, rounding every money field
func (ce *CalculationEngine) buildResult(input *domain.TaxReturnInput, fed *FederalComputation, state domain.StateOutcome, unapplied []domain.EstimatedPayment) *domain.TaxCalculation {
	schedE := fed.ScheduleE
	schedE.TotalNet = dec.Cents(schedE.TotalNet)
	schedE.Allowance = dec.Cents(schedE.Allowance)
	schedE.AllowedNet = dec.Cents(schedE.AllowedNet)
	schedE.PALDisallowed = dec.Cents(schedE.PALDisallowed)
	schedE.PALCarryover = dec.Cents(schedE.PALCarryover)
	schedE.PreliminaryAGI = dec.Cents(schedE.PreliminaryAGI)

	a := fed.ScheduleA
	schedA := domain.ScheduleASummary{
		Medical:          dec.Cents(a.Medical),
		SALT:             dec.Cents(a.SALT),
		MortgageInterest: dec.Cents(a.MortgageInterest),
		OtherInterest:    dec.Cents(a.OtherInterest),
		Contributions:    dec.Cents(a.Contributions),
		Other:            dec.Cents(a.Other),
		Total:            dec.Cents(a.Total),
	}

	c := fed.Capital.Summary
	return &domain.TaxCalculation{
		ID:           uuid.NewString(),
		ComputedAt:   ce.Now(),
		TaxYear:      input.TaxYear,
		FilingStatus: input.Taxpayer.FilingStatus,
		Taxpayer:     input.Taxpayer.Name,
		Federal:      fed.Result(),
		State:        state,
		ScheduleE:    schedE,
		ScheduleA:    schedA,
		CapitalLoss: domain.CapitalLossSummary{
			CarryoverApplied:   dec.Cents(c.CarryoverApplied),
			NetCapitalGain:     dec.Cents(c.NetCapitalGain),
			RemainingCarryover: dec.Cents(c.RemainingCarryover),
		},
		UnappliedPayments: unapplied,
	}
}

func (ce *CalculationEngine) logFederal(input *domain.TaxReturnInput, fed *FederalComputation) {
	ce.Logger.Debugf("FEDERAL BREAKDOWN for %s (%d, %s):", input.Taxpayer.Name, input.TaxYear, input.Taxpayer.FilingStatus)
	ce.Logger.Debugf("  Gross income:        $%s", fed.Gross.StringFixed(2))
	ce.Logger.Debugf("  Adjustments:         $%s", fed.Adjustments.StringFixed(2))
	ce.Logger.Debugf("  AGI:                 $%s", fed.AGI.StringFixed(2))
	ce.Logger.Debugf("  Deduction (%s):  $%s", fed.Choice.Method, fed.Choice.Amount.StringFixed(2))
	ce.Logger.Debugf("  Taxable income:      $%s", fed.TaxableIncome.StringFixed(2))
	ce.Logger.Debugf("  Ordinary tax:        $%s", fed.OrdinaryTax.StringFixed(2))
	ce.Logger.Debugf("  Preferential tax:    $%s", fed.PreferentialTax.StringFixed(2))
	ce.Logger.Debugf("  SE tax:              $%s", fed.SE.Tax.StringFixed(2))
	ce.Logger.Debugf("  Additional Medicare: $%s", fed.AdditionalMedicareTax.StringFixed(2))
	ce.Logger.Debugf("  NIIT:                $%s", fed.NIIT.StringFixed(2))
	ce.Logger.Debugf("  Credits:             $%s", fed.Credits.StringFixed(2))
	ce.Logger.Debugf("  Tax after credits:   $%s", fed.TaxAfterCredits.StringFixed(2))
	if fed.ScheduleE.PALDisallowed.IsPositive() {
		ce.Logger.Infof("passive activity loss of $%s disallowed and carried forward", fed.ScheduleE.PALDisallowed.StringFixed(2))
	}
	if fed.Capital.Summary.RemainingCarryover.IsPositive() {
		ce.Logger.Infof("capital loss carryover of $%s remains for next year", fed.Capital.Summary.RemainingCarryover.StringFixed(2))
	}
}

// BatchResult holds the outcome of a batch run. Results and Errors are
// indexed like the inputs; exactly one of them is set for each return.
type BatchResult struct {
	RunID   string
	Results []*domain.TaxCalculation
	Errors  []error
}

// Err joins every per-return error, or returns nil when all returns succeeded
func (br *BatchResult) Err() error {
	var errs []error
	for i, err := range br.Errors {
		if err != nil {
			errs = append(errs, fmt.Errorf("return %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// CalculateBatch computes independent returns concurrently. A failing return
// does not stop the others; cancelling ctx stops returns not yet started.
func (ce *CalculationEngine) CalculateBatch(ctx context.Context, inputs []*domain.TaxReturnInput) *BatchResult {
	br := &BatchResult{
		RunID:   uuid.NewString(),
		Results: make([]*domain.TaxCalculation, len(inputs)),
		Errors:  make([]error, len(inputs)),
	}
	limit := ce.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			br.Results[i], br.Errors[i] = ce.Calculate(ctx, input)
			return nil
		})
	}
	_ = g.Wait()

	ce.Logger.Infof("batch %s computed %d returns", br.RunID, len(inputs))
	return br
}
