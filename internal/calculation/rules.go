package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

// FederalRules holds the year-specific federal tables, keyed by filing status
type FederalRules struct {
	Year                        domain.TaxYear
	Brackets                    map[domain.FilingStatus]BracketTable
	StandardDeduction           map[domain.FilingStatus]decimal.Decimal
	AdditionalDeduction         map[domain.FilingStatus]decimal.Decimal // per age-65 or blindness add-on
	LTCGZeroCeiling             map[domain.FilingStatus]decimal.Decimal
	LTCGFifteenCeiling          map[domain.FilingStatus]decimal.Decimal
	AdditionalMedicareThreshold map[domain.FilingStatus]decimal.Decimal
	NIITThreshold               map[domain.FilingStatus]decimal.Decimal
	CTCPhaseoutThreshold        map[domain.FilingStatus]decimal.Decimal
	SSWageBase                  decimal.Decimal
}

// ProgressiveStateRules holds a state's bracket and standard deduction tables
type ProgressiveStateRules struct {
	Year              domain.TaxYear
	Code              string
	Brackets          map[domain.FilingStatus]BracketTable
	StandardDeduction map[domain.FilingStatus]decimal.Decimal
}

// CaliforniaRules extends the progressive tables with California credits and surtaxes
type CaliforniaRules struct {
	ProgressiveStateRules
	ExemptionCredit        decimal.Decimal
	ExemptionPhaseout      map[domain.FilingStatus]decimal.Decimal
	ItemizedLimitThreshold map[domain.FilingStatus]decimal.Decimal
	RentersCredit          map[domain.FilingStatus]decimal.Decimal
	RentersAGILimit        map[domain.FilingStatus]decimal.Decimal
	MHSTThreshold          decimal.Decimal
	MHSTRate               decimal.Decimal
	SDIRate                decimal.Decimal
	SDIWageBase            decimal.Decimal
}

// FlatStateRules describes a flat-rate state with no standard deduction
type FlatStateRules struct {
	Year domain.TaxYear
	Code string
	Rate decimal.Decimal
}

// RuleBook bundles every table the engine reads. It is built once, treated as
// read-only afterwards, and injected into the engine and calculators.
type RuleBook struct {
	Federal      map[domain.TaxYear]*FederalRules
	California   map[domain.TaxYear]*CaliforniaRules
	NewYork      map[domain.TaxYear]*ProgressiveStateRules
	NewJersey    map[domain.TaxYear]*ProgressiveStateRules
	Pennsylvania map[domain.TaxYear]*FlatStateRules
}

func lookup[T any](m map[domain.FilingStatus]T, status domain.FilingStatus, jurisdiction string, year domain.TaxYear, what string) (T, error) {
	v, ok := m[status]
	if !ok {
		var zero T
		return zero, &domain.ConfigurationError{Jurisdiction: jurisdiction, Year: year, Status: status, What: what}
	}
	return v, nil
}

func yearLookup[T any](m map[domain.TaxYear]*T, year domain.TaxYear, jurisdiction string) (*T, error) {
	v, ok := m[year]
	if !ok || v == nil {
		return nil, &domain.ConfigurationError{Jurisdiction: jurisdiction, Year: year, What: "rule table"}
	}
	return v, nil
}

// FederalFor returns the federal rules for a year
func (rb *RuleBook) FederalFor(year domain.TaxYear) (*FederalRules, error) {
	return yearLookup(rb.Federal, year, "federal")
}

// CaliforniaFor returns the California rules for a year
func (rb *RuleBook) CaliforniaFor(year domain.TaxYear) (*CaliforniaRules, error) {
	return yearLookup(rb.California, year, "CA")
}

// NewYorkFor returns the New York rules for a year
func (rb *RuleBook) NewYorkFor(year domain.TaxYear) (*ProgressiveStateRules, error) {
	return yearLookup(rb.NewYork, year, "NY")
}

// NewJerseyFor returns the New Jersey rules for a year
func (rb *RuleBook) NewJerseyFor(year domain.TaxYear) (*ProgressiveStateRules, error) {
	return yearLookup(rb.NewJersey, year, "NJ")
}

// PennsylvaniaFor returns the Pennsylvania rules for a year
func (rb *RuleBook) PennsylvaniaFor(year domain.TaxYear) (*FlatStateRules, error) {
	return yearLookup(rb.Pennsylvania, year, "PA")
}

// TableFor returns the ordinary bracket table a jurisdiction applies to a
// filing status. Pennsylvania's flat rate comes back as a one-bracket table.
func (rb *RuleBook) TableFor(jurisdiction string, year domain.TaxYear, status domain.FilingStatus) (BracketTable, error) {
	switch jurisdiction {
	case FederalJurisdiction:
		fr, err := rb.FederalFor(year)
		if err != nil {
			return nil, err
		}
		return fr.BracketsFor(status)
	case "CA":
		cr, err := rb.CaliforniaFor(year)
		if err != nil {
			return nil, err
		}
		return cr.BracketsFor(status)
	case "NY":
		sr, err := rb.NewYorkFor(year)
		if err != nil {
			return nil, err
		}
		return sr.BracketsFor(status)
	case "NJ":
		sr, err := rb.NewJerseyFor(year)
		if err != nil {
			return nil, err
		}
		return sr.BracketsFor(status)
	case "PA":
		fr, err := rb.PennsylvaniaFor(year)
		if err != nil {
			return nil, err
		}
		return BracketTable{{Rate: fr.Rate}}, nil
	}
	return nil, &domain.ConfigurationError{Jurisdiction: jurisdiction, Year: year, Status: status, What: "tax brackets"}
}

// BracketsFor returns the ordinary bracket table for a filing status
func (fr *FederalRules) BracketsFor(status domain.FilingStatus) (BracketTable, error) {
	return lookup(fr.Brackets, status, "federal", fr.Year, "tax brackets")
}

// StandardDeductionFor returns the standard deduction including addOns age/blindness add-ons
func (fr *FederalRules) StandardDeductionFor(status domain.FilingStatus, addOns int) (decimal.Decimal, error) {
	base, err := lookup(fr.StandardDeduction, status, "federal", fr.Year, "standard deduction")
	if err != nil {
		return decimal.Zero, err
	}
	if addOns == 0 {
		return base, nil
	}
	extra, err := lookup(fr.AdditionalDeduction, status, "federal", fr.Year, "additional standard deduction")
	if err != nil {
		return decimal.Zero, err
	}
	return base.Add(extra.Mul(decimal.NewFromInt(int64(addOns)))), nil
}

// LTCGThresholds returns the taxable income ceilings of the 0% and 15% preferential bands
func (fr *FederalRules) LTCGThresholds(status domain.FilingStatus) (zero, fifteen decimal.Decimal, err error) {
	if zero, err = lookup(fr.LTCGZeroCeiling, status, "federal", fr.Year, "0% capital gain threshold"); err != nil {
		return
	}
	fifteen, err = lookup(fr.LTCGFifteenCeiling, status, "federal", fr.Year, "15% capital gain threshold")
	return
}

// AdditionalMedicareThresholdFor returns the Additional Medicare Tax threshold
func (fr *FederalRules) AdditionalMedicareThresholdFor(status domain.FilingStatus) (decimal.Decimal, error) {
	return lookup(fr.AdditionalMedicareThreshold, status, "federal", fr.Year, "Additional Medicare threshold")
}

// NIITThresholdFor returns the NIIT MAGI threshold
func (fr *FederalRules) NIITThresholdFor(status domain.FilingStatus) (decimal.Decimal, error) {
	return lookup(fr.NIITThreshold, status, "federal", fr.Year, "NIIT threshold")
}

// CTCPhaseoutFor returns the child tax credit phaseout threshold
func (fr *FederalRules) CTCPhaseoutFor(status domain.FilingStatus) (decimal.Decimal, error) {
	return lookup(fr.CTCPhaseoutThreshold, status, "federal", fr.Year, "child tax credit phaseout")
}

// BracketsFor returns the state bracket table for a filing status
func (sr *ProgressiveStateRules) BracketsFor(status domain.FilingStatus) (BracketTable, error) {
	return lookup(sr.Brackets, status, sr.Code, sr.Year, "tax brackets")
}

// StandardDeductionFor returns the state standard deduction
func (sr *ProgressiveStateRules) StandardDeductionFor(status domain.FilingStatus) (decimal.Decimal, error) {
	return lookup(sr.StandardDeduction, status, sr.Code, sr.Year, "standard deduction")
}

// Validate checks every bracket table in the rule book
func (rb *RuleBook) Validate() error {
	for year, fr := range rb.Federal {
		for status, table := range fr.Brackets {
			if err := table.Validate(); err != nil {
				return fmt.Errorf("federal %d %s: %w", year, status, err)
			}
		}
	}
	states := map[string]map[domain.TaxYear]*ProgressiveStateRules{
		"NY": rb.NewYork,
		"NJ": rb.NewJersey,
	}
	for year, ca := range rb.California {
		if states["CA"] == nil {
			states["CA"] = map[domain.TaxYear]*ProgressiveStateRules{}
		}
		states["CA"][year] = &ca.ProgressiveStateRules
	}
	for code, byYear := range states {
		for year, sr := range byYear {
			for status, table := range sr.Brackets {
				if err := table.Validate(); err != nil {
					return fmt.Errorf("%s %d %s: %w", code, year, status, err)
				}
			}
		}
	}
	return nil
}

// Clone returns a copy of the rule book whose federal tables can be patched
// without touching the original. State tables are shared.
func (rb *RuleBook) Clone() *RuleBook {
	out := &RuleBook{
		Federal:      make(map[domain.TaxYear]*FederalRules, len(rb.Federal)),
		California:   rb.California,
		NewYork:      rb.NewYork,
		NewJersey:    rb.NewJersey,
		Pennsylvania: rb.Pennsylvania,
	}
	for year, fr := range rb.Federal {
		cp := *fr
		cp.Brackets = make(map[domain.FilingStatus]BracketTable, len(fr.Brackets))
		for s, t := range fr.Brackets {
			cp.Brackets[s] = t.Clone()
		}
		cp.StandardDeduction = cloneAmounts(fr.StandardDeduction)
		cp.AdditionalDeduction = cloneAmounts(fr.AdditionalDeduction)
		out.Federal[year] = &cp
	}
	return out
}

func cloneAmounts(m map[domain.FilingStatus]decimal.Decimal) map[domain.FilingStatus]decimal.Decimal {
	out := make(map[domain.FilingStatus]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
