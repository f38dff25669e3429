package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yingxuan/tax-return-tool/internal/calculation"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of return profiles, rule overrides and batch manifests
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a return profile from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.TaxReturnInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a return profile
func (ip *InputParser) Parse(data []byte) (*domain.TaxReturnInput, error) {
	var input domain.TaxReturnInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateConfiguration(&input); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &input, nil
}

// ValidateConfiguration validates the loaded profile
func (ip *InputParser) ValidateConfiguration(input *domain.TaxReturnInput) error {
	if input.TaxYear == 0 {
		return domain.NewValidationError("tax_year", "is required")
	}
	supported := false
	for _, y := range domain.SupportedTaxYears {
		if y == input.TaxYear {
			supported = true
		}
	}
	if !supported {
		return domain.NewValidationError("tax_year", fmt.Sprintf("%d is not supported", input.TaxYear))
	}
	if input.Taxpayer.FilingStatus == "" {
		return domain.NewValidationError("taxpayer.filing_status", "is required")
	}
	return input.Validate()
}

// FederalOverride patches one year of federal rules. Keys of the status maps
// accept any filing status spelling the profile accepts.
type FederalOverride struct {
	StandardDeduction map[string]decimal.Decimal          `yaml:"standard_deduction"`
	Brackets          map[string]calculation.BracketTable `yaml:"brackets"`
	SSWageBase        *decimal.Decimal                    `yaml:"ss_wage_base"`
}

// RuleOverrides is the shape of a rules file
type RuleOverrides struct {
	Federal map[domain.TaxYear]FederalOverride `yaml:"federal"`
}

// LoadRuleOverrides reads a rules file and applies it to a copy of base. The
// returned rule book is validated and must not be modified afterwards.
func (ip *InputParser) LoadRuleOverrides(filename string, base *calculation.RuleBook) (*calculation.RuleBook, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var overrides RuleOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ApplyRuleOverrides(base, overrides)
}

// ApplyRuleOverrides returns a patched copy of base
func ApplyRuleOverrides(base *calculation.RuleBook, overrides RuleOverrides) (*calculation.RuleBook, error) {
	rb := base.Clone()
	for year, o := range overrides.Federal {
		fr, err := rb.FederalFor(year)
		if err != nil {
			return nil, fmt.Errorf("rule overrides: %w", err)
		}
		for key, amount := range o.StandardDeduction {
			status, err := domain.ParseFilingStatus(key)
			if err != nil {
				return nil, fmt.Errorf("rule overrides for %d: %w", year, err)
			}
			if amount.IsNegative() {
				return nil, fmt.Errorf("rule overrides for %d: standard deduction for %s cannot be negative", year, status)
			}
			fr.StandardDeduction[status] = amount
		}
		for key, table := range o.Brackets {
			status, err := domain.ParseFilingStatus(key)
			if err != nil {
				return nil, fmt.Errorf("rule overrides for %d: %w", year, err)
			}
			fr.Brackets[status] = table.Clone()
		}
		if o.SSWageBase != nil {
			fr.SSWageBase = *o.SSWageBase
		}
	}
	if err := rb.Validate(); err != nil {
		return nil, fmt.Errorf("rule overrides: %w", errors.Join(domain.ErrConfiguration, err))
	}
	return rb, nil
}

// LoadBatchManifest reads a YAML list of profile paths. Relative paths are
// resolved against the manifest's directory.
func (ip *InputParser) LoadBatchManifest(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var paths []string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("batch manifest %s lists no profiles", filename)
	}
	dir := filepath.Dir(filename)
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(dir, p)
		}
	}
	return paths, nil
}

// LoadBatch loads every profile named by a manifest. A profile that fails to
// load leaves a nil input and its error at the same index; only a manifest
// failure is returned as err.
func (ip *InputParser) LoadBatch(manifest string) (inputs []*domain.TaxReturnInput, paths []string, loadErrs []error, err error) {
	paths, err = ip.LoadBatchManifest(manifest)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs = make([]*domain.TaxReturnInput, len(paths))
	loadErrs = make([]error, len(paths))
	for i, p := range paths {
		inputs[i], loadErrs[i] = ip.LoadFromFile(p)
	}
	return inputs, paths, loadErrs, nil
}

// CreateExampleConfiguration creates an example return profile
func (ip *InputParser) CreateExampleConfiguration() *domain.TaxReturnInput {
	purchased, _ := time.Parse("2006-01-02", "2021-04-01")
	q1, _ := time.Parse("2006-01-02", "2025-04-15")
	q2, _ := time.Parse("2006-01-02", "2025-06-16")

	return &domain.TaxReturnInput{
		TaxYear: domain.TaxYear2025,
		Taxpayer: domain.TaxpayerProfile{
			Name:             "Alex and Sam Rivera",
			FilingStatus:     domain.MarriedFilingJointly,
			Age:              42,
			SpouseAge:        40,
			StateOfResidence: "CA",
			Dependents: []domain.Dependent{
				{Name: "Maya", Age: 9, Relationship: "daughter"},
				{Name: "Leo", Age: 6, Relationship: "son"},
			},
		},
		Income: domain.TaxableIncome{
			Wages:                 decimal.NewFromInt(185000),
			InterestIncome:        decimal.NewFromInt(1200),
			DividendIncome:        decimal.NewFromInt(3400),
			QualifiedDividends:    decimal.NewFromInt(2900),
			CapitalGains:          decimal.NewFromInt(6500),
			ShortTermCapitalGains: decimal.NewFromInt(1500),
		},
		Deductions: domain.ScheduleAData{
			StateIncomeTaxPaid:   decimal.NewFromInt(11800),
			RealEstateTaxes:      decimal.NewFromInt(7400),
			MortgageInterestFull: decimal.NewFromInt(16200),
			MortgageBalance:      decimal.NewFromInt(610000),
			Contributions:        decimal.NewFromInt(2500),
		},
		RentalProperties: []domain.RentalProperty{
			{
				Address:          "418 Harbor View Ln",
				PropertyType:     "single_family",
				PurchasePrice:    decimal.NewFromInt(540000),
				PurchaseDate:     purchased,
				LandValue:        decimal.NewFromInt(160000),
				RentalIncome:     decimal.NewFromInt(33600),
				Insurance:        decimal.NewFromInt(1450),
				PropertyTax:      decimal.NewFromInt(6100),
				MortgageInterest: decimal.NewFromInt(12800),
				OtherExpenses:    decimal.NewFromInt(2300),
				DaysRented:       365,
			},
		},
		Withholding: domain.Withholding{
			Federal: decimal.NewFromInt(22000),
			State:   map[string]decimal.Decimal{"CA": decimal.NewFromInt(9800)},
		},
		EstimatedPayments: []domain.EstimatedPayment{
			{PaymentDate: q1, Amount: decimal.NewFromInt(1500), Period: "Q1", Jurisdiction: "federal"},
			{PaymentDate: q2, Amount: decimal.NewFromInt(1500), Period: "Q2", Jurisdiction: "federal"},
			{PaymentDate: q1, Amount: decimal.NewFromInt(500), Period: "Q1", Jurisdiction: "CA"},
		},
	}
}
