package domain

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// TaxYear identifies the tax year a return is computed for
type TaxYear int

// Supported tax years
const (
	TaxYear2024 TaxYear = 2024
	TaxYear2025 TaxYear = 2025
)

// SupportedTaxYears lists the years with built-in rule tables
var SupportedTaxYears = []TaxYear{TaxYear2024, TaxYear2025}

// FilingStatus is the federal filing status of the return
type FilingStatus string

// Filing statuses
const (
	Single                  FilingStatus = "single"
	MarriedFilingJointly    FilingStatus = "married_filing_jointly"
	MarriedFilingSeparately FilingStatus = "married_filing_separately"
	HeadOfHousehold         FilingStatus = "head_of_household"
)

// AllFilingStatuses lists every supported filing status
var AllFilingStatuses = []FilingStatus{Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold}

var filingStatusAliases = map[string]FilingStatus{
	"single":                    Single,
	"s":                         Single,
	"married_filing_jointly":    MarriedFilingJointly,
	"married-filing-jointly":    MarriedFilingJointly,
	"mfj":                       MarriedFilingJointly,
	"joint":                     MarriedFilingJointly,
	"married_filing_separately": MarriedFilingSeparately,
	"married-filing-separately": MarriedFilingSeparately,
	"mfs":                       MarriedFilingSeparately,
	"head_of_household":         HeadOfHousehold,
	"head-of-household":         HeadOfHousehold,
	"hoh":                       HeadOfHousehold,
}

// ParseFilingStatus resolves a filing status name or alias
func ParseFilingStatus(s string) (FilingStatus, error) {
	fs, ok := filingStatusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", NewValidationError("filing_status", "has unknown value "+s)
	}
	return fs, nil
}

// Valid reports whether the status is one of the four supported values
func (fs FilingStatus) Valid() bool {
	switch fs {
	case Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold:
		return true
	}
	return false
}

// IsJoint reports whether the return covers two spouses
func (fs FilingStatus) IsJoint() bool { return fs == MarriedFilingJointly }

// IsSeparate reports whether the status is married filing separately
func (fs FilingStatus) IsSeparate() bool { return fs == MarriedFilingSeparately }

// UnmarshalYAML accepts any alias known to ParseFilingStatus
func (fs *FilingStatus) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseFilingStatus(raw)
	if err != nil {
		return err
	}
	*fs = parsed
	return nil
}

// Dependent represents a dependent claimed on the return
type Dependent struct {
	Name         string `yaml:"name" json:"name"`
	Age          int    `yaml:"age" json:"age"`
	Relationship string `yaml:"relationship" json:"relationship"`
}

// QualifiesForChildTaxCredit reports whether the dependent is under 17
func (d Dependent) QualifiesForChildTaxCredit() bool {
	return d.Age < 17
}

// TaxpayerProfile contains the filer facts that drive table lookups
type TaxpayerProfile struct {
	Name             string       `yaml:"name" json:"name"`
	FilingStatus     FilingStatus `yaml:"filing_status" json:"filing_status"`
	Age              int          `yaml:"age" json:"age"`
	SpouseAge        int          `yaml:"spouse_age,omitempty" json:"spouse_age,omitempty"`
	Blind            bool         `yaml:"blind,omitempty" json:"blind,omitempty"`
	SpouseBlind      bool         `yaml:"spouse_blind,omitempty" json:"spouse_blind,omitempty"`
	StateOfResidence string       `yaml:"state" json:"state"`
	IsRenter         bool         `yaml:"is_renter,omitempty" json:"is_renter,omitempty"`
	CAExemptions     int          `yaml:"ca_exemptions,omitempty" json:"ca_exemptions,omitempty"`
	Dependents       []Dependent  `yaml:"dependents,omitempty" json:"dependents,omitempty"`
}

// AddOnCount returns the number of age-65 and blindness standard deduction add-ons
func (p TaxpayerProfile) AddOnCount() int {
	n := 0
	if p.Age >= 65 {
		n++
	}
	if p.Blind {
		n++
	}
	if p.FilingStatus.IsJoint() {
		if p.SpouseAge >= 65 {
			n++
		}
		if p.SpouseBlind {
			n++
		}
	}
	return n
}

// QualifyingChildren counts dependents eligible for the child tax credit
func (p TaxpayerProfile) QualifyingChildren() int {
	n := 0
	for _, d := range p.Dependents {
		if d.QualifiesForChildTaxCredit() {
			n++
		}
	}
	return n
}

// State returns the upper-cased two letter residence code
func (p TaxpayerProfile) State() string {
	return strings.ToUpper(strings.TrimSpace(p.StateOfResidence))
}

// PersonalExemptions returns the explicit California exemption count, or one
// per spouse on the return when none is given
func (p TaxpayerProfile) PersonalExemptions() int {
	if p.CAExemptions > 0 {
		return p.CAExemptions
	}
	if p.FilingStatus.IsJoint() {
		return 2
	}
	return 1
}
