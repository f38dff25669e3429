package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFilingStatus(t *testing.T) {
	testCases := []struct {
		in       string
		expected FilingStatus
	}{
		{"single", Single},
		{" S ", Single},
		{"MFJ", MarriedFilingJointly},
		{"joint", MarriedFilingJointly},
		{"married-filing-separately", MarriedFilingSeparately},
		{"mfs", MarriedFilingSeparately},
		{"head_of_household", HeadOfHousehold},
		{"HoH", HeadOfHousehold},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			fs, err := ParseFilingStatus(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, fs)
			assert.True(t, fs.Valid())
		})
	}

	_, err := ParseFilingStatus("qualifying_widow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputValidation))
}

func TestFilingStatus_UnmarshalYAML(t *testing.T) {
	var p TaxpayerProfile
	require.NoError(t, yaml.Unmarshal([]byte("filing_status: hoh\nstate: ny\n"), &p))
	assert.Equal(t, HeadOfHousehold, p.FilingStatus)
	assert.Equal(t, "NY", p.State())

	err := yaml.Unmarshal([]byte("filing_status: widowed\n"), &p)
	assert.True(t, errors.Is(err, ErrInputValidation))
}

func TestTaxpayerProfile_AddOnCount(t *testing.T) {
	testCases := []struct {
		desc     string
		profile  TaxpayerProfile
		expected int
	}{
		{"young single", TaxpayerProfile{FilingStatus: Single, Age: 40}, 0},
		{"senior single", TaxpayerProfile{FilingStatus: Single, Age: 65}, 1},
		{"senior blind single", TaxpayerProfile{FilingStatus: Single, Age: 70, Blind: true}, 2},
		{"joint both senior", TaxpayerProfile{FilingStatus: MarriedFilingJointly, Age: 66, SpouseAge: 67}, 2},
		{"joint spouse blind", TaxpayerProfile{FilingStatus: MarriedFilingJointly, Age: 50, SpouseAge: 48, SpouseBlind: true}, 1},
		// a spouse only counts on a joint return
		{"separate ignores spouse", TaxpayerProfile{FilingStatus: MarriedFilingSeparately, Age: 50, SpouseAge: 70}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.profile.AddOnCount())
		})
	}
}

func TestTaxpayerProfile_PersonalExemptions(t *testing.T) {
	assert.Equal(t, 1, TaxpayerProfile{FilingStatus: Single}.PersonalExemptions())
	assert.Equal(t, 2, TaxpayerProfile{FilingStatus: MarriedFilingJointly}.PersonalExemptions())
	assert.Equal(t, 1, TaxpayerProfile{FilingStatus: HeadOfHousehold}.PersonalExemptions())
	assert.Equal(t, 3, TaxpayerProfile{FilingStatus: Single, CAExemptions: 3}.PersonalExemptions())
}

func TestTaxpayerProfile_QualifyingChildren(t *testing.T) {
	p := TaxpayerProfile{Dependents: []Dependent{
		{Name: "A", Age: 3},
		{Name: "B", Age: 16},
		{Name: "C", Age: 17},
		{Name: "D", Age: 19},
	}}
	assert.Equal(t, 2, p.QualifyingChildren())
}
