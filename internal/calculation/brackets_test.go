package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

func TestBracketTableTax(t *testing.T) {
	fr, err := DefaultRuleBook().FederalFor(domain.TaxYear2025)
	require.NoError(t, err)
	single, err := fr.BracketsFor(domain.Single)
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"zero income", "0", "0"},
		{"inside first bracket", "10000", "1000"},
		{"first bracket boundary", "11925", "1192.50"},
		{"second bracket", "47000", "5401.50"},
		{"single wages 80000 after standard deduction", "65000", "9214.00"},
		{"top bracket", "1000000", "327020.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.expected, single.Tax(d(tt.amount)))
		})
	}
}

func TestBracketTableContinuityAndMonotonicity(t *testing.T) {
	rb := DefaultRuleBook()
	var all []BracketTable
	for _, fr := range rb.Federal {
		for _, table := range fr.Brackets {
			all = append(all, table)
		}
	}
	for _, byYear := range []map[domain.TaxYear]*ProgressiveStateRules{rb.NewYork, rb.NewJersey} {
		for _, sr := range byYear {
			for _, table := range sr.Brackets {
				all = append(all, table)
			}
		}
	}
	for _, ca := range rb.California {
		for _, table := range ca.Brackets {
			all = append(all, table)
		}
	}

	cent := d("0.01")
	for _, table := range all {
		require.NoError(t, table.Validate())
		prev := decimal.Zero
		for _, b := range table[1:] {
			below := table.Tax(b.Min.Sub(cent))
			at := table.Tax(b.Min)
			above := table.Tax(b.Min.Add(cent))
			assert.True(t, at.GreaterThanOrEqual(below), "tax must not drop at %s", b.Min)
			assert.True(t, above.GreaterThanOrEqual(at), "tax must not drop above %s", b.Min)
			// a one cent step never moves tax by more than the top rate
			assert.True(t, at.Sub(below).LessThanOrEqual(cent), "discontinuity at %s", b.Min)
			assert.True(t, at.GreaterThanOrEqual(prev))
			prev = at
		}
	}
}

func TestBracketBreakdownAndMarginalRate(t *testing.T) {
	fr, err := DefaultRuleBook().FederalFor(domain.TaxYear2025)
	require.NoError(t, err)
	single, _ := fr.BracketsFor(domain.Single)

	slices := single.Breakdown(d("65000"))
	require.Len(t, slices, 3)
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Tax)
	}
	assertMoney(t, "9214.00", total)
	assertMoney(t, "16525", slices[2].Income)

	assert.True(t, single.MarginalRate(d("65000")).Equal(d("0.22")))
	assert.True(t, single.MarginalRate(d("48475")).Equal(d("0.22")))
	assert.True(t, single.MarginalRate(d("5000000")).Equal(d("0.37")))
}

func TestBracketTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		table BracketTable
		ok    bool
	}{
		{"valid", newBracketTable([]int64{100, 200}, "0.1", "0.2", "0.3"), true},
		{"empty", BracketTable{}, false},
		{"bounded top", BracketTable{{Min: d("0"), Max: d("100"), Rate: d("0.1")}}, false},
		{"gap", BracketTable{
			{Min: d("0"), Max: d("100"), Rate: d("0.1")},
			{Min: d("101"), Max: decimal.Zero, Rate: d("0.2")},
		}, false},
		{"nonzero start", BracketTable{{Min: d("10"), Rate: d("0.1")}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRuleBookLookupFailsLoudly(t *testing.T) {
	rb := DefaultRuleBook()

	_, err := rb.FederalFor(domain.TaxYear(2019))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	fr, err := rb.FederalFor(domain.TaxYear2024)
	require.NoError(t, err)
	_, err = fr.BracketsFor(domain.FilingStatus("qualifying_widow"))
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "federal", cfgErr.Jurisdiction)
	assert.Equal(t, domain.TaxYear2024, cfgErr.Year)

	_, err = rb.CaliforniaFor(domain.TaxYear(2030))
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestCaliforniaItemizedLimitThresholds(t *testing.T) {
	ca, err := DefaultRuleBook().CaliforniaFor(domain.TaxYear2024)
	require.NoError(t, err)

	tests := []struct {
		status    domain.FilingStatus
		threshold string
		phaseout  string
	}{
		{domain.Single, "244857", "244860"},
		{domain.MarriedFilingJointly, "489719", "489719"},
		{domain.MarriedFilingSeparately, "244857", "244860"},
		{domain.HeadOfHousehold, "367291", "367290"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assertMoney(t, tt.threshold, ca.ItemizedLimitThreshold[tt.status])
			assertMoney(t, tt.phaseout, ca.ExemptionPhaseout[tt.status])
		})
	}
}

func TestStandardDeductionAddOns(t *testing.T) {
	fr, err := DefaultRuleBook().FederalFor(domain.TaxYear2025)
	require.NoError(t, err)

	tests := []struct {
		status   domain.FilingStatus
		addOns   int
		expected string
	}{
		{domain.Single, 0, "15000"},
		{domain.Single, 1, "16950"},
		{domain.MarriedFilingJointly, 2, "33100"},
		{domain.HeadOfHousehold, 0, "22500"},
		{domain.MarriedFilingSeparately, 1, "16550"},
	}
	for _, tt := range tests {
		got, err := fr.StandardDeductionFor(tt.status, tt.addOns)
		require.NoError(t, err)
		assertMoney(t, tt.expected, got, "%s with %d add-ons", tt.status, tt.addOns)
	}
}

func TestRuleBookClone(t *testing.T) {
	rb := DefaultRuleBook()
	clone := rb.Clone()
	clone.Federal[domain.TaxYear2025].StandardDeduction[domain.Single] = d("1")
	clone.Federal[domain.TaxYear2025].Brackets[domain.Single][0].Rate = d("0.5")

	fr, _ := rb.FederalFor(domain.TaxYear2025)
	assertMoney(t, "15000", fr.StandardDeduction[domain.Single])
	assert.True(t, fr.Brackets[domain.Single][0].Rate.Equal(d("0.10")))
}

func TestRuleBookTableFor(t *testing.T) {
	rb := DefaultRuleBook()

	fed, err := rb.TableFor("federal", domain.TaxYear2025, domain.Single)
	require.NoError(t, err)
	assertMoney(t, "9214.00", fed.Tax(d("65000")))

	ca, err := rb.TableFor("CA", domain.TaxYear2025, domain.Single)
	require.NoError(t, err)
	require.NoError(t, ca.Validate())

	pa, err := rb.TableFor("PA", domain.TaxYear2025, domain.MarriedFilingJointly)
	require.NoError(t, err)
	require.Len(t, pa, 1)
	assertMoney(t, "3070.00", pa.Tax(d("100000")))

	_, err = rb.TableFor("TX", domain.TaxYear2025, domain.Single)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
