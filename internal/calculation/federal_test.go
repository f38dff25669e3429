package calculation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingxuan/tax-return-tool/internal/domain"
)

func federalCalculator(t *testing.T, year domain.TaxYear) *FederalTaxCalculator {
	t.Helper()
	rules, err := DefaultRuleBook().FederalFor(year)
	require.NoError(t, err)
	return NewFederalTaxCalculator(rules)
}

func single() domain.TaxpayerProfile {
	return domain.TaxpayerProfile{Name: "Test", FilingStatus: domain.Single, Age: 40, StateOfResidence: "TX"}
}

func TestFederalTaxCalculator_Calculate(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)

	tests := []struct {
		name            string
		profile         domain.TaxpayerProfile
		income          domain.TaxableIncome
		credits         domain.TaxCredits
		withheld        string
		expectedAGI     string
		expectedTaxable string
		expectedTax     string
		expectedRefund  string
	}{
		{
			name:            "single wages only",
			profile:         single(),
			income:          domain.TaxableIncome{Wages: d("80000")},
			withheld:        "10000",
			expectedAGI:     "80000",
			expectedTaxable: "65000",
			expectedTax:     "9214.00",
			expectedRefund:  "786.00",
		},
		{
			name:            "qualified dividends and long-term gains",
			profile:         single(),
			income:          domain.TaxableIncome{Wages: d("60000"), DividendIncome: d("5000"), QualifiedDividends: d("5000"), CapitalGains: d("10000"), ShortTermCapitalGains: d("2000")},
			expectedAGI:     "75000",
			expectedTaxable: "60000",
			expectedTax:     "7149.00",
			expectedRefund:  "-7149.00",
		},
		{
			name:            "long-term gains field does not double count",
			profile:         single(),
			income:          domain.TaxableIncome{Wages: d("60000"), DividendIncome: d("5000"), QualifiedDividends: d("5000"), CapitalGains: d("10000"), ShortTermCapitalGains: d("2000"), LongTermCapitalGains: d("8000")},
			expectedAGI:     "75000",
			expectedTaxable: "60000",
			expectedTax:     "7149.00",
			expectedRefund:  "-7149.00",
		},
		{
			name:            "capital gain distributions fold into gains",
			profile:         single(),
			income:          domain.TaxableIncome{Wages: d("60000"), DividendIncome: d("5000"), QualifiedDividends: d("5000"), CapitalGains: d("7000"), CapitalGainDistributions: d("3000"), ShortTermCapitalGains: d("2000")},
			expectedAGI:     "75000",
			expectedTaxable: "60000",
			expectedTax:     "7149.00",
			expectedRefund:  "-7149.00",
		},
		{
			name:            "self-employment only",
			profile:         single(),
			income:          domain.TaxableIncome{SelfEmploymentIncome: d("100000")},
			expectedAGI:     "92935.23",
			expectedTaxable: "77935.23",
			expectedTax:     "26189.30",
			expectedRefund:  "-26189.30",
		},
		{
			name: "joint filers with two children",
			profile: domain.TaxpayerProfile{
				Name: "Family", FilingStatus: domain.MarriedFilingJointly, Age: 40, SpouseAge: 38,
				Dependents: []domain.Dependent{{Name: "A", Age: 8}, {Name: "B", Age: 12}, {Name: "C", Age: 19}},
			},
			income:          domain.TaxableIncome{Wages: d("150000")},
			withheld:        "12000",
			expectedAGI:     "150000",
			expectedTaxable: "120000",
			expectedTax:     "12228.00",
			expectedRefund:  "-228.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := FederalInput{Year: domain.TaxYear2025, Profile: tt.profile, Income: tt.income, Credits: tt.credits}
			if tt.withheld != "" {
				in.Withheld = d(tt.withheld)
			}
			fc, err := calc.Calculate(in)
			require.NoError(t, err)
			r := fc.Result()
			assertMoney(t, tt.expectedAGI, r.AGI, "AGI")
			assertMoney(t, tt.expectedTaxable, r.TaxableIncome, "taxable income")
			assertMoney(t, tt.expectedTax, r.TaxAfterCredits, "tax after credits")
			assertMoney(t, tt.expectedRefund, r.RefundOrOwed, "refund or owed")
		})
	}
}

func TestFederalPreferentialSplit(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)
	fc, err := calc.Calculate(FederalInput{
		Year:    domain.TaxYear2025,
		Profile: single(),
		Income:  domain.TaxableIncome{Wages: d("60000"), DividendIncome: d("5000"), QualifiedDividends: d("5000"), CapitalGains: d("10000"), ShortTermCapitalGains: d("2000")},
	})
	require.NoError(t, err)
	r := fc.Result()
	assertMoney(t, "13000", r.PreferentialIncome)
	assertMoney(t, "47000", r.OrdinaryIncome)
	assertMoney(t, "5401.50", r.OrdinaryTax)
	assertMoney(t, "1747.50", r.PreferentialTax)
	assert.True(t, r.MarginalRate.Equal(d("0.22")))
	assert.Equal(t, domain.DeductionStandard, r.DeductionMethod)
}

func TestFederalSelfEmploymentTax(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)

	t.Run("below the wage base", func(t *testing.T) {
		se := calc.selfEmploymentTax(domain.TaxableIncome{SelfEmploymentIncome: d("100000")})
		assertMoney(t, "11451.40", se.SocialSecurity)
		assertMoney(t, "2678.15", se.Medicare)
		assertMoney(t, "14129.55", se.Tax)
		assert.True(t, se.Deduction.Equal(d("7064.775")))
	})

	t.Run("wages use most of the wage base", func(t *testing.T) {
		se := calc.selfEmploymentTax(domain.TaxableIncome{Wages: d("170000"), SelfEmploymentIncome: d("50000")})
		assertMoney(t, "756.40", se.SocialSecurity)
		assertMoney(t, "2095.48", se.Tax)
	})

	t.Run("losses owe nothing", func(t *testing.T) {
		se := calc.selfEmploymentTax(domain.TaxableIncome{SelfEmploymentIncome: d("-5000")})
		assert.True(t, se.Tax.IsZero())
	})
}

func TestAdditionalMedicareTax(t *testing.T) {
	assertMoney(t, "1350", AdditionalMedicareTax(d("400000"), d("0"), d("250000")))
	assertMoney(t, "90", AdditionalMedicareTax(d("210000"), d("0"), d("200000")))
	assertMoney(t, "0", AdditionalMedicareTax(d("150000"), d("0"), d("200000")))
	assertMoney(t, "90", AdditionalMedicareTax(d("190000"), d("20000"), d("200000")))
}

func TestNIIT(t *testing.T) {
	tests := []struct {
		name     string
		nii      string
		magi     string
		expected string
	}{
		{"excess smaller than NII", "50000", "210000", "380"},
		{"NII smaller than excess", "12000", "300000", "456"},
		{"NII eighteen thousand", "18000", "260000", "684"},
		{"at the threshold", "50000", "200000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.expected, NIIT(d(tt.nii), d(tt.magi), d("200000")))
		})
	}
}

func TestNetInvestmentIncome(t *testing.T) {
	income := domain.TaxableIncome{InterestIncome: d("4000"), DividendIncome: d("6000")}
	assertMoney(t, "7000", NetInvestmentIncome(income, d("-3000"), d("0")))
	assertMoney(t, "10000", NetInvestmentIncome(income, d("0"), d("-12000")))
	assertMoney(t, "15000", NetInvestmentIncome(income, d("0"), d("5000")))
	assertMoney(t, "0", NetInvestmentIncome(domain.TaxableIncome{}, d("-3000"), d("0")))
}

func TestChildTaxCredit(t *testing.T) {
	assertMoney(t, "4000", ChildTaxCredit(2, d("150000"), d("400000")))
	assertMoney(t, "1450", ChildTaxCredit(1, d("210500"), d("200000")))
	assertMoney(t, "0", ChildTaxCredit(1, d("300000"), d("200000")))
	assertMoney(t, "0", ChildTaxCredit(0, d("50000"), d("200000")))
}

func TestChildTaxCreditIsNonrefundable(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)
	fc, err := calc.Calculate(FederalInput{
		Year:    domain.TaxYear2025,
		Profile: single(),
		Income:  domain.TaxableIncome{Wages: d("20000")},
		Credits: domain.TaxCredits{NumQualifyingChildren: 3},
	})
	require.NoError(t, err)
	r := fc.Result()
	assertMoney(t, "500", r.TaxBeforeCredits)
	assertMoney(t, "6000", r.ChildTaxCredit)
	assertMoney(t, "0", r.TaxAfterCredits)
}

func TestCapitalLossCarryover(t *testing.T) {
	tests := []struct {
		name              string
		status            domain.FilingStatus
		gains             string
		carryover         string
		expectedNet       string
		expectedApplied   string
		expectedRemaining string
	}{
		{"gains absorb carryover", domain.Single, "5000", "3000", "2000", "3000", "0"},
		{"small loss within limit", domain.Single, "500", "3000", "-2500", "3000", "0"},
		{"loss beyond limit", domain.Single, "500", "10000", "-3000", "3500", "6500"},
		{"separate filer limit", domain.MarriedFilingSeparately, "0", "10000", "-1500", "1500", "8500"},
		{"no carryover", domain.Single, "4000", "0", "4000", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := applyCapitalLossCarryover(tt.status, domain.TaxableIncome{CapitalGains: d(tt.gains)}, d(tt.carryover))
			assertMoney(t, tt.expectedNet, c.NetCapitalGain)
			assertMoney(t, tt.expectedApplied, c.Summary.CarryoverApplied)
			assertMoney(t, tt.expectedRemaining, c.Summary.RemainingCarryover)
		})
	}
}

func TestFederalRentalLossLimited(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)
	fc, err := calc.Calculate(FederalInput{
		Year:    domain.TaxYear2025,
		Profile: single(),
		Income:  domain.TaxableIncome{Wages: d("130000"), RentalIncome: d("-20000")},
	})
	require.NoError(t, err)
	assertMoney(t, "10000", fc.ScheduleE.Allowance)
	assertMoney(t, "10000", fc.ScheduleE.PALDisallowed)
	assertMoney(t, "120000", fc.AGI)
}

func TestFederalSurtaxesInPipeline(t *testing.T) {
	calc := federalCalculator(t, domain.TaxYear2025)
	fc, err := calc.Calculate(FederalInput{
		Year:    domain.TaxYear2025,
		Profile: single(),
		Income:  domain.TaxableIncome{Wages: d("200000"), InterestIncome: d("10000")},
	})
	require.NoError(t, err)
	r := fc.Result()
	assertMoney(t, "380", r.NIIT)
	assertMoney(t, "0", r.AdditionalMedicareTax)
	assertMoney(t, r.OrdinaryTax.Add(r.NIIT).String(), r.TaxBeforeCredits)
}

func TestFederalMissingRulesFail(t *testing.T) {
	calc := NewFederalTaxCalculator(&FederalRules{Year: domain.TaxYear2025})
	_, err := calc.Calculate(FederalInput{Year: domain.TaxYear2025, Profile: single()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestPreferentialTaxBands(t *testing.T) {
	// all inside the zero band
	assertMoney(t, "0", PreferentialTax(d("20000"), d("10000"), d("48350"), d("533400")))
	// straddles the zero ceiling
	assertMoney(t, "247.50", PreferentialTax(d("45000"), d("5000"), d("48350"), d("533400")))
	// straddles the fifteen ceiling
	assertMoney(t, "18330.00", PreferentialTax(d("500000"), d("100000"), d("48350"), d("533400")))
}
