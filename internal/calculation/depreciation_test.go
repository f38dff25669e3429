package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDepreciationSchedule(t *testing.T) {
	placed := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	ds := NewDepreciationSchedule(d("670000"), placed)

	assertMoney(t, "24363.64", ds.AnnualAmount())

	tests := []struct {
		name     string
		year     int
		expected string
	}{
		{"before placed in service", 2023, "0"},
		{"placed in service mid-June", 2024, "13196.97"},
		{"first full year", 2025, "24363.64"},
		{"last full year", 2051, "23348.48"},
		{"fully recovered", 2052, "0"},
		{"long after recovery", 2060, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.expected, ds.ForYear(tt.year))
		})
	}
}

func TestDepreciationNeverExceedsBasis(t *testing.T) {
	placed := time.Date(2010, time.January, 3, 0, 0, 0, 0, time.UTC)
	ds := NewDepreciationSchedule(d("275000"), placed)

	total := d("0")
	for year := 2005; year <= 2045; year++ {
		amount := ds.ForYear(year)
		assert.False(t, amount.IsNegative(), "year %d", year)
		total = total.Add(amount)
	}
	assertMoney(t, "275000", total)
}

func TestDepreciationZeroBasis(t *testing.T) {
	ds := NewDepreciationSchedule(d("0"), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ds.ForYear(2024).IsZero())
	assert.True(t, ds.AnnualAmount().IsZero())
}

func TestDepreciationUnknownPlacedDateAssumesFullYear(t *testing.T) {
	ds := NewDepreciationSchedule(d("300000"), time.Time{})
	assertMoney(t, "10909.09", ds.ForYear(2024))
	assertMoney(t, "10909.09", ds.ForYear(2025))

	dated := NewDepreciationSchedule(d("300000"), time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	assertMoney(t, dated.ForYear(2024).StringFixed(2), ds.ForYear(2024))
}
