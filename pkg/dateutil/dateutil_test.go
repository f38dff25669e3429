package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHalfMonthsInService(t *testing.T) {
	placed := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		placed time.Time
		year   int
		want   int
	}{
		{"before placement", placed, 2023, 0},
		{"June placement year", placed, 2024, 13},
		{"following year", placed, 2025, 24},
		{"January placement", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 2024, 23},
		{"December placement", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 2024, 1},
		{"zero date", time.Time{}, 2024, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HalfMonthsInService(tt.placed, tt.year))
		})
	}
}

func TestRecoveryYearIndex(t *testing.T) {
	placed := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, RecoveryYearIndex(placed, 2019))
	assert.Equal(t, 1, RecoveryYearIndex(placed, 2020))
	assert.Equal(t, 6, RecoveryYearIndex(placed, 2025))
	assert.Equal(t, 0, RecoveryYearIndex(time.Time{}, 2025))
}
