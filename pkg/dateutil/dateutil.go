// Package dateutil holds calendar helpers for the mid-month depreciation convention.
package dateutil

import (
	"time"
)

// HalfMonthsInService returns how many half-months an asset placed in service
// on placed is treated as in service during year under the mid-month
// convention. The placement month always counts as one half-month, so the
// first year yields 2*(12-M)+1 and every later year yields 24.
func HalfMonthsInService(placed time.Time, year int) int {
	switch {
	case placed.IsZero() || year < placed.Year():
		return 0
	case year == placed.Year():
		return 2*(12-int(placed.Month())) + 1
	default:
		return 24
	}
}

// RecoveryYearIndex returns the 1-based recovery year of year for an asset placed
// in service on placed, or 0 when year precedes placement.
func RecoveryYearIndex(placed time.Time, year int) int {
	if placed.IsZero() || year < placed.Year() {
		return 0
	}
	return year - placed.Year() + 1
}
