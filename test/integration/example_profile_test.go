package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingxuan/tax-return-tool/internal/calculation"
	"github.com/yingxuan/tax-return-tool/internal/config"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	"github.com/yingxuan/tax-return-tool/internal/output"
)

// The example profile should survive a save and reload and compute cleanly
func TestExampleProfileRoundTrip(t *testing.T) {
	parser := config.NewInputParser()
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, output.SaveConfiguration(parser.CreateExampleConfiguration(), path))

	input, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, input.RentalProperties, 1)
	assert.Len(t, input.EstimatedPayments, 3)

	result, err := calculation.NewCalculationEngine().Calculate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.MarriedFilingJointly, result.FilingStatus)
	assertMoney(t, "3000", result.Federal.EstimatedPayments)
	assertMoney(t, "4000", result.Federal.ChildTaxCredit)
	require.Equal(t, domain.StateComputed, result.State.Status)
	assert.Equal(t, "California", result.State.Result.Name)
	assertMoney(t, "500", result.State.Result.EstimatedPayments)
	assertMoney(t, "9800", result.State.Result.Withheld)
	assert.Empty(t, result.UnappliedPayments)
}
