package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingxuan/tax-return-tool/internal/config"
)

const testdata = "../../test/testdata"

// execute runs the command tree with every flag back at its default
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	err := run(append([]string{"--log-level", "error"}, args...), &out)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestCalculateCommand(t *testing.T) {
	out, err := execute(t, "calculate", filepath.Join(testdata, "single_ca.yaml"), "--format", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, out, "Jordan Example (2025, Single)")
	assert.Contains(t, out, "Tax=$13,614.00")
	assert.Contains(t, out, "CA: AGI=$100,000.00")
	assert.Contains(t, out, "RefundOrOwed=-$1,797.14")
}

func TestCalculateCommand_VerboseReport(t *testing.T) {
	out, err := execute(t, "calculate", filepath.Join(testdata, "texas_wages.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "TX has no state income tax")
	assert.Contains(t, out, "$786.00")
}

func TestCalculateCommand_WritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "jordan.json")
	out, err := execute(t, "calculate", filepath.Join(testdata, "single_ca.yaml"), "-f", "json", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Jordan Example", doc["taxpayer"])
}

func TestCalculateCommand_Errors(t *testing.T) {
	_, err := execute(t, "calculate", filepath.Join(testdata, "invalid_status.yaml"))
	assert.ErrorContains(t, err, "widowed")

	_, err = execute(t, "calculate", filepath.Join(testdata, "single_ca.yaml"), "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = execute(t, "calculate")
	assert.Error(t, err)
}

func TestCalculateCommand_RuleOverrides(t *testing.T) {
	out, err := execute(t, "--rules", filepath.Join(testdata, "rules_2025_two_rate.yaml"),
		"calculate", filepath.Join(testdata, "texas_wages.yaml"), "-f", "console-lite")
	require.NoError(t, err)
	// 50,000 at 10% plus 15,000 at 20%
	assert.Contains(t, out, "Tax=$8,000.00")
	assert.Contains(t, out, "RefundOrOwed=$2,000.00")
}

func TestBatchCommand_CSV(t *testing.T) {
	out, err := execute(t, "batch", filepath.Join(testdata, "batch_ok.yaml"), "--parallel", "2")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Jordan Example", records[1][1])
	assert.Equal(t, "13614.00", records[1][7])
	assert.Equal(t, "Casey Texas", records[2][1])
	assert.Equal(t, "no_income_tax", records[2][10])
	assert.Equal(t, "NY", records[3][9])
	assert.Equal(t, "computed", records[3][10])
	assert.Empty(t, records[3][15])
}

func TestBatchCommand_ReportsFailedProfiles(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "batch.json")
	_, err := execute(t, "batch", filepath.Join(testdata, "batch.yaml"), "-f", "json", "-o", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 returns failed")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var doc struct {
		RunID   string `json:"run_id"`
		Returns []struct {
			Result *struct {
				Taxpayer string `json:"taxpayer"`
			} `json:"result"`
			Error string `json:"error"`
		} `json:"returns"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc.RunID)
	require.Len(t, doc.Returns, 3)
	assert.Equal(t, "Jordan Example", doc.Returns[0].Result.Taxpayer)
	assert.Equal(t, "Casey Texas", doc.Returns[1].Result.Taxpayer)
	assert.Nil(t, doc.Returns[2].Result)
	assert.Contains(t, doc.Returns[2].Error, "widowed")
}

func TestBatchCommand_RejectsReportFormats(t *testing.T) {
	_, err := execute(t, "batch", filepath.Join(testdata, "batch_ok.yaml"), "-f", "console")
	assert.ErrorContains(t, err, "csv and json")
}

func TestBracketsCommand(t *testing.T) {
	out, err := execute(t, "brackets", "--year", "2025", "--status", "single", "--income", "65000")
	require.NoError(t, err)
	assert.Contains(t, out, "federal 2025 brackets, single")
	assert.Contains(t, out, "37.00%")
	assert.Contains(t, out, "and over")
	assert.Contains(t, out, "Tax on $65,000.00: $9,214.00 (marginal rate 22.00%)")

	out, err = execute(t, "brackets", "-j", "pennsylvania", "-s", "mfj")
	require.NoError(t, err)
	assert.Contains(t, out, "PA 2025 brackets")
	assert.Contains(t, out, "3.07%")

	_, err = execute(t, "brackets", "--year", "2019")
	assert.ErrorContains(t, err, "configuration error")

	_, err = execute(t, "brackets", "-j", "TX")
	assert.ErrorContains(t, err, "configuration error")
}

func TestExampleCommand(t *testing.T) {
	out, err := execute(t, "example")
	require.NoError(t, err)
	assert.Contains(t, out, "418 Harbor View Ln")

	dest := filepath.Join(t.TempDir(), "example.yaml")
	_, err = execute(t, "example", "--output", dest)
	require.NoError(t, err)
	input, err := config.NewInputParser().LoadFromFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Alex and Sam Rivera", input.Taxpayer.Name)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		_, err := parseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseLevel("chatty")
	assert.Error(t, err)
}
