package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yingxuan/tax-return-tool/internal/config"
	"github.com/yingxuan/tax-return-tool/internal/output"
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("parallel", "p", 0, "Returns computed at once (0 uses every CPU)")
	batchCmd.Flags().StringP("format", "f", "csv", "Output format: csv or json")
	batchCmd.Flags().StringP("output", "o", "", "Write results to this file instead of stdout")
}

var batchCmd = &cobra.Command{
	Use:   "batch MANIFEST",
	Short: "Compute every return listed in a manifest",
	Long: `Compute every return listed in a YAML manifest of profile paths. Returns
are independent: a profile that fails to load or compute is reported on its
own row and does not stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	parallel, _ := cmd.Flags().GetInt("parallel")
	format, _ := cmd.Flags().GetString("format")
	outFile, _ := cmd.Flags().GetString("output")

	inputs, paths, loadErrs, err := config.NewInputParser().LoadBatch(args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	engine.Parallelism = parallel

	br := engine.CalculateBatch(cmd.Context(), inputs)
	errs := make([]error, len(inputs))
	for i := range inputs {
		if loadErrs[i] != nil {
			errs[i] = loadErrs[i]
			br.Results[i] = nil
			continue
		}
		errs[i] = br.Errors[i]
	}

	var data []byte
	switch output.NormalizeFormatName(format) {
	case "csv":
		data, err = output.FormatBatchCSV(br.Results, paths, errs)
	case "json":
		data, err = output.FormatBatchJSON(br.RunID, br.Results, errs)
	default:
		return fmt.Errorf("%w: %q. Batch output supports csv and json", output.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, data, 0644); err != nil {
			return err
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	summary := output.AnalyzeBatch(br.Results)
	logger.Info("batch complete",
		"run_id", br.RunID,
		"returns", summary.Returns,
		"failed", summary.Failed,
		"federal_tax", summary.TotalFederalTax.StringFixed(2),
		"state_tax", summary.TotalStateTax.StringFixed(2),
		"refund_or_owed", summary.TotalRefundOrOwed.StringFixed(2))
	if summary.LargestDue != "" {
		logger.Info("largest balance due", "taxpayer", summary.LargestDue, "amount", summary.LargestDueAmount.StringFixed(2))
	}
	for i, e := range errs {
		if e != nil {
			logger.Warn("return failed", "profile", paths[i], "error", e)
		}
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d returns failed", summary.Failed, len(inputs))
	}
	return nil
}
