package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yingxuan/tax-return-tool/internal/config"
	"github.com/yingxuan/tax-return-tool/internal/output"
)

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringP("format", "f", "console", "Output format: console, console-lite, csv, detailed-csv, json")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
}

var calculateCmd = &cobra.Command{
	Use:   "calculate PROFILE",
	Short: "Compute one return from a YAML profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalculate,
}

func runCalculate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outFile, _ := cmd.Flags().GetString("output")

	formatter, err := output.GetFormatterByName(format)
	if err != nil {
		return err
	}
	input, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	result, err := engine.Calculate(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("calculating %s: %w", args[0], err)
	}
	logger.Debug("return computed", "id", result.ID, "taxpayer", result.Taxpayer)

	if outFile != "" {
		written, err := output.GenerateReport(result, format, outFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", written)
		return nil
	}
	data, err := formatter.Format(result)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
