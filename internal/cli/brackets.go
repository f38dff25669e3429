package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yingxuan/tax-return-tool/internal/calculation"
	"github.com/yingxuan/tax-return-tool/internal/domain"
	"github.com/yingxuan/tax-return-tool/internal/output"
)

func init() {
	rootCmd.AddCommand(bracketsCmd)

	bracketsCmd.Flags().IntP("year", "y", int(domain.TaxYear2025), "Tax year")
	bracketsCmd.Flags().StringP("status", "s", "single", "Filing status")
	bracketsCmd.Flags().StringP("jurisdiction", "j", "federal", "federal or a state code (CA, NY, NJ, PA)")
	bracketsCmd.Flags().String("income", "", "Also show the tax on this taxable income")
}

var bracketsCmd = &cobra.Command{
	Use:   "brackets",
	Short: "Print a bracket table from the active rules",
	Args:  cobra.NoArgs,
	RunE:  runBrackets,
}

func runBrackets(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	statusFlag, _ := cmd.Flags().GetString("status")
	jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
	incomeFlag, _ := cmd.Flags().GetString("income")

	status, err := domain.ParseFilingStatus(statusFlag)
	if err != nil {
		return err
	}
	jurisdiction, err = calculation.NormalizeJurisdiction(jurisdiction)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	table, err := engine.Rules.TableFor(jurisdiction, domain.TaxYear(year), status)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d brackets, %s\n", jurisdiction, year, status)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Rate\tFrom\tTo\t")
	for _, b := range table {
		upper := "and over"
		if !b.Unbounded() {
			upper = output.FormatCurrency(b.Max)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", output.FormatRate(b.Rate), output.FormatCurrency(b.Min), upper)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if incomeFlag != "" {
		income, err := decimal.NewFromString(incomeFlag)
		if err != nil {
			return fmt.Errorf("invalid --income %q: %w", incomeFlag, err)
		}
		fmt.Fprintf(out, "Tax on %s: %s (marginal rate %s)\n",
			output.FormatCurrency(income), output.FormatCurrency(table.Tax(income).Round(2)), output.FormatRate(table.MarginalRate(income)))
	}
	return nil
}
