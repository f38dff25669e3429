package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yingxuan/tax-return-tool/internal/config"
	"github.com/yingxuan/tax-return-tool/internal/output"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().StringP("output", "o", "", "Write the profile to this file instead of stdout")
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example return profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		example := config.NewInputParser().CreateExampleConfiguration()
		if outFile, _ := cmd.Flags().GetString("output"); outFile != "" {
			if err := output.SaveConfiguration(example, outFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example profile written to %s\n", outFile)
			return nil
		}
		data, err := yaml.Marshal(example)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
