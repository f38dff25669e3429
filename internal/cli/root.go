package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yingxuan/tax-return-tool/internal/calculation"
	"github.com/yingxuan/tax-return-tool/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "taxcalc",
	Short: "Compute federal and state income tax for a household",
	Long: `taxcalc computes a household's federal and state income tax for one tax
year from a YAML return profile. It applies Schedule A and Schedule E rules,
capital gain rates, self-employment and surtaxes, then the residence state's
return for California, New York, New Jersey or Pennsylvania.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var logger = slog.Default()

func init() {
	rootCmd.PersistentFlags().String("log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("rules", "", "YAML file overriding the built-in federal rule tables")
}

// Execute runs the root command with os.Args
func Execute() error {
	return rootCmd.Execute()
}

// run executes the command tree with explicit arguments and output, for tests
func run(args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	l, err := newLogger(level, os.Stderr)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// newEngine builds a calculation engine over the built-in rules, patched by
// --rules when given.
func newEngine(cmd *cobra.Command) (*calculation.CalculationEngine, error) {
	rules := calculation.DefaultRuleBook()
	if path, _ := cmd.Flags().GetString("rules"); path != "" {
		patched, err := config.NewInputParser().LoadRuleOverrides(path, rules)
		if err != nil {
			return nil, fmt.Errorf("loading rules %s: %w", path, err)
		}
		logger.Info("rule overrides applied", "file", path)
		rules = patched
	}
	engine := calculation.NewCalculationEngineWithRules(rules)
	engine.SetLogger(calculation.NewSlogLogger(logger))
	return engine, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
