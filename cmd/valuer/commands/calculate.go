package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/output"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
)

var calculateSave bool

var calculateCmd = &cobra.Command{
	Use:   "calculate <ticker>",
	Short: "Compute the intrinsic value for one company",
	Long: `Loads the company's JSON data file, runs every valuation method,
and prints the weighted intrinsic value with the full method breakdown,
weighting rationale, and risk assessment.

Example:
  valuer calculate AAPL
  valuer calculate NVO --save`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	calculateCmd.Flags().BoolVar(&calculateSave, "save", false, "save the result as JSON in the output directory")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	cfg, log, model, err := setup()
	if err != nil {
		return err
	}

	store := loader.NewStore(cfg.DataDir)
	engine := valuation.NewEngine(model, log)

	rec, err := store.Load(args[0])
	if err != nil {
		return err
	}

	result, err := engine.Calculate(rec)
	if err != nil {
		return err
	}

	if err := output.WriteReport(os.Stdout, result); err != nil {
		return err
	}

	if calculateSave {
		path, err := output.SaveJSON(cfg.OutputDir, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved to %s\n", path)
	}
	return nil
}
