package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/output"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
)

var batchSave bool

var batchCmd = &cobra.Command{
	Use:   "batch [ticker...]",
	Short: "Value multiple companies and print a comparison table",
	Long: `Runs the valuation for each given ticker, or for every company in
the data directory when no tickers are given. Companies that fail to
load or value are reported and skipped; the rest are ranked by upside.

Example:
  valuer batch
  valuer batch AAPL MSFT NVO --save`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "save the batch summary as JSON in the output directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, log, model, err := setup()
	if err != nil {
		return err
	}

	store := loader.NewStore(cfg.DataDir)
	engine := valuation.NewEngine(model, log)

	tickers := args
	if len(tickers) == 0 {
		tickers, err = store.List()
		if err != nil {
			return err
		}
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no company data files in %s", cfg.DataDir)
	}

	results, failed, err := engine.Batch(cmd.Context(), store, tickers)
	if err != nil {
		return err
	}

	summary := output.NewBatchSummary(results, failed)
	if err := summary.WriteComparison(os.Stdout); err != nil {
		return err
	}

	if batchSave {
		path, err := output.SaveBatchJSON(cfg.OutputDir, summary)
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved to %s\n", path)
	}
	return nil
}
