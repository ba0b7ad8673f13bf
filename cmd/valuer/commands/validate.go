package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file...>",
	Short: "Check company data files without running a valuation",
	Long: `Decodes and validates each JSON file, reporting the first problem
found per file. Exits non-zero if any file is invalid.

Example:
  valuer validate data/aapl.json data/nvo.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			invalid++
			continue
		}
		rec, err := loader.Parse(data)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			invalid++
			continue
		}
		fmt.Printf("OK    %s (%s, %d years of history)\n", path, rec.Ticker, len(rec.FinancialHistory))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d file(s) invalid", invalid, len(args))
	}
	return nil
}
