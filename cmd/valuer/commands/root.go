package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/config"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

var (
	// Global flags
	dataDir   string
	outputDir string
	modelPath string
	verbose   bool
)

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "valuer",
	Short: "Weighted intrinsic-value calculator for public companies",
	Long: `Valuer computes the intrinsic value of a company by blending ten
valuation methods (DCF, dividend, relative, asset, and earnings based)
with weights adapted to the company's industry, size, leverage, and
data quality.

Company data files live in the data directory, one JSON file per
ticker. Results print to the console and save as JSON.

Examples:
  valuer calculate AAPL
  valuer batch AAPL MSFT NVO
  valuer validate data/aapl.json
  valuer api --port 8087
  valuer schedule --cron "@daily"`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory of company JSON files (default $DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for saved results (default $OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model-config", "", "YAML override for model constants (default $MODEL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads configuration and builds the shared logger and model
// config, applying flag overrides on top of the environment.
func setup() (*config.Config, *logger.Logger, *modelconfig.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if modelPath != "" {
		cfg.ModelConfigPath = modelPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	model := modelconfig.Default()
	if cfg.ModelConfigPath != "" {
		model, err = modelconfig.Load(cfg.ModelConfigPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load model config: %w", err)
		}
		log.WithField("path", cfg.ModelConfigPath).Info("loaded model config overrides")
	}

	return cfg, log, model, nil
}
