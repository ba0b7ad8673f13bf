package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/scheduler"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
)

var scheduleCron string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run recurring valuations for every company in the data directory",
	Long: `Starts a long-running process that revalues the whole data directory
on a cron schedule and saves a batch summary each run.

Example:
  valuer schedule
  valuer schedule --cron "0 18 * * MON-FRI"`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "@daily", "cron expression for the revaluation job")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, model, err := setup()
	if err != nil {
		return err
	}

	store := loader.NewStore(cfg.DataDir)
	engine := valuation.NewEngine(model, log)

	sched := scheduler.New(log)
	job := scheduler.NewRevalueJob(scheduleCron, store, engine, cfg.OutputDir, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	sched.Start()
	fmt.Printf("Revaluing %s on schedule %q, press Ctrl+C to stop\n", cfg.DataDir, scheduleCron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
