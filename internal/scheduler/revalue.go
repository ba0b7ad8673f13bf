package scheduler

import (
	"context"
	"fmt"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/output"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

// RevalueJob re-runs the valuation for every company in the data
// directory and persists a fresh batch summary.
type RevalueJob struct {
	schedule  string
	store     *loader.Store
	engine    *valuation.Engine
	outputDir string
	log       *logger.Logger
}

func NewRevalueJob(schedule string, store *loader.Store, engine *valuation.Engine, outputDir string, log *logger.Logger) *RevalueJob {
	return &RevalueJob{
		schedule:  schedule,
		store:     store,
		engine:    engine,
		outputDir: outputDir,
		log:       log,
	}
}

func (j *RevalueJob) Name() string     { return "revalue_watchlist" }
func (j *RevalueJob) Schedule() string { return j.schedule }

func (j *RevalueJob) Run(ctx context.Context) error {
	tickers, err := j.store.List()
	if err != nil {
		return fmt.Errorf("list watchlist: %w", err)
	}
	if len(tickers) == 0 {
		j.log.Warn("watchlist is empty, nothing to revalue")
		return nil
	}

	results, failed, err := j.engine.Batch(ctx, j.store, tickers)
	if err != nil {
		return err
	}

	summary := output.NewBatchSummary(results, failed)
	path, err := output.SaveBatchJSON(j.outputDir, summary)
	if err != nil {
		return err
	}

	j.log.WithFields(map[string]interface{}{
		"companies": len(summary.Results),
		"failed":    len(summary.Failed),
		"file":      path,
	}).Info("watchlist revalued")
	return nil
}
