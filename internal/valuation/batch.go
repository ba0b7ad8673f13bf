package valuation

import (
	"context"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// RecordSource supplies company records by ticker
type RecordSource interface {
	Load(ticker string) (*contracts.CompanyRecord, error)
}

// Batch runs the engine over a list of tickers. Per-ticker failures do
// not abort the run; they are returned keyed by ticker. Respects
// context cancellation between tickers.
func (e *Engine) Batch(ctx context.Context, src RecordSource, tickers []string) ([]*contracts.IntrinsicValueResult, map[string]string, error) {
	results := make([]*contracts.IntrinsicValueResult, 0, len(tickers))
	failed := make(map[string]string)

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return results, failed, err
		}

		rec, err := src.Load(ticker)
		if err != nil {
			failed[ticker] = err.Error()
			e.log.WithError(err).WithField("ticker", ticker).Warn("skipping ticker")
			continue
		}

		res, err := e.Calculate(rec)
		if err != nil {
			failed[ticker] = err.Error()
			e.log.WithError(err).WithField("ticker", ticker).Warn("valuation failed")
			continue
		}
		results = append(results, res)
	}
	return results, failed, nil
}
