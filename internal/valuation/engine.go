package valuation

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/fx"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/risk"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/weights"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

// Recommendation thresholds in percent. First matching rule wins,
// comparisons are strict.
const (
	strongBuyUpside = 20.0
	strongBuyMargin = 15.0
	buyUpside       = 10.0
	buyMargin       = 10.0
	holdUpside      = 0.0
	holdMargin      = 5.0
	sellUpside      = -10.0
)

// Engine runs the full pipeline for one record: validate, normalize to
// USD, evaluate every method, weight, aggregate, classify.
type Engine struct {
	cfg *modelconfig.Config
	log *logger.Logger
}

func NewEngine(cfg *modelconfig.Config, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// Calculate produces the weighted intrinsic value result for one record.
// It fails on invalid input or when the weighting policy excludes every
// method; individual method failures are reported inside the result.
func (e *Engine) Calculate(rec *contracts.CompanyRecord) (*contracts.IntrinsicValueResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}

	norm, report := fx.Normalize(rec)
	if report.Converted {
		e.log.WithFields(map[string]interface{}{
			"ticker":   norm.Ticker,
			"from":     report.OriginalCurrency,
			"rate":     report.Rate,
			"fallback": report.RateFallback,
		}).Debug("normalized record currency")
	}

	methods := NewMethods(e.cfg, norm)
	results := methods.All()

	byKey := make(map[contracts.MethodKey]contracts.MethodResult, len(results))
	for _, r := range results {
		byKey[r.Method] = r
	}

	w, rationale, err := weights.Compute(norm, byKey, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", norm.Ticker, err)
	}

	price := norm.MarketData.CurrentPrice
	intrinsic := 0.0
	for key, weight := range w {
		intrinsic += weight * byKey[key].ValuePerShare
	}

	upside := (intrinsic/price - 1) * 100
	margin := 0.0
	if intrinsic > 0 {
		margin = (intrinsic - price) / intrinsic * 100
		if margin < 0 {
			margin = 0
		}
	}

	result := &contracts.IntrinsicValueResult{
		Ticker:            norm.Ticker,
		CompanyName:       norm.CompanyName,
		CurrentPrice:      price,
		IntrinsicValue:    intrinsic,
		UpsidePct:         upside,
		MarginOfSafetyPct: margin,
		Recommendation:    recommend(upside, margin),
		Confidence:        e.confidence(norm.Ticker, results),
		Methods:           results,
		Weights:           w,
		WeightRationale:   rationale,
		Risk:              risk.Score(norm),
		Dividend:          dividendAnalysis(norm),
		CurrencyConverted: report.Converted,
		ConversionRate:    report.Rate,
		RateFallback:      report.RateFallback,
		CalculatedAt:      time.Now().UTC(),
	}
	return result, nil
}

// recommend maps upside and margin of safety to a discrete call.
// Rules are checked top-down; the first match wins.
func recommend(upsidePct, marginPct float64) contracts.Recommendation {
	switch {
	case upsidePct > strongBuyUpside && marginPct > strongBuyMargin:
		return contracts.StrongBuy
	case upsidePct > buyUpside && marginPct > buyMargin:
		return contracts.Buy
	case upsidePct > holdUpside && marginPct > holdMargin:
		return contracts.Hold
	case upsidePct > sellUpside:
		return contracts.Hold
	default:
		return contracts.Sell
	}
}

// confidence bands the coefficient of variation across the applicable
// method values. Weights are deliberately ignored here: confidence
// measures raw cross-method agreement.
func (e *Engine) confidence(ticker string, results []contracts.MethodResult) contracts.Confidence {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if !r.NotApplicable {
			values = append(values, r.ValuePerShare)
		}
	}
	if len(values) < 2 {
		return contracts.ConfidenceLow
	}

	mean := stat.Mean(values, nil)
	if mean == 0 {
		e.log.WithField("ticker", ticker).Warn("method values average to zero, confidence forced low")
		return contracts.ConfidenceLow
	}

	cv := stat.PopStdDev(values, nil) / mean
	if cv < 0 {
		cv = -cv
	}
	switch {
	case cv < e.cfg.Confidence.HighCV:
		return contracts.ConfidenceHigh
	case cv < e.cfg.Confidence.MediumCV:
		return contracts.ConfidenceMedium
	default:
		return contracts.ConfidenceLow
	}
}

func dividendAnalysis(rec *contracts.CompanyRecord) *contracts.DividendAnalysis {
	info := rec.DividendInfo
	if info == nil {
		return nil
	}
	yield := info.CurrentDividendYield
	if yield == 0 && rec.MarketData.CurrentPrice > 0 {
		yield = info.CurrentAnnualDividend / rec.MarketData.CurrentPrice
	}
	return &contracts.DividendAnalysis{
		AnnualDividend: info.CurrentAnnualDividend,
		Yield:          yield,
		PayoutRatio:    info.PayoutRatio,
		GrowthRate:     rec.Assumptions.DividendGrowthRate,
	}
}
