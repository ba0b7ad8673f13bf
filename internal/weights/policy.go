// Package weights implements the dynamic weighting policy: a fixed base
// vector adjusted by an ordered list of pure rules, then renormalized.
// The rule order is part of the contract: industry -> size -> leverage ->
// cyclicality -> dividend -> quality -> asset floor -> normalize.
package weights

import (
	"fmt"
	"strings"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
)

// Context carries the read-only inputs every rule may consult
type Context struct {
	Record  *contracts.CompanyRecord
	Results map[contracts.MethodKey]contracts.MethodResult
	Cfg     *modelconfig.Weighting

	// Rationale collects one human-readable line per rule that fired
	Rationale []string
}

// Rule is one pure weight adjustment: it takes a WeightSet and returns
// a new one, never mutating its input.
type Rule struct {
	Name  string
	Apply func(w contracts.WeightSet, ctx *Context) contracts.WeightSet
}

// Rules returns the adjustment cascade in contract order
func Rules() []Rule {
	return []Rule{
		{Name: "industry", Apply: applyIndustryOverride},
		{Name: "size", Apply: applySizeAdjustment},
		{Name: "leverage", Apply: applyLeverageAdjustment},
		{Name: "cyclicality", Apply: applyCyclicalityAdjustment},
		{Name: "dividend", Apply: applyDividendAdjustment},
		{Name: "quality", Apply: applyQualityDampening},
		{Name: "assetFloor", Apply: applyAssetFloor},
	}
}

// Compute folds the rule cascade over the configured base vector and
// normalizes the outcome. Fails with ErrAllMethodsExcluded when every
// method has been zeroed.
func Compute(rec *contracts.CompanyRecord, results map[contracts.MethodKey]contracts.MethodResult, cfg *modelconfig.Config) (contracts.WeightSet, []string, error) {
	ctx := &Context{
		Record:  rec,
		Results: results,
		Cfg:     &cfg.Weighting,
	}

	w := cfg.BaseWeights()
	for _, rule := range Rules() {
		w = rule.Apply(w, ctx)
	}

	if err := w.Normalize(); err != nil {
		return nil, ctx.Rationale, fmt.Errorf("weighting policy: %w", err)
	}

	return w, ctx.Rationale, nil
}

// IsCyclical reports whether the industry or sector text matches one of
// the configured heavy/cyclical keywords.
func IsCyclical(rec *contracts.CompanyRecord, cfg *modelconfig.Weighting) bool {
	haystack := strings.ToLower(rec.Industry + " " + rec.Sector)
	for _, kw := range cfg.CyclicalKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// dividendYield prefers the reported yield, falling back to latest
// dividend over price.
func dividendYield(rec *contracts.CompanyRecord) float64 {
	if rec.DividendInfo != nil && rec.DividendInfo.CurrentDividendYield > 0 {
		return rec.DividendInfo.CurrentDividendYield
	}
	_, latest := rec.LatestYear()
	if latest.Dividend > 0 && rec.MarketData.CurrentPrice > 0 {
		return latest.Dividend / rec.MarketData.CurrentPrice
	}
	return 0
}

// shift moves weight between two methods, clamping both at zero
func shift(w contracts.WeightSet, from, to contracts.MethodKey, amount float64) {
	moved := amount
	if w[from] < moved {
		moved = w[from]
	}
	w[from] -= moved
	w[to] += moved
}

// add applies a signed delta, clamping at zero
func add(w contracts.WeightSet, key contracts.MethodKey, delta float64) {
	w[key] += delta
	if w[key] < 0 {
		w[key] = 0
	}
}
