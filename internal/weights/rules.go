package weights

import (
	"fmt"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// Adjustment deltas. Each rule documents its full effect here so the
// cascade can be audited without reading the rule bodies.
const (
	// Cyclical industries lean on asset and relative valuation and
	// away from long-horizon cash flow projections.
	cyclicalDCFDelta      = -0.05 // applied to both fcfe and fcff
	cyclicalEVEBITDADelta = 0.04
	cyclicalPEDelta       = 0.02
	cyclicalBookDelta     = 0.02
	cyclicalTangibleDelta = 0.01
	cyclicalLiqDelta      = 0.01

	// Mega caps have more stable earnings, so capitalized earnings and
	// dividends carry more signal than growth projections.
	largeCapFCFEShift = 0.04
	largeCapFCFFShift = 0.03
	largeCapDDMDelta  = 0.02

	// Highly levered firms: equity cash flow is fragile, firm-level
	// cash flow is the steadier lens.
	leverageShift = 0.10

	// High-beta names: discount-rate sensitivity makes DCF outputs
	// swing, relative multiples are steadier.
	betaDCFDelta      = -0.03 // each of fcfe, fcff
	betaDDMDelta      = -0.01
	betaPEDelta       = 0.04
	betaEVEBITDADelta = 0.03

	// Meaningful payers get a DDM boost funded from the DCF legs
	dividendDDMDelta = 0.06
	dividendDCFDelta = -0.03 // each of fcfe, fcff
)

func applyIndustryOverride(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	if !IsCyclical(ctx.Record, ctx.Cfg) {
		return out
	}
	add(out, contracts.MethodFCFE, cyclicalDCFDelta)
	add(out, contracts.MethodFCFF, cyclicalDCFDelta)
	add(out, contracts.MethodEVEBITDA, cyclicalEVEBITDADelta)
	add(out, contracts.MethodPERelative, cyclicalPEDelta)
	add(out, contracts.MethodBookValue, cyclicalBookDelta)
	add(out, contracts.MethodTangibleBookValue, cyclicalTangibleDelta)
	add(out, contracts.MethodLiquidationValue, cyclicalLiqDelta)
	ctx.Rationale = append(ctx.Rationale,
		fmt.Sprintf("cyclical industry %q: shifted weight from DCF toward relative and asset methods", ctx.Record.Industry))
	return out
}

func applySizeAdjustment(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	if ctx.Record.MarketData.MarketCap <= ctx.Cfg.LargeCapThreshold {
		return out
	}
	shift(out, contracts.MethodFCFE, contracts.MethodCapitalizedEarnings, largeCapFCFEShift)
	shift(out, contracts.MethodFCFF, contracts.MethodCapitalizedEarnings, largeCapFCFFShift)
	shift(out, contracts.MethodCapitalizedEarnings, contracts.MethodDDM, largeCapDDMDelta)
	ctx.Rationale = append(ctx.Rationale,
		"large cap: shifted weight from DCF toward capitalized earnings and dividends")
	return out
}

func applyLeverageAdjustment(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	de := ctx.Record.KeyRatios.Leverage.DebtToEquity
	if de == nil || *de <= ctx.Cfg.LeverageThreshold {
		return out
	}
	shift(out, contracts.MethodFCFE, contracts.MethodFCFF, leverageShift)
	ctx.Rationale = append(ctx.Rationale,
		fmt.Sprintf("high leverage (D/E %.2f): shifted weight from FCFE toward FCFF", *de))
	return out
}

func applyCyclicalityAdjustment(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	if ctx.Record.MarketData.Beta <= ctx.Cfg.BetaThreshold {
		return out
	}
	add(out, contracts.MethodFCFE, betaDCFDelta)
	add(out, contracts.MethodFCFF, betaDCFDelta)
	add(out, contracts.MethodDDM, betaDDMDelta)
	add(out, contracts.MethodPERelative, betaPEDelta)
	add(out, contracts.MethodEVEBITDA, betaEVEBITDADelta)
	ctx.Rationale = append(ctx.Rationale,
		fmt.Sprintf("high beta (%.2f): shifted weight from DCF toward relative multiples", ctx.Record.MarketData.Beta))
	return out
}

func applyDividendAdjustment(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	y := dividendYield(ctx.Record)
	if y <= ctx.Cfg.DividendYieldThreshold {
		return out
	}
	add(out, contracts.MethodDDM, dividendDDMDelta)
	add(out, contracts.MethodFCFE, dividendDCFDelta)
	add(out, contracts.MethodFCFF, dividendDCFDelta)
	ctx.Rationale = append(ctx.Rationale,
		fmt.Sprintf("meaningful dividend yield (%.1f%%): boosted dividend discount weight", y*100))
	return out
}

// applyQualityDampening halves the weight of methods whose implied
// upside is extreme and excludes methods that produced no usable value.
func applyQualityDampening(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	var dampened, excluded int
	for key := range out {
		res, ok := ctx.Results[key]
		if !ok || res.NotApplicable || res.ValuePerShare <= 0 {
			out[key] = 0
			excluded++
			continue
		}
		abs := res.UpsidePct
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs > ctx.Cfg.ExcludeUpsidePct:
			out[key] = 0
			excluded++
		case abs > ctx.Cfg.DampenUpsidePct:
			out[key] /= 2
			dampened++
		}
	}
	if dampened > 0 || excluded > 0 {
		ctx.Rationale = append(ctx.Rationale,
			fmt.Sprintf("quality screen: excluded %d method(s), dampened %d outlier(s)", excluded, dampened))
	}
	return out
}

// applyAssetFloor keeps a small book value anchor for cyclical names
// whose book weight was zeroed, provided tangible book is still positive.
func applyAssetFloor(w contracts.WeightSet, ctx *Context) contracts.WeightSet {
	out := w.Clone()
	if !IsCyclical(ctx.Record, ctx.Cfg) || out[contracts.MethodBookValue] != 0 {
		return out
	}
	tb, ok := ctx.Results[contracts.MethodTangibleBookValue]
	if !ok || tb.NotApplicable || tb.ValuePerShare <= 0 {
		return out
	}
	out[contracts.MethodBookValue] = ctx.Cfg.AssetFloorWeight
	ctx.Rationale = append(ctx.Rationale,
		"asset floor: restored a minimum book value weight for cyclical company")
	return out
}
