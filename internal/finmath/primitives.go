// Package finmath holds the shared financial primitives used by every
// valuation method: CAPM cost of equity, WACC, CAGR, and the Gordon
// growth terminal value.
package finmath

import (
	"errors"
	"math"
)

// ErrTerminalGrowthTooHigh flags a Gordon terminal value with a
// non-positive denominator. Callers must treat the value as undefined,
// never compute through it.
var ErrTerminalGrowthTooHigh = errors.New("discount rate must exceed terminal growth rate")

// CostOfEquity computes the CAPM required return:
// riskFree + beta*marketRiskPremium + specificRiskPremium.
// No smoothing, no caps: a pathological beta propagates.
func CostOfEquity(riskFree, beta, marketRiskPremium, specificRiskPremium float64) float64 {
	return riskFree + beta*marketRiskPremium + specificRiskPremium
}

// WACC blends cost of equity and after-tax cost of debt by market-value
// weights: wE*CoE + wD*CoD*(1-tax). Debt weight uses book total debt as
// a proxy for market value. Zero total capital degenerates to pure
// equity funding.
func WACC(marketCap, totalDebt, costOfEquity, costOfDebt, taxRate float64) float64 {
	total := marketCap + totalDebt
	if total <= 0 {
		return costOfEquity
	}
	weightEquity := marketCap / total
	weightDebt := totalDebt / total
	return weightEquity*costOfEquity + weightDebt*costOfDebt*(1-taxRate)
}

// CAGR computes the compound growth rate of an ordered series:
// (end/begin)^(1/n) - 1 with n = len(values). A single-value series has
// no elapsed period and returns exactly 0, as does a series whose
// endpoints would make the root undefined.
func CAGR(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	begin := values[0]
	end := values[len(values)-1]
	if begin <= 0 || end <= 0 {
		return 0
	}
	periods := float64(len(values))
	return math.Pow(end/begin, 1/periods) - 1
}

// TerminalValue computes the Gordon growth perpetuity
// nextCashFlow / (discountRate - terminalGrowth). The value is
// undefined when discountRate <= terminalGrowth.
func TerminalValue(nextCashFlow, discountRate, terminalGrowth float64) (float64, error) {
	if discountRate <= terminalGrowth {
		return 0, ErrTerminalGrowthTooHigh
	}
	return nextCashFlow / (discountRate - terminalGrowth), nil
}

// PresentValue discounts a future amount back n periods
func PresentValue(futureValue, discountRate float64, periods int) float64 {
	return futureValue / math.Pow(1+discountRate, float64(periods))
}
