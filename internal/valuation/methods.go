// Package valuation implements the individual valuation methods and the
// engine that combines them into one weighted intrinsic value.
//
// Every method is a pure function of a normalized record plus the model
// config. A method that cannot run on a given record returns a
// not-applicable result with a reason, never an error or a NaN.
package valuation

import (
	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/finmath"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
)

// Display names for the result breakdown
const (
	nameFCFE         = "FCFE (Free Cash Flow to Equity)"
	nameFCFF         = "FCFF (Free Cash Flow to Firm)"
	nameDDM          = "Dividend Discount Model"
	namePERelative   = "P/E Relative Valuation"
	nameEVEBITDA     = "EV/EBITDA Relative Valuation"
	nameBookValue    = "Book Value"
	nameTangibleBook = "Tangible Book Value"
	nameLiquidation  = "Liquidation Value"
	nameCapEarnings  = "Capitalized Earnings"
	nameEPV          = "Earnings Power Value"
)

// Methods evaluates every valuation method against one normalized record
type Methods struct {
	cfg *modelconfig.Config
	rec *contracts.CompanyRecord

	costOfEquity float64
	wacc         float64
}

// NewMethods derives the discount rates once and reuses them across methods
func NewMethods(cfg *modelconfig.Config, rec *contracts.CompanyRecord) *Methods {
	coe := finmath.CostOfEquity(
		rec.RiskFactors.RiskFreeRate,
		rec.MarketData.Beta,
		rec.RiskFactors.MarketRiskPremium,
		rec.RiskFactors.SpecificRiskPremium,
	)
	_, latest := rec.LatestYear()
	wacc := finmath.WACC(
		rec.MarketData.MarketCap,
		latest.TotalDebt,
		coe,
		cfg.Discounting.CostOfDebt,
		rec.Assumptions.TaxRate,
	)
	return &Methods{cfg: cfg, rec: rec, costOfEquity: coe, wacc: wacc}
}

// CostOfEquity returns the CAPM rate derived for this record
func (m *Methods) CostOfEquity() float64 { return m.costOfEquity }

// WACC returns the blended discount rate derived for this record
func (m *Methods) WACC() float64 { return m.wacc }

// All runs every method in the stable breakdown order
func (m *Methods) All() []contracts.MethodResult {
	return []contracts.MethodResult{
		m.FCFE(),
		m.FCFF(),
		m.DDM(),
		m.PERelative(),
		m.EVEBITDA(),
		m.BookValue(),
		m.TangibleBookValue(),
		m.LiquidationValue(),
		m.CapitalizedEarnings(),
		m.EarningsPowerValue(),
	}
}

// FCFE projects free cash flow to equity with decaying growth and
// discounts at the cost of equity.
func (m *Methods) FCFE() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	if latest.FreeCashFlow <= 0 {
		return contracts.NotApplicableResult(contracts.MethodFCFE, nameFCFE,
			"latest free cash flow is not positive")
	}

	history := m.rec.Series(func(y contracts.YearRecord) float64 { return y.FreeCashFlow })
	growth := minOf(
		finmath.CAGR(history),
		m.rec.GrowthMetrics.FCFGrowth5Y,
		m.cfg.Discounting.FCFEGrowthCap,
	)

	d := m.cfg.Discounting
	fcf := latest.FreeCashFlow
	total := 0.0
	decay := 1.0
	for y := 1; y <= d.FCFEYears; y++ {
		fcf *= 1 + growth*decay
		total += finmath.PresentValue(fcf, m.costOfEquity, y)
		decay *= d.FCFEGrowthDecay
	}

	tg := m.rec.Assumptions.TerminalGrowthRate
	tv, err := finmath.TerminalValue(fcf*(1+tg), m.costOfEquity, tg)
	if err != nil {
		return contracts.NotApplicableResult(contracts.MethodFCFE, nameFCFE,
			"cost of equity does not exceed terminal growth rate")
	}
	total += finmath.PresentValue(tv, m.costOfEquity, d.FCFEYears)

	value := total / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodFCFE, nameFCFE, value,
		m.rec.MarketData.CurrentPrice, map[string]float64{
			"initialGrowthRate":  growth,
			"terminalGrowthRate": tg,
			"discountRate":       m.costOfEquity,
			"projectionYears":    float64(d.FCFEYears),
		})
}

// FCFF projects firm-level free cash flow over a two-stage horizon,
// discounts at WACC, and backs out equity by subtracting net debt.
func (m *Methods) FCFF() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	d := m.cfg.Discounting

	// Interest tax shield rebuilt from the estimated cost of debt
	shield := latest.TotalDebt * d.CostOfDebt * m.rec.Assumptions.TaxRate
	fcff := latest.OperatingCashFlow - latest.Capex + shield
	if fcff <= 0 {
		return contracts.NotApplicableResult(contracts.MethodFCFF, nameFCFF,
			"firm free cash flow is not positive")
	}

	growth := minOf(m.rec.GrowthMetrics.RevenueGrowth5Y, d.FCFFGrowthCap)

	cf := fcff
	total := 0.0
	for y := 1; y <= d.FCFFYears; y++ {
		g := growth
		if y > d.FCFFFlatYears {
			fadeYears := float64(d.FCFFYears - d.FCFFFlatYears)
			g = growth * (1 - float64(y-d.FCFFFlatYears)/fadeYears*d.FCFFFadeShare)
		}
		cf *= 1 + g
		total += finmath.PresentValue(cf, m.wacc, y)
	}

	tg := m.rec.Assumptions.TerminalGrowthRate
	tv, err := finmath.TerminalValue(cf*(1+tg), m.wacc, tg)
	if err != nil {
		return contracts.NotApplicableResult(contracts.MethodFCFF, nameFCFF,
			"WACC does not exceed terminal growth rate")
	}
	total += finmath.PresentValue(tv, m.wacc, d.FCFFYears)

	netDebt := latest.TotalDebt - latest.Cash
	value := (total - netDebt) / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodFCFF, nameFCFF, value,
		m.rec.MarketData.CurrentPrice, map[string]float64{
			"initialGrowthRate":  growth,
			"terminalGrowthRate": tg,
			"discountRate":       m.wacc,
			"projectionYears":    float64(d.FCFFYears),
			"netDebt":            netDebt,
		})
}

// DDM applies the Gordon growth model to the latest annual dividend
func (m *Methods) DDM() contracts.MethodResult {
	dividend := m.latestDividend()
	if dividend <= 0 {
		return contracts.NotApplicableResult(contracts.MethodDDM, nameDDM,
			"company pays no dividend")
	}
	g := m.rec.Assumptions.DividendGrowthRate
	if g >= m.costOfEquity {
		return contracts.NotApplicableResult(contracts.MethodDDM, nameDDM,
			"dividend growth rate is not below the cost of equity")
	}
	value := dividend * (1 + g) / (m.costOfEquity - g)
	return contracts.NewMethodResult(contracts.MethodDDM, nameDDM, value,
		m.rec.MarketData.CurrentPrice, map[string]float64{
			"annualDividend": dividend,
			"growthRate":     g,
			"requiredReturn": m.costOfEquity,
		})
}

func (m *Methods) latestDividend() float64 {
	_, latest := m.rec.LatestYear()
	if latest.Dividend > 0 {
		return latest.Dividend
	}
	if m.rec.DividendInfo != nil {
		return m.rec.DividendInfo.CurrentAnnualDividend
	}
	return 0
}

// PERelative prices the latest EPS at the industry-average multiple
func (m *Methods) PERelative() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	if latest.EPS <= 0 {
		return contracts.NotApplicableResult(contracts.MethodPERelative, namePERelative,
			"earnings per share is not positive")
	}
	pe := m.rec.IndustryBenchmarks.AveragePE
	if pe <= 0 {
		pe = m.cfg.Multiples.DefaultPE
	}
	value := latest.EPS * pe
	return contracts.NewMethodResult(contracts.MethodPERelative, namePERelative, value,
		m.rec.MarketData.CurrentPrice, map[string]float64{
			"eps":    latest.EPS,
			"fairPE": pe,
		})
}

// EVEBITDA estimates EBITDA from operating income, applies the industry
// multiple, and backs out equity value by subtracting net debt.
func (m *Methods) EVEBITDA() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	if latest.OperatingIncome <= 0 {
		return contracts.NotApplicableResult(contracts.MethodEVEBITDA, nameEVEBITDA,
			"operating income is not positive")
	}
	ebitda := latest.OperatingIncome * m.cfg.Multiples.EBITDAMarkup
	multiple := m.rec.IndustryBenchmarks.AverageEVEBITDA
	if multiple <= 0 {
		multiple = m.cfg.Multiples.DefaultEVEBITDA
	}
	fairEV := ebitda * multiple
	equity := fairEV - (latest.TotalDebt - latest.Cash)
	value := equity / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodEVEBITDA, nameEVEBITDA, value,
		m.rec.MarketData.CurrentPrice, map[string]float64{
			"ebitda":       ebitda,
			"fairMultiple": multiple,
		})
}

// BookValue reports the latest book value per share as-is
func (m *Methods) BookValue() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	return contracts.NewMethodResult(contracts.MethodBookValue, nameBookValue,
		latest.BookValuePerShare, m.rec.MarketData.CurrentPrice, nil)
}

// TangibleBookValue haircuts equity by an estimated intangible share of
// total assets. The value may come out negative; the weighting policy
// treats non-positive values as excluded.
func (m *Methods) TangibleBookValue() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	intangibles := latest.TotalAssets * m.cfg.Assets.IntangibleAssetPct
	value := (latest.ShareholdersEquity - intangibles) / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodTangibleBookValue, nameTangibleBook,
		value, m.rec.MarketData.CurrentPrice, map[string]float64{
			"estimatedIntangibles": intangibles,
		})
}

// LiquidationValue estimates what a forced sale would leave equity
// holders after repaying all liabilities at a fixed recovery rate.
func (m *Methods) LiquidationValue() contracts.MethodResult {
	_, latest := m.rec.LatestYear()
	recovered := latest.TotalAssets * m.cfg.Assets.LiquidationRecoveryRate
	liabilities := latest.TotalAssets - latest.ShareholdersEquity
	value := (recovered - liabilities) / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodLiquidationValue, nameLiquidation,
		value, m.rec.MarketData.CurrentPrice, map[string]float64{
			"recoveryRate": m.cfg.Assets.LiquidationRecoveryRate,
		})
}

// CapitalizedEarnings capitalizes average historical net income as a
// perpetuity at the cost of equity.
func (m *Methods) CapitalizedEarnings() contracts.MethodResult {
	avg := m.averageNetIncome()
	if avg <= 0 {
		return contracts.NotApplicableResult(contracts.MethodCapitalizedEarnings, nameCapEarnings,
			"average historical earnings are not positive")
	}
	if m.costOfEquity <= 0 {
		return contracts.NotApplicableResult(contracts.MethodCapitalizedEarnings, nameCapEarnings,
			"capitalization rate is not positive")
	}
	value := avg / m.costOfEquity / m.rec.MarketData.SharesOutstanding
	return contracts.NewMethodResult(contracts.MethodCapitalizedEarnings, nameCapEarnings,
		value, m.rec.MarketData.CurrentPrice, map[string]float64{
			"averageEarnings":    avg,
			"capitalizationRate": m.costOfEquity,
		})
}

// EarningsPowerValue capitalizes average earnings per share with no
// growth assumption.
func (m *Methods) EarningsPowerValue() contracts.MethodResult {
	avg := m.averageNetIncome()
	if avg <= 0 {
		return contracts.NotApplicableResult(contracts.MethodEarningsPowerValue, nameEPV,
			"average historical earnings are not positive")
	}
	if m.costOfEquity <= 0 {
		return contracts.NotApplicableResult(contracts.MethodEarningsPowerValue, nameEPV,
			"capitalization rate is not positive")
	}
	perShare := avg / m.rec.MarketData.SharesOutstanding
	value := perShare / m.costOfEquity
	return contracts.NewMethodResult(contracts.MethodEarningsPowerValue, nameEPV,
		value, m.rec.MarketData.CurrentPrice, map[string]float64{
			"averageEPS":         perShare,
			"capitalizationRate": m.costOfEquity,
		})
}

func (m *Methods) averageNetIncome() float64 {
	series := m.rec.Series(func(y contracts.YearRecord) float64 { return y.NetIncome })
	if len(series) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range series {
		total += v
	}
	return total / float64(len(series))
}

func minOf(values ...float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
