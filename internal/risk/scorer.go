// Package risk derives a three-part risk assessment from the input
// record. The scorer is pure and independent of the valuation output:
// the same record always yields the same assessment.
package risk

import (
	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// Point bands for the financial risk score
const (
	severeDebtToEquity   = 3.0
	highDebtToEquity     = 2.0
	weakCurrentRatio     = 1.0
	thinCurrentRatio     = 1.2
	weakInterestCoverage = 5.0
	thinInterestCoverage = 10.0

	missingLeveragePoints = 3

	highRiskPoints   = 4
	mediumRiskPoints = 2
)

// Volatility and valuation bands
const (
	highBeta     = 1.5
	elevatedBeta = 1.0
	richPERatio  = 25.0
)

// Score produces the full risk assessment for one record
func Score(rec *contracts.CompanyRecord) contracts.RiskMetrics {
	return contracts.RiskMetrics{
		Financial: scoreFinancial(rec),
		Business:  scoreBusiness(rec),
		Valuation: scoreValuation(rec),
	}
}

// scoreFinancial accumulates points across leverage, liquidity, and
// interest coverage, then bands the total.
func scoreFinancial(rec *contracts.CompanyRecord) contracts.FinancialRisk {
	lev := rec.KeyRatios.Leverage
	liq := rec.KeyRatios.Liquidity

	points := 0
	switch {
	case lev.DebtToEquity == nil:
		// Undefined debt/equity usually means negative equity
		points += missingLeveragePoints
	case *lev.DebtToEquity > severeDebtToEquity:
		points += 2
	case *lev.DebtToEquity > highDebtToEquity:
		points++
	}

	if liq.CurrentRatio != nil {
		switch {
		case *liq.CurrentRatio < weakCurrentRatio:
			points += 2
		case *liq.CurrentRatio < thinCurrentRatio:
			points++
		}
	}

	if lev.InterestCoverage != nil {
		switch {
		case *lev.InterestCoverage < weakInterestCoverage:
			points += 2
		case *lev.InterestCoverage < thinInterestCoverage:
			points++
		}
	}

	level := contracts.RiskLow
	switch {
	case points >= highRiskPoints:
		level = contracts.RiskHigh
	case points >= mediumRiskPoints:
		level = contracts.RiskMedium
	}

	return contracts.FinancialRisk{
		DebtToEquity:     lev.DebtToEquity,
		CurrentRatio:     liq.CurrentRatio,
		InterestCoverage: lev.InterestCoverage,
		Level:            level,
	}
}

func scoreBusiness(rec *contracts.CompanyRecord) contracts.BusinessRisk {
	beta := rec.MarketData.Beta
	volatility := contracts.RiskLow
	switch {
	case beta > highBeta:
		volatility = contracts.RiskHigh
	case beta > elevatedBeta:
		volatility = contracts.RiskMedium
	}
	return contracts.BusinessRisk{
		Beta:           beta,
		VolatilityRisk: volatility,
		// No per-industry model yet, every industry scores the same
		IndustryRisk: contracts.RiskMedium,
	}
}

func scoreValuation(rec *contracts.CompanyRecord) contracts.ValuationRisk {
	ratios := rec.KeyRatios.Valuation
	level := contracts.RiskMedium
	if ratios.PERatio > richPERatio {
		level = contracts.RiskHigh
	}
	return contracts.ValuationRisk{
		PERatio: ratios.PERatio,
		PBRatio: ratios.PBRatio,
		Level:   level,
	}
}
