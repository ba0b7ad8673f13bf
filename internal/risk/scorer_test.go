package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

func ptr(v float64) *float64 { return &v }

func record(de, cr, ic *float64, beta, pe float64) *contracts.CompanyRecord {
	return &contracts.CompanyRecord{
		Ticker: "TEST",
		MarketData: contracts.MarketData{
			Beta: beta,
		},
		KeyRatios: contracts.KeyRatios{
			Valuation: contracts.ValuationRatios{PERatio: pe, PBRatio: 2},
			Leverage:  contracts.LeverageRatios{DebtToEquity: de, InterestCoverage: ic},
			Liquidity: contracts.LiquidityRatios{CurrentRatio: cr},
		},
	}
}

func TestScoreFinancial(t *testing.T) {
	tests := []struct {
		name string
		de   *float64
		cr   *float64
		ic   *float64
		want contracts.RiskLevel
	}{
		{"fortress balance sheet", ptr(0.3), ptr(2.5), ptr(20), contracts.RiskLow},
		{"single weak spot", ptr(2.5), ptr(2.0), ptr(20), contracts.RiskLow},
		{"two weak spots", ptr(2.5), ptr(1.1), ptr(20), contracts.RiskMedium},
		{"stretched everywhere", ptr(3.5), ptr(0.8), ptr(3), contracts.RiskHigh},
		{"undefined leverage is penalized", nil, ptr(2.0), ptr(20), contracts.RiskMedium},
		{"undefined leverage plus weak liquidity", nil, ptr(0.8), ptr(20), contracts.RiskHigh},
		{"missing optional ratios stay neutral", ptr(0.5), nil, nil, contracts.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Score(record(tt.de, tt.cr, tt.ic, 1.0, 15))
			assert.Equal(t, tt.want, m.Financial.Level)
		})
	}
}

func TestScoreBusiness(t *testing.T) {
	tests := []struct {
		beta float64
		want contracts.RiskLevel
	}{
		{0.6, contracts.RiskLow},
		{1.0, contracts.RiskLow},
		{1.2, contracts.RiskMedium},
		{1.5, contracts.RiskMedium},
		{1.8, contracts.RiskHigh},
	}
	for _, tt := range tests {
		m := Score(record(ptr(0.5), ptr(2), ptr(20), tt.beta, 15))
		assert.Equal(t, tt.want, m.Business.VolatilityRisk, "beta %.1f", tt.beta)
		assert.Equal(t, tt.beta, m.Business.Beta)
		assert.Equal(t, contracts.RiskMedium, m.Business.IndustryRisk)
	}
}

func TestScoreValuation(t *testing.T) {
	rich := Score(record(ptr(0.5), ptr(2), ptr(20), 1.0, 32))
	assert.Equal(t, contracts.RiskHigh, rich.Valuation.Level)

	fair := Score(record(ptr(0.5), ptr(2), ptr(20), 1.0, 14))
	assert.Equal(t, contracts.RiskMedium, fair.Valuation.Level)
	assert.Equal(t, 14.0, fair.Valuation.PERatio)
	assert.Equal(t, 2.0, fair.Valuation.PBRatio)
}

func TestScore_Deterministic(t *testing.T) {
	rec := record(ptr(1.5), ptr(1.5), ptr(8), 1.1, 22)
	assert.Equal(t, Score(rec), Score(rec))
}
