package output

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

func sampleResult(ticker string, upside float64) *contracts.IntrinsicValueResult {
	price := 100.0
	iv := price * (1 + upside/100)
	return &contracts.IntrinsicValueResult{
		Ticker:            ticker,
		CompanyName:       ticker + " Corp",
		CurrentPrice:      price,
		IntrinsicValue:    iv,
		UpsidePct:         upside,
		MarginOfSafetyPct: 10,
		Recommendation:    contracts.Hold,
		Confidence:        contracts.ConfidenceMedium,
		Methods: []contracts.MethodResult{
			contracts.NewMethodResult(contracts.MethodFCFE, "FCFE", iv, price, nil),
			contracts.NotApplicableResult(contracts.MethodDDM, "DDM", "company pays no dividend"),
		},
		Weights: contracts.WeightSet{
			contracts.MethodFCFE: 1.0,
			contracts.MethodDDM:  0,
		},
		WeightRationale: []string{"quality screen: excluded 1 method(s), dampened 0 outlier(s)"},
		Risk: contracts.RiskMetrics{
			Financial: contracts.FinancialRisk{Level: contracts.RiskLow},
			Business:  contracts.BusinessRisk{Beta: 1.1, VolatilityRisk: contracts.RiskMedium, IndustryRisk: contracts.RiskMedium},
			Valuation: contracts.ValuationRisk{PERatio: 18, Level: contracts.RiskMedium},
		},
		CalculatedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, sampleResult("CMP", 12)))
	out := sb.String()

	assert.Contains(t, out, "CMP Corp (CMP)")
	assert.Contains(t, out, "Intrinsic Value")
	assert.Contains(t, out, "Hold")
	assert.Contains(t, out, "N/A (company pays no dividend)")
	assert.Contains(t, out, "Weighting Rationale")
	assert.Contains(t, out, "Risk Assessment")
	assert.NotContains(t, out, "Converted to USD", "USD results carry no conversion note")
}

func TestWriteReport_ConversionNote(t *testing.T) {
	res := sampleResult("NVO", 5)
	res.CurrencyConverted = true
	res.ConversionRate = 0.145
	res.RateFallback = true

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, res))

	assert.Contains(t, sb.String(), "Converted to USD at rate 0.1450")
	assert.Contains(t, sb.String(), "fallback 1.0")
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveJSON(dir, sampleResult("CMP", 12))
	require.NoError(t, err)
	assert.Contains(t, path, "cmp_valuation_2026-08-31.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded contracts.IntrinsicValueResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "CMP", decoded.Ticker)
}

func TestNewBatchSummary(t *testing.T) {
	s := NewBatchSummary([]*contracts.IntrinsicValueResult{
		sampleResult("LOW", -10),
		sampleResult("HIGH", 30),
		sampleResult("MID", 10),
	}, map[string]string{"BAD": "invalid record"})

	// Ranked best upside first
	assert.Equal(t, "HIGH", s.Results[0].Ticker)
	assert.Equal(t, "MID", s.Results[1].Ticker)
	assert.Equal(t, "LOW", s.Results[2].Ticker)

	assert.InDelta(t, 10.0, s.MeanUpside, 1e-9)
	assert.InDelta(t, 10.0, s.MedianUpside, 1e-9)

	var sb strings.Builder
	require.NoError(t, s.WriteComparison(&sb))
	out := sb.String()
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "skipped BAD: invalid record")
	assert.Contains(t, out, "3 companies")
}

func TestNewBatchSummary_Empty(t *testing.T) {
	s := NewBatchSummary(nil, nil)
	assert.Empty(t, s.Results)
	assert.Zero(t, s.MeanUpside)

	var sb strings.Builder
	require.NoError(t, s.WriteComparison(&sb))
}
