package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *CompanyRecord {
	return &CompanyRecord{
		Ticker:   "TEST",
		Currency: "USD",
		MarketData: MarketData{
			CurrentPrice:      100,
			SharesOutstanding: 1_000_000,
		},
		FinancialHistory: map[string]YearRecord{
			"2022": {NetIncome: 900},
			"2023": {NetIncome: 950},
			"2024": {NetIncome: 1000},
		},
	}
}

func TestCompanyRecord_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CompanyRecord)
		wantField string
	}{
		{"valid", func(r *CompanyRecord) {}, ""},
		{"missing ticker", func(r *CompanyRecord) { r.Ticker = "" }, "ticker"},
		{"no history", func(r *CompanyRecord) { r.FinancialHistory = nil }, "financialHistory"},
		{"zero price", func(r *CompanyRecord) { r.MarketData.CurrentPrice = 0 }, "marketData.currentPrice"},
		{"negative shares", func(r *CompanyRecord) { r.MarketData.SharesOutstanding = -1 }, "marketData.sharesOutstanding"},
		{"missing currency", func(r *CompanyRecord) { r.Currency = "" }, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			err := rec.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestCompanyRecord_YearHelpers(t *testing.T) {
	rec := validRecord()

	assert.Equal(t, []string{"2022", "2023", "2024"}, rec.Years())

	label, latest := rec.LatestYear()
	assert.Equal(t, "2024", label)
	assert.Equal(t, 1000.0, latest.NetIncome)

	series := rec.Series(func(y YearRecord) float64 { return y.NetIncome })
	assert.Equal(t, []float64{900, 950, 1000}, series)
}

func TestExchangeRate_UnmarshalBothShapes(t *testing.T) {
	var flat ExchangeRate
	require.NoError(t, json.Unmarshal([]byte(`0.145`), &flat))
	require.NotNil(t, flat.Flat)
	assert.Equal(t, 0.145, *flat.Flat)

	var pairs ExchangeRate
	require.NoError(t, json.Unmarshal([]byte(`{"dkkToUsd":0.145}`), &pairs))
	assert.Nil(t, pairs.Flat)
	assert.Equal(t, 0.145, pairs.Pairs["dkkToUsd"])

	var bad ExchangeRate
	assert.Error(t, json.Unmarshal([]byte(`"oops"`), &bad))
}

func TestWeightSet_Normalize(t *testing.T) {
	w := WeightSet{MethodFCFE: 2, MethodDDM: 1, MethodBookValue: 1}
	require.NoError(t, w.Normalize())
	assert.True(t, w.IsNormalized())
	assert.InDelta(t, 0.5, w[MethodFCFE], 1e-12)

	empty := WeightSet{MethodFCFE: 0, MethodDDM: 0}
	assert.ErrorIs(t, empty.Normalize(), ErrAllMethodsExcluded)
}

func TestWeightSet_CloneIsIndependent(t *testing.T) {
	w := WeightSet{MethodFCFE: 0.5, MethodDDM: 0.5}
	c := w.Clone()
	c[MethodFCFE] = 0.9
	assert.Equal(t, 0.5, w[MethodFCFE])
}

func TestMethodResults(t *testing.T) {
	r := NewMethodResult(MethodFCFE, "FCFE", 120, 100, nil)
	assert.InDelta(t, 20, r.UpsidePct, 1e-9)
	assert.False(t, r.NotApplicable)

	na := NotApplicableResult(MethodDDM, "DDM", "company pays no dividend")
	assert.True(t, na.NotApplicable)
	assert.Equal(t, 0.0, na.ValuePerShare)
	assert.Equal(t, -100.0, na.UpsidePct)
	assert.NotEmpty(t, na.Reason)
}

func TestAllMethods_CoversEveryKey(t *testing.T) {
	keys := AllMethods()
	assert.Len(t, keys, 10)
	seen := make(map[MethodKey]bool, len(keys))
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}
