package finmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostOfEquity(t *testing.T) {
	// rf 4.5%, beta 1.2, MRP 5.5%, specific 0.1%
	got := CostOfEquity(0.045, 1.2, 0.055, 0.001)
	assert.InDelta(t, 0.112, got, 1e-12)

	// No cap: extreme inputs pass through
	assert.InDelta(t, 0.045, CostOfEquity(0.045, 0, 0.055, 0), 1e-12)
	assert.Greater(t, CostOfEquity(0.045, 3.0, 0.055, 0.02), 0.2)
}

func TestWACC(t *testing.T) {
	tests := []struct {
		name      string
		marketCap float64
		totalDebt float64
		want      float64
	}{
		{
			name:      "blended equity and debt",
			marketCap: 800,
			totalDebt: 200,
			// 0.8*0.10 + 0.2*0.04*(1-0.25) = 0.086
			want: 0.086,
		},
		{
			name:      "all equity",
			marketCap: 1000,
			totalDebt: 0,
			want:      0.10,
		},
		{
			name:      "degenerate capital structure falls back to cost of equity",
			marketCap: 0,
			totalDebt: 0,
			want:      0.10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WACC(tt.marketCap, tt.totalDebt, 0.10, 0.04, 0.25)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"two periods", []float64{100, 121}, 0.10},
		{"flat series", []float64{50, 50, 50}, 0},
		{"single value", []float64{100}, 0},
		{"empty", nil, 0},
		{"non-positive start", []float64{0, 100}, 0},
		{"non-positive end", []float64{100, -5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CAGR(tt.values), 1e-9)
		})
	}
}

func TestTerminalValue(t *testing.T) {
	tv, err := TerminalValue(105, 0.10, 0.025)
	require.NoError(t, err)
	assert.InDelta(t, 1400, tv, 1e-9)

	_, err = TerminalValue(105, 0.025, 0.025)
	assert.ErrorIs(t, err, ErrTerminalGrowthTooHigh)

	_, err = TerminalValue(105, 0.02, 0.025)
	assert.ErrorIs(t, err, ErrTerminalGrowthTooHigh)
}

func TestPresentValue(t *testing.T) {
	assert.InDelta(t, 100, PresentValue(110, 0.10, 1), 1e-9)
	assert.InDelta(t, 100, PresentValue(121, 0.10, 2), 1e-9)
	assert.InDelta(t, 42, PresentValue(42, 0.10, 0), 1e-9)
}
