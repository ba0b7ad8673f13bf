package contracts

import (
	"errors"
	"math"
	"time"
)

// MethodKey identifies one valuation method in weight sets and breakdowns
type MethodKey string

const (
	MethodFCFE                MethodKey = "fcfe"
	MethodFCFF                MethodKey = "fcff"
	MethodDDM                 MethodKey = "ddm"
	MethodPERelative          MethodKey = "peRelative"
	MethodEVEBITDA            MethodKey = "evEbitda"
	MethodBookValue           MethodKey = "bookValue"
	MethodTangibleBookValue   MethodKey = "tangibleBookValue"
	MethodLiquidationValue    MethodKey = "liquidationValue"
	MethodCapitalizedEarnings MethodKey = "capitalizedEarnings"
	MethodEarningsPowerValue  MethodKey = "earningsPowerValue"
)

// AllMethods returns every method key in the stable breakdown order
func AllMethods() []MethodKey {
	return []MethodKey{
		MethodFCFE,
		MethodFCFF,
		MethodDDM,
		MethodPERelative,
		MethodEVEBITDA,
		MethodBookValue,
		MethodTangibleBookValue,
		MethodLiquidationValue,
		MethodCapitalizedEarnings,
		MethodEarningsPowerValue,
	}
}

// MethodResult is the outcome of one valuation method: applicable with
// a value, or not applicable with a reason. Never NaN or Inf.
type MethodResult struct {
	Method        MethodKey          `json:"method"`
	Name          string             `json:"name"`
	ValuePerShare float64            `json:"valuePerShare"`
	UpsidePct     float64            `json:"upsidePct"`
	NotApplicable bool               `json:"notApplicable,omitempty"`
	Reason        string             `json:"reason,omitempty"`
	Assumptions   map[string]float64 `json:"assumptions,omitempty"`
}

// NewMethodResult builds an applicable result, deriving upside from the
// current price: upside% = (value/price - 1) * 100.
func NewMethodResult(key MethodKey, name string, valuePerShare, currentPrice float64, assumptions map[string]float64) MethodResult {
	return MethodResult{
		Method:        key,
		Name:          name,
		ValuePerShare: valuePerShare,
		UpsidePct:     (valuePerShare/currentPrice - 1) * 100,
		Assumptions:   assumptions,
	}
}

// NotApplicableResult builds the sentinel result for a method that
// cannot run on this record.
func NotApplicableResult(key MethodKey, name, reason string) MethodResult {
	return MethodResult{
		Method:        key,
		Name:          name,
		ValuePerShare: 0,
		UpsidePct:     -100,
		NotApplicable: true,
		Reason:        reason,
	}
}

// WeightSet maps method key to its normalized non-negative weight.
// After Normalize, weights sum to 1.0 within floating tolerance.
type WeightSet map[MethodKey]float64

// ErrAllMethodsExcluded is returned when the weighting policy zeroes
// every method. Aggregation must fail instead of fabricating a zero
// intrinsic value.
var ErrAllMethodsExcluded = errors.New("all valuation methods excluded by weighting policy")

// WeightSumTolerance bounds the post-normalization drift of Sum() from 1.0
const WeightSumTolerance = 1e-9

// Sum returns the total of all weights
func (w WeightSet) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Clone returns an independent copy
func (w WeightSet) Clone() WeightSet {
	out := make(WeightSet, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Normalize scales the set so it sums to 1.0. Fails with
// ErrAllMethodsExcluded when the sum is zero.
func (w WeightSet) Normalize() error {
	total := w.Sum()
	if total <= 0 {
		return ErrAllMethodsExcluded
	}
	for k, v := range w {
		w[k] = v / total
	}
	return nil
}

// IsNormalized reports whether the set sums to 1.0 within tolerance
func (w WeightSet) IsNormalized() bool {
	return math.Abs(w.Sum()-1.0) <= WeightSumTolerance
}

// Recommendation is the discrete investment call
type Recommendation string

const (
	StrongBuy Recommendation = "Strong Buy"
	Buy       Recommendation = "Buy"
	Hold      Recommendation = "Hold"
	Sell      Recommendation = "Sell"
)

// Confidence classifies cross-method agreement (coefficient of variation)
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// RiskLevel is a discrete severity band
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// FinancialRisk covers balance-sheet strength
type FinancialRisk struct {
	DebtToEquity     *float64  `json:"debtToEquity"`
	CurrentRatio     *float64  `json:"currentRatio"`
	InterestCoverage *float64  `json:"interestCoverage"`
	Level            RiskLevel `json:"riskLevel"`
}

// BusinessRisk covers volatility and industry character
type BusinessRisk struct {
	Beta           float64   `json:"beta"`
	VolatilityRisk RiskLevel `json:"volatilityRisk"`
	IndustryRisk   RiskLevel `json:"industryRisk"`
}

// ValuationRisk covers how richly the market already prices the company
type ValuationRisk struct {
	PERatio float64   `json:"peRatio"`
	PBRatio float64   `json:"pbRatio"`
	Level   RiskLevel `json:"valuationRisk"`
}

// RiskMetrics is the full risk assessment, independent of the
// intrinsic-value computation.
type RiskMetrics struct {
	Financial FinancialRisk `json:"financial"`
	Business  BusinessRisk  `json:"business"`
	Valuation ValuationRisk `json:"valuation"`
}

// DividendAnalysis is present only when the record carries dividend info
type DividendAnalysis struct {
	AnnualDividend float64 `json:"annualDividend"`
	Yield          float64 `json:"yield"`
	PayoutRatio    float64 `json:"payoutRatio"`
	GrowthRate     float64 `json:"growthRate"`
}

// IntrinsicValueResult is the final output of one engine invocation
type IntrinsicValueResult struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`

	CurrentPrice      float64        `json:"currentPrice"`
	IntrinsicValue    float64        `json:"intrinsicValue"`
	UpsidePct         float64        `json:"upsidePct"`
	MarginOfSafetyPct float64        `json:"marginOfSafetyPct"`
	Recommendation    Recommendation `json:"recommendation"`
	Confidence        Confidence     `json:"confidence"`

	Methods         []MethodResult `json:"valuationBreakdown"`
	Weights         WeightSet      `json:"weights"`
	WeightRationale []string       `json:"weightingRationale"`

	Risk     RiskMetrics       `json:"riskMetrics"`
	Dividend *DividendAnalysis `json:"dividendAnalysis,omitempty"`

	// Data-quality flags surfaced from normalization
	CurrencyConverted bool    `json:"currencyConverted,omitempty"`
	ConversionRate    float64 `json:"conversionRate,omitempty"`
	RateFallback      bool    `json:"rateFallback,omitempty"`

	CalculatedAt time.Time `json:"calculatedAt"`
}

// MethodByKey returns the breakdown entry for one method
func (r *IntrinsicValueResult) MethodByKey(key MethodKey) (MethodResult, bool) {
	for _, m := range r.Methods {
		if m.Method == key {
			return m, true
		}
	}
	return MethodResult{}, false
}
