package contracts

import (
	"encoding/json"
	"fmt"
	"sort"
)

// BaseCurrency is the currency every record is normalized to before
// any valuation math runs.
const BaseCurrency = "USD"

// CompanyRecord is the full input record for one company.
// It is immutable once loaded: normalization produces a derived copy,
// the engine never writes back into it.
type CompanyRecord struct {
	Ticker       string        `json:"ticker"`
	CompanyName  string        `json:"companyName"`
	Industry     string        `json:"industry"`
	Sector       string        `json:"sector"`
	Currency     string        `json:"currency"`
	ExchangeRate *ExchangeRate `json:"exchangeRate,omitempty"`

	MarketData  MarketData  `json:"marketData"`
	RiskFactors RiskFactors `json:"riskFactors"`

	// FinancialHistory maps year label ("2021") to that year's figures.
	// The lexicographically last key is authoritative for "current"
	// balance-sheet and flow figures.
	FinancialHistory map[string]YearRecord `json:"financialHistory"`

	KeyRatios          KeyRatios          `json:"keyRatios"`
	GrowthMetrics      GrowthMetrics      `json:"growthMetrics"`
	IndustryBenchmarks IndustryBenchmarks `json:"industryBenchmarks"`
	Assumptions        Assumptions        `json:"assumptions"`

	// DividendInfo is absent for non-dividend payers.
	DividendInfo *DividendInfo `json:"dividendInfo,omitempty"`
}

// MarketData holds current market figures
type MarketData struct {
	CurrentPrice      float64 `json:"currentPrice"`
	MarketCap         float64 `json:"marketCap"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	Beta              float64 `json:"beta"`
	EnterpriseValue   float64 `json:"enterpriseValue,omitempty"`
}

// RiskFactors holds the CAPM inputs
type RiskFactors struct {
	RiskFreeRate        float64 `json:"riskFreeRate"`
	MarketRiskPremium   float64 `json:"marketRiskPremium"`
	SpecificRiskPremium float64 `json:"specificRiskPremium"`
}

// YearRecord holds one fiscal year of financial figures.
// All monetary fields within one YearRecord share one currency,
// fixed at normalization time.
type YearRecord struct {
	Revenue            float64 `json:"revenue"`
	GrossProfit        float64 `json:"grossProfit"`
	OperatingIncome    float64 `json:"operatingIncome"`
	NetIncome          float64 `json:"netIncome"`
	FreeCashFlow       float64 `json:"freeCashFlow"`
	OperatingCashFlow  float64 `json:"operatingCashFlow"`
	Capex              float64 `json:"capex"`
	TotalAssets        float64 `json:"totalAssets"`
	TotalDebt          float64 `json:"totalDebt"`
	Cash               float64 `json:"cashAndEquivalents"`
	ShareholdersEquity float64 `json:"shareholdersEquity"`

	// Per-share figures
	BookValuePerShare float64 `json:"bookValuePerShare"`
	EPS               float64 `json:"eps"`
	Dividend          float64 `json:"dividend"`
}

// KeyRatios groups the precomputed ratio blocks
type KeyRatios struct {
	Valuation ValuationRatios `json:"valuationRatios"`
	Leverage  LeverageRatios  `json:"leverageRatios"`
	Liquidity LiquidityRatios `json:"liquidityRatios"`
}

type ValuationRatios struct {
	PERatio    float64 `json:"peRatio"`
	PBRatio    float64 `json:"pbRatio"`
	EVToEBITDA float64 `json:"evToEbitda"`
}

// LeverageRatios uses pointers where a ratio is undefined for some
// companies (debt/equity is null under negative equity).
type LeverageRatios struct {
	DebtToEquity     *float64 `json:"debtToEquity"`
	InterestCoverage *float64 `json:"interestCoverage"`
}

type LiquidityRatios struct {
	CurrentRatio *float64 `json:"currentRatio"`
}

// GrowthMetrics holds precomputed multi-year growth figures
type GrowthMetrics struct {
	RevenueGrowth5Y float64 `json:"revenueGrowth5Y"`
	FCFGrowth5Y     float64 `json:"fcfGrowth5Y"`
}

// IndustryBenchmarks holds sector-average multiples used by the
// relative valuation methods.
type IndustryBenchmarks struct {
	AveragePE       float64 `json:"averagePE"`
	AveragePB       float64 `json:"averagePB"`
	AverageEVEBITDA float64 `json:"averageEVEbitda"`
}

// Assumptions holds the named, overridable valuation assumptions
type Assumptions struct {
	TerminalGrowthRate float64         `json:"terminalGrowthRate"`
	TaxRate            float64         `json:"taxRate"`
	DividendGrowthRate float64         `json:"dividendGrowthRate"`
	DividendPolicy     *DividendPolicy `json:"dividendPolicy,omitempty"`
}

type DividendPolicy struct {
	TargetPayoutRatio float64 `json:"targetPayoutRatio"`
	YearsOfGrowth     int     `json:"yearsOfGrowth"`
}

// DividendInfo is present only for dividend payers
type DividendInfo struct {
	CurrentAnnualDividend float64 `json:"currentAnnualDividend"`
	CurrentDividendYield  float64 `json:"currentDividendYield"`
	PayoutRatio           float64 `json:"payoutRatio"`
}

// ExchangeRate supports the two shapes the data files use: a flat
// number (direct multiply to USD) or a nested object keyed by ordered
// currency pair ("dkkToUsd": 0.145).
type ExchangeRate struct {
	Flat  *float64
	Pairs map[string]float64
}

// UnmarshalJSON accepts either a bare number or an object of pairs
func (e *ExchangeRate) UnmarshalJSON(data []byte) error {
	var flat float64
	if err := json.Unmarshal(data, &flat); err == nil {
		e.Flat = &flat
		e.Pairs = nil
		return nil
	}

	var pairs map[string]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("exchangeRate must be a number or a pair object: %w", err)
	}
	e.Flat = nil
	e.Pairs = pairs
	return nil
}

// MarshalJSON writes back whichever shape was loaded
func (e ExchangeRate) MarshalJSON() ([]byte, error) {
	if e.Flat != nil {
		return json.Marshal(*e.Flat)
	}
	return json.Marshal(e.Pairs)
}

// Years returns the history year labels in chronological order
func (r *CompanyRecord) Years() []string {
	years := make([]string, 0, len(r.FinancialHistory))
	for y := range r.FinancialHistory {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// LatestYear returns the label and record of the most recent year.
// Callers must have validated that at least one year exists.
func (r *CompanyRecord) LatestYear() (string, YearRecord) {
	years := r.Years()
	latest := years[len(years)-1]
	return latest, r.FinancialHistory[latest]
}

// Series returns one field across all years in chronological order.
// pick selects the field from each YearRecord.
func (r *CompanyRecord) Series(pick func(YearRecord) float64) []float64 {
	years := r.Years()
	out := make([]float64, 0, len(years))
	for _, y := range years {
		out = append(out, pick(r.FinancialHistory[y]))
	}
	return out
}

// ValidationError reports an invalid input record. Fatal: the engine
// refuses to compute on records that fail validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the required-field invariants the engine depends on.
// It runs once at the load boundary, not inside each method.
func (r *CompanyRecord) Validate() error {
	if r.Ticker == "" {
		return ValidationError{"ticker", "required"}
	}
	if len(r.FinancialHistory) == 0 {
		return ValidationError{"financialHistory", "must contain at least one year"}
	}
	if r.MarketData.CurrentPrice <= 0 {
		return ValidationError{"marketData.currentPrice", "must be > 0"}
	}
	if r.MarketData.SharesOutstanding <= 0 {
		return ValidationError{"marketData.sharesOutstanding", "must be > 0"}
	}
	if r.Currency == "" {
		return ValidationError{"currency", "required"}
	}
	return nil
}
