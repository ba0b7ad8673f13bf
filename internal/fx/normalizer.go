// Package fx normalizes company records to the base currency before
// any valuation math runs.
package fx

import (
	"strings"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// Report describes what normalization did, so data-quality concerns
// (notably the missing-rate fallback) stay observable upstream.
type Report struct {
	Converted        bool
	OriginalCurrency string
	Rate             float64
	// RateFallback is set when a rate table was present but the needed
	// pair key was missing and 1.0 was used instead. Downstream output
	// must surface this rather than silently reporting wrong magnitudes.
	RateFallback bool
}

// Normalize returns a record whose monetary fields are in the base
// currency. Records already in the base currency are returned as-is.
// The input record is never mutated; conversion builds a derived copy.
//
// Market data (price, market cap) is quoted in the base currency by the
// data source and is not converted; only financial-history and dividend
// figures carry the local currency.
func Normalize(rec *contracts.CompanyRecord) (*contracts.CompanyRecord, Report) {
	if rec.Currency == "" || rec.Currency == contracts.BaseCurrency {
		return rec, Report{Converted: false, OriginalCurrency: rec.Currency, Rate: 1.0}
	}

	rate, fallback := resolveRate(rec.Currency, rec.ExchangeRate)

	out := *rec
	out.FinancialHistory = make(map[string]contracts.YearRecord, len(rec.FinancialHistory))
	for year, yr := range rec.FinancialHistory {
		out.FinancialHistory[year] = convertYear(yr, rate)
	}

	if rec.DividendInfo != nil {
		di := *rec.DividendInfo
		di.CurrentAnnualDividend *= rate
		out.DividendInfo = &di
	}

	out.Currency = contracts.BaseCurrency

	return &out, Report{
		Converted:        true,
		OriginalCurrency: rec.Currency,
		Rate:             rate,
		RateFallback:     fallback,
	}
}

// resolveRate finds the to-base conversion rate for the given currency.
// A flat rate is used directly; a pair table is resolved by the ordered
// key built from the source code ("DKK" -> "dkkToUsd"). A missing table
// or missing key defaults to 1.0 and flags the fallback.
func resolveRate(currency string, er *contracts.ExchangeRate) (rate float64, fallback bool) {
	if er == nil {
		return 1.0, true
	}
	if er.Flat != nil {
		return *er.Flat, false
	}
	key := PairKey(currency)
	if r, ok := er.Pairs[key]; ok {
		return r, false
	}
	return 1.0, true
}

// PairKey builds the rate-table key for a source currency: "dkkToUsd"
func PairKey(currency string) string {
	return strings.ToLower(currency) + "To" + titleCase(contracts.BaseCurrency)
}

func titleCase(code string) string {
	lower := strings.ToLower(code)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// convertYear multiplies every monetary field by the rate. Ratio,
// percentage, and share-count fields stay untouched.
func convertYear(yr contracts.YearRecord, rate float64) contracts.YearRecord {
	yr.Revenue *= rate
	yr.GrossProfit *= rate
	yr.OperatingIncome *= rate
	yr.NetIncome *= rate
	yr.FreeCashFlow *= rate
	yr.OperatingCashFlow *= rate
	yr.Capex *= rate
	yr.TotalAssets *= rate
	yr.TotalDebt *= rate
	yr.Cash *= rate
	yr.ShareholdersEquity *= rate

	yr.BookValuePerShare *= rate
	yr.EPS *= rate
	yr.Dividend *= rate

	return yr
}
