package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

const companyJSON = `{
  "ticker": "CMP",
  "companyName": "Compounder Inc",
  "industry": "Consumer Staples",
  "sector": "Consumer Defensive",
  "currency": "USD",
  "marketData": {
    "currentPrice": 100,
    "marketCap": 100000000,
    "sharesOutstanding": 1000000,
    "beta": 1.0
  },
  "riskFactors": {
    "riskFreeRate": 0.045,
    "marketRiskPremium": 0.055,
    "specificRiskPremium": 0
  },
  "financialHistory": {
    "2024": {
      "revenue": 100000000,
      "netIncome": 10000000,
      "freeCashFlow": 10000000,
      "operatingCashFlow": 12000000,
      "capex": 2500000,
      "operatingIncome": 10000000,
      "totalAssets": 100000000,
      "totalDebt": 20000000,
      "cashAndEquivalents": 5000000,
      "shareholdersEquity": 50000000,
      "bookValuePerShare": 50,
      "eps": 10,
      "dividend": 3
    }
  },
  "growthMetrics": {"revenueGrowth5Y": 0.05, "fcfGrowth5Y": 0.06},
  "industryBenchmarks": {"averagePE": 15, "averageEVEbitda": 10},
  "assumptions": {
    "terminalGrowthRate": 0.025,
    "taxRate": 0.25,
    "dividendGrowthRate": 0.04
  }
}`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmp.json"), []byte(companyJSON), 0o644))

	log := logger.Discard()
	h := NewValuationHandler(
		loader.NewStore(dir),
		valuation.NewEngine(modelconfig.Default(), log),
		log,
	)

	r := mux.NewRouter()
	r.HandleFunc("/api/companies", h.ListCompanies).Methods("GET")
	r.HandleFunc("/api/valuation/{ticker}", h.GetValuation).Methods("GET")
	r.HandleFunc("/api/valuation", h.PostValuation).Methods("POST")
	return r
}

func TestListCompanies(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/companies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Count   int      `json:"count"`
		Tickers []string `json:"tickers"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, []string{"CMP"}, body.Tickers)
}

func TestGetValuation(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/valuation/cmp", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "CMP", body["ticker"])
	assert.NotNil(t, body["intrinsicValue"])
	assert.NotNil(t, body["valuationBreakdown"])
}

func TestGetValuation_UnknownTicker(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/valuation/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unknown ticker")
}

func TestPostValuation(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/valuation", strings.NewReader(companyJSON)))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "CMP", body["ticker"])
}

func TestPostValuation_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/valuation", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPostValuation_FailsValidation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"ticker":"BAD","currency":"USD","marketData":{"currentPrice":0}}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/valuation", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid company data")
}
