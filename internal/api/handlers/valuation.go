// Package handlers implements the HTTP API handlers
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

// bodyLimit caps POST bodies at 1 MiB; records are a few KiB
const bodyLimit = 1 << 20

// ValuationHandler serves the valuation API endpoints
type ValuationHandler struct {
	store  *loader.Store
	engine *valuation.Engine
	logger *logger.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(store *loader.Store, engine *valuation.Engine, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{
		store:  store,
		engine: engine,
		logger: log,
	}
}

// ListCompanies returns the tickers available in the data directory
// GET /api/companies
func (h *ValuationHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.store.List()
	if err != nil {
		h.logger.WithError(err).Error("failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(tickers),
		"tickers": tickers,
	})
}

// GetValuation computes the valuation for a stored company
// GET /api/valuation/{ticker}
func (h *ValuationHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	rec, err := h.store.Load(ticker)
	if err != nil {
		if errors.Is(err, loader.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Unknown ticker: "+ticker)
			return
		}
		var vErr contracts.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid company data: "+vErr.Error())
			return
		}
		h.logger.WithError(err).WithField("ticker", ticker).Error("failed to load company")
		respondError(w, http.StatusInternalServerError, "Failed to load company data")
		return
	}

	h.respondValuation(w, rec)
}

// PostValuation computes the valuation for a record supplied in the body
// POST /api/valuation
func (h *ValuationHandler) PostValuation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bodyLimit))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rec, err := loader.Parse(body)
	if err != nil {
		var vErr contracts.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusUnprocessableEntity, "Invalid company data: "+vErr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	h.respondValuation(w, rec)
}

func (h *ValuationHandler) respondValuation(w http.ResponseWriter, rec *contracts.CompanyRecord) {
	result, err := h.engine.Calculate(rec)
	if err != nil {
		if errors.Is(err, contracts.ErrAllMethodsExcluded) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.WithError(err).WithField("ticker", rec.Ticker).Error("valuation failed")
		respondError(w, http.StatusInternalServerError, "Valuation failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
