package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/api/handlers"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/modelconfig"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/config"
	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

func newTestServer(t *testing.T, perSec float64, burst int) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:            "0",
		Env:             "development",
		DataDir:         t.TempDir(),
		RateLimitPerSec: perSec,
		RateLimitBurst:  burst,
	}
	log := logger.Discard()
	h := handlers.NewValuationHandler(
		loader.NewStore(cfg.DataDir),
		valuation.NewEngine(modelconfig.Default(), log),
		log,
	)
	return NewRouter(h, cfg, log)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t, 100, 100)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestRateLimit(t *testing.T) {
	router := newTestServer(t, 1, 2)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[3],
		"burst exhausted, further requests are rejected")
}
