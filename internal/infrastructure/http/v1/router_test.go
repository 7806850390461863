package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
	"landedcost/internal/infrastructure/storage/sqlite"
	"landedcost/pkg/logger"
)

func newTestRouter(t *testing.T, authSecret string) *gin.Engine {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewRouter(RouterConfig{
		Logger:        logger.Default(),
		Engine:        costing.NewEngine(),
		Rates:         costing.DefaultRates(),
		RecordService: records.NewService(nil, store),
		FallbackStore: store,
		AuthSecret:    authSecret,
		Version:       "test",
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func calculatePayload() map[string]any {
	return map[string]any{
		"productName":         "Yunnan YNH-W-C5-001",
		"category":            "Coffee Green Beans",
		"unitPrice":           61,
		"currency":            "CNY",
		"unitsPerContainer":   19200,
		"containerType":       "20ft",
		"shippingCost":        2400,
		"shippingCurrency":    "USD",
		"nzTransport":         3500,
		"dutyRate":            0.1,
		"gstRate":             15,
		"gstRegistered":       true,
		"weeklyWarehouseCost": 150,
		"weeksToSellStock":    6,
		"otherFees":           2240,
		"incoterms":           "FOB",
	}
}

func TestRouter_HealthLive(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestRouter_HealthReady_LocalOnly(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["sqlite"])
	assert.Equal(t, "not configured", checks["postgres"])
}

func TestRouter_Calculate(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodPost, "/api/v1/costing/calculate", calculatePayload())
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.InDelta(t, 274135.48, body["totalCost"].(float64), 0.005)
	assert.InDelta(t, 14.277889583333332, body["costPerUnit"].(float64), 1e-9)

	display := body["display"].(map[string]any)
	assert.Equal(t, "274135.48", display["totalCost"])
	assert.Equal(t, "NZD", display["reportCurrency"])
	assert.Equal(t, "CNY", display["originalCurrency"])
}

func TestRouter_Calculate_RateOverride(t *testing.T) {
	router := newTestRouter(t, "")

	payload := calculatePayload()
	payload["exchangeRates"] = map[string]string{"CNY": "0.4500"}

	w := doJSON(t, router, http.MethodPost, "/api/v1/costing/calculate", payload)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	breakdown := body["breakdown"].(map[string]any)
	// Doubled CNY rate doubles the product cost line.
	assert.InDelta(t, 527040, breakdown["productCost"].(float64), 1e-6)
}

func TestRouter_Calculate_InvalidInput(t *testing.T) {
	router := newTestRouter(t, "")

	payload := calculatePayload()
	payload["unitPrice"] = 0

	w := doJSON(t, router, http.MethodPost, "/api/v1/costing/calculate", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
}

func TestRouter_MarginEndpoints(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodPost, "/api/v1/costing/margin/price", map[string]any{
		"marginPct":   40,
		"costPerUnit": 60,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.InDelta(t, 100, body["sellingPrice"].(float64), 1e-9)

	w = doJSON(t, router, http.MethodPost, "/api/v1/costing/margin/from-price", map[string]any{
		"sellingPrice": 100,
		"costPerUnit":  60,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.InDelta(t, 40, body["marginPct"].(float64), 1e-9)

	w = doJSON(t, router, http.MethodPost, "/api/v1/costing/margin/price", map[string]any{
		"marginPct":   100,
		"costPerUnit": 60,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Containers(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodGet, "/api/v1/costing/containers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	containers := body["containers"].([]any)
	assert.NotEmpty(t, containers)
}

func TestRouter_RecordLifecycle(t *testing.T) {
	router := newTestRouter(t, "")

	// Save
	w := doJSON(t, router, http.MethodPost, "/api/v1/calculations", calculatePayload())
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	recID := created["id"].(string)
	require.NotEmpty(t, recID)
	assert.Equal(t, "local", created["storeMode"])

	// Get
	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations/"+recID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode(t, w)
	assert.Equal(t, "Yunnan YNH-W-C5-001", rec["productName"])
	assert.InDelta(t, 274135.48, rec["totalCost"].(float64), 0.005)

	input := rec["input"].(map[string]any)
	assert.Equal(t, "FOB", input["incoterms"])
	assert.InDelta(t, 61, input["unitPrice"].(float64), 1e-9)

	// Update
	payload := calculatePayload()
	payload["productName"] = "Yunnan YNH-W-C5-002"
	w = doJSON(t, router, http.MethodPut, "/api/v1/calculations/"+recID, payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations/"+recID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Yunnan YNH-W-C5-002", decode(t, w)["productName"])

	// List
	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["count"])
	assert.Equal(t, "local", list["storeMode"])

	// Category filter
	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations?category=Nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["count"])

	// Categories
	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]any)
	assert.Equal(t, []any{"Coffee Green Beans"}, categories)

	// Export
	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations/"+recID+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "export-cost-calculation-yunnan_ynh_w_c5_002")
	doc := decode(t, w)
	assert.Equal(t, "1.0", doc["calculatorVersion"])
	summary := doc["summary"].(map[string]any)
	assert.InDelta(t, 274135.48, summary["totalCostNZD"].(float64), 0.005)

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/api/v1/calculations/"+recID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/calculations/"+recID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestRouter_InvalidRecordID(t *testing.T) {
	router := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodGet, "/api/v1/calculations/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])
}

func TestRouter_AuthRequired(t *testing.T) {
	router := newTestRouter(t, "test-secret")

	w := doJSON(t, router, http.MethodPost, "/api/v1/costing/calculate", calculatePayload())
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays open.
	w = doJSON(t, router, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
