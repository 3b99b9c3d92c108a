package routers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smilefnb/smile_backend/cache"
	"github.com/smilefnb/smile_backend/config"
	"github.com/smilefnb/smile_backend/models"
	"github.com/smilefnb/smile_backend/routers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "smile_test.db"))
	require.NoError(t, config.ConnectDatabase())
	models.MigrateTable()

	r := gin.New()
	routers.RegisterOrderRoutes(r.Group("/api/orders"))
	routers.RegisterReportRoutes(r.Group("/api/reports"))
	routers.RegisterCacheRoutes(r.Group("/api/redis"), cache.NewStore(cache.Options{}))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestUpsertItemEndpointIsIdempotent(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders/table/1/item", `{"dish_name":"Pho","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/orders/table/1/item", `{"dish_name":" pho ","quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/orders/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "Pho", orders[0]["dish_name"])
	assert.EqualValues(t, 3, orders[0]["quantity"])
}

func TestUpsertItemEndpointRejectsMissingDishName(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders/table/1/item", `{"quantity":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Contains(t, body["detail"], "validation failed")
}

func TestLegacyCreateOrderEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders/",
		`{"table_id":4,"dish_name":"Com Tam","quantity":2,"date":"2026-08-29","time":"12:00:00","note":"no egg"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order map[string]any
	decodeBody(t, w, &order)
	assert.EqualValues(t, 4, order["table_id"])
	assert.Equal(t, "no egg", order["note"])
}

func TestQuantityUpdateEndpointCreatesOnMissWithEncodedName(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/orders/table/2/dish/Bun%20Cha", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Order map[string]any `json:"order"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, "Bun Cha", body.Order["dish_name"])
	assert.EqualValues(t, 5, body.Order["quantity"])
}

func TestNoteUpdateEndpointMissIs404(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/orders/table/2/dish/Nonexistent/note", `{"note":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Contains(t, body["detail"], "Nonexistent")
}

func TestDeleteOrdersByTableEndpointEmptyIsSuccess(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodDelete, "/api/orders/by-table/999", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.EqualValues(t, 0, body["deleted"])
}

func TestDeleteOrderByIdEndpointMissIs404(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodDelete, "/api/orders/31337", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportBatchEndpointAtomicOnInvalidEntry(t *testing.T) {
	r := setupRouter(t)

	payload := `{"reports":[
		{"tableNumber":1,"date":"2026-08-29","time":"21:00:00","code":"D01","nameDish":"Pho","quantity":1,"totalCheck":50000},
		{"tableNumber":1,"date":"2026-08-29","time":"21:00:00","code":"D02","nameDish":"Bun Cha","quantity":2,"totalCheck":90000},
		{"tableNumber":2,"date":"2026-08-29","time":"21:05:00","code":"","nameDish":"Com Tam","quantity":1,"totalCheck":40000}
	]}`
	w := doJSON(t, r, http.MethodPost, "/api/reports/batch", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/reports/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var reports []map[string]any
	decodeBody(t, w, &reports)
	assert.Empty(t, reports)
}

func TestReportBatchEndpointPersistsAll(t *testing.T) {
	r := setupRouter(t)

	payload := `{"reports":[
		{"tableNumber":1,"date":"2026-08-29","time":"21:00:00","code":"D01","nameDish":"Pho","quantity":1,"totalCheck":50000,"shipFee":0,"discountCheck":5000},
		{"tableNumber":1,"date":"2026-08-29","time":"21:00:00","code":"D02","nameDish":"Bun Cha","quantity":2,"totalCheck":90000}
	]}`
	w := doJSON(t, r, http.MethodPost, "/api/reports/batch", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Reports []map[string]any `json:"reports"`
	}
	decodeBody(t, w, &body)
	require.Len(t, body.Reports, 2)
	assert.Equal(t, "Pho", body.Reports[0]["product_name"])
	assert.Equal(t, "Bun Cha", body.Reports[1]["product_name"])
	for _, report := range body.Reports {
		assert.NotZero(t, report["id"])
	}
}

func TestCacheEndpointsDegradeWhenDisabled(t *testing.T) {
	r := setupRouter(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/redis/check", ""},
		{http.MethodGet, "/api/redis/data", ""},
		{http.MethodPost, "/api/redis/data", `{"orders":[]}`},
		{http.MethodDelete, "/api/redis/data", ""},
	} {
		w := doJSON(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "%s %s", tc.method, tc.path)
	}
}
