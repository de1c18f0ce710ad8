package inventory

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"estoque/internal/adapter/memory"
	"estoque/internal/domain"
)

func newTestHandler(t *testing.T) (http.Handler, *Store) {
	t.Helper()
	store := NewStore(memory.New(), zap.NewNop(), PersistOptions{MaxAttempts: 1, Backoff: time.Millisecond})
	t.Cleanup(store.Close)

	r := chi.NewRouter()
	NewController(store, zap.NewNop()).RegisterRoutes(r)
	return r, store
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) ProductResponse {
	t.Helper()
	var resp ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func seedShirt(t *testing.T, store *Store) {
	t.Helper()
	_, err := store.AddProduct(shirtProduct())
	require.NoError(t, err)
}

func TestCreateProduct(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/products", ProductCreateRequest{
		ID:    "SKU001",
		Name:  "Camiseta",
		Price: 29.99,
		Variations: []VariationCreateRequest{
			{ID: "SKU001-S", Size: "P", Stock: 20, Price: 29.99},
			{ID: "SKU001-M", Size: "M", Stock: 30, Price: 29.99},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeProduct(t, rec)
	assert.Equal(t, "SKU001", resp.ID)
	assert.Equal(t, 50, resp.Stock)
	assert.Equal(t, string(domain.SyncPending), resp.SyncStatus)
}

func TestCreateProduct_Duplicate(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPost, "/products", ProductCreateRequest{ID: "SKU001", Name: "Outra", Price: 1})

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DUPLICATE_ID", resp.Error)
}

func TestCreateProduct_ValidationFailures(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body ProductCreateRequest
	}{
		{"missing name", ProductCreateRequest{Price: 10}},
		{"negative stock", ProductCreateRequest{Name: "X", Stock: -1}},
		{"negative price", ProductCreateRequest{Name: "X", Price: -1}},
		{"negative variation stock", ProductCreateRequest{
			Name:       "X",
			Variations: []VariationCreateRequest{{ID: "V1", Stock: -5}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/products", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp validationErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestCreateProduct_MalformedJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)
	_, err := store.AddProduct(domain.Product{ID: "SKU002", Name: "Calça Jeans", Category: "Calças", Price: 89.90, Stock: 10})
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Products, 2)
}

func TestListProducts_Search(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)
	_, err := store.AddProduct(domain.Product{ID: "SKU002", Name: "Calça Jeans", Category: "Calças", Price: 89.90})
	require.NoError(t, err)

	cases := []struct {
		query string
		want  int
	}{
		{"camiseta", 1},
		{"CALÇA", 1},
		{"sku00", 2},
		{"inexistente", 0},
	}
	for _, tc := range cases {
		rec := doRequest(t, h, http.MethodGet, "/products?q="+tc.query, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ProductListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tc.want, resp.Total, "query %q", tc.query)
	}
}

func TestGetProduct(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodGet, "/products/SKU001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProduct(t, rec)
	assert.Equal(t, "Camiseta Básica Branca", resp.Name)
	assert.Len(t, resp.Variations, 2)

	rec = doRequest(t, h, http.MethodGet, "/products/SKU404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPatch, "/products/SKU001", map[string]any{"name": "Camiseta Premium", "price": 39.99})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProduct(t, rec)
	assert.Equal(t, "Camiseta Premium", resp.Name)
	assert.Equal(t, 39.99, resp.Price)

	rec = doRequest(t, h, http.MethodPatch, "/products/SKU404", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct_RejectsInvalidFields(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	for _, body := range []map[string]any{
		{"stock": -1},
		{"price": -0.01},
		{"name": "  "},
	} {
		rec := doRequest(t, h, http.MethodPatch, "/products/SKU001", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
}

func TestDeleteProduct(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodDelete, "/products/SKU001", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.Products())

	// Absent ids still answer 204.
	rec = doRequest(t, h, http.MethodDelete, "/products/SKU001", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdjustStock(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPost, "/products/SKU001/stock", StockAdjustRequest{VariationID: "SKU001-S", Delta: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProduct(t, rec)
	assert.Equal(t, 55, resp.Stock)
	assert.Equal(t, 25, resp.Variations[0].Stock)
}

func TestAdjustStock_Errors(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPost, "/products/SKU001/stock", StockAdjustRequest{Delta: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/products/SKU404/stock", StockAdjustRequest{Delta: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/products/SKU001/stock", StockAdjustRequest{VariationID: "SKU001-XG", Delta: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateVariation(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPost, "/products/SKU001/variations", VariationCreateRequest{ID: "SKU001-G", Size: "G", Stock: 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeProduct(t, rec)
	require.Len(t, resp.Variations, 3)
	assert.Equal(t, 60, resp.Stock)
	// Price falls back to the parent's.
	assert.Equal(t, 29.99, resp.Variations[2].Price)
}

func TestCreateVariation_Errors(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPost, "/products/SKU404/variations", VariationCreateRequest{Stock: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/products/SKU001/variations", VariationCreateRequest{ID: "SKU001-S", Stock: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/products/SKU001/variations", VariationCreateRequest{Stock: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateVariation(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodPatch, "/products/SKU001/variations/SKU001-S", map[string]any{"stock": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProduct(t, rec)
	assert.Equal(t, 5, resp.Variations[0].Stock)
	assert.Equal(t, 35, resp.Stock)

	rec = doRequest(t, h, http.MethodPatch, "/products/SKU001/variations/SKU001-XG", map[string]any{"stock": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPatch, "/products/SKU001/variations/SKU001-S", map[string]any{"price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteVariation(t *testing.T) {
	h, store := newTestHandler(t)
	seedShirt(t, store)

	rec := doRequest(t, h, http.MethodDelete, "/products/SKU001/variations/SKU001-S", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	p, _ := store.GetProductByID("SKU001")
	assert.Len(t, p.Variations, 1)
	assert.Equal(t, 30, p.Stock)

	rec = doRequest(t, h, http.MethodDelete, "/products/SKU001/variations/SKU001-S", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
