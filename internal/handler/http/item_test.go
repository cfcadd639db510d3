package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasstaf/shopcart/pkg/health"
	"github.com/stasstaf/shopcart/pkg/httputil"

	"github.com/stasstaf/shopcart/internal/chat"
	"github.com/stasstaf/shopcart/internal/event"
	"github.com/stasstaf/shopcart/internal/service"
	"github.com/stasstaf/shopcart/internal/store"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter assembles the production router on a fresh in-memory store
// with domain events disabled.
func newTestRouter() http.Handler {
	logger := testLogger()
	memory := store.NewMemory()
	producer := event.NewProducer(nil, logger)

	itemService := service.NewItemService(memory, producer, logger)
	cartService := service.NewCartService(memory, producer, logger)
	computeService := service.NewComputeService()
	hub := chat.NewHub(logger)

	return NewRouter(itemService, cartService, computeService, hub, health.NewHandler(), logger)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createItem(t *testing.T, router http.Handler, name string, price float64) int64 {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/item", map[string]any{
		"name":  name,
		"price": price,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &resp)
	return resp.ID
}

func createCart(t *testing.T, router http.Handler) int64 {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/cart", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &resp)
	return resp.ID
}

// ============================================================================
// POST /item
// ============================================================================

func TestCreateItemEndpoint(t *testing.T) {
	t.Run("creates item with location header", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPost, "/item", map[string]any{
			"name":  "Widget",
			"price": 9.99,
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/item/1", rec.Header().Get("Location"))

		var resp struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "Widget", resp.Name)
		assert.Equal(t, 9.99, resp.Price)
		assert.NotContains(t, rec.Body.String(), "deleted")
	})

	t.Run("missing fields yield 422 with field details", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPost, "/item", map[string]any{
			"name": "Widget",
		})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body httputil.ErrorBody
		decodeBody(t, rec, &body)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Fields, "Price")
	})

	t.Run("negative price yields 422", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPost, "/item", map[string]any{
			"name":  "Widget",
			"price": -1.0,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body yields 422", func(t *testing.T) {
		router := newTestRouter()

		req := httptest.NewRequest(http.MethodPost, "/item", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

// ============================================================================
// GET /item/{id} and GET /item
// ============================================================================

func TestGetItemEndpoint(t *testing.T) {
	router := newTestRouter()
	id := createItem(t, router, "Widget", 9.99)

	t.Run("returns the item", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, "Widget", resp.Name)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item/999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body httputil.ErrorBody
		decodeBody(t, rec, &body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("non-numeric id yields 422", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item/abc", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListItemsEndpoint(t *testing.T) {
	router := newTestRouter()
	createItem(t, router, "Cheap", 1.00)
	createItem(t, router, "Mid", 5.00)
	createItem(t, router, "Expensive", 50.00)

	t.Run("defaults to offset 0 limit 10", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []map[string]any
		decodeBody(t, rec, &items)
		assert.Len(t, items, 3)
		// Listings expose the deleted flag.
		assert.Contains(t, items[0], "deleted")
	})

	t.Run("windows the listing", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item?offset=1&limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []map[string]any
		decodeBody(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Mid", items[0]["name"])
	})

	t.Run("offset beyond the data yields an empty array", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item?offset=5&limit=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("filters by price bounds", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/item?min_price=2&max_price=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []map[string]any
		decodeBody(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Mid", items[0]["name"])
	})

	t.Run("invalid query parameters yield 422", func(t *testing.T) {
		for _, path := range []string{
			"/item?limit=abc",
			"/item?offset=abc",
			"/item?limit=0",
			"/item?limit=-1",
			"/item?offset=-1",
			"/item?min_price=-1",
			"/item?show_deleted=maybe",
		} {
			rec := doRequest(t, router, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
		}
	})
}

// ============================================================================
// PUT / PATCH / DELETE /item/{id}
// ============================================================================

func TestReplaceItemEndpoint(t *testing.T) {
	router := newTestRouter()
	createItem(t, router, "Widget", 9.99)

	t.Run("replaces name and price", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/item/1", map[string]any{
			"name":  "Widget v2",
			"price": 12.00,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Widget v2", resp.Name)
		assert.Equal(t, 12.00, resp.Price)
	})

	t.Run("partial body yields 422", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/item/1", map[string]any{
			"name": "Widget v3",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/item/999", map[string]any{
			"name":  "Nope",
			"price": 1.00,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPatchItemEndpoint(t *testing.T) {
	t.Run("patches a single field", func(t *testing.T) {
		router := newTestRouter()
		createItem(t, router, "Widget", 9.99)

		rec := doRequest(t, router, http.MethodPatch, "/item/1", map[string]any{
			"price": 15.00,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Widget", resp.Name)
		assert.Equal(t, 15.00, resp.Price)
	})

	t.Run("unknown field yields 422", func(t *testing.T) {
		router := newTestRouter()
		createItem(t, router, "Widget", 9.99)

		rec := doRequest(t, router, http.MethodPatch, "/item/1", map[string]any{
			"deleted": true,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("patching a deleted item yields 304 without a body", func(t *testing.T) {
		router := newTestRouter()
		createItem(t, router, "Widget", 9.99)

		rec := doRequest(t, router, http.MethodDelete, "/item/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPatch, "/item/1", map[string]any{
			"name": "Nope",
		})
		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPatch, "/item/999", map[string]any{
			"name": "Nope",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown field on a missing item still yields 404", func(t *testing.T) {
		router := newTestRouter()

		rec := doRequest(t, router, http.MethodPatch, "/item/999", map[string]any{
			"bogus": 1,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown field on a deleted item still yields 304", func(t *testing.T) {
		router := newTestRouter()
		createItem(t, router, "Widget", 9.99)

		rec := doRequest(t, router, http.MethodDelete, "/item/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPatch, "/item/1", map[string]any{
			"bogus": 1,
		})
		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestDeleteItemEndpoint(t *testing.T) {
	router := newTestRouter()
	createItem(t, router, "Widget", 9.99)

	rec := doRequest(t, router, http.MethodDelete, "/item/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Idempotent: a second delete succeeds the same way.
	rec = doRequest(t, router, http.MethodDelete, "/item/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The item is now hidden from direct lookup and a PUT cannot revive it.
	rec = doRequest(t, router, http.MethodGet, "/item/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/item/1", map[string]any{
		"name":  "Revived",
		"price": 1.00,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting something that never existed is a 404.
	rec = doRequest(t, router, http.MethodDelete, "/item/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The record remains visible to a listing that asks for deleted items.
	rec = doRequest(t, router, http.MethodGet, "/item?show_deleted=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	decodeBody(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0]["deleted"])
}
