package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasstaf/shopcart/pkg/httputil"
)

func resultField(t *testing.T, rec *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()

	var body map[string]json.RawMessage
	decodeBody(t, rec, &body)
	require.Contains(t, body, "result")
	return body["result"]
}

func TestFactorialEndpoint(t *testing.T) {
	router := newTestRouter()

	t.Run("computes small factorials", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/factorial?n=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"result":120}`, rec.Body.String())
	})

	t.Run("zero", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/factorial?n=0", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"result":1}`, rec.Body.String())
	})

	t.Run("large results stay exact unquoted numbers", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/factorial?n=25", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "15511210043330985984000000", string(resultField(t, rec)))
	})

	t.Run("negative n yields 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/factorial?n=-1", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body httputil.ErrorBody
		decodeBody(t, rec, &body)
		assert.Equal(t, "INVALID_INPUT", body.Error.Code)
	})

	t.Run("missing or malformed n yields 422", func(t *testing.T) {
		for _, path := range []string{"/factorial", "/factorial?n=", "/factorial?n=abc", "/factorial?n=1.5"} {
			rec := doRequest(t, router, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
		}
	})
}

func TestFibonacciEndpoint(t *testing.T) {
	router := newTestRouter()

	t.Run("computes fibonacci numbers", func(t *testing.T) {
		cases := map[string]string{
			"/fibonacci/0":   "0",
			"/fibonacci/1":   "1",
			"/fibonacci/10":  "55",
			"/fibonacci/100": "354224848179261915075",
		}
		for path, want := range cases {
			rec := doRequest(t, router, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, want, string(resultField(t, rec)), path)
		}
	})

	t.Run("negative n yields 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/fibonacci/-5", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric n yields 422", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/fibonacci/abc", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestMeanEndpoint(t *testing.T) {
	router := newTestRouter()

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/mean", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("computes the mean", func(t *testing.T) {
		rec := send("[1, 2, 3, 4]")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"result":2.5}`, rec.Body.String())
	})

	t.Run("empty array yields 400", func(t *testing.T) {
		rec := send("[]")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body httputil.ErrorBody
		decodeBody(t, rec, &body)
		assert.Equal(t, "INVALID_INPUT", body.Error.Code)
	})

	t.Run("null body yields 422", func(t *testing.T) {
		rec := send("null")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("non-numeric elements yield 422", func(t *testing.T) {
		rec := send(`[1, "two"]`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body yields 422", func(t *testing.T) {
		rec := send("not json")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
