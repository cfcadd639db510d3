package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	newReq := func() *http.Request {
		return httptest.NewRequest(http.MethodGet, "/item/1", nil)
	}

	t.Run("app error maps to its status and code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, newReq(), apperrors.NotFound("item", 1), testLogger())

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.Equal(t, "item with id 1 not found", body.Error.Message)
	})

	t.Run("304 carries no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, newReq(), apperrors.Gone("item", 1), testLogger())

		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown errors hide details behind a 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, newReq(), errors.New("connection string leaked"), testLogger())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, rec.Body.String(), "connection string")
	})
}
