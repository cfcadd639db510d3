package httputil

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
)

// PathInt64 parses an integer path parameter registered with chi.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation(name + " must be a valid integer")
	}
	return v, nil
}

// IntQuery parses an integer query parameter, falling back to def when absent.
func IntQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(name + " must be a valid integer")
	}
	return v, nil
}

// IntPtrQuery parses an optional integer query parameter. Absent yields nil.
func IntPtrQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a valid integer")
	}
	return &v, nil
}

// FloatPtrQuery parses an optional float query parameter. Absent yields nil.
func FloatPtrQuery(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a valid number")
	}
	return &v, nil
}

// BoolQuery parses a boolean query parameter, falling back to def when absent.
func BoolQuery(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.Validation(name + " must be a valid boolean")
	}
	return v, nil
}
