package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
	"github.com/stasstaf/shopcart/pkg/httputil"

	"github.com/stasstaf/shopcart/internal/service"
)

// ComputeHandler handles the stateless arithmetic endpoints.
type ComputeHandler struct {
	service *service.ComputeService
	logger  *slog.Logger
}

// NewComputeHandler creates a new compute HTTP handler.
func NewComputeHandler(svc *service.ComputeService, logger *slog.Logger) *ComputeHandler {
	return &ComputeHandler{
		service: svc,
		logger:  logger,
	}
}

// Factorial handles GET /factorial?n=
func (h *ComputeHandler) Factorial(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		httputil.WriteError(w, r, apperrors.Validation("parameter 'n' is required and must be an integer"), h.logger)
		return
	}

	n, err := httputil.IntQuery(r, "n", 0)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Validation("parameter 'n' is required and must be an integer"), h.logger)
		return
	}

	result, err := h.service.Factorial(int64(n))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeBigResult(w, result.String())
}

// Fibonacci handles GET /fibonacci/{n}
func (h *ComputeHandler) Fibonacci(w http.ResponseWriter, r *http.Request) {
	n, err := httputil.PathInt64(r, "n")
	if err != nil {
		httputil.WriteError(w, r, apperrors.Validation("path parameter 'n' must be a valid integer"), h.logger)
		return
	}

	result, err := h.service.Fibonacci(n)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	writeBigResult(w, result.String())
}

// Mean handles GET /mean with a JSON array body.
func (h *ComputeHandler) Mean(w http.ResponseWriter, r *http.Request) {
	var values []float64
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("request body must be an array of numbers"), h.logger)
		return
	}
	if values == nil {
		// JSON null decodes without error but is not an array.
		httputil.WriteError(w, r, apperrors.Validation("request body must be an array of numbers"), h.logger)
		return
	}

	result, err := h.service.Mean(values)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]float64{"result": result})
}

// writeBigResult writes {"result": N} with N as a bare JSON number, keeping
// arbitrary-precision integers unquoted on the wire.
func writeBigResult(w http.ResponseWriter, digits string) {
	httputil.WriteJSON(w, http.StatusOK, map[string]json.RawMessage{
		"result": json.RawMessage(digits),
	})
}
