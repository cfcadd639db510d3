package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
	"github.com/stasstaf/shopcart/pkg/httputil"
	"github.com/stasstaf/shopcart/pkg/validator"

	"github.com/stasstaf/shopcart/internal/service"
	"github.com/stasstaf/shopcart/internal/store"
)

// ItemHandler handles HTTP requests for catalog endpoints.
type ItemHandler struct {
	service *service.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item HTTP handler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: svc,
		logger:  logger,
	}
}

// ItemRequest is the JSON request body for creating or replacing an item.
// Pointer fields distinguish an absent field from a zero value.
type ItemRequest struct {
	Name  *string  `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

// itemResponse is the wire shape for a single item. The deleted flag is
// exposed only on listings.
type itemResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateItem handles POST /item
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, r, err, h.logger)
		return
	}

	item, err := h.service.CreateItem(r.Context(), *req.Name, *req.Price)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/item/%d", item.ID))
	httputil.WriteJSON(w, http.StatusCreated, itemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
}

// GetItem handles GET /item/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, itemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
}

// ListItems handles GET /item
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := itemFilterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

// ReplaceItem handles PUT /item/{id}
func (h *ItemHandler) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, r, err, h.logger)
		return
	}

	item, err := h.service.ReplaceItem(r.Context(), id, *req.Name, *req.Price)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, itemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
}

// PatchItem handles PATCH /item/{id}
func (h *ItemHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("invalid request body: "+err.Error()), h.logger)
		return
	}

	item, err := h.service.PatchItem(r.Context(), id, fields)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, itemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
}

// DeleteItem handles DELETE /item/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "item marked as deleted"})
}

// itemFilterFromQuery parses listing parameters with the documented defaults.
func itemFilterFromQuery(r *http.Request) (store.ItemFilter, error) {
	var f store.ItemFilter
	var err error

	if f.Offset, err = httputil.IntQuery(r, "offset", 0); err != nil {
		return f, err
	}
	if f.Limit, err = httputil.IntQuery(r, "limit", 10); err != nil {
		return f, err
	}
	if f.MinPrice, err = httputil.FloatPtrQuery(r, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = httputil.FloatPtrQuery(r, "max_price"); err != nil {
		return f, err
	}
	if f.ShowDeleted, err = httputil.BoolQuery(r, "show_deleted", false); err != nil {
		return f, err
	}

	return f, nil
}

// writeValidationError maps body validation failures to a 422 with
// field-level details.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.ErrorBody{
			Error: httputil.ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	httputil.WriteError(w, r, apperrors.Validation(err.Error()), fallback)
}
