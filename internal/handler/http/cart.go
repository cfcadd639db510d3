package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stasstaf/shopcart/pkg/httputil"

	"github.com/stasstaf/shopcart/internal/service"
	"github.com/stasstaf/shopcart/internal/store"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateCart handles POST /cart
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart := h.service.CreateCart(r.Context())

	w.Header().Set("Location", fmt.Sprintf("/cart/%d", cart.ID))
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"id": cart.ID})
}

// GetCart handles GET /cart/{id}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}

// ListCarts handles GET /cart
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	filter, err := cartFilterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	carts, err := h.service.ListCarts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, carts)
}

// AddItem handles POST /cart/{cartID}/add/{itemID}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := httputil.PathInt64(r, "cartID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	itemID, err := httputil.PathInt64(r, "itemID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), cartID, itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cart)
}

// cartFilterFromQuery parses listing parameters with the documented defaults.
func cartFilterFromQuery(r *http.Request) (store.CartFilter, error) {
	var f store.CartFilter
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
	if f.MinQuantity, err = httputil.IntPtrQuery(r, "min_quantity"); err != nil {
		return f, err
	}
	if f.MaxQuantity, err = httputil.IntPtrQuery(r, "max_quantity"); err != nil {
		return f, err
	}

	return f, nil
}
