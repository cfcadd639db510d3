package service

import (
	"context"
	"log/slog"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"

	"github.com/stasstaf/shopcart/internal/domain"
	"github.com/stasstaf/shopcart/internal/event"
	"github.com/stasstaf/shopcart/internal/store"
)

// CartService implements the business rules for cart operations.
type CartService struct {
	store    *store.Memory
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(st *store.Memory, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		store:    st,
		producer: producer,
		logger:   logger,
	}
}

// CreateCart stores a new empty cart.
func (s *CartService) CreateCart(ctx context.Context) *domain.Cart {
	cart := s.store.CreateCart()

	s.logger.InfoContext(ctx, "cart created", slog.Int64("cart_id", cart.ID))

	return cart
}

// GetCart returns the cart with freshly recomputed derived state.
func (s *CartService) GetCart(ctx context.Context, id int64) (*domain.Cart, error) {
	return s.store.GetCart(id)
}

// ListCarts validates the filter and returns a page of carts. Every cart is
// recomputed before filtering, including carts the window drops.
func (s *CartService) ListCarts(ctx context.Context, f store.CartFilter) ([]*domain.Cart, error) {
	if f.Offset < 0 {
		return nil, apperrors.Validation("offset must be non-negative")
	}
	if f.Limit <= 0 {
		return nil, apperrors.Validation("limit must be positive")
	}
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return nil, apperrors.Validation("price bounds must be non-negative")
	}
	if (f.MinQuantity != nil && *f.MinQuantity < 0) || (f.MaxQuantity != nil && *f.MaxQuantity < 0) {
		return nil, apperrors.Validation("quantity bounds must be non-negative")
	}

	return s.store.ListCarts(f), nil
}

// AddItem adds one unit of the item to the cart, merging into an existing
// line when present, and returns the recomputed cart.
func (s *CartService) AddItem(ctx context.Context, cartID, itemID int64) (*domain.Cart, error) {
	cart, err := s.store.AddCartItem(cartID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.Int64("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int64("cart_id", cartID),
		slog.Int64("item_id", itemID),
	)

	return cart, nil
}
