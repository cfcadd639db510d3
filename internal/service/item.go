package service

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"

	"github.com/stasstaf/shopcart/internal/domain"
	"github.com/stasstaf/shopcart/internal/event"
	"github.com/stasstaf/shopcart/internal/store"
)

// ItemService implements the business rules for catalog operations.
type ItemService struct {
	store    *store.Memory
	producer *event.Producer
	logger   *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(st *store.Memory, producer *event.Producer, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:    st,
		producer: producer,
		logger:   logger,
	}
}

// CreateItem validates and inserts a new catalog record.
func (s *ItemService) CreateItem(ctx context.Context, name string, price float64) (*domain.Item, error) {
	if name == "" {
		return nil, apperrors.Validation("item name is required")
	}
	if price < 0 {
		return nil, apperrors.Validation("item price must not be negative")
	}

	item := s.store.CreateItem(name, price)

	if err := s.producer.PublishItemCreated(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.created event",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.Float64("price", item.Price),
	)

	return item, nil
}

// GetItem returns a non-deleted item by id.
func (s *ItemService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.store.GetItem(id)
}

// ListItems validates the filter and returns a page of the catalog.
func (s *ItemService) ListItems(ctx context.Context, f store.ItemFilter) ([]*domain.Item, error) {
	if f.Offset < 0 {
		return nil, apperrors.Validation("offset must be non-negative")
	}
	if f.Limit <= 0 {
		return nil, apperrors.Validation("limit must be positive")
	}
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return nil, apperrors.Validation("price bounds must be non-negative")
	}

	return s.store.ListItems(f), nil
}

// ReplaceItem overwrites the name and price of an existing item.
func (s *ItemService) ReplaceItem(ctx context.Context, id int64, name string, price float64) (*domain.Item, error) {
	if name == "" {
		return nil, apperrors.Validation("item name is required")
	}
	if price < 0 {
		return nil, apperrors.Validation("item price must not be negative")
	}

	item, err := s.store.ReplaceItem(id, name, price)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item replaced", slog.Int64("item_id", id))

	return item, nil
}

// PatchItem applies a partial update from raw JSON fields. The target is
// resolved before the body is inspected, so a missing item reports not found
// and a deleted one reports gone even when the fields are invalid. All keys
// and values are then validated before any field is mutated; on error nothing
// is applied. Only name and price may be patched.
func (s *ItemService) PatchItem(ctx context.Context, id int64, fields map[string]json.RawMessage) (*domain.Item, error) {
	item, err := s.store.PatchItem(id, func(item *domain.Item) error {
		var name *string
		var price *float64

		for key, raw := range fields {
			switch key {
			case "name":
				var v string
				if err := json.Unmarshal(raw, &v); err != nil {
					return apperrors.Validation("name must be a string")
				}
				name = &v
			case "price":
				var v float64
				if err := json.Unmarshal(raw, &v); err != nil {
					return apperrors.Validation("price must be a number")
				}
				if v < 0 {
					return apperrors.Validation("item price must not be negative")
				}
				price = &v
			default:
				return apperrors.Validation("unknown field in request body: " + key)
			}
		}

		if name != nil {
			item.Name = *name
		}
		if price != nil {
			item.Price = *price
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item patched", slog.Int64("item_id", id))

	return item, nil
}

// DeleteItem soft-deletes an item. Idempotent for already-deleted items.
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	item, err := s.store.DeleteItem(id)
	if err != nil {
		return err
	}

	if err := s.producer.PublishItemDeleted(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.deleted event",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item soft-deleted", slog.Int64("item_id", id))

	return nil
}
