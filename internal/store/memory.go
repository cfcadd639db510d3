package store

import (
	"sync"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"

	"github.com/stasstaf/shopcart/internal/domain"
)

// ItemFilter narrows and windows a catalog listing. Nil bounds are unset.
type ItemFilter struct {
	Offset      int
	Limit       int
	MinPrice    *float64
	MaxPrice    *float64
	ShowDeleted bool
}

// CartFilter narrows and windows a cart listing. Nil bounds are unset.
// Quantity bounds apply to the sum of line quantities, counted regardless
// of availability.
type CartFilter struct {
	Offset      int
	Limit       int
	MinPrice    *float64
	MaxPrice    *float64
	MinQuantity *int
	MaxQuantity *int
}

// Memory owns the item catalog and the cart collection. A single mutex guards
// both, so every exported method is one atomic unit with respect to the
// others: no caller observes a cart recomputed against a half-applied
// catalog mutation. Identifiers are assigned from independent counters
// starting at 1 and are never reused, which keeps both collections dense and
// makes the insertion-order slices double as id indexes.
type Memory struct {
	mu         sync.Mutex
	items      []*domain.Item
	carts      []*domain.Cart
	nextItemID int64
	nextCartID int64
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{nextItemID: 1, nextCartID: 1}
}

// lockedCatalog adapts the store to domain.CatalogView. Valid only while the
// store's mutex is held by the caller.
type lockedCatalog struct {
	m *Memory
}

func (c lockedCatalog) PriceOf(itemID int64) (float64, bool) {
	item := c.m.itemByID(itemID)
	if item == nil || item.Deleted {
		return 0, false
	}
	return item.Price, true
}

// itemByID returns the live record for the id, or nil. Caller holds the lock.
func (m *Memory) itemByID(id int64) *domain.Item {
	if id < 1 || id > int64(len(m.items)) {
		return nil
	}
	return m.items[id-1]
}

// cartByID returns the live cart for the id, or nil. Caller holds the lock.
func (m *Memory) cartByID(id int64) *domain.Cart {
	if id < 1 || id > int64(len(m.carts)) {
		return nil
	}
	return m.carts[id-1]
}

// CreateItem inserts a new catalog record and advances the item counter.
func (m *Memory) CreateItem(name string, price float64) *domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := &domain.Item{
		ID:    m.nextItemID,
		Name:  name,
		Price: price,
	}
	m.nextItemID++
	m.items = append(m.items, item)

	out := *item
	return &out
}

// GetItem returns the record iff present and not deleted. Deleted items are
// invisible to direct lookup.
func (m *Memory) GetItem(id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.itemByID(id)
	if item == nil || item.Deleted {
		return nil, apperrors.NotFound("item", id)
	}

	out := *item
	return &out, nil
}

// ListItems filters by deletion visibility and inclusive price bounds in
// catalog insertion order, then applies the offset/limit window. An offset
// beyond the filtered length yields an empty result.
func (m *Memory) ListItems(f ItemFilter) []*domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := make([]*domain.Item, 0, len(m.items))
	for _, item := range m.items {
		if item.Deleted && !f.ShowDeleted {
			continue
		}
		if f.MinPrice != nil && item.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && item.Price > *f.MaxPrice {
			continue
		}
		filtered = append(filtered, item)
	}

	return windowItems(filtered, f.Offset, f.Limit)
}

// ReplaceItem overwrites name and price in place. Identity and the deletion
// flag are untouched; a deleted item is reported as not found.
func (m *Memory) ReplaceItem(id int64, name string, price float64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.itemByID(id)
	if item == nil || item.Deleted {
		return nil, apperrors.NotFound("item", id)
	}

	item.Name = name
	item.Price = price

	out := *item
	return &out, nil
}

// PatchItem resolves the target and applies the mutation under one lock hold.
// The target is checked first: a missing id is NotFound and a deleted item is
// Gone, before apply runs, so a bad patch body never masks either outcome.
// Unlike ReplaceItem, patching a deleted item is distinguished from patching a
// missing one. apply must validate everything before assigning any field.
func (m *Memory) PatchItem(id int64, apply func(item *domain.Item) error) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.itemByID(id)
	if item == nil {
		return nil, apperrors.NotFound("item", id)
	}
	if item.Deleted {
		return nil, apperrors.Gone("item", id)
	}

	if err := apply(item); err != nil {
		return nil, err
	}

	out := *item
	return &out, nil
}

// DeleteItem flips the deleted flag and returns the marked record. Deleting
// an already-deleted item is a no-op, not an error. Carts referencing the
// item keep their lines; only future availability and price contribution
// change.
func (m *Memory) DeleteItem(id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.itemByID(id)
	if item == nil {
		return nil, apperrors.NotFound("item", id)
	}

	item.Deleted = true

	out := *item
	return &out, nil
}

// CreateCart stores an empty cart and advances the cart counter.
func (m *Memory) CreateCart() *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := &domain.Cart{
		ID:    m.nextCartID,
		Items: []domain.CartItem{},
	}
	m.nextCartID++
	m.carts = append(m.carts, cart)

	return cart.Clone()
}

// GetCart returns the cart after recomputing its derived state against the
// current catalog. A stale cached total is never returned.
func (m *Memory) GetCart(id int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.cartByID(id)
	if cart == nil {
		return nil, apperrors.NotFound("cart", id)
	}

	cart.Recalculate(lockedCatalog{m})
	return cart.Clone(), nil
}

// ListCarts recomputes every cart's derived state, then filters by total
// price and total quantity in store insertion order, then windows by
// offset/limit. Recalculation deliberately covers carts the window drops:
// a listing call refreshes global state.
func (m *Memory) ListCarts(f CartFilter) []*domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	catalog := lockedCatalog{m}
	filtered := make([]*domain.Cart, 0, len(m.carts))
	for _, cart := range m.carts {
		cart.Recalculate(catalog)

		quantity := cart.TotalQuantity()
		if f.MinPrice != nil && cart.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && cart.Price > *f.MaxPrice {
			continue
		}
		if f.MinQuantity != nil && quantity < *f.MinQuantity {
			continue
		}
		if f.MaxQuantity != nil && quantity > *f.MaxQuantity {
			continue
		}
		filtered = append(filtered, cart)
	}

	windowed := windowCarts(filtered, f.Offset, f.Limit)
	out := make([]*domain.Cart, len(windowed))
	for i, cart := range windowed {
		out[i] = cart.Clone()
	}
	return out
}

// AddCartItem increments the line for the item or appends a new one with the
// item's current name captured, then recomputes the cart. Adding a deleted or
// unknown item is rejected, unlike reading a cart that already references one.
func (m *Memory) AddCartItem(cartID, itemID int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.cartByID(cartID)
	if cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}

	item := m.itemByID(itemID)
	if item == nil || item.Deleted {
		return nil, apperrors.NotFound("item", itemID)
	}

	if i := cart.FindItemIndex(itemID); i >= 0 {
		cart.Items[i].Quantity++
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  1,
			Available: true,
		})
	}

	cart.Recalculate(lockedCatalog{m})
	return cart.Clone(), nil
}

// ItemCount returns the number of catalog records, deleted included.
func (m *Memory) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// CartCount returns the number of carts.
func (m *Memory) CartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

func windowItems(s []*domain.Item, offset, limit int) []*domain.Item {
	if offset >= len(s) {
		return []*domain.Item{}
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]*domain.Item, end-offset)
	for i, item := range s[offset:end] {
		c := *item
		out[i] = &c
	}
	return out
}

func windowCarts(s []*domain.Cart, offset, limit int) []*domain.Cart {
	if offset >= len(s) {
		return []*domain.Cart{}
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end]
}
