package domain

// CartItem is a single cart line. Name is a snapshot captured when the item
// was first added and is not refreshed afterwards. Available and the cart
// total are derived state, recomputed against the catalog on every read.
type CartItem struct {
	ItemID    int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

// Cart holds an ordered sequence of lines in insertion order. Price is not
// authoritative storage; it equals the last recomputation result.
type Cart struct {
	ID    int64      `json:"id"`
	Items []CartItem `json:"items"`
	Price float64    `json:"price"`
}

// CatalogView is a read-only view of the item catalog used when recomputing
// derived cart state.
type CatalogView interface {
	// PriceOf returns the current price of the item and whether the item
	// exists and is not deleted.
	PriceOf(itemID int64) (float64, bool)
}

// Recalculate refreshes every line's availability and the cart total against
// the given catalog snapshot. Lines whose item is deleted or unknown stay in
// the cart with Available=false and contribute nothing to the total.
// Idempotent for an unchanged catalog.
func (c *Cart) Recalculate(catalog CatalogView) {
	var total float64
	for i := range c.Items {
		price, ok := catalog.PriceOf(c.Items[i].ItemID)
		c.Items[i].Available = ok
		if ok {
			total += price * float64(c.Items[i].Quantity)
		}
	}
	c.Price = total
}

// TotalQuantity returns the sum of line quantities, counted regardless of
// availability.
func (c *Cart) TotalQuantity() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line referencing the given item,
// or -1 if the cart has no such line.
func (c *Cart) FindItemIndex(itemID int64) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (c *Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{ID: c.ID, Items: items, Price: c.Price}
}
