package domain

// Item is a catalog record. Items are never physically removed; Deleted marks
// them invisible to direct lookup while carts keep resolving the identifier.
type Item struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Deleted bool    `json:"deleted"`
}
