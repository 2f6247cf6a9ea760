package cart

import (
	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

// Item is a product held in the cart together with the quantity selected.
type Item struct {
	domproduct.Product
	Amount int64 `json:"amount"`
}

// Cart is the ordered list of items a shopper selected. Items are unique by
// product ID and keep their insertion order.
//
// Cart values are never mutated in place: every transformation returns a new
// Cart so a rejected operation leaves the previous value intact.
type Cart struct {
	Items []Item
}

func (c Cart) Len() int {
	return len(c.Items)
}

func (c Cart) Find(productID int64) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == productID {
			return item, true
		}
	}
	return Item{}, false
}

func (c Cart) Clone() Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// WithIncrement adds one unit of p. An item already in the cart keeps its
// display attributes; otherwise p is appended with amount 1. The returned
// amount is the resulting quantity for p.
func (c Cart) WithIncrement(p domproduct.Product) (Cart, int64) {
	next := c.Clone()
	for i := range next.Items {
		if next.Items[i].ID == p.ID {
			next.Items[i].Amount++
			return next, next.Items[i].Amount
		}
	}
	next.Items = append(next.Items, Item{Product: p, Amount: 1})
	return next, 1
}

// Without drops every item with productID. The boolean reports whether
// anything was removed.
func (c Cart) Without(productID int64) (Cart, bool) {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	return Cart{Items: items}, len(items) != len(c.Items)
}

// WithAmount sets the quantity of productID. The boolean is false when the
// product is not in the cart, in which case the cart is returned unchanged.
func (c Cart) WithAmount(productID, amount int64) (Cart, bool) {
	next := c.Clone()
	for i := range next.Items {
		if next.Items[i].ID == productID {
			next.Items[i].Amount = amount
			return next, true
		}
	}
	return next, false
}
