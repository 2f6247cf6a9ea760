package cart

import (
	"encoding/json"
	"fmt"
)

// MarshalSnapshot serializes the cart as a JSON array of items.
func MarshalSnapshot(c Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

// ParseSnapshot restores a cart written by MarshalSnapshot. Snapshots with
// duplicate products or non-positive amounts are rejected.
func ParseSnapshot(data []byte) (Cart, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return Cart{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return Cart{}, fmt.Errorf("%w: product %d has amount %d", ErrInvalidSnapshot, item.ID, item.Amount)
		}
		if _, ok := seen[item.ID]; ok {
			return Cart{}, fmt.Errorf("%w: duplicate product %d", ErrInvalidSnapshot, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	if items == nil {
		items = []Item{}
	}
	return Cart{Items: items}, nil
}
