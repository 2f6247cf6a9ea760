package product

type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the number of units the inventory can still hand out for a product.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}
