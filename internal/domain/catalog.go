package domain

// Category groups products.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Product is a sellable catalog item.
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Stock       int32
	Price       float64
}
