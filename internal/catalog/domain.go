package catalog

import "github.com/shopspring/decimal"

// Product is a sellable item. Name identifies it within the catalog.
type Product struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Entry is a product with its 1-based position in load order, as listed to the operator.
type Entry struct {
	Position int `json:"position"`
	Product
}
