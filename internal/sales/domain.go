package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtrasLineName names the synthetic line that carries the extras amount.
const ExtrasLineName = "Extras"

// LineItem is one product-and-quantity entry of a sale.
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	// Synthetic marks the Extras line, which is not part of the products subtotal.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Subtotal returns UnitPrice × Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Candidate is a computed sale waiting for the operator to confirm it.
type Candidate struct {
	LineItems        []LineItem      `json:"line_items"`
	ProductsSubtotal decimal.Decimal `json:"products_subtotal"`
	DrinksAmount     decimal.Decimal `json:"drinks_amount"`
	ExtrasAmount     decimal.Decimal `json:"extras_amount"`
	Total            decimal.Decimal `json:"total"`
}

// clone returns a copy that shares no line items with c.
func (c *Candidate) clone() *Candidate {
	cp := *c
	cp.LineItems = append([]LineItem(nil), c.LineItems...)
	return &cp
}

// hasProductLine reports whether at least one real product was sold.
func (c Candidate) hasProductLine() bool {
	for _, l := range c.LineItems {
		if !l.Synthetic && l.Quantity > 0 {
			return true
		}
	}
	return false
}

// Sale represents a committed sale in the ledger.
type Sale struct {
	ID             string `json:"id"`
	SequenceNumber int    `json:"sequence_number"`
	Candidate
	CreatedAt time.Time `json:"created_at"`
}
