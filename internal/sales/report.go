package sales

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a filter names a sale that is not in the ledger.
var ErrNotFound = errors.New("sale not found")

// ErrInvalidFilter is returned for filter text that is neither "all" nor a sequence number.
var ErrInvalidFilter = errors.New("invalid sale filter")

// Filter selects which sales contribute to a Report.
// The zero value selects every sale.
type Filter struct {
	SequenceNumber int
}

// All reports whether the filter selects every sale.
func (f Filter) All() bool {
	return f.SequenceNumber == 0
}

func (f Filter) String() string {
	if f.All() {
		return "all"
	}
	return strconv.Itoa(f.SequenceNumber)
}

// ParseFilter accepts "", "all" or a sequence number ≥ 1.
func ParseFilter(text string) (Filter, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "all") {
		return Filter{}, nil
	}

	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return Filter{}, fmt.Errorf("%w: '%s'", ErrInvalidFilter, text)
	}
	return Filter{SequenceNumber: n}, nil
}

// ReportLine is a display row of a sale's line-item table.
type ReportLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleSummary carries the stored figures of one sale.
type SaleSummary struct {
	SequenceNumber   int             `json:"sequence_number"`
	Lines            []ReportLine    `json:"lines"`
	ProductsSubtotal decimal.Decimal `json:"products_subtotal"`
	DrinksAmount     decimal.Decimal `json:"drinks_amount"`
	ExtrasAmount     decimal.Decimal `json:"extras_amount"`
	Total            decimal.Decimal `json:"total"`
}

// Report aggregates the selected sales.
type Report struct {
	Filter        string          `json:"filter"`
	PerSale       []SaleSummary   `json:"per_sale"`
	Count         int             `json:"count"`
	ProductsTotal decimal.Decimal `json:"products_total"`
	DrinksTotal   decimal.Decimal `json:"drinks_total"`
	ExtrasTotal   decimal.Decimal `json:"extras_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// Aggregate sums the stored per-sale figures of the sales matching f.
// Figures are never recomputed from line items.
func Aggregate(sales []Sale, f Filter) (Report, error) {
	report := Report{
		Filter:        f.String(),
		PerSale:       make([]SaleSummary, 0),
		ProductsTotal: decimal.Zero,
		DrinksTotal:   decimal.Zero,
		ExtrasTotal:   decimal.Zero,
		GrandTotal:    decimal.Zero,
	}

	for _, sale := range sales {
		if !f.All() && sale.SequenceNumber != f.SequenceNumber {
			continue
		}

		report.PerSale = append(report.PerSale, summarize(sale))
		report.Count++
		report.ProductsTotal = report.ProductsTotal.Add(sale.ProductsSubtotal)
		report.DrinksTotal = report.DrinksTotal.Add(sale.DrinksAmount)
		report.ExtrasTotal = report.ExtrasTotal.Add(sale.ExtrasAmount)
		report.GrandTotal = report.GrandTotal.Add(sale.Total)
	}

	if !f.All() && report.Count == 0 {
		return Report{}, fmt.Errorf("%w: %d", ErrNotFound, f.SequenceNumber)
	}
	return report, nil
}

func summarize(sale Sale) SaleSummary {
	lines := make([]ReportLine, 0, len(sale.LineItems))
	for _, l := range sale.LineItems {
		lines = append(lines, ReportLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}

	return SaleSummary{
		SequenceNumber:   sale.SequenceNumber,
		Lines:            lines,
		ProductsSubtotal: sale.ProductsSubtotal,
		DrinksAmount:     sale.DrinksAmount,
		ExtrasAmount:     sale.ExtrasAmount,
		Total:            sale.Total,
	}
}
