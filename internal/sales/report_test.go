package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerFixture() []Sale {
	first := candidate("Burger", "5", 2)
	first.DrinksAmount = dec("3.5")
	first.Total = dec("13.5")

	second := candidate("Fries", "2", 1)
	second.ExtrasAmount = dec("1")
	second.LineItems = append(second.LineItems, LineItem{Name: ExtrasLineName, UnitPrice: dec("1"), Quantity: 1, Synthetic: true})
	second.Total = dec("3")

	return []Sale{
		{ID: "a", SequenceNumber: 1, Candidate: first},
		{ID: "b", SequenceNumber: 2, Candidate: second},
	}
}

func TestParseFilter(t *testing.T) {
	for _, text := range []string{"", "all", "ALL", " all "} {
		f, err := ParseFilter(text)
		require.NoError(t, err, text)
		assert.True(t, f.All(), text)
	}

	f, err := ParseFilter("2")
	require.NoError(t, err)
	assert.Equal(t, 2, f.SequenceNumber)

	for _, text := range []string{"0", "-1", "Venta 1", "x"} {
		_, err := ParseFilter(text)
		assert.ErrorIs(t, err, ErrInvalidFilter, text)
	}
}

func TestAggregate_All(t *testing.T) {
	report, err := Aggregate(ledgerFixture(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, "all", report.Filter)
	assert.Equal(t, 2, report.Count)
	require.Len(t, report.PerSale, 2)
	assertDecimal(t, "12", report.ProductsTotal, "products_total")
	assertDecimal(t, "3.5", report.DrinksTotal, "drinks_total")
	assertDecimal(t, "1", report.ExtrasTotal, "extras_total")
	assertDecimal(t, "16.5", report.GrandTotal, "grand_total")

	require.Len(t, report.PerSale[0].Lines, 1)
	assertDecimal(t, "10", report.PerSale[0].Lines[0].Subtotal, "line subtotal")
}

func TestAggregate_SingleSale(t *testing.T) {
	report, err := Aggregate(ledgerFixture(), Filter{SequenceNumber: 2})
	require.NoError(t, err)

	assert.Equal(t, "2", report.Filter)
	require.Len(t, report.PerSale, 1)
	assert.Equal(t, 2, report.PerSale[0].SequenceNumber)
	assertDecimal(t, "3", report.GrandTotal, "grand_total")
}

func TestAggregate_GrandTotalIsAdditive(t *testing.T) {
	sales := ledgerFixture()

	all, err := Aggregate(sales, Filter{})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range sales {
		one, err := Aggregate(sales, Filter{SequenceNumber: s.SequenceNumber})
		require.NoError(t, err)
		sum = sum.Add(one.GrandTotal)
	}
	assert.True(t, all.GrandTotal.Equal(sum), "all=%s sum=%s", all.GrandTotal, sum)
}

func TestAggregate_UsesStoredFigures(t *testing.T) {
	sales := ledgerFixture()
	sales[0].Total = dec("99")

	report, err := Aggregate(sales, Filter{SequenceNumber: 1})
	require.NoError(t, err)
	assertDecimal(t, "99", report.GrandTotal, "grand_total")
}

func TestAggregate_Empty(t *testing.T) {
	report, err := Aggregate(nil, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.NotNil(t, report.PerSale)
	assert.True(t, report.GrandTotal.IsZero())

	_, err = Aggregate(ledgerFixture(), Filter{SequenceNumber: 7})
	assert.ErrorIs(t, err, ErrNotFound)
}
