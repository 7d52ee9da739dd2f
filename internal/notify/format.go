package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"pos_sales/internal/sales"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Subject returns the email subject for sale.
func Subject(prefix string, sale *sales.Sale) string {
	subject := fmt.Sprintf("Sale #%d: %s", sale.SequenceNumber, money(sale.Total))
	if prefix != "" {
		subject = prefix + " " + subject
	}
	return subject
}

// FormatText renders the plain-text summary used by the messaging channel.
func FormatText(sale *sales.Sale) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sale #%d\n", sale.SequenceNumber)
	for _, l := range sale.LineItems {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", l.Quantity, l.Name, money(l.UnitPrice), money(l.Subtotal()))
	}
	fmt.Fprintf(&b, "Products: %s\n", money(sale.ProductsSubtotal))
	fmt.Fprintf(&b, "Drinks: %s\n", money(sale.DrinksAmount))
	if sale.ExtrasAmount.IsPositive() {
		fmt.Fprintf(&b, "Extras: %s\n", money(sale.ExtrasAmount))
	}
	fmt.Fprintf(&b, "Total: %s", money(sale.Total))

	return b.String()
}

var saleEmailTemplate = template.Must(template.New("sale").Funcs(template.FuncMap{
	"money": money,
}).Parse(saleEmailHTML))

// FormatHTML renders the email body: a line-item table followed by the totals.
func FormatHTML(sale *sales.Sale) (string, error) {
	var buf bytes.Buffer
	if err := saleEmailTemplate.Execute(&buf, sale); err != nil {
		return "", fmt.Errorf("failed to render sale email: %w", err)
	}
	return buf.String(), nil
}

const saleEmailHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Sale #{{.SequenceNumber}}</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1a1a2e;">
    <h2 style="margin: 0 0 16px 0;">Sale #{{.SequenceNumber}}</h2>
    <table style="border-collapse: collapse; margin-bottom: 16px;">
        <tr>
            <th style="text-align: left; padding: 4px 12px; border-bottom: 1px solid #e2e8f0;">Product</th>
            <th style="text-align: right; padding: 4px 12px; border-bottom: 1px solid #e2e8f0;">Quantity</th>
            <th style="text-align: right; padding: 4px 12px; border-bottom: 1px solid #e2e8f0;">Price</th>
            <th style="text-align: right; padding: 4px 12px; border-bottom: 1px solid #e2e8f0;">Subtotal</th>
        </tr>
        {{- range .LineItems}}
        <tr>
            <td style="padding: 4px 12px;">{{.Name}}</td>
            <td style="text-align: right; padding: 4px 12px;">{{.Quantity}}</td>
            <td style="text-align: right; padding: 4px 12px;">{{money .UnitPrice}}</td>
            <td style="text-align: right; padding: 4px 12px;">{{money .Subtotal}}</td>
        </tr>
        {{- end}}
    </table>
    <p style="margin: 4px 0;">Products: {{money .ProductsSubtotal}}</p>
    <p style="margin: 4px 0;">Drinks: {{money .DrinksAmount}}</p>
    {{- if .ExtrasAmount.IsPositive}}
    <p style="margin: 4px 0;">Extras: {{money .ExtrasAmount}}</p>
    {{- end}}
    <p style="margin: 8px 0; font-weight: 600;">Total: {{money .Total}}</p>
</body>
</html>
`
