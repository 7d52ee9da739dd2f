package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountOrZero reads a free-text money amount typed by the operator.
//
// Blank, unparseable and negative text all yield zero. The operator is never
// shown a parse error for the drinks and extras fields; a bad value simply
// contributes nothing to the total.
func ParseAmountOrZero(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
