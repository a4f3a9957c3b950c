package utils

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimal places and a dollar sign.
// Example: -900 returns "-$900.00"
func FormatMoney(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
