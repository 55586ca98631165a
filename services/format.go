package services

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatUSD formats an amount as US dollars with thousands separators and
// exactly 2 decimal places, e.g. $1,234.50 or -$12.00.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatPrice renders a possibly unknown price; nil shows as "TBD".
func FormatPrice(price *float64) string {
	if price == nil {
		return "TBD"
	}
	return FormatUSD(*price)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
