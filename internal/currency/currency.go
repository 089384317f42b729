// Package currency formats amounts in Lao Kip for receipts and reports.
// The Kip has no subdivision, so amounts are whole numbers everywhere.
package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Lao)

// FormatAmount renders an amount with locale grouping and no decimals.
func FormatAmount(amount float64) string {
	return printer.Sprintf("%d", int64(math.Round(amount)))
}

// FormatCurrency renders an amount with the Kip symbol.
func FormatCurrency(amount float64) string {
	return "₭" + FormatAmount(amount)
}
