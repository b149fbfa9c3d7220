package analytics

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol prefixes amounts in user-facing messages.
const DefaultCurrencySymbol = "₹"

var printer = message.NewPrinter(language.English)

// Money renders an amount with thousands separators and two decimals,
// e.g. "₹1,234.50".
func Money(symbol string, amount float64) string {
	return symbol + printer.Sprintf("%.2f", amount)
}

// WholeMoney renders an amount rounded to whole units, e.g. "₹1,235".
func WholeMoney(symbol string, amount float64) string {
	return symbol + printer.Sprintf("%.0f", amount)
}
