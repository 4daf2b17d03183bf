package domain

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are carried as int64 minor units everywhere inside the service so
// prize-pool arithmetic stays exact. The decimal form only exists at the
// JSON boundary.

// AmountDecimal converts minor units to decimal currency units.
func AmountDecimal(minor int64) float64 {
	return float64(minor) / 100
}

// DisplayAmount renders a minor-unit amount with its currency symbol, e.g.
// "$25.00" for (2500, "USD"). Unknown codes fall back to USD.
func DisplayAmount(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(AmountDecimal(minor))))
}
