// Package currency converts and formats monetary amounts. All functions are
// pure and safe for concurrent use.
package currency

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"gameprice-tracker/internal/domain"
)

// Convert re-expresses amount from one currency in another via the shared
// base-currency rate table. A currency missing from the table is treated as
// rate 1 so a single unknown code never blocks a whole comparison.
func Convert(amount float64, from, to string, rates domain.ExchangeRates) float64 {
	return amount / rateOrIdentity(rates, from) * rateOrIdentity(rates, to)
}

// Format renders an amount with the currency's symbol and exactly two
// fraction digits. Unknown codes fall back to "CODE 12.34".
func Format(amount float64, code string) string {
	p := message.NewPrinter(language.English)
	dec := number.Decimal(amount, number.Scale(2))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%s %v", strings.ToUpper(strings.TrimSpace(code)), dec)
	}
	return p.Sprintf("%v%v", currency.Symbol(unit), dec)
}

func rateOrIdentity(rates domain.ExchangeRates, code string) float64 {
	if rate, ok := rates[code]; ok && rate > 0 {
		return rate
	}
	return 1
}
