package models

import "fmt"

type Currency string

const (
	PLN Currency = "PLN"
	EUR Currency = "EUR"
	USD Currency = "USD"
	CZK Currency = "CZK"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
)

// BaseCurrency is the currency all cross-currency settlements are
// consolidated into.
const BaseCurrency = PLN

// nbpCodes maps each supported currency to the code the NBP exchange rate
// API expects in its URL path.
var nbpCodes = map[Currency]string{
	EUR: "eur",
	USD: "usd",
	CZK: "czk",
	GBP: "gbp",
	CHF: "chf",
}

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case PLN, EUR, USD, CZK, GBP, CHF:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unsupported currency: %q", s)
}

// NBPCode returns the code used by the NBP API for this currency. The base
// currency has no code because it is never looked up.
func (c Currency) NBPCode() (string, bool) {
	code, ok := nbpCodes[c]
	return code, ok
}
