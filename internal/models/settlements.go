package models

import "github.com/shopspring/decimal"

// Settlement says "From owes To amount in Currency". The amount is always
// positive. Multiple settlements for the same pair may coexist in different
// currencies until consolidation merges them.
type Settlement struct {
	From     UserRef         `json:"from"`
	To       UserRef         `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// WithAddedBaseAmount returns a copy of the settlement re-denominated in the
// base currency with newAmount added. Used when merging converted
// settlements into an existing base-currency settlement for the same pair.
func (s Settlement) WithAddedBaseAmount(newAmount decimal.Decimal) Settlement {
	return Settlement{
		From:     s.From,
		To:       s.To,
		Amount:   s.Amount.Add(newAmount),
		Currency: BaseCurrency,
	}
}

// SettlementView is the presentation shape returned by the HTTP layer.
type SettlementView struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}
