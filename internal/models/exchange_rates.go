package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one cached rate row, unique per (from, to, date). Rates
// for past dates never change, so rows are written once and read forever.
type ExchangeRate struct {
	ID           int             `json:"id,omitempty" db:"id,omitempty"`
	CurrencyFrom Currency        `json:"currency_from" db:"currency_from"`
	CurrencyTo   Currency        `json:"currency_to" db:"currency_to"`
	Date         string          `json:"date" db:"date"`
	Rate         decimal.Decimal `json:"rate" db:"rate"`
	CreatedAt    sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
