package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID     int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	Payer       UserRef         `json:"payer" db:"payer"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    Currency        `json:"currency" db:"currency"`
	Date        sql.NullString  `json:"date,omitempty" db:"date,omitempty"`
	Paid        bool            `json:"paid" db:"paid"`
	Splits      []ExpenseSplit  `json:"splits,omitempty"`
}

// ExpenseSplit is one participant's share of an expense, denominated in the
// parent expense's currency. Splits are recreated, never mutated, when an
// expense is edited.
type ExpenseSplit struct {
	ID         int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID  int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	User       UserRef         `json:"user" db:"user"`
	AmountOwed decimal.Decimal `json:"amount_owed" db:"amount_owed"`
}
