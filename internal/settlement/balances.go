package settlement

import (
	"fmt"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

// AggregateBalances computes the net balance of every user per currency from
// a list of expenses. Positive means the user is owed money, negative means
// the user owes money. Paid expenses contribute nothing. Splits must be
// denominated in their parent expense's currency; there is no per-split
// currency column, so the check guards against corrupted rows.
//
// A payer who appears in no split of their own expense is a pure creditor
// for it: they paid the full amount and owe none of it.
func AggregateBalances(expenses []models.Expense) (map[models.Currency]map[models.UserRef]decimal.Decimal, error) {
	balances := make(map[models.Currency]map[models.UserRef]decimal.Decimal)

	for _, expense := range expenses {
		if expense.Paid {
			continue
		}

		perUser, ok := balances[expense.Currency]
		if !ok {
			perUser = make(map[models.UserRef]decimal.Decimal)
			balances[expense.Currency] = perUser
		}

		perUser[expense.Payer] = perUser[expense.Payer].Add(expense.Amount)

		for _, split := range expense.Splits {
			if split.ExpenseID != 0 && expense.ID != 0 && split.ExpenseID != expense.ID {
				return nil, fmt.Errorf("split %d does not belong to expense %d", split.ID, expense.ID)
			}
			perUser[split.User] = perUser[split.User].Sub(split.AmountOwed)
		}
	}

	return balances, nil
}
