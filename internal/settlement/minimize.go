package settlement

import (
	"container/heap"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

type userAmount struct {
	user   models.UserRef
	amount decimal.Decimal
}

// balanceHeap is a max-heap of remaining amounts. Equal amounts are ordered
// by ascending user ID so results are deterministic.
type balanceHeap []userAmount

func (h balanceHeap) Len() int { return len(h) }

func (h balanceHeap) Less(i, j int) bool {
	cmp := h[i].amount.Cmp(h[j].amount)
	if cmp != 0 {
		return cmp > 0
	}
	return h[i].user.ID < h[j].user.ID
}

func (h balanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *balanceHeap) Push(x any) {
	*h = append(*h, x.(userAmount))
}

func (h *balanceHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// MinimizeTransfers turns one currency's signed balances into the smallest
// practical set of transfers by repeatedly matching the largest remaining
// debtor with the largest remaining creditor.
//
// Balances are rounded to 2 decimal places before bucketing so near-zero
// residues (e.g. 0.004) drop out instead of producing micro-transfers.
func MinimizeTransfers(balances map[models.UserRef]decimal.Decimal, currency models.Currency) []models.Settlement {
	creditors := &balanceHeap{}
	debtors := &balanceHeap{}

	for user, balance := range balances {
		rounded := balance.Round(2)
		switch {
		case rounded.IsPositive():
			*creditors = append(*creditors, userAmount{user: user, amount: rounded})
		case rounded.IsNegative():
			*debtors = append(*debtors, userAmount{user: user, amount: rounded.Neg()})
		}
	}

	heap.Init(creditors)
	heap.Init(debtors)

	var settlements []models.Settlement
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(userAmount)
		debtor := heap.Pop(debtors).(userAmount)

		transfer := decimal.Min(creditor.amount, debtor.amount)
		settlements = append(settlements, models.Settlement{
			From:     debtor.user,
			To:       creditor.user,
			Amount:   transfer,
			Currency: currency,
		})

		if remainder := creditor.amount.Sub(transfer); remainder.IsPositive() {
			heap.Push(creditors, userAmount{user: creditor.user, amount: remainder})
		}
		if remainder := debtor.amount.Sub(transfer); remainder.IsPositive() {
			heap.Push(debtors, userAmount{user: debtor.user, amount: remainder})
		}
	}

	return settlements
}
