package settlement

import (
	"testing"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

func balancesOf(pairs map[models.UserRef]string) map[models.UserRef]decimal.Decimal {
	out := make(map[models.UserRef]decimal.Decimal, len(pairs))
	for user, amount := range pairs {
		out[user] = dec(amount)
	}
	return out
}

// replay runs a settlement list backwards into balances, so tests can check
// that the transfers reproduce exactly what was owed.
func replay(settlements []models.Settlement) map[models.UserRef]decimal.Decimal {
	out := make(map[models.UserRef]decimal.Decimal)
	for _, s := range settlements {
		out[s.From] = out[s.From].Sub(s.Amount)
		out[s.To] = out[s.To].Add(s.Amount)
	}
	return out
}

func TestMinimizeTransfers(t *testing.T) {
	tests := []struct {
		name     string
		balances map[models.UserRef]string
		wantLen  int
	}{
		{
			name:     "single debtor single creditor",
			balances: map[models.UserRef]string{alice: "150", bob: "0", carol: "-150"},
			wantLen:  1,
		},
		{
			name:     "two debtors one creditor",
			balances: map[models.UserRef]string{alice: "200", bob: "-100", carol: "-100"},
			wantLen:  2,
		},
		{
			name:     "everyone settled",
			balances: map[models.UserRef]string{alice: "0", bob: "0"},
			wantLen:  0,
		},
		{
			name:     "chain collapses to two transfers",
			balances: map[models.UserRef]string{alice: "-80", bob: "50", carol: "30"},
			wantLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := balancesOf(tt.balances)
			settlements := MinimizeTransfers(input, models.PLN)

			if len(settlements) != tt.wantLen {
				t.Fatalf("got %d settlements, want %d: %v", len(settlements), tt.wantLen, settlements)
			}

			// Replaying the plan must reproduce the input balances.
			replayed := replay(settlements)
			for user, want := range input {
				if !replayed[user].Equal(want.Round(2)) {
					t.Errorf("replayed balance for %s = %s, want %s", user.Name, replayed[user], want)
				}
			}

			// Never more transfers than non-zero balances minus one.
			nonZero := 0
			for _, balance := range input {
				if !balance.Round(2).IsZero() {
					nonZero++
				}
			}
			if nonZero > 0 && len(settlements) > nonZero-1 {
				t.Errorf("%d settlements for %d non-zero balances", len(settlements), nonZero)
			}

			for _, s := range settlements {
				if !s.Amount.IsPositive() {
					t.Errorf("settlement amount %s is not positive", s.Amount)
				}
				if s.Currency != models.PLN {
					t.Errorf("settlement currency = %s, want PLN", s.Currency)
				}
			}
		})
	}
}

func TestMinimizeTransfersRounding(t *testing.T) {
	// 0.004 rounds to zero and produces nothing; 0.005 rounds to a cent.
	settlements := MinimizeTransfers(balancesOf(map[models.UserRef]string{
		alice: "0.004",
		bob:   "-0.004",
	}), models.PLN)
	if len(settlements) != 0 {
		t.Fatalf("residue below half a cent produced settlements: %v", settlements)
	}

	settlements = MinimizeTransfers(balancesOf(map[models.UserRef]string{
		alice: "0.005",
		bob:   "-0.005",
	}), models.PLN)
	if len(settlements) != 1 {
		t.Fatalf("got %d settlements, want 1", len(settlements))
	}
	if !settlements[0].Amount.Equal(dec("0.01")) {
		t.Errorf("amount = %s, want 0.01", settlements[0].Amount)
	}
	if settlements[0].From != bob || settlements[0].To != alice {
		t.Errorf("transfer direction = %s→%s, want Bob→Alice", settlements[0].From.Name, settlements[0].To.Name)
	}
}

func TestMinimizeTransfersDeterministic(t *testing.T) {
	balances := map[models.UserRef]string{alice: "50", bob: "50", carol: "-100"}

	first := MinimizeTransfers(balancesOf(balances), models.PLN)
	for i := 0; i < 20; i++ {
		again := MinimizeTransfers(balancesOf(balances), models.PLN)
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d settlements, first run produced %d", i, len(again), len(first))
		}
		for j := range again {
			same := again[j].From == first[j].From &&
				again[j].To == first[j].To &&
				again[j].Amount.Equal(first[j].Amount) &&
				again[j].Currency == first[j].Currency
			if !same {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
