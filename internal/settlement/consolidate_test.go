package settlement

import (
	"context"
	"errors"
	"testing"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

// fakeConverter multiplies by a fixed rate per currency.
type fakeConverter struct {
	rates map[models.Currency]string
	calls int
}

func (f *fakeConverter) ConvertToPln(_ context.Context, amount decimal.Decimal, currency models.Currency) (decimal.Decimal, error) {
	f.calls++
	rate, ok := f.rates[currency]
	if !ok {
		return decimal.Zero, errors.New("no rate configured")
	}
	return amount.Mul(dec(rate)).RoundDown(2), nil
}

type failingConverter struct{ err error }

func (f *failingConverter) ConvertToPln(context.Context, decimal.Decimal, models.Currency) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

func TestConsolidateToBase(t *testing.T) {
	// Per-currency minimization of the mixed PLN/EUR scenario: Bob owes
	// Alice 50 PLN, Alice owes Bob 25 EUR. At 4 PLN per EUR the EUR leg
	// becomes 100 PLN, so after merging Alice owes Bob 50 PLN net.
	settlements := []models.Settlement{
		{From: bob, To: alice, Amount: dec("50"), Currency: models.PLN},
		{From: alice, To: bob, Amount: dec("25"), Currency: models.EUR},
	}

	converter := &fakeConverter{rates: map[models.Currency]string{models.EUR: "4"}}
	got, err := ConsolidateToBase(context.Background(), settlements, converter)
	if err != nil {
		t.Fatalf("ConsolidateToBase() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d settlements, want 1: %v", len(got), got)
	}
	s := got[0]
	if s.From != alice || s.To != bob {
		t.Errorf("direction = %s→%s, want Alice→Bob", s.From.Name, s.To.Name)
	}
	if !s.Amount.Equal(dec("50")) {
		t.Errorf("amount = %s, want 50", s.Amount)
	}
	if s.Currency != models.PLN {
		t.Errorf("currency = %s, want PLN", s.Currency)
	}
	if converter.calls != 1 {
		t.Errorf("converter called %d times, want 1", converter.calls)
	}
}

func TestConsolidateToBaseMergesSamePair(t *testing.T) {
	settlements := []models.Settlement{
		{From: carol, To: alice, Amount: dec("30"), Currency: models.PLN},
		{From: carol, To: alice, Amount: dec("10"), Currency: models.EUR},
	}

	converter := &fakeConverter{rates: map[models.Currency]string{models.EUR: "4.25"}}
	got, err := ConsolidateToBase(context.Background(), settlements, converter)
	if err != nil {
		t.Fatalf("ConsolidateToBase() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d settlements, want 1: %v", len(got), got)
	}
	// 30 + 10*4.25 = 72.50
	if !got[0].Amount.Equal(dec("72.50")) {
		t.Errorf("amount = %s, want 72.50", got[0].Amount)
	}
}

func TestConsolidateToBaseConservation(t *testing.T) {
	settlements := []models.Settlement{
		{From: alice, To: bob, Amount: dec("100"), Currency: models.PLN},
		{From: bob, To: carol, Amount: dec("50"), Currency: models.EUR},
		{From: carol, To: alice, Amount: dec("20"), Currency: models.PLN},
	}

	converter := &fakeConverter{rates: map[models.Currency]string{models.EUR: "2"}}
	got, err := ConsolidateToBase(context.Background(), settlements, converter)
	if err != nil {
		t.Fatalf("ConsolidateToBase() error = %v", err)
	}

	// Net PLN position per user before consolidation, converting the EUR
	// leg at the same rate.
	want := map[models.UserRef]decimal.Decimal{
		alice: dec("-100").Add(dec("20")),
		bob:   dec("100").Sub(dec("100")),
		carol: dec("100").Sub(dec("20")),
	}

	replayed := replay(got)
	for user, wantBalance := range want {
		if !replayed[user].Equal(wantBalance) {
			t.Errorf("net position for %s = %s, want %s", user.Name, replayed[user], wantBalance)
		}
	}

	if len(got) > 2 {
		t.Errorf("got %d settlements for 3 users, want at most 2", len(got))
	}

	for _, s := range got {
		if s.Currency != models.PLN {
			t.Errorf("settlement in %s after consolidation", s.Currency)
		}
	}
}

func TestConsolidateToBaseFailsHard(t *testing.T) {
	sentinel := errors.New("rate service down")
	settlements := []models.Settlement{
		{From: alice, To: bob, Amount: dec("10"), Currency: models.PLN},
		{From: bob, To: alice, Amount: dec("5"), Currency: models.EUR},
	}

	got, err := ConsolidateToBase(context.Background(), settlements, &failingConverter{err: sentinel})
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want wrapped sentinel", err)
	}
	if got != nil {
		t.Fatalf("expected no partial result, got %v", got)
	}
}

func TestResimplify(t *testing.T) {
	// A cycle of transfers collapses: Alice→Bob 100, Bob→Carol 50,
	// Carol→Alice 20 leaves Alice -80, Bob +50, Carol +30.
	settlements := []models.Settlement{
		{From: alice, To: bob, Amount: dec("100"), Currency: models.PLN},
		{From: bob, To: carol, Amount: dec("50"), Currency: models.PLN},
		{From: carol, To: alice, Amount: dec("20"), Currency: models.PLN},
	}

	before := replay(settlements)
	got := Resimplify(settlements)
	after := replay(got)

	for user, want := range before {
		if !after[user].Equal(want) {
			t.Errorf("net position for %s changed: %s → %s", user.Name, want, after[user])
		}
	}
	if len(got) > len(settlements) {
		t.Errorf("resimplification grew the plan: %d → %d", len(settlements), len(got))
	}
}
