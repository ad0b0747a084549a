package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(decimal.RequireFromString("10.50"), PLN)
	b := NewMoney(decimal.RequireFromString("4.25"), PLN)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !sum.Amount.Equal(decimal.RequireFromString("14.75")) || sum.Currency != PLN {
		t.Errorf("Add() = %s, want 14.75 PLN", sum)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if !diff.Amount.Equal(decimal.RequireFromString("6.25")) {
		t.Errorf("Sub() = %s, want 6.25 PLN", diff)
	}
}

func TestMoneyRejectsCurrencyMismatch(t *testing.T) {
	pln := NewMoney(decimal.RequireFromString("10"), PLN)
	eur := NewMoney(decimal.RequireFromString("10"), EUR)

	if _, err := pln.Add(eur); err == nil {
		t.Error("Add() across currencies succeeded, want error")
	}
	if _, err := pln.Sub(eur); err == nil {
		t.Error("Sub() across currencies succeeded, want error")
	}
}

func TestMoneyString(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("7.5"), EUR)
	if got := m.String(); got != "7.50 EUR" {
		t.Errorf("String() = %q, want %q", got, "7.50 EUR")
	}

	if !ZeroMoney(PLN).IsZero() {
		t.Error("ZeroMoney(PLN).IsZero() = false")
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input   string
		want    Currency
		wantErr bool
	}{
		{input: "PLN", want: PLN},
		{input: "EUR", want: EUR},
		{input: "CHF", want: CHF},
		{input: "pln", wantErr: true},
		{input: "JPY", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCurrency(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCurrency(%q) succeeded, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCurrency(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCurrency(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNBPCode(t *testing.T) {
	if code, ok := EUR.NBPCode(); !ok || code != "eur" {
		t.Errorf("EUR.NBPCode() = %q, %v, want \"eur\", true", code, ok)
	}
	if _, ok := PLN.NBPCode(); ok {
		t.Error("PLN.NBPCode() reported a code for the base currency")
	}
}
