package settlement

import (
	"context"
	"fmt"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

// RateConverter converts an amount into the base currency as of now. The
// implementation lives in internal/exchange; the engine only needs this
// contract.
type RateConverter interface {
	ConvertToPln(ctx context.Context, amount decimal.Decimal, currency models.Currency) (decimal.Decimal, error)
}

type pair struct {
	from int
	to   int
}

// ConsolidateToBase folds all non-base-currency settlements into the base
// currency. Each converted settlement is merged by ordered (from, to) pair
// with an existing base-currency settlement if one exists. Merging can leave
// both A→B and B→A transfers, or transfers that net out entirely, so the
// merged set is minimized again before being returned.
//
// Conversion failures abort the whole consolidation; a partially converted
// plan would be misleading.
func ConsolidateToBase(ctx context.Context, settlements []models.Settlement, converter RateConverter) ([]models.Settlement, error) {
	merged := make(map[pair]models.Settlement)
	var order []pair

	add := func(s models.Settlement) {
		key := pair{from: s.From.ID, to: s.To.ID}
		if existing, ok := merged[key]; ok {
			merged[key] = existing.WithAddedBaseAmount(s.Amount)
			return
		}
		merged[key] = s
		order = append(order, key)
	}

	for _, s := range settlements {
		if s.Currency == models.BaseCurrency {
			add(s)
		}
	}

	for _, s := range settlements {
		if s.Currency == models.BaseCurrency {
			continue
		}
		converted, err := converter.ConvertToPln(ctx, s.Amount, s.Currency)
		if err != nil {
			return nil, fmt.Errorf("converting %s %s settlement: %w", s.Amount, s.Currency, err)
		}
		add(models.Settlement{
			From:     s.From,
			To:       s.To,
			Amount:   converted,
			Currency: models.BaseCurrency,
		})
	}

	var flat []models.Settlement
	for _, key := range order {
		flat = append(flat, merged[key])
	}

	return Resimplify(flat), nil
}

// Resimplify replays a settlement list into per-currency balances and
// minimizes each currency again. Used after consolidation merges pairs, and
// usable on its own to compact any settlement list.
func Resimplify(settlements []models.Settlement) []models.Settlement {
	byCurrency := make(map[models.Currency]map[models.UserRef]decimal.Decimal)
	var currencies []models.Currency

	for _, s := range settlements {
		perUser, ok := byCurrency[s.Currency]
		if !ok {
			perUser = make(map[models.UserRef]decimal.Decimal)
			byCurrency[s.Currency] = perUser
			currencies = append(currencies, s.Currency)
		}
		perUser[s.From] = perUser[s.From].Sub(s.Amount)
		perUser[s.To] = perUser[s.To].Add(s.Amount)
	}

	var result []models.Settlement
	for _, currency := range currencies {
		result = append(result, MinimizeTransfers(byCurrency[currency], currency)...)
	}
	return result
}
