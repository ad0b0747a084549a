package exchange

import (
	"context"
	"time"

	"komornik/internal/models"
	"komornik/pkg/utils"

	"github.com/shopspring/decimal"
)

// RateStore caches fetched rates. Rows are unique per (from, to, date);
// concurrent fetches of the same uncached rate may race, which is fine —
// they compute the same value and the unique key keeps the table clean.
type RateStore interface {
	FindRate(ctx context.Context, from, to models.Currency, date string) (decimal.Decimal, bool, error)
	SaveRate(ctx context.Context, rate models.ExchangeRate) error
}

type rateFetcher interface {
	FetchRate(ctx context.Context, currency models.Currency) (decimal.Decimal, string, error)
}

// Converter turns foreign-currency amounts into PLN using cached NBP rates,
// fetching and caching on miss.
type Converter struct {
	rates  RateStore
	client rateFetcher
}

func NewConverter(rates RateStore, client *NBPClient) *Converter {
	return &Converter{rates: rates, client: client}
}

// ConvertToPln converts amount to PLN as of today. PLN amounts pass through
// untouched. The result is truncated to 2 decimal places. Rates for past
// dates are immutable facts, so a cached rate is always safe to reuse.
func (c *Converter) ConvertToPln(ctx context.Context, amount decimal.Decimal, currency models.Currency) (decimal.Decimal, error) {
	if currency == models.BaseCurrency {
		return amount, nil
	}

	today := time.Now().Format("2006-01-02")

	rate, found, err := c.rates.FindRate(ctx, currency, models.BaseCurrency, today)
	if err != nil {
		return decimal.Zero, err
	}

	if !found {
		var date string
		rate, date, err = c.client.FetchRate(ctx, currency)
		if err != nil {
			return decimal.Zero, err
		}

		saveErr := c.rates.SaveRate(ctx, models.ExchangeRate{
			CurrencyFrom: currency,
			CurrencyTo:   models.BaseCurrency,
			Date:         date,
			Rate:         rate,
		})
		if saveErr != nil {
			// A lost race with a concurrent fetch writes the same row; the
			// rate in hand is still good.
			utils.Logger.Warnf("failed to cache %s rate for %s: %v", currency, date, saveErr)
		}
	}

	return rate.Mul(amount).RoundDown(2), nil
}
