package raterepo

import (
	"context"
	"database/sql"

	"komornik/internal/models"
	"komornik/pkg/utils"

	"github.com/shopspring/decimal"
)

// Repo caches exchange rates. The table carries a unique key over
// (currency_from, currency_to, date): a duplicate insert from two requests
// racing on the same uncached rate is rejected by the database, which is the
// only coordination the cache needs.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) FindRate(ctx context.Context, from, to models.Currency, date string) (decimal.Decimal, bool, error) {
	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		"SELECT rate FROM exchange_rates WHERE currency_from = ? AND currency_to = ? AND date = ?",
		string(from), string(to), date).Scan(&rate)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, utils.ErrorHandler(err, "failed to look up exchange rate")
	}
	return rate, true, nil
}

func (r *Repo) SaveRate(ctx context.Context, rate models.ExchangeRate) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO exchange_rates (currency_from, currency_to, date, rate) VALUES (?, ?, ?, ?)",
		string(rate.CurrencyFrom), string(rate.CurrencyTo), rate.Date, rate.Rate)
	if err != nil {
		return utils.ErrorHandler(err, "failed to cache exchange rate")
	}
	return nil
}
