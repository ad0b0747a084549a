package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable means the NBP API had no rate for the requested
// currency on any of the retried dates. Callers must treat this as a hard
// failure of the whole recalculation, never as a skippable settlement.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// maxRetries bounds how many days back the client will look for a published
// rate. NBP publishes no table on weekends and holidays.
const maxRetries = 5

type NBPClient struct {
	BaseURL string
	Client  *http.Client
}

func NewNBPClient() *NBPClient {
	return &NBPClient{
		BaseURL: "https://api.nbp.pl",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type rateResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string          `json:"no"`
		EffectiveDate string          `json:"effectiveDate"`
		Mid           decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

// FetchRate returns the mid PLN rate for the currency together with the
// date the rate was published for. Starting from today it walks back one
// day per 404 response, up to maxRetries days, because NBP has no table for
// non-trading days.
func (c *NBPClient) FetchRate(ctx context.Context, currency models.Currency) (decimal.Decimal, string, error) {
	code, ok := currency.NBPCode()
	if !ok {
		return decimal.Zero, "", fmt.Errorf("no NBP code for currency %s", currency)
	}

	day := time.Now()
	for retry := 0; retry < maxRetries; retry++ {
		url := fmt.Sprintf("%s/api/exchangerates/rates/a/%s/%s/?format=json",
			c.BaseURL, code, day.Format("2006-01-02"))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("failed to call NBP API: %w", err)
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			day = day.AddDate(0, 0, -1)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return decimal.Zero, "", fmt.Errorf("unexpected status code from NBP API: %d", resp.StatusCode)
		}

		var body rateResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("failed to decode NBP response: %w", err)
		}

		if len(body.Rates) == 0 {
			return decimal.Zero, "", fmt.Errorf("NBP response for %s has no rates", currency)
		}

		return body.Rates[0].Mid, body.Rates[0].EffectiveDate, nil
	}

	return decimal.Zero, "", fmt.Errorf("%w: %s after %d attempts", ErrRateUnavailable, currency, maxRetries)
}
