package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"komornik/internal/models"

	"github.com/shopspring/decimal"
)

func nbpBody(code, date, mid string) string {
	return fmt.Sprintf(`{"table":"A","currency":"euro","code":%q,"rates":[{"no":"168/A/NBP/2025","effectiveDate":%q,"mid":%s}]}`,
		code, date, mid)
}

func newTestClient(handler http.HandlerFunc) (*NBPClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	return &NBPClient{BaseURL: server.URL, Client: server.Client()}, server
}

func TestFetchRate(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	var gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, nbpBody("EUR", today, "4.2571"))
	})
	defer server.Close()

	rate, date, err := client.FetchRate(context.Background(), models.EUR)
	if err != nil {
		t.Fatalf("FetchRate() error = %v", err)
	}

	wantPath := "/api/exchangerates/rates/a/eur/" + today + "/"
	if gotPath != wantPath {
		t.Errorf("request path = %s, want %s", gotPath, wantPath)
	}
	if !rate.Equal(decimal.RequireFromString("4.2571")) {
		t.Errorf("rate = %s, want 4.2571", rate)
	}
	if date != today {
		t.Errorf("effective date = %s, want %s", date, today)
	}
}

func TestFetchRateWalksBackOverMissingDays(t *testing.T) {
	// No table for today or yesterday, a rate two days back.
	published := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	requests := 0
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, nbpBody("CHF", published, "4.5310"))
	})
	defer server.Close()

	rate, date, err := client.FetchRate(context.Background(), models.CHF)
	if err != nil {
		t.Fatalf("FetchRate() error = %v", err)
	}
	if requests != 3 {
		t.Errorf("made %d requests, want 3", requests)
	}
	if !rate.Equal(decimal.RequireFromString("4.5310")) {
		t.Errorf("rate = %s, want 4.5310", rate)
	}
	if date != published {
		t.Errorf("effective date = %s, want %s", date, published)
	}
}

func TestFetchRateGivesUpAfterMaxRetries(t *testing.T) {
	requests := 0
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	})
	defer server.Close()

	_, _, err := client.FetchRate(context.Background(), models.EUR)
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("error = %v, want ErrRateUnavailable", err)
	}
	if requests != maxRetries {
		t.Errorf("made %d requests, want %d", requests, maxRetries)
	}
}

func TestFetchRateFailsOnServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	_, _, err := client.FetchRate(context.Background(), models.EUR)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrRateUnavailable) {
		t.Errorf("server error reported as ErrRateUnavailable: %v", err)
	}
}

func TestFetchRateRejectsUnknownCurrency(t *testing.T) {
	client := NewNBPClient()
	if _, _, err := client.FetchRate(context.Background(), models.PLN); err == nil {
		t.Fatal("expected error for currency without an NBP code")
	}
}
