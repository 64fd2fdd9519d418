package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"trade-monitorv1/internal/model"
)

// FinnhubConfig configures the REST quote client.
type FinnhubConfig struct {
	BaseURL string // e.g. "https://finnhub.io/api/v1"
	APIKey  string
	// Timeout bounds each HTTP call; this is the fetch timeout the
	// monitor tick relies on.
	Timeout time.Duration
	// SnapshotDays of daily candles backing technical snapshots.
	SnapshotDays int
}

// Finnhub fetches quotes and daily candles from a Finnhub-compatible REST API.
type Finnhub struct {
	baseURL      string
	apiKey       string
	snapshotDays int
	client       *http.Client
}

// NewFinnhub creates a REST price source.
func NewFinnhub(cfg FinnhubConfig) *Finnhub {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	days := cfg.SnapshotDays
	if days == 0 {
		days = 90
	}
	return &Finnhub{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		snapshotDays: days,
		client:       &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	Current   float64 `json:"c"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Open      float64 `json:"o"`
	PrevClose float64 `json:"pc"`
	TS        int64   `json:"t"`
}

type candleResponse struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Status string    `json:"s"`
	TS     []int64   `json:"t"`
	Volume []float64 `json:"v"`
}

// FetchLatest fetches quotes symbol by symbol; a failure on one symbol is
// recorded in its Quote and the rest of the batch continues.
func (f *Finnhub) FetchLatest(ctx context.Context, symbols []string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		price, err := f.fetchQuote(ctx, symbol)
		if err != nil {
			slog.Warn("quote fetch failed", "symbol", symbol, "err", err)
			quotes = append(quotes, Quote{Symbol: symbol, Err: err})
			continue
		}
		quotes = append(quotes, Quote{Symbol: symbol, Price: price})
	}
	return quotes
}

func (f *Finnhub) fetchQuote(ctx context.Context, symbol string) (float64, error) {
	var resp quoteResponse
	if err := f.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return 0, err
	}
	if resp.Current <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return resp.Current, nil
}

// FetchTechnicalSnapshot pulls daily candles and derives indicator values.
// Too little history yields (nil, nil), the valid "no data" outcome.
func (f *Finnhub) FetchTechnicalSnapshot(ctx context.Context, symbol string) (*model.TechnicalSnapshot, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -f.snapshotDays)

	var resp candleResponse
	params := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {fmt.Sprintf("%d", from.Unix())},
		"to":         {fmt.Sprintf("%d", now.Unix())},
	}
	if err := f.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" || len(resp.Close) == 0 {
		return nil, nil
	}

	series := make(model.Series, len(resp.Close))
	for i := range resp.Close {
		series[i] = model.Candle{
			TS:    time.Unix(resp.TS[i], 0),
			Open:  resp.Open[i],
			High:  resp.High[i],
			Low:   resp.Low[i],
			Close: resp.Close[i],
		}
		if i < len(resp.Volume) {
			series[i].Volume = int64(resp.Volume[i])
		}
	}
	return BuildTechnicalSnapshot(symbol, series), nil
}

func (f *Finnhub) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("token", f.apiKey)
	reqURL := f.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("finnhub: create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("finnhub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub: unexpected status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub: decode %s: %w", path, err)
	}
	return nil
}
