package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"RangeTrader/internal/model"
)

// FinnhubFetcher implements Fetcher using the Finnhub stock candle REST API.
type FinnhubFetcher struct {
	APIKey          string
	BaseURL         string
	Resolution      string // "5" = 5-minute bars
	LookbackMinutes int
	Client          *http.Client
}

// NewFinnhubFetcher creates a new Finnhub fetcher with optional proxy support.
func NewFinnhubFetcher(apiKey, proxyURL string) *FinnhubFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FinnhubFetcher{
		APIKey:          apiKey,
		BaseURL:         "https://finnhub.io/api/v1",
		Resolution:      "5",
		LookbackMinutes: 390, // one full trading day
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FinnhubFetcher) Name() string { return "finnhub" }

// finnhubCandles is the column-oriented response from /stock/candle.
type finnhubCandles struct {
	Status string    `json:"s"`
	T      []int64   `json:"t"`
	O      []float64 `json:"o"`
	H      []float64 `json:"h"`
	L      []float64 `json:"l"`
	C      []float64 `json:"c"`
	V      []float64 `json:"v"`
}

func (f *FinnhubFetcher) FetchIntraday(symbol string) ([]model.OHLCV, error) {
	now := time.Now().Unix()
	from := now - int64(f.LookbackMinutes)*60

	endpoint := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=%s&from=%d&to=%d&token=%s",
		f.BaseURL, url.QueryEscape(strings.ToUpper(symbol)), f.Resolution, from, now, f.APIKey)

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finnhub read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub: status %d, body: %s", resp.StatusCode, string(body))
	}

	var candles finnhubCandles
	if err := json.Unmarshal(body, &candles); err != nil {
		return nil, fmt.Errorf("finnhub decode: %w", err)
	}
	if candles.Status != "ok" {
		return nil, fmt.Errorf("finnhub: no candle data (status %q)", candles.Status)
	}

	bars := make([]model.OHLCV, 0, len(candles.T))
	for i, ts := range candles.T {
		if i >= len(candles.O) || i >= len(candles.H) || i >= len(candles.L) || i >= len(candles.C) {
			break
		}
		var vol float64
		if i < len(candles.V) {
			vol = candles.V[i]
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   candles.O[i],
			High:   candles.H[i],
			Low:    candles.L[i],
			Close:  candles.C[i],
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
