package collector

import (
	"fmt"
	"time"

	"RangeTrader/internal/calculator"
	"RangeTrader/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.OHLCV
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(_ string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(100, 40), nil
}

// GenerateMockBars builds a gently drifting 5-minute series around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Now().Add(-time.Duration(count) * 5 * time.Minute)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0005)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.002,
			Low:    p * 0.998,
			Close:  p,
			Volume: 50000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and range computation.
type Collector struct {
	Fetcher Fetcher
	Params  calculator.LevelParams
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, params calculator.LevelParams) *Collector {
	return &Collector{Fetcher: fetcher, Params: params}
}

// Snapshot fetches intraday bars for symbol and derives fresh levels and the
// current regime. Fetch and computation errors surface as "no data"; the
// caller retries on the next refresh.
func (c *Collector) Snapshot(symbol string) (*model.MarketView, error) {
	bars, err := c.Fetcher.FetchIntraday(symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch intraday %s: %w", symbol, err)
	}

	levels, err := calculator.ComputeLevels(bars, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute levels %s: %w", symbol, err)
	}

	return &model.MarketView{
		Symbol:    symbol,
		Levels:    *levels,
		Mode:      calculator.Classify(levels.LastPrice, levels.HighFence, levels.LowFence),
		Bars:      len(bars),
		FetchedAt: time.Now(),
	}, nil
}
