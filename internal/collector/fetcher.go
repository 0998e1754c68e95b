package collector

import "RangeTrader/internal/model"

// Fetcher defines the interface for fetching intraday market data.
// Implementations must return bars in ascending time order.
type Fetcher interface {
	FetchIntraday(symbol string) ([]model.OHLCV, error)
	Name() string
}
