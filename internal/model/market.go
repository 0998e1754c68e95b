package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// RangeLevels is the derived snapshot of one evaluation cycle: the opening
// range, the volatility cushion, and the fences built from them. It is
// recomputed fresh from every fetched series and never mutated afterwards.
type RangeLevels struct {
	ATREstimate float64 // mean High-Low over the tail window, floored > 0
	OpeningHigh float64
	OpeningLow  float64
	HighFence   float64 // OpeningHigh + cushion
	LowFence    float64 // OpeningLow - cushion
	LastPrice   float64 // close of the final bar
}

// MarketView bundles one symbol's levels and regime at fetch time.
type MarketView struct {
	Symbol    string
	Levels    RangeLevels
	Mode      Mode
	Bars      int
	FetchedAt time.Time
}
