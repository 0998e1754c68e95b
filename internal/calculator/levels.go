package calculator

import (
	"errors"
	"math"

	"RangeTrader/internal/model"
)

// ErrInsufficientData is returned when a series is missing or too short to
// derive an opening range. Callers treat it as "cannot evaluate now" and
// retry on the next refresh.
var ErrInsufficientData = errors.New("not enough bars for opening range")

// atrFloor replaces a zero or undefined volatility estimate so the cushion
// and fence math never degenerate to a zero-width range. This substitution is
// a business rule of the strategy, not input validation.
const atrFloor = 1.0

// LevelParams controls the windows of the range computation.
type LevelParams struct {
	ATRLookback     int     // tail bars for the volatility estimate
	CushionFraction float64 // fraction of the estimate added beyond the range
	OpeningWindow   int     // head bars forming the opening range
}

// DefaultLevelParams returns the standard 14-bar lookback, 25% cushion and
// 6-bar opening window (~first 30 minutes of 5-minute candles).
func DefaultLevelParams() LevelParams {
	return LevelParams{ATRLookback: 14, CushionFraction: 0.25, OpeningWindow: 6}
}

// ComputeLevels derives the opening range, an ATR-style cushion and the
// breakout fences from an intraday series. Bars must already be ascending by
// time; fetchers are responsible for ordering.
func ComputeLevels(bars []model.OHLCV, p LevelParams) (*model.RangeLevels, error) {
	if p.OpeningWindow <= 0 {
		return nil, errors.New("opening window must be positive")
	}
	if p.ATRLookback <= 0 {
		return nil, errors.New("atr lookback must be positive")
	}
	if p.CushionFraction < 0 {
		return nil, errors.New("cushion fraction must not be negative")
	}
	if len(bars) < p.OpeningWindow {
		return nil, ErrInsufficientData
	}

	openingHigh := math.Inf(-1)
	openingLow := math.Inf(1)
	for _, b := range bars[:p.OpeningWindow] {
		if b.High > openingHigh {
			openingHigh = b.High
		}
		if b.Low < openingLow {
			openingLow = b.Low
		}
	}

	atrEst := meanHighLow(tailBars(bars, p.ATRLookback))
	if math.IsNaN(atrEst) || atrEst == 0 {
		atrEst = atrFloor
	}

	cushion := atrEst * p.CushionFraction

	return &model.RangeLevels{
		ATREstimate: atrEst,
		OpeningHigh: openingHigh,
		OpeningLow:  openingLow,
		HighFence:   openingHigh + cushion,
		LowFence:    openingLow - cushion,
		LastPrice:   bars[len(bars)-1].Close,
	}, nil
}

// meanHighLow averages the High-Low span over the given bars.
func meanHighLow(bars []model.OHLCV) float64 {
	if len(bars) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.High - b.Low
	}
	return sum / float64(len(bars))
}

// tailBars returns the last n bars, or all bars when the series is shorter.
func tailBars(bars []model.OHLCV, n int) []model.OHLCV {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
