package calculator

import "RangeTrader/internal/model"

// Classify maps the last price against the fences. A price exactly on a
// fence counts as the range holding; only strict breaches trigger.
func Classify(lastPrice, highFence, lowFence float64) model.Mode {
	switch {
	case lastPrice > highFence:
		return model.ModeBreakout
	case lastPrice < lowFence:
		return model.ModeBreakdown
	default:
		return model.ModeRangeHeld
	}
}
