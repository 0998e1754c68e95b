package session

import (
	"time"

	"RangeTrader/internal/model"
)

// Start opens a tracking cycle for symbol, capturing the fences as they
// stand right now. They do not move again for the life of the session.
func Start(symbol string, levels *model.RangeLevels, exclusive bool) *model.TrackedSession {
	return &model.TrackedSession{
		Symbol:           symbol,
		HighFence:        levels.HighFence,
		LowFence:         levels.LowFence,
		Tracking:         true,
		ExclusiveLatches: exclusive,
		StartedAt:        time.Now(),
	}
}

// Evaluate runs one evaluation step against the captured fences. Each latch
// flips at most once per cycle and keeps the first triggering price; later
// breaches of the same fence never update it. With independent latches (the
// default) both sides may trigger within one cycle and settlement precedence
// decides which governs the P&L. Sessions outside the tracking state are
// left untouched.
func Evaluate(s *model.TrackedSession, price float64) {
	if s == nil || !s.Tracking {
		return
	}
	if price > s.HighFence && !s.BreakoutTriggered {
		if !s.ExclusiveLatches || !s.BreakdownTriggered {
			s.BreakoutTriggered = true
			s.BreakoutPrice = price
		}
	}
	if price < s.LowFence && !s.BreakdownTriggered {
		if !s.ExclusiveLatches || !s.BreakoutTriggered {
			s.BreakdownTriggered = true
			s.BreakdownPrice = price
		}
	}
}

// Settle closes the tracking cycle at finalPrice and converts the latch
// state into a realized P&L. The rules are ordered and breakout beats
// breakdown when both latched during the cycle:
//
//  1. neither latch       -> RANGE_HELD, fixed payout credit
//  2. breakout latched    -> BREAKOUT, (final - breakout price) * $/point
//  3. breakdown only      -> BREAKDOWN, (breakdown price - final) * $/point
//
// Settling a session that is not tracking yields the UNKNOWN sentinel with
// zero P&L and changes nothing. The latch history stays readable on the
// session until Reset.
func Settle(s *model.TrackedSession, finalPrice, payoutSize, dollarsPerPoint float64) (model.Mode, float64) {
	if s == nil || !s.Tracking {
		return model.ModeUnknown, 0
	}

	var (
		mode model.Mode
		pl   float64
	)
	switch {
	case !s.BreakoutTriggered && !s.BreakdownTriggered:
		mode = model.ModeRangeHeld
		pl = payoutSize
	case s.BreakoutTriggered:
		mode = model.ModeBreakout
		pl = (finalPrice - s.BreakoutPrice) * dollarsPerPoint
	case s.BreakdownTriggered:
		mode = model.ModeBreakdown
		pl = (s.BreakdownPrice - finalPrice) * dollarsPerPoint
	default:
		// Unreachable; kept so a future rule change cannot fall through
		// into a stale mode.
		mode = model.ModeUnknown
		pl = 0
	}

	s.SettlementMode = mode
	s.RealizedPL = pl
	s.Tracking = false
	s.SettledAt = time.Now()
	return mode, pl
}

// Reset returns a session to idle, clearing latches, prices and the
// settlement record. Starting the next cycle re-captures fences.
func Reset(s *model.TrackedSession) {
	if s == nil {
		return
	}
	s.Tracking = false
	s.BreakoutTriggered = false
	s.BreakoutPrice = 0
	s.BreakdownTriggered = false
	s.BreakdownPrice = 0
	s.SettlementMode = ""
	s.RealizedPL = 0
	s.StartedAt = time.Time{}
	s.SettledAt = time.Time{}
}
