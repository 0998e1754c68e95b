package model

// Mode classifies where the last price sits relative to the fences.
type Mode string

const (
	ModeBreakout  Mode = "BREAKOUT"
	ModeBreakdown Mode = "BREAKDOWN"
	ModeRangeHeld Mode = "RANGE_HELD"

	// ModeUnknown is the defensive settlement fallback. A correctly driven
	// session never settles into it.
	ModeUnknown Mode = "UNKNOWN"
)
