package model

import "time"

// TrackedSession holds one symbol's fences and one-shot trigger flags across
// repeated evaluations. Fences are captured when tracking starts and do not
// move for the life of the session, even if later candles would imply
// different levels.
//
// Lifecycle: idle -> tracking -> settled -> (reset) idle. Evaluation outside
// the tracking state is a no-op.
type TrackedSession struct {
	Symbol    string
	HighFence float64
	LowFence  float64

	Tracking bool

	// ExclusiveLatches makes the two latches mutually exclusive: once one
	// side triggers, the other can no longer latch in the same cycle.
	ExclusiveLatches bool

	BreakoutTriggered  bool
	BreakoutPrice      float64 // first price that breached the high fence
	BreakdownTriggered bool
	BreakdownPrice     float64 // first price that breached the low fence

	SettlementMode Mode // empty until settled
	RealizedPL     float64

	StartedAt time.Time
	SettledAt time.Time
}

// Settled reports whether the session has completed a tracking cycle and
// still carries its settlement record.
func (s *TrackedSession) Settled() bool {
	return !s.Tracking && s.SettlementMode != ""
}
