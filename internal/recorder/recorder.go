package recorder

import "RangeTrader/internal/model"

// EvaluationSnapshot holds one poll cycle's computed levels and regime.
type EvaluationSnapshot struct {
	Symbol string
	Levels model.RangeLevels
	Mode   model.Mode
}

// TriggerEvent records a latch flipping during a tracking session.
type TriggerEvent struct {
	Symbol    string
	Kind      model.Mode // BREAKOUT or BREAKDOWN
	Price     float64
	HighFence float64
	LowFence  float64
}

// SettlementEvent records the terminal P&L of a tracking cycle.
type SettlementEvent struct {
	Symbol         string
	Mode           model.Mode
	FinalPrice     float64
	RealizedPL     float64
	BreakoutPrice  float64
	BreakdownPrice float64
}

// OrderEvent records a paper order submission and its outcome.
type OrderEvent struct {
	Symbol string
	Qty    int
	Side   model.Side
	Status string
	Note   string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordEvaluation(snap *EvaluationSnapshot) error
	RecordTrigger(evt *TriggerEvent) error
	RecordSettlement(evt *SettlementEvent) error
	RecordOrder(evt *OrderEvent) error
	Close() error
}
