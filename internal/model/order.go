package model

import "time"

// Side is the order direction sent to the broker.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderAck is the broker's acknowledgement of a submitted order.
type OrderAck struct {
	ID        string
	Symbol    string
	Qty       int
	Side      Side
	Status    string
	CreatedAt time.Time
}

// Account holds the brokerage paper-account figures we display.
type Account struct {
	BuyingPower float64
	Equity      float64
	Cash        float64
}
