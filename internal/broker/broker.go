package broker

import (
	"context"

	"RangeTrader/internal/model"
)

// Broker submits paper market orders. Implementations report transport
// failures as plain errors; nothing at this layer retries.
type Broker interface {
	SubmitOrder(ctx context.Context, symbol string, qty int, side model.Side) (*model.OrderAck, error)
	Account(ctx context.Context) (*model.Account, error)
	Name() string
}
