package broker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"RangeTrader/internal/model"
)

// PaperBroker is a log-only implementation used when no brokerage
// credentials are configured. Every order is acknowledged as filled.
type PaperBroker struct {
	mu      sync.Mutex
	counter int
}

// NewPaperBroker creates the fallback broker.
func NewPaperBroker() *PaperBroker { return &PaperBroker{} }

func (p *PaperBroker) Name() string { return "paper" }

func (p *PaperBroker) SubmitOrder(_ context.Context, symbol string, qty int, side model.Side) (*model.OrderAck, error) {
	p.mu.Lock()
	p.counter++
	n := p.counter
	p.mu.Unlock()

	log.Printf("[INFO] paper broker: %s %d %s", side, qty, symbol)
	return &model.OrderAck{
		ID:        fmt.Sprintf("paper-%d", n),
		Symbol:    symbol,
		Qty:       qty,
		Side:      side,
		Status:    "filled",
		CreatedAt: time.Now(),
	}, nil
}

func (p *PaperBroker) Account(_ context.Context) (*model.Account, error) {
	// Simulated flat account so the status display has something to show.
	return &model.Account{BuyingPower: 100000, Equity: 100000, Cash: 100000}, nil
}
