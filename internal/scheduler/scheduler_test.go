package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"RangeTrader/internal/broker"
	"RangeTrader/internal/calculator"
	"RangeTrader/internal/collector"
	"RangeTrader/internal/config"
	"RangeTrader/internal/model"
	"RangeTrader/internal/notifier"
	"RangeTrader/internal/recorder"
	"RangeTrader/internal/scanner"
	"RangeTrader/internal/session"
)

// steadyBars is a flat 20-bar series: opening range 99-101, fences
// 101.5/98.5, last price 100 inside the fences.
func steadyBars() []model.OHLCV {
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	bars := make([]model.OHLCV, 20)
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:  base.Add(time.Duration(i) * 5 * time.Minute),
			Open:  100,
			High:  101,
			Low:   99,
			Close: 100,
		}
	}
	return bars
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	col := collector.NewCollector(&collector.MockFetcher{Bars: steadyBars()}, calculator.DefaultLevelParams())
	strat := &config.StrategyConfig{
		ATRLookback:     14,
		CushionFraction: 0.25,
		OpeningWindow:   6,
		DollarsPerPoint: 10,
		PayoutSize:      100,
		TradeQty:        1,
	}
	return NewScheduler(context.Background(), col, session.NewRegistry(),
		broker.NewPaperBroker(), scanner.NewScanner(col, nil),
		notifier.NewTelegramNotifier("", "", ""), recorder.NewNoopRecorder(), strat)
}

func TestHandleCommand_ManualOrders(t *testing.T) {
	s := newTestScheduler(t)

	reply := s.HandleCommand("/buy spy")
	if !strings.Contains(reply, "BUY") || !strings.Contains(reply, "SPY") {
		t.Errorf("buy reply should confirm the order: %q", reply)
	}
	reply = s.HandleCommand("/sell SPY")
	if !strings.Contains(reply, "SELL") {
		t.Errorf("sell reply should confirm the order: %q", reply)
	}
	if reply := s.HandleCommand("/buy"); !strings.Contains(reply, "Usage") {
		t.Errorf("missing symbol should return usage, got %q", reply)
	}
}

func TestHandleCommand_SettleAcknowledges(t *testing.T) {
	s := newTestScheduler(t)
	s.HandleCommand("/track SPY")

	reply := s.HandleCommand("/settle SPY")
	if !strings.Contains(reply, "settled") || !strings.Contains(reply, string(model.ModeRangeHeld)) {
		t.Errorf("settle reply should acknowledge the outcome: %q", reply)
	}
	// The full report goes out via the notifier; the reply stays short.
	if strings.Contains(reply, "Realized P&L") {
		t.Errorf("settle reply must not repeat the settlement report: %q", reply)
	}

	if reply := s.HandleCommand("/settle SPY"); !strings.Contains(reply, "not tracking") {
		t.Errorf("settling a settled session should say it is not tracking, got %q", reply)
	}
}

func TestHandleCommand_TrackAndStatus(t *testing.T) {
	s := newTestScheduler(t)

	reply := s.HandleCommand("/track SPY")
	if !strings.Contains(reply, "101.50") || !strings.Contains(reply, "98.50") {
		t.Errorf("track reply should report the captured fences: %q", reply)
	}
	if reply := s.HandleCommand("/status"); !strings.Contains(reply, "TRACKING") {
		t.Errorf("status should list the tracking session: %q", reply)
	}
}
