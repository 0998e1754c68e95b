package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"RangeTrader/internal/broker"
	"RangeTrader/internal/collector"
	"RangeTrader/internal/config"
	"RangeTrader/internal/model"
	"RangeTrader/internal/notifier"
	"RangeTrader/internal/recorder"
	"RangeTrader/internal/scanner"
	"RangeTrader/internal/session"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the evaluation and settlement cycles and handles user
// commands. Cron tasks and the Telegram command loop run on separate
// goroutines, so every session mutation goes through the registry's locked
// Evaluate and Settle methods.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Sessions  *session.Registry
	Broker    broker.Broker
	Scanner   *scanner.Scanner
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Strategy  *config.StrategyConfig
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, reg *session.Registry,
	brk broker.Broker, scn *scanner.Scanner, tn *notifier.TelegramNotifier,
	rec recorder.Recorder, strat *config.StrategyConfig) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Sessions:  reg,
		Broker:    brk,
		Scanner:   scn,
		Notifier:  tn,
		Recorder:  rec,
		Strategy:  strat,
		Ctx:       ctx,
	}
}

// RegisterAll registers the poll and settlement tasks.
func (s *Scheduler) RegisterAll(pollCron, settleCron string) error {
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	if _, err := s.Cron.AddFunc(settleCron, s.settleTask); err != nil {
		return fmt.Errorf("register settle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// pollTask runs one evaluation cycle over every tracking session: fetch a
// fresh series, evaluate the last price against the captured fences, and act
// on freshly flipped latches.
func (s *Scheduler) pollTask() {
	active := s.Sessions.Active()
	if len(active) == 0 {
		return
	}
	log.Printf("[INFO] polling %d tracked session(s)", len(active))

	for _, sess := range active {
		view, err := s.Collector.Snapshot(sess.Symbol)
		if err != nil {
			log.Printf("[WARN] poll %s: %v", sess.Symbol, err)
			continue
		}
		if err := s.Recorder.RecordEvaluation(&recorder.EvaluationSnapshot{
			Symbol: view.Symbol,
			Levels: view.Levels,
			Mode:   view.Mode,
		}); err != nil {
			log.Printf("[ERROR] record evaluation: %v", err)
		}

		breakoutFlipped, breakdownFlipped := s.Sessions.Evaluate(sess, view.Levels.LastPrice)

		if breakoutFlipped {
			s.onTrigger(sess, model.ModeBreakout, sess.BreakoutPrice)
		}
		if breakdownFlipped {
			s.onTrigger(sess, model.ModeBreakdown, sess.BreakdownPrice)
		}
	}
}

// onTrigger records and announces a freshly flipped latch, and fires the
// auto-trade order when enabled: buy on breakout, sell on breakdown.
func (s *Scheduler) onTrigger(sess *model.TrackedSession, kind model.Mode, price float64) {
	log.Printf("[INFO] %s latched %s at %.2f", sess.Symbol, kind, price)

	if err := s.Recorder.RecordTrigger(&recorder.TriggerEvent{
		Symbol:    sess.Symbol,
		Kind:      kind,
		Price:     price,
		HighFence: sess.HighFence,
		LowFence:  sess.LowFence,
	}); err != nil {
		log.Printf("[ERROR] record trigger: %v", err)
	}
	s.trySend(notifier.FormatTriggerAlert(sess.Symbol, kind, price, sess.HighFence, sess.LowFence))

	if !s.Strategy.AutoTrade {
		return
	}
	side := model.SideBuy
	if kind == model.ModeBreakdown {
		side = model.SideSell
	}
	ack, err := s.Broker.SubmitOrder(s.Ctx, sess.Symbol, s.Strategy.TradeQty, side)
	if err != nil {
		log.Printf("[ERROR] auto %s %s: %v", side, sess.Symbol, err)
		s.recordOrder(sess.Symbol, side, "rejected", err.Error())
		s.trySend(fmt.Sprintf("❌ Auto %s %d %s failed: %v", strings.ToUpper(string(side)), s.Strategy.TradeQty, sess.Symbol, err))
		return
	}
	s.recordOrder(sess.Symbol, side, ack.Status, fmt.Sprintf("auto on %s", kind))
	s.trySend(fmt.Sprintf("✅ Auto %s %d %s sent (%s, id %s)", strings.ToUpper(string(side)), ack.Qty, ack.Symbol, ack.Status, ack.ID))
}

// settleTask closes every tracking session at the freshest available price.
func (s *Scheduler) settleTask() {
	active := s.Sessions.Active()
	if len(active) == 0 {
		return
	}
	log.Printf("[INFO] settling %d tracked session(s)", len(active))

	for _, sess := range active {
		view, err := s.Collector.Snapshot(sess.Symbol)
		if err != nil {
			log.Printf("[WARN] settle fetch %s: %v, session stays open", sess.Symbol, err)
			continue
		}
		s.settleSession(sess, view.Levels.LastPrice)
	}
}

func (s *Scheduler) settleSession(sess *model.TrackedSession, finalPrice float64) (model.Mode, float64) {
	mode, pl := s.Sessions.Settle(sess, finalPrice, s.Strategy.PayoutSize, s.Strategy.DollarsPerPoint)
	if mode == model.ModeUnknown {
		log.Printf("[WARN] settle %s: session was not tracking", sess.Symbol)
		return mode, pl
	}
	log.Printf("[INFO] settled %s: %s, P&L %+.2f", sess.Symbol, mode, pl)

	if err := s.Recorder.RecordSettlement(&recorder.SettlementEvent{
		Symbol:         sess.Symbol,
		Mode:           mode,
		FinalPrice:     finalPrice,
		RealizedPL:     pl,
		BreakoutPrice:  sess.BreakoutPrice,
		BreakdownPrice: sess.BreakdownPrice,
	}); err != nil {
		log.Printf("[ERROR] record settlement: %v", err)
	}
	s.trySend(notifier.FormatSettlementReport(sess, finalPrice))
	return mode, pl
}

// TrackNow starts tracking symbol at its current levels (manual trigger /
// TRACK_ON_START).
func (s *Scheduler) TrackNow(symbol string) string {
	symbol = strings.ToUpper(symbol)
	view, err := s.Collector.Snapshot(symbol)
	if err != nil {
		log.Printf("[WARN] track %s: %v", symbol, err)
		return fmt.Sprintf("No data for %s right now, try again shortly.", symbol)
	}
	sess := s.Sessions.Track(symbol, &view.Levels, s.Strategy.ExclusiveLatches)
	log.Printf("[INFO] tracking %s, fences %.2f / %.2f", symbol, sess.LowFence, sess.HighFence)
	return fmt.Sprintf("Tracking %s.\nFences captured: %.2f / %.2f (ATR %.2f)\nLast price: %.2f (%s)",
		symbol, sess.LowFence, sess.HighFence, view.Levels.ATREstimate, view.Levels.LastPrice, view.Mode)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/track":
		if arg == "" {
			return "Usage: /track SYMBOL"
		}
		return s.TrackNow(arg)

	case "/stop":
		if arg == "" {
			return "Usage: /stop SYMBOL"
		}
		if _, ok := s.Sessions.Get(arg); !ok {
			return fmt.Sprintf("No session for %s.", arg)
		}
		s.Sessions.Drop(arg)
		return fmt.Sprintf("Stopped tracking %s, session discarded.", arg)

	case "/settle":
		if arg == "" {
			return "Usage: /settle SYMBOL"
		}
		sess, ok := s.Sessions.Get(arg)
		if !ok {
			return fmt.Sprintf("No session for %s.", arg)
		}
		if !sess.Tracking {
			return fmt.Sprintf("%s is not tracking (use /track %s to start a new cycle).", arg, arg)
		}
		view, err := s.Collector.Snapshot(arg)
		if err != nil {
			return fmt.Sprintf("No data for %s right now, settlement postponed.", arg)
		}
		// The full report goes out through the notifier; the reply is a
		// short acknowledgement so the chat is not told twice.
		mode, pl := s.settleSession(sess, view.Levels.LastPrice)
		if mode == model.ModeUnknown {
			return fmt.Sprintf("%s is not tracking (use /track %s to start a new cycle).", arg, arg)
		}
		return fmt.Sprintf("%s settled: %s, P&L %+.2f.", arg, mode, pl)

	case "/status":
		return notifier.FormatSessionStatus(s.Sessions.Status())

	case "/quote":
		if arg == "" {
			return "Usage: /quote SYMBOL"
		}
		view, err := s.Collector.Snapshot(arg)
		if err != nil {
			return fmt.Sprintf("No data for %s right now.", arg)
		}
		return notifier.FormatSnapshot(view)

	case "/buy", "/sell":
		if arg == "" {
			return fmt.Sprintf("Usage: %s SYMBOL", cmd)
		}
		side := model.SideBuy
		if cmd == "/sell" {
			side = model.SideSell
		}
		ack, err := s.Broker.SubmitOrder(s.Ctx, arg, s.Strategy.TradeQty, side)
		if err != nil {
			s.recordOrder(arg, side, "rejected", err.Error())
			return fmt.Sprintf("Order failed: %v", err)
		}
		s.recordOrder(arg, side, ack.Status, "manual")
		return fmt.Sprintf("✅ %s %d %s sent (%s, id %s)", strings.ToUpper(string(side)), ack.Qty, ack.Symbol, ack.Status, ack.ID)

	case "/scan":
		picks := s.Scanner.Scan()
		return notifier.FormatScanReport(picks)

	case "/account":
		acct, err := s.Broker.Account(s.Ctx)
		if err != nil {
			return fmt.Sprintf("Broker not reachable: %v", err)
		}
		return notifier.FormatAccount(s.Broker.Name(), acct)

	default:
		return helpText
	}
}

const helpText = "Commands:\n" +
	"• /track SYMBOL — capture fences and start a tracking cycle\n" +
	"• /stop SYMBOL — discard a session\n" +
	"• /settle SYMBOL — settle now at the latest price\n" +
	"• /status — tracked sessions\n" +
	"• /quote SYMBOL — levels and market mode\n" +
	"• /buy SYMBOL — submit a manual paper buy\n" +
	"• /sell SYMBOL — submit a manual paper sell\n" +
	"• /scan — rank the watchlist\n" +
	"• /account — brokerage balances"

func (s *Scheduler) recordOrder(symbol string, side model.Side, status, note string) {
	if err := s.Recorder.RecordOrder(&recorder.OrderEvent{
		Symbol: symbol,
		Qty:    s.Strategy.TradeQty,
		Side:   side,
		Status: status,
		Note:   note,
	}); err != nil {
		log.Printf("[ERROR] record order: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
