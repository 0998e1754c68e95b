package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RangeTrader/internal/broker"
	"RangeTrader/internal/calculator"
	"RangeTrader/internal/collector"
	"RangeTrader/internal/config"
	"RangeTrader/internal/notifier"
	"RangeTrader/internal/recorder"
	"RangeTrader/internal/scanner"
	"RangeTrader/internal/scheduler"
	"RangeTrader/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] RangeTrader starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.FinnhubKey != "" {
		fetcher = collector.NewFinnhubFetcher(cfg.DataSource.FinnhubKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector with the configured range parameters
	params := calculator.LevelParams{
		ATRLookback:     cfg.Strategy.ATRLookback,
		CushionFraction: cfg.Strategy.CushionFraction,
		OpeningWindow:   cfg.Strategy.OpeningWindow,
	}
	col := collector.NewCollector(fetcher, params)

	// Init session registry
	sessions := session.NewRegistry()

	// Init broker
	var brk broker.Broker
	if cfg.Broker.AlpacaKey != "" && cfg.Broker.AlpacaSecret != "" {
		brk = broker.NewAlpacaBroker(cfg.Broker.AlpacaKey, cfg.Broker.AlpacaSecret, cfg.Broker.BaseURL, cfg.Proxy)
	} else {
		log.Println("[WARN] no brokerage credentials, using log-only paper broker")
		brk = broker.NewPaperBroker()
	}
	log.Printf("[INFO] broker: %s", brk.Name())

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init watchlist scanner
	scn := scanner.NewScanner(col, cfg.Watchlist)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, sessions, brk, scn, tn, rec, &cfg.Strategy)
	if err := sched.RegisterAll(cfg.Schedule.PollCron, cfg.Schedule.SettleCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: start tracking the default symbol immediately
	if os.Getenv("TRACK_ON_START") == "true" {
		log.Printf("[INFO] TRACK_ON_START enabled, tracking %s now", cfg.DataSource.Symbol)
		go func() {
			if reply := sched.TrackNow(cfg.DataSource.Symbol); reply != "" {
				log.Printf("[INFO] %s", reply)
			}
		}()
	}

	log.Println("[INFO] RangeTrader is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] RangeTrader stopped")
}
