package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be fatal: %v", err)
	}
	if cfg.DataSource.Symbol != "SPY" {
		t.Errorf("default symbol: expected SPY, got %q", cfg.DataSource.Symbol)
	}
	if cfg.Strategy.ATRLookback != 14 || cfg.Strategy.OpeningWindow != 6 {
		t.Errorf("default windows: expected 14/6, got %d/%d", cfg.Strategy.ATRLookback, cfg.Strategy.OpeningWindow)
	}
	if cfg.Strategy.CushionFraction != 0.25 {
		t.Errorf("default cushion: expected 0.25, got %v", cfg.Strategy.CushionFraction)
	}
	if cfg.Strategy.PayoutSize != 100 || cfg.Strategy.DollarsPerPoint != 10 {
		t.Errorf("default payout sizing: got %v / %v", cfg.Strategy.PayoutSize, cfg.Strategy.DollarsPerPoint)
	}
	if len(cfg.Watchlist) == 0 {
		t.Error("expected a default watchlist")
	}
	if cfg.Schedule.PollCron == "" || cfg.Schedule.SettleCron == "" {
		t.Error("expected default cron expressions")
	}
}

func TestLoad_FileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
telegram:
  bot_token: tok
  chat_id: chat
strategy:
  cushion_fraction: 0.5
  exclusive_latches: true
watchlist: [SPY, QQQ]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "tok" || cfg.Telegram.ChatID != "chat" {
		t.Errorf("telegram config not read: %+v", cfg.Telegram)
	}
	if cfg.Strategy.CushionFraction != 0.5 {
		t.Errorf("cushion from file: expected 0.5, got %v", cfg.Strategy.CushionFraction)
	}
	if !cfg.Strategy.ExclusiveLatches {
		t.Error("exclusive_latches from file not applied")
	}
	if len(cfg.Watchlist) != 2 {
		t.Errorf("watchlist from file: expected 2 symbols, got %d", len(cfg.Watchlist))
	}
	// Unset fields still get defaults.
	if cfg.Strategy.ATRLookback != 14 {
		t.Errorf("default lookback alongside file values: got %d", cfg.Strategy.ATRLookback)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		cfg.Telegram.BotToken = "tok"
		cfg.Telegram.ChatID = "chat"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("complete config must validate: %v", err)
	}

	cfg := base()
	cfg.Telegram.BotToken = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bot token")
	}

	cfg = base()
	cfg.Strategy.CushionFraction = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative cushion fraction")
	}

	cfg = base()
	cfg.Broker.AlpacaKey = "key-without-secret"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for half-configured broker credentials")
	}
}
