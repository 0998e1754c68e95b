package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StrategyConfig holds the range-strategy knobs shared by the calculator and
// the session tracker.
type StrategyConfig struct {
	ATRLookback      int     `yaml:"atr_lookback"`
	CushionFraction  float64 `yaml:"cushion_fraction"`
	OpeningWindow    int     `yaml:"opening_window"`
	ExclusiveLatches bool    `yaml:"exclusive_latches"`
	DollarsPerPoint  float64 `yaml:"dollars_per_point"`
	PayoutSize       float64 `yaml:"payout_size"`
	TradeQty         int     `yaml:"trade_qty"`
	AutoTrade        bool    `yaml:"auto_trade"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		FinnhubKey string `yaml:"finnhub_key"`
		Symbol     string `yaml:"symbol"`
	} `yaml:"data_source"`
	Broker struct {
		AlpacaKey    string `yaml:"alpaca_key"`
		AlpacaSecret string `yaml:"alpaca_secret"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"broker"`
	Strategy  StrategyConfig `yaml:"strategy"`
	Watchlist []string       `yaml:"watchlist"`
	Schedule  struct {
		PollCron   string `yaml:"poll_cron"`
		SettleCron string `yaml:"settle_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FINNHUB_KEY"); v != "" {
		cfg.DataSource.FinnhubKey = v
	}
	if v := os.Getenv("ALPACA_KEY"); v != "" {
		cfg.Broker.AlpacaKey = v
	}
	if v := os.Getenv("ALPACA_SECRET"); v != "" {
		cfg.Broker.AlpacaSecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Broker.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_POLL"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPY"
	}
	if cfg.Strategy.ATRLookback == 0 {
		cfg.Strategy.ATRLookback = 14
	}
	if cfg.Strategy.CushionFraction == 0 {
		cfg.Strategy.CushionFraction = 0.25
	}
	if cfg.Strategy.OpeningWindow == 0 {
		cfg.Strategy.OpeningWindow = 6
	}
	if cfg.Strategy.DollarsPerPoint == 0 {
		cfg.Strategy.DollarsPerPoint = 10
	}
	if cfg.Strategy.PayoutSize == 0 {
		cfg.Strategy.PayoutSize = 100
	}
	if cfg.Strategy.TradeQty == 0 {
		cfg.Strategy.TradeQty = 1
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"SPY", "TSLA", "NVDA", "AAPL", "AMD", "QQQ", "IWM"}
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "0 */5 * * * *"
	}
	if cfg.Schedule.SettleCron == "" {
		// Just before the cash close, local time.
		cfg.Schedule.SettleCron = "0 55 15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/range_trader.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Strategy.CushionFraction < 0 {
		return fmt.Errorf("strategy.cushion_fraction must not be negative")
	}
	if c.Strategy.OpeningWindow <= 0 {
		return fmt.Errorf("strategy.opening_window must be positive")
	}
	if c.Strategy.ATRLookback <= 0 {
		return fmt.Errorf("strategy.atr_lookback must be positive")
	}
	if c.Strategy.TradeQty <= 0 {
		return fmt.Errorf("strategy.trade_qty must be positive")
	}
	if (c.Broker.AlpacaKey == "") != (c.Broker.AlpacaSecret == "") {
		return fmt.Errorf("broker.alpaca_key and broker.alpaca_secret must be set together")
	}
	return nil
}
