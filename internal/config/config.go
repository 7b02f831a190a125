package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	NasdaqListedURL = "https://www.nasdaqtrader.com/dynamic/symdir/nasdaqlisted.txt"
	OtherListedURL  = "https://www.nasdaqtrader.com/dynamic/symdir/otherlisted.txt"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Scan struct {
		Delay       time.Duration `yaml:"delay"`
		HistoryDays int           `yaml:"history_days"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Files struct {
		Universe     string `yaml:"universe"`
		ErrorTickers string `yaml:"error_tickers"`
		FullResult   string `yaml:"full_result"`
		DeltaResult  string `yaml:"delta_result"`
	} `yaml:"files"`
	Universe struct {
		NasdaqURL    string        `yaml:"nasdaq_url"`
		OtherURL     string        `yaml:"other_url"`
		MinMarketCap string        `yaml:"min_market_cap"`
		Delay        time.Duration `yaml:"delay"`
		ErrorDelay   time.Duration `yaml:"error_delay"`
	} `yaml:"universe"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log   LogConfig `yaml:"log"`
	Proxy string    `yaml:"proxy"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level      string `yaml:"level"`       // "debug", "info", "warn", "error"
	Format     string `yaml:"format"`      // "json" or "console"
	OutputFile string `yaml:"output_file"` // optional rotated log file
}

// Load reads an optional .env file and the YAML config, then applies environment variable overrides.
// Defaults are set first, so a key present in the file (even a zero value like "delay: 0s") wins.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SCAN_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SCAN_DELAY: %w", err)
		}
		c.Scan.Delay = d
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		c.Schedule.ScanCron = v
	}
	if v := os.Getenv("UNIVERSE_FILE"); v != "" {
		c.Files.Universe = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Scan.Delay = time.Second
	c.Scan.HistoryDays = 365
	c.Schedule.ScanCron = "0 30 6 * * 2-6"
	c.Files.Universe = "data/final_tickers.json"
	c.Files.ErrorTickers = "data/error_tickers.json"
	c.Files.FullResult = "data/full_scan_result.json"
	c.Files.DeltaResult = "data/delta_scan_result.json"
	c.Universe.NasdaqURL = NasdaqListedURL
	c.Universe.OtherURL = OtherListedURL
	c.Universe.MinMarketCap = "1000000000"
	c.Universe.Delay = 2 * time.Second
	c.Universe.ErrorDelay = 5 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"
}

// Validate checks the fields the scanner needs.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Scan.Delay < 0 {
		return fmt.Errorf("scan.delay must not be negative")
	}
	if c.Scan.HistoryDays <= 0 {
		return fmt.Errorf("scan.history_days must be positive")
	}
	return nil
}
