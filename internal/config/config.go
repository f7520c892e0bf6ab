package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"SPVWaterfall/internal/model"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration.
type Config struct {
	Capital struct {
		Senior    float64 `yaml:"senior"`
		Mezzanine float64 `yaml:"mezzanine"`
		Equity    float64 `yaml:"equity"`
	} `yaml:"capital"`
	Market struct {
		Premiums float64 `yaml:"premiums"`
		Losses   float64 `yaml:"losses"`
		// SourceURL points at an outcome feed; empty means use the static values above.
		SourceURL string `yaml:"source_url"`
		APIKey    string `yaml:"api_key"`
	} `yaml:"market"`
	// Rates are pointers so an explicit 0 is kept and only a missing key gets the default.
	Rates struct {
		Senior    *float64 `yaml:"senior"`
		Mezzanine *float64 `yaml:"mezzanine"`
	} `yaml:"rates"`
	Validation struct {
		Strict *bool `yaml:"strict"`
	} `yaml:"validation"`
	Schedule struct {
		EvaluateCron string `yaml:"evaluate_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr            string `yaml:"addr"`
		RateLimit       int    `yaml:"rate_limit"`
		RateLimitWindow string `yaml:"rate_limit_window"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr  string `yaml:"redis_addr"`
		TTL        string `yaml:"ttl"`
		MaxEntries int    `yaml:"max_entries"`
	} `yaml:"cache"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present), then the YAML file, then applies environment
// variable overrides and defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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
	envFloat("SPV_CAPITAL_SENIOR", &cfg.Capital.Senior)
	envFloat("SPV_CAPITAL_MEZZANINE", &cfg.Capital.Mezzanine)
	envFloat("SPV_CAPITAL_EQUITY", &cfg.Capital.Equity)
	envFloat("SPV_PREMIUMS", &cfg.Market.Premiums)
	envFloat("SPV_LOSSES", &cfg.Market.Losses)
	if v, ok := lookupFloat("SPV_RATE_SENIOR"); ok {
		cfg.Rates.Senior = &v
	}
	if v, ok := lookupFloat("SPV_RATE_MEZZANINE"); ok {
		cfg.Rates.Mezzanine = &v
	}
	if v := os.Getenv("SPV_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Validation.Strict = &b
		}
	}
	if v := os.Getenv("SPV_MARKET_URL"); v != "" {
		cfg.Market.SourceURL = v
	}
	if v := os.Getenv("SPV_MARKET_API_KEY"); v != "" {
		cfg.Market.APIKey = v
	}
	if v := os.Getenv("SPV_EVALUATE_CRON"); v != "" {
		cfg.Schedule.EvaluateCron = v
	}
	if v := os.Getenv("SPV_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Rates.Senior == nil {
		v := model.DefaultSeniorRate.InexactFloat64()
		cfg.Rates.Senior = &v
	}
	if cfg.Rates.Mezzanine == nil {
		v := model.DefaultMezzanineRate.InexactFloat64()
		cfg.Rates.Mezzanine = &v
	}
	if cfg.Validation.Strict == nil {
		strict := true
		cfg.Validation.Strict = &strict
	}
	if cfg.Schedule.EvaluateCron == "" {
		cfg.Schedule.EvaluateCron = "0 0 9 * * *"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 30
	}
	if cfg.Server.RateLimitWindow == "" {
		cfg.Server.RateLimitWindow = "1m"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "24h"
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10000
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidConfig))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.max_entries must not be negative", ErrInvalidConfig))
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		errs = append(errs, fmt.Errorf("%w: cache.ttl: %v", ErrInvalidConfig, err))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errs = append(errs, fmt.Errorf("%w: telegram.chat_id is required when bot_token is set", ErrInvalidConfig))
	}
	if c.Database.SQLitePath != "" && c.Database.PostgresDSN != "" {
		errs = append(errs, fmt.Errorf("%w: configure at most one of database.sqlite_path and database.postgres_dsn", ErrInvalidConfig))
	}
	if c.Strict() {
		if c.Capital.Senior < 0 || c.Capital.Mezzanine < 0 || c.Capital.Equity < 0 {
			errs = append(errs, fmt.Errorf("%w: capital must be nonnegative", ErrInvalidConfig))
		}
		if c.Market.Premiums < 0 || c.Market.Losses < 0 {
			errs = append(errs, fmt.Errorf("%w: market premiums and losses must be nonnegative", ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

// Strict reports whether outer callers should reject negative inputs.
func (c *Config) Strict() bool {
	return c.Validation.Strict == nil || *c.Validation.Strict
}

// TrancheCapital returns the configured tranche principal.
func (c *Config) TrancheCapital() model.TrancheCapital {
	return model.TrancheCapital{
		Senior:    decimal.NewFromFloat(c.Capital.Senior),
		Mezzanine: decimal.NewFromFloat(c.Capital.Mezzanine),
		Equity:    decimal.NewFromFloat(c.Capital.Equity),
	}
}

// RateSchedule returns the configured rates, falling back to the defaults.
func (c *Config) RateSchedule() model.RateSchedule {
	rates := model.DefaultRateSchedule()
	if c.Rates.Senior != nil {
		rates.Senior = decimal.NewFromFloat(*c.Rates.Senior)
	}
	if c.Rates.Mezzanine != nil {
		rates.Mezzanine = decimal.NewFromFloat(*c.Rates.Mezzanine)
	}
	return rates
}

// MarketOutcome returns the statically configured premiums and losses.
func (c *Config) MarketOutcome() model.MarketOutcome {
	return model.MarketOutcome{
		Premiums: decimal.NewFromFloat(c.Market.Premiums),
		Losses:   decimal.NewFromFloat(c.Market.Losses),
	}
}

// Input assembles a waterfall input from the static configuration.
func (c *Config) Input() model.WaterfallInput {
	return model.WaterfallInput{
		Capital: c.TrancheCapital(),
		Outcome: c.MarketOutcome(),
		Rates:   c.RateSchedule(),
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := lookupFloat(key); ok {
		*dst = v
	}
}

func lookupFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
