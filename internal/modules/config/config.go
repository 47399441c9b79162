package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"

	defaultConfigFile = "values_local.yaml"
	defaultConfigDir  = "configs"
)

// Config ...
type Config struct {
	Service struct {
		Name       string `yaml:"name"`
		LogLevel   string `yaml:"log_level"`
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`

	// Фид торговых идей (Autochartist)
	Feed struct {
		BaseURL        string        `yaml:"base_url"`
		AccountType    string        `yaml:"account_type"` // LIVE
		BrokerID       string        `yaml:"broker_id"`
		User           string        `yaml:"user"`
		TokenAccount   string        `yaml:"token_account"` // account_type в токене, "0"
		SecretKey      string        `yaml:"secret_key"`
		Locale         string        `yaml:"locale"`
		TokenTTL       time.Duration `yaml:"token_ttl"`
		MaxConcurrency int           `yaml:"max_concurrency"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"feed"`

	// MT5 бридж
	Broker struct {
		BridgeURL    string        `yaml:"bridge_url"`
		TerminalPath string        `yaml:"terminal_path"`
		Login        int64         `yaml:"login"`
		Password     string        `yaml:"password"`
		Server       string        `yaml:"server"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"broker"`

	Scorer struct {
		ModelPath    string  `yaml:"model_path"`
		EncodersPath string  `yaml:"encoders_path"`
		ScalerPath   string  `yaml:"scaler_path"`
		Threshold    float64 `yaml:"threshold"`
	} `yaml:"scorer"`

	Trading struct {
		// Сколько денег теряем по стопу (в валюте счёта)
		TargetRisk   float64       `yaml:"target_risk"`
		PollInterval time.Duration `yaml:"poll_interval"`
		Deviation    int           `yaml:"deviation"`
		MagicMarket  int64         `yaml:"magic_market"`
		MagicPending int64         `yaml:"magic_pending"`
	} `yaml:"trading"`

	History struct {
		Backend string `yaml:"backend"` // file | postgres | redis
		Path    string `yaml:"path"`
		DSN     string `yaml:"db_dsn"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Key      string `yaml:"key"`
		} `yaml:"redis"`
	} `yaml:"history"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`
}

// Default значения, совпадающие с боевыми настройками исходного бота.
func Default() Config {
	var c Config
	c.Service.Name = "signal_bot"
	c.Service.LogLevel = "info"
	c.Service.HealthAddr = ":8080"

	c.Feed.BaseURL = "https://component.autochartist.com/to/resources/results"
	c.Feed.AccountType = "LIVE"
	c.Feed.TokenAccount = "0"
	c.Feed.Locale = "pt-BR"
	c.Feed.TokenTTL = 72 * time.Hour
	c.Feed.MaxConcurrency = 10
	c.Feed.Timeout = 15 * time.Second

	c.Broker.BridgeURL = "http://127.0.0.1:8787"
	c.Broker.Timeout = 15 * time.Second

	c.Scorer.ModelPath = "models/model.json"
	c.Scorer.EncodersPath = "models/encoders.json"
	c.Scorer.ScalerPath = "models/scaler.json"
	c.Scorer.Threshold = 0.5

	c.Trading.TargetRisk = 100
	c.Trading.PollInterval = 5 * time.Minute
	c.Trading.Deviation = 20
	c.Trading.MagicMarket = 99999
	c.Trading.MagicPending = 88888

	c.History.Backend = "file"
	c.History.Path = "data/processed_signals.json"
	c.History.Redis.Addr = "localhost:6379"
	c.History.Redis.Key = "signal_bot:processed"

	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831
	return c
}

// NewConfig читает configs/$CONFIG_FILE (+ .env) и накладывает переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := getenvDefault(configFilePathENV, defaultConfigFile)
	dir := getenvDefault(configDirENV, defaultConfigDir)

	cfg, err := Load(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load читает YAML поверх дефолтов.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer func() {
		_ = file.Close()
	}()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}
	return &config, nil
}

// Validate ...
func (c *Config) Validate() error {
	if c.Scorer.Threshold < 0 || c.Scorer.Threshold > 1 {
		return fmt.Errorf("scorer.threshold must be in [0,1], got %v", c.Scorer.Threshold)
	}
	if c.Trading.TargetRisk <= 0 {
		return fmt.Errorf("trading.target_risk must be > 0")
	}
	if c.Trading.PollInterval <= 0 {
		return fmt.Errorf("trading.poll_interval must be > 0")
	}
	switch c.History.Backend {
	case "file", "postgres", "redis":
	default:
		return fmt.Errorf("unknown history.backend %q", c.History.Backend)
	}
	if c.Feed.MaxConcurrency <= 0 || c.Feed.MaxConcurrency > 10 {
		c.Feed.MaxConcurrency = 10
	}
	return nil
}

func applyEnv(c *Config) {
	c.Service.LogLevel = getenvDefault("LOG_LEVEL", c.Service.LogLevel)
	c.Feed.SecretKey = getenvDefault("FEED_SECRET_KEY", c.Feed.SecretKey)
	c.Broker.Password = getenvDefault("BROKER_PASSWORD", c.Broker.Password)
	c.Broker.BridgeURL = getenvDefault("BROKER_BRIDGE_URL", c.Broker.BridgeURL)
	c.Telegram.Token = getenvDefault("TELEGRAM_TOKEN", c.Telegram.Token)
	c.History.DSN = getenvDefault("DATABASE_DSN", c.History.DSN)
	c.History.Redis.Password = getenvDefault("REDIS_PASSWORD", c.History.Redis.Password)

	c.Trading.PollInterval = durationFromEnv("POLL_INTERVAL", c.Trading.PollInterval)
	c.Trading.TargetRisk = floatFromEnv("TARGET_RISK", c.Trading.TargetRisk)
	c.Scorer.Threshold = floatFromEnv("SCORE_THRESHOLD", c.Scorer.Threshold)

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
