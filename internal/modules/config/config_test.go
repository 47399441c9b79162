package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Service.Name != "signal-bot-test" {
		t.Fatalf("unexpected Service.Name: %s", cfg.Service.Name)
	}
	if cfg.Feed.BrokerID != "958" || cfg.Feed.User != "BlackBots" {
		t.Fatalf("unexpected feed identity: %+v", cfg.Feed)
	}
	if cfg.Feed.MaxConcurrency != 4 {
		t.Fatalf("unexpected Feed.MaxConcurrency: %d", cfg.Feed.MaxConcurrency)
	}
	// не задано в файле => дефолт
	if cfg.Feed.AccountType != "LIVE" {
		t.Fatalf("expected default account type, got %q", cfg.Feed.AccountType)
	}
	if cfg.Broker.Login != 61409959 {
		t.Fatalf("unexpected Broker.Login: %d", cfg.Broker.Login)
	}
	if cfg.Broker.Timeout != 5*time.Second {
		t.Fatalf("unexpected Broker.Timeout: %s", cfg.Broker.Timeout)
	}
	if cfg.Scorer.Threshold != 0.6 {
		t.Fatalf("unexpected Scorer.Threshold: %.2f", cfg.Scorer.Threshold)
	}
	if cfg.Trading.TargetRisk != 50 {
		t.Fatalf("unexpected Trading.TargetRisk: %.2f", cfg.Trading.TargetRisk)
	}
	if cfg.Trading.PollInterval != 2*time.Minute {
		t.Fatalf("unexpected Trading.PollInterval: %s", cfg.Trading.PollInterval)
	}
	if cfg.Trading.MagicMarket != 99999 || cfg.Trading.MagicPending != 88888 {
		t.Fatalf("unexpected magics: %d/%d", cfg.Trading.MagicMarket, cfg.Trading.MagicPending)
	}
	if cfg.History.Backend != "redis" || cfg.History.Redis.Key != "test:processed" {
		t.Fatalf("unexpected history config: %+v", cfg.History)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv(configDirENV, "testdata")
	t.Setenv(configFilePathENV, "config.yaml")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("SCORE_THRESHOLD", "0.75")
	t.Setenv("BROKER_PASSWORD", "secret")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Trading.PollInterval != 30*time.Second {
		t.Fatalf("expected env poll interval, got %s", cfg.Trading.PollInterval)
	}
	if cfg.Scorer.Threshold != 0.75 {
		t.Fatalf("expected env threshold, got %.2f", cfg.Scorer.Threshold)
	}
	if cfg.Broker.Password != "secret" {
		t.Fatalf("expected env broker password")
	}
	if cfg.Telegram.ChatID != 12345 {
		t.Fatalf("expected env chat id, got %d", cfg.Telegram.ChatID)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}

	bad := Default()
	bad.Scorer.Threshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected threshold error")
	}

	bad = Default()
	bad.History.Backend = "sqlite"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected backend error")
	}

	clamp := Default()
	clamp.Feed.MaxConcurrency = 50
	if err := clamp.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clamp.Feed.MaxConcurrency != 10 {
		t.Fatalf("expected concurrency clamped to 10, got %d", clamp.Feed.MaxConcurrency)
	}
}
