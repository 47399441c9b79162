package service

import (
	"net/http"
	"time"

	"signal_bot/internal/modules/config"

	"go.uber.org/zap"
)

const (
	maxPageConcurrency = 10
	defaultPageLimit   = 20
	tokenExpiry        = 3 * 24 * time.Hour
)

// Client читает фид торговых идей.
type Client struct {
	http *http.Client
	log  *zap.Logger

	baseURL      string
	accountType  string
	brokerID     string
	user         string
	tokenAccount string
	secretKey    string
	locale       string
	tokenTTL     time.Duration
	concurrency  int
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	f := cfg.Feed

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ttl := f.TokenTTL
	if ttl <= 0 {
		ttl = tokenExpiry
	}
	conc := f.MaxConcurrency
	if conc <= 0 || conc > maxPageConcurrency {
		conc = maxPageConcurrency
	}

	return &Client{
		http:         &http.Client{Timeout: timeout},
		log:          log.Named("feed"),
		baseURL:      f.BaseURL,
		accountType:  f.AccountType,
		brokerID:     f.BrokerID,
		user:         f.User,
		tokenAccount: f.TokenAccount,
		secretKey:    f.SecretKey,
		locale:       f.Locale,
		tokenTTL:     ttl,
		concurrency:  conc,
	}
}
