package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client ходит в HTTP-бридж перед терминалом MetaTrader 5.
// Один экземпляр на процесс: сессия терминала одна и с состоянием.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger

	terminalPath string
	login        int64
	password     string
	server       string
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.Broker.BridgeURL), "/")
	if base == "" {
		base = "http://127.0.0.1:8787"
	}
	timeout := cfg.Broker.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:         base,
		http:         &http.Client{Timeout: timeout},
		log:          log.Named("broker"),
		terminalPath: cfg.Broker.TerminalPath,
		login:        cfg.Broker.Login,
		password:     cfg.Broker.Password,
		server:       cfg.Broker.Server,
	}
}

// envelope общий формат ответа бриджа.
type envelope struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// call шлёт запрос и раскладывает data в out. ok=false или не-2xx => ошибка.
func (c *Client) call(ctx context.Context, method, path string, body any, out any) (err error) {
	span, ctx := tracing.StartSpan(ctx, "broker "+path)
	defer func() { tracing.Finish(span, err) }()

	var rd io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s marshal: %w", path, err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("%s new request: %w", path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("User-Agent", "signal_bot/bridge")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s do: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s http %d: %s", path, resp.StatusCode, string(data))
	}

	var env envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%s decode: %w; body=%s", path, err, string(data))
	}
	if !env.OK {
		return fmt.Errorf("%s bridge error: %s (request_id=%s)", path, env.Error, reqID)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		if out != nil {
			return fmt.Errorf("%s: empty data (request_id=%s)", path, reqID)
		}
		return nil
	}
	if err := sonic.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s decode data: %w", path, err)
	}
	return nil
}
