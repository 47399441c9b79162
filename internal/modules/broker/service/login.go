package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Login инициализирует терминал и логинится в счёт. Без этого бот не стартует.
func (c *Client) Login(ctx context.Context) error {
	var out loginResponse
	err := c.call(ctx, http.MethodPost, "/login", loginRequest{
		Path:     c.terminalPath,
		Login:    c.login,
		Password: c.password,
		Server:   c.server,
	}, &out)
	if err != nil {
		return fmt.Errorf("Login: %w", err)
	}
	c.log.Info("logged in",
		zap.Int64("login", out.Login),
		zap.String("server", out.Server),
		zap.Float64("balance", out.Balance),
	)
	return nil
}

// Shutdown закрывает сессию терминала.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/shutdown", nil, nil); err != nil {
		return fmt.Errorf("Shutdown: %w", err)
	}
	return nil
}
