package service

import (
	"context"
	"fmt"
	"net/http"

	"signal_bot/internal/models"

	"go.uber.org/zap"
)

// OrderSend отправляет торговый запрос. Ответ с retcode != DONE ошибкой не считается:
// решение по retcode принимает вызывающий.
func (c *Client) OrderSend(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	var out models.OrderResult
	if err := c.call(ctx, http.MethodPost, "/order/send", req, &out); err != nil {
		return models.OrderResult{}, fmt.Errorf("OrderSend %s: %w", req.Symbol, err)
	}
	c.log.Debug("order_send",
		zap.String("symbol", req.Symbol),
		zap.Stringer("type", req.Type),
		zap.Stringer("filling", req.TypeFilling),
		zap.Float64("volume", req.Volume),
		zap.Int("retcode", out.Retcode),
		zap.Uint64("order", out.Order),
		zap.String("comment", out.Comment),
	)
	return out, nil
}
