package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"signal_bot/internal/models"
)

// Tick последняя котировка символа.
func (c *Client) Tick(ctx context.Context, symbol string) (models.Tick, error) {
	var t tickResponse
	if err := c.call(ctx, http.MethodGet, "/tick/"+url.PathEscape(symbol), nil, &t); err != nil {
		return models.Tick{}, fmt.Errorf("Tick %s: %w", symbol, err)
	}
	out := models.Tick{Symbol: symbol, Bid: t.Bid, Ask: t.Ask}
	if t.Time > 0 {
		out.Time = time.Unix(t.Time, 0)
	}
	return out, nil
}
