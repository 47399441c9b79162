package service

import (
	"context"
	"fmt"
	"net/http"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

// SelectSymbol добавляет символ в MarketWatch. Без этого тики и расчёт профита не работают.
func (c *Client) SelectSymbol(ctx context.Context, symbol string) error {
	var out selectResponse
	if err := c.call(ctx, http.MethodPost, "/symbol/select", selectRequest{Symbol: symbol, Enable: true}, &out); err != nil {
		return errors.Wrap(models.ErrSymbolUnavailable, err.Error())
	}
	if !out.Selected {
		return errors.Wrap(models.ErrSymbolUnavailable, fmt.Sprintf("SelectSymbol %s: not selected", symbol))
	}
	return nil
}
