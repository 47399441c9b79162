package service

import (
	"context"
	"fmt"
	"net/http"

	"signal_bot/internal/models"
)

// CalcProfit order_calc_profit: P/L в валюте счёта при движении volume от open до close.
// Знак сохраняется, модуль берёт вызывающий.
func (c *Client) CalcProfit(
	ctx context.Context,
	direction models.Direction,
	symbol string,
	volume float64,
	priceOpen float64,
	priceClose float64,
) (float64, error) {
	var out calcProfitResponse
	err := c.call(ctx, http.MethodPost, "/order/calc_profit", calcProfitRequest{
		Type:       int(models.MarketOrderType(direction)),
		Symbol:     symbol,
		Volume:     volume,
		PriceOpen:  priceOpen,
		PriceClose: priceClose,
	}, &out)
	if err != nil {
		return 0, fmt.Errorf("CalcProfit %s: %w", symbol, err)
	}
	if out.Profit == nil {
		return 0, fmt.Errorf("CalcProfit %s: profit is null", symbol)
	}
	return *out.Profit, nil
}
