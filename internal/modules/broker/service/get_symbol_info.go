package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

// SymbolConstraints тянет volume_min/max/step. Не кешируем: объёмы брокер может поменять.
func (c *Client) SymbolConstraints(ctx context.Context, symbol string) (models.SymbolConstraints, error) {
	var info symbolInfo
	if err := c.call(ctx, http.MethodGet, "/symbol/"+url.PathEscape(symbol), nil, &info); err != nil {
		return models.SymbolConstraints{}, errors.Wrap(models.ErrSymbolUnavailable, err.Error())
	}

	out := models.SymbolConstraints{
		Symbol:  symbol,
		MinLot:  info.VolumeMin,
		MaxLot:  info.VolumeMax,
		LotStep: info.VolumeStep,
		Digits:  info.Digits,
	}
	if !out.Valid() {
		return models.SymbolConstraints{}, errors.Wrap(models.ErrSymbolUnavailable,
			fmt.Sprintf("SymbolConstraints %s: bad volumes min=%v max=%v step=%v",
				symbol, info.VolumeMin, info.VolumeMax, info.VolumeStep))
	}
	return out, nil
}
