package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchAll забирает весь текущий фид. Первая страница синхронно (её ошибка = ошибка цикла),
// остальные параллельно, не больше 10 запросов сразу. Упавшая страница просто выпадает.
func (c *Client) FetchAll(ctx context.Context, endpoint string) (_ []models.TradeSignal, err error) {
	span, ctx := tracing.StartSpan(ctx, "feed.FetchAll")
	defer func() { tracing.Finish(span, err) }()

	first, err := c.fetchPage(ctx, endpoint)
	if err != nil {
		metrics.FeedPagesTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(models.ErrFeedPage, err.Error())
	}
	metrics.FeedPagesTotal.WithLabelValues("ok").Inc()

	totalPages, limit := 1, defaultPageLimit
	if first.Page != nil {
		if first.Page.TotalPages > 0 {
			totalPages = first.Page.TotalPages
		}
		if first.Page.Limit > 0 {
			limit = first.Page.Limit
		}
	}

	items := append([]json.RawMessage(nil), first.Items...)

	if totalPages > 1 {
		var (
			mu sync.Mutex
			g  errgroup.Group
		)
		g.SetLimit(c.concurrency)

		for page := 1; page < totalPages; page++ {
			offset := page * limit
			g.Go(func() error {
				u, err := withOffset(endpoint, offset)
				if err != nil {
					c.log.Warn("bad page url", zap.Int("offset", offset), zap.Error(err))
					return nil
				}
				resp, err := c.fetchPage(ctx, u)
				if err != nil {
					metrics.FeedPagesTotal.WithLabelValues("error").Inc()
					c.log.Warn("feed page failed", zap.Int("offset", offset), zap.Error(err))
					return nil
				}
				metrics.FeedPagesTotal.WithLabelValues("ok").Inc()

				mu.Lock()
				items = append(items, resp.Items...)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make([]models.TradeSignal, 0, len(items))
	for _, raw := range items {
		sig, err := decodeItem(raw)
		if err != nil {
			c.log.Warn("drop feed item", zap.Error(err))
			continue
		}
		out = append(out, sig)
	}

	c.log.Debug("feed fetched",
		zap.Int("pages", totalPages),
		zap.Int("items", len(items)),
		zap.Int("signals", len(out)),
	)
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, u string) (*pageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var page pageResponse
	if err := sonic.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if page.Items == nil {
		return nil, fmt.Errorf("no items in page")
	}
	return &page, nil
}
