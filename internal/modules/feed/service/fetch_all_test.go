package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"go.uber.org/zap/zaptest"
)

func pageJSON(offset, n, totalPages, limit int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := offset + i
		items = append(items, fmt.Sprintf(`{
			"data": {
				"result_uid": %d,
				"symbol": "EURUSD",
				"symbol_name": "Euro vs US Dollar",
				"direction": 1,
				"interval": 60,
				"pattern": "Triangle",
				"identified": "2025-01-10T10:00:00Z",
				"analysis_text": "txt",
				"signal_levels": {"entry_level": "1.1000", "stop_loss": 1.095, "target_level": "1.11", "target_period": "8 hours"}
			},
			"links": [{"rel": "chart-xs", "href": "https://charts/%d.png"}]
		}`, id, id))
	}
	return fmt.Sprintf(`{"items":[%s],"page":{"total_pages":%d,"limit":%d}}`,
		strings.Join(items, ","), totalPages, limit)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.Feed.BaseURL = baseURL
	cfg.Feed.User = "BlackBots"
	cfg.Feed.BrokerID = "958"
	cfg.Feed.SecretKey = "secret"
	cfg.Feed.Timeout = 2 * time.Second
	return NewClient(&cfg, zaptest.NewLogger(t))
}

func TestFetchAllSkipsFailedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_offset") {
		case "":
			_, _ = w.Write([]byte(pageJSON(0, 20, 3, 20)))
		case "20":
			_, _ = w.Write([]byte(pageJSON(20, 20, 3, 20)))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(signals) != 40 {
		t.Fatalf("want 40 signals, got %d", len(signals))
	}

	seen := make(map[string]bool)
	for _, s := range signals {
		seen[s.ID] = true
	}
	for i := 0; i < 40; i++ {
		if !seen[fmt.Sprint(i)] {
			t.Fatalf("signal %d missing", i)
		}
	}
}

func TestFetchAllFirstPageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if !errors.Is(err, models.ErrFeedPage) {
		t.Fatalf("want ErrFeedPage, got %v", err)
	}
}

func TestFetchAllBoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		off := r.URL.Query().Get("page_offset")
		if off == "" {
			_, _ = w.Write([]byte(pageJSON(0, 1, 30, 1)))
			return
		}
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)

		var offset int
		_, _ = fmt.Sscan(off, &offset)
		_, _ = w.Write([]byte(pageJSON(offset, 1, 30, 1)))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(signals) != 30 {
		t.Fatalf("want 30 signals, got %d", len(signals))
	}
	if peak > maxPageConcurrency {
		t.Fatalf("peak concurrency %d > %d", peak, maxPageConcurrency)
	}
}

func TestFetchAllDropsInvalidItems(t *testing.T) {
	body := `{"items":[
		{"data":{"result_uid":"ok-1","symbol":"EURUSD","direction":2,"interval":"H1","pattern":"Flag",
			"signal_levels":{"entry_level":1.1,"stop_loss":1.2}}, "links":[]},
		{"data":{"result_uid":"no-stop","symbol":"EURUSD","direction":1,"signal_levels":{"entry_level":1.1}}},
		{"data":{"symbol":"EURUSD","direction":1,"signal_levels":{"entry_level":1.1,"stop_loss":1}}},
		{"links":[]}
	],"page":{"total_pages":1,"limit":20}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("want 1 valid signal, got %d", len(signals))
	}
	s := signals[0]
	if s.ID != "ok-1" || s.Direction != models.DirectionSell || s.HasTarget() || s.Timeframe != "H1" {
		t.Fatalf("signal = %+v", s)
	}
}

// withBadStop портит stop_loss у элемента с заданным id.
func withBadStop(page string, id int) string {
	i := strings.Index(page, fmt.Sprintf(`"result_uid": %d,`, id))
	if i < 0 {
		return page
	}
	return page[:i] + strings.Replace(page[i:], `"stop_loss": 1.095`, `"stop_loss": "-"`, 1)
}

func TestFetchAllMalformedNumberOnFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(withBadStop(pageJSON(0, 20, 1, 20), 5)))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(signals) != 19 {
		t.Fatalf("want 19 signals, got %d", len(signals))
	}
	for _, s := range signals {
		if s.ID == "5" {
			t.Fatalf("malformed item must be dropped")
		}
	}
}

func TestFetchAllMalformedNumberOnLaterPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_offset") {
		case "":
			_, _ = w.Write([]byte(pageJSON(0, 20, 2, 20)))
		default:
			_, _ = w.Write([]byte(withBadStop(pageJSON(20, 20, 2, 20), 33)))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(signals) != 39 {
		t.Fatalf("want 39 signals, got %d", len(signals))
	}
}

func TestDecodeItemMalformed(t *testing.T) {
	_, err := decodeItem([]byte(`{"data":{"result_uid":"x","symbol":"EURUSD","direction":1,
		"signal_levels":{"entry_level":"n/a","stop_loss":1}}}`))
	if !errors.Is(err, models.ErrInvalidSignal) {
		t.Fatalf("want ErrInvalidSignal, got %v", err)
	}
}

func TestItemMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageJSON(7, 1, 1, 20)))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	signals, err := c.FetchAll(context.Background(), c.Endpoint(time.Now()))
	if err != nil || len(signals) != 1 {
		t.Fatalf("FetchAll: %v (%d)", err, len(signals))
	}
	s := signals[0]
	if s.ID != "7" || s.Direction != models.DirectionBuy || s.Timeframe != "60" {
		t.Fatalf("identity fields: %+v", s)
	}
	if s.Entry != 1.1 || s.Stop != 1.095 || s.Target != 1.11 {
		t.Fatalf("levels: %+v", s)
	}
	if s.ChartURL != "https://charts/7.png" || s.TargetPeriod != "8 hours" {
		t.Fatalf("provenance: %+v", s)
	}
}
