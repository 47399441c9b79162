package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/bytedance/sonic"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Broker.BridgeURL = srv.URL + "/"
	cfg.Broker.Timeout = 2 * time.Second
	cfg.Broker.Login = 61409959
	cfg.Broker.Server = "Demo-Server"
	return NewClient(&cfg, zaptest.NewLogger(t))
}

func writeOK(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true,"data":`+data+`}`)
}

func TestLoginSendsCredentials(t *testing.T) {
	var got loginRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		writeOK(w, `{"login":61409959,"server":"Demo-Server","balance":1000}`)
	})

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.Login != 61409959 || got.Server != "Demo-Server" {
		t.Fatalf("login payload = %+v", got)
	}
}

func TestLoginBridgeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"error":"authorization failed"}`)
	})
	err := c.Login(context.Background())
	if err == nil || !strings.Contains(err.Error(), "authorization failed") {
		t.Fatalf("want bridge error, got %v", err)
	}
}

func TestSymbolConstraints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/symbol/EURUSD" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeOK(w, `{"name":"EURUSD","volume_min":0.01,"volume_max":100,"volume_step":0.01,"digits":5}`)
	})

	sc, err := c.SymbolConstraints(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("SymbolConstraints: %v", err)
	}
	if sc.MinLot != 0.01 || sc.MaxLot != 100 || sc.LotStep != 0.01 || sc.Digits != 5 {
		t.Fatalf("constraints = %+v", sc)
	}
}

func TestSymbolConstraintsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, `null`)
	})
	_, err := c.SymbolConstraints(context.Background(), "XXXYYY")
	if !errors.Is(err, models.ErrSymbolUnavailable) {
		t.Fatalf("want ErrSymbolUnavailable, got %v", err)
	}
}

func TestSelectSymbolNotSelected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, `{"selected":false}`)
	})
	if err := c.SelectSymbol(context.Background(), "EURUSD"); !errors.Is(err, models.ErrSymbolUnavailable) {
		t.Fatalf("want ErrSymbolUnavailable, got %v", err)
	}
}

func TestTickAndCalcProfit(t *testing.T) {
	var calc calcProfitRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tick/EURUSD":
			writeOK(w, `{"bid":1.1000,"ask":1.1002,"time":1700000000}`)
		case "/order/calc_profit":
			body, _ := io.ReadAll(r.Body)
			_ = sonic.Unmarshal(body, &calc)
			writeOK(w, `{"profit":-10}`)
		default:
			http.NotFound(w, r)
		}
	})

	tick, err := c.Tick(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if tick.Price(models.DirectionSell) != 1.1000 || tick.Price(models.DirectionBuy) != 1.1002 {
		t.Fatalf("tick = %+v", tick)
	}

	p, err := c.CalcProfit(context.Background(), models.DirectionSell, "EURUSD", 1, 1.1000, 1.1010)
	if err != nil {
		t.Fatalf("CalcProfit: %v", err)
	}
	if p != -10 {
		t.Fatalf("profit = %v", p)
	}
	if calc.Type != int(models.OrderTypeSell) || calc.PriceClose != 1.1010 {
		t.Fatalf("calc payload = %+v", calc)
	}
}

func TestCalcProfitNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, `{"profit":null}`)
	})
	if _, err := c.CalcProfit(context.Background(), models.DirectionBuy, "EURUSD", 1, 1, 2); err == nil {
		t.Fatalf("want error on null profit")
	}
}

func TestOrderSendReturnsRetcode(t *testing.T) {
	var got models.OrderRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		writeOK(w, `{"retcode":10030,"order":0,"deal":0,"comment":"Unsupported filling mode"}`)
	})

	res, err := c.OrderSend(context.Background(), models.OrderRequest{
		Action:      models.TradeActionDeal,
		Symbol:      "EURUSD",
		Volume:      0.1,
		Type:        models.OrderTypeBuy,
		Price:       1.1002,
		TypeFilling: models.FillingIOC,
		Comment:     "abc_market",
	})
	if err != nil {
		t.Fatalf("OrderSend: %v", err)
	}
	if res.Done() || res.Retcode != 10030 {
		t.Fatalf("result = %+v", res)
	}
	if got.TypeFilling != models.FillingIOC || got.Comment != "abc_market" || got.Action != models.TradeActionDeal {
		t.Fatalf("request = %+v", got)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	if _, err := c.Tick(context.Background(), "EURUSD"); err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("want http 502 error, got %v", err)
	}
}

func TestTruncatedBodyIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = io.WriteString(w, `{"ok":true`)
	})
	_, err := c.Tick(context.Background(), "EURUSD")
	if err == nil || !strings.Contains(err.Error(), "read body") {
		t.Fatalf("want read body error, got %v", err)
	}
}
