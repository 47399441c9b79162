package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signal_bot/internal/modules/health/service"
)

func TestReadyz(t *testing.T) {
	state := service.NewState()
	srv := httptest.NewServer(NewMux(state))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d before ready", resp.StatusCode)
	}

	state.SetReady(true)
	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d after ready", resp.StatusCode)
	}
}

func TestHealthzReportsLastCycle(t *testing.T) {
	state := service.NewState()
	state.SetProcessed(12)
	state.RecordCycle(service.CycleStats{StartedAt: time.Now(), Fetched: 40, New: 3, Placed: 1, Rejected: 2})

	srv := httptest.NewServer(NewMux(state))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Cycles    int64              `json:"cycles"`
		Processed int                `json:"processed"`
		LastCycle service.CycleStats `json:"lastCycle"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Cycles != 1 || body.Processed != 12 || body.LastCycle.Fetched != 40 || body.LastCycle.Placed != 1 {
		t.Fatalf("healthz = %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewMux(service.NewState()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestStatusText(t *testing.T) {
	state := service.NewState()
	if !strings.Contains(state.Status(), "Первый цикл") {
		t.Fatalf("status before first cycle: %s", state.Status())
	}
	state.RecordCycle(service.CycleStats{StartedAt: time.Now(), Fetched: 5, Err: "feed down"})
	if s := state.Status(); !strings.Contains(s, "фид=5") || !strings.Contains(s, "feed down") {
		t.Fatalf("status: %s", s)
	}
}
