package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePickCountsByOutcome(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()))

	m.ObservePick("success", 20*time.Millisecond, 35)
	m.ObservePick("success", 10*time.Millisecond, 3)
	m.ObservePick("invalid_player", time.Millisecond, 0)

	if got := promtestutil.ToFloat64(m.picks.WithLabelValues("success")); got != 2 {
		t.Fatalf("success runs = %v, want 2", got)
	}
	if got := promtestutil.ToFloat64(m.picks.WithLabelValues("invalid_player")); got != 1 {
		t.Fatalf("invalid_player runs = %v, want 1", got)
	}
	if got := promtestutil.CollectAndCount(m.pickPartitions); got != 1 {
		t.Fatalf("partitions series = %d, want 1", got)
	}
}

func TestInstrumentRecordsStatus(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	handler := m.Instrument("/api/v1/picker", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/picker", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := promtestutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/picker", "post", "409")); got != 1 {
		t.Fatalf("requests = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.NotificationFailed()
	m.IncAutoPickSkipped()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{
		"footy_email_team_announcements_failed_total 1",
		"footy_picker_auto_pick_skipped_total 1",
	} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("metrics output missing %q", name)
		}
	}
}

func TestRuntimeCollectorsUseConfiguredRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewManager(WithRuntimeCollectors(), WithRegistry(registry))

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == "go_goroutines" {
			return
		}
	}
	t.Fatal("go runtime metrics missing from the configured registry")
}
