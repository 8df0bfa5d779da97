package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveReportCountsCacheResult(t *testing.T) {
	c := New()
	c.ObserveReport("expense", false, 20*time.Millisecond)
	c.ObserveReport("expense", true, time.Millisecond)
	c.ObserveReport("expense", true, time.Millisecond)

	if got := testutil.ToFloat64(c.reports.WithLabelValues("expense", "hit")); got != 2 {
		t.Fatalf("cache hits want 2 got %v", got)
	}
	if got := testutil.ToFloat64(c.reports.WithLabelValues("expense", "miss")); got != 1 {
		t.Fatalf("cache misses want 1 got %v", got)
	}
}

func TestObserveHTTPAndHandler(t *testing.T) {
	c := New()
	c.ObserveHTTP("GET", "/api/v1/brands", 200, 5*time.Millisecond)
	c.ObserveHTTP("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("unmatched requests want 1 got %v", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `stockflow_http_requests_total{method="GET",route="/api/v1/brands",status="200"} 1`) {
		t.Fatalf("metrics output missing request counter:\n%s", body)
	}
}

func TestAttachEventsCountsChanges(t *testing.T) {
	c := New()
	bus := events.NewBus()
	detach := c.AttachEvents(bus)
	defer detach()

	bus.Publish(context.Background(), events.Event{Name: constants.EventPurchaseChanged, Action: events.ActionCreated})
	if got := testutil.ToFloat64(c.changes.WithLabelValues(constants.EventPurchaseChanged, "created")); got != 1 {
		t.Fatalf("purchase changes want 1 got %v", got)
	}

	var nilCollector *Collector
	nilCollector.ObserveHTTP("GET", "/", 200, time.Millisecond)
}
