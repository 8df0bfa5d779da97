package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/stockflow/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockflow"

// Collector 应用指标集合，使用独立 registry
type Collector struct {
	registry       *prometheus.Registry
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	reports        *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	changes        *prometheus.CounterVec
}

// New 创建并注册指标
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Completion and expense reports served, by cache result.",
		}, []string{"kind", "cache"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Report computation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_changes_total",
			Help:      "Committed data changes by entity event and action.",
		}, []string{"event", "action"}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpDuration,
		c.reports,
		c.reportDuration,
		c.changes,
	)
	return c
}

// Handler 暴露 /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP 记录一次 HTTP 请求
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveReport 记录一次报表计算
func (c *Collector) ObserveReport(kind string, cacheHit bool, duration time.Duration) {
	if c == nil {
		return
	}
	result := "miss"
	if cacheHit {
		result = "hit"
	}
	c.reports.WithLabelValues(kind, result).Inc()
	if !cacheHit {
		c.reportDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// AttachEvents 统计数据变更事件
func (c *Collector) AttachEvents(bus *events.Bus) func() {
	return bus.SubscribeAll(func(_ context.Context, event events.Event) {
		c.changes.WithLabelValues(event.Name, string(event.Action)).Inc()
	})
}
