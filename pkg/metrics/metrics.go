// Package metrics 提供 Prometheus helper，包含 HTTP 与业务指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	DocumentsVerifiedTotal prometheus.Counter
	PayoutsTotal           *prometheus.CounterVec
	BroadcastsTotal        prometheus.Counter
	ArchiveRunsTotal       *prometheus.CounterVec
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DocumentsVerifiedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "documents_verified_total",
			Help:      "Total documents marked verified",
		}),
		PayoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "payouts_total",
			Help:      "Total payout requests by outcome",
		}, []string{"status"}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "broadcasts_total",
			Help:      "Total announcement broadcasts",
		}),
		ArchiveRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: serviceName,
			Name:      "archive_runs_total",
			Help:      "Total archive operations by kind and outcome",
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DocumentsVerifiedTotal,
		m.PayoutsTotal,
		m.BroadcastsTotal,
		m.ArchiveRunsTotal,
	)

	return m
}

// Handler 返回 Prometheus 指标暴露的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
