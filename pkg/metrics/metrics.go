// Package metrics 提供 Prometheus helper，包含本服务常用的 counter/histogram
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// 期权链构建计数与耗时
	ChainBuildsTotal   prometheus.Counter
	ChainBuildDuration prometheus.Histogram

	// 下单计数（按方向）与失败计数
	OrdersPlacedTotal  *prometheus.CounterVec
	OrderFailuresTotal prometheus.Counter

	// 定价失败（流动性不足等）
	PricingFailuresTotal prometheus.Counter
}

// New 创建并注册指标集合
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: registry,
		ChainBuildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "optionsdesk_chain_builds_total",
			Help:        "Total number of options chain builds",
			ConstLabels: labels,
		}),
		ChainBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "optionsdesk_chain_build_duration_seconds",
			Help:        "Options chain build duration",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		OrdersPlacedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "optionsdesk_orders_placed_total",
			Help:        "Total number of orders handed to the submission sink",
			ConstLabels: labels,
		}, []string{"side"}),
		OrderFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "optionsdesk_order_failures_total",
			Help:        "Total number of failed order submissions",
			ConstLabels: labels,
		}),
		PricingFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "optionsdesk_pricing_failures_total",
			Help:        "Total number of pricing failures (insufficient liquidity)",
			ConstLabels: labels,
		}),
	}

	registry.MustRegister(
		m.ChainBuildsTotal,
		m.ChainBuildDuration,
		m.OrdersPlacedTotal,
		m.OrderFailuresTotal,
		m.PricingFailuresTotal,
	)
	return m
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
