package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	OrdersPlaced    prometheus.Counter
	OrdersApproved  prometheus.Counter
	OrdersRejected  prometheus.Counter
	OrdersCompleted prometheus.Counter

	//在庫不足のまま強制承認された件数
	OverbookApprovals prometheus.Counter

	SSESubscribers prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders created via checkout",
		}),
		OrdersApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_approved_total",
			Help: "Orders approved by an admin",
		}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Orders rejected by an admin",
		}),
		OrdersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_completed_total",
			Help: "Orders marked completed",
		}),
		OverbookApprovals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_overbook_approvals_total",
			Help: "Approvals forced past the live-stock warning",
		}),
		SSESubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_sse_subscribers",
			Help: "Currently connected change-feed subscribers",
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.OrdersPlaced,
		m.OrdersApproved,
		m.OrdersRejected,
		m.OrdersCompleted,
		m.OverbookApprovals,
		m.SSESubscribers,
	)

	return m
}
