package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DeliverySent    = "sent"
	DeliverySkipped = "skipped"
	DeliveryFailed  = "failed"
)

// Metrics holds the service collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	connections  prometheus.Gauge
	registered   prometheus.Gauge
	messages     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	deliveries   *prometheus.CounterVec
	tickDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presence_socket_connections",
			Help: "Open device socket connections.",
		}),
		registered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presence_socket_registered_devices",
			Help: "Device ids with a registered connection.",
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_socket_messages_total",
			Help: "Inbound socket messages by event.",
		}, []string{"event"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_socket_state_transitions_total",
			Help: "Detected device state transitions by new status.",
		}, []string{"status"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_socket_config_deliveries_total",
			Help: "Broadcaster config-update deliveries by result.",
		}, []string{"result"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "presence_socket_broadcast_tick_seconds",
			Help:    "Duration of a broadcaster tick.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections, m.registered, m.messages, m.transitions, m.deliveries, m.tickDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) SetConnections(n int) {
	if m == nil {
		return
	}
	m.connections.Set(float64(n))
}

func (m *Metrics) SetRegistered(n int) {
	if m == nil {
		return
	}
	m.registered.Set(float64(n))
}

func (m *Metrics) ObserveMessage(event string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveDelivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}
