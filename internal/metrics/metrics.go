package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	MessagesAppended *prometheus.CounterVec
	UploadBytes      prometheus.Counter
	DataLoads        *prometheus.CounterVec
	ViewConnections  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MessagesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perepiska_messages_appended_total",
			Help: "Messages appended to conversations, by message kind.",
		}, []string{"kind"}),
		UploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perepiska_upload_bytes_total",
			Help: "Bytes of attachments uploaded in this session.",
		}),
		DataLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perepiska_data_loads_total",
			Help: "Startup data loads, by result (loaded or fallback).",
		}, []string{"result"}),
		ViewConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perepiska_view_connections",
			Help: "Open websocket connections from the view.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.MessagesAppended,
		m.UploadBytes,
		m.DataLoads,
		m.ViewConnections,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
