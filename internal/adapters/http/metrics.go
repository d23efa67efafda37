package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the Prometheus instruments of one server instance.
// Each handler gets its own registry so multiple servers (and tests) can
// coexist in a process.
type metrics struct {
	registry  *prometheus.Registry
	labels    *prometheus.CounterVec
	skips     prometheus.Counter
	resets    prometheus.Counter
	remaining prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		labels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_labels_total",
			Help: "Labels applied, partitioned by value.",
		}, []string{"value"}),
		skips: factory.NewCounter(prometheus.CounterOpts{
			Name: "tally_skips_total",
			Help: "Skip actions performed.",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "tally_resets_total",
			Help: "Full label resets performed.",
		}),
		remaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tally_rows_remaining",
			Help: "Unlabeled rows left in the dataset.",
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
