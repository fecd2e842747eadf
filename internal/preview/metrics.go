package preview

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	indexedItems  prom.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prom.NewRegistry(),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "uiuadoc",
			Name:      "build_duration_seconds",
			Help:      "Site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uiuadoc",
			Name:      "build_outcomes_total",
			Help:      "Site builds by outcome",
		}, []string{"outcome"}),
		indexedItems: prom.NewGauge(prom.GaugeOpts{
			Namespace: "uiuadoc",
			Name:      "indexed_items",
			Help:      "Items indexed by the last successful build",
		}),
	}
	m.registry.MustRegister(m.buildDuration, m.buildOutcome, m.indexedItems)
	return m
}

func (m *metrics) observeBuild(d time.Duration, items int, err error) {
	m.buildDuration.Observe(d.Seconds())
	if err != nil {
		m.buildOutcome.WithLabelValues("failed").Inc()
		return
	}
	m.buildOutcome.WithLabelValues("success").Inc()
	m.indexedItems.Set(float64(items))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
