package service

import (
	"errors"
	"time"

	"csvprep/internal/services/preprocess/domain"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	runs     *prometheus.CounterVec
	rows     *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		runs: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvprep",
			Name:      "runs_total",
			Help:      "Preprocess runs by outcome kind",
		}, []string{"kind"})),
		rows: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvprep",
			Name:      "rows_total",
			Help:      "Data rows seen by stage (in, out, duplicate)",
		}, []string{"stage"})),
		bytes: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvprep",
			Name:      "object_bytes_total",
			Help:      "Object bytes read and written",
		}, []string{"direction"})),
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "csvprep",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a preprocess run",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"kind"})),
	}
	m.runs.WithLabelValues(domain.KindNone.Label())
	for _, k := range domain.Kinds {
		m.runs.WithLabelValues(k.Label())
	}
	return m
}

func (m *metrics) observe(res domain.Result, elapsed time.Duration) {
	kind := res.Kind.Label()
	m.runs.WithLabelValues(kind).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if st := res.Stats; st != nil {
		m.rows.WithLabelValues("in").Add(float64(st.RowsIn))
		m.rows.WithLabelValues("out").Add(float64(st.RowsOut))
		m.rows.WithLabelValues("duplicate").Add(float64(st.Duplicates))
		m.bytes.WithLabelValues("read").Add(float64(st.BytesIn))
		m.bytes.WithLabelValues("written").Add(float64(st.BytesOut))
	}
}

// register reuses a collector already on reg so several services can share one registry
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
