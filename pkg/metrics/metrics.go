// Package metrics exposes oracle invocation counters on a Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oracle"

const (
	Outcome_Success       = "success"
	Outcome_DecodeFailure = "decode_failure"
	Outcome_EncodeFailure = "encode_failure"
)

type Metrics struct {
	invocations        *prometheus.CounterVec
	verdicts           *prometheus.CounterVec
	priceFetchFailures *prometheus.CounterVec
	invocationDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics registers the oracle collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewMetricsWithRegistry(reg, reg)
}

func NewMetricsWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Oracle invocations by outcome.",
		}, []string{"outcome"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts produced by the resolver.",
		}, []string{"strategy", "result"}),
		priceFetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fetch_failures_total",
			Help:      "Price fetches that fell back to a false verdict.",
		}, []string{"reason"}),
		invocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of a single oracle invocation.",
			Buckets:   prometheus.DefBuckets,
		}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.invocations, m.verdicts, m.priceFetchFailures, m.invocationDuration)
	return m
}

func (m *Metrics) ObserveInvocation(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(outcome).Inc()
	m.invocationDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveVerdict(strategy string, result bool) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(strategy, strconv.FormatBool(result)).Inc()
}

func (m *Metrics) ObservePriceFetchFailure(reason string) {
	if m == nil {
		return
	}
	m.priceFetchFailures.WithLabelValues(reason).Inc()
}

// Handler serves the collectors registered on this Metrics' gatherer.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
