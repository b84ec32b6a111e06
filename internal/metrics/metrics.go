// Package metrics exposes run counters on a private Prometheus registry.
// The registry is written once at exit in the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results recorded by ObserveLookup.
const (
	LookupFound   = "found"
	LookupMissing = "missing"
	LookupError   = "error"
)

// Metrics holds the collectors for a single run. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RangesFetched  prometheus.Counter
	FetchRetries   prometheus.Counter
	LogsFetched    prometheus.Counter
	EventsDecoded  prometheus.Counter
	DecodeFailures prometheus.Counter
	Lookups        *prometheus.CounterVec
	HeadBlock      prometheus.Gauge
	WindowStart    prometheus.Gauge
}

// New creates and registers all collectors.
func New(network string) *Metrics {
	labels := prometheus.Labels{"network": network}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RangesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ethflow_ranges_fetched_total",
			Help:        "Block ranges successfully queried for order placement logs",
			ConstLabels: labels,
		}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ethflow_fetch_retries_total",
			Help:        "Retried eth_getLogs calls",
			ConstLabels: labels,
		}),
		LogsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ethflow_logs_fetched_total",
			Help:        "Raw logs returned by the log source",
			ConstLabels: labels,
		}),
		EventsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ethflow_events_decoded_total",
			Help:        "Order placement events decoded",
			ConstLabels: labels,
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ethflow_decode_failures_total",
			Help:        "Logs that could not be decoded as order placements",
			ConstLabels: labels,
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ethflow_app_data_lookups_total",
			Help:        "App data label lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
		HeadBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ethflow_head_block",
			Help:        "Head block the scan window ends at",
			ConstLabels: labels,
		}),
		WindowStart: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ethflow_window_start_block",
			Help:        "First block of the scan window",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(
		m.RangesFetched,
		m.FetchRetries,
		m.LogsFetched,
		m.EventsDecoded,
		m.DecodeFailures,
		m.Lookups,
		m.HeadBlock,
		m.WindowStart,
	)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveWindow(from, head uint64) {
	if m == nil {
		return
	}
	m.WindowStart.Set(float64(from))
	m.HeadBlock.Set(float64(head))
}

func (m *Metrics) ObserveRange(logs int) {
	if m == nil {
		return
	}
	m.RangesFetched.Inc()
	m.LogsFetched.Add(float64(logs))
}

func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.FetchRetries.Inc()
}

func (m *Metrics) ObserveDecode(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.EventsDecoded.Inc()
		return
	}
	m.DecodeFailures.Inc()
}

func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}

// WriteTextfile writes the registry to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
