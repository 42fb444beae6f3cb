package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adbrowser"

// Manager holds the store's Prometheus metrics on a dedicated registry.
type Manager struct {
	Registry            *prometheus.Registry
	AdsGeneratedTotal   prometheus.Counter
	StatusUpdatesTotal  prometheus.Counter
	CommentsAddedTotal  prometheus.Counter
	FilterChangesTotal  prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	HydrationFailures   *prometheus.CounterVec
	ConnectivityChecks  *prometheus.CounterVec
	AdsStoredGauge      prometheus.Gauge
	OfflineGauge        prometheus.Gauge
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	m := &Manager{
		Registry: registry,
		AdsGeneratedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_generated_total",
			Help:      "Total number of synthetic ads generated.",
		}),
		StatusUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_updates_total",
			Help:      "Total number of ad status changes applied.",
		}),
		CommentsAddedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_added_total",
			Help:      "Total number of comments appended to ads.",
		}),
		FilterChangesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_changes_total",
			Help:      "Total number of filter updates.",
		}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Backing store writes that failed, by key.",
		}, []string{"key"}),
		HydrationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hydration_failures_total",
			Help:      "Persisted snapshots that could not be restored, by key.",
		}, []string{"key"}),
		ConnectivityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connectivity_checks_total",
			Help:      "Observed connectivity checks by resulting state.",
		}, []string{"state"}),
		AdsStoredGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ads_stored",
			Help:      "Number of ads currently held by the store.",
		}),
		OfflineGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "offline",
			Help:      "1 while the store considers the network unreachable.",
		}),
	}

	registry.MustRegister(
		m.AdsGeneratedTotal,
		m.StatusUpdatesTotal,
		m.CommentsAddedTotal,
		m.FilterChangesTotal,
		m.PersistenceFailures,
		m.HydrationFailures,
		m.ConnectivityChecks,
		m.AdsStoredGauge,
		m.OfflineGauge,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Manager) AdsGenerated(n int) {
	m.AdsGeneratedTotal.Add(float64(n))
}

func (m *Manager) StatusUpdated() {
	m.StatusUpdatesTotal.Inc()
}

func (m *Manager) CommentAdded() {
	m.CommentsAddedTotal.Inc()
}

func (m *Manager) FiltersChanged() {
	m.FilterChangesTotal.Inc()
}

func (m *Manager) PersistFailed(key string) {
	m.PersistenceFailures.WithLabelValues(key).Inc()
}

func (m *Manager) HydrationFailed(key string) {
	m.HydrationFailures.WithLabelValues(key).Inc()
}

func (m *Manager) AdsStored(n int) {
	m.AdsStoredGauge.Set(float64(n))
}

func (m *Manager) ConnectivityChecked(offline bool) {
	state := "online"
	value := 0.0
	if offline {
		state = "offline"
		value = 1
	}
	m.ConnectivityChecks.WithLabelValues(state).Inc()
	m.OfflineGauge.Set(value)
}

// NewServer returns nil when no port is configured.
func NewServer(port string, registry *prometheus.Registry) *http.Server {
	if port == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
